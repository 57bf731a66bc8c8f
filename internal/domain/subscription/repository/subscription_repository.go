package repository

import (
	"time"

	"resto_pay/internal/domain/subscription/model"

	"gorm.io/gorm"
)

type SubscriptionRepository interface {
	GetPaymentByOrderCode(orderCode int64) (*model.SubscriptionPayment, error)

	// MarkPaidAndActivate settles the subscription payment and activates the
	// subscription in one transaction, extending it by period. Guarded the
	// same way order payments are: zero rows updated means a concurrent
	// delivery already won.
	MarkPaidAndActivate(sp *model.SubscriptionPayment, transactionID string, paidAt time.Time, period time.Duration) (won bool, err error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) GetPaymentByOrderCode(orderCode int64) (*model.SubscriptionPayment, error) {
	var sp model.SubscriptionPayment
	if err := r.db.Where("order_code = ?", orderCode).First(&sp).Error; err != nil {
		return nil, err
	}
	return &sp, nil
}

func (r *subscriptionRepository) MarkPaidAndActivate(sp *model.SubscriptionPayment, transactionID string, paidAt time.Time, period time.Duration) (bool, error) {
	won := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.SubscriptionPayment{}).
			Where("id = ? AND status = ?", sp.ID, model.PaymentStatusPending).
			Updates(map[string]interface{}{
				"status":         model.PaymentStatusPaid,
				"transaction_id": transactionID,
				"paid_at":        paidAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		won = true

		return tx.Model(&model.Subscription{}).
			Where("id = ?", sp.SubscriptionID).
			Updates(map[string]interface{}{
				"status":     model.StatusActive,
				"expires_at": paidAt.Add(period),
			}).Error
	})
	return won, err
}
