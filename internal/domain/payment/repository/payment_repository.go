package repository

import (
	"time"

	"resto_pay/internal/domain/payment/model"
	orderRepo "resto_pay/internal/domain/order/repository"

	"gorm.io/gorm"
)

// PaymentRepository is the only mutation surface of the payment store. Every
// transition is a conditional update guarded on the current status; callers
// learn from the won flag whether they performed the transition or raced a
// concurrent reconciler and must read back the terminal state.
type PaymentRepository interface {
	Create(p *model.Payment) error

	// SaveArtifact persists the method-specific fields a strategy stamps on a
	// payment after the row already exists (created before any outbound
	// gateway call so a webhook always finds a record). Guarded on pending.
	SaveArtifact(p *model.Payment) error

	// MarkFailed abandons a pending payment whose initiation did not complete.
	MarkFailed(id string) error

	GetByID(id string) (*model.Payment, error)
	GetByOrderCode(orderCode int64) (*model.Payment, error)
	FindPendingBankQRByToken(tok string) (*model.Payment, error)

	// TransitionToPaid marks the payment paid and projects the outcome onto
	// the parent order in one transaction. won is false when another caller
	// got there first (zero rows updated).
	TransitionToPaid(p *model.Payment, transactionID string, paidAt time.Time, confirmedBy string) (won bool, err error)

	// TransitionToExpired expires a pending payment past its expiry.
	TransitionToExpired(id string) (won bool, err error)

	// ExpireStale batch-expires pending payments whose expiry has passed.
	// Used by the optional sweeper; poll handles the correctness path.
	ExpireStale(now time.Time) (int64, error)
}

type paymentRepository struct {
	db     *gorm.DB
	orders orderRepo.OrderRepository
}

func NewPaymentRepository(db *gorm.DB, orders orderRepo.OrderRepository) PaymentRepository {
	return &paymentRepository{db: db, orders: orders}
}

func (r *paymentRepository) Create(p *model.Payment) error {
	return r.db.Create(p).Error
}

func (r *paymentRepository) SaveArtifact(p *model.Payment) error {
	return r.db.Model(&model.Payment{}).
		Where("id = ? AND status = ?", p.ID, model.StatusPending).
		Updates(map[string]interface{}{
			"match_token":      p.MatchToken,
			"transfer_content": p.TransferContent,
			"order_code":       p.OrderCode,
			"expires_at":       p.ExpiresAt,
		}).Error
}

func (r *paymentRepository) MarkFailed(id string) error {
	return r.db.Model(&model.Payment{}).
		Where("id = ? AND status = ?", id, model.StatusPending).
		Update("status", model.StatusFailed).Error
}

func (r *paymentRepository) GetByID(id string) (*model.Payment, error) {
	var p model.Payment
	if err := r.db.Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) GetByOrderCode(orderCode int64) (*model.Payment, error) {
	var p model.Payment
	if err := r.db.Where("order_code = ?", orderCode).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// FindPendingBankQRByToken resolves a webhook token to the most recent pending
// bank transfer payment. Tokens are generated unique per payment, so the
// newest match is the right one even across retries of the same order.
func (r *paymentRepository) FindPendingBankQRByToken(tok string) (*model.Payment, error) {
	var p model.Payment
	err := r.db.
		Where("status = ? AND method = ? AND upper(match_token) = upper(?)",
			model.StatusPending, model.MethodBankQR, tok).
		Order("created_at DESC").
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) TransitionToPaid(p *model.Payment, transactionID string, paidAt time.Time, confirmedBy string) (bool, error) {
	won := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":         model.StatusPaid,
			"transaction_id": transactionID,
			"paid_at":        paidAt,
		}
		if confirmedBy != "" {
			updates["confirmed_by"] = confirmedBy
		}

		res := tx.Model(&model.Payment{}).
			Where("id = ? AND status = ?", p.ID, model.StatusPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost the race; leave the order untouched, the winner projected it.
			return nil
		}
		won = true

		return r.orders.ProjectPaidTx(tx, p.OrderID)
	})
	return won, err
}

func (r *paymentRepository) TransitionToExpired(id string) (bool, error) {
	res := r.db.Model(&model.Payment{}).
		Where("id = ? AND status = ? AND expires_at IS NOT NULL AND expires_at < ?",
			id, model.StatusPending, time.Now()).
		Update("status", model.StatusExpired)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *paymentRepository) ExpireStale(now time.Time) (int64, error) {
	res := r.db.Model(&model.Payment{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?",
			model.StatusPending, now).
		Update("status", model.StatusExpired)
	return res.RowsAffected, res.Error
}
