package repository

import (
	"resto_pay/internal/domain/order/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	GetByID(id string) (*model.Order, error)
	MarkProcessing(orderID string) error
	ProjectPaidTx(tx *gorm.DB, orderID string) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) GetByID(id string) (*model.Order, error) {
	var order model.Order
	if err := r.db.Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// MarkProcessing moves payment_status pending -> processing when a payment is
// initiated. Guarded so it never steps backwards; zero rows affected means the
// order was already processing (payment retry) or paid, both fine to ignore
// here because the service checks the paid case up front.
func (r *orderRepository) MarkProcessing(orderID string) error {
	return r.db.Model(&model.Order{}).
		Where("id = ? AND payment_status = ?", orderID, model.PaymentStatusPending).
		Update("payment_status", model.PaymentStatusProcessing).Error
}

// ProjectPaidTx mirrors a paid payment onto the parent order: payment_status
// becomes paid and the order is considered fulfilled. Runs inside the same
// transaction as the payment transition so the two can never diverge.
func (r *orderRepository) ProjectPaidTx(tx *gorm.DB, orderID string) error {
	return tx.Model(&model.Order{}).
		Where("id = ? AND payment_status <> ?", orderID, model.PaymentStatusPaid).
		Updates(map[string]interface{}{
			"payment_status": model.PaymentStatusPaid,
			"status":         model.StatusCompleted,
		}).Error
}
