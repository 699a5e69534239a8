package repository

import (
	"context"

	"github.com/polkiloo/alipay-checkout/internal/domain/model"
)

// PaymentRepository describes persistence operations with payment records.
type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) (*model.Payment, error)
	GetByOrderNo(ctx context.Context, orderNo string) (*model.Payment, error)
	GetByShopTransactionID(ctx context.Context, shopTransactionID string) (*model.Payment, error)
	Update(ctx context.Context, payment *model.Payment) error
}
