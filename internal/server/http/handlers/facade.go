package handlers

import (
	"context"

	"github.com/polkiloo/alipay-checkout/internal/domain/model"
	"github.com/polkiloo/alipay-checkout/internal/usecase"
)

// PaymentFacade describes payment capabilities required by handlers.
type PaymentFacade interface {
	CreatePayment(ctx context.Context, input usecase.PaymentInput) (*usecase.CreateResult, error)
	PaymentStatus(ctx context.Context, orderNo string) (*model.Payment, error)
	HandleNotify(ctx context.Context, shopTransactionID, resultCode, resultMessage string) error
}
