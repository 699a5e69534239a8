package app

import (
	"context"

	"github.com/polkiloo/alipay-checkout/internal/domain/model"
	"github.com/polkiloo/alipay-checkout/internal/usecase"
)

// CheckoutFacade aggregates the application operations exposed over HTTP.
type CheckoutFacade struct {
	payments *usecase.PaymentUseCase
}

// NewCheckoutFacade constructs CheckoutFacade.
func NewCheckoutFacade(payments *usecase.PaymentUseCase) *CheckoutFacade {
	return &CheckoutFacade{payments: payments}
}

func (f *CheckoutFacade) CreatePayment(ctx context.Context, input usecase.PaymentInput) (*usecase.CreateResult, error) {
	return f.payments.Create(ctx, input)
}

func (f *CheckoutFacade) PaymentStatus(ctx context.Context, orderNo string) (*model.Payment, error) {
	return f.payments.Status(ctx, orderNo)
}

func (f *CheckoutFacade) HandleNotify(ctx context.Context, shopTransactionID, resultCode, resultMessage string) error {
	return f.payments.Notify(ctx, shopTransactionID, resultCode, resultMessage)
}
