package usecase

import (
	domainErrors "github.com/polkiloo/alipay-checkout/internal/domain/errors"
)

// ValidatePaymentInput checks the invariants a payment registration must hold.
func ValidatePaymentInput(input PaymentInput) error {
	if input.OrderNo == "" {
		return domainErrors.ErrNoOrderNumber
	}
	if input.TotalAmount < 1 {
		return domainErrors.ErrInvalidAmount
	}
	if input.WalletBrand != "" && !input.WalletBrand.Valid() {
		return domainErrors.ErrUnknownWallet
	}
	return nil
}
