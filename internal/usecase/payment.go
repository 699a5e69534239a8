package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/polkiloo/alipay-checkout/internal/adapter/easypay"
	domainErrors "github.com/polkiloo/alipay-checkout/internal/domain/errors"
	"github.com/polkiloo/alipay-checkout/internal/domain/model"
	"github.com/polkiloo/alipay-checkout/internal/domain/repository"
)

// shopTransactionIDLength matches the gateway's expectation for merchant transaction ids.
const shopTransactionIDLength = 10

// Gateway is the slice of the payment gateway used by the payment lifecycle.
type Gateway interface {
	CreateTrade(ctx context.Context, req easypay.TradeRequest) (*easypay.TradeResult, error)
	FindTrade(ctx context.Context, shopTransactionID, pgCno string) (*easypay.TradeStatus, error)
}

// PaymentInput carries everything needed to register a payment with the gateway.
type PaymentInput struct {
	OrderNo     string
	GoodsName   string
	GoodsDetail string
	ReturnURL   string
	NotifyURL   string
	Currency    string
	TotalAmount int64
	WalletBrand model.WalletBrand
}

// CreateResult is returned to the shopper after a successful registration.
type CreateResult struct {
	TransactionID string
	PgCno         string
	PaymentURL    string
	NormalURL     string
}

// PaymentUseCase encapsulates payment lifecycle logic.
type PaymentUseCase struct {
	payments repository.PaymentRepository
	gateway  Gateway
	logger   *slog.Logger
}

// NewPaymentUseCase constructs PaymentUseCase.
func NewPaymentUseCase(payments repository.PaymentRepository, gateway Gateway, logger *slog.Logger) *PaymentUseCase {
	return &PaymentUseCase{payments: payments, gateway: gateway, logger: logger}
}

// Create registers a trade with the gateway and persists a PENDING payment record.
// Nothing is persisted when the gateway declines.
func (u *PaymentUseCase) Create(ctx context.Context, input PaymentInput) (*CreateResult, error) {
	if err := ValidatePaymentInput(input); err != nil {
		return nil, err
	}

	brand := model.NormalizeWalletBrand(input.WalletBrand)
	shopTransactionID := NewShopTransactionID()

	trade, err := u.gateway.CreateTrade(ctx, easypay.TradeRequest{
		ShopTransactionID: shopTransactionID,
		OrderNo:           input.OrderNo,
		GoodsName:         input.GoodsName,
		GoodsDetail:       input.GoodsDetail,
		ReturnURL:         input.ReturnURL,
		NotifyURL:         input.NotifyURL,
		WalletBrand:       brand,
		Currency:          input.Currency,
		TotalAmount:       input.TotalAmount,
	})
	if err != nil {
		return nil, err
	}

	payment := &model.Payment{
		OrderNo:           input.OrderNo,
		ShopTransactionID: shopTransactionID,
		PgCno:             trade.PgCno,
		GoodsName:         input.GoodsName,
		GoodsDetail:       input.GoodsDetail,
		Currency:          input.Currency,
		TotalAmount:       input.TotalAmount,
		Status:            model.PaymentStatusPending,
		PaymentURL:        trade.PaymentPageURL,
		WalletBrand:       brand,
	}
	if _, err := u.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	u.logger.Info("payment registered",
		slog.String("order", input.OrderNo),
		slog.String("transaction", shopTransactionID),
	)

	return &CreateResult{
		TransactionID: shopTransactionID,
		PgCno:         trade.PgCno,
		PaymentURL:    trade.PaymentPageURL,
		NormalURL:     trade.NormalURL,
	}, nil
}

// Status returns the payment record for the order, refreshed from the gateway
// when the gateway has fresh information. A gateway decline on the lookup is
// not fatal: the stored snapshot is returned unchanged.
func (u *PaymentUseCase) Status(ctx context.Context, orderNo string) (*model.Payment, error) {
	payment, err := u.payments.GetByOrderNo(ctx, orderNo)
	if err != nil {
		return nil, err
	}

	trade, err := u.gateway.FindTrade(ctx, payment.ShopTransactionID, payment.PgCno)
	if err != nil {
		var declined easypay.DeclinedError
		if errors.As(err, &declined) {
			u.logger.Warn("gateway has no fresh status",
				slog.String("order", orderNo),
				slog.String("code", declined.Code),
			)
			return payment, nil
		}
		return nil, err
	}

	payment.Status = trade.Status
	payment.StatusCode = trade.StatusCode
	payment.ResultCode = trade.ResultCode
	payment.ResultMessage = trade.ResultMessage
	if trade.ApprovalDate != "" {
		payment.ApprovalDate = trade.ApprovalDate
	}
	if trade.WalletBrand != "" {
		payment.WalletBrand = trade.WalletBrand
	}

	if err := u.payments.Update(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// Notify folds an asynchronous gateway callback into the payment record.
// Callbacks for unknown transactions are ignored.
func (u *PaymentUseCase) Notify(ctx context.Context, shopTransactionID, resultCode, resultMessage string) error {
	payment, err := u.payments.GetByShopTransactionID(ctx, shopTransactionID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			u.logger.Warn("notify for unknown transaction", slog.String("transaction", shopTransactionID))
			return nil
		}
		return err
	}

	payment.ResultCode = resultCode
	payment.ResultMessage = resultMessage
	if resultCode == "0000" {
		payment.Status = model.PaymentStatusSuccess
	} else {
		payment.Status = model.PaymentStatusFailed
	}

	return u.payments.Update(ctx, payment)
}

// NewShopTransactionID generates a merchant transaction id the gateway accepts.
func NewShopTransactionID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:shopTransactionIDLength]
}
