package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	domainErrors "github.com/polkiloo/alipay-checkout/internal/domain/errors"
	"github.com/polkiloo/alipay-checkout/internal/domain/model"
	testhelpers "github.com/polkiloo/alipay-checkout/internal/test"
	"github.com/polkiloo/alipay-checkout/internal/usecase"
)

func newTestFacade(payments *testhelpers.PaymentRepositoryStub, gateway *testhelpers.GatewayStub) *CheckoutFacade {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewCheckoutFacade(usecase.NewPaymentUseCase(payments, gateway, logger))
}

func TestCheckoutFacadeCreatePayment(t *testing.T) {
	payments := testhelpers.NewPaymentRepositoryStub()
	facade := newTestFacade(payments, &testhelpers.GatewayStub{})

	result, err := facade.CreatePayment(context.Background(), usecase.PaymentInput{
		OrderNo:     "ORD1",
		GoodsName:   "Goods",
		Currency:    "USD",
		TotalAmount: 100,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.PaymentURL == "" {
		t.Fatal("expected payment url")
	}
	if len(payments.Payments) != 1 {
		t.Fatal("expected payment persisted")
	}
}

func TestCheckoutFacadePaymentStatus(t *testing.T) {
	payments := testhelpers.NewPaymentRepositoryStub()
	facade := newTestFacade(payments, &testhelpers.GatewayStub{})

	if _, err := facade.CreatePayment(context.Background(), usecase.PaymentInput{
		OrderNo:     "ORD1",
		Currency:    "USD",
		TotalAmount: 100,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payment, err := facade.PaymentStatus(context.Background(), "ORD1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment.Status != model.PaymentStatusPending {
		t.Fatalf("expected pending status, got %q", payment.Status)
	}

	if _, err := facade.PaymentStatus(context.Background(), "missing"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCheckoutFacadeHandleNotify(t *testing.T) {
	payments := testhelpers.NewPaymentRepositoryStub()
	facade := newTestFacade(payments, &testhelpers.GatewayStub{})

	result, err := facade.CreatePayment(context.Background(), usecase.PaymentInput{
		OrderNo:     "ORD1",
		Currency:    "USD",
		TotalAmount: 100,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := facade.HandleNotify(context.Background(), result.TransactionID, "0000", "OK"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored, _ := payments.GetByOrderNo(context.Background(), "ORD1")
	if stored.Status != model.PaymentStatusSuccess {
		t.Fatalf("expected success status after notify, got %q", stored.Status)
	}
}
