package test

import (
	"context"
	"sync"

	"github.com/polkiloo/alipay-checkout/internal/adapter/easypay"
	"github.com/polkiloo/alipay-checkout/internal/checkout"
	"github.com/polkiloo/alipay-checkout/internal/domain/model"
	"github.com/polkiloo/alipay-checkout/internal/usecase"
)

// PaymentFacadeStub provides controllable behaviour for payment endpoints.
type PaymentFacadeStub struct {
	CreateFn func(context.Context, usecase.PaymentInput) (*usecase.CreateResult, error)
	StatusFn func(context.Context, string) (*model.Payment, error)
	NotifyFn func(context.Context, string, string, string) error
}

// CreatePayment delegates to provided function or returns a default result.
func (s PaymentFacadeStub) CreatePayment(ctx context.Context, input usecase.PaymentInput) (*usecase.CreateResult, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, input)
	}
	return &usecase.CreateResult{
		TransactionID: "stub000001",
		PgCno:         "pg-1",
		PaymentURL:    "https://wallet.example/pay",
	}, nil
}

// PaymentStatus returns configured payment data.
func (s PaymentFacadeStub) PaymentStatus(ctx context.Context, orderNo string) (*model.Payment, error) {
	if s.StatusFn != nil {
		return s.StatusFn(ctx, orderNo)
	}
	return &model.Payment{OrderNo: orderNo, Status: model.PaymentStatusPending}, nil
}

// HandleNotify executes configured notify handler.
func (s PaymentFacadeStub) HandleNotify(ctx context.Context, shopTransactionID, resultCode, resultMessage string) error {
	if s.NotifyFn != nil {
		return s.NotifyFn(ctx, shopTransactionID, resultCode, resultMessage)
	}
	return nil
}

// GatewayStub simulates the payment gateway for usecase tests.
type GatewayStub struct {
	CreateFn func(context.Context, easypay.TradeRequest) (*easypay.TradeResult, error)
	FindFn   func(context.Context, string, string) (*easypay.TradeStatus, error)

	mu       sync.Mutex
	Requests []easypay.TradeRequest
	Finds    int
}

// Lock exposes internal mutex for external synchronization.
func (s *GatewayStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *GatewayStub) Unlock() { s.mu.Unlock() }

// CreateTrade records the request and returns configured or default result.
func (s *GatewayStub) CreateTrade(ctx context.Context, req easypay.TradeRequest) (*easypay.TradeResult, error) {
	s.mu.Lock()
	s.Requests = append(s.Requests, req)
	s.mu.Unlock()
	if s.CreateFn != nil {
		return s.CreateFn(ctx, req)
	}
	return &easypay.TradeResult{
		PgCno:          "pg-1",
		PaymentPageURL: "https://wallet.example/pay",
	}, nil
}

// FindTrade returns configured status or a default pending one.
func (s *GatewayStub) FindTrade(ctx context.Context, shopTransactionID, pgCno string) (*easypay.TradeStatus, error) {
	s.mu.Lock()
	s.Finds++
	s.mu.Unlock()
	if s.FindFn != nil {
		return s.FindFn(ctx, shopTransactionID, pgCno)
	}
	return &easypay.TradeStatus{Status: model.PaymentStatusPending, StatusCode: "TS00"}, nil
}

// SubmitClientStub records payment submissions for checkout flow tests.
type SubmitClientStub struct {
	SubmitFn func(context.Context, checkout.PaymentSubmission) (*checkout.SubmitResult, error)

	mu          sync.Mutex
	Submissions []checkout.PaymentSubmission
}

// SubmitPayment records the submission and returns configured or default result.
func (s *SubmitClientStub) SubmitPayment(ctx context.Context, submission checkout.PaymentSubmission) (*checkout.SubmitResult, error) {
	s.mu.Lock()
	s.Submissions = append(s.Submissions, submission)
	s.mu.Unlock()
	if s.SubmitFn != nil {
		return s.SubmitFn(ctx, submission)
	}
	return &checkout.SubmitResult{PaymentURL: "https://wallet.example/pay", TransactionID: "stub000001"}, nil
}

// Recorded returns a snapshot of recorded submissions.
func (s *SubmitClientStub) Recorded() []checkout.PaymentSubmission {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]checkout.PaymentSubmission, len(s.Submissions))
	copy(out, s.Submissions)
	return out
}

// StatusClientStub serves scripted status responses in order, repeating the
// last one once the script is exhausted.
type StatusClientStub struct {
	StatusFn func(context.Context, string) (*checkout.OrderStatus, error)
	Script   []*checkout.OrderStatus
	Err      error

	mu    sync.Mutex
	Calls int
}

// PaymentStatus returns the next scripted status.
func (s *StatusClientStub) PaymentStatus(ctx context.Context, orderNo string) (*checkout.OrderStatus, error) {
	s.mu.Lock()
	call := s.Calls
	s.Calls++
	s.mu.Unlock()
	if s.StatusFn != nil {
		return s.StatusFn(ctx, orderNo)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if len(s.Script) == 0 {
		return &checkout.OrderStatus{OrderNo: orderNo, Status: model.PaymentStatusPending}, nil
	}
	if call >= len(s.Script) {
		call = len(s.Script) - 1
	}
	return s.Script[call], nil
}

// CallCount returns how many status queries were made.
func (s *StatusClientStub) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Calls
}

// NavigatorStub records navigation targets.
type NavigatorStub struct {
	NavigateFn func(context.Context, string) error

	mu      sync.Mutex
	Targets []string
}

// Navigate records the target.
func (s *NavigatorStub) Navigate(ctx context.Context, target string) error {
	s.mu.Lock()
	s.Targets = append(s.Targets, target)
	s.mu.Unlock()
	if s.NavigateFn != nil {
		return s.NavigateFn(ctx, target)
	}
	return nil
}

// Visited returns a snapshot of recorded navigation targets.
func (s *NavigatorStub) Visited() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.Targets))
	copy(out, s.Targets)
	return out
}
