package test

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/alipay-checkout/internal/domain/errors"
	"github.com/polkiloo/alipay-checkout/internal/domain/model"
)

// PaymentRepositoryStub stores payments in-memory for tests.
type PaymentRepositoryStub struct {
	CreateFn                 func(context.Context, *model.Payment) (*model.Payment, error)
	GetByOrderNoFn           func(context.Context, string) (*model.Payment, error)
	GetByShopTransactionIDFn func(context.Context, string) (*model.Payment, error)
	UpdateFn                 func(context.Context, *model.Payment) error

	mu       sync.Mutex
	Payments map[string]*model.Payment
	Updates  []model.Payment
	Next     int64
}

// NewPaymentRepositoryStub constructs stub repository with initialized state.
func NewPaymentRepositoryStub() *PaymentRepositoryStub {
	return &PaymentRepositoryStub{
		Payments: make(map[string]*model.Payment),
		Next:     1,
	}
}

// Create registers payment unless the order number is already taken.
func (s *PaymentRepositoryStub) Create(ctx context.Context, payment *model.Payment) (*model.Payment, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, payment)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Payments == nil {
		s.Payments = make(map[string]*model.Payment)
	}
	if _, exists := s.Payments[payment.OrderNo]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	stored := *payment
	stored.ID = s.Next
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	s.Next++
	s.Payments[stored.OrderNo] = &stored
	out := stored
	return &out, nil
}

// GetByOrderNo fetches payment by order number or returns not found.
func (s *PaymentRepositoryStub) GetByOrderNo(ctx context.Context, orderNo string) (*model.Payment, error) {
	if s.GetByOrderNoFn != nil {
		return s.GetByOrderNoFn(ctx, orderNo)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if payment, ok := s.Payments[orderNo]; ok {
		out := *payment
		return &out, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByShopTransactionID fetches payment by its gateway-side identifier.
func (s *PaymentRepositoryStub) GetByShopTransactionID(ctx context.Context, shopTransactionID string) (*model.Payment, error) {
	if s.GetByShopTransactionIDFn != nil {
		return s.GetByShopTransactionIDFn(ctx, shopTransactionID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, payment := range s.Payments {
		if payment.ShopTransactionID == shopTransactionID {
			out := *payment
			return &out, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// Update records update invocations and replaces the stored payment.
func (s *PaymentRepositoryStub) Update(ctx context.Context, payment *model.Payment) error {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, payment)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Payments[payment.OrderNo]; !ok {
		return domainErrors.ErrNotFound
	}
	stored := *payment
	stored.UpdatedAt = time.Now()
	s.Payments[payment.OrderNo] = &stored
	s.Updates = append(s.Updates, stored)
	return nil
}
