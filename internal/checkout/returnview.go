package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/polkiloo/alipay-checkout/internal/domain/model"
)

const mountDelay = 100 * time.Millisecond

// ReturnState classifies how the return view presents the outcome.
type ReturnState string

const (
	ReturnSuccess ReturnState = "success"
	ReturnFailed  ReturnState = "failed"
	ReturnPending ReturnState = "pending"
)

// OrderDetails is the subset of the order shown on the return page.
type OrderDetails struct {
	OrderNo   string
	GoodsName string
	Currency  string
	Amount    float64
	CreatedAt time.Time
}

// Resolution is the final presentation of the return view.
type Resolution struct {
	State   ReturnState
	Heading string
	Message string
	Details *OrderDetails
}

// Presentation is the heading/message pair for a settlement outcome.
type Presentation struct {
	State   ReturnState
	Heading string
	Message string
}

// MapStatus maps a settlement status to its return-page presentation. A
// failed payment shows the gateway's reason when one was recorded.
func MapStatus(status model.PaymentStatus, resultMessage string) Presentation {
	switch status {
	case model.PaymentStatusSuccess:
		return Presentation{
			State:   ReturnSuccess,
			Heading: "Payment Successful!",
			Message: "Payment successful!",
		}
	case model.PaymentStatusFailed:
		reason := resultMessage
		if reason == "" {
			reason = "Unknown error"
		}
		return Presentation{
			State:   ReturnFailed,
			Heading: "Payment Failed",
			Message: fmt.Sprintf("Payment failed: %s", reason),
		}
	case model.PaymentStatusPending:
		return Presentation{
			State:   ReturnPending,
			Heading: "Processing Payment",
			Message: "Payment is still being processed. Please wait...",
		}
	default:
		return Presentation{
			State:   ReturnPending,
			Heading: "Processing Payment",
			Message: "Payment status is being verified. Please check back later.",
		}
	}
}

// Resolver produces the return view's resolution from the orderNo carried in
// the return URL. It waits briefly after mount, then queries the status once.
type Resolver struct {
	statuses StatusClient
	logger   *slog.Logger
	delay    time.Duration
}

func NewResolver(statuses StatusClient, logger *slog.Logger) *Resolver {
	return &Resolver{
		statuses: statuses,
		logger:   logger,
		delay:    mountDelay,
	}
}

// Resolve performs the single status lookup for the return view. An empty
// orderNo resolves to a failed presentation without any network call.
func (r *Resolver) Resolve(ctx context.Context, orderNo string) (*Resolution, error) {
	if orderNo == "" {
		return &Resolution{
			State:   ReturnFailed,
			Heading: "Payment Failed",
			Message: "No order number found in URL",
		}, nil
	}

	wait := time.NewTimer(r.delay)
	defer wait.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-wait.C:
	}

	status, err := r.statuses.PaymentStatus(ctx, orderNo)
	if err != nil {
		r.logger.Error("return status lookup failed", "order_no", orderNo, "error", err)
		reason := err.Error()
		var statusErr StatusError
		if errors.As(err, &statusErr) {
			reason = statusErr.Message
		}
		return &Resolution{
			State:   ReturnFailed,
			Heading: "Payment Failed",
			Message: fmt.Sprintf("Error: %s", reason),
		}, nil
	}

	presentation := MapStatus(status.Status, status.ResultMessage)
	resolution := &Resolution{
		State:   presentation.State,
		Heading: presentation.Heading,
		Message: presentation.Message,
		Details: &OrderDetails{
			OrderNo:   status.OrderNo,
			GoodsName: status.GoodsName,
			Currency:  status.Currency,
			Amount:    float64(status.TotalAmount) / 100,
			CreatedAt: status.CreatedAt,
		},
	}
	r.logger.Info(fmt.Sprintf("return view resolved as %s", presentation.State),
		"order_no", orderNo,
	)
	return resolution, nil
}
