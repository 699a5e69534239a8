package checkout

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/polkiloo/alipay-checkout/internal/domain/model"
)

// FlowState tracks where the processing view is in the payment journey.
type FlowState string

const (
	FlowIdle                FlowState = "IDLE"
	FlowRedirecting         FlowState = "REDIRECTING"
	FlowWaitingConfirmation FlowState = "WAITING_FOR_CONFIRMATION"
	FlowSucceeded           FlowState = "SUCCEEDED"
	FlowFailed              FlowState = "FAILED"
)

// Navigator receives the processor's navigation decisions: first the wallet
// payment URL, then the return route once the payment is terminal.
type Navigator interface {
	Navigate(ctx context.Context, target string) error
}

// Processor drives the processing view: a delayed redirect to the wallet,
// then periodic status polling until the payment settles.
type Processor struct {
	handles       *HandleStore
	statuses      StatusClient
	navigator     Navigator
	logger        *slog.Logger
	redirectDelay time.Duration
	pollInterval  time.Duration

	mu    sync.Mutex
	state FlowState

	polling atomic.Bool
}

func NewProcessor(
	handles *HandleStore,
	statuses StatusClient,
	navigator Navigator,
	logger *slog.Logger,
	redirectDelay time.Duration,
	pollInterval time.Duration,
) *Processor {
	return &Processor{
		handles:       handles,
		statuses:      statuses,
		navigator:     navigator,
		logger:        logger,
		redirectDelay: redirectDelay,
		pollInterval:  pollInterval,
		state:         FlowIdle,
	}
}

// State reports the current flow state.
func (p *Processor) State() FlowState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Processor) setState(state FlowState) {
	p.mu.Lock()
	p.state = state
	p.mu.Unlock()
}

// Run executes the processing flow for the stored pending handle and blocks
// until the payment reaches a terminal status or ctx is cancelled. Without a
// pending handle it returns immediately in the idle state.
func (p *Processor) Run(ctx context.Context) (FlowState, error) {
	handle, ok := p.handles.Peek()
	if !ok {
		p.logger.Warn("no pending payment to process")
		p.setState(FlowIdle)
		return FlowIdle, nil
	}

	p.setState(FlowRedirecting)
	p.logger.Info("redirect scheduled",
		"order_no", handle.OrderNo,
		"delay", p.redirectDelay,
	)

	redirect := time.NewTimer(p.redirectDelay)
	defer redirect.Stop()
	select {
	case <-ctx.Done():
		return p.State(), ctx.Err()
	case <-redirect.C:
	}

	p.setState(FlowWaitingConfirmation)
	if err := p.navigator.Navigate(ctx, handle.PaymentURL); err != nil {
		p.logger.Error("wallet redirect failed", "error", err)
	}

	results := make(chan FlowState, 1)
	p.poll(ctx, handle.OrderNo, results)

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return p.State(), ctx.Err()
		case final := <-results:
			return p.finish(ctx, handle.OrderNo, final)
		case <-ticker.C:
			p.poll(ctx, handle.OrderNo, results)
		}
	}
}

// poll runs one status query in the background. Overlapping polls are
// suppressed: a tick that fires while a query is in flight is skipped.
func (p *Processor) poll(ctx context.Context, orderNo string, results chan<- FlowState) {
	if !p.polling.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer p.polling.Store(false)

		status, err := p.statuses.PaymentStatus(ctx, orderNo)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				p.logger.Error("status poll failed", "order_no", orderNo, "error", err)
			}
			return
		}
		p.logger.Info("status polled", "order_no", orderNo, "status", status.Status)
		if !status.Status.Terminal() {
			return
		}
		final := FlowFailed
		if status.Status == model.PaymentStatusSuccess {
			final = FlowSucceeded
		}
		select {
		case results <- final:
		default:
		}
	}()
}

func (p *Processor) finish(ctx context.Context, orderNo string, final FlowState) (FlowState, error) {
	p.setState(final)
	if err := p.handles.Clear(); err != nil {
		p.logger.Warn("pending payment already cleared", "order_no", orderNo)
	}
	if err := p.navigator.Navigate(ctx, ReturnRouteFor(orderNo)); err != nil {
		p.logger.Error("return redirect failed", "error", err)
	}
	return final, nil
}
