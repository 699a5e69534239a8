package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/polkiloo/alipay-checkout/internal/domain/model"
)

const (
	orderPrefix     = "ORD"
	defaultCurrency = "USD"
	notifyPath      = "/api/payment/notify"
)

// Submission is the outcome of a cart submission: either a redirect handle
// stored for the processing view, or an immediately settled transaction id.
type Submission struct {
	OrderNo       string
	TransactionID string
	NextRoute     string
}

// Submitter turns a cart and wallet choice into a payment request and
// dispatches it to the shop backend exactly once per invocation.
type Submitter struct {
	client  SubmitClient
	handles *HandleStore
	baseURL string
	logger  *slog.Logger
	now     func() time.Time
}

func NewSubmitter(client SubmitClient, handles *HandleStore, baseURL string, logger *slog.Logger) *Submitter {
	return &Submitter{
		client:  client,
		handles: handles,
		baseURL: baseURL,
		logger:  logger,
		now:     time.Now,
	}
}

// NewOrderNo builds the order number from the current wall clock.
func (s *Submitter) NewOrderNo() string {
	return fmt.Sprintf("%s%d", orderPrefix, s.now().UnixMilli())
}

// Submit sends the cart as a payment request. On success with a payment URL,
// the pending handle is stored and the caller should follow NextRoute.
func (s *Submitter) Submit(ctx context.Context, cart *Cart, brand model.WalletBrand) (*Submission, error) {
	orderNo := s.NewOrderNo()

	submission := PaymentSubmission{
		OrderNo:     orderNo,
		GoodsName:   cart.GoodsName(),
		GoodsDetail: cart.GoodsDetail(),
		ReturnURL:   s.baseURL + RouteReturn,
		NotifyURL:   s.baseURL + notifyPath,
		Currency:    defaultCurrency,
		TotalAmount: cart.TotalMinorUnits(),
		WalletBrand: brand,
	}

	result, err := s.client.SubmitPayment(ctx, submission)
	if err != nil {
		s.logger.Error("payment submission rejected", "order_no", orderNo, "error", err)
		return nil, err
	}

	if result.PaymentURL == "" {
		s.logger.Info("payment settled without redirect",
			"order_no", orderNo,
			"transaction_id", result.TransactionID,
		)
		return &Submission{OrderNo: orderNo, TransactionID: result.TransactionID}, nil
	}

	s.handles.Put(Handle{PaymentURL: result.PaymentURL, OrderNo: orderNo})
	s.logger.Info("payment submitted",
		"order_no", orderNo,
		"transaction_id", result.TransactionID,
	)
	return &Submission{
		OrderNo:       orderNo,
		TransactionID: result.TransactionID,
		NextRoute:     RouteProcessing,
	}, nil
}
