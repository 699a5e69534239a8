package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/polkiloo/alipay-checkout/internal/domain/model"
)

const (
	submitPath = "/api/payment/alipay"
	statusPath = "/api/payment/status"
)

// SubmissionError carries the shop backend's reason for rejecting a submission.
type SubmissionError struct {
	Message string
}

func (e SubmissionError) Error() string {
	return e.Message
}

// StatusError is a non-success response from the status endpoint.
type StatusError struct {
	HTTPStatus int
	Message    string
}

func (e StatusError) Error() string {
	return fmt.Sprintf("status lookup failed: %s (http %d)", e.Message, e.HTTPStatus)
}

// PaymentSubmission is the write-once payment request snapshot built from the cart.
type PaymentSubmission struct {
	OrderNo     string            `json:"orderNo"`
	GoodsName   string            `json:"goodsName"`
	GoodsDetail string            `json:"goodsDetail"`
	ReturnURL   string            `json:"returnUrl"`
	NotifyURL   string            `json:"notifyUrl"`
	Currency    string            `json:"currency"`
	TotalAmount int64             `json:"totalAmount"`
	WalletBrand model.WalletBrand `json:"walletBrandName"`
}

// SubmitResult is the useful part of an accepted submission.
type SubmitResult struct {
	PaymentURL    string
	TransactionID string
}

// OrderStatus is a snapshot of the backend's view of an order.
type OrderStatus struct {
	Status            model.PaymentStatus `json:"status"`
	OrderNo           string              `json:"orderNo"`
	ShopTransactionID string              `json:"shopTransactionId"`
	PgCno             string              `json:"pgCno"`
	GoodsName         string              `json:"goodsName"`
	GoodsDetail       string              `json:"goodsDetail"`
	Currency          string              `json:"currency"`
	TotalAmount       int64               `json:"totalAmount"`
	ResultMessage     string              `json:"resultMessage"`
	CreatedAt         time.Time           `json:"createdAt"`
}

// SubmitClient sends payment submissions to the shop backend.
type SubmitClient interface {
	SubmitPayment(ctx context.Context, submission PaymentSubmission) (*SubmitResult, error)
}

// StatusClient queries the shop backend for an order's settlement status.
type StatusClient interface {
	PaymentStatus(ctx context.Context, orderNo string) (*OrderStatus, error)
}

// APIClient implements SubmitClient and StatusClient against the shop's HTTP API.
type APIClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// NewAPIClient creates a shop API client with default timeout.
func NewAPIClient(baseURL string, logger *slog.Logger) (*APIClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse shop url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("shop url must be absolute")
	}
	return &APIClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

type submitResponse struct {
	Success       bool   `json:"success"`
	PaymentURL    string `json:"paymentUrl"`
	TransactionID string `json:"transactionId"`
	Error         string `json:"error"`
}

// SubmitPayment performs the single synchronous order submission exchange.
func (c *APIClient) SubmitPayment(ctx context.Context, submission PaymentSubmission) (*SubmitResult, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, submitPath)

	payload, err := json.Marshal(submission)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var data submitResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK || !data.Success {
		message := data.Error
		if message == "" {
			message = "Unknown error"
		}
		c.logger.Error("submission rejected",
			slog.Int("status", resp.StatusCode),
			slog.String("reason", message),
		)
		return nil, SubmissionError{Message: message}
	}

	return &SubmitResult{PaymentURL: data.PaymentURL, TransactionID: data.TransactionID}, nil
}

type statusErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// PaymentStatus queries the status endpoint for the order.
func (c *APIClient) PaymentStatus(ctx context.Context, orderNo string) (*OrderStatus, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, statusPath, orderNo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		var failure statusErrorResponse
		_ = json.Unmarshal(body, &failure)
		message := failure.Message
		if message == "" {
			message = failure.Error
		}
		if message == "" {
			message = "Unable to fetch payment status"
		}
		return nil, StatusError{HTTPStatus: resp.StatusCode, Message: message}
	}

	var status OrderStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
