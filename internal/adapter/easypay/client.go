package easypay

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
	"strings"
	"time"

	"github.com/polkiloo/alipay-checkout/internal/domain/model"
)

const (
	tradePath     = "/api/trades/alipay"
	tradeFindPath = "/api/trades/alipay/find"

	// resultCodeOK is the gateway code for an accepted request.
	resultCodeOK = "0000"

	terminalTypeWeb = "WEB"
)

// DeclinedError carries the gateway's reason for refusing a trade.
type DeclinedError struct {
	Code    string
	Message string
}

func (e DeclinedError) Error() string {
	return fmt.Sprintf("gateway declined: %s (%s)", e.Message, e.Code)
}

// TradeRequest describes a new Alipay+ trade registration.
type TradeRequest struct {
	ShopTransactionID string
	OrderNo           string
	GoodsName         string
	GoodsDetail       string
	ReturnURL         string
	NotifyURL         string
	WalletBrand       model.WalletBrand
	Currency          string
	TotalAmount       int64
}

// TradeResult is the useful part of a successful trade registration.
type TradeResult struct {
	PgCno          string
	PaymentPageURL string
	NormalURL      string
}

// TradeStatus is the latest settlement state reported by the gateway.
type TradeStatus struct {
	Status        model.PaymentStatus
	StatusCode    string
	ResultCode    string
	ResultMessage string
	ApprovalDate  string
	WalletBrand   model.WalletBrand
}

// Client exposes operations against the payment gateway.
type Client interface {
	CreateTrade(ctx context.Context, req TradeRequest) (*TradeResult, error)
	FindTrade(ctx context.Context, shopTransactionID, pgCno string) (*TradeStatus, error)
}

// HTTPClient implements Client via the gateway's JSON API.
type HTTPClient struct {
	baseURL    *url.URL
	mallID     string
	httpClient *http.Client
	logger     *slog.Logger
}

type createBody struct {
	MallID            string     `json:"mallId"`
	ShopTransactionID string     `json:"shopTransactionId"`
	ShopOrderNo       string     `json:"shopOrderNo"`
	GoodsName         string     `json:"goodsName"`
	GoodsDetail       string     `json:"goodsDetail"`
	ReturnURL         string     `json:"returnUrl"`
	NotifyURL         string     `json:"notifyUrl"`
	WalletBrandName   string     `json:"walletBrandName"`
	TerminalType      string     `json:"terminalType"`
	AmountInfo        amountInfo `json:"amountInfo"`
}

type amountInfo struct {
	Currency  string `json:"currency"`
	TotAmount int64  `json:"totAmount"`
}

type findBody struct {
	MallID            string `json:"mallId"`
	ShopTransactionID string `json:"shopTransactionId"`
	PgCno             string `json:"pgCno"`
}

// response mirrors the JSON payload shared by both gateway endpoints.
type response struct {
	ResCd           string `json:"resCd"`
	ResMsg          string `json:"resMsg"`
	PgCno           string `json:"pgCno"`
	PaymentPageURL  string `json:"paymentPageUrl"`
	NormalURL       string `json:"normalUrl"`
	StatusCd        string `json:"statusCd"`
	ApprovalDate    string `json:"approvalDate"`
	WalletBrandName string `json:"walletBrandName"`
}

// NewHTTPClient creates HTTP gateway client with default timeout.
func NewHTTPClient(baseURL, mallID string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("gateway url must be absolute")
	}
	if mallID == "" {
		return nil, fmt.Errorf("mall id must not be empty")
	}
	return &HTTPClient{
		baseURL: parsed,
		mallID:  mallID,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// CreateTrade registers a trade and returns the hosted payment page location.
func (c *HTTPClient) CreateTrade(ctx context.Context, req TradeRequest) (*TradeResult, error) {
	body := createBody{
		MallID:            c.mallID,
		ShopTransactionID: req.ShopTransactionID,
		ShopOrderNo:       req.OrderNo,
		GoodsName:         req.GoodsName,
		GoodsDetail:       req.GoodsDetail,
		ReturnURL:         req.ReturnURL + "?orderNo=" + url.QueryEscape(req.OrderNo),
		NotifyURL:         req.NotifyURL,
		WalletBrandName:   string(model.NormalizeWalletBrand(req.WalletBrand)),
		TerminalType:      terminalTypeWeb,
		AmountInfo: amountInfo{
			Currency:  req.Currency,
			TotAmount: req.TotalAmount,
		},
	}

	data, err := c.post(ctx, tradePath, body)
	if err != nil {
		return nil, err
	}
	if data.ResCd != resultCodeOK {
		return nil, DeclinedError{Code: data.ResCd, Message: data.ResMsg}
	}
	return &TradeResult{
		PgCno:          data.PgCno,
		PaymentPageURL: data.PaymentPageURL,
		NormalURL:      data.NormalURL,
	}, nil
}

// FindTrade queries the gateway for the latest trade status.
func (c *HTTPClient) FindTrade(ctx context.Context, shopTransactionID, pgCno string) (*TradeStatus, error) {
	data, err := c.post(ctx, tradeFindPath, findBody{
		MallID:            c.mallID,
		ShopTransactionID: shopTransactionID,
		PgCno:             pgCno,
	})
	if err != nil {
		return nil, err
	}
	if data.ResCd != resultCodeOK {
		return nil, DeclinedError{Code: data.ResCd, Message: data.ResMsg}
	}
	return &TradeStatus{
		Status:        statusFromCode(data.StatusCd),
		StatusCode:    normalizeStatusCode(data.StatusCd),
		ResultCode:    data.ResCd,
		ResultMessage: data.ResMsg,
		ApprovalDate:  data.ApprovalDate,
		WalletBrand:   model.WalletBrand(data.WalletBrandName),
	}, nil
}

func (c *HTTPClient) post(ctx context.Context, p string, body any) (*response, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, p)

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("charset", "UTF-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		c.logger.Error("gateway request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(raw)))
		return nil, fmt.Errorf("gateway error: %s", resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var data response
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// statusFromCode maps gateway trade codes onto the payment lifecycle:
// TS01 is settled, TS00 is still in progress, anything else failed.
func statusFromCode(code string) model.PaymentStatus {
	switch normalizeStatusCode(code) {
	case "TS01":
		return model.PaymentStatusSuccess
	case "TS00":
		return model.PaymentStatusPending
	default:
		return model.PaymentStatusFailed
	}
}

// normalizeStatusCode strips the stray whitespace some gateway responses carry.
func normalizeStatusCode(code string) string {
	return strings.ReplaceAll(strings.TrimSpace(code), " ", "")
}
