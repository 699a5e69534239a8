package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/alipay-checkout/internal/adapter/easypay"
	domainErrors "github.com/polkiloo/alipay-checkout/internal/domain/errors"
	"github.com/polkiloo/alipay-checkout/internal/domain/model"
	"github.com/polkiloo/alipay-checkout/internal/server/http/dto"
	"github.com/polkiloo/alipay-checkout/internal/server/http/web"
	testhelpers "github.com/polkiloo/alipay-checkout/internal/test"
	"github.com/polkiloo/alipay-checkout/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(t *testing.T, method, path string, handler gin.HandlerFunc, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, path, handler)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func validPaymentRequest() dto.PaymentRequest {
	return dto.PaymentRequest{
		OrderNo:         "ORD1756600000000",
		GoodsName:       "Cultural Art Video",
		GoodsDetail:     "Cultural Art Video x 1",
		ReturnURL:       "http://localhost:8080/payment/return",
		NotifyURL:       "http://localhost:8080/api/payment/notify",
		Currency:        "USD",
		TotalAmount:     20350,
		WalletBrandName: "ALIPAY_CN",
	}
}

var jsonHeaders = map[string]string{"Content-Type": "application/json"}

func TestPaymentHandlerCreate(t *testing.T) {
	var captured usecase.PaymentInput
	facade := testhelpers.PaymentFacadeStub{
		CreateFn: func(_ context.Context, input usecase.PaymentInput) (*usecase.CreateResult, error) {
			captured = input
			return &usecase.CreateResult{
				TransactionID: "txn0000001",
				PgCno:         "pg-1",
				PaymentURL:    "https://wallet.example/pay",
			}, nil
		},
	}
	body, _ := json.Marshal(validPaymentRequest())
	resp := performRequest(t, http.MethodPost, "/api/payment/alipay", NewPaymentHandler(facade, "http://localhost:8080").Create, body, jsonHeaders)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var created dto.PaymentCreatedResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !created.Success {
		t.Fatal("expected success response")
	}
	if created.PaymentURL != "https://wallet.example/pay" {
		t.Fatalf("unexpected payment url %q", created.PaymentURL)
	}
	if captured.WalletBrand != model.WalletAlipayCN {
		t.Fatalf("unexpected wallet brand %q", captured.WalletBrand)
	}
	if captured.TotalAmount != 20350 {
		t.Fatalf("unexpected amount %d", captured.TotalAmount)
	}
}

func TestPaymentHandlerCreateInvalidBody(t *testing.T) {
	resp := performRequest(t, http.MethodPost, "/api/payment/alipay", NewPaymentHandler(testhelpers.PaymentFacadeStub{}, "http://localhost:8080").Create, []byte("{"), jsonHeaders)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestPaymentHandlerCreateValidation(t *testing.T) {
	req := validPaymentRequest()
	req.TotalAmount = 0
	body, _ := json.Marshal(req)
	resp := performRequest(t, http.MethodPost, "/api/payment/alipay", NewPaymentHandler(testhelpers.PaymentFacadeStub{}, "http://localhost:8080").Create, body, jsonHeaders)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}

	req = validPaymentRequest()
	req.WalletBrandName = "PAYPAL"
	body, _ = json.Marshal(req)
	resp = performRequest(t, http.MethodPost, "/api/payment/alipay", NewPaymentHandler(testhelpers.PaymentFacadeStub{}, "http://localhost:8080").Create, body, jsonHeaders)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for unknown wallet, got %d", resp.Code)
	}
}

func TestPaymentHandlerCreateDeclined(t *testing.T) {
	facade := testhelpers.PaymentFacadeStub{
		CreateFn: func(context.Context, usecase.PaymentInput) (*usecase.CreateResult, error) {
			return nil, easypay.DeclinedError{Code: "W012", Message: "Invalid mall"}
		},
	}
	body, _ := json.Marshal(validPaymentRequest())
	resp := performRequest(t, http.MethodPost, "/api/payment/alipay", NewPaymentHandler(facade, "http://localhost:8080").Create, body, jsonHeaders)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for declined payment, got %d", resp.Code)
	}

	var declined dto.PaymentDeclinedResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &declined); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if declined.Success {
		t.Fatal("expected success=false for declined payment")
	}
	if declined.Error != "Invalid mall" {
		t.Fatalf("unexpected error message %q", declined.Error)
	}
}

func TestPaymentHandlerCreateConflict(t *testing.T) {
	facade := testhelpers.PaymentFacadeStub{
		CreateFn: func(context.Context, usecase.PaymentInput) (*usecase.CreateResult, error) {
			return nil, domainErrors.ErrAlreadyExists
		},
	}
	body, _ := json.Marshal(validPaymentRequest())
	resp := performRequest(t, http.MethodPost, "/api/payment/alipay", NewPaymentHandler(facade, "http://localhost:8080").Create, body, jsonHeaders)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
}

func TestPaymentHandlerCreateGatewayFailure(t *testing.T) {
	facade := testhelpers.PaymentFacadeStub{
		CreateFn: func(context.Context, usecase.PaymentInput) (*usecase.CreateResult, error) {
			return nil, errors.New("gateway unreachable")
		},
	}
	body, _ := json.Marshal(validPaymentRequest())
	resp := performRequest(t, http.MethodPost, "/api/payment/alipay", NewPaymentHandler(facade, "http://localhost:8080").Create, body, jsonHeaders)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", resp.Code)
	}

	var failure dto.PaymentErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &failure); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if failure.Error != "Payment processing failed" {
		t.Fatalf("unexpected error %q", failure.Error)
	}
}

func TestPaymentHandlerStatus(t *testing.T) {
	updated := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	facade := testhelpers.PaymentFacadeStub{
		StatusFn: func(_ context.Context, orderNo string) (*model.Payment, error) {
			return &model.Payment{
				OrderNo:     orderNo,
				Status:      model.PaymentStatusSuccess,
				Currency:    "USD",
				TotalAmount: 20350,
				UpdatedAt:   updated,
			}, nil
		},
	}
	resp := performRequest(t, http.MethodGet, "/api/payment/status/:orderNo", NewPaymentHandler(facade, "http://localhost:8080").Status, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var status dto.PaymentStatusResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if status.Status != "SUCCESS" {
		t.Fatalf("unexpected status %q", status.Status)
	}
	if status.UpdatedAt == nil || !status.UpdatedAt.Equal(updated) {
		t.Fatalf("unexpected updatedAt %v", status.UpdatedAt)
	}
}

func TestPaymentHandlerStatusNotFound(t *testing.T) {
	facade := testhelpers.PaymentFacadeStub{
		StatusFn: func(context.Context, string) (*model.Payment, error) {
			return nil, domainErrors.ErrNotFound
		},
	}
	resp := performRequest(t, http.MethodGet, "/api/payment/status/:orderNo", NewPaymentHandler(facade, "http://localhost:8080").Status, nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}

	var failure dto.PaymentErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &failure); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if failure.Error != "Payment not found" {
		t.Fatalf("unexpected error %q", failure.Error)
	}
}

func TestPaymentHandlerNotify(t *testing.T) {
	var gotTransactionID, gotCode string
	facade := testhelpers.PaymentFacadeStub{
		NotifyFn: func(_ context.Context, shopTransactionID, resultCode, _ string) error {
			gotTransactionID = shopTransactionID
			gotCode = resultCode
			return nil
		},
	}
	body, _ := json.Marshal(dto.NotifyRequest{ShopTransactionID: "abc1234567", ResCd: "0000", ResMsg: "OK"})
	resp := performRequest(t, http.MethodPost, "/api/payment/notify", NewPaymentHandler(facade, "http://localhost:8080").Notify, body, jsonHeaders)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var ack dto.NotifyResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &ack); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if ack.ResCd != "0000" {
		t.Fatalf("unexpected ack code %q", ack.ResCd)
	}
	if gotTransactionID != "abc1234567" || gotCode != "0000" {
		t.Fatalf("unexpected notify args %q %q", gotTransactionID, gotCode)
	}
}

func TestPaymentHandlerNotifyFailure(t *testing.T) {
	facade := testhelpers.PaymentFacadeStub{
		NotifyFn: func(context.Context, string, string, string) error {
			return errors.New("storage down")
		},
	}
	body, _ := json.Marshal(dto.NotifyRequest{ShopTransactionID: "abc1234567", ResCd: "0000"})
	resp := performRequest(t, http.MethodPost, "/api/payment/notify", NewPaymentHandler(facade, "http://localhost:8080").Notify, body, jsonHeaders)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", resp.Code)
	}

	var ack dto.NotifyResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &ack); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if ack.ResCd != "9999" {
		t.Fatalf("unexpected ack code %q", ack.ResCd)
	}
}

func performPageRequest(t *testing.T, path, route string, handler gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	templates, err := web.Templates()
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}
	router.SetHTMLTemplate(templates)
	router.GET(route, handler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestPagesHandlerCheckout(t *testing.T) {
	handler := NewPagesHandler(testhelpers.PaymentFacadeStub{}, 2*time.Second, 5*time.Second)
	resp := performPageRequest(t, "/alipay", "/alipay", handler.Checkout)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	page := resp.Body.String()
	if !strings.Contains(page, "203.50") {
		t.Fatalf("expected cart total on page, got %s", page)
	}
	if !strings.Contains(page, "ALIPAY_CN") || !strings.Contains(page, "KAKAOPAY") {
		t.Fatal("expected wallet options on page")
	}
}

func TestPagesHandlerReturnSuccess(t *testing.T) {
	facade := testhelpers.PaymentFacadeStub{
		StatusFn: func(_ context.Context, orderNo string) (*model.Payment, error) {
			return &model.Payment{
				OrderNo:     orderNo,
				Status:      model.PaymentStatusSuccess,
				Currency:    "USD",
				TotalAmount: 20350,
			}, nil
		},
	}
	resp := performPageRequest(t, "/payment/return?orderNo=ORD1", "/payment/return", NewPagesHandler(facade, 2*time.Second, 5*time.Second).Return)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	page := resp.Body.String()
	if !strings.Contains(page, "Payment Successful!") {
		t.Fatalf("expected success heading, got %s", page)
	}
	if !strings.Contains(page, "USD 203.50") {
		t.Fatalf("expected formatted amount, got %s", page)
	}
}

func TestPagesHandlerReturnWithoutOrderNo(t *testing.T) {
	called := false
	facade := testhelpers.PaymentFacadeStub{
		StatusFn: func(context.Context, string) (*model.Payment, error) {
			called = true
			return nil, domainErrors.ErrNotFound
		},
	}
	resp := performPageRequest(t, "/payment/return", "/payment/return", NewPagesHandler(facade, 2*time.Second, 5*time.Second).Return)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "No order number found in URL") {
		t.Fatal("expected missing order number message")
	}
	if called {
		t.Fatal("expected no status lookup without an order number")
	}
}

func TestPagesHandlerReturnFailedShowsReason(t *testing.T) {
	facade := testhelpers.PaymentFacadeStub{
		StatusFn: func(_ context.Context, orderNo string) (*model.Payment, error) {
			return &model.Payment{
				OrderNo:       orderNo,
				Status:        model.PaymentStatusFailed,
				ResultMessage: "Insufficient funds",
			}, nil
		},
	}
	resp := performPageRequest(t, "/payment/return?orderNo=ORD1", "/payment/return", NewPagesHandler(facade, 2*time.Second, 5*time.Second).Return)
	page := resp.Body.String()
	if !strings.Contains(page, "Payment Failed") {
		t.Fatalf("expected failed heading, got %s", page)
	}
	if !strings.Contains(page, "Insufficient funds") {
		t.Fatal("expected gateway reason on page")
	}
}

func TestPaymentHandlerCreateDefaultsCallbacks(t *testing.T) {
	var captured usecase.PaymentInput
	facade := testhelpers.PaymentFacadeStub{
		CreateFn: func(_ context.Context, input usecase.PaymentInput) (*usecase.CreateResult, error) {
			captured = input
			return &usecase.CreateResult{TransactionID: "txn0000001"}, nil
		},
	}
	req := validPaymentRequest()
	req.ReturnURL = ""
	req.NotifyURL = ""
	body, _ := json.Marshal(req)
	resp := performRequest(t, http.MethodPost, "/api/payment/alipay", NewPaymentHandler(facade, "http://localhost:8080").Create, body, jsonHeaders)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if captured.ReturnURL != "http://localhost:8080/payment/return" {
		t.Fatalf("unexpected return url %q", captured.ReturnURL)
	}
	if captured.NotifyURL != "http://localhost:8080/api/payment/notify" {
		t.Fatalf("unexpected notify url %q", captured.NotifyURL)
	}
}

func TestPagesHandlerProcessingRedirectsToWallet(t *testing.T) {
	facade := testhelpers.PaymentFacadeStub{
		StatusFn: func(_ context.Context, orderNo string) (*model.Payment, error) {
			return &model.Payment{
				OrderNo:    orderNo,
				Status:     model.PaymentStatusPending,
				PaymentURL: "https://wallet.example/pay",
			}, nil
		},
	}
	handler := NewPagesHandler(facade, 2*time.Second, 5*time.Second)
	resp := performPageRequest(t, "/payment/processing?orderNo=ORD1", "/payment/processing", handler.Processing)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	page := resp.Body.String()
	if !strings.Contains(page, `http-equiv="refresh"`) {
		t.Fatalf("expected refresh meta tag, got %s", page)
	}
	if !strings.Contains(page, "2;url=https://wallet.example/pay") {
		t.Fatalf("expected delayed wallet redirect, got %s", page)
	}
}

func TestPagesHandlerProcessingForwardsWhenSettled(t *testing.T) {
	facade := testhelpers.PaymentFacadeStub{
		StatusFn: func(_ context.Context, orderNo string) (*model.Payment, error) {
			return &model.Payment{OrderNo: orderNo, Status: model.PaymentStatusSuccess}, nil
		},
	}
	handler := NewPagesHandler(facade, 2*time.Second, 5*time.Second)
	resp := performPageRequest(t, "/payment/processing?orderNo=ORD1", "/payment/processing", handler.Processing)
	if resp.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d", resp.Code)
	}
	if loc := resp.Header().Get("Location"); !strings.Contains(loc, "orderNo=ORD1") {
		t.Fatalf("expected return route location, got %q", loc)
	}
}

func TestPagesHandlerProcessingPollsWithoutWalletURL(t *testing.T) {
	facade := testhelpers.PaymentFacadeStub{
		StatusFn: func(_ context.Context, orderNo string) (*model.Payment, error) {
			return &model.Payment{OrderNo: orderNo, Status: model.PaymentStatusPending}, nil
		},
	}
	handler := NewPagesHandler(facade, 2*time.Second, 5*time.Second)
	resp := performPageRequest(t, "/payment/processing?orderNo=ORD1", "/payment/processing", handler.Processing)
	page := resp.Body.String()
	if !strings.Contains(page, `content="5"`) {
		t.Fatalf("expected poll interval refresh, got %s", page)
	}
}
