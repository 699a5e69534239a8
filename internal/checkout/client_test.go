package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/polkiloo/alipay-checkout/internal/domain/model"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewAPIClientValidatesURL(t *testing.T) {
	if _, err := NewAPIClient("not-a-url", newTestLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
	if _, err := NewAPIClient("http://localhost:8080", newTestLogger()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAPIClientSubmitPayment(t *testing.T) {
	var captured PaymentSubmission
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != submitPath {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success":       true,
			"paymentUrl":    "https://wallet.example/pay",
			"transactionId": "txn-1",
		})
	}))
	defer server.Close()

	client, err := NewAPIClient(server.URL, newTestLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := client.SubmitPayment(context.Background(), PaymentSubmission{
		OrderNo:     "ORD1",
		Currency:    "USD",
		TotalAmount: 20350,
		WalletBrand: model.WalletAlipayCN,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.PaymentURL != "https://wallet.example/pay" {
		t.Fatalf("unexpected payment url %q", result.PaymentURL)
	}
	if result.TransactionID != "txn-1" {
		t.Fatalf("unexpected transaction id %q", result.TransactionID)
	}
	if captured.OrderNo != "ORD1" || captured.TotalAmount != 20350 {
		t.Fatalf("unexpected submission payload %+v", captured)
	}
}

func TestAPIClientSubmitPaymentRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "Payment declined"})
	}))
	defer server.Close()

	client, err := NewAPIClient(server.URL, newTestLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = client.SubmitPayment(context.Background(), PaymentSubmission{OrderNo: "ORD1"})
	var submissionErr SubmissionError
	if !errors.As(err, &submissionErr) {
		t.Fatalf("expected SubmissionError, got %v", err)
	}
	if submissionErr.Message != "Payment declined" {
		t.Fatalf("unexpected message %q", submissionErr.Message)
	}
}

func TestAPIClientPaymentStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != statusPath+"/ORD1" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status":      "SUCCESS",
			"orderNo":     "ORD1",
			"totalAmount": 20350,
		})
	}))
	defer server.Close()

	client, err := NewAPIClient(server.URL, newTestLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	status, err := client.PaymentStatus(context.Background(), "ORD1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Status != model.PaymentStatusSuccess {
		t.Fatalf("unexpected status %q", status.Status)
	}
	if status.TotalAmount != 20350 {
		t.Fatalf("unexpected amount %d", status.TotalAmount)
	}
}

func TestAPIClientPaymentStatusNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{"error": "Payment not found"})
	}))
	defer server.Close()

	client, err := NewAPIClient(server.URL, newTestLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = client.PaymentStatus(context.Background(), "ORD404")
	var statusErr StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.HTTPStatus != http.StatusNotFound {
		t.Fatalf("unexpected http status %d", statusErr.HTTPStatus)
	}
	if statusErr.Message != "Payment not found" {
		t.Fatalf("unexpected message %q", statusErr.Message)
	}
}

func TestAPIClientTransportError(t *testing.T) {
	client, err := NewAPIClient("http://127.0.0.1:0", newTestLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := client.PaymentStatus(context.Background(), "ORD1"); err == nil {
		t.Fatal("expected transport error")
	}
}
