package model

import "time"

// PaymentStatus describes settlement lifecycle of a payment as seen by the shop.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// Terminal reports whether the status ends the confirmation wait.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusSuccess || s == PaymentStatusFailed
}

// Payment describes a payment record created at order submission and
// updated from gateway status lookups and notify callbacks.
type Payment struct {
	ID                int64
	OrderNo           string
	ShopTransactionID string
	PgCno             string
	GoodsName         string
	GoodsDetail       string
	Currency          string
	TotalAmount       int64
	Status            PaymentStatus
	PaymentURL        string
	ResultCode        string
	ResultMessage     string
	ApprovalDate      string
	StatusCode        string
	WalletBrand       WalletBrand
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
