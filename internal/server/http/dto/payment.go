package dto

import "time"

// PaymentRequest is the order submission payload the checkout page sends.
type PaymentRequest struct {
	OrderNo         string `json:"orderNo" validate:"required"`
	GoodsName       string `json:"goodsName" validate:"required,max=50"`
	GoodsDetail     string `json:"goodsDetail" validate:"max=100"`
	ReturnURL       string `json:"returnUrl" validate:"omitempty,url"`
	NotifyURL       string `json:"notifyUrl" validate:"omitempty,url"`
	Currency        string `json:"currency" validate:"required,len=3"`
	TotalAmount     int64  `json:"totalAmount" validate:"required,min=1"`
	WalletBrandName string `json:"walletBrandName" validate:"omitempty,oneof=ALIPAY_CN ALIPAY_HK CONNECT_WALLET TRUEMONEY TNG GCASH DANA KAKAOPAY"`
}

// PaymentCreatedResponse is returned when the gateway accepted the trade.
type PaymentCreatedResponse struct {
	Success       bool   `json:"success"`
	PaymentURL    string `json:"paymentUrl,omitempty"`
	NormalURL     string `json:"normalUrl,omitempty"`
	TransactionID string `json:"transactionId,omitempty"`
	PgCno         string `json:"pgCno,omitempty"`
}

// PaymentDeclinedResponse is returned when the request was understood but refused.
type PaymentDeclinedResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// PaymentErrorResponse is returned on unexpected processing failures.
type PaymentErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// PaymentStatusResponse carries the full order detail snapshot.
type PaymentStatusResponse struct {
	Status            string     `json:"status"`
	OrderNo           string     `json:"orderNo"`
	ShopTransactionID string     `json:"shopTransactionId"`
	PgCno             string     `json:"pgCno"`
	GoodsName         string     `json:"goodsName"`
	GoodsDetail       string     `json:"goodsDetail"`
	Currency          string     `json:"currency"`
	TotalAmount       int64      `json:"totalAmount"`
	ResultCode        string     `json:"resultCode,omitempty"`
	ResultMessage     string     `json:"resultMessage,omitempty"`
	PaymentURL        string     `json:"paymentUrl,omitempty"`
	WalletBrandName   string     `json:"walletBrandName,omitempty"`
	ApprovalDate      string     `json:"approvalDate,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         *time.Time `json:"updatedAt,omitempty"`
}

// NotifyRequest is the asynchronous callback posted by the gateway.
type NotifyRequest struct {
	ShopTransactionID string `json:"shopTransactionId" validate:"required"`
	ResCd             string `json:"resCd"`
	ResMsg            string `json:"resMsg"`
}

// NotifyResponse acknowledges a gateway callback.
type NotifyResponse struct {
	ResCd  string `json:"resCd"`
	ResMsg string `json:"resMsg"`
}
