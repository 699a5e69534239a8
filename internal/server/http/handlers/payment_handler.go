package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/polkiloo/alipay-checkout/internal/adapter/easypay"
	"github.com/polkiloo/alipay-checkout/internal/checkout"
	domainErrors "github.com/polkiloo/alipay-checkout/internal/domain/errors"
	"github.com/polkiloo/alipay-checkout/internal/domain/model"
	"github.com/polkiloo/alipay-checkout/internal/server/http/dto"
	"github.com/polkiloo/alipay-checkout/internal/usecase"
)

const notifyPath = "/api/payment/notify"

// PaymentHandler manages payment-related endpoints.
type PaymentHandler struct {
	facade        PaymentFacade
	publicBaseURL string
	validate      *validatorv10.Validate
}

// NewPaymentHandler constructs PaymentHandler. publicBaseURL supplies the
// return and notify callbacks when the request leaves them out.
func NewPaymentHandler(facade PaymentFacade, publicBaseURL string) *PaymentHandler {
	return &PaymentHandler{facade: facade, publicBaseURL: publicBaseURL, validate: validatorv10.New()}
}

// Create handles POST /api/payment/alipay.
func (h *PaymentHandler) Create(c *gin.Context) {
	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.PaymentDeclinedResponse{Error: "invalid request body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, dto.PaymentDeclinedResponse{Error: err.Error()})
		return
	}

	if req.ReturnURL == "" {
		req.ReturnURL = h.publicBaseURL + checkout.RouteReturn
	}
	if req.NotifyURL == "" {
		req.NotifyURL = h.publicBaseURL + notifyPath
	}

	result, err := h.facade.CreatePayment(c.Request.Context(), usecase.PaymentInput{
		OrderNo:     req.OrderNo,
		GoodsName:   req.GoodsName,
		GoodsDetail: req.GoodsDetail,
		ReturnURL:   req.ReturnURL,
		NotifyURL:   req.NotifyURL,
		Currency:    req.Currency,
		TotalAmount: req.TotalAmount,
		WalletBrand: model.WalletBrand(req.WalletBrandName),
	})
	if err != nil {
		var declined easypay.DeclinedError
		switch {
		case errors.As(err, &declined):
			c.JSON(http.StatusOK, dto.PaymentDeclinedResponse{Error: declined.Message})
		case errors.Is(err, domainErrors.ErrUnknownWallet),
			errors.Is(err, domainErrors.ErrInvalidAmount),
			errors.Is(err, domainErrors.ErrNoOrderNumber):
			c.JSON(http.StatusBadRequest, dto.PaymentDeclinedResponse{Error: err.Error()})
		case errors.Is(err, domainErrors.ErrAlreadyExists):
			c.JSON(http.StatusConflict, dto.PaymentDeclinedResponse{Error: "order already submitted"})
		default:
			c.JSON(http.StatusInternalServerError, dto.PaymentErrorResponse{
				Error:   "Payment processing failed",
				Message: err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, dto.PaymentCreatedResponse{
		Success:       true,
		PaymentURL:    result.PaymentURL,
		NormalURL:     result.NormalURL,
		TransactionID: result.TransactionID,
		PgCno:         result.PgCno,
	})
}

// Status handles GET /api/payment/status/:orderNo.
func (h *PaymentHandler) Status(c *gin.Context) {
	orderNo := c.Param("orderNo")

	payment, err := h.facade.PaymentStatus(c.Request.Context(), orderNo)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.PaymentErrorResponse{
				Error:   "Payment not found",
				Message: "no payment for order " + orderNo,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.PaymentErrorResponse{
			Error:   "Failed to fetch payment status",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, toStatusResponse(payment))
}

// Notify handles POST /api/payment/notify.
func (h *PaymentHandler) Notify(c *gin.Context) {
	var req dto.NotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NotifyResponse{ResCd: "9999", ResMsg: "Error"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NotifyResponse{ResCd: "9999", ResMsg: "Error"})
		return
	}

	if err := h.facade.HandleNotify(c.Request.Context(), req.ShopTransactionID, req.ResCd, req.ResMsg); err != nil {
		c.JSON(http.StatusInternalServerError, dto.NotifyResponse{ResCd: "9999", ResMsg: "Error"})
		return
	}
	c.JSON(http.StatusOK, dto.NotifyResponse{ResCd: "0000", ResMsg: "OK"})
}

func toStatusResponse(payment *model.Payment) dto.PaymentStatusResponse {
	resp := dto.PaymentStatusResponse{
		Status:            string(payment.Status),
		OrderNo:           payment.OrderNo,
		ShopTransactionID: payment.ShopTransactionID,
		PgCno:             payment.PgCno,
		GoodsName:         payment.GoodsName,
		GoodsDetail:       payment.GoodsDetail,
		Currency:          payment.Currency,
		TotalAmount:       payment.TotalAmount,
		ResultCode:        payment.ResultCode,
		ResultMessage:     payment.ResultMessage,
		PaymentURL:        payment.PaymentURL,
		WalletBrandName:   string(payment.WalletBrand),
		ApprovalDate:      payment.ApprovalDate,
		CreatedAt:         payment.CreatedAt,
	}
	if !payment.UpdatedAt.IsZero() {
		updated := payment.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}
