package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/alipay-checkout/internal/checkout"
	domainErrors "github.com/polkiloo/alipay-checkout/internal/domain/errors"
	"github.com/polkiloo/alipay-checkout/internal/domain/model"
)

// PagesHandler renders the shopper-facing checkout pages.
type PagesHandler struct {
	facade        PaymentFacade
	redirectDelay time.Duration
	pollInterval  time.Duration
}

// NewPagesHandler constructs PagesHandler.
func NewPagesHandler(facade PaymentFacade, redirectDelay, pollInterval time.Duration) *PagesHandler {
	return &PagesHandler{facade: facade, redirectDelay: redirectDelay, pollInterval: pollInterval}
}

// Home handles GET /.
func (h *PagesHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home", nil)
}

type checkoutView struct {
	Items    []model.CartItem
	Subtotal float64
	Tax      float64
	Total    float64
	Wallets  []model.WalletBrand
}

// Checkout handles GET /alipay. Every page load starts from the seed cart.
func (h *PagesHandler) Checkout(c *gin.Context) {
	cart := checkout.SeedCart()
	c.HTML(http.StatusOK, "checkout", checkoutView{
		Items:    cart.Items(),
		Subtotal: cart.Subtotal(),
		Tax:      cart.Tax(),
		Total:    cart.Total(),
		Wallets:  model.WalletBrands,
	})
}

type processingView struct {
	Heading string
	Message string
	OrderNo string
	Refresh string
}

// Processing handles GET /payment/processing?orderNo=. A pending payment with
// a known wallet page refreshes to that page after the configured delay; once
// the wallet page has been visited the view polls its own route until the
// payment settles, then forwards to the return view.
func (h *PagesHandler) Processing(c *gin.Context) {
	orderNo := c.Query("orderNo")
	view := processingView{
		Heading: "Processing Payment",
		Message: "Please wait while we redirect you to the payment page...",
		OrderNo: orderNo,
	}
	if orderNo == "" {
		c.HTML(http.StatusOK, "processing", view)
		return
	}

	payment, err := h.facade.PaymentStatus(c.Request.Context(), orderNo)
	if err != nil {
		c.HTML(http.StatusOK, "processing", view)
		return
	}

	if payment.Status.Terminal() {
		c.Redirect(http.StatusFound, checkout.ReturnRouteFor(orderNo))
		return
	}

	if payment.PaymentURL != "" {
		view.Refresh = fmt.Sprintf("%d;url=%s", refreshSeconds(h.redirectDelay), payment.PaymentURL)
	} else {
		view.Message = "Waiting for payment confirmation..."
		view.Refresh = fmt.Sprintf("%d", refreshSeconds(h.pollInterval))
	}
	c.HTML(http.StatusOK, "processing", view)
}

func refreshSeconds(d time.Duration) int {
	seconds := int(d / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}

type returnDetails struct {
	OrderNo           string
	ShopTransactionID string
	PgCno             string
	GoodsName         string
	GoodsDetail       string
	Currency          string
	Amount            float64
	Status            model.PaymentStatus
}

type returnView struct {
	Heading string
	Message string
	Details *returnDetails
}

// Return handles GET /payment/return?orderNo=. The outcome presentation
// mirrors what the shopper client shows for the same status.
func (h *PagesHandler) Return(c *gin.Context) {
	orderNo := c.Query("orderNo")
	if orderNo == "" {
		c.HTML(http.StatusOK, "return", returnView{
			Heading: "Payment Failed",
			Message: "No order number found in URL",
		})
		return
	}

	payment, err := h.facade.PaymentStatus(c.Request.Context(), orderNo)
	if err != nil {
		view := returnView{
			Heading: "Payment Failed",
			Message: "Unable to verify payment status. Please contact support.",
		}
		if errors.Is(err, domainErrors.ErrNotFound) {
			view.Message = "No payment found for order " + orderNo
		}
		c.HTML(http.StatusOK, "return", view)
		return
	}

	presentation := checkout.MapStatus(payment.Status, payment.ResultMessage)
	c.HTML(http.StatusOK, "return", returnView{
		Heading: presentation.Heading,
		Message: presentation.Message,
		Details: &returnDetails{
			OrderNo:           payment.OrderNo,
			ShopTransactionID: payment.ShopTransactionID,
			PgCno:             payment.PgCno,
			GoodsName:         payment.GoodsName,
			GoodsDetail:       payment.GoodsDetail,
			Currency:          payment.Currency,
			Amount:            float64(payment.TotalAmount) / 100,
			Status:            payment.Status,
		},
	})
}
