package checkout

import "net/url"

// View routes of the checkout application.
const (
	RouteHome       = "/"
	RouteCheckout   = "/alipay"
	RouteProcessing = "/payment/processing"
	RouteReturn     = "/payment/return"
)

// ReturnRouteFor builds the return view route carrying the order number.
func ReturnRouteFor(orderNo string) string {
	return RouteReturn + "?orderNo=" + url.QueryEscape(orderNo)
}
