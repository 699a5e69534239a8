package checkout

import (
	"math"
	"strconv"
	"strings"

	"github.com/polkiloo/alipay-checkout/internal/domain/model"
)

// TaxRate is the flat rate applied on top of the cart subtotal.
const TaxRate = 0.10

const (
	goodsNameLimit   = 50
	goodsDetailLimit = 100
)

// Cart is the in-memory set of checkout line items. It lives only for the
// duration of the checkout view and is recreated on every page load.
type Cart struct {
	items []model.CartItem
}

// NewCart creates a cart with the given items.
func NewCart(items ...model.CartItem) *Cart {
	c := &Cart{items: make([]model.CartItem, len(items))}
	copy(c.items, items)
	return c
}

// SeedCart returns the demo cart the checkout page starts with.
func SeedCart() *Cart {
	return NewCart(
		model.CartItem{ID: 1, Name: "Cultural Art Video - Kathak Dance", Price: 50, Quantity: 1},
		model.CartItem{ID: 2, Name: "Traditional Music Collection", Price: 30, Quantity: 2},
		model.CartItem{ID: 3, Name: "Folk Art Documentary", Price: 75, Quantity: 1},
	)
}

// Items returns a copy of the current line items.
func (c *Cart) Items() []model.CartItem {
	out := make([]model.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Empty reports whether the cart has no items.
func (c *Cart) Empty() bool {
	return len(c.items) == 0
}

// UpdateQuantity adjusts the quantity of an item by delta, flooring at zero.
// An item whose quantity reaches zero is removed. Unknown ids are ignored.
func (c *Cart) UpdateQuantity(id int64, delta int) {
	for i := range c.items {
		if c.items[i].ID != id {
			continue
		}
		quantity := c.items[i].Quantity + delta
		if quantity <= 0 {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
		c.items[i].Quantity = quantity
		return
	}
}

// RemoveItem drops an item regardless of its quantity.
func (c *Cart) RemoveItem(id int64) {
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Subtotal is the sum of line totals.
func (c *Cart) Subtotal() float64 {
	var sum float64
	for _, item := range c.items {
		sum += item.LineTotal()
	}
	return sum
}

// Tax is the subtotal multiplied by the flat tax rate.
func (c *Cart) Tax() float64 {
	return c.Subtotal() * TaxRate
}

// Total is subtotal plus tax.
func (c *Cart) Total() float64 {
	return c.Subtotal() + c.Tax()
}

// TotalMinorUnits is the total converted to integer minor units for the wire.
func (c *Cart) TotalMinorUnits() int64 {
	return int64(math.Round(c.Total() * 100))
}

// GoodsName concatenates item names, truncated for the gateway field limit.
func (c *Cart) GoodsName() string {
	names := make([]string, 0, len(c.items))
	for _, item := range c.items {
		names = append(names, item.Name)
	}
	return truncate(strings.Join(names, ", "), goodsNameLimit)
}

// GoodsDetail concatenates per-item quantities, truncated for the gateway field limit.
func (c *Cart) GoodsDetail() string {
	details := make([]string, 0, len(c.items))
	for _, item := range c.items {
		details = append(details, item.Name+" x "+strconv.Itoa(item.Quantity))
	}
	return truncate(strings.Join(details, ", "), goodsDetailLimit)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
