package model

// CartItem is a single checkout line: unit price in dollars, quantity of units.
type CartItem struct {
	ID       int64
	Name     string
	Price    float64
	Quantity int
}

// LineTotal is price multiplied by quantity.
func (i CartItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}
