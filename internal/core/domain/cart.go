package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultAddQuantity is used by callers that add a product without naming a quantity.
const DefaultAddQuantity = 1

type CartLine struct {
	Product
	Quantity int
}

type cartLineWire struct {
	productWire
	Quantity int `json:"quantity"`
}

// MarshalJSON flattens the product fields and the quantity into one object.
// It must be declared here, otherwise the promoted Product method would drop
// the quantity.
func (l CartLine) MarshalJSON() ([]byte, error) {
	return json.Marshal(cartLineWire{
		productWire: l.Product.toWire(),
		Quantity:    l.Quantity,
	})
}

func (l *CartLine) UnmarshalJSON(data []byte) error {
	var w cartLineWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	product, err := w.productWire.toProduct()
	if err != nil {
		return err
	}

	l.Product = product
	l.Quantity = w.Quantity
	return nil
}

type CartState struct {
	Items       []CartLine
	TotalAmount decimal.Decimal
	TotalItems  int
}

func EmptyCart() CartState {
	return CartState{
		Items:       []CartLine{},
		TotalAmount: decimal.Zero,
		TotalItems:  0,
	}
}

// Clone returns a state whose Items slice does not alias the receiver's.
func (s CartState) Clone() CartState {
	return CartState{
		Items:       copyLines(s.Items),
		TotalAmount: s.TotalAmount,
		TotalItems:  s.TotalItems,
	}
}

// Line returns the line for productID, if any.
func (s CartState) Line(productID int) (CartLine, bool) {
	for _, line := range s.Items {
		if line.ID == productID {
			return line, true
		}
	}
	return CartLine{}, false
}

// Totals sums price*quantity and quantity over lines.
func Totals(lines []CartLine) (decimal.Decimal, int) {
	amount := decimal.Zero
	items := 0
	for _, line := range lines {
		amount = amount.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		items += line.Quantity
	}
	return amount, items
}

// MarshalLines encodes a line sequence in its persisted form.
func MarshalLines(lines []CartLine) (string, error) {
	if lines == nil {
		lines = []CartLine{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return "", fmt.Errorf("marshal cart lines: %w", err)
	}
	return string(data), nil
}

// UnmarshalLines decodes a persisted line sequence.
func UnmarshalLines(value string) ([]CartLine, error) {
	var lines []CartLine
	if err := json.Unmarshal([]byte(value), &lines); err != nil {
		return nil, fmt.Errorf("unmarshal cart lines: %w", err)
	}
	if lines == nil {
		lines = []CartLine{}
	}
	return lines, nil
}

func copyLines(lines []CartLine) []CartLine {
	out := make([]CartLine, len(lines))
	copy(out, lines)
	return out
}
