package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

type Product struct {
	ID          int
	Title       string
	Price       decimal.Decimal
	Description string
	Category    string
	Image       string
	Rating      Rating
}

// productWire is the catalog JSON shape. Price travels as a bare JSON number
// carrying the exact decimal text.
type productWire struct {
	ID          int         `json:"id"`
	Title       string      `json:"title"`
	Price       json.Number `json:"price"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Image       string      `json:"image"`
	Rating      Rating      `json:"rating"`
}

func (p Product) toWire() productWire {
	return productWire{
		ID:          p.ID,
		Title:       p.Title,
		Price:       json.Number(p.Price.String()),
		Description: p.Description,
		Category:    p.Category,
		Image:       p.Image,
		Rating:      p.Rating,
	}
}

func (w productWire) toProduct() (Product, error) {
	price := decimal.Zero
	if w.Price != "" {
		parsed, err := decimal.NewFromString(w.Price.String())
		if err != nil {
			return Product{}, fmt.Errorf("parse price %q: %w", w.Price, err)
		}
		price = parsed
	}

	return Product{
		ID:          w.ID,
		Title:       w.Title,
		Price:       price,
		Description: w.Description,
		Category:    w.Category,
		Image:       w.Image,
		Rating:      w.Rating,
	}, nil
}

func (p Product) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.toWire())
}

func (p *Product) UnmarshalJSON(data []byte) error {
	var w productWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	parsed, err := w.toProduct()
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
