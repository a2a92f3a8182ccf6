package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestCartLine_WireFormat(t *testing.T) {
	line := CartLine{Product: testProduct(1, "109.95"), Quantity: 2}

	data, err := json.Marshal(line)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}

	for _, field := range []string{"id", "title", "price", "description", "category", "image", "rating", "quantity"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("missing field %q in %s", field, data)
		}
	}
	if !strings.Contains(string(data), `"price":109.95`) {
		t.Errorf("expected price as a bare number, got %s", data)
	}
	rating, _ := raw["rating"].(map[string]any)
	if rating["rate"] != 4.1 || rating["count"] != float64(120) {
		t.Errorf("unexpected rating %v", raw["rating"])
	}
}

func TestLines_RoundTrip(t *testing.T) {
	state := EmptyCart()
	state = Reduce(state, AddToCart{Product: testProduct(3, "55.99"), Quantity: 1})
	state = Reduce(state, AddToCart{Product: testProduct(1, "109.95"), Quantity: 2})
	state = Reduce(state, AddToCart{Product: testProduct(2, "0.1"), Quantity: 3})

	value, err := MarshalLines(state.Items)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	lines, err := UnmarshalLines(value)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	reloaded := Reduce(EmptyCart(), Initialize{Lines: lines})

	if len(reloaded.Items) != len(state.Items) {
		t.Fatalf("expected %d lines, got %d", len(state.Items), len(reloaded.Items))
	}
	for i, want := range state.Items {
		got := reloaded.Items[i]
		if got.ID != want.ID || got.Title != want.Title || got.Description != want.Description ||
			got.Category != want.Category || got.Image != want.Image || got.Rating != want.Rating ||
			got.Quantity != want.Quantity || !got.Price.Equal(want.Price) {
			t.Errorf("line %d: expected %+v, got %+v", i, want, got)
		}
	}
	if !reloaded.TotalAmount.Equal(state.TotalAmount) {
		t.Errorf("expected total amount %s, got %s", state.TotalAmount, reloaded.TotalAmount)
	}
	if reloaded.TotalItems != state.TotalItems {
		t.Errorf("expected total items %d, got %d", state.TotalItems, reloaded.TotalItems)
	}
}

func TestMarshalLines_EmptyIsArray(t *testing.T) {
	value, err := MarshalLines(nil)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if value != "[]" {
		t.Errorf("expected [], got %s", value)
	}
}

func TestUnmarshalLines_Malformed(t *testing.T) {
	for _, value := range []string{"", "{", `{"id":1}`, `[{"price":"abc"}]`} {
		if _, err := UnmarshalLines(value); err == nil {
			t.Errorf("expected error for %q", value)
		}
	}
}

func TestProduct_DecodesCatalogPayload(t *testing.T) {
	payload := `{"id":1,"title":"Fjallraven Backpack","price":109.95,"description":"Your perfect pack",
		"category":"men's clothing","image":"https://fakestoreapi.com/img/81fPKd-2AYL._AC_SL1500_.jpg",
		"rating":{"rate":3.9,"count":120}}`

	var p Product
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.ID != 1 || p.Title != "Fjallraven Backpack" || p.Category != "men's clothing" {
		t.Errorf("unexpected product %+v", p)
	}
	if p.Price.String() != "109.95" {
		t.Errorf("expected price 109.95, got %s", p.Price)
	}
	if p.Rating.Rate != 3.9 || p.Rating.Count != 120 {
		t.Errorf("unexpected rating %+v", p.Rating)
	}
}

func TestCartState_CloneDoesNotAlias(t *testing.T) {
	state := Reduce(EmptyCart(), AddToCart{Product: testProduct(1, "1"), Quantity: 1})

	clone := state.Clone()
	clone.Items[0].Quantity = 50

	if state.Items[0].Quantity != 1 {
		t.Error("clone aliases the original items")
	}
}
