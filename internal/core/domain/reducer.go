package domain

// Reduce applies action to state and returns the resulting state. It has no
// side effects and never mutates state.Items. Totals are recomputed from the
// resulting lines on every branch.
func Reduce(state CartState, action Action) CartState {
	switch a := action.(type) {
	case Initialize:
		return withLines(copyLines(a.Lines))

	case AddToCart:
		lines := copyLines(state.Items)
		for i := range lines {
			if lines[i].ID == a.Product.ID {
				lines[i].Quantity += a.Quantity
				return withLines(lines)
			}
		}
		return withLines(append(lines, CartLine{Product: a.Product, Quantity: a.Quantity}))

	case RemoveFromCart:
		lines := make([]CartLine, 0, len(state.Items))
		for _, line := range state.Items {
			if line.ID != a.ProductID {
				lines = append(lines, line)
			}
		}
		return withLines(lines)

	case UpdateQuantity:
		if a.Quantity <= 0 {
			return Reduce(state, RemoveFromCart{ProductID: a.ProductID})
		}
		lines := copyLines(state.Items)
		for i := range lines {
			if lines[i].ID == a.ProductID {
				lines[i].Quantity = a.Quantity
			}
		}
		return withLines(lines)

	case ClearCart:
		return EmptyCart()

	default:
		return state
	}
}

func withLines(lines []CartLine) CartState {
	amount, items := Totals(lines)
	return CartState{
		Items:       lines,
		TotalAmount: amount,
		TotalItems:  items,
	}
}
