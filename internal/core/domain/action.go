package domain

type ActionKind string

const (
	ActionInitialize     ActionKind = "initialize"
	ActionAddToCart      ActionKind = "add_to_cart"
	ActionRemoveFromCart ActionKind = "remove_from_cart"
	ActionUpdateQuantity ActionKind = "update_quantity"
	ActionClearCart      ActionKind = "clear_cart"
)

// Action is a cart transition request understood by Reduce.
type Action interface {
	Kind() ActionKind
	action()
}

// Initialize replaces the line sequence, typically with persisted lines on startup.
type Initialize struct {
	Lines []CartLine
}

// AddToCart adds Quantity of Product. Quantity is applied as given; it is not
// clamped, so a non-positive value produces a line only UpdateQuantity or
// RemoveFromCart will clean up.
type AddToCart struct {
	Product  Product
	Quantity int
}

type RemoveFromCart struct {
	ProductID int
}

// UpdateQuantity sets a line's quantity; Quantity <= 0 removes the line.
type UpdateQuantity struct {
	ProductID int
	Quantity  int
}

type ClearCart struct{}

func (Initialize) Kind() ActionKind     { return ActionInitialize }
func (AddToCart) Kind() ActionKind      { return ActionAddToCart }
func (RemoveFromCart) Kind() ActionKind { return ActionRemoveFromCart }
func (UpdateQuantity) Kind() ActionKind { return ActionUpdateQuantity }
func (ClearCart) Kind() ActionKind      { return ActionClearCart }

func (Initialize) action()     {}
func (AddToCart) action()      {}
func (RemoveFromCart) action() {}
func (UpdateQuantity) action() {}
func (ClearCart) action()      {}

// MutatesStorage reports whether the action's result must be written back to
// the persistent store. Initialize only mirrors what the store already holds.
func MutatesStorage(a Action) bool {
	switch a.(type) {
	case AddToCart, RemoveFromCart, UpdateQuantity, ClearCart:
		return true
	}
	return false
}
