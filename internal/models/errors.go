package models

import "errors"

// Sentinel errors shared across repositories and services. Callers match
// them with errors.Is; the wrapping message carries the specifics.
var (
	// ErrProductNotFound is returned when a product identifier resolves to nothing.
	ErrProductNotFound = errors.New("product not found")

	// ErrStaleBagEntry is returned when the session bag references a product
	// that no longer exists. The bag is priced all-or-nothing: silently
	// dropping an entry would under-charge the customer.
	ErrStaleBagEntry = errors.New("bag references a product that no longer exists")

	// ErrNotInBag is returned when an update or removal targets an entry
	// (or a size of an entry) that is not in the bag.
	ErrNotInBag = errors.New("item not in bag")

	// ErrInvalidQuantity is returned when a quantity outside [1, 99] reaches
	// the persistence path. User-facing add/update clamps instead.
	ErrInvalidQuantity = errors.New("quantity outside the allowed range")

	// ErrEmptyBag is returned when checkout is attempted with nothing in the bag.
	ErrEmptyBag = errors.New("bag is empty")

	// ErrOrderNotFound is returned when an order lookup matches nothing.
	ErrOrderNotFound = errors.New("order not found")

	// ErrLineItemNotFound is returned when a line item lookup matches nothing.
	ErrLineItemNotFound = errors.New("line item not found")

	// ErrAggregateDrift is returned when an order's stored totals do not equal
	// the recomputed sum of its line items. It should never occur as long as
	// every line-item write reconciles inside its own transaction.
	ErrAggregateDrift = errors.New("order totals do not match line items")
)
