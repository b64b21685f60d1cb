package models

// Quantity limits for user-facing bag mutations. Requests outside the
// range are clamped, not rejected.
const (
	MinBagQuantity = 1
	MaxBagQuantity = 99
)

// BagEntry is one product's worth of bag state. It is a tagged variant:
// either Quantity is set and Sizes is nil (a sizeless product), or Sizes
// maps size labels to quantities and Quantity is zero. The shape follows
// the most recent mutation for the product.
type BagEntry struct {
	Quantity int            `json:"quantity,omitempty"`
	Sizes    map[string]int `json:"sizes,omitempty"`
}

// Sized reports whether the entry tracks quantities per size.
func (e BagEntry) Sized() bool {
	return e.Sizes != nil
}

// Count returns the total number of units the entry represents.
func (e BagEntry) Count() int {
	if !e.Sized() {
		return e.Quantity
	}
	n := 0
	for _, q := range e.Sizes {
		n += q
	}
	return n
}

// Bag is the session shopping bag: product ID to entry. It lives only in
// session state and is destroyed when the session ends or checkout
// completes. Invariant: quantities are positive; an entry that would hold
// a zero quantity is removed instead.
type Bag map[string]BagEntry

// ClampQuantity keeps a requested quantity within the allowed limits.
func ClampQuantity(quantity int) int {
	return max(MinBagQuantity, min(MaxBagQuantity, quantity))
}

// Add increments the quantity for (productID, size), creating the entry
// if absent. An empty size addresses the sizeless variant. The requested
// quantity is clamped to [MinBagQuantity, MaxBagQuantity].
func (b Bag) Add(productID, size string, quantity int) {
	quantity = ClampQuantity(quantity)
	entry := b[productID]

	if size == "" {
		if entry.Sized() {
			// Shape conflict: the latest mutation wins.
			entry = BagEntry{}
		}
		entry.Quantity += quantity
	} else {
		if !entry.Sized() {
			entry = BagEntry{Sizes: make(map[string]int)}
		}
		entry.Sizes[size] += quantity
	}
	b[productID] = entry
}

// Update sets the quantity for (productID, size) to an explicit value.
// A quantity of zero (or less) removes the size, and the whole entry once
// no sizes remain; positive values are clamped to the allowed range.
// Updating an entry that is not in the bag returns ErrNotInBag.
func (b Bag) Update(productID, size string, quantity int) error {
	entry, ok := b[productID]
	if !ok {
		return ErrNotInBag
	}

	if quantity < MinBagQuantity {
		return b.Remove(productID, size)
	}
	quantity = ClampQuantity(quantity)

	if size == "" {
		if entry.Sized() {
			entry = BagEntry{}
		}
		entry.Quantity = quantity
	} else {
		if !entry.Sized() {
			entry = BagEntry{Sizes: make(map[string]int)}
		}
		entry.Sizes[size] = quantity
	}
	b[productID] = entry
	return nil
}

// Remove deletes a (productID, size) pair, or the whole entry when size
// is empty. Removing something that is not in the bag returns ErrNotInBag.
func (b Bag) Remove(productID, size string) error {
	entry, ok := b[productID]
	if !ok {
		return ErrNotInBag
	}

	if size == "" {
		delete(b, productID)
		return nil
	}

	if !entry.Sized() {
		return ErrNotInBag
	}
	if _, ok := entry.Sizes[size]; !ok {
		return ErrNotInBag
	}
	delete(entry.Sizes, size)
	if len(entry.Sizes) == 0 {
		delete(b, productID)
	} else {
		b[productID] = entry
	}
	return nil
}
