package product

// Recipe is the ordered list of products resolved during one session.
// It is append-only.
type Recipe struct {
	items []*Product
}

// Add appends p to the recipe.
func (r *Recipe) Add(p *Product) {
	r.items = append(r.items, p)
}

// Len returns the number of products in the recipe.
func (r *Recipe) Len() int {
	return len(r.items)
}

// Empty reports whether no product was added.
func (r *Recipe) Empty() bool {
	return len(r.items) == 0
}

// Names returns the display name of every product in insertion order.
// Products without a name use RecipePlaceholder.
func (r *Recipe) Names() []string {
	names := make([]string, 0, len(r.items))
	for _, p := range r.items {
		names = append(names, stringOr(p.ProductName, RecipePlaceholder))
	}
	return names
}
