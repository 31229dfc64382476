package domain

// Property is a single listing. Only ID is guaranteed to be set.
type Property struct {
	ID          string   `db:"id" json:"id"`
	Image       *string  `db:"image" json:"image,omitempty"` // /uploads/<name>
	Description *string  `db:"description" json:"description,omitempty"`
	Address     *string  `db:"address" json:"address,omitempty"`
	Price       *float64 `db:"price" json:"price,omitempty"`
}

// PropertyPatch holds the fields supplied by a write. Nil fields are left untouched.
type PropertyPatch struct {
	Image       *string
	Description *string
	Address     *string
	Price       *float64
}

func (p PropertyPatch) Empty() bool {
	return p.Image == nil && p.Description == nil && p.Address == nil && p.Price == nil
}

// Apply overlays the supplied fields onto prop.
func (p PropertyPatch) Apply(prop *Property) {
	if p.Image != nil {
		prop.Image = p.Image
	}
	if p.Description != nil {
		prop.Description = p.Description
	}
	if p.Address != nil {
		prop.Address = p.Address
	}
	if p.Price != nil {
		prop.Price = p.Price
	}
}
