package dish

import (
	"context"
	"fmt"
)

// Source loads the dish records that make up the catalog.
type Source interface {
	LoadDishes(ctx context.Context) ([]Dish, error)
}

// Facets lists the filter values offered to the user.
type Facets struct {
	Cuisines      []string `json:"cuisines"`
	Subcategories []string `json:"subcategories"`
}

// Catalog is the immutable, ordered list of dishes for the process lifetime.
type Catalog struct {
	dishes []Dish
	facets Facets
}

// NewCatalog creates a Catalog from the given dishes. The slice is copied.
func NewCatalog(dishes []Dish) *Catalog {
	own := make([]Dish, len(dishes))
	for i, d := range dishes {
		own[i] = Dish{
			Name:          d.Name,
			Cuisine:       d.Cuisine,
			Subcategories: append([]string(nil), d.Subcategories...),
			Ingredients:   append([]string(nil), d.Ingredients...),
			Protein:       d.Protein,
			Calories:      d.Calories,
			RecipeURL:     d.RecipeURL,
		}
	}
	return &Catalog{
		dishes: own,
		facets: Facets{
			Cuisines:      Cuisines(own),
			Subcategories: Subcategories(own),
		},
	}
}

// LoadCatalog builds a Catalog from the given source.
func LoadCatalog(ctx context.Context, src Source) (*Catalog, error) {
	dishes, err := src.LoadDishes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load dishes: %w", err)
	}
	return NewCatalog(dishes), nil
}

// Dishes returns the catalog entries in order. Callers must not modify them.
func (c *Catalog) Dishes() []Dish {
	return c.dishes
}

// Len returns the number of dishes in the catalog.
func (c *Catalog) Len() int {
	return len(c.dishes)
}

// Facets returns the cuisines and subcategories present in the catalog.
func (c *Catalog) Facets() Facets {
	return Facets{
		Cuisines:      append([]string(nil), c.facets.Cuisines...),
		Subcategories: append([]string(nil), c.facets.Subcategories...),
	}
}

// Visible returns the dishes matching the given facets.
func (c *Catalog) Visible(cuisine, subcategory string) []Dish {
	return ComputeVisible(c.dishes, cuisine, subcategory)
}
