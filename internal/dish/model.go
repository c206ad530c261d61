package dish

import (
	"encoding/json"
	"strings"
)

// Dish represents a single recipe card in the catalog.
type Dish struct {
	Name          string   `json:"name" db:"name"`
	Cuisine       string   `json:"cuisine" db:"cuisine"`
	Subcategories []string `json:"subcategories"`
	Ingredients   []string `json:"ingredients"`
	Protein       float64  `json:"protein" db:"protein"`
	Calories      float64  `json:"calories" db:"calories"`
	RecipeURL     string   `json:"recipe_url" db:"recipe_url"`
}

// UnmarshalJSON implements the json.Unmarshaler interface for Dish.
func (d *Dish) UnmarshalJSON(data []byte) error {
	type Alias Dish // Create an alias to avoid infinite recursion
	aux := &struct {
		*Alias
	}{
		Alias: (*Alias)(d),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	d.Name = strings.TrimSpace(d.Name)
	d.Cuisine = strings.TrimSpace(d.Cuisine)

	return nil
}

// HasSubcategory reports whether the dish is tagged with the given subcategory.
func (d Dish) HasSubcategory(subcategory string) bool {
	for _, s := range d.Subcategories {
		if s == subcategory {
			return true
		}
	}
	return false
}

// HasIngredient reports whether the ingredient appears in the dish's ingredient list.
func (d Dish) HasIngredient(ingredient string) bool {
	for _, i := range d.Ingredients {
		if i == ingredient {
			return true
		}
	}
	return false
}
