package dish

// ComputeVisible returns the dishes matching both facets, in catalog order.
// An empty cuisine or subcategory matches every dish.
func ComputeVisible(catalog []Dish, cuisine, subcategory string) []Dish {
	visible := make([]Dish, 0, len(catalog))
	for _, d := range catalog {
		if cuisine != "" && d.Cuisine != cuisine {
			continue
		}
		if subcategory != "" && !d.HasSubcategory(subcategory) {
			continue
		}
		visible = append(visible, d)
	}
	return visible
}

// Cuisines returns the distinct cuisines of the catalog in first-seen order.
func Cuisines(catalog []Dish) []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range catalog {
		if seen[d.Cuisine] {
			continue
		}
		seen[d.Cuisine] = true
		out = append(out, d.Cuisine)
	}
	return out
}

// Subcategories returns the distinct subcategories across all dishes in first-seen order.
func Subcategories(catalog []Dish) []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range catalog {
		for _, s := range d.Subcategories {
			if seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
