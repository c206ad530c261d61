package dish

import "context"

// StaticSource serves the dish table compiled into the binary.
type StaticSource struct{}

// LoadDishes returns the built-in dish table.
func (StaticSource) LoadDishes(ctx context.Context) ([]Dish, error) {
	return defaultDishes, nil
}

var defaultDishes = []Dish{
	{
		Name:          "Köttbullar med potatismos",
		Cuisine:       "Svensk",
		Subcategories: []string{"Husmanskost", "Barnvänligt"},
		Ingredients:   []string{"Nötfärs", "Ströbröd", "Mjölk", "Ägg", "Potatis", "Smör", "Lingonsylt"},
		Protein:       32,
		Calories:      720,
		RecipeURL:     "https://www.ica.se/recept/kottbullar-med-potatismos/",
	},
	{
		Name:          "Laxpudding",
		Cuisine:       "Svensk",
		Subcategories: []string{"Husmanskost", "Fisk"},
		Ingredients:   []string{"Gravad lax", "Potatis", "Ägg", "Mjölk", "Dill", "Smör"},
		Protein:       28,
		Calories:      560,
		RecipeURL:     "https://www.ica.se/recept/laxpudding/",
	},
	{
		Name:          "Tacos",
		Cuisine:       "Mexikansk",
		Subcategories: []string{"Stark", "Barnvänligt"},
		Ingredients:   []string{"Nötfärs", "Tortillabröd", "Tomat", "Gurka", "Riven ost", "Gräddfil"},
		Protein:       30,
		Calories:      650,
		RecipeURL:     "https://www.ica.se/recept/tacos/",
	},
	{
		Name:          "Chili con carne",
		Cuisine:       "Mexikansk",
		Subcategories: []string{"Stark", "Långkok"},
		Ingredients:   []string{"Nötfärs", "Kidneybönor", "Krossade tomater", "Lök", "Chili", "Vitlök"},
		Protein:       35,
		Calories:      540,
		RecipeURL:     "https://www.ica.se/recept/chili-con-carne/",
	},
	{
		Name:          "Pasta carbonara",
		Cuisine:       "Italiensk",
		Subcategories: []string{"Snabbt", "Barnvänligt"},
		Ingredients:   []string{"Spaghetti", "Bacon", "Ägg", "Parmesan", "Svartpeppar"},
		Protein:       27,
		Calories:      780,
		RecipeURL:     "https://www.ica.se/recept/pasta-carbonara/",
	},
	{
		Name:          "Risotto med svamp",
		Cuisine:       "Italiensk",
		Subcategories: []string{"Vegetariskt"},
		Ingredients:   []string{"Arborioris", "Champinjoner", "Lök", "Vitt vin", "Parmesan", "Grönsaksbuljong", "Smör"},
		Protein:       14,
		Calories:      610,
		RecipeURL:     "https://www.ica.se/recept/svamprisotto/",
	},
	{
		Name:          "Kycklingcurry",
		Cuisine:       "Indisk",
		Subcategories: []string{"Stark", "Snabbt"},
		Ingredients:   []string{"Kycklingfilé", "Kokosmjölk", "Currypasta", "Lök", "Ris", "Koriander"},
		Protein:       38,
		Calories:      690,
		RecipeURL:     "https://www.ica.se/recept/kycklingcurry/",
	},
	{
		Name:          "Dal med linser",
		Cuisine:       "Indisk",
		Subcategories: []string{"Vegetariskt", "Långkok"},
		Ingredients:   []string{"Röda linser", "Krossade tomater", "Kokosmjölk", "Ingefära", "Vitlök", "Spiskummin"},
		Protein:       18,
		Calories:      480,
		RecipeURL:     "https://www.ica.se/recept/dal/",
	},
	{
		Name:          "Pad thai",
		Cuisine:       "Thailändsk",
		Subcategories: []string{"Snabbt"},
		Ingredients:   []string{"Risnudlar", "Räkor", "Ägg", "Jordnötter", "Lime", "Fisksås", "Böngroddar"},
		Protein:       29,
		Calories:      630,
		RecipeURL:     "https://www.ica.se/recept/pad-thai/",
	},
}
