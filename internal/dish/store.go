package dish

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresStore loads the catalog from a PostgreSQL dishes table.
type PostgresStore struct {
	db *sqlx.DB
}

// dishRow is the database shape of a Dish; list columns are stored as JSONB.
type dishRow struct {
	Position      int     `db:"position"`
	Name          string  `db:"name"`
	Cuisine       string  `db:"cuisine"`
	Subcategories []byte  `db:"subcategories"`
	Ingredients   []byte  `db:"ingredients"`
	Protein       float64 `db:"protein"`
	Calories      float64 `db:"calories"`
	RecipeURL     string  `db:"recipe_url"`
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(dataSourceName string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Create dishes table if not exists
	schema := `
	CREATE TABLE IF NOT EXISTS dishes (
		position INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		cuisine TEXT NOT NULL,
		subcategories JSONB NOT NULL DEFAULT '[]',
		ingredients JSONB NOT NULL DEFAULT '[]',
		protein DOUBLE PRECISION NOT NULL DEFAULT 0,
		calories DOUBLE PRECISION NOT NULL DEFAULT 0,
		recipe_url TEXT NOT NULL DEFAULT ''
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create dishes table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close releases the database connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// LoadDishes returns every dish ordered by its catalog position.
func (s *PostgresStore) LoadDishes(ctx context.Context) ([]Dish, error) {
	var rows []dishRow
	err := s.db.SelectContext(ctx, &rows, "SELECT position, name, cuisine, subcategories, ingredients, protein, calories, recipe_url FROM dishes ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to get dishes: %w", err)
	}

	dishes := make([]Dish, 0, len(rows))
	for _, r := range rows {
		d, err := r.toDish()
		if err != nil {
			return nil, err
		}
		dishes = append(dishes, d)
	}
	return dishes, nil
}

// Seed writes the given dishes into an empty table. It returns the number of
// rows inserted, which is zero when the table already holds a catalog.
func (s *PostgresStore) Seed(ctx context.Context, dishes []Dish) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM dishes"); err != nil {
		return 0, fmt.Errorf("failed to count dishes: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	for i, d := range dishes {
		r, err := newDishRow(i, d)
		if err != nil {
			return 0, err
		}
		_, err = tx.NamedExecContext(ctx,
			"INSERT INTO dishes (position, name, cuisine, subcategories, ingredients, protein, calories, recipe_url) VALUES (:position, :name, :cuisine, :subcategories, :ingredients, :protein, :calories, :recipe_url)",
			r,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert dish %q: %w", d.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit seed transaction: %w", err)
	}
	return len(dishes), nil
}

func newDishRow(position int, d Dish) (dishRow, error) {
	subcategories, err := json.Marshal(nonNil(d.Subcategories))
	if err != nil {
		return dishRow{}, fmt.Errorf("failed to marshal subcategories: %w", err)
	}
	ingredients, err := json.Marshal(nonNil(d.Ingredients))
	if err != nil {
		return dishRow{}, fmt.Errorf("failed to marshal ingredients: %w", err)
	}
	return dishRow{
		Position:      position,
		Name:          d.Name,
		Cuisine:       d.Cuisine,
		Subcategories: subcategories,
		Ingredients:   ingredients,
		Protein:       d.Protein,
		Calories:      d.Calories,
		RecipeURL:     d.RecipeURL,
	}, nil
}

func (r dishRow) toDish() (Dish, error) {
	d := Dish{
		Name:      r.Name,
		Cuisine:   r.Cuisine,
		Protein:   r.Protein,
		Calories:  r.Calories,
		RecipeURL: r.RecipeURL,
	}
	if err := json.Unmarshal(r.Subcategories, &d.Subcategories); err != nil {
		return Dish{}, fmt.Errorf("failed to unmarshal subcategories of %q: %w", r.Name, err)
	}
	if err := json.Unmarshal(r.Ingredients, &d.Ingredients); err != nil {
		return Dish{}, fmt.Errorf("failed to unmarshal ingredients of %q: %w", r.Name, err)
	}
	return d, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
