// Package database persists the static catalog in SQLite so deployments
// can manage items and recipes outside the binary. Only catalog data is
// stored; live production state never touches the database.
package database

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"shortorder/internal/catalog"
)

// ItemRecord is the items table row
type ItemRecord struct {
	gorm.Model
	ItemID    string `gorm:"column:item_id;unique_index"`
	Name      string
	Category  string
	Cost      int
	ShelfLife time.Duration
}

// TableName sets the table name for ItemRecord
func (ItemRecord) TableName() string {
	return "items"
}

// RecipeRecord is the recipes table row. Inputs are stored as a JSON
// text column, keeping the row flat while preserving input order.
type RecipeRecord struct {
	gorm.Model
	Output      string `gorm:"unique_index"`
	Name        string
	InputsJSON  string `gorm:"type:text"`
	Method      string
	Duration    time.Duration
	Zone        string
	Interaction string
	Position    int // registration order, first producer wins
}

// TableName sets the table name for RecipeRecord
func (RecipeRecord) TableName() string {
	return "recipes"
}

// Store wraps a gorm connection holding catalog data
type Store struct {
	db *gorm.DB
}

// Open connects to the SQLite database at path and migrates the schema
func Open(path string) (*Store, error) {
	db, err := gorm.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("database: open %s: %w", path, err)
	}
	db.AutoMigrate(&ItemRecord{}, &RecipeRecord{})
	if db.Error != nil {
		db.Close()
		return nil, fmt.Errorf("database: migrate: %w", db.Error)
	}
	return &Store{db: db}, nil
}

// Close releases the connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Seed writes the catalog into an empty database. A database that
// already holds items is left alone, so seeding is idempotent.
func (s *Store) Seed(cat *catalog.Catalog) error {
	var count int64
	s.db.Model(&ItemRecord{}).Count(&count)
	if count > 0 {
		return nil
	}
	for _, item := range cat.Items() {
		record := ItemRecord{
			ItemID:    item.ID,
			Name:      item.Name,
			Category:  string(item.Category),
			Cost:      item.Cost,
			ShelfLife: item.ShelfLife.D(),
		}
		if err := s.db.Create(&record).Error; err != nil {
			return fmt.Errorf("database: seed item %s: %w", item.ID, err)
		}
	}
	for i, recipe := range cat.Recipes() {
		inputs, err := json.Marshal(recipe.Inputs)
		if err != nil {
			return fmt.Errorf("database: encode inputs for %s: %w", recipe.Output, err)
		}
		record := RecipeRecord{
			Output:      recipe.Output,
			Name:        recipe.Name,
			InputsJSON:  string(inputs),
			Method:      string(recipe.Method),
			Duration:    recipe.Duration.D(),
			Zone:        string(recipe.Zone),
			Interaction: string(recipe.Interaction),
			Position:    i,
		}
		if err := s.db.Create(&record).Error; err != nil {
			return fmt.Errorf("database: seed recipe %s: %w", recipe.Output, err)
		}
	}
	return nil
}

// LoadCatalog rebuilds a validated catalog from the stored rows
func (s *Store) LoadCatalog() (*catalog.Catalog, error) {
	var itemRecords []ItemRecord
	if err := s.db.Order("id").Find(&itemRecords).Error; err != nil {
		return nil, fmt.Errorf("database: load items: %w", err)
	}
	items := make([]catalog.Item, 0, len(itemRecords))
	for _, record := range itemRecords {
		items = append(items, catalog.Item{
			ID:        record.ItemID,
			Name:      record.Name,
			Category:  catalog.Category(record.Category),
			Cost:      record.Cost,
			ShelfLife: catalog.Duration(record.ShelfLife),
		})
	}

	var recipeRecords []RecipeRecord
	if err := s.db.Order("position").Find(&recipeRecords).Error; err != nil {
		return nil, fmt.Errorf("database: load recipes: %w", err)
	}
	recipes := make([]catalog.Recipe, 0, len(recipeRecords))
	for _, record := range recipeRecords {
		var inputs []catalog.Ingredient
		if record.InputsJSON != "" {
			if err := json.Unmarshal([]byte(record.InputsJSON), &inputs); err != nil {
				return nil, fmt.Errorf("database: decode inputs for %s: %w", record.Output, err)
			}
		}
		recipes = append(recipes, catalog.Recipe{
			Output:      record.Output,
			Name:        record.Name,
			Inputs:      inputs,
			Method:      catalog.Method(record.Method),
			Duration:    catalog.Duration(record.Duration),
			Zone:        catalog.Zone(record.Zone),
			Interaction: catalog.Interaction(record.Interaction),
		})
	}

	cat, err := catalog.New(items, recipes)
	if err != nil {
		return nil, fmt.Errorf("database: stored catalog invalid: %w", err)
	}
	return cat, nil
}
