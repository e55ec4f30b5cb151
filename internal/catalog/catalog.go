// Package catalog holds the static item and recipe definitions the rest
// of the kitchen operates on. Catalog data is loaded once at startup and
// never mutated afterwards.
package catalog

import (
	"fmt"
	"time"
)

// Category represents the category of a catalog item
type Category string

const (
	// Item categories
	CategoryRaw     Category = "raw"
	CategoryPrepped Category = "prepped"
	CategoryDish    Category = "dish"
)

// Method represents how a recipe transforms its inputs
type Method string

const (
	// Recipe methods
	MethodPrep     Method = "prep"
	MethodCook     Method = "cook"
	MethodAssemble Method = "assemble"
)

// Zone represents a physical production zone in the kitchen
type Zone string

const (
	// Production zones
	ZoneCuttingBoard Zone = "cutting_board"
	ZoneStove        Zone = "stove"
	ZoneOven         Zone = "oven"
)

// Interaction represents how a station slot's progress advances
type Interaction string

const (
	// Slot interactions: hold needs continuous activation, flip pauses
	// at the halfway mark for a manual flip, auto runs unattended.
	InteractionHold Interaction = "hold"
	InteractionFlip Interaction = "flip"
	InteractionAuto Interaction = "auto"
)

// Item represents a single catalog item. Raw items carry a purchase
// cost and never expire; prepped items and dishes carry a shelf life
// instead.
type Item struct {
	ID        string   `yaml:"id" json:"id"`
	Name      string   `yaml:"name" json:"name"`
	Category  Category `yaml:"category" json:"category"`
	Cost      int      `yaml:"cost,omitempty" json:"cost,omitempty"`
	ShelfLife Duration `yaml:"shelf_life,omitempty" json:"shelf_life,omitempty"`
}

// Ingredient represents one required input of a recipe
type Ingredient struct {
	ItemID   string `yaml:"item" json:"item_id"`
	Quantity int    `yaml:"qty" json:"quantity"`
}

// Recipe represents a production step. Its identity is the item it
// produces; prep and cook recipes run on a zone, assemble recipes are
// instantaneous and zone-free.
type Recipe struct {
	Output      string       `yaml:"output" json:"output"`
	Name        string       `yaml:"name" json:"name"`
	Inputs      []Ingredient `yaml:"inputs" json:"inputs"`
	Method      Method       `yaml:"method" json:"method"`
	Duration    Duration     `yaml:"duration,omitempty" json:"duration,omitempty"`
	Zone        Zone         `yaml:"zone,omitempty" json:"zone,omitempty"`
	Interaction Interaction  `yaml:"interaction,omitempty" json:"interaction,omitempty"`
}

// Catalog is an immutable lookup over items and recipes. Recipe
// registration order is significant: when more than one recipe produces
// the same output, the first registered one wins.
type Catalog struct {
	items    map[string]Item
	order    []string
	recipes  []Recipe
	byOutput map[string]int
}

// New builds and validates a catalog from item and recipe definitions
func New(items []Item, recipes []Recipe) (*Catalog, error) {
	c := &Catalog{
		items:    make(map[string]Item, len(items)),
		order:    make([]string, 0, len(items)),
		recipes:  make([]Recipe, len(recipes)),
		byOutput: make(map[string]int, len(recipes)),
	}
	for _, item := range items {
		if _, exists := c.items[item.ID]; exists {
			return nil, fmt.Errorf("duplicate item id: %s", item.ID)
		}
		c.items[item.ID] = item
		c.order = append(c.order, item.ID)
	}
	copy(c.recipes, recipes)
	for i, r := range c.recipes {
		if _, exists := c.byOutput[r.Output]; !exists {
			c.byOutput[r.Output] = i
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Item returns the item with the given id
func (c *Catalog) Item(id string) (Item, bool) {
	item, ok := c.items[id]
	return item, ok
}

// Items returns all items in registration order
func (c *Catalog) Items() []Item {
	items := make([]Item, 0, len(c.order))
	for _, id := range c.order {
		items = append(items, c.items[id])
	}
	return items
}

// Recipes returns all recipes in registration order
func (c *Catalog) Recipes() []Recipe {
	recipes := make([]Recipe, len(c.recipes))
	copy(recipes, c.recipes)
	return recipes
}

// RecipeFor returns the first registered recipe producing the given
// item, if any. Raw items have no producing recipe.
func (c *Catalog) RecipeFor(output string) (Recipe, bool) {
	i, ok := c.byOutput[output]
	if !ok {
		return Recipe{}, false
	}
	return c.recipes[i], true
}

// IsRaw reports whether the id names a known raw-category item
func (c *Catalog) IsRaw(id string) bool {
	item, ok := c.items[id]
	return ok && item.Category == CategoryRaw
}

// ShelfLife returns the shelf life of the item, if it has one. Raw
// items have none and never expire.
func (c *Catalog) ShelfLife(id string) (time.Duration, bool) {
	item, ok := c.items[id]
	if !ok || item.ShelfLife <= 0 {
		return 0, false
	}
	return time.Duration(item.ShelfLife), true
}

// Validate checks every catalog invariant: the cost/shelf-life
// partition on items, recipe input and duration rules, and that the
// recipe graph is acyclic.
func (c *Catalog) Validate() error {
	for _, id := range c.order {
		if err := validateItem(c.items[id]); err != nil {
			return err
		}
	}
	for _, r := range c.recipes {
		if err := c.validateRecipe(r); err != nil {
			return err
		}
	}
	return c.checkAcyclic()
}

func validateItem(item Item) error {
	if item.ID == "" {
		return fmt.Errorf("item id is required")
	}
	if item.Name == "" {
		return fmt.Errorf("item %s: name is required", item.ID)
	}
	switch item.Category {
	case CategoryRaw:
		if item.Cost <= 0 {
			return fmt.Errorf("raw item %s: cost must be greater than 0", item.ID)
		}
		if item.ShelfLife != 0 {
			return fmt.Errorf("raw item %s: must not have a shelf life", item.ID)
		}
	case CategoryPrepped, CategoryDish:
		if item.ShelfLife <= 0 {
			return fmt.Errorf("item %s: shelf life must be greater than 0", item.ID)
		}
		if item.Cost != 0 {
			return fmt.Errorf("item %s: only raw items carry a cost", item.ID)
		}
	default:
		return fmt.Errorf("item %s: unknown category %q", item.ID, item.Category)
	}
	return nil
}

func (c *Catalog) validateRecipe(r Recipe) error {
	out, ok := c.items[r.Output]
	if !ok {
		return fmt.Errorf("recipe %s: unknown output item", r.Output)
	}
	if out.Category == CategoryRaw {
		return fmt.Errorf("recipe %s: raw items cannot be produced", r.Output)
	}
	if len(r.Inputs) == 0 {
		return fmt.Errorf("recipe %s: must have at least one input", r.Output)
	}
	for _, in := range r.Inputs {
		if _, ok := c.items[in.ItemID]; !ok {
			return fmt.Errorf("recipe %s: unknown input item %s", r.Output, in.ItemID)
		}
		if in.Quantity <= 0 {
			return fmt.Errorf("recipe %s: input %s quantity must be greater than 0", r.Output, in.ItemID)
		}
	}
	switch r.Method {
	case MethodAssemble:
		if r.Duration != 0 {
			return fmt.Errorf("recipe %s: assemble recipes carry no station time", r.Output)
		}
		if r.Zone != "" || r.Interaction != "" {
			return fmt.Errorf("recipe %s: assemble recipes have no zone or interaction", r.Output)
		}
	case MethodPrep, MethodCook:
		if r.Duration <= 0 {
			return fmt.Errorf("recipe %s: %s recipes need a positive duration", r.Output, r.Method)
		}
		switch r.Zone {
		case ZoneCuttingBoard, ZoneStove, ZoneOven:
		default:
			return fmt.Errorf("recipe %s: unknown zone %q", r.Output, r.Zone)
		}
		switch r.Interaction {
		case InteractionHold, InteractionFlip, InteractionAuto:
		default:
			return fmt.Errorf("recipe %s: unknown interaction %q", r.Output, r.Interaction)
		}
	default:
		return fmt.Errorf("recipe %s: unknown method %q", r.Output, r.Method)
	}
	return nil
}

// checkAcyclic rejects catalogs whose recipe graph would send the
// resolver into an infinite descent.
func (c *Catalog) checkAcyclic() error {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(c.byOutput))
	var visit func(id string) error
	visit = func(id string) error {
		switch state[id] {
		case visiting:
			return fmt.Errorf("recipe cycle through %s", id)
		case done:
			return nil
		}
		r, ok := c.RecipeFor(id)
		if !ok {
			state[id] = done
			return nil
		}
		state[id] = visiting
		for _, in := range r.Inputs {
			if err := visit(in.ItemID); err != nil {
				return err
			}
		}
		state[id] = done
		return nil
	}
	for output := range c.byOutput {
		if err := visit(output); err != nil {
			return err
		}
	}
	return nil
}
