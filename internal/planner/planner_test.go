package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortorder/internal/catalog"
)

// sharedStepCatalog builds a chain where two branches both need the
// same intermediate: combo needs burger and slider, and both of those
// need a patty.
func sharedStepCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	items := []catalog.Item{
		{ID: "beef", Name: "Beef", Category: catalog.CategoryRaw, Cost: 100},
		{ID: "bread", Name: "Bread", Category: catalog.CategoryRaw, Cost: 50},
		{ID: "patty", Name: "Patty", Category: catalog.CategoryPrepped, ShelfLife: catalog.Duration(time.Minute)},
		{ID: "burger", Name: "Burger", Category: catalog.CategoryPrepped, ShelfLife: catalog.Duration(time.Minute)},
		{ID: "slider", Name: "Slider", Category: catalog.CategoryPrepped, ShelfLife: catalog.Duration(time.Minute)},
		{ID: "combo", Name: "Combo", Category: catalog.CategoryDish, ShelfLife: catalog.Duration(2 * time.Minute)},
	}
	recipes := []catalog.Recipe{
		{
			Output: "patty", Name: "Grill Patty", Method: catalog.MethodCook,
			Duration: catalog.Duration(2 * time.Second), Zone: catalog.ZoneStove, Interaction: catalog.InteractionAuto,
			Inputs: []catalog.Ingredient{{ItemID: "beef", Quantity: 1}},
		},
		{
			Output: "burger", Name: "Build Burger", Method: catalog.MethodPrep,
			Duration: catalog.Duration(3 * time.Second), Zone: catalog.ZoneCuttingBoard, Interaction: catalog.InteractionHold,
			Inputs: []catalog.Ingredient{{ItemID: "patty", Quantity: 1}, {ItemID: "bread", Quantity: 1}},
		},
		{
			Output: "slider", Name: "Build Slider", Method: catalog.MethodPrep,
			Duration: catalog.Duration(time.Second), Zone: catalog.ZoneCuttingBoard, Interaction: catalog.InteractionHold,
			Inputs: []catalog.Ingredient{{ItemID: "patty", Quantity: 2}, {ItemID: "bread", Quantity: 1}},
		},
		{
			Output: "combo", Name: "Combo", Method: catalog.MethodAssemble,
			Inputs: []catalog.Ingredient{{ItemID: "burger", Quantity: 1}, {ItemID: "slider", Quantity: 1}},
		},
	}
	cat, err := catalog.New(items, recipes)
	require.NoError(t, err)
	return cat
}

func TestResolveChainLeafInputs(t *testing.T) {
	// Both inputs of sushi-rice are raw, so the node has no children.
	cat := catalog.Default()
	node, err := ResolveChain(cat, "sushi-rice")
	require.NoError(t, err)
	assert.Equal(t, "sushi-rice", node.Step.Output)
	assert.Empty(t, node.Children)
}

func TestResolveChainNotProducible(t *testing.T) {
	cat := catalog.Default()

	_, err := ResolveChain(cat, "bun")
	assert.ErrorIs(t, err, ErrNotProducible, "raw items are not producible")

	_, err = ResolveChain(cat, "unobtainium")
	assert.ErrorIs(t, err, ErrNotProducible)
}

func TestResolveChainNested(t *testing.T) {
	cat := sharedStepCatalog(t)
	node, err := ResolveChain(cat, "combo")
	require.NoError(t, err)
	require.Len(t, node.Children, 2)

	burger := node.Children[0]
	assert.Equal(t, "burger", burger.Step.Output)
	require.Len(t, burger.Children, 1)
	assert.Equal(t, "patty", burger.Children[0].Step.Output)

	slider := node.Children[1]
	assert.Equal(t, "slider", slider.Step.Output)
	require.Len(t, slider.Children, 1, "the tree repeats shared nodes; only flattening dedups")
}

func TestFlattenChainDependencyOrder(t *testing.T) {
	cat := sharedStepCatalog(t)
	node, err := ResolveChain(cat, "combo")
	require.NoError(t, err)

	steps := FlattenChain(node)
	outputs := make([]string, 0, len(steps))
	for _, step := range steps {
		outputs = append(outputs, step.Output)
	}
	assert.Equal(t, []string{"patty", "burger", "slider", "combo"}, outputs,
		"producers come before consumers, shared steps appear once, root last")
}

func TestTotalRawIngredientsSharedDiscount(t *testing.T) {
	cat := sharedStepCatalog(t)
	node, err := ResolveChain(cat, "combo")
	require.NoError(t, err)

	totals := TotalRawIngredients(node)
	// The shared patty step is counted once, so its beef contributes a
	// single unit even though the slider branch would need two patties.
	assert.Equal(t, map[string]int{"beef": 1, "bread": 2}, totals)
}

func TestTotalRecipeTime(t *testing.T) {
	cat := sharedStepCatalog(t)
	node, err := ResolveChain(cat, "combo")
	require.NoError(t, err)

	// patty 2s + burger 3s + slider 1s + combo 0s, patty counted once.
	assert.Equal(t, 6*time.Second, TotalRecipeTime(node))
}

func TestTotalRawCost(t *testing.T) {
	cat := sharedStepCatalog(t)
	node, err := ResolveChain(cat, "combo")
	require.NoError(t, err)

	// beef 1x100 + bread 2x50
	assert.Equal(t, 200, TotalRawCost(cat, node))
}

func TestDefaultCatalogPlans(t *testing.T) {
	cat := catalog.Default()
	node, err := ResolveChain(cat, "cheeseburger")
	require.NoError(t, err)

	steps := FlattenChain(node)
	require.NotEmpty(t, steps)
	assert.Equal(t, "cheeseburger", steps[len(steps)-1].Output)

	totals := TotalRawIngredients(node)
	assert.Equal(t, 1, totals["bun"])
	assert.Equal(t, 1, totals["beef-patty"])
	assert.Equal(t, 1, totals["cheese"])
	assert.Equal(t, 1, totals["lettuce"])
}
