// Package planner resolves a target item into its chain of production
// steps and derives listing-oriented aggregates from the chain.
package planner

import (
	"errors"
	"fmt"
	"time"

	"shortorder/internal/catalog"
)

// ErrNotProducible is returned when a target has no producing recipe,
// either because it is raw or because it is unknown.
var ErrNotProducible = errors.New("item is not producible")

// Node is one resolved production step. Children cover the non-raw
// inputs of the step; raw inputs terminate a branch and are tracked
// only through the step's input list.
type Node struct {
	Step     catalog.Recipe
	Children []*Node
}

// ResolveChain builds the full dependency tree for the target item.
// When more than one recipe produces an item the first registered one
// is used. The tree is built fresh on every call.
func ResolveChain(cat *catalog.Catalog, targetID string) (*Node, error) {
	step, ok := cat.RecipeFor(targetID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotProducible, targetID)
	}
	node := &Node{Step: step}
	for _, in := range step.Inputs {
		if _, ok := cat.RecipeFor(in.ItemID); !ok {
			continue
		}
		child, err := ResolveChain(cat, in.ItemID)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

// FlattenChain lists the chain's steps in dependency order: every
// step's producing steps appear before it and the root step is last.
// A step shared by multiple branches is listed once, on its first
// encounter. The dedup makes the flattening (and the aggregates below)
// a listing of distinct work, not a quantity-accurate production plan
// for shared intermediates.
func FlattenChain(node *Node) []catalog.Recipe {
	return flatten(node, make(map[string]bool), nil)
}

func flatten(n *Node, seen map[string]bool, out []catalog.Recipe) []catalog.Recipe {
	if n == nil || seen[n.Step.Output] {
		return out
	}
	seen[n.Step.Output] = true
	for _, child := range n.Children {
		out = flatten(child, seen, out)
	}
	return append(out, n.Step)
}

// TotalRawIngredients sums the raw inputs over the chain's distinct
// steps, keyed by raw item id. Shared steps contribute once, matching
// FlattenChain.
func TotalRawIngredients(node *Node) map[string]int {
	totals := make(map[string]int)
	accumulateRaw(node, make(map[string]bool), totals)
	return totals
}

func accumulateRaw(n *Node, seen map[string]bool, totals map[string]int) {
	if n == nil || seen[n.Step.Output] {
		return
	}
	seen[n.Step.Output] = true
	produced := make(map[string]bool, len(n.Children))
	for _, child := range n.Children {
		produced[child.Step.Output] = true
		accumulateRaw(child, seen, totals)
	}
	for _, in := range n.Step.Inputs {
		if !produced[in.ItemID] {
			totals[in.ItemID] += in.Quantity
		}
	}
}

// TotalRecipeTime sums the durations of the chain's distinct steps
func TotalRecipeTime(node *Node) time.Duration {
	var total time.Duration
	for _, step := range FlattenChain(node) {
		total += step.Duration.D()
	}
	return total
}

// TotalRawCost prices the chain's raw ingredient totals against the
// catalog's unit costs.
func TotalRawCost(cat *catalog.Catalog, node *Node) int {
	total := 0
	for id, qty := range TotalRawIngredients(node) {
		if item, ok := cat.Item(id); ok {
			total += item.Cost * qty
		}
	}
	return total
}
