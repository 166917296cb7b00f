package search

import (
	"context"
	"sort"
)

// GroupFacet is one catalog group with its item count.
type GroupFacet struct {
	Name       string `json:"name"`
	Code       string `json:"code"`
	ItemsCount int    `json:"items_count"`
}

// Facets lists the groups and the distinct values of each filterable
// attribute, so clients can build filter pickers without guessing what
// 1C actually sends.
type Facets struct {
	Groups        []GroupFacet `json:"groups"`
	MaterialTypes []string     `json:"material_types"`
	Species       []string     `json:"species"`
	Grades        []string     `json:"grades"`
	Moistures     []string     `json:"moistures"`
	Treatments    []string     `json:"treatments"`
}

// Categories builds facets from the current snapshot.
func (e *Engine) Categories(ctx context.Context) (*Facets, error) {
	items, err := e.loadItems(ctx)
	if err != nil {
		return nil, err
	}

	groupCounts := make(map[string]*GroupFacet)
	var groupOrder []string
	materials := map[string]bool{}
	species := map[string]bool{}
	grades := map[string]bool{}
	moistures := map[string]bool{}
	treatments := map[string]bool{}

	for _, it := range items {
		key := it.GroupCode + "|" + it.GroupName
		g, ok := groupCounts[key]
		if !ok {
			g = &GroupFacet{Name: it.GroupName, Code: it.GroupCode}
			groupCounts[key] = g
			groupOrder = append(groupOrder, key)
		}
		g.ItemsCount++

		collect(materials, it.MaterialType)
		collect(species, it.Species)
		collect(grades, it.Grade)
		collect(moistures, it.Moisture)
		collect(treatments, it.Treatment)
	}

	facets := &Facets{
		MaterialTypes: sortedKeys(materials),
		Species:       sortedKeys(species),
		Grades:        sortedKeys(grades),
		Moistures:     sortedKeys(moistures),
		Treatments:    sortedKeys(treatments),
	}
	// Groups keep catalog order, not alphabetical, because 1C orders
	// them the way the sales floor expects.
	for _, key := range groupOrder {
		facets.Groups = append(facets.Groups, *groupCounts[key])
	}
	return facets, nil
}

func collect(set map[string]bool, v string) {
	if v != "" {
		set[v] = true
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
