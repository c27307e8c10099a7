package nutrition

import (
	"fmt"
	"strings"

	"github.com/Waqasktk456/whichFOOD-EXAM/models"
)

// DefaultMaxQueries bounds how many keywords are sent to the food provider.
const DefaultMaxQueries = 3

// mealSlot collapses meal types the keyword table treats alike.
type mealSlot int

const (
	slotAny mealSlot = iota
	slotBreakfast
	slotMain // lunch and dinner
	slotSnack
)

func slotFor(mealType string) (mealSlot, error) {
	if mealType == "" {
		return slotAny, nil
	}
	mt, err := models.ParseMealType(mealType)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMealType, mealType)
	}
	switch mt {
	case models.MealBreakfast:
		return slotBreakfast, nil
	case models.MealSnack:
		return slotSnack, nil
	default:
		return slotMain, nil
	}
}

var keywordTable = map[Focus]map[mealSlot][]string{
	FocusHighProtein: {
		slotBreakfast: {"eggs", "greek yogurt", "protein pancakes", "cottage cheese"},
		slotMain:      {"chicken breast", "salmon", "turkey", "lean beef", "tofu"},
		slotSnack:     {"protein bar", "nuts", "jerky", "protein shake"},
		slotAny:       {"chicken breast", "salmon", "greek yogurt", "eggs", "tofu"},
	},
	FocusLowProtein: {
		slotBreakfast: {"oatmeal", "fruit", "toast", "cereal"},
		slotMain:      {"rice", "pasta", "vegetables", "potatoes"},
		slotSnack:     {"fruit", "crackers", "pretzels"},
		slotAny:       {"rice", "fruits", "vegetables", "bread"},
	},
	FocusHighFat: {
		slotBreakfast: {"avocado toast", "nut butter", "whole eggs"},
		slotMain:      {"salmon", "avocado", "olive oil", "nuts"},
		slotSnack:     {"nuts", "cheese", "avocado"},
		slotAny:       {"avocado", "nuts", "olive oil", "cheese"},
	},
	FocusLowFat: {
		slotBreakfast: {"egg whites", "low fat yogurt", "fruit"},
		slotMain:      {"chicken breast", "turkey", "white fish", "vegetables"},
		slotSnack:     {"fruit", "low fat yogurt", "rice cakes"},
		slotAny:       {"lean meat", "vegetables", "fruits", "grains"},
	},
	FocusHighCarb: {
		slotBreakfast: {"oatmeal", "banana", "toast", "cereal"},
		slotMain:      {"pasta", "rice", "potatoes", "beans"},
		slotSnack:     {"fruit", "granola bar", "crackers"},
		slotAny:       {"pasta", "rice", "potatoes", "oats", "bananas"},
	},
	FocusLowCarb: {
		slotBreakfast: {"eggs", "avocado", "bacon", "sausage"},
		slotMain:      {"chicken", "beef", "fish", "leafy greens"},
		slotSnack:     {"nuts", "cheese", "jerky"},
		slotAny:       {"leafy greens", "meat", "fish", "eggs"},
	},
	FocusBalanced: {
		slotBreakfast: {"eggs", "oatmeal", "yogurt", "fruit"},
		slotMain:      {"chicken", "fish", "vegetables", "rice"},
		slotSnack:     {"fruit", "nuts", "yogurt"},
		slotAny:       {"balanced meal", "vegetables", "fruits", "lean protein"},
	},
}

var (
	plantDietMarkers = []string{"vegetarian", "vegan"}
	animalTerms      = []string{"chicken", "meat", "fish", "salmon", "beef", "turkey", "jerky", "bacon", "sausage"}
	plantProteins    = []string{"tofu", "lentils", "beans", "chickpeas"}
)

// QueryRequest carries what the selector needs from the user and request.
type QueryRequest struct {
	Focus               Focus
	MealType            string
	Allergies           []string
	DietaryRestrictions []string
	MaxQueries          int
}

// SelectQueries picks the ordered search keywords for a focus and meal type,
// drops terms conflicting with the diet, then drops terms containing any
// allergen, and caps the result.
func SelectQueries(req QueryRequest) ([]string, error) {
	slot, err := slotFor(req.MealType)
	if err != nil {
		return nil, err
	}
	row, ok := keywordTable[req.Focus]
	if !ok {
		return nil, fmt.Errorf("unknown focus %q", req.Focus)
	}
	queries := append([]string(nil), row[slot]...)

	if isPlantBased(req.DietaryRestrictions) {
		queries = removeMatching(queries, animalTerms)
		for _, p := range plantProteins {
			if !contains(queries, p) {
				queries = append(queries, p)
			}
		}
	}
	queries = removeMatching(queries, normalizeTerms(req.Allergies))

	limit := req.MaxQueries
	if limit <= 0 {
		limit = DefaultMaxQueries
	}
	if len(queries) > limit {
		queries = queries[:limit]
	}
	return queries, nil
}

// FilterAllowed reports whether name passes the same diet and allergy rules
// the keyword selector applies.
func FilterAllowed(name string, allergies, restrictions []string) bool {
	n := strings.ToLower(name)
	if isPlantBased(restrictions) && containsAny(n, animalTerms) {
		return false
	}
	return !containsAny(n, normalizeTerms(allergies))
}

func isPlantBased(restrictions []string) bool {
	for _, r := range restrictions {
		if containsAny(strings.ToLower(r), plantDietMarkers) {
			return true
		}
	}
	return false
}

// normalizeTerms lowercases allergy terms and adds the singular of simple
// plurals, so "peanuts" also catches "peanut butter".
func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		out = append(out, t)
		if len(t) > 3 && strings.HasSuffix(t, "s") && !strings.HasSuffix(t, "ss") {
			out = append(out, strings.TrimSuffix(t, "s"))
		}
	}
	return out
}

// removeMatching drops every query containing one of the lowercase terms.
func removeMatching(queries, terms []string) []string {
	out := queries[:0]
	for _, q := range queries {
		if !containsAny(strings.ToLower(q), terms) {
			out = append(out, q)
		}
	}
	return out
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
