package nutrition

import (
	"sort"

	"github.com/Waqasktk456/whichFOOD-EXAM/models"
)

const (
	DefaultResultLimit = 10
	MaxResultLimit     = 50
)

// FoodCandidate is a provider search hit normalised to one shape. Nutrients
// are per reference quantity (Measure).
type FoodCandidate struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	Brand     string                `json:"brand,omitempty"`
	Category  string                `json:"category,omitempty"`
	Image     string                `json:"image,omitempty"`
	Measure   string                `json:"measure"`
	Nutrients models.NutrientVector `json:"nutrients"`

	Reason   string `json:"recommendationReason,omitempty"`
	Fallback bool   `json:"fallback,omitempty"`
}

var reasons = map[Focus]string{
	FocusHighProtein: "Recommended to help meet your protein goals",
	FocusLowProtein:  "Recommended to balance your protein intake",
	FocusHighFat:     "Recommended to increase healthy fat intake",
	FocusLowFat:      "Recommended to reduce fat intake",
	FocusHighCarb:    "Recommended to increase your energy intake",
	FocusLowCarb:     "Recommended to balance your carbohydrate intake",
	FocusBalanced:    "Recommended for a balanced diet",
}

// Reason is the explanation shown next to every recommendation for focus.
func Reason(f Focus) string {
	if r, ok := reasons[f]; ok {
		return r
	}
	return reasons[FocusBalanced]
}

// Score orders candidates for a focus; higher is better.
func Score(f Focus, n models.NutrientVector) float64 {
	switch f {
	case FocusHighProtein:
		return n.Protein
	case FocusLowProtein:
		return -n.Protein
	case FocusHighFat:
		return n.Fat
	case FocusLowFat:
		return -n.Fat
	case FocusHighCarb:
		return n.Carbs
	case FocusLowCarb:
		return -n.Carbs
	default:
		return n.Protein + n.Fiber
	}
}

// Dedupe keeps the first candidate seen for each id.
func Dedupe(in []FoodCandidate) []FoodCandidate {
	seen := make(map[string]struct{}, len(in))
	out := make([]FoodCandidate, 0, len(in))
	for _, c := range in {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Rank returns a new slice sorted by Score descending (ties keep input
// order), truncated to limit, with the focus reason attached.
func Rank(candidates []FoodCandidate, f Focus, limit int) []FoodCandidate {
	if limit <= 0 {
		limit = DefaultResultLimit
	}
	if limit > MaxResultLimit {
		limit = MaxResultLimit
	}

	out := append([]FoodCandidate(nil), candidates...)
	sort.SliceStable(out, func(i, j int) bool {
		return Score(f, out[i].Nutrients) > Score(f, out[j].Nutrients)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	reason := Reason(f)
	for i := range out {
		out[i].Reason = reason
	}
	return out
}
