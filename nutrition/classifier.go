package nutrition

import (
	"fmt"
	"math"

	"github.com/Waqasktk456/whichFOOD-EXAM/models"
)

// Focus is the single primary-nutrient label steering recommendations.
type Focus string

const (
	FocusBalanced    Focus = "balanced"
	FocusHighProtein Focus = "high-protein"
	FocusLowProtein  Focus = "low-protein"
	FocusHighFat     Focus = "high-fat"
	FocusLowFat      Focus = "low-fat"
	FocusHighCarb    Focus = "high-carb"
	FocusLowCarb     Focus = "low-carb"
)

// AllFocuses lists every label the classifier can return.
var AllFocuses = []Focus{
	FocusBalanced,
	FocusHighProtein, FocusLowProtein,
	FocusHighFat, FocusLowFat,
	FocusHighCarb, FocusLowCarb,
}

// GapThreshold is the relative gap above which a nutrient becomes the focus.
const GapThreshold = 0.20

// Gaps returns goal minus intake; positive is a deficit, negative a surplus.
func Gaps(goals Goals, intake models.NutrientVector) models.NutrientVector {
	return goals.Vector().Sub(intake).Round(1)
}

// Classify tests protein, fat and carbs in that order and returns the first
// whose |gap/goal| exceeds GapThreshold, else FocusBalanced.
func Classify(goals Goals, gaps models.NutrientVector) (Focus, error) {
	checks := []struct {
		name      string
		goal, gap float64
		high, low Focus
	}{
		{"protein", goals.Protein, gaps.Protein, FocusHighProtein, FocusLowProtein},
		{"fat", goals.Fat, gaps.Fat, FocusHighFat, FocusLowFat},
		{"carbs", goals.Carbs, gaps.Carbs, FocusHighCarb, FocusLowCarb},
	}
	for _, c := range checks {
		if !(c.goal > 0) {
			return "", fmt.Errorf("%w: %s goal is %.0f", ErrInvalidGoal, c.name, c.goal)
		}
		if math.Abs(c.gap/c.goal) > GapThreshold {
			if c.gap > 0 {
				return c.high, nil
			}
			return c.low, nil
		}
	}
	return FocusBalanced, nil
}
