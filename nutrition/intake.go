package nutrition

import (
	"sort"
	"time"

	"github.com/Waqasktk456/whichFOOD-EXAM/models"
)

// DefaultLookback is the intake window used for recommendations.
const DefaultLookback = 3 * 24 * time.Hour

// DayKey is the UTC calendar date of t. Meals are bucketed by this key.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// DayTotal is the summed intake for one calendar day.
type DayTotal struct {
	Date  string                `json:"date"`
	Meals int                   `json:"meals"`
	Total models.NutrientVector `json:"total"`
}

// DailyTotals groups meals by UTC date and sums their totals, oldest first.
func DailyTotals(meals []models.Meal) []DayTotal {
	byDay := map[string]*DayTotal{}
	for _, m := range meals {
		key := DayKey(m.AteAt)
		d, ok := byDay[key]
		if !ok {
			d = &DayTotal{Date: key}
			byDay[key] = d
		}
		d.Meals++
		d.Total = d.Total.Add(m.Total)
	}

	out := make([]DayTotal, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// AverageDailyIntake is the mean of per-day totals over days that have
// meals. No meals yields the zero vector.
func AverageDailyIntake(meals []models.Meal) models.NutrientVector {
	days := DailyTotals(meals)
	if len(days) == 0 {
		return models.NutrientVector{}
	}
	var sum models.NutrientVector
	for _, d := range days {
		sum = sum.Add(d.Total)
	}
	return sum.Scale(1 / float64(len(days))).Round(1)
}
