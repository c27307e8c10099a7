package nutrition

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Waqasktk456/whichFOOD-EXAM/models"
)

func TestKeywordTableCoversEveryFocusAndSlot(t *testing.T) {
	entries := 0
	for _, f := range AllFocuses {
		row, ok := keywordTable[f]
		require.True(t, ok, "focus %s", f)
		for _, slot := range []mealSlot{slotAny, slotBreakfast, slotMain, slotSnack} {
			assert.NotEmpty(t, row[slot], "focus %s slot %d", f, slot)
			entries++
		}
	}
	assert.Equal(t, 28, entries)
}

func TestSelectQueries(t *testing.T) {
	q, err := SelectQueries(QueryRequest{Focus: FocusHighProtein, MealType: "breakfast"})
	require.NoError(t, err)
	assert.Equal(t, []string{"eggs", "greek yogurt", "protein pancakes"}, q)

	lunch, err := SelectQueries(QueryRequest{Focus: FocusLowCarb, MealType: "lunch", MaxQueries: 10})
	require.NoError(t, err)
	dinner, err := SelectQueries(QueryRequest{Focus: FocusLowCarb, MealType: "Dinner", MaxQueries: 10})
	require.NoError(t, err)
	assert.Equal(t, lunch, dinner)

	all, err := SelectQueries(QueryRequest{Focus: FocusBalanced, MaxQueries: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"balanced meal", "vegetables", "fruits", "lean protein"}, all)
}

func TestSelectQueriesDoesNotMutateTable(t *testing.T) {
	before := append([]string(nil), keywordTable[FocusHighProtein][slotAny]...)
	_, err := SelectQueries(QueryRequest{
		Focus:               FocusHighProtein,
		DietaryRestrictions: []string{"vegan"},
		Allergies:           []string{"eggs"},
	})
	require.NoError(t, err)
	assert.Equal(t, before, keywordTable[FocusHighProtein][slotAny])
}

func TestSelectQueriesUnknownMealType(t *testing.T) {
	_, err := SelectQueries(QueryRequest{Focus: FocusBalanced, MealType: "brunch"})
	assert.ErrorIs(t, err, ErrInvalidMealType)
}

func TestSelectQueriesVegetarian(t *testing.T) {
	q, err := SelectQueries(QueryRequest{
		Focus:               FocusHighProtein,
		MealType:            "dinner",
		DietaryRestrictions: []string{"Lacto-Vegetarian"},
		MaxQueries:          10,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"tofu", "lentils", "beans", "chickpeas"}, q)
	for _, kw := range q {
		for _, meat := range animalTerms {
			assert.NotContains(t, kw, meat)
		}
	}
}

func TestSelectQueriesAllergy(t *testing.T) {
	// peanut butter toast must go for a peanut allergy
	q := removeMatching([]string{"peanut butter toast", "oatmeal", "banana"}, normalizeTerms([]string{"peanuts"}))
	assert.Equal(t, []string{"oatmeal", "banana"}, q)

	allergies := []string{"NUTS", "Eggs", "soy"}
	for _, f := range AllFocuses {
		for _, mt := range []string{"", "breakfast", "lunch", "snack"} {
			got, err := SelectQueries(QueryRequest{
				Focus:               f,
				MealType:            mt,
				Allergies:           allergies,
				DietaryRestrictions: []string{"vegan"},
				MaxQueries:          10,
			})
			require.NoError(t, err)
			for _, kw := range got {
				for _, a := range allergies {
					assert.NotContains(t, strings.ToLower(kw), strings.ToLower(a))
				}
			}
		}
	}
}

func TestSelectQueriesAllergyAppliesToPlantProteins(t *testing.T) {
	q, err := SelectQueries(QueryRequest{
		Focus:               FocusHighProtein,
		MealType:            "lunch",
		DietaryRestrictions: []string{"vegan"},
		Allergies:           []string{"beans"},
		MaxQueries:          10,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"tofu", "lentils", "chickpeas"}, q)
}

func TestFilterAllowed(t *testing.T) {
	assert.False(t, FilterAllowed("Chicken breast", nil, []string{"vegetarian"}))
	assert.True(t, FilterAllowed("Chicken breast", nil, nil))
	assert.False(t, FilterAllowed("Almonds", []string{"almond"}, nil))
	assert.True(t, FilterAllowed("Banana, raw", []string{"peanuts"}, []string{"vegan"}))
}

func TestRank(t *testing.T) {
	cands := []FoodCandidate{
		{ID: "a", Nutrients: models.NutrientVector{Protein: 5, Fat: 10, Carbs: 20, Fiber: 1}},
		{ID: "b", Nutrients: models.NutrientVector{Protein: 30, Fat: 2, Carbs: 0, Fiber: 0}},
		{ID: "c", Nutrients: models.NutrientVector{Protein: 10, Fat: 20, Carbs: 5, Fiber: 8}},
	}
	ids := func(cs []FoodCandidate) []string {
		out := make([]string, len(cs))
		for i, c := range cs {
			out[i] = c.ID
		}
		return out
	}

	assert.Equal(t, []string{"b", "c", "a"}, ids(Rank(cands, FocusHighProtein, 10)))
	assert.Equal(t, []string{"a", "c", "b"}, ids(Rank(cands, FocusLowProtein, 10)))
	assert.Equal(t, []string{"c", "a", "b"}, ids(Rank(cands, FocusHighFat, 10)))
	assert.Equal(t, []string{"b", "a", "c"}, ids(Rank(cands, FocusLowFat, 10)))
	assert.Equal(t, []string{"a", "c", "b"}, ids(Rank(cands, FocusHighCarb, 10)))
	assert.Equal(t, []string{"b", "c", "a"}, ids(Rank(cands, FocusLowCarb, 10)))
	assert.Equal(t, []string{"b", "c", "a"}, ids(Rank(cands, FocusBalanced, 10)))

	top := Rank(cands, FocusHighProtein, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "Recommended to help meet your protein goals", top[0].Reason)
	assert.Empty(t, cands[0].Reason)
}

func TestRankTiesKeepInputOrder(t *testing.T) {
	cands := []FoodCandidate{{ID: "x"}, {ID: "y"}, {ID: "z"}}
	got := Rank(cands, FocusHighFat, 10)
	assert.Equal(t, "x", got[0].ID)
	assert.Equal(t, "y", got[1].ID)
	assert.Equal(t, "z", got[2].ID)
}

func TestDedupe(t *testing.T) {
	got := Dedupe([]FoodCandidate{{ID: "1", Name: "first"}, {ID: "2"}, {ID: "1", Name: "second"}})
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Name)
}

func TestFallback(t *testing.T) {
	got := Fallback(FocusHighProtein, []string{"eggs"}, []string{"vegetarian"}, 5)
	require.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), 5)
	for _, c := range got {
		assert.True(t, c.Fallback)
		assert.NotContains(t, strings.ToLower(c.Name), "egg")
		assert.NotContains(t, strings.ToLower(c.Name), "chicken")
		assert.NotContains(t, strings.ToLower(c.Name), "salmon")
	}
	assert.Equal(t, "Almonds", got[0].Name)
	assert.Equal(t, "Tofu, firm", got[1].Name)
}
