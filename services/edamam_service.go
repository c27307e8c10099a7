package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Waqasktk456/whichFOOD-EXAM/config"
	"github.com/Waqasktk456/whichFOOD-EXAM/models"
	"github.com/Waqasktk456/whichFOOD-EXAM/nutrition"
)

type EdamamService struct {
	appID, appKey string
	baseURL       string
	client        *http.Client
}

func NewEdamamService(cfg config.ProviderConfig, client *http.Client) *EdamamService {
	return &EdamamService{
		appID:   cfg.EdamamAppID,
		appKey:  cfg.EdamamAppKey,
		baseURL: strings.TrimRight(cfg.EdamamBaseURL, "/"),
		client:  client,
	}
}

func (s *EdamamService) Name() string { return "edamam" }

type foodParserResponse struct {
	Parsed []struct {
		Food edamamFood `json:"food"`
	} `json:"parsed"`
	Hints []struct {
		Food edamamFood `json:"food"`
	} `json:"hints"`
}

type edamamFood struct {
	FoodID    string             `json:"foodId"`
	Label     string             `json:"label"`
	Brand     string             `json:"brand"`
	Category  string             `json:"category"`
	Image     string             `json:"image"`
	Nutrients map[string]float64 `json:"nutrients"`
}

// Search calls the food-database parser. categories are Edamam categories
// such as generic-foods or packaged-foods.
func (s *EdamamService) Search(ctx context.Context, query string, pageSize int, categories []string) ([]nutrition.FoodCandidate, error) {
	params := url.Values{}
	params.Set("ingr", query)
	params.Set("app_id", s.appID)
	params.Set("app_key", s.appKey)
	for _, c := range categories {
		params.Add("category", c)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/parser?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderRequest, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to call Edamam parser: %v", ErrProviderRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read Edamam parser response: %v", ErrProviderRequest, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: edamam parser API error %d: %s", ErrProviderRequest, resp.StatusCode, truncate(body, 200))
	}

	var pr foodParserResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("%w: failed to parse Edamam parser JSON: %v", ErrProviderRequest, err)
	}

	foods := make([]edamamFood, 0, len(pr.Parsed)+len(pr.Hints))
	for _, p := range pr.Parsed {
		foods = append(foods, p.Food)
	}
	for _, h := range pr.Hints {
		foods = append(foods, h.Food)
	}

	results := make([]nutrition.FoodCandidate, 0, len(foods))
	for _, f := range foods {
		n := models.NutrientVector{
			Calories: f.Nutrients["ENERC_KCAL"],
			Protein:  f.Nutrients["PROCNT"],
			Fat:      f.Nutrients["FAT"],
			Carbs:    f.Nutrients["CHOCDF"],
			Fiber:    f.Nutrients["FIBTG"],
		}
		if f.FoodID == "" || n.Validate() != nil {
			continue
		}
		results = append(results, nutrition.FoodCandidate{
			ID:        f.FoodID,
			Name:      f.Label,
			Brand:     f.Brand,
			Category:  f.Category,
			Image:     f.Image,
			Measure:   "100g",
			Nutrients: n,
		})
	}
	// parsed entries usually repeat as the first hint
	results = nutrition.Dedupe(results)
	if pageSize > 0 && len(results) > pageSize {
		results = results[:pageSize]
	}
	return results, nil
}
