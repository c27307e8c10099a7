package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Waqasktk456/whichFOOD-EXAM/config"
	"github.com/Waqasktk456/whichFOOD-EXAM/models"
	"github.com/Waqasktk456/whichFOOD-EXAM/nutrition"
)

// FoodData Central nutrient ids and their legacy nutrient numbers.
const (
	usdaEnergyKcal = 1008
	usdaProtein    = 1003
	usdaFat        = 1004
	usdaCarbs      = 1005
	usdaFiber      = 1079
)

var usdaNutrientNumbers = map[string]int{
	"208": usdaEnergyKcal,
	"203": usdaProtein,
	"204": usdaFat,
	"205": usdaCarbs,
	"291": usdaFiber,
}

var usdaDefaultDataTypes = []string{"Branded", "Foundation", "SR Legacy"}

type USDAService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewUSDAService(cfg config.ProviderConfig, client *http.Client) *USDAService {
	return &USDAService{
		apiKey:  cfg.USDAAPIKey,
		baseURL: strings.TrimRight(cfg.USDABaseURL, "/"),
		client:  client,
	}
}

func (s *USDAService) Name() string { return "usda" }

type usdaSearchResponse struct {
	Foods []usdaFood `json:"foods"`
}

type usdaFood struct {
	FdcID         int64          `json:"fdcId"`
	Description   string         `json:"description"`
	BrandOwner    string         `json:"brandOwner"`
	BrandName     string         `json:"brandName"`
	DataType      string         `json:"dataType"`
	FoodNutrients []usdaNutrient `json:"foodNutrients"`
}

type usdaNutrient struct {
	NutrientID     int     `json:"nutrientId"`
	NutrientNumber string  `json:"nutrientNumber"`
	UnitName       string  `json:"unitName"`
	Value          float64 `json:"value"`
}

// Search calls /foods/search. categories are FDC data types; the default is
// Branded, Foundation and SR Legacy.
func (s *USDAService) Search(ctx context.Context, query string, pageSize int, categories []string) ([]nutrition.FoodCandidate, error) {
	dataTypes := categories
	if len(dataTypes) == 0 {
		dataTypes = usdaDefaultDataTypes
	}
	params := url.Values{}
	params.Set("api_key", s.apiKey)
	params.Set("query", query)
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Set("dataType", strings.Join(dataTypes, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/foods/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderRequest, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: usda search: %v", ErrProviderRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read usda response: %v", ErrProviderRequest, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: usda API error %d: %s", ErrProviderRequest, resp.StatusCode, truncate(body, 200))
	}

	var sr usdaSearchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("%w: failed to parse usda JSON: %v", ErrProviderRequest, err)
	}

	out := make([]nutrition.FoodCandidate, 0, len(sr.Foods))
	for _, f := range sr.Foods {
		c, ok := f.candidate()
		if !ok {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f usdaFood) candidate() (nutrition.FoodCandidate, bool) {
	var n models.NutrientVector
	for _, fn := range f.FoodNutrients {
		id := fn.NutrientID
		if mapped, ok := usdaNutrientNumbers[fn.NutrientNumber]; ok {
			id = mapped
		}
		switch id {
		case usdaEnergyKcal:
			// some Foundation foods also report kJ under a different id
			if fn.UnitName == "" || strings.EqualFold(fn.UnitName, "kcal") {
				n.Calories = fn.Value
			}
		case usdaProtein:
			n.Protein = fn.Value
		case usdaFat:
			n.Fat = fn.Value
		case usdaCarbs:
			n.Carbs = fn.Value
		case usdaFiber:
			n.Fiber = fn.Value
		}
	}
	if f.FdcID == 0 || n.Validate() != nil {
		return nutrition.FoodCandidate{}, false
	}

	brand := f.BrandOwner
	if brand == "" {
		brand = f.BrandName
	}
	return nutrition.FoodCandidate{
		ID:        strconv.FormatInt(f.FdcID, 10),
		Name:      f.Description,
		Brand:     brand,
		Category:  f.DataType,
		Measure:   "100g",
		Nutrients: n,
	}, true
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
