package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Waqasktk456/whichFOOD-EXAM/config"
	"github.com/Waqasktk456/whichFOOD-EXAM/nutrition"
)

var ErrProviderRequest = errors.New("food provider request failed")

// FoodProvider searches an external nutrition database and normalises hits
// into FoodCandidates. categories narrows the search using the provider's
// own vocabulary and may be empty.
type FoodProvider interface {
	Name() string
	Search(ctx context.Context, query string, pageSize int, categories []string) ([]nutrition.FoodCandidate, error)
}

// NewFoodProvider builds the adapter selected by cfg.Name.
func NewFoodProvider(cfg config.ProviderConfig, client *http.Client) (FoodProvider, error) {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	switch cfg.Name {
	case "usda":
		return NewUSDAService(cfg, client), nil
	case "edamam":
		return NewEdamamService(cfg, client), nil
	default:
		return nil, fmt.Errorf("unknown food provider %q", cfg.Name)
	}
}
