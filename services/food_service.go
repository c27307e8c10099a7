package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Waqasktk456/whichFOOD-EXAM/models"
	"github.com/Waqasktk456/whichFOOD-EXAM/nutrition"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrRecognitionUnavailable = errors.New("image recognition is not configured")

type FoodService struct {
	db       *gorm.DB
	provider FoodProvider
	rek      *RekognitionService
	pageSize int
	log      zerolog.Logger
}

// NewFoodService accepts a nil rek when AWS is disabled.
func NewFoodService(db *gorm.DB, provider FoodProvider, rek *RekognitionService, pageSize int, log zerolog.Logger) *FoodService {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &FoodService{db: db, provider: provider, rek: rek, pageSize: pageSize, log: log}
}

// Search queries the provider and caches the hits in food_items.
func (s *FoodService) Search(ctx context.Context, query string) ([]nutrition.FoodCandidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", ErrInvalidQuery)
	}
	hits, err := s.provider.Search(ctx, query, s.pageSize, nil)
	if err != nil {
		return nil, err
	}
	if err := s.cache(ctx, hits); err != nil {
		// the search result is still good without the cache
		s.log.Warn().Err(err).Str("query", query).Msg("food cache upsert failed")
	}
	return hits, nil
}

func (s *FoodService) cache(ctx context.Context, hits []nutrition.FoodCandidate) error {
	if len(hits) == 0 {
		return nil
	}
	rows := make([]models.FoodItem, 0, len(hits))
	for _, h := range hits {
		rows = append(rows, models.FoodItem{
			Provider:   s.provider.Name(),
			ExternalID: h.ID,
			Label:      h.Name,
			Brand:      h.Brand,
			Category:   h.Category,
			Nutrients:  h.Nutrients,
		})
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "provider"}, {Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"label", "brand", "category", "updated_at",
			"ref_calories", "ref_protein", "ref_fat", "ref_carbs", "ref_fiber",
		}),
	}).Create(&rows).Error
}

type Recognition struct {
	Labels []string                  `json:"labels"`
	Query  string                    `json:"query"`
	Foods  []nutrition.FoodCandidate `json:"foods"`
}

// Recognize detects labels on the image and searches the first one.
func (s *FoodService) Recognize(ctx context.Context, dataURI string) (*Recognition, error) {
	if s.rek == nil {
		return nil, ErrRecognitionUnavailable
	}
	labels, err := s.rek.RecognizeLabels(ctx, dataURI)
	if err != nil {
		return nil, err
	}
	if len(labels) == 0 {
		return nil, ErrNoLabels
	}
	foods, err := s.Search(ctx, labels[0])
	if err != nil {
		return nil, err
	}
	return &Recognition{Labels: labels, Query: labels[0], Foods: foods}, nil
}
