package services

import (
	"context"
	"errors"
	"time"

	"github.com/Waqasktk456/whichFOOD-EXAM/config"
	"github.com/Waqasktk456/whichFOOD-EXAM/models"
	"github.com/Waqasktk456/whichFOOD-EXAM/nutrition"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ErrLookupExhausted means every keyword lookup failed.
var ErrLookupExhausted = errors.New("could not fetch recommendations from the food database")

const defaultProviderTimeout = 8 * time.Second

type UserFinder interface {
	GetUser(ctx context.Context, userID uint) (*models.User, error)
}

type MealFinder interface {
	ListMealsByDateRange(ctx context.Context, userID uint, from, to time.Time) ([]models.Meal, error)
}

type RecommendationService struct {
	users    UserFinder
	meals    MealFinder
	provider FoodProvider
	policy   nutrition.GoalPolicy
	cfg      config.RecommendConfig
	timeout  time.Duration
	workers  int
	log      zerolog.Logger

	now func() time.Time
}

func NewRecommendationService(
	users UserFinder,
	meals MealFinder,
	provider FoodProvider,
	policy nutrition.GoalPolicy,
	rc config.RecommendConfig,
	pc config.ProviderConfig,
	log zerolog.Logger,
) *RecommendationService {
	timeout := pc.Timeout
	if timeout <= 0 {
		timeout = defaultProviderTimeout
	}
	workers := pc.Concurrency
	if workers <= 0 {
		workers = 1
	}
	return &RecommendationService{
		users:    users,
		meals:    meals,
		provider: provider,
		policy:   policy,
		cfg:      rc,
		timeout:  timeout,
		workers:  workers,
		log:      log,
		now:      time.Now,
	}
}

type RecommendationRequest struct {
	MealType string
	Limit    int
}

type NutritionalContext struct {
	nutrition.Goals
	CurrentIntake   models.NutrientVector `json:"currentIntake"`
	NutritionalGaps models.NutrientVector `json:"nutritionalGaps"`
	PrimaryNutrient nutrition.Focus       `json:"primaryNutrient"`
}

type RecommendationResult struct {
	Success            bool                      `json:"success"`
	Message            string                    `json:"message,omitempty"`
	Recommendations    []nutrition.FoodCandidate `json:"recommendations"`
	Fallback           []nutrition.FoodCandidate `json:"fallback,omitempty"`
	NutritionalContext NutritionalContext        `json:"nutritionalContext"`
}

func (s *RecommendationService) lookback() time.Duration {
	if s.cfg.LookbackDays > 0 {
		return time.Duration(s.cfg.LookbackDays) * 24 * time.Hour
	}
	return nutrition.DefaultLookback
}

func (s *RecommendationService) resultLimit(requested int) int {
	limit := requested
	if limit <= 0 {
		limit = s.cfg.ResultLimit
	}
	if limit <= 0 {
		limit = nutrition.DefaultResultLimit
	}
	if limit > nutrition.MaxResultLimit {
		limit = nutrition.MaxResultLimit
	}
	return limit
}

// Recommend runs the nutrient-gap pipeline for one user. A provider outage is
// not an error: the result then has no recommendations, a message and the
// static fallback list.
func (s *RecommendationService) Recommend(ctx context.Context, userID uint, req RecommendationRequest) (*RecommendationResult, error) {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	goals, err := s.policy.GoalsFor(u)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	meals, err := s.meals.ListMealsByDateRange(ctx, userID, now.Add(-s.lookback()), now)
	if err != nil {
		return nil, err
	}
	intake := nutrition.AverageDailyIntake(meals)
	gaps := nutrition.Gaps(goals, intake)
	focus, err := nutrition.Classify(goals, gaps)
	if err != nil {
		return nil, err
	}

	queries, err := nutrition.SelectQueries(nutrition.QueryRequest{
		Focus:               focus,
		MealType:            req.MealType,
		Allergies:           u.Allergies,
		DietaryRestrictions: u.DietaryRestrictions,
		MaxQueries:          s.cfg.MaxQueries,
	})
	if err != nil {
		return nil, err
	}

	log := s.log.With().Uint("user_id", userID).Str("focus", string(focus)).Logger()
	limit := s.resultLimit(req.Limit)
	res := &RecommendationResult{
		Success: true,
		NutritionalContext: NutritionalContext{
			Goals:           goals,
			CurrentIntake:   intake,
			NutritionalGaps: gaps,
			PrimaryNutrient: focus,
		},
	}

	candidates, err := s.lookup(ctx, log, queries)
	if errors.Is(err, ErrLookupExhausted) {
		log.Warn().Strs("queries", queries).Msg("all food lookups failed, serving fallback")
		res.Message = ErrLookupExhausted.Error()
		res.Recommendations = []nutrition.FoodCandidate{}
		res.Fallback = nutrition.Fallback(focus, u.Allergies, u.DietaryRestrictions, limit)
		return res, nil
	}
	if err != nil {
		return nil, err
	}

	allowed := candidates[:0]
	for _, c := range candidates {
		if nutrition.FilterAllowed(c.Name, u.Allergies, u.DietaryRestrictions) {
			allowed = append(allowed, c)
		}
	}
	res.Recommendations = nutrition.Rank(allowed, focus, limit)
	if len(res.Recommendations) == 0 {
		res.Recommendations = []nutrition.FoodCandidate{}
		res.Message = "no matching foods found"
	}
	return res, nil
}

// lookup searches every keyword with bounded concurrency. Results are merged
// in keyword order and deduplicated, so the output does not depend on which
// call finishes first. Failed keywords are logged and skipped.
func (s *RecommendationService) lookup(ctx context.Context, log zerolog.Logger, queries []string) ([]nutrition.FoodCandidate, error) {
	if len(queries) == 0 {
		return nil, nil
	}
	results := make([][]nutrition.FoodCandidate, len(queries))
	failed := make([]bool, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, q := range queries {
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(gctx, s.timeout)
			defer cancel()

			hits, err := s.provider.Search(callCtx, q, s.cfg.PageSize, nil)
			if err != nil {
				failed[i] = true
				log.Warn().Err(err).Str("provider", s.provider.Name()).Str("query", q).Msg("food lookup failed")
				return nil
			}
			results[i] = hits
			return nil
		})
	}
	_ = g.Wait()

	// the caller went away; don't pretend the provider is down
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var merged []nutrition.FoodCandidate
	ok := 0
	for i := range queries {
		if failed[i] {
			continue
		}
		ok++
		merged = append(merged, results[i]...)
	}
	if ok == 0 {
		return nil, ErrLookupExhausted
	}
	return nutrition.Dedupe(merged), nil
}
