package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Waqasktk456/whichFOOD-EXAM/models"
	"github.com/Waqasktk456/whichFOOD-EXAM/nutrition"
	"github.com/Waqasktk456/whichFOOD-EXAM/utils"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUploadUnavailable  = errors.New("image upload is not configured")
)

type TokenIssuer interface {
	GenerateJWT(userID uint, email string) (string, error)
}

type ImageUploader interface {
	UploadBase64Image(ctx context.Context, dataURI, filenamePrefix string) (string, error)
}

type UserService struct {
	db       *gorm.DB
	tokens   TokenIssuer
	uploader ImageUploader
	metrics  *HealthService
}

// NewUserService accepts a nil uploader when S3 is disabled.
func NewUserService(db *gorm.DB, tokens TokenIssuer, uploader ImageUploader, metrics *HealthService) *UserService {
	return &UserService{db: db, tokens: tokens, uploader: uploader, metrics: metrics}
}

// BloodPressure is the nested reading accepted on register and profile update.
type BloodPressure struct {
	Systolic  float64 `json:"systolic"`
	Diastolic float64 `json:"diastolic"`
}

type RegisterRequest struct {
	Name          string               `json:"name" binding:"required"`
	Email         string               `json:"email" binding:"required,email"`
	Password      string               `json:"password" binding:"required,min=6"`
	Age           int                  `json:"age" binding:"required"`
	Gender        models.Gender        `json:"gender" binding:"required"`
	Height        float64              `json:"height" binding:"required"`
	Weight        float64              `json:"weight" binding:"required"`
	ActivityLevel models.ActivityLevel `json:"activityLevel" binding:"required"`
	TargetWeight  *float64             `json:"targetWeight"`

	Allergies           []string `json:"allergies"`
	DietaryRestrictions []string `json:"dietaryRestrictions"`
	HealthConditions    []string `json:"healthConditions"`
	Medications         []string `json:"medications"`

	BloodPressure *BloodPressure `json:"bloodPressure"`
	BloodGlucose  *float64       `json:"bloodGlucose"`
}

// ProfileUpdate only touches non-nil fields.
type ProfileUpdate struct {
	Name          *string               `json:"name"`
	Age           *int                  `json:"age"`
	Gender        *models.Gender        `json:"gender"`
	Height        *float64              `json:"height"`
	Weight        *float64              `json:"weight"`
	ActivityLevel *models.ActivityLevel `json:"activityLevel"`
	// TargetWeight of zero or less clears the target.
	TargetWeight *float64 `json:"targetWeight"`

	Allergies           []string `json:"allergies"`
	DietaryRestrictions []string `json:"dietaryRestrictions"`
	HealthConditions    []string `json:"healthConditions"`
	Medications         []string `json:"medications"`

	// ProfilePicture is a base64 data URI.
	ProfilePicture string `json:"profilePicture"`

	BloodPressure *BloodPressure `json:"bloodPressure"`
	BloodGlucose  *float64       `json:"bloodGlucose"`
}

// Profile is a user together with the numbers derived from the profile.
type Profile struct {
	*models.User
	HealthMetrics nutrition.BodyStats `json:"healthMetrics"`
}

type AuthResult struct {
	Profile
	Token string `json:"token"`
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	u := &models.User{
		Name:                strings.TrimSpace(req.Name),
		Email:               email,
		Age:                 req.Age,
		Gender:              models.Gender(strings.ToLower(string(req.Gender))),
		Height:              req.Height,
		Weight:              req.Weight,
		ActivityLevel:       models.ActivityLevel(strings.ToLower(string(req.ActivityLevel))),
		TargetWeight:        req.TargetWeight,
		Allergies:           cleanList(req.Allergies),
		DietaryRestrictions: cleanList(req.DietaryRestrictions),
		HealthConditions:    cleanList(req.HealthConditions),
		Medications:         cleanList(req.Medications),
	}
	if err := nutrition.ValidateProfile(u); err != nil {
		return nil, err
	}

	var n int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	u.Password = hash

	readings, err := s.formReadings(&u.Weight, req.BloodPressure, req.BloodGlucose)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		return insertReadings(tx, u.ID, readings)
	})
	if err != nil {
		return nil, err
	}
	s.metrics.alertAll(ctx, readings)
	return s.authResult(u)
}

// formReadings validates the readings that came with a profile form so
// nothing is written when one of them is bad.
func (s *UserService) formReadings(weight *float64, bp *BloodPressure, glucose *float64) ([]models.HealthMetric, error) {
	if s.metrics == nil {
		return nil, nil
	}
	var reqs []HealthMetricRequest
	if weight != nil {
		reqs = append(reqs, HealthMetricRequest{MetricType: string(models.MetricWeight), Value: *weight})
	}
	if bp != nil {
		reqs = append(reqs, HealthMetricRequest{MetricType: string(models.MetricBloodPressure), Systolic: bp.Systolic, Diastolic: bp.Diastolic})
	}
	if glucose != nil {
		reqs = append(reqs, HealthMetricRequest{MetricType: string(models.MetricBloodGlucose), Value: *glucose})
	}
	return prepareReadings(reqs)
}

func (s *UserService) authResult(u *models.User) (*AuthResult, error) {
	stats, err := nutrition.StatsFor(u)
	if err != nil {
		return nil, err
	}
	tok, err := s.tokens.GenerateJWT(u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Profile: Profile{User: u, HealthMetrics: stats}, Token: tok}, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPasswordHash(password, u.Password) {
		return nil, ErrInvalidCredentials
	}
	return s.authResult(&u)
}

func (s *UserService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).First(&u, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserService) Profile(ctx context.Context, userID uint) (*Profile, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats, err := nutrition.StatsFor(u)
	if err != nil {
		return nil, err
	}
	return &Profile{User: u, HealthMetrics: stats}, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in ProfileUpdate) (*Profile, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var newWeight *float64
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Age != nil {
		u.Age = *in.Age
	}
	if in.Gender != nil {
		u.Gender = models.Gender(strings.ToLower(string(*in.Gender)))
	}
	if in.Height != nil {
		u.Height = *in.Height
	}
	if in.Weight != nil && *in.Weight != u.Weight {
		u.Weight = *in.Weight
		newWeight = in.Weight
	}
	if in.ActivityLevel != nil {
		u.ActivityLevel = models.ActivityLevel(strings.ToLower(string(*in.ActivityLevel)))
	}
	if in.TargetWeight != nil {
		if *in.TargetWeight <= 0 {
			u.TargetWeight = nil
		} else {
			u.TargetWeight = in.TargetWeight
		}
	}
	if in.Allergies != nil {
		u.Allergies = cleanList(in.Allergies)
	}
	if in.DietaryRestrictions != nil {
		u.DietaryRestrictions = cleanList(in.DietaryRestrictions)
	}
	if in.HealthConditions != nil {
		u.HealthConditions = cleanList(in.HealthConditions)
	}
	if in.Medications != nil {
		u.Medications = cleanList(in.Medications)
	}
	if err := nutrition.ValidateProfile(u); err != nil {
		return nil, err
	}
	readings, err := s.formReadings(newWeight, in.BloodPressure, in.BloodGlucose)
	if err != nil {
		return nil, err
	}

	if in.ProfilePicture != "" {
		if s.uploader == nil {
			return nil, ErrUploadUnavailable
		}
		url, err := s.uploader.UploadBase64Image(ctx, in.ProfilePicture, fmt.Sprintf("user-%d", u.ID))
		if err != nil {
			return nil, fmt.Errorf("failed to upload image: %w", err)
		}
		u.ProfilePicture = url
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(u).Error; err != nil {
			return err
		}
		return insertReadings(tx, u.ID, readings)
	})
	if err != nil {
		return nil, err
	}
	s.metrics.alertAll(ctx, readings)
	return s.Profile(ctx, u.ID)
}
