package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Waqasktk456/whichFOOD-EXAM/models"
	"github.com/Waqasktk456/whichFOOD-EXAM/nutrition"
	"github.com/Waqasktk456/whichFOOD-EXAM/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	url string
	err error
}

func (f *fakeUploader) UploadBase64Image(_ context.Context, _, prefix string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.url + "/" + prefix, nil
}

func newUserService(t *testing.T, up ImageUploader) (*UserService, *utils.TokenIssuer) {
	db := newTestDB(t)
	tokens := utils.NewTokenIssuer("test-secret", time.Hour)
	return NewUserService(db, tokens, up, NewHealthService(db, nil)), tokens
}

func registerReq() RegisterRequest {
	glucose := 95.0
	return RegisterRequest{
		Name:          "Sam",
		Email:         "  Sam@Example.com ",
		Password:      "hunter22",
		Age:           30,
		Gender:        "Male",
		Height:        175,
		Weight:        80,
		ActivityLevel: "sedentary",
		Allergies:     []string{" peanuts ", ""},
		BloodPressure: &BloodPressure{Systolic: 118, Diastolic: 76},
		BloodGlucose:  &glucose,
	}
}

func TestRegister(t *testing.T) {
	svc, tokens := newUserService(t, nil)
	ctx := context.Background()

	res, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)
	assert.Equal(t, "sam@example.com", res.Email)
	assert.Equal(t, models.GenderMale, res.Gender)
	assert.Equal(t, []string{"peanuts"}, res.Allergies)
	assert.NotEqual(t, "hunter22", res.Password)
	assert.Equal(t, nutrition.BodyStats{BMI: 26.12, Category: "Overweight", BMR: 1748.75, DailyCalories: 2099}, res.HealthMetrics)

	uid, err := tokens.ParseJWT(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.ID, uid)

	metrics, err := svc.metrics.List(ctx, res.ID, MetricFilter{})
	require.NoError(t, err)
	assert.Len(t, metrics, 3, "weight, blood pressure and glucose")

	_, err = svc.Register(ctx, registerReq())
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterValidatesProfile(t *testing.T) {
	svc, _ := newUserService(t, nil)
	ctx := context.Background()

	req := registerReq()
	req.Height = 20
	_, err := svc.Register(ctx, req)
	assert.ErrorIs(t, err, nutrition.ErrInvalidProfile)

	req = registerReq()
	req.ActivityLevel = "couch"
	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, nutrition.ErrInvalidActivityLevel)
}

func TestRegisterBadReadingLeavesNoUser(t *testing.T) {
	svc, _ := newUserService(t, nil)
	ctx := context.Background()

	req := registerReq()
	req.BloodPressure = &BloodPressure{Systolic: 120}
	_, err := svc.Register(ctx, req)
	assert.ErrorIs(t, err, models.ErrInvalidMetric)

	var users, metrics int64
	require.NoError(t, svc.db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, svc.db.Model(&models.HealthMetric{}).Count(&metrics).Error)
	assert.Zero(t, users)
	assert.Zero(t, metrics)

	// the same email is free for a corrected retry
	res, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)
	assert.Equal(t, "sam@example.com", res.Email)
}

func TestRegisterAlertsAfterCommit(t *testing.T) {
	db := newTestDB(t)
	bus := quietBus(db)
	svc := NewUserService(db, utils.NewTokenIssuer("test-secret", time.Hour), nil, NewHealthService(db, bus))
	ctx := context.Background()

	req := registerReq()
	req.BloodPressure = &BloodPressure{Systolic: 165, Diastolic: 105}
	res, err := svc.Register(ctx, req)
	require.NoError(t, err)

	var alerts []models.Alert
	require.NoError(t, db.Where("user_id = ?", res.ID).Find(&alerts).Error)
	require.Len(t, alerts, 1)
	assert.Equal(t, "health_metric", alerts[0].Source)
	assert.NotZero(t, alerts[0].SourceID)
	assert.Contains(t, alerts[0].Message, "165/105")
}

func TestLogin(t *testing.T) {
	svc, _ := newUserService(t, nil)
	ctx := context.Background()
	_, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	res, err := svc.Login(ctx, "SAM@example.com", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	_, err = svc.Login(ctx, "sam@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newUserService(t, &fakeUploader{url: "https://cdn.example.com"})
	ctx := context.Background()
	reg, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	weight, target := 78.0, 72.0
	p, err := svc.UpdateProfile(ctx, reg.ID, ProfileUpdate{
		Weight:         &weight,
		TargetWeight:   &target,
		Allergies:      []string{},
		ProfilePicture: "data:image/png;base64,iVBORw0KGgo=",
	})
	require.NoError(t, err)
	assert.Equal(t, 78.0, p.Weight)
	assert.Empty(t, p.Allergies)
	assert.Equal(t, "https://cdn.example.com/user-1", p.ProfilePicture)

	weights, err := svc.metrics.List(ctx, reg.ID, MetricFilter{Type: models.MetricWeight})
	require.NoError(t, err)
	assert.Len(t, weights, 2)

	bad := 5.0
	_, err = svc.UpdateProfile(ctx, reg.ID, ProfileUpdate{Weight: &bad})
	assert.ErrorIs(t, err, nutrition.ErrInvalidProfile)

	_, err = svc.UpdateProfile(ctx, reg.ID+99, ProfileUpdate{})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfileBadReadingChangesNothing(t *testing.T) {
	svc, _ := newUserService(t, nil)
	ctx := context.Background()
	reg, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	name, weight := "Samantha", 77.0
	_, err = svc.UpdateProfile(ctx, reg.ID, ProfileUpdate{
		Name:          &name,
		Weight:        &weight,
		BloodPressure: &BloodPressure{Systolic: 120},
	})
	assert.ErrorIs(t, err, models.ErrInvalidMetric)

	p, err := svc.Profile(ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sam", p.Name)
	assert.Equal(t, 80.0, p.Weight)

	metrics, err := svc.metrics.List(ctx, reg.ID, MetricFilter{})
	require.NoError(t, err)
	assert.Len(t, metrics, 3)
}

func TestUpdateProfileClearsTargetWeight(t *testing.T) {
	svc, _ := newUserService(t, nil)
	ctx := context.Background()
	req := registerReq()
	target := 72.0
	req.TargetWeight = &target
	reg, err := svc.Register(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, reg.TargetWeight)

	zero := 0.0
	p, err := svc.UpdateProfile(ctx, reg.ID, ProfileUpdate{TargetWeight: &zero})
	require.NoError(t, err)
	assert.Nil(t, p.TargetWeight)

	goals, err := nutrition.DefaultGoalPolicy().GoalsFor(p.User)
	require.NoError(t, err)
	assert.Equal(t, 2099.0, goals.Calories, "maintenance once the target is gone")

	// nil leaves the target alone
	p, err = svc.UpdateProfile(ctx, reg.ID, ProfileUpdate{TargetWeight: &target})
	require.NoError(t, err)
	p, err = svc.UpdateProfile(ctx, reg.ID, ProfileUpdate{})
	require.NoError(t, err)
	require.NotNil(t, p.TargetWeight)
	assert.Equal(t, 72.0, *p.TargetWeight)
}

func TestUpdateProfilePictureFailures(t *testing.T) {
	noS3, _ := newUserService(t, nil)
	ctx := context.Background()
	reg, err := noS3.Register(ctx, registerReq())
	require.NoError(t, err)
	_, err = noS3.UpdateProfile(ctx, reg.ID, ProfileUpdate{ProfilePicture: "data:image/png;base64,AA=="})
	assert.ErrorIs(t, err, ErrUploadUnavailable)

	boom := errors.New("s3 down")
	broken, _ := newUserService(t, &fakeUploader{err: boom})
	reg, err = broken.Register(ctx, registerReq())
	require.NoError(t, err)
	_, err = broken.UpdateProfile(ctx, reg.ID, ProfileUpdate{ProfilePicture: "data:image/png;base64,AA=="})
	assert.ErrorIs(t, err, boom)
}
