package services

import (
	"context"
	"testing"
	"time"

	"github.com/Waqasktk456/whichFOOD-EXAM/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordMetric(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db)
	svc := NewHealthService(db, nil)
	ctx := context.Background()

	v, err := svc.Record(ctx, u.ID, HealthMetricRequest{MetricType: "blood_glucose", Value: 92})
	require.NoError(t, err)
	assert.Equal(t, "mg/dL", v.Unit)
	require.NotNil(t, v.IsWithinNormalRange)
	assert.True(t, *v.IsWithinNormalRange)

	w, err := svc.Record(ctx, u.ID, HealthMetricRequest{MetricType: "weight", Value: 80})
	require.NoError(t, err)
	assert.Nil(t, w.IsWithinNormalRange)

	_, err = svc.Record(ctx, u.ID, HealthMetricRequest{MetricType: "blood_pressure", Systolic: 120})
	assert.ErrorIs(t, err, models.ErrInvalidMetric)
	_, err = svc.Record(ctx, u.ID, HealthMetricRequest{MetricType: "mood", Value: 3})
	assert.ErrorIs(t, err, models.ErrInvalidMetric)
}

func TestAbnormalReadingRaisesAlert(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db)
	mail := &fakeMailer{}
	push := &fakePusher{}
	bus := NewAlertBus(db, NewRealtimeHub(), push, mail, zerolog.Nop())
	svc := NewHealthService(db, bus)
	ctx := context.Background()

	_, err := svc.Record(ctx, u.ID, HealthMetricRequest{MetricType: "blood_pressure", Systolic: 150, Diastolic: 95})
	require.NoError(t, err)
	_, err = svc.Record(ctx, u.ID, HealthMetricRequest{MetricType: "heart_rate", Value: 72})
	require.NoError(t, err)

	alerts, err := bus.List(ctx, u.ID, true)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Blood pressure reading 150/95 mmHg is outside the normal range", alerts[0].Message)
	assert.Equal(t, []string{"Blood pressure reading 150/95 mmHg is outside the normal range"}, push.bodies)
	require.Len(t, mail.sent, 1)
	assert.Contains(t, mail.sent[0], "sam@example.com")

	require.NoError(t, bus.MarkRead(ctx, u.ID, alerts[0].ID))
	unread, err := bus.List(ctx, u.ID, true)
	require.NoError(t, err)
	assert.Empty(t, unread)
	assert.ErrorIs(t, bus.MarkRead(ctx, u.ID+1, alerts[0].ID), ErrAlertNotFound)
}

func TestMetricCRUD(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db)
	svc := NewHealthService(db, nil)
	ctx := context.Background()

	v, err := svc.Record(ctx, u.ID, HealthMetricRequest{MetricType: "cholesterol", Value: 180})
	require.NoError(t, err)

	got, err := svc.Get(ctx, u.ID, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 180.0, got.Value)

	_, err = svc.Get(ctx, u.ID+1, v.ID)
	assert.ErrorIs(t, err, ErrMetricNotFound)

	upd, err := svc.Update(ctx, u.ID, v.ID, HealthMetricRequest{MetricType: "cholesterol", Value: 230, Notes: "after holidays"})
	require.NoError(t, err)
	assert.Equal(t, 230.0, upd.Value)
	assert.False(t, *upd.IsWithinNormalRange)

	list, err := svc.List(ctx, u.ID, MetricFilter{Type: models.MetricCholesterol})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "after holidays", list[0].Notes)

	require.NoError(t, svc.Delete(ctx, u.ID, v.ID))
	assert.ErrorIs(t, svc.Delete(ctx, u.ID, v.ID), ErrMetricNotFound)
}

func metricAt(day int, v float64) models.HealthMetric {
	return models.HealthMetric{
		Type:      models.MetricWeight,
		Value:     v,
		Unit:      "kg",
		Timestamp: time.Date(2024, 5, day, 8, 0, 0, 0, time.UTC),
	}
}

func TestBuildMetricStats(t *testing.T) {
	st := BuildMetricStats(models.MetricWeight, "month", []models.HealthMetric{
		metricAt(1, 82), metricAt(8, 81), metricAt(15, 80),
	})
	assert.Equal(t, 3, st.Count)
	require.NotNil(t, st.Value)
	assert.Equal(t, 81.0, st.Value.Average)
	assert.Equal(t, 80.0, st.Value.Min)
	assert.Equal(t, 82.0, st.Value.Max)
	assert.Equal(t, TrendDecreasing, st.Trend)
	require.NotNil(t, st.Latest)
	assert.Equal(t, 80.0, st.Latest.Value)
	assert.Len(t, st.DataPoints, 3)

	flat := BuildMetricStats(models.MetricWeight, "month", []models.HealthMetric{
		metricAt(1, 80), metricAt(2, 90), metricAt(3, 80.5),
	})
	assert.Equal(t, TrendStable, flat.Trend, "0.5 is within 10% of the 10 kg range")

	empty := BuildMetricStats(models.MetricWeight, "week", nil)
	assert.Equal(t, 0, empty.Count)
	assert.Nil(t, empty.Latest)
	assert.Equal(t, TrendStable, empty.Trend)
	assert.NotNil(t, empty.DataPoints)
}

func TestBuildMetricStatsBloodPressure(t *testing.T) {
	bp := func(day int, sys, dia float64) models.HealthMetric {
		return models.HealthMetric{Type: models.MetricBloodPressure, Systolic: sys, Diastolic: dia, Timestamp: time.Date(2024, 5, day, 0, 0, 0, 0, time.UTC)}
	}
	st := BuildMetricStats(models.MetricBloodPressure, "week", []models.HealthMetric{
		bp(1, 118, 76), bp(2, 126, 82), bp(3, 134, 88),
	})
	assert.Nil(t, st.Value)
	require.NotNil(t, st.Systolic)
	require.NotNil(t, st.Diastolic)
	assert.Equal(t, 126.0, st.Systolic.Average)
	assert.Equal(t, 82.0, st.Diastolic.Average)
	assert.Equal(t, 76.0, st.Diastolic.Min)
	assert.Equal(t, TrendIncreasing, st.Trend)
}

func TestMetricStatsQuery(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db)
	svc := NewHealthService(db, nil)
	ctx := context.Background()

	old := time.Now().AddDate(0, 0, -40)
	recent := time.Now().Add(-time.Hour)
	_, err := svc.Record(ctx, u.ID, HealthMetricRequest{MetricType: "weight", Value: 85, Timestamp: &old})
	require.NoError(t, err)
	_, err = svc.Record(ctx, u.ID, HealthMetricRequest{MetricType: "weight", Value: 80, Timestamp: &recent})
	require.NoError(t, err)

	st, err := svc.Stats(ctx, u.ID, "weight", "month")
	require.NoError(t, err)
	assert.Equal(t, 1, st.Count)

	st, err = svc.Stats(ctx, u.ID, "weight", "year")
	require.NoError(t, err)
	assert.Equal(t, 2, st.Count)
	assert.Equal(t, TrendDecreasing, st.Trend)

	_, err = svc.Stats(ctx, u.ID, "", "month")
	assert.ErrorIs(t, err, ErrInvalidQuery)
	_, err = svc.Stats(ctx, u.ID, "weight", "fortnight")
	assert.ErrorIs(t, err, ErrInvalidQuery)
}
