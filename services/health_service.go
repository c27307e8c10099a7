package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Waqasktk456/whichFOOD-EXAM/models"
	"github.com/Waqasktk456/whichFOOD-EXAM/nutrition"

	"gorm.io/gorm"
)

var (
	ErrMetricNotFound = errors.New("health metric not found")
	ErrInvalidQuery   = errors.New("invalid query")
)

type HealthService struct {
	db     *gorm.DB
	alerts *AlertBus
}

func NewHealthService(db *gorm.DB, alerts *AlertBus) *HealthService {
	return &HealthService{db: db, alerts: alerts}
}

type HealthMetricRequest struct {
	MetricType string     `json:"metricType" binding:"required"`
	Value      float64    `json:"value"`
	Systolic   float64    `json:"systolic"`
	Diastolic  float64    `json:"diastolic"`
	Unit       string     `json:"unit"`
	Notes      string     `json:"notes"`
	Timestamp  *time.Time `json:"timestamp"`
}

// MetricView is a stored reading plus its range check.
type MetricView struct {
	models.HealthMetric
	IsWithinNormalRange *bool `json:"isWithinNormalRange"`
}

func viewOf(m models.HealthMetric) MetricView {
	return MetricView{HealthMetric: m, IsWithinNormalRange: m.WithinNormalRange()}
}

func (r HealthMetricRequest) apply(m *models.HealthMetric) error {
	mt, err := models.ParseMetricType(strings.ToLower(strings.TrimSpace(r.MetricType)))
	if err != nil {
		return err
	}
	m.Type = mt
	m.Value, m.Systolic, m.Diastolic = r.Value, r.Systolic, r.Diastolic
	if mt == models.MetricBloodPressure {
		m.Value = 0
	} else {
		m.Systolic, m.Diastolic = 0, 0
	}
	m.Unit = strings.TrimSpace(r.Unit)
	if m.Unit == "" {
		m.Unit = models.DefaultMetricUnits[mt]
	}
	m.Notes = r.Notes
	if r.Timestamp != nil {
		m.Timestamp = r.Timestamp.UTC()
	} else if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	return m.Validate()
}

// Record stores a reading and raises an alert when it is outside the normal range.
func (s *HealthService) Record(ctx context.Context, userID uint, req HealthMetricRequest) (*MetricView, error) {
	m := models.HealthMetric{UserID: userID}
	if err := req.apply(&m); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, err
	}
	v := viewOf(m)
	s.alertIfAbnormal(ctx, v)
	return &v, nil
}

// prepareReadings validates reqs into unsaved readings.
func prepareReadings(reqs []HealthMetricRequest) ([]models.HealthMetric, error) {
	out := make([]models.HealthMetric, 0, len(reqs))
	for _, r := range reqs {
		var m models.HealthMetric
		if err := r.apply(&m); err != nil {
			return nil, fmt.Errorf("record %s: %w", r.MetricType, err)
		}
		out = append(out, m)
	}
	return out, nil
}

// insertReadings stores prepared readings on tx. Alerts are left to the caller so
// they run after the transaction commits.
func insertReadings(tx *gorm.DB, userID uint, ms []models.HealthMetric) error {
	if len(ms) == 0 {
		return nil
	}
	for i := range ms {
		ms[i].UserID = userID
	}
	return tx.Create(&ms).Error
}

func (s *HealthService) alertAll(ctx context.Context, ms []models.HealthMetric) {
	if s == nil {
		return
	}
	for _, m := range ms {
		s.alertIfAbnormal(ctx, viewOf(m))
	}
}

func (s *HealthService) alertIfAbnormal(ctx context.Context, v MetricView) {
	if s.alerts == nil || v.IsWithinNormalRange == nil || *v.IsWithinNormalRange {
		return
	}
	_, _ = s.alerts.Emit(ctx, v.UserID, AlertInput{
		Level:    models.AlertWarning,
		Source:   "health_metric",
		SourceID: v.ID,
		Message:  fmt.Sprintf("%s reading %s %s is outside the normal range", readable(v.Type), reading(v.HealthMetric), v.Unit),
	})
}

func readable(t models.MetricType) string {
	s := strings.ReplaceAll(string(t), "_", " ")
	return strings.ToUpper(s[:1]) + s[1:]
}

func reading(m models.HealthMetric) string {
	if m.Type == models.MetricBloodPressure {
		return fmt.Sprintf("%g/%g", m.Systolic, m.Diastolic)
	}
	return fmt.Sprintf("%g", m.Value)
}

type MetricFilter struct {
	Type     models.MetricType
	From, To time.Time
}

// List returns readings newest first.
func (s *HealthService) List(ctx context.Context, userID uint, f MetricFilter) ([]MetricView, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if !f.From.IsZero() {
		q = q.Where("recorded_at >= ?", f.From.UTC())
	}
	if !f.To.IsZero() {
		q = q.Where("recorded_at <= ?", f.To.UTC())
	}
	var rows []models.HealthMetric
	if err := q.Order("recorded_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]MetricView, 0, len(rows))
	for _, m := range rows {
		out = append(out, viewOf(m))
	}
	return out, nil
}

func (s *HealthService) find(ctx context.Context, userID, id uint) (*models.HealthMetric, error) {
	var m models.HealthMetric
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMetricNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *HealthService) Get(ctx context.Context, userID, id uint) (*MetricView, error) {
	m, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	v := viewOf(*m)
	return &v, nil
}

func (s *HealthService) Update(ctx context.Context, userID, id uint, req HealthMetricRequest) (*MetricView, error) {
	m, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := req.apply(m); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(m).Error; err != nil {
		return nil, err
	}
	v := viewOf(*m)
	s.alertIfAbnormal(ctx, v)
	return &v, nil
}

func (s *HealthService) Delete(ctx context.Context, userID, id uint) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.HealthMetric{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMetricNotFound
	}
	return nil
}

type Trend string

const (
	TrendStable     Trend = "stable"
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
)

// TrendThreshold is the share of the observed range a change must exceed.
const TrendThreshold = 0.10

// Summary is count/min/max/mean of one series.
type Summary struct {
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

type DataPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value,omitempty"`
	Systolic  float64   `json:"systolic,omitempty"`
	Diastolic float64   `json:"diastolic,omitempty"`
	Notes     string    `json:"notes,omitempty"`
}

type MetricStats struct {
	Type   models.MetricType `json:"type"`
	Period string            `json:"period"`
	Count  int               `json:"count"`
	Latest *DataPoint        `json:"latest"`

	// Value is set for scalar types; Systolic and Diastolic for blood pressure.
	Value     *Summary `json:"value,omitempty"`
	Systolic  *Summary `json:"systolic,omitempty"`
	Diastolic *Summary `json:"diastolic,omitempty"`

	Trend      Trend       `json:"trend"`
	DataPoints []DataPoint `json:"dataPoints"`
}

// PeriodStart maps week, month or year to the start of the window, at
// 00:00 UTC. An empty period means month.
func PeriodStart(period string, now time.Time) (time.Time, error) {
	y, m, d := now.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	switch strings.ToLower(period) {
	case "week":
		return today.AddDate(0, 0, -7), nil
	case "", "month":
		return today.AddDate(0, -1, 0), nil
	case "year":
		return today.AddDate(-1, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("%w: unknown period %q", ErrInvalidQuery, period)
	}
}

func (s *HealthService) Stats(ctx context.Context, userID uint, metricType, period string) (*MetricStats, error) {
	if strings.TrimSpace(metricType) == "" {
		return nil, fmt.Errorf("%w: metric type is required", ErrInvalidQuery)
	}
	mt, err := models.ParseMetricType(strings.ToLower(metricType))
	if err != nil {
		return nil, err
	}
	if period == "" {
		period = "month"
	}
	now := time.Now().UTC()
	from, err := PeriodStart(period, now)
	if err != nil {
		return nil, err
	}

	var rows []models.HealthMetric
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND type = ? AND recorded_at >= ? AND recorded_at <= ?", userID, mt, from, now).
		Order("recorded_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return BuildMetricStats(mt, strings.ToLower(period), rows), nil
}

// BuildMetricStats summarises rows, which must be in chronological order.
func BuildMetricStats(mt models.MetricType, period string, rows []models.HealthMetric) *MetricStats {
	st := &MetricStats{Type: mt, Period: period, Count: len(rows), Trend: TrendStable, DataPoints: []DataPoint{}}
	if len(rows) == 0 {
		return st
	}

	for _, m := range rows {
		st.DataPoints = append(st.DataPoints, DataPoint{
			Timestamp: m.Timestamp,
			Value:     m.Value,
			Systolic:  m.Systolic,
			Diastolic: m.Diastolic,
			Notes:     m.Notes,
		})
	}
	latest := st.DataPoints[len(st.DataPoints)-1]
	st.Latest = &latest

	primary := make([]float64, len(rows))
	for i := range rows {
		primary[i] = rows[i].Primary()
	}
	if mt == models.MetricBloodPressure {
		dia := make([]float64, len(rows))
		for i := range rows {
			dia[i] = rows[i].Diastolic
		}
		st.Systolic = summarize(primary)
		st.Diastolic = summarize(dia)
	} else {
		st.Value = summarize(primary)
	}
	st.Trend = trendOf(primary)
	return st
}

func summarize(vals []float64) *Summary {
	sum, lo, hi := 0.0, math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		sum += v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return &Summary{Average: nutrition.Round2(sum / float64(len(vals))), Min: lo, Max: hi}
}

// trendOf compares the first and last values against a threshold of 10% of
// the observed range.
func trendOf(vals []float64) Trend {
	if len(vals) < 2 {
		return TrendStable
	}
	s := summarize(vals)
	threshold := (s.Max - s.Min) * TrendThreshold
	first, last := vals[0], vals[len(vals)-1]
	switch {
	case last > first+threshold:
		return TrendIncreasing
	case last < first-threshold:
		return TrendDecreasing
	default:
		return TrendStable
	}
}
