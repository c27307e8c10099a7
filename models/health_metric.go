package models

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type MetricType string

const (
	MetricBloodPressure MetricType = "blood_pressure"
	MetricBloodGlucose  MetricType = "blood_glucose"
	MetricCholesterol   MetricType = "cholesterol"
	MetricHeartRate     MetricType = "heart_rate"
	MetricWeight        MetricType = "weight"
)

var ErrInvalidMetric = errors.New("invalid health metric")

// DefaultMetricUnits is used when a reading arrives without a unit.
var DefaultMetricUnits = map[MetricType]string{
	MetricBloodPressure: "mmHg",
	MetricBloodGlucose:  "mg/dL",
	MetricCholesterol:   "mg/dL",
	MetricHeartRate:     "bpm",
	MetricWeight:        "kg",
}

func ParseMetricType(s string) (MetricType, error) {
	mt := MetricType(s)
	if _, ok := DefaultMetricUnits[mt]; !ok {
		return "", fmt.Errorf("%w: unknown metric type %q", ErrInvalidMetric, s)
	}
	return mt, nil
}

// HealthMetric is one measurement. Blood pressure uses Systolic/Diastolic,
// every other type uses Value.
type HealthMetric struct {
	gorm.Model
	UserID    uint       `gorm:"index;not null" json:"userId"`
	Type      MetricType `gorm:"size:32;index;not null" json:"metricType"`
	Value     float64    `json:"value"`
	Systolic  float64    `json:"systolic,omitempty"`
	Diastolic float64    `json:"diastolic,omitempty"`
	Unit      string     `gorm:"size:16;not null" json:"unit"`
	Notes     string     `json:"notes"`
	Timestamp time.Time  `gorm:"column:recorded_at;index;not null" json:"timestamp"`
}

type valueRange struct{ min, max float64 }

var normalRanges = map[MetricType]valueRange{
	MetricBloodGlucose: {70, 100}, // mg/dL, fasting
	MetricCholesterol:  {0, 200},  // mg/dL, total
	MetricHeartRate:    {60, 100}, // bpm, resting
}

var (
	systolicRange  = valueRange{90, 120}
	diastolicRange = valueRange{60, 80}
)

func (r valueRange) contains(v float64) bool { return v >= r.min && v <= r.max }

func (m *HealthMetric) Validate() error {
	if _, err := ParseMetricType(string(m.Type)); err != nil {
		return err
	}
	if m.Type == MetricBloodPressure {
		if m.Systolic <= 0 || m.Diastolic <= 0 {
			return fmt.Errorf("%w: blood pressure requires systolic and diastolic values", ErrInvalidMetric)
		}
		return nil
	}
	if m.Value <= 0 {
		return fmt.Errorf("%w: %s value must be a positive number", ErrInvalidMetric, m.Type)
	}
	return nil
}

// WithinNormalRange returns nil for weight, which depends on the person.
func (m *HealthMetric) WithinNormalRange() *bool {
	var ok bool
	switch m.Type {
	case MetricBloodPressure:
		ok = systolicRange.contains(m.Systolic) && diastolicRange.contains(m.Diastolic)
	case MetricBloodGlucose, MetricCholesterol, MetricHeartRate:
		ok = normalRanges[m.Type].contains(m.Value)
	default:
		return nil
	}
	return &ok
}

// Primary is the scalar used for trends; systolic for blood pressure.
func (m *HealthMetric) Primary() float64 {
	if m.Type == MetricBloodPressure {
		return m.Systolic
	}
	return m.Value
}
