package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrInvalidNutrients = errors.New("invalid nutrients")

// Canonical units. Every NutrientVector field is stored in exactly one of these.
const (
	UnitKcal = "kcal"
	UnitGram = "g"
)

// NutrientVector holds the five tracked nutrients. Calories are kcal, the
// rest grams.
type NutrientVector struct {
	Calories float64 `json:"calories" unit:"kcal"`
	Protein  float64 `json:"protein" unit:"g"`
	Fat      float64 `json:"fat" unit:"g"`
	Carbs    float64 `json:"carbs" unit:"g"`
	Fiber    float64 `json:"fiber" unit:"g"`
}

func (v NutrientVector) Add(o NutrientVector) NutrientVector {
	return NutrientVector{
		Calories: v.Calories + o.Calories,
		Protein:  v.Protein + o.Protein,
		Fat:      v.Fat + o.Fat,
		Carbs:    v.Carbs + o.Carbs,
		Fiber:    v.Fiber + o.Fiber,
	}
}

func (v NutrientVector) Sub(o NutrientVector) NutrientVector {
	return v.Add(o.Scale(-1))
}

func (v NutrientVector) Scale(f float64) NutrientVector {
	return NutrientVector{
		Calories: v.Calories * f,
		Protein:  v.Protein * f,
		Fat:      v.Fat * f,
		Carbs:    v.Carbs * f,
		Fiber:    v.Fiber * f,
	}
}

// Round rounds every field to the given number of decimals.
func (v NutrientVector) Round(decimals int) NutrientVector {
	p := math.Pow(10, float64(decimals))
	r := func(x float64) float64 { return math.Round(x*p) / p }
	return NutrientVector{
		Calories: r(v.Calories),
		Protein:  r(v.Protein),
		Fat:      r(v.Fat),
		Carbs:    r(v.Carbs),
		Fiber:    r(v.Fiber),
	}
}

// Validate requires every field to be finite and non-negative.
func (v NutrientVector) Validate() error {
	for _, f := range []struct {
		name string
		val  float64
	}{
		{"calories", v.Calories},
		{"protein", v.Protein},
		{"fat", v.Fat},
		{"carbs", v.Carbs},
		{"fiber", v.Fiber},
	} {
		if math.IsNaN(f.val) || math.IsInf(f.val, 0) {
			return fmt.Errorf("%w: %s is not a finite number", ErrInvalidNutrients, f.name)
		}
		if f.val < 0 {
			return fmt.Errorf("%w: %s must be non-negative", ErrInvalidNutrients, f.name)
		}
	}
	return nil
}

// Amount is a value with its unit tag as it travels over JSON.
type Amount struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// UnmarshalJSON accepts both {"value":1,"unit":"g"} and a bare number.
func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*a = Amount{}
		return nil
	}
	if b[0] != '{' {
		var n float64
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidNutrients, err)
		}
		*a = Amount{Value: n}
		return nil
	}
	type plain Amount
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidNutrients, err)
	}
	*a = Amount(p)
	return nil
}

// NutrientInput is the ingestion shape for nutrient vectors.
type NutrientInput struct {
	Calories Amount `json:"calories"`
	Protein  Amount `json:"protein"`
	Fat      Amount `json:"fat"`
	Carbs    Amount `json:"carbs"`
	Fiber    Amount `json:"fiber"`
}

// Vector checks unit tags and values and returns the canonical vector.
// An empty unit is read as the canonical one.
func (in NutrientInput) Vector() (NutrientVector, error) {
	check := func(name string, a Amount, want string) (float64, error) {
		if a.Unit != "" && !strings.EqualFold(a.Unit, want) {
			return 0, fmt.Errorf("%w: %s must be in %s, got %q", ErrInvalidNutrients, name, want, a.Unit)
		}
		return a.Value, nil
	}

	var v NutrientVector
	var err error
	if v.Calories, err = check("calories", in.Calories, UnitKcal); err != nil {
		return NutrientVector{}, err
	}
	if v.Protein, err = check("protein", in.Protein, UnitGram); err != nil {
		return NutrientVector{}, err
	}
	if v.Fat, err = check("fat", in.Fat, UnitGram); err != nil {
		return NutrientVector{}, err
	}
	if v.Carbs, err = check("carbs", in.Carbs, UnitGram); err != nil {
		return NutrientVector{}, err
	}
	if v.Fiber, err = check("fiber", in.Fiber, UnitGram); err != nil {
		return NutrientVector{}, err
	}
	if err := v.Validate(); err != nil {
		return NutrientVector{}, err
	}
	return v, nil
}

// MarshalJSON emits every field with its unit tag.
func (v NutrientVector) MarshalJSON() ([]byte, error) {
	return json.Marshal(NutrientInput{
		Calories: Amount{v.Calories, UnitKcal},
		Protein:  Amount{v.Protein, UnitGram},
		Fat:      Amount{v.Fat, UnitGram},
		Carbs:    Amount{v.Carbs, UnitGram},
		Fiber:    Amount{v.Fiber, UnitGram},
	})
}

// UnmarshalJSON goes through NutrientInput so stored/echoed payloads are
// validated the same way as requests.
func (v *NutrientVector) UnmarshalJSON(b []byte) error {
	var in NutrientInput
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	out, err := in.Vector()
	if err != nil {
		return err
	}
	*v = out
	return nil
}
