// Package measurements defines the measurement kinds the service accepts,
// their valid numeric ranges, and the quick-add shorthand expansion.
package measurements

import (
	"fmt"
	"time"

	"github.com/healthsync/healthsync/internal/common"
)

// Kind is an enumerated category of a health reading.
type Kind string

const (
	// Body measurements.
	Weight  Kind = "weight"
	Height  Kind = "height"
	BodyFat Kind = "body_fat"

	// Vital signs.
	HeartRate              Kind = "heart_rate"
	BloodPressureSystolic  Kind = "blood_pressure_systolic"
	BloodPressureDiastolic Kind = "blood_pressure_diastolic"
	BodyTemperature        Kind = "body_temperature"

	// Activity and fitness.
	Steps           Kind = "steps"
	CaloriesBurned  Kind = "calories_burned"
	ExerciseMinutes Kind = "exercise_minutes"

	// Sleep.
	SleepHours Kind = "sleep_hours"

	// Mental health.
	MoodRating  Kind = "mood_rating"
	StressLevel Kind = "stress_level"

	// Blood work.
	BloodGlucose Kind = "blood_glucose"
)

// MaxNotesLength bounds the free-text note attached to a record.
const MaxNotesLength = 500

// Range is an inclusive numeric interval.
type Range struct {
	Min float64
	Max float64
}

var kinds = map[Kind]struct{}{
	Weight:                 {},
	Height:                 {},
	BodyFat:                {},
	HeartRate:              {},
	BloodPressureSystolic:  {},
	BloodPressureDiastolic: {},
	BodyTemperature:        {},
	Steps:                  {},
	CaloriesBurned:         {},
	ExerciseMinutes:        {},
	SleepHours:             {},
	MoodRating:             {},
	StressLevel:            {},
	BloodGlucose:           {},
}

// kindRanges holds the registered valid range per kind. Kinds without an
// entry (calories_burned, exercise_minutes) pass through unchecked.
var kindRanges = map[Kind]Range{
	Weight:                 {20, 500},
	Height:                 {50, 250},
	BodyFat:                {1, 75},
	HeartRate:              {30, 220},
	BloodPressureSystolic:  {60, 250},
	BloodPressureDiastolic: {30, 150},
	BodyTemperature:        {30, 45},
	Steps:                  {0, 100000},
	SleepHours:             {0, 24},
	MoodRating:             {1, 10},
	StressLevel:            {1, 10},
	BloodGlucose:           {20, 600},
}

// ParseKind converts a wire string into a known Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := kinds[k]; !ok {
		return "", fmt.Errorf("%w: unknown measurement type %q", common.ErrorValidation, s)
	}
	return k, nil
}

// Validate checks the value against the kind's registered range. The check
// runs once, at submission time; stored records are never re-validated.
func Validate(kind Kind, value float64) error {
	r, ok := kindRanges[kind]
	if !ok {
		return nil
	}
	if value < r.Min || value > r.Max {
		return fmt.Errorf("%w: %s value %g out of range [%g, %g]",
			common.ErrorValidation, kind, value, r.Min, r.Max)
	}
	return nil
}

// ValidateNotes bounds the optional free-text note.
func ValidateNotes(notes string) error {
	if len(notes) > MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", common.ErrorValidation, MaxNotesLength)
	}
	return nil
}

// DefaultMeasuredAt supplies the measured-at timestamp when the caller
// omits it.
func DefaultMeasuredAt() time.Time {
	return time.Now().UTC()
}

// Spec describes one measurement to be recorded.
type Spec struct {
	Type       Kind
	Value      float64
	Unit       string
	Notes      string
	MeasuredAt time.Time
}
