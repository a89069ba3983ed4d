package measurements

import (
	"fmt"

	"github.com/healthsync/healthsync/internal/common"
)

// QuickAdd is a fixed-shape shorthand payload covering the most common
// readings. Every slot is optional; absent slots produce no record.
type QuickAdd struct {
	WeightKg     *float64 `json:"weight_kg"`
	HeartRateBPM *int     `json:"heart_rate_bpm"`
	Steps        *int     `json:"steps"`
	SleepHours   *float64 `json:"sleep_hours"`
	MoodRating   *int     `json:"mood_rating"`
}

// Validate range-checks each present slot at the shorthand level.
func (q QuickAdd) Validate() error {
	check := func(name string, value float64, r Range) error {
		if value < r.Min || value > r.Max {
			return fmt.Errorf("%w: %s value %g out of range [%g, %g]",
				common.ErrorValidation, name, value, r.Min, r.Max)
		}
		return nil
	}

	if q.WeightKg != nil {
		if err := check("weight_kg", *q.WeightKg, Range{20, 500}); err != nil {
			return err
		}
	}
	if q.HeartRateBPM != nil {
		if err := check("heart_rate_bpm", float64(*q.HeartRateBPM), Range{30, 220}); err != nil {
			return err
		}
	}
	if q.Steps != nil {
		if err := check("steps", float64(*q.Steps), Range{0, 100000}); err != nil {
			return err
		}
	}
	if q.SleepHours != nil {
		if err := check("sleep_hours", *q.SleepHours, Range{0, 24}); err != nil {
			return err
		}
	}
	if q.MoodRating != nil {
		if err := check("mood_rating", float64(*q.MoodRating), Range{1, 10}); err != nil {
			return err
		}
	}
	return nil
}

// Expand maps each present slot 1:1 to a canonical measurement spec.
// An all-absent shorthand expands to an empty slice, not an error.
func (q QuickAdd) Expand() []Spec {
	specs := make([]Spec, 0, 5)

	if q.WeightKg != nil {
		specs = append(specs, Spec{Type: Weight, Value: *q.WeightKg, Unit: "kg"})
	}
	if q.HeartRateBPM != nil {
		specs = append(specs, Spec{Type: HeartRate, Value: float64(*q.HeartRateBPM), Unit: "bpm"})
	}
	if q.Steps != nil {
		specs = append(specs, Spec{Type: Steps, Value: float64(*q.Steps), Unit: "steps"})
	}
	if q.SleepHours != nil {
		specs = append(specs, Spec{Type: SleepHours, Value: *q.SleepHours, Unit: "hours"})
	}
	if q.MoodRating != nil {
		specs = append(specs, Spec{Type: MoodRating, Value: float64(*q.MoodRating), Unit: "scale"})
	}

	return specs
}
