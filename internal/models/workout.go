package models

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the ISO 8601 calendar-day format every stored date uses.
// Monthly filtering matches on its "YYYY-MM" prefix.
const DateLayout = "2006-01-02"

// MonthPrefix returns the "YYYY-MM" key for the given month.
func MonthPrefix(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// Workout is one logged exercise entry.
type Workout struct {
	ID       int64   `json:"id"`
	UserID   int64   `json:"userId"`
	Date     string  `json:"date"` // YYYY-MM-DD
	Exercise string  `json:"exercise"`
	Weight   float64 `json:"weight"`
	Reps     int     `json:"reps"`
	Sets     int     `json:"sets"`
}

// Volume is weight moved over all sets.
func (w Workout) Volume() float64 {
	return w.Weight * float64(w.Reps) * float64(w.Sets)
}

// Validate checks the entry against the rules enforced at the form boundary.
func (w Workout) Validate() error {
	verr := ValidationError{}
	if _, err := time.Parse(DateLayout, w.Date); err != nil {
		verr["date"] = "must be a date in YYYY-MM-DD form"
	}
	if strings.TrimSpace(w.Exercise) == "" {
		verr["exercise"] = "is required"
	}
	if math.IsNaN(w.Weight) || math.IsInf(w.Weight, 0) || w.Weight < 0 {
		verr["weight"] = "must be a number of at least 0"
	}
	if w.Reps < 1 {
		verr["reps"] = "must be a whole number of at least 1"
	}
	if w.Sets < 1 {
		verr["sets"] = "must be a whole number of at least 1"
	}
	if len(verr) > 0 {
		return verr
	}
	return nil
}

// WorkoutForm carries the raw values posted by the log form.
type WorkoutForm struct {
	Date     string
	Exercise string
	Weight   string
	Reps     string
	Sets     string
}

// Parse converts the raw form into a Workout owned by userID, rejecting
// values that are not well-formed numbers or dates.
func (f WorkoutForm) Parse(userID int64) (Workout, error) {
	w := Workout{
		UserID:   userID,
		Date:     strings.TrimSpace(f.Date),
		Exercise: strings.TrimSpace(f.Exercise),
	}
	verr := ValidationError{}

	if weight, err := strconv.ParseFloat(strings.TrimSpace(f.Weight), 64); err != nil {
		verr["weight"] = "must be a number of at least 0"
	} else {
		w.Weight = weight
	}
	if reps, err := strconv.Atoi(strings.TrimSpace(f.Reps)); err != nil {
		verr["reps"] = "must be a whole number of at least 1"
	} else {
		w.Reps = reps
	}
	if sets, err := strconv.Atoi(strings.TrimSpace(f.Sets)); err != nil {
		verr["sets"] = "must be a whole number of at least 1"
	} else {
		w.Sets = sets
	}

	if err := w.Validate(); err != nil {
		for field, msg := range err.(ValidationError) {
			if _, seen := verr[field]; !seen {
				verr[field] = msg
			}
		}
	}
	if len(verr) > 0 {
		return Workout{}, verr
	}
	return w, nil
}

// ValidationError maps a form field to what is wrong with it.
type ValidationError map[string]string

func (v ValidationError) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = field + " " + v[field]
	}
	return "invalid workout: " + strings.Join(parts, "; ")
}
