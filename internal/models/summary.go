package models

import (
	"sort"
	"time"
)

// MonthlySummary aggregates one month of workouts.
type MonthlySummary struct {
	Year      int
	Month     time.Month
	Entries   int
	Sets      int
	Reps      int     // reps × sets over all entries
	Volume    float64 // weight × reps × sets over all entries
	Exercises []ExerciseTotal
}

// ExerciseTotal aggregates one exercise within a month.
type ExerciseTotal struct {
	Exercise  string
	Entries   int
	Sets      int
	Volume    float64
	MaxWeight float64
}

// Summarize builds a MonthlySummary from the month's workouts.
func Summarize(year int, month time.Month, workouts []Workout) MonthlySummary {
	summary := MonthlySummary{Year: year, Month: month}
	byExercise := map[string]*ExerciseTotal{}

	for _, w := range workouts {
		summary.Entries++
		summary.Sets += w.Sets
		summary.Reps += w.Reps * w.Sets
		summary.Volume += w.Volume()

		total, ok := byExercise[w.Exercise]
		if !ok {
			total = &ExerciseTotal{Exercise: w.Exercise}
			byExercise[w.Exercise] = total
		}
		total.Entries++
		total.Sets += w.Sets
		total.Volume += w.Volume()
		if w.Weight > total.MaxWeight {
			total.MaxWeight = w.Weight
		}
	}

	for _, total := range byExercise {
		summary.Exercises = append(summary.Exercises, *total)
	}
	sort.Slice(summary.Exercises, func(i, j int) bool {
		return summary.Exercises[i].Exercise < summary.Exercises[j].Exercise
	})
	return summary
}
