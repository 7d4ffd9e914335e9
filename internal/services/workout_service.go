package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/isdelr/gymlog/internal/database"
	"github.com/isdelr/gymlog/internal/models"
)

// WorkoutServiceProvider defines the interface for workout log services.
type WorkoutServiceProvider interface {
	AddEntry(ctx context.Context, workout models.Workout) (models.Workout, error)
	ListAll(ctx context.Context, userID int64) ([]models.Workout, error)
	ListForMonth(ctx context.Context, userID int64, year int, month time.Month) ([]models.Workout, error)
}

// WorkoutService provides business logic for the workout log.
type WorkoutService struct {
	db *database.DB
}

// NewWorkoutService creates a new WorkoutService.
func NewWorkoutService(db *database.DB) *WorkoutService {
	return &WorkoutService{db: db}
}

// AddEntry validates and inserts a workout for workout.UserID.
func (s *WorkoutService) AddEntry(ctx context.Context, workout models.Workout) (models.Workout, error) {
	if err := workout.Validate(); err != nil {
		return models.Workout{}, err
	}

	query := "INSERT INTO workouts (user_id, date, exercise, weight, reps, sets) VALUES (?, ?, ?, ?, ?, ?)"
	args := []interface{}{workout.UserID, workout.Date, workout.Exercise, workout.Weight, workout.Reps, workout.Sets}

	var err error
	if s.db.Dialect == database.Postgres {
		err = s.db.QueryRowContext(ctx, s.db.Rebind(query+" RETURNING id"), args...).Scan(&workout.ID)
	} else {
		var res sql.Result
		res, err = s.db.ExecContext(ctx, query, args...)
		if err == nil {
			workout.ID, err = res.LastInsertId()
		}
	}
	if err != nil {
		return models.Workout{}, fmt.Errorf("failed to insert workout: %w", err)
	}
	return workout, nil
}

// ListAll returns every workout of the user, most recent date first.
func (s *WorkoutService) ListAll(ctx context.Context, userID int64) ([]models.Workout, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(`
		SELECT id, user_id, date, exercise, weight, reps, sets
		FROM workouts WHERE user_id = ? ORDER BY date DESC, id ASC`), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWorkouts(rows)
}

// ListForMonth returns the user's workouts whose date starts with the
// month's "YYYY-MM" prefix, most recent date first.
func (s *WorkoutService) ListForMonth(ctx context.Context, userID int64, year int, month time.Month) ([]models.Workout, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(`
		SELECT id, user_id, date, exercise, weight, reps, sets
		FROM workouts WHERE user_id = ? AND date LIKE ? ORDER BY date DESC, id ASC`),
		userID, models.MonthPrefix(year, month)+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWorkouts(rows)
}

// scanWorkouts is a helper function to scan multiple rows into a slice of Workouts.
func scanWorkouts(rows *sql.Rows) ([]models.Workout, error) {
	var workouts []models.Workout
	for rows.Next() {
		var w models.Workout
		if err := rows.Scan(&w.ID, &w.UserID, &w.Date, &w.Exercise, &w.Weight, &w.Reps, &w.Sets); err != nil {
			return nil, err
		}
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}
