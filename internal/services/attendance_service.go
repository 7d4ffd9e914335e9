package services

import (
	"context"
	"fmt"
	"time"

	"github.com/isdelr/gymlog/internal/calendar"
	"github.com/isdelr/gymlog/internal/database"
	"github.com/isdelr/gymlog/internal/models"
	"github.com/rs/zerolog/log"
)

// AttendanceServiceProvider defines the interface for attendance services.
type AttendanceServiceProvider interface {
	Record(ctx context.Context, userID int64, day time.Time) error
	DatesForMonth(ctx context.Context, userID int64, year int, month time.Month) ([]string, error)
	MonthGrid(ctx context.Context, userID int64, year int, month time.Month) (models.Calendar, error)
}

// AttendanceService records login days and lays them out as calendars.
type AttendanceService struct {
	db  *database.DB
	now Clock
}

// NewAttendanceService creates a new AttendanceService.
func NewAttendanceService(db *database.DB, now Clock) *AttendanceService {
	return &AttendanceService{db: db, now: now}
}

// Record marks day as attended for the user. Recording the same day twice
// is not an error.
func (s *AttendanceService) Record(ctx context.Context, userID int64, day time.Time) error {
	date := day.Format(models.DateLayout)
	_, err := s.db.ExecContext(ctx, s.db.Rebind("INSERT INTO attendance (user_id, date) VALUES (?, ?)"), userID, date)
	if err != nil {
		if database.IsUniqueViolation(err) {
			log.Debug().Int64("user_id", userID).Str("date", date).Msg("Attendance already recorded")
			return nil
		}
		return fmt.Errorf("failed to insert attendance: %w", err)
	}
	return nil
}

// DatesForMonth returns the attended dates of the month in ascending order.
func (s *AttendanceService) DatesForMonth(ctx context.Context, userID int64, year int, month time.Month) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(
		"SELECT date FROM attendance WHERE user_id = ? AND date LIKE ? ORDER BY date ASC"),
		userID, models.MonthPrefix(year, month)+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, err
		}
		dates = append(dates, date)
	}
	return dates, rows.Err()
}

// MonthGrid builds the month's calendar with the user's attended days
// flagged.
func (s *AttendanceService) MonthGrid(ctx context.Context, userID int64, year int, month time.Month) (models.Calendar, error) {
	dates, err := s.DatesForMonth(ctx, userID, year, month)
	if err != nil {
		return models.Calendar{}, err
	}
	attended := make(map[string]bool, len(dates))
	for _, d := range dates {
		attended[d] = true
	}
	today := s.now().Format(models.DateLayout)

	cal := models.Calendar{Year: year, Month: month, Attended: dates}
	for _, week := range calendar.MonthGrid(year, month) {
		var row [7]models.CalendarDay
		for i, day := range week {
			if day == 0 {
				continue
			}
			date := fmt.Sprintf("%s-%02d", models.MonthPrefix(year, month), day)
			row[i] = models.CalendarDay{
				Day:      day,
				Date:     date,
				Attended: attended[date],
				Today:    date == today,
			}
		}
		cal.Weeks = append(cal.Weeks, row)
	}
	return cal, nil
}
