package models

import "time"

// Attendance marks that a user logged in on a given calendar day.
type Attendance struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"userId"`
	Date   string `json:"date"` // YYYY-MM-DD
}

// Calendar is a month laid out in Monday-first weeks.
type Calendar struct {
	Year     int
	Month    time.Month
	Weeks    [][7]CalendarDay
	Attended []string // Attended dates within the month, ascending
}

// CalendarDay is one grid cell. Day is 0 for cells outside the month.
type CalendarDay struct {
	Day      int
	Date     string
	Attended bool
	Today    bool
}

// Blank reports whether the cell belongs to an adjacent month.
func (d CalendarDay) Blank() bool {
	return d.Day == 0
}

// AttendedCount is the number of attended days in the month.
func (c Calendar) AttendedCount() int {
	return len(c.Attended)
}
