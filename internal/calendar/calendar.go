// Package calendar lays out months as Monday-first week grids.
package calendar

import "time"

// MonthGrid returns the weeks of the given month. Each week has seven
// cells, Monday first, holding the day of month or 0 for days that belong
// to the previous or next month.
func MonthGrid(year int, month time.Month) [][7]int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := DaysIn(year, month)

	// Offset of the 1st from Monday: Monday=0 ... Sunday=6.
	offset := (int(first.Weekday()) + 6) % 7

	var weeks [][7]int
	var week [7]int
	col := offset
	for day := 1; day <= days; day++ {
		week[col] = day
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = [7]int{}
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}

// DaysIn returns the number of days in the month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
