package calendar

import (
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func TestMonthGridLeadingAndTrailingBlanks(t *testing.T) {
	// 1 October 2026 is a Thursday.
	got := MonthGrid(2026, time.October)

	assert.DeepEqual(t, got, [][7]int{
		{0, 0, 0, 1, 2, 3, 4},
		{5, 6, 7, 8, 9, 10, 11},
		{12, 13, 14, 15, 16, 17, 18},
		{19, 20, 21, 22, 23, 24, 25},
		{26, 27, 28, 29, 30, 31, 0},
	})
}

func TestMonthGridExactWeeks(t *testing.T) {
	// February 2021 starts on a Monday and has 28 days.
	got := MonthGrid(2021, time.February)

	assert.Equal(t, len(got), 4)
	assert.Equal(t, got[0][0], 1)
	assert.Equal(t, got[3][6], 28)
}

func TestMonthGridSundayStart(t *testing.T) {
	// 1 March 2026 is a Sunday, so six rows are needed.
	got := MonthGrid(2026, time.March)

	assert.Equal(t, len(got), 6)
	assert.DeepEqual(t, got[0], [7]int{0, 0, 0, 0, 0, 0, 1})
	assert.DeepEqual(t, got[5], [7]int{30, 31, 0, 0, 0, 0, 0})
}

func TestMonthGridCoversEveryDayOnce(t *testing.T) {
	for year := 2023; year <= 2028; year++ {
		for month := time.January; month <= time.December; month++ {
			seen := map[int]bool{}
			for _, week := range MonthGrid(year, month) {
				for _, day := range week {
					if day == 0 {
						continue
					}
					assert.Assert(t, !seen[day], "%d-%02d day %d repeated", year, month, day)
					seen[day] = true
				}
			}
			assert.Equal(t, len(seen), DaysIn(year, month), "%d-%02d", year, month)
		}
	}
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, DaysIn(2024, time.February), 29)
	assert.Equal(t, DaysIn(2026, time.February), 28)
	assert.Equal(t, DaysIn(2026, time.December), 31)
}
