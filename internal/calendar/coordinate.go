package calendar

import (
	"time"

	"cloudeng.io/datetime"
)

// Grid dimensions.
const (
	// LifespanYears is the number of rows on the grid.
	LifespanYears = 90

	// WeeksPerYear is the number of columns per row. A year of life has
	// 52 or 53 started weeks; the 53rd is folded into the 52nd.
	WeeksPerYear = 52
)

// Coordinate locates a date on the grid. Both fields are 1-based.
type Coordinate struct {
	Year int `json:"year"`
	Week int `json:"week"`
}

// IsLeapYear reports whether year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return datetime.IsLeap(year)
}

// AnniversaryDate returns the date in year that has d's month and day.
//
// February 29 has no counterpart in a non-leap year; March 1 of that year
// is used instead.
func AnniversaryDate(d Date, year int) Date {
	if d.Month == time.February && d.Day == 29 && !IsLeapYear(year) {
		return Date{Year: year, Month: time.March, Day: 1}
	}
	return Date{Year: year, Month: d.Month, Day: d.Day}
}

// CurrentYearOfLife returns the 1-based year of life that today falls in.
//
// Today's month and day are projected onto the birth year. If that
// projection lands before the birth date, this year's birthday has not
// come round yet.
func CurrentYearOfLife(birth, today Date) int {
	if birth.After(AnniversaryDate(today, birth.Year)) {
		return today.Year - birth.Year
	}
	return today.Year - birth.Year + 1
}

// CurrentWeekOfYear returns the 1-based week, within the current year of
// life, that today falls in. The result is always in [1, WeeksPerYear].
func CurrentWeekOfYear(birth, today Date) int {
	anchor := AnniversaryDate(today, birth.Year)
	if birth.After(anchor) {
		anchor = AnniversaryDate(today, birth.Year+1)
	}

	days := birth.DaysUntil(anchor)
	week := (days + 6) / 7 // ceil(days/7) for days >= 0

	switch {
	case week > WeeksPerYear:
		week = WeeksPerYear
	case week < 1:
		week = 1
	}
	return week
}

// EventCoordinate places date on the grid of someone born on birth.
// No range checks are made; see ValidateEventDate.
func EventCoordinate(birth, date Date) Coordinate {
	return Coordinate{
		Year: CurrentYearOfLife(birth, date),
		Week: CurrentWeekOfYear(birth, date),
	}
}
