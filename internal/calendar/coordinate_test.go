package calendar

import (
	"testing"
	"time"
)

func TestIsLeapYear(t *testing.T) {
	tests := []struct {
		year int
		want bool
	}{
		{1900, false},
		{1995, false},
		{1996, true},
		{2000, true},
		{2004, true},
		{2100, false},
		{2400, true},
	}

	for _, tt := range tests {
		if got := IsLeapYear(tt.year); got != tt.want {
			t.Errorf("IsLeapYear(%d) = %v, want %v", tt.year, got, tt.want)
		}
	}
}

func TestAnniversaryDate(t *testing.T) {
	tests := []struct {
		name string
		date Date
		year int
		want Date
	}{
		{"ordinary date", MustDate(1995, time.December, 1), 2005, MustDate(2005, time.December, 1)},
		{"same year", MustDate(1995, time.December, 1), 1995, MustDate(1995, time.December, 1)},
		{"leap day into leap year", MustDate(1996, time.February, 29), 2004, MustDate(2004, time.February, 29)},
		{"leap day into non-leap year", MustDate(1996, time.February, 29), 2005, MustDate(2005, time.March, 1)},
		{"leap day into century year", MustDate(1996, time.February, 29), 2100, MustDate(2100, time.March, 1)},
		{"feb 28 untouched", MustDate(1996, time.February, 28), 2005, MustDate(2005, time.February, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AnniversaryDate(tt.date, tt.year); got != tt.want {
				t.Errorf("AnniversaryDate(%s, %d) = %s, want %s", tt.date, tt.year, got, tt.want)
			}
		})
	}
}

func TestAnniversaryDate_KeepsMonthAndDay(t *testing.T) {
	birth := MustDate(1980, time.January, 1)
	for d := 0; d < 366; d++ {
		b := birth.AddDays(d)
		if b.Month == time.February && b.Day == 29 {
			continue
		}
		for year := 1900; year <= 2100; year += 7 {
			got := AnniversaryDate(b, year)
			if got.Year != year || got.Month != b.Month || got.Day != b.Day {
				t.Fatalf("AnniversaryDate(%s, %d) = %s", b, year, got)
			}
		}
	}
}

func TestCurrentYearOfLife(t *testing.T) {
	tests := []struct {
		name  string
		birth Date
		today Date
		want  int
	}{
		{"event before birthday", MustDate(1995, time.December, 1), MustDate(2005, time.May, 31), 10},
		{"on birth date", MustDate(1995, time.December, 1), MustDate(1995, time.December, 1), 1},
		{"day before first birthday", MustDate(1995, time.December, 1), MustDate(1996, time.November, 30), 1},
		{"first birthday", MustDate(1995, time.December, 1), MustDate(1996, time.December, 1), 2},
		{"leap birth, non-leap feb 28", MustDate(1996, time.February, 29), MustDate(2005, time.February, 28), 9},
		{"leap birth, non-leap mar 1", MustDate(1996, time.February, 29), MustDate(2005, time.March, 1), 10},
		{"leap birth, leap day", MustDate(1996, time.February, 29), MustDate(2004, time.February, 29), 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentYearOfLife(tt.birth, tt.today); got != tt.want {
				t.Errorf("CurrentYearOfLife(%s, %s) = %d, want %d", tt.birth, tt.today, got, tt.want)
			}
		})
	}
}

func TestCurrentWeekOfYear(t *testing.T) {
	tests := []struct {
		name  string
		birth Date
		today Date
		want  int
	}{
		{"on birth date", MustDate(1999, time.December, 1), MustDate(1999, time.December, 1), 1},
		{"one day old", MustDate(1999, time.December, 1), MustDate(1999, time.December, 2), 1},
		{"seven days old", MustDate(1999, time.December, 1), MustDate(1999, time.December, 8), 1},
		{"eight days old", MustDate(1999, time.December, 1), MustDate(1999, time.December, 9), 2},
		{"half way", MustDate(1999, time.December, 1), MustDate(2005, time.May, 31), 26},
		{"leap day event", MustDate(1995, time.December, 1), MustDate(2004, time.February, 29), 13},
		{"leap day birth", MustDate(1996, time.February, 29), MustDate(2005, time.May, 31), 14},
		{"day before birthday clamps to 52", MustDate(1995, time.December, 1), MustDate(2005, time.November, 30), 52},
		{"birthday resets to week 1", MustDate(1995, time.December, 1), MustDate(2005, time.December, 1), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentWeekOfYear(tt.birth, tt.today); got != tt.want {
				t.Errorf("CurrentWeekOfYear(%s, %s) = %d, want %d", tt.birth, tt.today, got, tt.want)
			}
		})
	}
}

func TestCurrentWeekOfYear_Range(t *testing.T) {
	births := []Date{
		MustDate(1995, time.December, 1),
		MustDate(1996, time.February, 29),
		MustDate(1999, time.March, 1),
		MustDate(2000, time.January, 1),
		MustDate(2003, time.December, 31),
	}

	for _, birth := range births {
		for d := 0; d < 10*366; d++ {
			today := birth.AddDays(d)
			week := CurrentWeekOfYear(birth, today)
			if week < 1 || week > WeeksPerYear {
				t.Fatalf("CurrentWeekOfYear(%s, %s) = %d, out of range", birth, today, week)
			}
		}
	}
}

func TestCurrentYearOfLife_Monotonic(t *testing.T) {
	births := []Date{
		MustDate(1995, time.December, 1),
		MustDate(1996, time.February, 29),
		MustDate(1999, time.March, 1),
	}

	for _, birth := range births {
		prev := CurrentYearOfLife(birth, birth)
		if prev != 1 {
			t.Fatalf("CurrentYearOfLife(%s, %s) = %d, want 1", birth, birth, prev)
		}
		for d := 1; d < 20*366; d++ {
			today := birth.AddDays(d)
			got := CurrentYearOfLife(birth, today)
			if got != prev && got != prev+1 {
				t.Fatalf("CurrentYearOfLife jumped from %d to %d at %s (birth %s)", prev, got, today, birth)
			}
			prev = got
		}
		if prev < 20 {
			t.Errorf("after 20 years year of life is %d for birth %s", prev, birth)
		}
	}
}

func TestEventCoordinate(t *testing.T) {
	tests := []struct {
		birth Date
		event Date
		want  Coordinate
	}{
		{MustDate(1995, time.December, 1), MustDate(2005, time.May, 31), Coordinate{Year: 10, Week: 26}},
		{MustDate(1999, time.December, 1), MustDate(2005, time.May, 31), Coordinate{Year: 6, Week: 26}},
		{MustDate(1995, time.December, 1), MustDate(2004, time.February, 29), Coordinate{Year: 9, Week: 13}},
		{MustDate(1996, time.February, 29), MustDate(2005, time.May, 31), Coordinate{Year: 10, Week: 14}},
		{MustDate(1995, time.December, 1), MustDate(1995, time.December, 1), Coordinate{Year: 1, Week: 1}},
	}

	for _, tt := range tests {
		if got := EventCoordinate(tt.birth, tt.event); got != tt.want {
			t.Errorf("EventCoordinate(%s, %s) = %+v, want %+v", tt.birth, tt.event, got, tt.want)
		}
	}
}
