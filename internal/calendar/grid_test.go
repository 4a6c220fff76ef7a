package calendar

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewGrid_Lists(t *testing.T) {
	birth := MustDate(1995, time.December, 1)
	// 26th year of life, week 15: 2020-12-01 + 14 weeks + 1 day.
	today := MustDate(2021, time.March, 10)

	g := NewGrid(birth, today, nil)

	if g.CurrentYear != 26 {
		t.Fatalf("CurrentYear = %d, want 26", g.CurrentYear)
	}
	if g.CurrentWeek != 15 {
		t.Fatalf("CurrentWeek = %d, want 15", g.CurrentWeek)
	}
	if len(g.YearsPassed) != 25 {
		t.Errorf("len(YearsPassed) = %d, want 25", len(g.YearsPassed))
	}
	if len(g.FutureYears) != 64 {
		t.Errorf("len(FutureYears) = %d, want 64", len(g.FutureYears))
	}
	if len(g.WeeksPassedThisYear) != 14 {
		t.Errorf("len(WeeksPassedThisYear) = %d, want 14", len(g.WeeksPassedThisYear))
	}
	if len(g.WeeksLeftThisYear) != 37 {
		t.Errorf("len(WeeksLeftThisYear) = %d, want 37", len(g.WeeksLeftThisYear))
	}
	if got := len(g.YearsPassed) + 1 + len(g.FutureYears); got != LifespanYears {
		t.Errorf("rows = %d, want %d", got, LifespanYears)
	}
}

func TestNewGrid_Rows(t *testing.T) {
	birth := MustDate(1995, time.December, 1)
	today := MustDate(2021, time.March, 10)
	events := []Event{
		{Title: "school", Date: MustDate(2005, time.May, 31)},
		{Title: "too late", Date: MustDate(2090, time.January, 1)},
	}

	rows := NewGrid(birth, today, events).Rows()
	if len(rows) != LifespanYears {
		t.Fatalf("len(rows) = %d, want %d", len(rows), LifespanYears)
	}

	var past, current, future, placed int
	for _, row := range rows {
		if len(row.Cells) != WeeksPerYear {
			t.Fatalf("row %d has %d cells", row.Year, len(row.Cells))
		}
		for _, c := range row.Cells {
			switch c.State {
			case CellPast:
				past++
			case CellCurrent:
				current++
			case CellFuture:
				future++
			}
			placed += len(c.Events)
		}
	}

	if past != 25*52+14 || current != 1 || future != 64*52+37 {
		t.Errorf("past/current/future = %d/%d/%d", past, current, future)
	}
	if placed != 1 {
		t.Errorf("placed events = %d, want 1", placed)
	}

	cell := rows[9].Cells[25]
	if len(cell.Events) != 1 || cell.Events[0].Title != "school" {
		t.Errorf("year 10 week 26 events = %+v", cell.Events)
	}
}

func TestGrid_Summary(t *testing.T) {
	g := NewGrid(MustDate(1995, time.December, 1), MustDate(2021, time.March, 10), nil)

	got := g.Summary(nil)
	if !strings.Contains(got, "week 15 of year 26") {
		t.Errorf("Summary() = %q", got)
	}
	if !strings.Contains(got, "1,314 weeks lived") {
		t.Errorf("Summary() = %q, want grouped week count", got)
	}
}

func TestValidateBirthDate(t *testing.T) {
	today := MustDate(2021, time.March, 10)

	tests := []struct {
		name string
		dob  Date
		want error
	}{
		{"valid", MustDate(1995, time.December, 1), nil},
		{"today", today, ErrFutureBirthDate},
		{"future", MustDate(2999, time.December, 31), ErrFutureBirthDate},
		{"exactly 90 years", MustDate(1931, time.March, 10), nil},
		{"over 90 years", MustDate(1931, time.March, 9), ErrBirthDateTooOld},
		{"far past", MustDate(1901, time.January, 1), ErrBirthDateTooOld},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateBirthDate(tt.dob, today); !errors.Is(err, tt.want) {
				t.Errorf("ValidateBirthDate(%s) = %v, want %v", tt.dob, err, tt.want)
			}
		})
	}
}

func TestValidateEventDate(t *testing.T) {
	dob := MustDate(1995, time.December, 1)

	tests := []struct {
		event Date
		want  error
	}{
		{MustDate(2005, time.May, 31), nil},
		{dob, nil},
		{MustDate(1995, time.November, 30), ErrEventOutOfRange},
		{MustDate(2085, time.December, 1), nil},
		{MustDate(2085, time.December, 2), ErrEventOutOfRange},
	}

	for _, tt := range tests {
		if err := ValidateEventDate(dob, tt.event); !errors.Is(err, tt.want) {
			t.Errorf("ValidateEventDate(%s) = %v, want %v", tt.event, err, tt.want)
		}
	}
}

func TestValidateEventsForBirthDate(t *testing.T) {
	events := []Date{MustDate(2005, time.May, 31), MustDate(2010, time.January, 1)}

	if err := ValidateEventsForBirthDate(MustDate(1995, time.December, 1), events); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateEventsForBirthDate(MustDate(2006, time.January, 1), events); !errors.Is(err, ErrEventsOutOfRangeForBirthDate) {
		t.Errorf("got %v, want ErrEventsOutOfRangeForBirthDate", err)
	}
}

func TestParseEventSegment(t *testing.T) {
	name, date, err := ParseEventSegment("test event=2005-05-31")
	if err != nil {
		t.Fatalf("ParseEventSegment() error = %v", err)
	}
	if name != "test event" || date != MustDate(2005, time.May, 31) {
		t.Errorf("ParseEventSegment() = %q, %s", name, date)
	}

	if got := FormatEventSegment(name, date); got != "test event=2005-05-31" {
		t.Errorf("FormatEventSegment() = %q", got)
	}

	for _, bad := range []string{"event=not-a-date", "no-equals", "=2005-05-31"} {
		if _, _, err := ParseEventSegment(bad); !errors.Is(err, ErrMalformedEvent) {
			t.Errorf("ParseEventSegment(%q) = %v, want ErrMalformedEvent", bad, err)
		}
	}
}
