package calendar

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewDate(t *testing.T) {
	tests := []struct {
		year    int
		month   time.Month
		day     int
		wantErr bool
	}{
		{2004, time.February, 29, false},
		{2005, time.February, 29, true},
		{2005, time.April, 31, true},
		{2005, time.December, 31, false},
		{2005, time.Month(13), 1, true},
		{2005, time.January, 0, true},
	}

	for _, tt := range tests {
		_, err := NewDate(tt.year, tt.month, tt.day)
		if (err != nil) != tt.wantErr {
			t.Errorf("NewDate(%d, %d, %d) error = %v, wantErr %v", tt.year, tt.month, tt.day, err, tt.wantErr)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("1996-02-29")
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	if d != MustDate(1996, time.February, 29) {
		t.Errorf("ParseDate() = %+v", d)
	}

	for _, bad := range []string{"", "not-a-date", "1995-02-29", "1995/12/01", "1995-12-1"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) expected error", bad)
		}
	}
}

func TestDate_CompareAndDays(t *testing.T) {
	a := MustDate(1995, time.December, 1)
	b := MustDate(1996, time.February, 29)

	if !a.Before(b) || a.After(b) {
		t.Errorf("expected %s before %s", a, b)
	}
	if a.Compare(a) != 0 {
		t.Errorf("Compare with self = %d, want 0", a.Compare(a))
	}
	if got := a.DaysUntil(b); got != 90 {
		t.Errorf("DaysUntil() = %d, want 90", got)
	}
	if got := b.DaysUntil(a); got != -90 {
		t.Errorf("DaysUntil() = %d, want -90", got)
	}
	if got := a.AddDays(90); got != b {
		t.Errorf("AddDays(90) = %s, want %s", got, b)
	}
	if got := b.AddYears(1); got != MustDate(1997, time.March, 1) {
		t.Errorf("AddYears(1) = %s, want 1997-03-01", got)
	}
}

func TestDate_JSON(t *testing.T) {
	in := struct {
		DOB Date `json:"dob"`
	}{DOB: MustDate(1995, time.December, 1)}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"dob":"1995-12-01"}` {
		t.Errorf("Marshal() = %s", data)
	}

	var out struct {
		DOB Date `json:"dob"`
	}
	if err := json.Unmarshal([]byte(`{"dob":"2999-13-01"}`), &out); err == nil {
		t.Error("Unmarshal() of invalid date expected error")
	}
}

func TestDate_Scan(t *testing.T) {
	var d Date
	if err := d.Scan("2004-02-29"); err != nil {
		t.Fatalf("Scan(string) error = %v", err)
	}
	if d != MustDate(2004, time.February, 29) {
		t.Errorf("Scan(string) = %s", d)
	}

	if err := d.Scan(time.Date(2001, time.July, 4, 13, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Scan(time) error = %v", err)
	}
	if d != MustDate(2001, time.July, 4) {
		t.Errorf("Scan(time) = %s", d)
	}

	if err := d.Scan(42); err == nil {
		t.Error("Scan(int) expected error")
	}
}
