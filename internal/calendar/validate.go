package calendar

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors. Their messages are shown to users as-is.
var (
	ErrFutureBirthDate = errors.New("Date of birth cannot be in the future")
	ErrBirthDateTooOld = errors.New("Date of birth cannot be more than 90 years ago")
	ErrEventOutOfRange = errors.New("Event date must fall between your date of birth and your 90th birthday")

	ErrEventsOutOfRangeForBirthDate = errors.New("Your new date of birth would cause some of your life events to be out of range.")

	ErrMalformedEvent = errors.New("event must be written as name=YYYY-MM-DD")
)

// EarliestBirthDate returns the oldest birth date accepted on today.
func EarliestBirthDate(today Date) Date {
	return today.AddYears(-LifespanYears)
}

// ValidateBirthDate rejects birth dates on or after today and birth dates
// more than LifespanYears before today.
func ValidateBirthDate(dob, today Date) error {
	if !dob.Before(today) {
		return ErrFutureBirthDate
	}
	if dob.Before(EarliestBirthDate(today)) {
		return ErrBirthDateTooOld
	}
	return nil
}

// LastGridDate returns the last date that still fits on the grid of
// someone born on dob.
func LastGridDate(dob Date) Date {
	return dob.AddYears(LifespanYears)
}

// ValidateEventDate rejects event dates before dob or after the grid ends.
func ValidateEventDate(dob, event Date) error {
	if event.Before(dob) || event.After(LastGridDate(dob)) {
		return ErrEventOutOfRange
	}
	return nil
}

// ValidateEventsForBirthDate checks that every event date would still be on
// the grid if the birth date changed to dob.
func ValidateEventsForBirthDate(dob Date, events []Date) error {
	for _, e := range events {
		if ValidateEventDate(dob, e) != nil {
			return ErrEventsOutOfRangeForBirthDate
		}
	}
	return nil
}

// ParseEventSegment splits a "name=YYYY-MM-DD" path segment. The name may
// itself contain '='; the date follows the last one.
func ParseEventSegment(segment string) (string, Date, error) {
	i := strings.LastIndexByte(segment, '=')
	if i < 0 {
		return "", Date{}, ErrMalformedEvent
	}
	name := strings.TrimSpace(segment[:i])
	if name == "" {
		return "", Date{}, ErrMalformedEvent
	}
	date, err := ParseDate(segment[i+1:])
	if err != nil {
		return "", Date{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	return name, date, nil
}

// FormatEventSegment is the inverse of ParseEventSegment.
func FormatEventSegment(name string, date Date) string {
	return name + "=" + date.String()
}
