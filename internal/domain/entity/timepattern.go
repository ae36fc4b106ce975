package entity

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// searchDays bounds the look-ahead of Next for recurring patterns.
// Eight years always contains a 29 February.
const searchDays = 8 * 366

// TimePattern is a calendar trigger. A concrete Year makes it one-shot
// (MonthDay and Month are concrete too); a wildcard Year makes it recurring.
// Month is 1-12 and Weekday 0-6 with 0 = Sunday.
//
// TimePattern satisfies cron.Schedule, so it can be handed to the timer
// engine without going through a cron expression.
type TimePattern struct {
	Seconds  Field `json:"seconds"`
	Minutes  Field `json:"minutes"`
	Hours    Field `json:"hours"`
	MonthDay Field `json:"monthday"`
	Month    Field `json:"month"`
	Weekday  Field `json:"weekday"`
	Year     Field `json:"year"`
}

// IsOneShot reports whether the pattern fires exactly once.
func (p TimePattern) IsOneShot() bool {
	return !p.Year.IsAny()
}

// Normalize folds the ISO Sunday (7) onto the cron Sunday (0).
func (p TimePattern) Normalize() TimePattern {
	if v, ok := p.Weekday.Value(); ok && v == 7 {
		p.Weekday = At(0)
	}
	return p
}

// Validate checks every concrete field against its allowed range.
func (p TimePattern) Validate() error {
	checks := []struct {
		name     string
		f        Field
		min, max int
	}{
		{"seconds", p.Seconds, 0, 59},
		{"minutes", p.Minutes, 0, 59},
		{"hours", p.Hours, 0, 23},
		{"monthday", p.MonthDay, 1, 31},
		{"month", p.Month, 1, 12},
		{"weekday", p.Weekday, 0, 7},
		{"year", p.Year, 1970, 9999},
	}
	for _, c := range checks {
		if c.f.IsRange() && c.name != "weekday" {
			return fmt.Errorf("%s cannot be a weekday range", c.name)
		}
		if v, ok := c.f.Value(); ok && (v < c.min || v > c.max) {
			return fmt.Errorf("%s %d out of range %d-%d", c.name, v, c.min, c.max)
		}
	}

	if p.IsOneShot() {
		y, _ := p.Year.Value()
		m, okMonth := p.Month.Value()
		d, okDay := p.MonthDay.Value()
		if !okMonth || !okDay {
			return fmt.Errorf("a dated reminder needs a concrete month and day")
		}
		if date := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.Local); date.Day() != d {
			return fmt.Errorf("%04d-%02d-%02d is not a calendar date", y, m, d)
		}
	}
	return nil
}

// Next returns the first instant strictly after t that matches the pattern,
// in t's location, or the zero time if there is none.
func (p TimePattern) Next(t time.Time) time.Time {
	p = p.Normalize()
	notBefore := t.Truncate(time.Second).Add(time.Second)
	loc := t.Location()

	if p.IsOneShot() {
		y, _ := p.Year.Value()
		m, _ := p.Month.Value()
		d, _ := p.MonthDay.Value()
		day := time.Date(y, time.Month(m), d, 0, 0, 0, 0, loc)
		if day.Day() != d {
			return time.Time{}
		}
		if next, ok := p.firstTimeOn(day, notBefore); ok {
			return next
		}
		return time.Time{}
	}

	day := time.Date(notBefore.Year(), notBefore.Month(), notBefore.Day(), 0, 0, 0, 0, loc)
	for i := 0; i < searchDays; i++ {
		candidate := day.AddDate(0, 0, i)
		if !p.dayMatches(candidate) {
			continue
		}
		if next, ok := p.firstTimeOn(candidate, notBefore); ok {
			return next
		}
	}
	return time.Time{}
}

// dayMatches applies the cron day rule: when both day-of-month and weekday
// are restricted either one may match, otherwise both must.
func (p TimePattern) dayMatches(day time.Time) bool {
	if !p.Month.Matches(int(day.Month())) {
		return false
	}
	domMatch := p.MonthDay.Matches(day.Day())
	dowMatch := p.Weekday.Matches(int(day.Weekday()))
	if p.MonthDay.IsAny() || p.Weekday.IsAny() {
		return domMatch && dowMatch
	}
	return domMatch || dowMatch
}

func (p TimePattern) firstTimeOn(day time.Time, notBefore time.Time) (time.Time, bool) {
	y, mo, d := day.Date()
	loc := day.Location()
	for h := 0; h < 24; h++ {
		if !p.Hours.Matches(h) || time.Date(y, mo, d, h, 59, 59, 0, loc).Before(notBefore) {
			continue
		}
		for m := 0; m < 60; m++ {
			if !p.Minutes.Matches(m) || time.Date(y, mo, d, h, m, 59, 0, loc).Before(notBefore) {
				continue
			}
			for s := 0; s < 60; s++ {
				if !p.Seconds.Matches(s) {
					continue
				}
				if c := time.Date(y, mo, d, h, m, s, 0, loc); !c.Before(notBefore) {
					return c, true
				}
			}
		}
	}
	return time.Time{}, false
}

// Describe renders the pattern for chat replies, e.g.
// "on Friday, October 16th at 09:00" or "every Wednesday at 23:00".
func (p TimePattern) Describe() string {
	p = p.Normalize()
	clock := fmt.Sprintf("%s:%s", twoDigits(p.Hours), twoDigits(p.Minutes))

	if p.IsOneShot() {
		y, _ := p.Year.Value()
		m, _ := p.Month.Value()
		d, _ := p.MonthDay.Value()
		date := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.Local)
		return fmt.Sprintf("on %s, %s %s at %s", date.Weekday(), date.Month(), humanize.Ordinal(date.Day()), clock)
	}
	return fmt.Sprintf("every %s at %s", describeWeekday(p.Weekday), clock)
}

func describeWeekday(f Field) string {
	switch {
	case f == AnyWeekday:
		return "weekday"
	case f == AnyDay, f.IsAny():
		return "day"
	}
	v, _ := f.Value()
	return time.Weekday(v % 7).String()
}

func twoDigits(f Field) string {
	if v, ok := f.Value(); ok {
		return fmt.Sprintf("%02d", v)
	}
	return "**"
}
