// Package calendar turns the date phrases of reminder commands into weekday
// codes, concrete dates and finally TimePatterns. All functions take the
// current time as an argument and never read the clock themselves.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/now"

	"remindbot/internal/domain/entity"
	appErrors "remindbot/internal/pkg/errors"
)

// Repeat is the keyword that introduces the date part of an add command.
type Repeat string

const (
	RepeatEvery    Repeat = "every"
	RepeatOn       Repeat = "on"
	RepeatTomorrow Repeat = "tomorrow"
	RepeatToday    Repeat = "today"
)

// Defaults used when a command carries no "at HH:MM".
const (
	DefaultHour   = 9
	DefaultMinute = 0
)

// dateFormats are tried in order by ParseDate. Slash dates are day first.
var dateFormats = []string{
	"2006-01-02",
	"2006-1-2",
	"2/1/2006",
	"2.1.2006",
	"2-Jan-2006",
	"Jan-2-2006",
}

var isoWeekdays = map[string]int{
	"monday":    1,
	"tuesday":   2,
	"wednesday": 3,
	"thursday":  4,
	"friday":    5,
	"saturday":  6,
	"sunday":    7,
}

// ResolveWeekday maps "day", "weekday" and the seven weekday names to a
// weekday field. Names resolve to ISO weekdays (Monday=1 ... Sunday=7).
// ok is false for anything else; the caller should then try ParseDate.
func ResolveWeekday(phrase string) (entity.Field, bool) {
	switch p := strings.ToLower(strings.TrimSpace(phrase)); p {
	case "day":
		return entity.AnyDay, true
	case "weekday":
		return entity.AnyWeekday, true
	default:
		if v, ok := isoWeekdays[p]; ok {
			return entity.At(v), true
		}
	}
	return entity.Field{}, false
}

// ISOWeekday returns t's weekday with Sunday as 7.
func ISOWeekday(t time.Time) int {
	if wd := int(t.Weekday()); wd != 0 {
		return wd
	}
	return 7
}

// NextOccurrenceOf returns the first day after now (never now itself) whose
// ISO weekday is isoWeekday. The time of day is carried over from now.
// 0 is accepted as Sunday; other out-of-range codes yield the zero time.
func NextOccurrenceOf(isoWeekday int, now time.Time) time.Time {
	if isoWeekday == 0 {
		isoWeekday = 7
	}
	if isoWeekday < 1 || isoWeekday > 7 {
		return time.Time{}
	}
	day := now.AddDate(0, 0, 1)
	for ISOWeekday(day) != isoWeekday {
		day = day.AddDate(0, 0, 1)
	}
	return day
}

// ParseDate parses a literal calendar date such as "2026-10-20" or "20/10/2026".
func ParseDate(phrase string, current time.Time) (time.Time, error) {
	cfg := &now.Config{
		WeekStartDay: time.Monday,
		TimeLocation: current.Location(),
		TimeFormats:  dateFormats,
	}
	t, err := cfg.With(current).Parse(strings.TrimSpace(phrase))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", appErrors.ErrInvalidDateTime, phrase)
	}
	return t, nil
}

// ParseClock parses "HH:MM" in 24 hour format.
func ParseClock(clock string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(clock))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: time %q", appErrors.ErrInvalidDateTime, clock)
	}
	return t.Hour(), t.Minute(), nil
}

// Resolve builds the TimePattern for an add command.
//
// "every <when>" keeps the weekday as a recurring pattern. "on <weekday>"
// resolves to the next such date and "on <date>" parses a literal date;
// "on day" and "on weekday" are rejected with ErrAmbiguousWeekday.
// "tomorrow" and "today" need no <when>. Without a clock the reminder
// fires at 09:00.
func Resolve(repeat Repeat, when, clock string, current time.Time) (entity.TimePattern, error) {
	p := entity.TimePattern{
		Seconds:  entity.At(0),
		Minutes:  entity.At(DefaultMinute),
		Hours:    entity.At(DefaultHour),
		MonthDay: entity.Any,
		Month:    entity.Any,
		Weekday:  entity.Any,
		Year:     entity.Any,
	}

	if clock != "" {
		h, m, err := ParseClock(clock)
		if err != nil {
			return entity.TimePattern{}, err
		}
		p.Hours, p.Minutes = entity.At(h), entity.At(m)
	}

	var date time.Time
	switch Repeat(strings.ToLower(string(repeat))) {
	case RepeatEvery:
		wd, ok := ResolveWeekday(when)
		if !ok {
			return entity.TimePattern{}, fmt.Errorf("%w: every %q", appErrors.ErrValidation, when)
		}
		p.Weekday = wd
	case RepeatOn:
		if wd, ok := ResolveWeekday(when); ok {
			if wd.IsRange() {
				return entity.TimePattern{}, appErrors.ErrAmbiguousWeekday
			}
			v, _ := wd.Value()
			p.Weekday = wd
			date = NextOccurrenceOf(v, current)
		} else {
			parsed, err := ParseDate(when, current)
			if err != nil {
				return entity.TimePattern{}, err
			}
			date = parsed
		}
	case RepeatTomorrow:
		date = current.AddDate(0, 0, 1)
	case RepeatToday:
		date = current
	default:
		return entity.TimePattern{}, fmt.Errorf("%w: unknown repeat %q", appErrors.ErrValidation, repeat)
	}

	if !date.IsZero() {
		p.MonthDay = entity.At(date.Day())
		p.Month = entity.At(int(date.Month()))
		p.Year = entity.At(date.Year())
	}
	return p, nil
}
