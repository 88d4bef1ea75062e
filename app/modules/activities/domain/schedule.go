package activitiesdomain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var (
	ErrInvalidTimezone  = errors.New("unknown timezone")
	ErrUnrecognizedTime = errors.New("could not recognize time")
)

// DefaultTimezone is used when the caller does not name one.
const DefaultTimezone = "UTC"

var compactClock = regexp.MustCompile(`\b(\d{1,2})(\d{2})\s?(am|pm)\b`)

// TimeParser turns schedule input into instants. It accepts RFC3339, "2006-01-02 15:04" and
// natural language such as "next friday 8pm" or "tomorrow at 21:30".
type TimeParser struct {
	TimezoneMap map[string]string
	parser      *when.Parser
}

// NewTimeParser creates a TimeParser with the supported timezone abbreviations.
func NewTimeParser() *TimeParser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	return &TimeParser{
		TimezoneMap: map[string]string{
			"UTC":  "UTC",
			"GMT":  "Europe/London",
			"BST":  "Europe/London",
			"CET":  "Europe/Paris",
			"CEST": "Europe/Paris",
			"EET":  "Europe/Helsinki",
			"EEST": "Europe/Helsinki",
			"PST":  "America/Los_Angeles",
			"PDT":  "America/Los_Angeles",
			"MST":  "America/Denver",
			"MDT":  "America/Denver",
			"CST":  "America/Chicago",
			"CDT":  "America/Chicago",
			"EST":  "America/New_York",
			"EDT":  "America/New_York",
		},
		parser: w,
	}
}

// Location resolves an abbreviation or IANA name. Empty means DefaultTimezone.
func (tp *TimeParser) Location(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		tz = DefaultTimezone
	}
	if name, ok := tp.TimezoneMap[strings.ToUpper(tz)]; ok {
		tz = name
	}
	loc, err := time.LoadLocation(tz)
	if err != nil || tz == "Local" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimezone, tz)
	}
	return loc, nil
}

// Parse interprets input in tz relative to now and returns the instant in UTC, truncated to
// the minute.
func (tp *TimeParser) Parse(input, tz string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, ErrUnrecognizedTime
	}

	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return t.UTC().Truncate(time.Minute), nil
	}

	loc, err := tp.Location(tz)
	if err != nil {
		return time.Time{}, err
	}

	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, input, loc); err == nil {
			return t.UTC().Truncate(time.Minute), nil
		}
	}

	normalized := strings.ToLower(input)
	normalized = strings.ReplaceAll(normalized, "today ", "today at ")
	normalized = compactClock.ReplaceAllString(normalized, "$1:$2 $3")

	r, err := tp.parser.Parse(normalized, now.In(loc))
	if err != nil || r == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognizedTime, input)
	}
	return r.Time.In(loc).UTC().Truncate(time.Minute), nil
}
