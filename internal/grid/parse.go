package grid

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// ErrUnparsableDate is returned when an anchor string matches neither a
// fixed layout nor a natural-language expression.
var ErrUnparsableDate = errors.New("unparsable date")

var (
	naturalParser     *when.Parser
	naturalParserOnce sync.Once
)

func parser() *when.Parser {
	naturalParserOnce.Do(func() {
		naturalParser = when.New(nil)
		naturalParser.Add(en.All...)
		naturalParser.Add(common.All...)
	})
	return naturalParser
}

// ParseAnchor turns user input into an anchor date in now's location.
// Accepted forms, tried in order: empty (now), 2006-01-02, RFC 3339, and
// English expressions such as "tomorrow" or "next friday" relative to now.
func ParseAnchor(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now, nil
	}

	loc := now.Location()
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}

	r, err := parser().Parse(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("ParseAnchor: %q: %w", s, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("ParseAnchor: %q: %w", s, ErrUnparsableDate)
	}
	return r.Time.In(loc), nil
}
