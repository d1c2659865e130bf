package daemon

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/palegrave/nirikit/internal/config"
	"github.com/palegrave/nirikit/internal/niri"
)

// fieldMatcher matches one window field, either exactly or by regexp when
// the configured pattern starts with "/".
type fieldMatcher struct {
	exact string
	re    *regexp.Regexp
}

func newFieldMatcher(pattern string) (*fieldMatcher, error) {
	if pattern == "" {
		return nil, nil
	}
	if strings.HasPrefix(pattern, "/") {
		re, err := regexp.Compile(strings.TrimPrefix(pattern, "/"))
		if err != nil {
			return nil, fmt.Errorf("invalid match pattern %q: %w", pattern, err)
		}
		return &fieldMatcher{re: re}, nil
	}
	return &fieldMatcher{exact: pattern}, nil
}

func (f *fieldMatcher) matches(value string) bool {
	if f == nil {
		return true
	}
	if f.re != nil {
		return f.re.MatchString(value)
	}
	return f.exact == value
}

// Matcher decides whether a window belongs to a scratchpad. When both app_id
// and title rules are configured, both must match.
type Matcher struct {
	appID *fieldMatcher
	title *fieldMatcher
}

// NewMatcher compiles a config match rule.
func NewMatcher(m config.Match) (*Matcher, error) {
	appID, err := newFieldMatcher(m.AppID)
	if err != nil {
		return nil, err
	}
	title, err := newFieldMatcher(m.Title)
	if err != nil {
		return nil, err
	}
	if appID == nil && title == nil {
		return nil, fmt.Errorf("match rule needs app_id or title")
	}
	return &Matcher{appID: appID, title: title}, nil
}

// Matches reports whether the window satisfies the rule.
func (m *Matcher) Matches(w niri.Window) bool {
	return m.appID.matches(w.AppID) && m.title.matches(w.Title)
}
