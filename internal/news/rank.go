package news

import (
	"slices"
	"strings"
)

// DefaultMaxHeadlines caps a list when the policy leaves it unset.
const DefaultMaxHeadlines = 50

// Policy controls ordering and truncation of remote headline lists.
type Policy struct {
	MaxHeadlines int
	// PriorityTerm floats matching sources to the front of the sports list.
	PriorityTerm string
}

func (p Policy) max() int {
	if p.MaxHeadlines <= 0 {
		return DefaultMaxHeadlines
	}
	return p.MaxHeadlines
}

// Rank orders items newest first and truncates them to the policy maximum.
// For sports, sources containing the priority term (case-insensitive) sort
// ahead of everything else. The input slice is left untouched.
func Rank(items []Headline, svc Service, p Policy) []Headline {
	out := slices.Clone(items)

	term := strings.ToLower(strings.TrimSpace(p.PriorityTerm))
	prioritize := svc == Sports && term != ""

	slices.SortStableFunc(out, func(a, b Headline) int {
		if prioritize {
			pa := strings.Contains(strings.ToLower(a.Source), term)
			pb := strings.Contains(strings.ToLower(b.Source), term)
			if pa != pb {
				if pa {
					return -1
				}
				return 1
			}
		}
		switch {
		case a.TS > b.TS:
			return -1
		case a.TS < b.TS:
			return 1
		}
		return 0
	})

	return Truncate(out, p.max())
}

// Truncate returns at most n items. A non-positive n means DefaultMaxHeadlines.
func Truncate(items []Headline, n int) []Headline {
	if n <= 0 {
		n = DefaultMaxHeadlines
	}
	if len(items) <= n {
		return items
	}
	return items[:n]
}
