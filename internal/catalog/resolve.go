package catalog

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Resolve finds the widget a user meant by query. It tries, in order: the
// exact id, a case-insensitive id or name, a unique prefix, and finally the
// closest id or name by edit distance when the distance is small relative to
// the query length. Ties at any stage resolve to nothing.
func (c *Catalog) Resolve(query string) (Widget, bool) {
	q := strings.TrimSpace(query)
	if q == "" {
		return Widget{}, false
	}
	if w, ok := c.Lookup(WidgetID(q)); ok {
		return w, true
	}
	norm := normalizeQuery(q)

	for _, w := range c.widgets {
		if normalizeQuery(string(w.ID)) == norm || normalizeQuery(w.Name) == norm {
			return w, true
		}
	}

	var prefix []Widget
	for _, w := range c.widgets {
		if strings.HasPrefix(normalizeQuery(string(w.ID)), norm) || strings.HasPrefix(normalizeQuery(w.Name), norm) {
			prefix = append(prefix, w)
		}
	}
	if len(prefix) == 1 {
		return prefix[0], true
	}
	if len(prefix) > 1 {
		return Widget{}, false
	}

	limit := max(1, len(norm)/3)
	best, bestDist, tied := Widget{}, limit+1, false
	for _, w := range c.widgets {
		d := min(
			levenshtein.ComputeDistance(norm, normalizeQuery(string(w.ID))),
			levenshtein.ComputeDistance(norm, normalizeQuery(w.Name)),
		)
		switch {
		case d < bestDist:
			best, bestDist, tied = w, d, false
		case d == bestDist:
			tied = true
		}
	}
	if bestDist > limit || tied {
		return Widget{}, false
	}
	return best, true
}

func normalizeQuery(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "_", " ")), "_")
}
