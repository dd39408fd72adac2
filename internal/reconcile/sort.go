package reconcile

import (
	"regexp"
	"sort"
	"time"

	"github.com/mkarpovich/mediavault/internal/models"
)

// Filenames follow the Category_Title_Author_YYYY-MM-DD.ext convention; the
// embedded date, when present, is the primary sort key.
var nameDateRe = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)

// sortKey computes the primary ordering key for one record.
//
// With an embedded date, the key is the date's unix-millis timestamp plus a
// created/1_000_000 perturbation: enough to break ties between same-day
// files, too small to ever cross a day boundary. Without a date the key is
// simply created.
func sortKey(it *models.EnhancedFileRecord) float64 {
	if m := nameDateRe.FindString(it.Name); m != "" {
		if d, err := time.Parse("2006-01-02", m); err == nil {
			return float64(d.UnixMilli()) + float64(it.Created)/1_000_000
		}
	}
	return float64(it.Created)
}

// SortFilesByDate orders items newest-first in place, as one total order
// over the whole collection (ties can chain across more than two records,
// so per-pair ad hoc comparison would not be sound).
//
// Tie-breaking: exactly equal keys prefer local records; after that, raw
// created descending. Entries equal on all three are left in their incoming
// relative order (stable), which callers must not treat as load-bearing.
func SortFilesByDate(items []*models.EnhancedFileRecord) {

	keys := make(map[*models.EnhancedFileRecord]float64, len(items))
	for _, it := range items {
		keys[it] = sortKey(it)
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if keys[a] != keys[b] {
			return keys[a] > keys[b]
		}
		if a.IsLocal != b.IsLocal {
			return a.IsLocal
		}
		return a.Created > b.Created
	})
}
