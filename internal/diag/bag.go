package diag

import (
	"cmp"
	"math"
	"slices"

	"fortio.org/safecast"
)

// Bag collects the diagnostics of one file up to a limit; what does not fit
// is counted, not stored.
type Bag struct {
	items   []Diagnostic
	limit   uint16
	dropped int
}

// NewBag creates a bag holding at most limit diagnostics; values outside
// uint16 are clamped.
func NewBag(limit int) *Bag {
	n, err := safecast.Conv[uint16](limit)
	if err != nil {
		n = math.MaxUint16
		if limit < 0 {
			n = 0
		}
	}
	return &Bag{items: make([]Diagnostic, 0, min(int(n), 64)), limit: n}
}

// Add возвращает false, если лимит исчерпан; такая диагностика учитывается в Dropped.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.limit) {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Limit() uint16 { return b.limit }

// Dropped is how many diagnostics were rejected by the limit.
func (b *Bag) Dropped() int { return b.dropped }

func (b *Bag) Len() int { return len(b.items) }

// Count returns how many stored diagnostics have exactly severity sev.
func (b *Bag) Count(sev Severity) int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity == sev {
			n++
		}
	}
	return n
}

func (b *Bag) HasErrors() bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity >= SevError })
}

// Items returns the stored diagnostics; the slice is owned by the bag.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends other, raising the limit so that nothing other holds is lost.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	if total, err := safecast.Conv[uint16](len(b.items) + len(other.items)); err == nil {
		b.limit = max(b.limit, total)
	} else {
		b.limit = math.MaxUint16
	}
	room := int(b.limit) - len(b.items)
	kept := min(room, len(other.items))
	b.items = append(b.items, other.items[:kept]...)
	b.dropped += other.dropped + len(other.items) - kept
}

// Sort orders by file and position, then errors before warnings, then code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}
