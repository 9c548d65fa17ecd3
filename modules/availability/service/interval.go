package service

import (
	"sort"
	"time"

	"hangout-api/modules/availability/entity"
)

// MergeIntervals returns the minimal sorted set of disjoint intervals covering
// the input. Empty or inverted intervals are dropped. Adjacent intervals are
// joined. The input slice is not modified.
func MergeIntervals(intervals []entity.TimeSlot) []entity.TimeSlot {
	sorted := make([]entity.TimeSlot, 0, len(intervals))
	for _, in := range intervals {
		if in.Valid() {
			sorted = append(sorted, in)
		}
	}
	if len(sorted) == 0 {
		return sorted
	}

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := []entity.TimeSlot{sorted[0]}
	for _, current := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !current.Start.After(last.End) {
			if current.End.After(last.End) {
				last.End = current.End
			}
			continue
		}
		merged = append(merged, current)
	}

	return merged
}

// Overlaps reports whether two half-open intervals share any instant.
// A slot ending exactly when another starts does not overlap it.
func Overlaps(a, b entity.TimeSlot) bool {
	return latest(a.Start, b.Start).Before(earliest(a.End, b.End))
}

func latest(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earliest(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

// FilterFree keeps the candidates that overlap none of the busy intervals.
// busy must be the output of MergeIntervals.
func FilterFree(candidates, busy []entity.TimeSlot) []entity.TimeSlot {
	free := make([]entity.TimeSlot, 0, len(candidates))
	for _, slot := range candidates {
		// First busy interval that ends after the slot starts; being disjoint
		// and sorted, it is the only one that can overlap.
		i := sort.Search(len(busy), func(i int) bool {
			return busy[i].End.After(slot.Start)
		})
		if i < len(busy) && Overlaps(slot, busy[i]) {
			continue
		}
		free = append(free, slot)
	}
	return free
}
