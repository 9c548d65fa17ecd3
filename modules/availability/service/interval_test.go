package service

import (
	"math/rand"
	"testing"
	"time"

	"hangout-api/modules/availability/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func slot(h1, m1, h2, m2 int) entity.TimeSlot {
	return entity.TimeSlot{Start: at(h1, m1), End: at(h2, m2)}
}

func TestMergeIntervals(t *testing.T) {
	tests := []struct {
		name string
		in   []entity.TimeSlot
		want []entity.TimeSlot
	}{
		{name: "empty", in: nil, want: []entity.TimeSlot{}},
		{
			name: "disjoint stays",
			in:   []entity.TimeSlot{slot(9, 0, 10, 0), slot(11, 0, 12, 0)},
			want: []entity.TimeSlot{slot(9, 0, 10, 0), slot(11, 0, 12, 0)},
		},
		{
			name: "overlapping merges",
			in:   []entity.TimeSlot{slot(9, 0, 10, 30), slot(10, 0, 11, 0)},
			want: []entity.TimeSlot{slot(9, 0, 11, 0)},
		},
		{
			name: "adjacent merges",
			in:   []entity.TimeSlot{slot(9, 0, 10, 0), slot(10, 0, 11, 0)},
			want: []entity.TimeSlot{slot(9, 0, 11, 0)},
		},
		{
			name: "contained absorbed",
			in:   []entity.TimeSlot{slot(9, 0, 12, 0), slot(10, 0, 11, 0)},
			want: []entity.TimeSlot{slot(9, 0, 12, 0)},
		},
		{
			name: "unsorted input",
			in:   []entity.TimeSlot{slot(14, 0, 15, 0), slot(9, 0, 10, 0), slot(9, 30, 9, 45)},
			want: []entity.TimeSlot{slot(9, 0, 10, 0), slot(14, 0, 15, 0)},
		},
		{
			name: "empty and inverted dropped",
			in:   []entity.TimeSlot{slot(9, 0, 9, 0), slot(12, 0, 11, 0), slot(13, 0, 14, 0)},
			want: []entity.TimeSlot{slot(13, 0, 14, 0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeIntervals(tt.in))
		})
	}
}

func TestMergeIntervals_DoesNotModifyInput(t *testing.T) {
	in := []entity.TimeSlot{slot(14, 0, 15, 0), slot(9, 0, 10, 0)}
	_ = MergeIntervals(in)
	assert.Equal(t, slot(14, 0, 15, 0), in[0])
}

func randomBusy(r *rand.Rand, n int) []entity.TimeSlot {
	busy := make([]entity.TimeSlot, 0, n)
	for i := 0; i < n; i++ {
		start := day.Add(time.Duration(r.Intn(3*24*60)) * time.Minute)
		busy = append(busy, entity.TimeSlot{
			Start: start,
			End:   start.Add(time.Duration(1+r.Intn(240)) * time.Minute),
		})
	}
	return busy
}

func TestMergeIntervals_Idempotent(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		once := MergeIntervals(randomBusy(r, r.Intn(30)))
		twice := MergeIntervals(once)
		require.Equal(t, once, twice)

		for j := 1; j < len(once); j++ {
			require.True(t, once[j-1].End.Before(once[j].Start), "merged intervals must be disjoint and non-adjacent")
		}
	}
}

func TestOverlaps_HalfOpen(t *testing.T) {
	tests := []struct {
		name string
		a, b entity.TimeSlot
		want bool
	}{
		{"touching end to start", slot(10, 0, 11, 0), slot(11, 0, 12, 0), false},
		{"touching start to end", slot(11, 0, 12, 0), slot(10, 0, 11, 0), false},
		{"partial", slot(10, 0, 11, 0), slot(10, 30, 12, 0), true},
		{"contained", slot(10, 0, 12, 0), slot(10, 30, 11, 0), true},
		{"identical", slot(10, 0, 11, 0), slot(10, 0, 11, 0), true},
		{"apart", slot(9, 0, 10, 0), slot(11, 0, 12, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.a, tt.b))
		})
	}
}

func TestLatestEarliest(t *testing.T) {
	assert.Equal(t, at(11, 0), latest(at(10, 0), at(11, 0)))
	assert.Equal(t, at(11, 0), latest(at(11, 0), at(10, 0)))
	assert.Equal(t, at(10, 0), earliest(at(10, 0), at(11, 0)))
	assert.Equal(t, at(10, 0), earliest(at(11, 0), at(10, 0)))
	assert.Equal(t, at(10, 0), latest(at(10, 0), at(10, 0)))
}

func TestFilterFree_MatchesBruteForce(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	finder := NewSlotFinder()
	finder.Location = time.UTC

	for i := 0; i < 100; i++ {
		busy := randomBusy(r, r.Intn(20))
		duration := time.Duration(15*(1+r.Intn(12))) * time.Minute
		candidates := finder.GenerateCandidates(day, day.Add(72*time.Hour), duration)

		got := FilterFree(candidates, MergeIntervals(busy))

		var want []entity.TimeSlot
		for _, c := range candidates {
			free := true
			for _, b := range busy {
				if Overlaps(c, b) {
					free = false
					break
				}
			}
			if free {
				want = append(want, c)
			}
		}
		if want == nil {
			want = []entity.TimeSlot{}
		}
		require.Equal(t, want, got)
	}
}
