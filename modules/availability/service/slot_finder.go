package service

import (
	"fmt"
	"time"

	"hangout-api/core/config"
	"hangout-api/modules/availability/entity"
)

// SlotFinder holds the scheduling policy: the daily window candidates must fit
// in, the grid step, and the hours used for unverified samples.
type SlotFinder struct {
	// BusinessHoursStart - default 9:00
	BusinessHoursStart int
	// BusinessHoursEnd - default 21:00, a slot may end exactly at this hour
	BusinessHoursEnd int
	SlotStepMinutes  int
	// SampleHours are the slot start hours offered when availability is unverified.
	SampleHours []int
	SearchDays  int
	// MaxSearchDays caps the length of a queried range; zero means no cap.
	MaxSearchDays int
	Location      *time.Location
}

// NewSlotFinder creates a new slot finder with default settings
func NewSlotFinder() *SlotFinder {
	return &SlotFinder{
		BusinessHoursStart: 9,
		BusinessHoursEnd:   21,
		SlotStepMinutes:    30,
		SampleHours:        []int{10, 14, 18},
		SearchDays:         14,
		MaxSearchDays:      62,
		Location:           time.Local,
	}
}

func NewSlotFinderFromConfig(cfg config.SchedulingConfig) (*SlotFinder, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("scheduling timezone: %w", err)
	}
	return &SlotFinder{
		BusinessHoursStart: cfg.DayStartHour,
		BusinessHoursEnd:   cfg.DayEndHour,
		SlotStepMinutes:    cfg.SlotStepMinutes,
		SampleHours:        append([]int(nil), cfg.SampleHours...),
		SearchDays:         cfg.DefaultSearchDays,
		MaxSearchDays:      cfg.MaxSearchDays,
		Location:           loc,
	}, nil
}

func (sf *SlotFinder) location() *time.Location {
	if sf.Location == nil {
		return time.Local
	}
	return sf.Location
}

// DefaultRange is the scan window used when a caller gives none: from now to
// midnight SearchDays days later.
func (sf *SlotFinder) DefaultRange(now time.Time) (time.Time, time.Time) {
	local := now.In(sf.location())
	end := time.Date(local.Year(), local.Month(), local.Day()+sf.SearchDays, 0, 0, 0, 0, local.Location())
	return now, end
}

// RangeTooLong reports whether [rangeStart, rangeEnd) is longer than the
// configured maximum.
func (sf *SlotFinder) RangeTooLong(rangeStart, rangeEnd time.Time) bool {
	if sf.MaxSearchDays <= 0 {
		return false
	}
	return rangeEnd.Sub(rangeStart) > time.Duration(sf.MaxSearchDays)*24*time.Hour
}

// GenerateCandidates emits every slot of the given duration that starts on a
// grid boundary of some local day, ends no later than that day's business
// close, and lies within [rangeStart, rangeEnd].
func (sf *SlotFinder) GenerateCandidates(rangeStart, rangeEnd time.Time, duration time.Duration) []entity.TimeSlot {
	slots := []entity.TimeSlot{}
	if duration <= 0 || !rangeEnd.After(rangeStart) || sf.SlotStepMinutes <= 0 {
		return slots
	}

	loc := sf.location()
	first := rangeStart.In(loc)
	day := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, loc)

	for day.Before(rangeEnd) {
		y, m, d := day.Date()
		// Built from wall-clock fields so DST days keep their local hours.
		closing := time.Date(y, m, d, sf.BusinessHoursEnd, 0, 0, 0, loc)

		for offset := 0; ; offset += sf.SlotStepMinutes {
			start := time.Date(y, m, d, sf.BusinessHoursStart, offset, 0, 0, loc)
			if !start.Before(closing) {
				break
			}
			end := start.Add(duration)
			if end.After(closing) || end.After(rangeEnd) {
				break
			}
			if start.Before(rangeStart) {
				continue
			}
			slots = append(slots, entity.TimeSlot{Start: start, End: end})
		}

		day = time.Date(y, m, d+1, 0, 0, 0, 0, loc)
	}

	return slots
}

// FindAvailableSlots returns the candidates in the range that overlap none of
// the busy intervals, ascending by start.
func (sf *SlotFinder) FindAvailableSlots(
	rangeStart time.Time,
	rangeEnd time.Time,
	duration time.Duration,
	busyTimes []entity.TimeSlot,
) []entity.TimeSlot {
	// 1. Merge overlapping busy times
	mergedBusy := MergeIntervals(busyTimes)

	// 2. Generate possible slots
	allSlots := sf.GenerateCandidates(rangeStart, rangeEnd, duration)

	// 3. Filter out busy slots
	return FilterFree(allSlots, mergedBusy)
}

// SampleSlots is the deterministic subset of the candidate grid that starts on
// one of the sample hours.
func (sf *SlotFinder) SampleSlots(rangeStart, rangeEnd time.Time, duration time.Duration) []entity.TimeSlot {
	hours := make(map[int]bool, len(sf.SampleHours))
	for _, h := range sf.SampleHours {
		hours[h] = true
	}

	samples := []entity.TimeSlot{}
	for _, slot := range sf.GenerateCandidates(rangeStart, rangeEnd, duration) {
		local := slot.Start.In(sf.location())
		if local.Minute() == 0 && hours[local.Hour()] {
			samples = append(samples, slot)
		}
	}
	return samples
}
