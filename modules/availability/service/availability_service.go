package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"hangout-api/core/errors"
	"hangout-api/core/logger"
	"hangout-api/core/metrics"
	"hangout-api/modules/availability/entity"
)

// BusyProvider is the part of a calendar provider the availability engine reads.
type BusyProvider interface {
	HasAccess(ctx context.Context, userID string) bool
	GetBusyIntervals(ctx context.Context, userID string, start, end time.Time) ([]entity.TimeSlot, error)
}

type AvailabilityServiceInterface interface {
	FindAvailability(ctx context.Context, userA, userB string, rangeStart, rangeEnd time.Time, duration time.Duration) (*entity.AvailabilityResult, error)
	CheckUserAvailability(ctx context.Context, userID string, start, end time.Time) (free bool, known bool, err error)
	DefaultRange(now time.Time) (time.Time, time.Time)
}

type AvailabilityService struct {
	provider BusyProvider
	finder   *SlotFinder
}

func NewAvailabilityService(provider BusyProvider, finder *SlotFinder) *AvailabilityService {
	if finder == nil {
		finder = NewSlotFinder()
	}
	return &AvailabilityService{
		provider: provider,
		finder:   finder,
	}
}

type busyLookup struct {
	busy  []entity.TimeSlot
	known bool
}

// lookup reads one user's busy intervals. Any failure leaves the user unknown;
// it is logged and never returned.
func (s *AvailabilityService) lookup(ctx context.Context, userID string, start, end time.Time) busyLookup {
	if !s.provider.HasAccess(ctx, userID) {
		logger.Info("AvailabilityService:lookup:NoAccess", "user_id", userID)
		return busyLookup{}
	}

	busy, err := s.provider.GetBusyIntervals(ctx, userID, start, end)
	if err != nil {
		logger.Warn("AvailabilityService:lookup:GetBusyIntervals:Error", "user_id", userID, "error", err)
		return busyLookup{}
	}

	return busyLookup{busy: busy, known: true}
}

func (s *AvailabilityService) DefaultRange(now time.Time) (time.Time, time.Time) {
	return s.finder.DefaultRange(now)
}

// FindAvailability returns the windows in [rangeStart, rangeEnd) of the given
// duration when both users are free. When either user's calendar cannot be
// read the result is an unverified sample instead.
func (s *AvailabilityService) FindAvailability(
	ctx context.Context,
	userA, userB string,
	rangeStart, rangeEnd time.Time,
	duration time.Duration,
) (*entity.AvailabilityResult, error) {
	if duration <= 0 {
		return nil, errors.NewAppError(errors.ErrValidation, "duration must be positive", nil)
	}
	if !rangeEnd.After(rangeStart) {
		return nil, errors.NewAppError(errors.ErrValidation, "range end must be after range start", nil)
	}
	if s.finder.RangeTooLong(rangeStart, rangeEnd) {
		return nil, errors.NewAppError(errors.ErrValidation,
			fmt.Sprintf("range must not exceed %d days", s.finder.MaxSearchDays), nil)
	}
	if strings.TrimSpace(userA) == "" || strings.TrimSpace(userB) == "" {
		return nil, errors.NewAppError(errors.ErrValidation, "both users are required", nil)
	}
	if userA == userB {
		return nil, errors.NewAppError(errors.ErrValidation, "availability needs two different users", nil)
	}

	users := [2]string{userA, userB}
	var lookups [2]busyLookup

	var wg sync.WaitGroup
	for i, userID := range users {
		wg.Add(1)
		go func(i int, userID string) {
			defer wg.Done()
			lookups[i] = s.lookup(ctx, userID, rangeStart, rangeEnd)
		}(i, userID)
	}
	wg.Wait()

	var knownBusy []entity.TimeSlot
	var unavailable []string
	for i, l := range lookups {
		if l.known {
			knownBusy = append(knownBusy, l.busy...)
		} else {
			unavailable = append(unavailable, users[i])
		}
	}

	result := &entity.AvailabilityResult{}
	if len(unavailable) == 0 {
		result.Mode = entity.ModeVerified
		result.Verified = true
		result.Windows = s.finder.FindAvailableSlots(rangeStart, rangeEnd, duration, knownBusy)
	} else {
		result.Mode = entity.ModeUnverifiedSample
		result.UnavailableUsers = unavailable
		samples := s.finder.SampleSlots(rangeStart, rangeEnd, duration)
		result.Windows = FilterFree(samples, MergeIntervals(knownBusy))
	}

	metrics.AvailabilityQueries.WithLabelValues(string(result.Mode)).Inc()
	logger.Info("AvailabilityService:FindAvailability:Done",
		"user_a", userA,
		"user_b", userB,
		"mode", result.Mode,
		"windows", len(result.Windows),
	)

	return result, nil
}

// CheckUserAvailability reports whether userID has nothing booked in
// [start, end). known is false when the user's calendar could not be read, in
// which case free carries no information.
func (s *AvailabilityService) CheckUserAvailability(ctx context.Context, userID string, start, end time.Time) (bool, bool, error) {
	if !end.After(start) {
		return false, false, errors.NewAppError(errors.ErrValidation, "end must be after start", nil)
	}

	l := s.lookup(ctx, userID, start, end)
	if !l.known {
		return false, false, nil
	}

	window := entity.TimeSlot{Start: start, End: end}
	for _, busy := range MergeIntervals(l.busy) {
		if Overlaps(window, busy) {
			return false, true, nil
		}
	}
	return true, true, nil
}
