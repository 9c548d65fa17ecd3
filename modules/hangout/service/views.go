package service

import (
	"sort"
	"time"

	"hangout-api/modules/hangout/entity"
)

// HangoutViews splits a user's hangouts the way the app lists them.
type HangoutViews struct {
	Pending  []entity.Hangout
	Upcoming []entity.Hangout
	Past     []entity.Hangout
}

// Partition classifies hangouts at now. Pending and upcoming are ascending by
// start; past is descending. An accepted hangout that has started counts as past.
func Partition(hangouts []entity.Hangout, now time.Time) HangoutViews {
	views := HangoutViews{
		Pending:  []entity.Hangout{},
		Upcoming: []entity.Hangout{},
		Past:     []entity.Hangout{},
	}

	for _, h := range hangouts {
		switch {
		case h.Status == entity.StatusPending:
			views.Pending = append(views.Pending, h)
		case h.Status == entity.StatusAccepted && !h.HasStarted(now):
			views.Upcoming = append(views.Upcoming, h)
		default:
			views.Past = append(views.Past, h)
		}
	}

	sort.SliceStable(views.Pending, func(i, j int) bool {
		return views.Pending[i].StartDate.Before(views.Pending[j].StartDate)
	})
	sort.SliceStable(views.Upcoming, func(i, j int) bool {
		return views.Upcoming[i].StartDate.Before(views.Upcoming[j].StartDate)
	})
	sort.SliceStable(views.Past, func(i, j int) bool {
		return views.Past[i].StartDate.After(views.Past[j].StartDate)
	})
	return views
}
