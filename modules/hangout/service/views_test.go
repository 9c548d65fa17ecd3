package service

import (
	"testing"
	"time"

	"hangout-api/modules/hangout/entity"

	"github.com/stretchr/testify/assert"
)

func ids(hangouts []entity.Hangout) []string {
	out := make([]string, 0, len(hangouts))
	for _, h := range hangouts {
		out = append(out, h.ID)
	}
	return out
}

func TestPartition(t *testing.T) {
	now := time.Date(2025, time.March, 12, 12, 0, 0, 0, time.UTC)
	at := func(hours int) time.Time { return now.Add(time.Duration(hours) * time.Hour) }
	h := func(id string, status entity.HangoutStatus, start time.Time) entity.Hangout {
		return entity.Hangout{ID: id, Status: status, StartDate: start, EndDate: start.Add(time.Hour)}
	}

	views := Partition([]entity.Hangout{
		h("pending-late", entity.StatusPending, at(48)),
		h("pending-early", entity.StatusPending, at(2)),
		h("pending-past", entity.StatusPending, at(-5)),
		h("upcoming-late", entity.StatusAccepted, at(30)),
		h("upcoming-early", entity.StatusAccepted, at(1)),
		h("in-progress", entity.StatusAccepted, now),
		h("elapsed", entity.StatusAccepted, at(-24)),
		h("completed", entity.StatusCompleted, at(-48)),
		h("declined", entity.StatusDeclined, at(5)),
		h("cancelled", entity.StatusCancelled, at(-2)),
	}, now)

	assert.Equal(t, []string{"pending-past", "pending-early", "pending-late"}, ids(views.Pending))
	assert.Equal(t, []string{"upcoming-early", "upcoming-late"}, ids(views.Upcoming))
	assert.Equal(t, []string{"declined", "in-progress", "cancelled", "elapsed", "completed"}, ids(views.Past))
}

func TestPartition_Empty(t *testing.T) {
	views := Partition(nil, time.Now())

	assert.NotNil(t, views.Pending)
	assert.NotNil(t, views.Upcoming)
	assert.NotNil(t, views.Past)
	assert.Empty(t, views.Past)
}
