package mapper

import (
	"time"

	"hangout-api/modules/hangout/dto"
	"hangout-api/modules/hangout/entity"
	"hangout-api/modules/hangout/service"
)

func ToHangoutResponse(h *entity.Hangout, now time.Time) *dto.HangoutResponse {
	display := string(h.Status)
	if h.IsElapsed(now) {
		display = string(entity.StatusCompleted)
	}

	return &dto.HangoutResponse{
		ID:               h.ID,
		Title:            h.Title,
		Description:      h.Description,
		StartDate:        h.StartDate,
		EndDate:          h.EndDate,
		Location:         h.Location,
		CreatorUserID:    h.CreatorUserID,
		CreatorPersonaID: h.CreatorPersonaID,
		InviteeUserID:    h.InviteeUserID,
		InviteePersonaID: h.InviteePersonaID,
		Status:           string(h.Status),
		DisplayStatus:    display,
		CalendarEventID:  h.CalendarEventID,
		CreatedAt:        h.CreatedAt,
		UpdatedAt:        h.UpdatedAt,
	}
}

func toResponses(hangouts []entity.Hangout, now time.Time) []dto.HangoutResponse {
	responses := make([]dto.HangoutResponse, len(hangouts))
	for i := range hangouts {
		responses[i] = *ToHangoutResponse(&hangouts[i], now)
	}
	return responses
}

func ToHangoutListResponse(views *service.HangoutViews, now time.Time) *dto.HangoutListResponse {
	if views == nil {
		return &dto.HangoutListResponse{
			Pending:  []dto.HangoutResponse{},
			Upcoming: []dto.HangoutResponse{},
			Past:     []dto.HangoutResponse{},
		}
	}

	return &dto.HangoutListResponse{
		Pending:  toResponses(views.Pending, now),
		Upcoming: toResponses(views.Upcoming, now),
		Past:     toResponses(views.Past, now),
	}
}
