package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"hangout-api/core/entity"
)

type Kind string

const (
	KindNewHangoutRequest Kind = "new_hangout_request"
	KindHangoutAccepted   Kind = "hangout_accepted"
	KindHangoutDeclined   Kind = "hangout_declined"
	KindHangoutCancelled  Kind = "hangout_cancelled"
)

func (k Kind) Valid() bool {
	switch k {
	case KindNewHangoutRequest, KindHangoutAccepted, KindHangoutDeclined, KindHangoutCancelled:
		return true
	}
	return false
}

type Notification struct {
	UserID  string     `db:"user_id" json:"user_id"`
	Kind    Kind       `db:"kind" json:"kind"`
	Title   string     `db:"title" json:"title"`
	Message string     `db:"message" json:"message"`
	Data    JSONB      `db:"data" json:"data"`
	IsRead  bool       `db:"is_read" json:"is_read"`
	ReadAt  *time.Time `db:"read_at" json:"read_at,omitempty"`
	entity.BaseEntity
}

type JSONB map[string]string

func (a JSONB) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

func (a *JSONB) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, a)
}

type PaginatedNotificationEntity = entity.Pagination[Notification]
