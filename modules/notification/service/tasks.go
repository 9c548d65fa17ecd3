package service

import (
	"encoding/json"
	"fmt"

	"hangout-api/modules/notification/entity"

	"github.com/hibiken/asynq"
)

const TypeDeliverNotification = "notification:deliver"

type DeliverPayload struct {
	UserID string            `json:"user_id"`
	Kind   entity.Kind       `json:"kind"`
	Data   map[string]string `json:"data"`
}

func NewDeliverTask(p DeliverPayload) (*asynq.Task, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal deliver payload: %w", err)
	}
	return asynq.NewTask(TypeDeliverNotification, body), nil
}

func ParseDeliverTask(t *asynq.Task) (DeliverPayload, error) {
	var p DeliverPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("unmarshal deliver payload: %w", err)
	}
	return p, nil
}
