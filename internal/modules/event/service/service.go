package service

import (
	"context"
	"encoding/json"

	"github.com/btlam02/gis-app/internal/entity"
	"github.com/redis/go-redis/v9"
)

// Channel is the Redis pub/sub channel carrying bridge change events.
const Channel = "bridge_events"

// BridgeEvent is the payload published on every bridge mutation.
type BridgeEvent struct {
	Action   string `json:"action"`
	BridgeID string `json:"bridge_id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
}

// EventService fans bridge mutations out to live subscribers. Publishing is
// best-effort: a dropped event never fails the write that produced it.
type EventService interface {
	PublishBridgeEvent(ctx context.Context, action string, bridge *entity.Bridge)
}

type eventService struct {
	redisClient *redis.Client
}

func NewEventService(redisClient *redis.Client) EventService {
	return &eventService{redisClient: redisClient}
}

func (s *eventService) PublishBridgeEvent(ctx context.Context, action string, bridge *entity.Bridge) {
	if s.redisClient == nil {
		return
	}

	event := BridgeEvent{
		Action:   action,
		BridgeID: bridge.ID.String(),
		Name:     bridge.Name,
		Status:   string(bridge.Status),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.redisClient.Publish(ctx, Channel, payload)
}
