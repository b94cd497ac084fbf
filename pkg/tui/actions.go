package tui

import (
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-go-golems/alin-dash/pkg/bus"
	"github.com/go-go-golems/alin-dash/pkg/event"
	"github.com/pkg/errors"
)

type ActionKind string

const (
	ActionGenerate  ActionKind = "generate"
	ActionReset     ActionKind = "reset"
	ActionFilter    ActionKind = "filter"
	ActionThreshold ActionKind = "threshold"
	ActionRefresh   ActionKind = "refresh"
)

type ActionRequest struct {
	Kind  ActionKind   `json:"kind"`
	At    time.Time    `json:"at"`
	Level *event.Level `json:"level,omitempty"` // generate, filter
	Delta int          `json:"delta,omitempty"` // threshold
}

func LevelAction(kind ActionKind, l event.Level) ActionRequest {
	return ActionRequest{Kind: kind, Level: &l}
}

func PublishAction(pub message.Publisher, req ActionRequest) error {
	if req.Kind == "" {
		return errors.New("missing action kind")
	}
	if req.At.IsZero() {
		req.At = time.Now()
	}
	return bus.Publish(pub, bus.TopicUIActions, bus.UITypeActionRequest, req)
}
