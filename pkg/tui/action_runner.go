package tui

import (
	"github.com/go-go-golems/alin-dash/pkg/bus"
	"github.com/go-go-golems/alin-dash/pkg/dashboard"
	"github.com/go-go-golems/alin-dash/pkg/event"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Controller is what the action runner drives. *engine.Engine satisfies it.
type Controller interface {
	Generate(level event.Level) event.Event
	Reset()
	SetFilter(level event.Level)
	SetThreshold(n int) int
	RefreshTopology() dashboard.Topology
	Snapshot() dashboard.Snapshot
}

func RegisterUIActionRunner(b *bus.Bus, ctrl Controller) {
	b.Handle("alin-ui-actions", bus.TopicUIActions, func(env bus.Envelope) error {
		if env.Type != bus.UITypeActionRequest {
			return nil
		}
		var req ActionRequest
		if err := env.Decode(&req); err != nil {
			log.Warn().Err(err).Msg("bad ui action")
			return nil
		}
		if err := RunAction(ctrl, req); err != nil {
			log.Warn().Err(err).Str("action", string(req.Kind)).Msg("ui action failed")
		}
		return nil
	})
}

// RunAction applies a single request to ctrl.
func RunAction(ctrl Controller, req ActionRequest) error {
	switch req.Kind {
	case ActionGenerate:
		if req.Level == nil {
			return errors.New("generate: missing level")
		}
		ctrl.Generate(*req.Level)
	case ActionFilter:
		if req.Level == nil {
			return errors.New("filter: missing level")
		}
		ctrl.SetFilter(*req.Level)
	case ActionThreshold:
		ctrl.SetThreshold(ctrl.Snapshot().Threshold + req.Delta)
	case ActionReset:
		ctrl.Reset()
	case ActionRefresh:
		ctrl.RefreshTopology()
	default:
		return errors.Errorf("unknown action: %s", req.Kind)
	}
	return nil
}
