package bus

import (
	"github.com/go-go-golems/alin-dash/pkg/pipeline"
	"github.com/pkg/errors"
)

// RegisterDomainToUITransformer turns every domain envelope into a fresh UI
// snapshot; alerts are additionally forwarded as their own UI message.
func RegisterDomainToUITransformer(b *Bus, view func() View) {
	b.Handle("alin-domain-to-ui", TopicDomainEvents, func(env Envelope) error {
		switch env.Type {
		case DomainTypeAlertFired:
			var a pipeline.Alert
			if err := env.Decode(&a); err != nil {
				return err
			}
			if err := Publish(b.Publisher, TopicUIMessages, UITypeAlert, a); err != nil {
				return errors.Wrap(err, "publish ui alert")
			}
			return publishSnapshot(b, view)
		case DomainTypeEventAdded,
			DomainTypeDashboardReset,
			DomainTypeFilterChanged,
			DomainTypeThresholdChanged,
			DomainTypeTopologyRefreshed,
			DomainTypeConfigReloaded:
			return publishSnapshot(b, view)
		default:
			return nil
		}
	})
}

func publishSnapshot(b *Bus, view func() View) error {
	if err := Publish(b.Publisher, TopicUIMessages, UITypeSnapshot, view()); err != nil {
		return errors.Wrap(err, "publish ui snapshot")
	}
	return nil
}

// OnUI registers a consumer of UI messages. Each consumer gets its own copy
// of every message.
func OnUI(b *Bus, name string, onSnapshot func(View), onAlert func(pipeline.Alert)) {
	b.Handle(name, TopicUIMessages, func(env Envelope) error {
		switch env.Type {
		case UITypeSnapshot:
			if onSnapshot == nil {
				return nil
			}
			var v View
			if err := env.Decode(&v); err != nil {
				return err
			}
			onSnapshot(v)
		case UITypeAlert:
			if onAlert == nil {
				return nil
			}
			var a pipeline.Alert
			if err := env.Decode(&a); err != nil {
				return err
			}
			onAlert(a)
		}
		return nil
	})
}
