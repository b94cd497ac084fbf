package bus

const (
	TopicDomainEvents = "alin.events"
	TopicUIMessages   = "alin.ui.msgs"
	TopicUIActions    = "alin.ui.actions"
)

const (
	DomainTypeEventAdded        = "event.added"
	DomainTypeDashboardReset    = "dashboard.reset"
	DomainTypeFilterChanged     = "filter.changed"
	DomainTypeThresholdChanged  = "threshold.changed"
	DomainTypeTopologyRefreshed = "topology.refreshed"
	DomainTypeAlertFired        = "alert.fired"
	DomainTypeConfigReloaded    = "config.reloaded"
)

const (
	UITypeSnapshot = "ui.snapshot"
	UITypeAlert    = "ui.alert"

	UITypeActionRequest = "ui.action.request"
)
