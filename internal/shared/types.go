package shared

// Task types routed through asynq.
const (
	TypeExpireSubscriptions = "craftsman:expire_subscriptions"
	TypeCleanupSessions     = "user:cleanup_sessions"
)

// Queue names. Priorities are configured in the worker server.
const (
	QueueCraftsman = "craftsman"
	QueueUser      = "user"
)

// ExpireSubscriptionsPayload is the payload for the daily subscription
// sweep. Empty today, kept as a struct so fields can be added without
// changing the task signature.
type ExpireSubscriptionsPayload struct{}

// CleanupSessionsPayload is the payload for the expired session cleanup job.
type CleanupSessionsPayload struct{}
