package worker

import (
	"github.com/spec-kit/ticket-insights/internal/cache"
	"github.com/spec-kit/ticket-insights/internal/events"
	"github.com/spec-kit/ticket-insights/internal/messaging"
	"github.com/spec-kit/ticket-insights/internal/service"
)

// Subscribers are the ticket_analyzed consumers started with the process.
// Nil members are skipped.
type Subscribers struct {
	Notifications  *service.NotificationService
	DashboardCache *cache.DashboardCache
	Publisher      *messaging.Publisher
}

// StartNotificationWorker registers all subscribers on the dispatcher.
func StartNotificationWorker(dispatcher events.Dispatcher, subs Subscribers) {
	if dispatcher == nil {
		return
	}
	if subs.Notifications != nil {
		subs.Notifications.RegisterHandlers()
	}
	subs.DashboardCache.Register(dispatcher)
	subs.Publisher.Register(dispatcher)
}
