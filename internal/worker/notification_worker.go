package worker

import (
	"github.com/sfinpay/backoffice/internal/service"
)

// StartNotificationWorker subscribes the CRM and chat fan-out to inquiry events.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
