package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/institute-service/internal/service"
)

// StartNotificationWorker subscribes OTP and account notices to the event bus.
// Delivery runs inline with Publish, so there is no goroutine to stop.
func StartNotificationWorker(notifications *service.NotificationService, logger *zap.Logger) {
	if notifications == nil {
		return
	}
	notifications.RegisterHandlers()
	if logger != nil {
		logger.Info("notification handlers registered")
	}
}
