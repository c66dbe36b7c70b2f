package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/institute-service/internal/config"
	"github.com/spec-kit/institute-service/internal/domain"
	"github.com/spec-kit/institute-service/internal/events"
)

// NotificationService delivers OTP codes and account notices for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	revealCode bool
}

// NewNotificationService creates the service. Codes are only written to the
// log outside production.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig, app config.AppConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		revealCode: !app.IsProduction(),
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventOTPRequested, n.handleOTPRequested)
	n.dispatcher.Subscribe(events.EventPasswordReset, n.handlePasswordReset)
	n.dispatcher.Subscribe(events.EventRoleAssigned, n.handleRoleChanged)
	n.dispatcher.Subscribe(events.EventRoleRemoved, n.handleRoleChanged)
	n.dispatcher.Subscribe(events.EventInstructorAssigned, n.handleRoleChanged)
	n.dispatcher.Subscribe(events.EventDonationRecorded, n.handleDonationRecorded)
}

func (n *NotificationService) handleOTPRequested(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.OTPRequestedPayload)
	if !ok {
		return nil
	}
	body := "Your password reset code is " + payload.Code + ". It expires in 5 minutes."
	switch payload.Contact.Type {
	case domain.ContactPhone:
		n.sendSMSStub(ctx, event, payload.Contact.Value, body, payload.Code)
	default:
		n.sendEmailStub(ctx, event, payload.Contact.Value, "Password reset code", payload.Code)
	}
	return nil
}

func (n *NotificationService) handlePasswordReset(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetPayload)
	if !ok {
		return nil
	}
	if payload.Contact.Type == domain.ContactEmail {
		n.sendEmailStub(ctx, event, payload.Contact.Value, "Your password was changed", "")
	}
	return nil
}

func (n *NotificationService) handleRoleChanged(_ context.Context, event events.Event) error {
	n.logger.Info(string(event.Type), zap.Int64("uid", event.UID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleDonationRecorded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.DonationRecordedPayload)
	if !ok {
		return nil
	}
	n.sendEmailStub(ctx, event, payload.Email, "Donation receipt "+payload.ReceiptNumber, "")
	return nil
}

func (n *NotificationService) sendEmailStub(_ context.Context, event events.Event, to, subject, code string) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	fields := []zap.Field{
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("event_type", string(event.Type)),
	}
	if n.revealCode && code != "" {
		fields = append(fields, zap.String("otp", code))
	}
	n.logger.Info("sendEmailNotificationStub", fields...)
}

func (n *NotificationService) sendSMSStub(_ context.Context, event events.Event, to, body, code string) {
	if strings.TrimSpace(n.cfg.SMSSender) == "" {
		n.logger.Warn("sms sender not configured; dropping message", zap.String("event_type", string(event.Type)))
		return
	}
	fields := []zap.Field{
		zap.String("sender", n.cfg.SMSSender),
		zap.String("to", to),
		zap.Int("length", len(body)),
		zap.String("event_type", string(event.Type)),
	}
	if n.revealCode {
		fields = append(fields, zap.String("otp", code))
	}
	n.logger.Info("sendSMSNotificationStub", fields...)
}
