package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sfinpay/backoffice/internal/domain"
	"github.com/sfinpay/backoffice/internal/events"
	"github.com/sfinpay/backoffice/internal/observability"
	apperrors "github.com/sfinpay/backoffice/pkg/util"
)

// Notification channel labels used in logs and metrics.
const (
	ChannelCRM  = "crm"
	ChannelChat = "chat"
)

// CRMClient mirrors inquiries into the CRM database.
type CRMClient interface {
	CreateInquiryPage(ctx context.Context, inquiry domain.Inquiry) (string, error)
	UpdateStatus(ctx context.Context, pageID string, status domain.InquiryStatus) error
}

// ChatNotifier announces new inquiries to the team channel.
type ChatNotifier interface {
	PostInquiry(ctx context.Context, inquiry domain.Inquiry) error
}

// CRMLinker stores the CRM record id on the inquiry.
type CRMLinker interface {
	SetCRMPageID(ctx context.Context, id, pageID string) error
}

// NotificationService fans inquiry events out to the CRM and chat. Every
// channel gets one attempt; failures are logged and counted.
type NotificationService struct {
	dispatcher events.Dispatcher
	crm        CRMClient
	chat       ChatNotifier
	links      CRMLinker
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NotificationDependencies bundles the outbound channels.
type NotificationDependencies struct {
	Dispatcher events.Dispatcher
	CRM        CRMClient
	Chat       ChatNotifier
	Links      CRMLinker
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: deps.Dispatcher,
		crm:        deps.CRM,
		chat:       deps.Chat,
		links:      deps.Links,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventInquiryCreated, n.handleInquiryCreated)
	n.dispatcher.Subscribe(events.EventInquiryStatusChanged, n.handleInquiryStatusChanged)
}

func (n *NotificationService) handleInquiryCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.InquiryCreatedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	inquiry := payload.Inquiry

	if n.crm != nil {
		pageID, err := n.crm.CreateInquiryPage(ctx, inquiry)
		n.record(ChannelCRM, event, err)
		if err == nil && n.links != nil {
			if err := n.links.SetCRMPageID(ctx, inquiry.ID, pageID); err != nil {
				n.logger.Warn("store crm page id",
					zap.String("inquiry_id", inquiry.ID),
					zap.Error(err))
			}
		}
	}
	if n.chat != nil {
		n.record(ChannelChat, event, n.chat.PostInquiry(ctx, inquiry))
	}
	return nil
}

func (n *NotificationService) handleInquiryStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.InquiryStatusChangedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	if n.crm == nil || payload.CRMPageID == nil || *payload.CRMPageID == "" {
		n.metrics.RecordNotification(ChannelCRM, observability.ResultSkipped)
		return nil
	}
	n.record(ChannelCRM, event, n.crm.UpdateStatus(ctx, *payload.CRMPageID, payload.Status))
	return nil
}

func (n *NotificationService) record(channel string, event events.Event, err error) {
	switch {
	case err == nil:
		n.metrics.RecordNotification(channel, observability.ResultSuccess)
	case apperrors.IsCode(err, apperrors.CodeConfigMissing):
		n.metrics.RecordNotification(channel, observability.ResultSkipped)
		n.logger.Warn("notification channel not configured",
			zap.String("channel", channel),
			zap.String("inquiry_id", event.InquiryID),
			zap.Error(err))
	default:
		n.metrics.RecordNotification(channel, observability.ResultFailure)
		n.logger.Warn("notification failed",
			zap.String("channel", channel),
			zap.String("event_type", string(event.Type)),
			zap.String("inquiry_id", event.InquiryID),
			zap.Error(err))
	}
}
