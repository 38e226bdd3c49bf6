package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"medvault-be/internal/pkg/logger"
	"medvault-be/internal/websocket"
	"medvault-be/pkg/events"
	pktNats "medvault-be/pkg/nats"

	"github.com/google/uuid"
)

// NotificationDelivery pushes real-time updates to connected clients.
// Implemented by the websocket hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification websocket.Notification)
}

type INotificationService interface {
	Start()
	NotifyDocumentParsed(userId, documentId uuid.UUID, status string)
}

type notificationService struct {
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) INotificationService {
	return &notificationService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening on the event bus. Without a bus, notifications are
// still delivered through direct NotifyDocumentParsed calls.
func (s *notificationService) Start() {
	if s.subscriber == nil {
		return
	}
	err := s.subscriber.Subscribe("events.DOCUMENT_PARSED", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.DOCUMENT_PARSED", nil)
}

func (s *notificationService) handleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	userIdRaw, _ := payload["user_id"].(string)
	userId, err := uuid.Parse(userIdRaw)
	if err != nil {
		s.logger.Warn("NotificationService", "Event without a valid user_id", map[string]interface{}{"type": event.EventType()})
		return nil
	}

	documentIdRaw, _ := payload["document_id"].(string)
	documentId, _ := uuid.Parse(documentIdRaw)
	status, _ := payload["status"].(string)

	typeCode := strings.TrimPrefix(event.EventType(), "events.")
	s.logger.Info("NotificationService", fmt.Sprintf("Processing event: %s", typeCode), map[string]interface{}{"user_id": userId})

	s.NotifyDocumentParsed(userId, documentId, status)
	return nil
}

func (s *notificationService) NotifyDocumentParsed(userId, documentId uuid.UUID, status string) {
	if s.delivery == nil {
		return
	}
	message := "Your document has been processed."
	if status == "failed" {
		message = "We could not read your document automatically."
	}
	s.delivery.Send(userId, websocket.Notification{
		Type:       "document_parsed",
		DocumentId: documentId,
		Status:     status,
		Message:    message,
		CreatedAt:  time.Now(),
	})
}
