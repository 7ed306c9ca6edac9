// Package notify is the per-user notification inbox. Every delivery is
// written to the store; external dispatch is announced on a publisher and
// gated by the recipient's preferences.
package notify

import (
	"context"
	"log/slog"

	"github.com/protomem/medicall/internal/model"
)

type Store interface {
	Find(ctx context.Context, filter model.NotificationFilter, opts model.FindOptions) ([]model.Notification, error)
	Get(ctx context.Context, id model.ID, scope model.Scope) (model.Notification, error)
	Insert(ctx context.Context, dto model.InsertNotificationDTO) (model.ID, error)
	MarkRead(ctx context.Context, id model.ID) error
	MarkAllRead(ctx context.Context, recipient model.ID) (int, error)
	CountUnread(ctx context.Context, recipient model.ID) (int, error)
	Delete(ctx context.Context, id model.ID) error
}

type PreferenceStore interface {
	Get(ctx context.Context, userID model.ID) (model.NotificationPreference, error)
	Upsert(ctx context.Context, pref model.NotificationPreference) error
}

type Service struct {
	logger    *slog.Logger
	store     Store
	prefs     PreferenceStore
	publisher Publisher
}

func NewService(logger *slog.Logger, store Store, prefs PreferenceStore, publisher Publisher) *Service {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Service{
		logger:    logger.With("service", "notify"),
		store:     store,
		prefs:     prefs,
		publisher: publisher,
	}
}

func recipientScope(caller model.Caller) model.Scope {
	return model.OwnedBy(model.OwnerRecipient, caller.ID)
}

// Deliver appends a notification to the recipient's inbox. A failed
// dispatch announcement is logged and does not fail the delivery.
func (s *Service) Deliver(ctx context.Context, dto model.InsertNotificationDTO) (model.Notification, error) {
	id, err := s.store.Insert(ctx, dto)
	if err != nil {
		return model.Notification{}, err
	}

	n, err := s.store.Get(ctx, id, model.Unscoped())
	if err != nil {
		return model.Notification{}, err
	}

	s.dispatch(ctx, n)

	return n, nil
}

func (s *Service) dispatch(ctx context.Context, n model.Notification) {
	logger := s.logger.With("notificationId", n.ID, "recipientId", n.RecipientID)

	pref, err := s.prefs.Get(ctx, n.RecipientID)
	if err != nil {
		logger.Warn("failed to load preferences", "error", err)
		return
	}

	channels := pref.Channels()
	if !pref.Allows(n.Type.Category()) || len(channels) == 0 {
		logger.Debug("dispatch skipped by preferences", "type", n.Type)
		return
	}

	event := DispatchEvent{
		NotificationID: n.ID,
		RecipientID:    n.RecipientID,
		Type:           n.Type,
		Title:          n.Title,
		Channels:       channels,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Warn("failed to publish dispatch", "error", err)
	}
}

func (s *Service) ListMine(ctx context.Context, caller model.Caller, isRead *bool, opts model.FindOptions) ([]model.Notification, error) {
	return s.store.Find(ctx, model.NotificationFilter{Scope: recipientScope(caller), IsRead: isRead}, opts)
}

func (s *Service) Get(ctx context.Context, caller model.Caller, id model.ID) (model.Notification, error) {
	return s.store.Get(ctx, id, recipientScope(caller))
}

// MarkRead is idempotent; another recipient's notification is not found.
func (s *Service) MarkRead(ctx context.Context, caller model.Caller, id model.ID) (model.Notification, error) {
	n, err := s.store.Get(ctx, id, recipientScope(caller))
	if err != nil {
		return model.Notification{}, err
	}

	if !n.IsRead {
		if err := s.store.MarkRead(ctx, id); err != nil {
			return model.Notification{}, err
		}
		n.IsRead = true
	}

	return n, nil
}

func (s *Service) MarkAllRead(ctx context.Context, caller model.Caller) (int, error) {
	return s.store.MarkAllRead(ctx, caller.ID)
}

func (s *Service) UnreadCount(ctx context.Context, caller model.Caller) (int, error) {
	return s.store.CountUnread(ctx, caller.ID)
}

func (s *Service) Delete(ctx context.Context, caller model.Caller, id model.ID) error {
	if _, err := s.store.Get(ctx, id, recipientScope(caller)); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

func (s *Service) Preferences(ctx context.Context, caller model.Caller) (model.NotificationPreference, error) {
	return s.prefs.Get(ctx, caller.ID)
}

// PreferencesPatch holds the toggles to change; nil leaves a toggle as is.
type PreferencesPatch struct {
	EmailNotifications       *bool
	PushNotifications        *bool
	SMSNotifications         *bool
	ShiftNotifications       *bool
	ApplicationNotifications *bool
	PaymentNotifications     *bool
	SystemNotifications      *bool
}

func (s *Service) UpdatePreferences(ctx context.Context, caller model.Caller, patch PreferencesPatch) (model.NotificationPreference, error) {
	pref, err := s.prefs.Get(ctx, caller.ID)
	if err != nil {
		return model.NotificationPreference{}, err
	}

	for dst, src := range map[*bool]*bool{
		&pref.EmailNotifications:       patch.EmailNotifications,
		&pref.PushNotifications:        patch.PushNotifications,
		&pref.SMSNotifications:         patch.SMSNotifications,
		&pref.ShiftNotifications:       patch.ShiftNotifications,
		&pref.ApplicationNotifications: patch.ApplicationNotifications,
		&pref.PaymentNotifications:     patch.PaymentNotifications,
		&pref.SystemNotifications:      patch.SystemNotifications,
	} {
		if src != nil {
			*dst = *src
		}
	}

	if err := s.prefs.Upsert(ctx, pref); err != nil {
		return model.NotificationPreference{}, err
	}

	return s.prefs.Get(ctx, caller.ID)
}
