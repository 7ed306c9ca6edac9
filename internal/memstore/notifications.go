package memstore

import (
	"context"

	"github.com/protomem/medicall/internal/model"
)

type NotificationStore struct{ s *Store }

func notificationOwner(n model.Notification) func(model.Ownership) model.ID {
	return func(o model.Ownership) model.ID {
		if o == model.OwnerRecipient {
			return n.RecipientID
		}
		return 0
	}
}

func (ns *NotificationStore) Find(_ context.Context, filter model.NotificationFilter, opts model.FindOptions) ([]model.Notification, error) {
	ns.s.mu.RLock()
	defer ns.s.mu.RUnlock()

	items := make([]model.Notification, 0)
	for _, n := range ns.s.notifications {
		if !filter.Scope.Admits(notificationOwner(n)) {
			continue
		}
		if filter.IsRead != nil && n.IsRead != *filter.IsRead {
			continue
		}
		items = append(items, n)
	}

	sortBy(items, model.Ordering{Field: "createdAt", Desc: true},
		map[string]func(a, b model.Notification) int{
			"createdAt": func(a, b model.Notification) int { return a.CreatedAt.Compare(b.CreatedAt) },
		},
		func(a, b model.Notification) int { return compareIDs(b.ID, a.ID) },
	)

	return paginate(items, opts), nil
}

func (ns *NotificationStore) Get(_ context.Context, id model.ID, scope model.Scope) (model.Notification, error) {
	ns.s.mu.RLock()
	defer ns.s.mu.RUnlock()

	n, ok := ns.s.notifications[id]
	if !ok || !scope.Admits(notificationOwner(n)) {
		return model.Notification{}, model.NewError("notification", model.ErrNotFound)
	}
	return n, nil
}

func (ns *NotificationStore) Insert(_ context.Context, dto model.InsertNotificationDTO) (model.ID, error) {
	ns.s.mu.Lock()
	defer ns.s.mu.Unlock()

	if _, ok := ns.s.users[dto.RecipientID]; !ok {
		return 0, model.NewError("notification", model.ErrNotFound)
	}

	n := model.Notification{
		ID:                   ns.s.next("notifications"),
		CreatedAt:            ns.s.now(),
		RecipientID:          dto.RecipientID,
		SenderID:             dto.SenderID,
		Type:                 dto.Type,
		Title:                dto.Title,
		Message:              dto.Message,
		RelatedShiftID:       dto.RelatedShiftID,
		RelatedApplicationID: dto.RelatedApplicationID,
	}
	ns.s.notifications[n.ID] = n

	return n.ID, nil
}

func (ns *NotificationStore) MarkRead(_ context.Context, id model.ID) error {
	ns.s.mu.Lock()
	defer ns.s.mu.Unlock()

	n, ok := ns.s.notifications[id]
	if !ok {
		return model.NewError("notification", model.ErrNotFound)
	}
	n.IsRead = true
	ns.s.notifications[id] = n

	return nil
}

func (ns *NotificationStore) MarkAllRead(_ context.Context, recipient model.ID) (int, error) {
	ns.s.mu.Lock()
	defer ns.s.mu.Unlock()

	count := 0
	for id, n := range ns.s.notifications {
		if n.RecipientID == recipient && !n.IsRead {
			n.IsRead = true
			ns.s.notifications[id] = n
			count++
		}
	}

	return count, nil
}

func (ns *NotificationStore) CountUnread(_ context.Context, recipient model.ID) (int, error) {
	ns.s.mu.RLock()
	defer ns.s.mu.RUnlock()

	count := 0
	for _, n := range ns.s.notifications {
		if n.RecipientID == recipient && !n.IsRead {
			count++
		}
	}

	return count, nil
}

func (ns *NotificationStore) Delete(_ context.Context, id model.ID) error {
	ns.s.mu.Lock()
	defer ns.s.mu.Unlock()

	if _, ok := ns.s.notifications[id]; !ok {
		return model.NewError("notification", model.ErrNotFound)
	}
	delete(ns.s.notifications, id)

	return nil
}

type PreferenceStore struct{ s *Store }

func (ps *PreferenceStore) Get(_ context.Context, userID model.ID) (model.NotificationPreference, error) {
	ps.s.mu.RLock()
	defer ps.s.mu.RUnlock()

	if pref, ok := ps.s.preferences[userID]; ok {
		return pref, nil
	}
	return model.DefaultNotificationPreference(userID), nil
}

func (ps *PreferenceStore) Upsert(_ context.Context, pref model.NotificationPreference) error {
	ps.s.mu.Lock()
	defer ps.s.mu.Unlock()

	if _, ok := ps.s.users[pref.UserID]; !ok {
		return model.NewError("preference", model.ErrNotFound)
	}
	pref.UpdatedAt = ps.s.now()
	ps.s.preferences[pref.UserID] = pref

	return nil
}
