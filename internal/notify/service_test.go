package notify_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/protomem/medicall/internal/memstore"
	"github.com/protomem/medicall/internal/model"
	"github.com/protomem/medicall/internal/notify"
)

type recordingPublisher struct {
	events []notify.DispatchEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e notify.DispatchEvent) error {
	p.events = append(p.events, e)
	return p.err
}

type fixture struct {
	svc       *notify.Service
	store     *memstore.Store
	publisher *recordingPublisher
	alice     model.Caller
	bob       model.Caller
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctx := context.Background()
	store := memstore.New()

	var ids []model.ID
	for _, name := range []string{"alice", "bob"} {
		id, err := store.Users().Insert(ctx, model.InsertUserDTO{Username: name, Email: name + "@x.io", Role: model.RoleWorker})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
	}

	publisher := &recordingPublisher{}
	svc := notify.NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), store.Notifications(), store.Preferences(), publisher)

	return fixture{
		svc:       svc,
		store:     store,
		publisher: publisher,
		alice:     model.Caller{ID: ids[0], Role: model.RoleWorker},
		bob:       model.Caller{ID: ids[1], Role: model.RoleWorker},
	}
}

func (f fixture) deliver(t *testing.T, to model.Caller, typ model.NotificationType) model.Notification {
	t.Helper()

	n, err := f.svc.Deliver(context.Background(), model.InsertNotificationDTO{
		RecipientID: to.ID,
		Type:        typ,
		Title:       "title",
		Message:     "message",
	})
	if err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	return n
}

func TestMarkRead(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	n := f.deliver(t, f.alice, model.NotificationSystem)

	for i := 0; i < 2; i++ {
		got, err := f.svc.MarkRead(ctx, f.alice, n.ID)
		if err != nil {
			t.Fatalf("MarkRead #%d: %v", i+1, err)
		}
		if !got.IsRead {
			t.Errorf("MarkRead #%d: isRead = false", i+1)
		}
	}

	if _, err := f.svc.MarkRead(ctx, f.bob, n.ID); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("foreign MarkRead: err = %v, want ErrNotFound", err)
	}
}

func TestListMine_NewestFirstAndScoped(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first := f.deliver(t, f.alice, model.NotificationSystem)
	second := f.deliver(t, f.alice, model.NotificationShiftPosted)
	f.deliver(t, f.bob, model.NotificationSystem)

	got, err := f.svc.ListMine(ctx, f.alice, nil, model.NewFindOptions(0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != second.ID || got[1].ID != first.ID {
		t.Errorf("ListMine = %+v", got)
	}

	count, err := f.svc.UnreadCount(ctx, f.alice)
	if err != nil || count != 2 {
		t.Errorf("UnreadCount = %d, %v", count, err)
	}

	changed, err := f.svc.MarkAllRead(ctx, f.alice)
	if err != nil || changed != 2 {
		t.Errorf("MarkAllRead = %d, %v", changed, err)
	}

	unread := false
	got, err = f.svc.ListMine(ctx, f.alice, &unread, model.NewFindOptions(0, 0))
	if err != nil || len(got) != 0 {
		t.Errorf("unread after MarkAllRead = %+v, %v", got, err)
	}

	if err := f.svc.Delete(ctx, f.alice, first.ID); err != nil {
		t.Errorf("Delete own: %v", err)
	}
	if err := f.svc.Delete(ctx, f.bob, second.ID); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("Delete foreign: err = %v", err)
	}
}

func TestDispatch_GatedByPreferences(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.deliver(t, f.alice, model.NotificationApplicationApproved)
	if len(f.publisher.events) != 1 {
		t.Fatalf("events = %d, want 1", len(f.publisher.events))
	}
	if got := f.publisher.events[0].Channels; len(got) != 2 || got[0] != "email" || got[1] != "push" {
		t.Errorf("channels = %v", got)
	}

	off := false
	if _, err := f.svc.UpdatePreferences(ctx, f.alice, notify.PreferencesPatch{ApplicationNotifications: &off}); err != nil {
		t.Fatal(err)
	}

	n := f.deliver(t, f.alice, model.NotificationApplicationRejected)
	if len(f.publisher.events) != 1 {
		t.Errorf("category disabled: events = %d, want 1", len(f.publisher.events))
	}
	if _, err := f.svc.Get(ctx, f.alice, n.ID); err != nil {
		t.Errorf("in-app write must not be gated: %v", err)
	}

	f.deliver(t, f.alice, model.NotificationSystem)
	if len(f.publisher.events) != 2 {
		t.Errorf("system category: events = %d, want 2", len(f.publisher.events))
	}
}

func TestDeliver_PublishFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("redis down")

	n := f.deliver(t, f.bob, model.NotificationSystem)
	if n.ID == 0 {
		t.Error("expected stored notification")
	}
}

func TestPreferences_DefaultsAndPatch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	pref, err := f.svc.Preferences(ctx, f.bob)
	if err != nil {
		t.Fatal(err)
	}
	if !pref.EmailNotifications || !pref.PushNotifications || pref.SMSNotifications {
		t.Errorf("defaults = %+v", pref)
	}

	on := true
	pref, err = f.svc.UpdatePreferences(ctx, f.bob, notify.PreferencesPatch{SMSNotifications: &on})
	if err != nil {
		t.Fatal(err)
	}
	if !pref.SMSNotifications || !pref.EmailNotifications {
		t.Errorf("patched = %+v", pref)
	}
}
