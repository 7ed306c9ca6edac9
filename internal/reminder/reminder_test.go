package reminder_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/protomem/medicall/internal/memstore"
	"github.com/protomem/medicall/internal/model"
	"github.com/protomem/medicall/internal/notify"
	"github.com/protomem/medicall/internal/reminder"
	"github.com/shopspring/decimal"
)

type setup struct {
	store     *memstore.Store
	inbox     *notify.Service
	scheduler *reminder.Scheduler
	worker    model.ID
}

func newSetup(t *testing.T, now time.Time, shiftDate string) setup {
	t.Helper()

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memstore.New().WithClock(func() time.Time { return now })
	inbox := notify.NewService(logger, store.Notifications(), store.Preferences(), nil)

	hospital, err := store.Users().Insert(ctx, model.InsertUserDTO{Username: "clinic", Email: "c@example.com", Role: model.RoleHospital})
	if err != nil {
		t.Fatal(err)
	}
	worker, err := store.Users().Insert(ctx, model.InsertUserDTO{Username: "nurse", Email: "n@example.com", Role: model.RoleWorker})
	if err != nil {
		t.Fatal(err)
	}

	date, err := model.ParseDate(shiftDate)
	if err != nil {
		t.Fatal(err)
	}
	shiftID, err := store.Shifts().Insert(ctx, model.InsertShiftDTO{
		HospitalID:    hospital,
		Department:    "ICU",
		Position:      "Nurse",
		Date:          date,
		StartTime:     "07:00",
		EndTime:       "15:00",
		DurationHours: decimal.NewFromInt(8),
		PayPerHour:    decimal.NewFromInt(40),
		Urgency:       model.UrgencyHigh,
		Requirements:  "RN",
		Location:      "Ward 1",
		MaxApplicants: 5,
	})
	if err != nil {
		t.Fatal(err)
	}

	appID, err := store.Applications().Insert(ctx, model.InsertApplicationDTO{ShiftID: shiftID, WorkerID: worker})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Applications().SetStatus(ctx, appID, model.ApplicationPending, model.ApplicationApproved); err != nil {
		t.Fatal(err)
	}

	sched := reminder.New(logger, store.Applications(), inbox, store.Tokens(), reminder.DefaultSpec, 24*time.Hour).
		WithClock(func() time.Time { return now })

	return setup{store: store, inbox: inbox, scheduler: sched, worker: worker}
}

func TestSendDue_OncePerShift(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC)
	s := newSetup(t, now, "2030-05-01")

	sent, err := s.scheduler.SendDue(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if sent != 1 {
		t.Fatalf("first run sent %d, want 1", sent)
	}

	sent, err = s.scheduler.SendDue(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if sent != 0 {
		t.Errorf("second run sent %d, want 0", sent)
	}

	inbox, err := s.inbox.ListMine(ctx, model.Caller{ID: s.worker, Role: model.RoleWorker}, nil, model.NewFindOptions(0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(inbox) != 1 || inbox[0].Type != model.NotificationShiftReminder {
		t.Errorf("inbox = %+v", inbox)
	}
}

func TestSendDue_OutsideLeadWindow(t *testing.T) {
	now := time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC)
	s := newSetup(t, now, "2030-05-03")

	sent, err := s.scheduler.SendDue(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sent != 0 {
		t.Errorf("sent %d, want 0", sent)
	}
}

func TestPurgeTokens(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC)
	s := newSetup(t, now, "2030-05-01")

	tokens := s.store.Tokens()
	if err := tokens.Revoke(ctx, "old", s.worker, now.Add(-time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := tokens.Revoke(ctx, "live", s.worker, now.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}

	n, err := s.scheduler.PurgeTokens(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("purged %d, want 1", n)
	}

	revoked, err := tokens.IsRevoked(ctx, "live")
	if err != nil || !revoked {
		t.Errorf("live token revoked = %v, %v", revoked, err)
	}
}

func TestStart_InvalidSpec(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memstore.New()
	sched := reminder.New(logger, store.Applications(), nil, nil, "not a spec", time.Hour)

	if err := sched.Start(context.Background()); err == nil {
		sched.Stop()
		t.Fatal("Start with invalid spec succeeded")
	}
}
