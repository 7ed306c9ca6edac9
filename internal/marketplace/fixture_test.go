package marketplace_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/protomem/medicall/internal/marketplace"
	"github.com/protomem/medicall/internal/memstore"
	"github.com/protomem/medicall/internal/model"
	"github.com/protomem/medicall/internal/notify"
	"github.com/shopspring/decimal"
)

type fixture struct {
	store    *memstore.Store
	catalog  *marketplace.Catalog
	workflow *marketplace.Workflow
	ledger   *marketplace.Ledger
	inbox    *notify.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memstore.New()
	inbox := notify.NewService(logger, store.Notifications(), store.Preferences(), nil)

	return &fixture{
		store:    store,
		catalog:  marketplace.NewCatalog(logger, store.Shifts()),
		workflow: marketplace.NewWorkflow(logger, store.Shifts(), store.Applications(), inbox),
		ledger:   marketplace.NewLedger(logger, store.Reviews()),
		inbox:    inbox,
	}
}

func (f *fixture) user(t *testing.T, name string, role model.Role) model.Caller {
	t.Helper()

	id, err := f.store.Users().Insert(context.Background(), model.InsertUserDTO{
		Username: name,
		Email:    name + "@example.com",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("insert user %s: %v", name, err)
	}
	return model.Caller{ID: id, Role: role}
}

func shiftDTO() model.InsertShiftDTO {
	date, _ := model.ParseDate("2030-05-01")
	return model.InsertShiftDTO{
		Department:    "Emergency",
		Position:      "Registered Nurse",
		Date:          date,
		StartTime:     "07:00",
		EndTime:       "19:00",
		DurationHours: decimal.RequireFromString("12"),
		PayPerHour:    decimal.RequireFromString("55.25"),
		Requirements:  "RN license",
		Location:      "Ward 3",
	}
}

func (f *fixture) shift(t *testing.T, hospital model.Caller) model.Shift {
	t.Helper()

	sh, err := f.catalog.Create(context.Background(), hospital, shiftDTO())
	if err != nil {
		t.Fatalf("create shift: %v", err)
	}
	return sh
}

func (f *fixture) apply(t *testing.T, worker model.Caller, shift model.Shift) model.Application {
	t.Helper()

	app, err := f.workflow.Apply(context.Background(), worker, marketplace.ApplyInput{ShiftID: shift.ID})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	return app
}

func (f *fixture) shiftStatus(t *testing.T, id model.ID) model.ShiftStatus {
	t.Helper()

	sh, err := f.catalog.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get shift: %v", err)
	}
	return sh.Status
}

func all() model.FindOptions { return model.NewFindOptions(model.MaxLimit, 0) }
