package memstore_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/protomem/medicall/internal/memstore"
	"github.com/protomem/medicall/internal/model"
	"github.com/shopspring/decimal"
)

func seed(t *testing.T, s *memstore.Store) (hospital, worker, shift model.ID) {
	t.Helper()
	ctx := context.Background()

	var err error
	for _, u := range []struct {
		id   *model.ID
		name string
		role model.Role
	}{
		{&hospital, "general", model.RoleHospital},
		{&worker, "nurse", model.RoleWorker},
	} {
		*u.id, err = s.Users().Insert(ctx, model.InsertUserDTO{Username: u.name, Email: u.name + "@example.com", Role: u.role})
		if err != nil {
			t.Fatalf("insert user: %v", err)
		}
	}

	shift, err = s.Shifts().Insert(ctx, model.InsertShiftDTO{
		HospitalID:    hospital,
		Department:    "ICU",
		Position:      "RN",
		Date:          model.NewDate(time.Now()),
		StartTime:     "07:00",
		EndTime:       "19:00",
		DurationHours: decimal.NewFromInt(12),
		PayPerHour:    decimal.NewFromInt(40),
		Urgency:       model.UrgencyLow,
		Requirements:  "BLS",
		Location:      "Ward 1",
		MaxApplicants: 1,
	})
	if err != nil {
		t.Fatalf("insert shift: %v", err)
	}

	return hospital, worker, shift
}

func TestConcurrentApplyKeepsOneApplication(t *testing.T) {
	s := memstore.New()
	_, worker, shift := seed(t, s)

	const attempts = 32

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		exists  int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Applications().Insert(context.Background(), model.InsertApplicationDTO{ShiftID: shift, WorkerID: worker})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, model.ErrExists):
				exists++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if created != 1 || exists != attempts-1 {
		t.Errorf("created = %d, exists = %d", created, exists)
	}
}

func TestConcurrentApprovalFillsOnce(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	_, worker, shift := seed(t, s)

	id, err := s.Applications().Insert(ctx, model.InsertApplicationDTO{ShiftID: shift, WorkerID: worker})
	if err != nil {
		t.Fatalf("insert application: %v", err)
	}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		moved int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.Applications().SetStatus(ctx, id, model.ApplicationPending, model.ApplicationApproved)
			if err != nil {
				t.Errorf("SetStatus: %v", err)
				return
			}
			if _, err := s.Shifts().FillIfApproved(ctx, shift); err != nil {
				t.Errorf("FillIfApproved: %v", err)
			}
			if ok {
				mu.Lock()
				moved++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if moved != 1 {
		t.Errorf("transitions applied = %d, want 1", moved)
	}

	got, err := s.Shifts().Get(ctx, shift, model.Unscoped())
	if err != nil {
		t.Fatalf("get shift: %v", err)
	}
	if got.Status != model.ShiftFilled || got.ApplicantCount != 1 {
		t.Errorf("shift = %s with %d applicants", got.Status, got.ApplicantCount)
	}
}

func TestDeleteShiftCascades(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	hospital, worker, shift := seed(t, s)

	appID, err := s.Applications().Insert(ctx, model.InsertApplicationDTO{ShiftID: shift, WorkerID: worker})
	if err != nil {
		t.Fatalf("insert application: %v", err)
	}
	if _, err := s.Reviews().Insert(ctx, model.InsertReviewDTO{
		ShiftID: shift, ReviewerID: hospital, ReviewedUserID: worker, Rating: 4, Comment: "ok",
	}); err != nil {
		t.Fatalf("insert review: %v", err)
	}

	if err := s.Shifts().Delete(ctx, shift); err != nil {
		t.Fatalf("delete shift: %v", err)
	}

	if _, err := s.Applications().Get(ctx, appID, model.Unscoped()); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("application after cascade: err = %v", err)
	}
	reviews, err := s.Reviews().Find(ctx, model.ReviewFilter{Scope: model.OwnedBy(model.OwnerReviewer, hospital)}, model.NewFindOptions(0, 0))
	if err != nil || len(reviews) != 0 {
		t.Errorf("reviews after cascade = %d, %v", len(reviews), err)
	}
	if err := s.Shifts().Delete(ctx, shift); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("second delete: err = %v", err)
	}
}

func TestApplicantCountFollowsApplications(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	_, worker, shift := seed(t, s)

	other, err := s.Users().Insert(ctx, model.InsertUserDTO{Username: "medic", Email: "medic@example.com", Role: model.RoleWorker})
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}

	var ids []model.ID
	for _, w := range []model.ID{worker, other} {
		id, err := s.Applications().Insert(ctx, model.InsertApplicationDTO{ShiftID: shift, WorkerID: w})
		if err != nil {
			t.Fatalf("insert application: %v", err)
		}
		ids = append(ids, id)
	}

	count := func() int {
		t.Helper()
		got, err := s.Shifts().Get(ctx, shift, model.Unscoped())
		if err != nil {
			t.Fatalf("get shift: %v", err)
		}
		return got.ApplicantCount
	}

	if got := count(); got != 2 {
		t.Errorf("after apply: applicants = %d, want 2", got)
	}

	if ok, err := s.Applications().SetStatus(ctx, ids[0], model.ApplicationPending, model.ApplicationWithdrawn); err != nil || !ok {
		t.Fatalf("withdraw = %v, %v", ok, err)
	}
	if got := count(); got != 2 {
		t.Errorf("after withdraw: applicants = %d, want 2", got)
	}

	if err := s.Applications().Delete(ctx, ids[0]); err != nil {
		t.Fatalf("delete application: %v", err)
	}
	if got := count(); got != 1 {
		t.Errorf("after delete: applicants = %d, want 1", got)
	}

	if err := s.Applications().Delete(ctx, ids[1]); err != nil {
		t.Fatalf("delete application: %v", err)
	}
	if got := count(); got != 0 {
		t.Errorf("after deleting all: applicants = %d, want 0", got)
	}
}
