package database_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/protomem/medicall/internal/database"
	"github.com/protomem/medicall/internal/model"
	"github.com/shopspring/decimal"
)

// openTestDB connects to TEST_DB_DSN (same format as DB_DSN) and applies
// migrations. Tests are skipped when it is unset.
func openTestDB(t *testing.T) (*database.DB, *slog.Logger) {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := database.New(logger, dsn, true)
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db, logger
}

func insertUser(t *testing.T, users *database.UserDAO, role model.Role) model.ID {
	t.Helper()

	name := role.String() + "-" + uuid.NewString()[:8]
	id, err := users.Insert(context.Background(), model.InsertUserDTO{
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
	})
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return id
}

func TestWorkflowAgainstPostgres(t *testing.T) {
	ctx := context.Background()
	db, logger := openTestDB(t)

	users := database.NewUserDAO(logger, db)
	shifts := database.NewShiftDAO(logger, db)
	applications := database.NewApplicationDAO(logger, db)
	reviews := database.NewReviewDAO(logger, db)

	hospital := insertUser(t, users, model.RoleHospital)
	worker := insertUser(t, users, model.RoleWorker)

	hospitalUser, err := users.Get(ctx, hospital)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	_, err = users.Insert(ctx, model.InsertUserDTO{
		Username: hospitalUser.Username, Email: "other-" + hospitalUser.Email, PasswordHash: "x", Role: model.RoleWorker,
	})
	if !errors.Is(err, model.ErrExists) {
		t.Errorf("duplicate username: err = %v, want ErrExists", err)
	}

	date := model.NewDate(time.Now().AddDate(0, 0, 2))
	shiftID, err := shifts.Insert(ctx, model.InsertShiftDTO{
		HospitalID:    hospital,
		Department:    "ICU",
		Position:      "RN",
		Date:          date,
		StartTime:     "07:00",
		EndTime:       "19:00",
		DurationHours: decimal.RequireFromString("7.5"),
		PayPerHour:    decimal.RequireFromString("33.33"),
		Urgency:       model.UrgencyHigh,
		Requirements:  "BLS",
		Location:      "Ward 3",
		MaxApplicants: 10,
	})
	if err != nil {
		t.Fatalf("insert shift: %v", err)
	}

	shift, err := shifts.Get(ctx, shiftID, model.OwnedBy(model.OwnerHospital, hospital))
	if err != nil {
		t.Fatalf("get shift: %v", err)
	}
	if shift.Status != model.ShiftActive || shift.StartTime != "07:00" {
		t.Errorf("shift = %+v", shift)
	}
	if want := decimal.RequireFromString("249.975"); !shift.TotalPay.Equal(want) {
		t.Errorf("totalPay = %s, want %s", shift.TotalPay, want)
	}
	if _, err := shifts.Get(ctx, shiftID, model.OwnedBy(model.OwnerHospital, worker)); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("foreign scope: err = %v, want ErrNotFound", err)
	}

	appID, err := applications.Insert(ctx, model.InsertApplicationDTO{ShiftID: shiftID, WorkerID: worker})
	if err != nil {
		t.Fatalf("insert application: %v", err)
	}
	if _, err := applications.Insert(ctx, model.InsertApplicationDTO{ShiftID: shiftID, WorkerID: worker}); !errors.Is(err, model.ErrExists) {
		t.Errorf("duplicate application: err = %v, want ErrExists", err)
	}

	filled, err := shifts.FillIfApproved(ctx, shiftID)
	if err != nil || filled {
		t.Fatalf("fill before approval = %v, %v", filled, err)
	}

	ok, err := applications.SetStatus(ctx, appID, model.ApplicationPending, model.ApplicationApproved)
	if err != nil || !ok {
		t.Fatalf("approve = %v, %v", ok, err)
	}
	if ok, _ := applications.SetStatus(ctx, appID, model.ApplicationPending, model.ApplicationRejected); ok {
		t.Error("stale transition applied")
	}

	for i := 0; i < 2; i++ {
		if _, err := shifts.FillIfApproved(ctx, shiftID); err != nil {
			t.Fatalf("fill: %v", err)
		}
	}
	shift, _ = shifts.Get(ctx, shiftID, model.Unscoped())
	if shift.Status != model.ShiftFilled || shift.ApplicantCount != 1 {
		t.Errorf("after fill: status=%s applicants=%d", shift.Status, shift.ApplicantCount)
	}

	other := insertUser(t, users, model.RoleWorker)
	otherID, err := applications.Insert(ctx, model.InsertApplicationDTO{ShiftID: shiftID, WorkerID: other})
	if err != nil {
		t.Fatalf("insert second application: %v", err)
	}
	applicants := func() int {
		t.Helper()
		got, err := shifts.Get(ctx, shiftID, model.Unscoped())
		if err != nil {
			t.Fatalf("get shift: %v", err)
		}
		return got.ApplicantCount
	}
	if got := applicants(); got != 2 {
		t.Errorf("after second apply: applicants = %d, want 2", got)
	}
	if ok, err := applications.SetStatus(ctx, otherID, model.ApplicationPending, model.ApplicationWithdrawn); err != nil || !ok {
		t.Fatalf("withdraw = %v, %v", ok, err)
	}
	if got := applicants(); got != 2 {
		t.Errorf("after withdraw: applicants = %d, want 2", got)
	}
	if err := applications.Delete(ctx, otherID); err != nil {
		t.Fatalf("delete application: %v", err)
	}
	if got := applicants(); got != 1 {
		t.Errorf("after delete: applicants = %d, want 1", got)
	}

	review := model.InsertReviewDTO{ShiftID: shiftID, ReviewerID: hospital, ReviewedUserID: worker, Rating: 5, Comment: "Great"}
	if _, err := reviews.Insert(ctx, review); err != nil {
		t.Fatalf("insert review: %v", err)
	}
	if _, err := reviews.Insert(ctx, review); !errors.Is(err, model.ErrExists) {
		t.Errorf("duplicate review: err = %v, want ErrExists", err)
	}
}

func TestTokenBlacklist(t *testing.T) {
	ctx := context.Background()
	db, logger := openTestDB(t)

	users := database.NewUserDAO(logger, db)
	tokens := database.NewTokenDAO(logger, db)
	user := insertUser(t, users, model.RoleWorker)

	jti := uuid.NewString()
	if err := tokens.Revoke(ctx, jti, user, time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if err := tokens.Revoke(ctx, jti, user, time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("revoke twice: %v", err)
	}

	revoked, err := tokens.IsRevoked(ctx, jti)
	if err != nil || !revoked {
		t.Fatalf("IsRevoked = %v, %v", revoked, err)
	}

	if _, err := tokens.PurgeExpired(ctx, time.Now()); err != nil {
		t.Fatalf("purge: %v", err)
	}
	if revoked, _ := tokens.IsRevoked(ctx, jti); revoked {
		t.Error("expired token survived purge")
	}
}

func TestDueRemindersIgnoreSessionTimeZone(t *testing.T) {
	ctx := context.Background()
	db, logger := openTestDB(t)

	// One connection so the session time zone applies to every query below.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, "SET TIME ZONE 'Pacific/Kiritimati'"); err != nil {
		t.Fatalf("set time zone: %v", err)
	}

	users := database.NewUserDAO(logger, db)
	shifts := database.NewShiftDAO(logger, db)
	applications := database.NewApplicationDAO(logger, db)

	hospital := insertUser(t, users, model.RoleHospital)
	worker := insertUser(t, users, model.RoleWorker)

	start := time.Date(2031, time.March, 10, 9, 0, 0, 0, time.UTC)
	shiftID, err := shifts.Insert(ctx, model.InsertShiftDTO{
		HospitalID:    hospital,
		Department:    "ER",
		Position:      "RN",
		Date:          model.NewDate(start),
		StartTime:     "09:00",
		EndTime:       "17:00",
		DurationHours: decimal.NewFromInt(8),
		PayPerHour:    decimal.NewFromInt(40),
		Urgency:       model.UrgencyLow,
		Requirements:  "BLS",
		Location:      "Ward 2",
		MaxApplicants: 1,
	})
	if err != nil {
		t.Fatalf("insert shift: %v", err)
	}
	appID, err := applications.Insert(ctx, model.InsertApplicationDTO{ShiftID: shiftID, WorkerID: worker})
	if err != nil {
		t.Fatalf("insert application: %v", err)
	}
	if ok, err := applications.SetStatus(ctx, appID, model.ApplicationPending, model.ApplicationApproved); err != nil || !ok {
		t.Fatalf("approve = %v, %v", ok, err)
	}

	contains := func(due []model.DueReminder) bool {
		for _, d := range due {
			if d.ApplicationID == appID {
				return true
			}
		}
		return false
	}

	due, err := applications.FindDueReminders(ctx, start.Add(-time.Hour), start.Add(time.Hour))
	if err != nil {
		t.Fatalf("FindDueReminders: %v", err)
	}
	if !contains(due) {
		t.Error("shift starting inside the window was not due")
	}

	due, err = applications.FindDueReminders(ctx, start.Add(time.Hour), start.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("FindDueReminders: %v", err)
	}
	if contains(due) {
		t.Error("shift starting before the window was due")
	}
}
