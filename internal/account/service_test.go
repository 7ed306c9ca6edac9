package account_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/protomem/medicall/internal/account"
	"github.com/protomem/medicall/internal/auth"
	"github.com/protomem/medicall/internal/memstore"
	"github.com/protomem/medicall/internal/model"
	"github.com/shopspring/decimal"
)

type fakePictures struct {
	keys []string
}

func (f *fakePictures) Put(_ context.Context, key, _ string, _ []byte) (string, error) {
	f.keys = append(f.keys, key)
	return "/media/" + key, nil
}

func newService(t *testing.T) (*account.Service, *memstore.Store, *fakePictures) {
	t.Helper()

	store := memstore.New()
	pictures := &fakePictures{}
	svc := account.NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), account.Deps{
		Users:     store.Users(),
		Workers:   store.WorkerProfiles(),
		Hospitals: store.HospitalProfiles(),
		Tokens:    store.Tokens(),
		Pictures:  pictures,
		Issuer:    auth.NewIssuer("test-secret", time.Minute, time.Hour),
	})

	return svc, store, pictures
}

func register(t *testing.T, svc *account.Service, username, role string) account.Session {
	t.Helper()

	sess, err := svc.Register(context.Background(), account.RegisterInput{
		Username:        username,
		Email:           username + "@example.com",
		Password:        "pa55word",
		PasswordConfirm: "pa55word",
		Role:            role,
	})
	if err != nil {
		t.Fatalf("Register(%s): %v", username, err)
	}
	return sess
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	sess := register(t, svc, "nurse", "worker")
	if sess.Access == "" || sess.Refresh == "" {
		t.Fatal("expected credential pair")
	}
	if sess.User.Role != model.RoleWorker || sess.User.Country == nil || *sess.User.Country != "US" {
		t.Errorf("user = %+v", sess.User)
	}

	tests := []struct {
		name string
		in   account.RegisterInput
		want func(error) bool
	}{
		{
			name: "password mismatch",
			in:   account.RegisterInput{Username: "a", Email: "a@x.io", Password: "one", PasswordConfirm: "two"},
			want: model.IsValidation,
		},
		{
			name: "admin self-registration",
			in:   account.RegisterInput{Username: "b", Email: "b@x.io", Password: "p", PasswordConfirm: "p", Role: "admin"},
			want: model.IsValidation,
		},
		{
			name: "unknown role",
			in:   account.RegisterInput{Username: "c", Email: "c@x.io", Password: "p", PasswordConfirm: "p", Role: "doctor"},
			want: model.IsValidation,
		},
		{
			name: "duplicate username",
			in:   account.RegisterInput{Username: "nurse", Email: "other@x.io", Password: "p", PasswordConfirm: "p"},
			want: func(err error) bool { return errors.Is(err, model.ErrExists) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.in)
			if !tt.want(err) {
				t.Errorf("Register() err = %v", err)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t)

	sess := register(t, svc, "clinic", "hospital")

	if _, err := svc.Login(ctx, "clinic", "pa55word"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := svc.Login(ctx, "clinic", "wrong"); !errors.Is(err, model.ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v", err)
	}
	if _, err := svc.Login(ctx, "ghost", "pa55word"); !errors.Is(err, model.ErrInvalidCredentials) {
		t.Errorf("unknown user: err = %v", err)
	}

	if err := store.Users().SetActive(ctx, sess.User.ID, false); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Login(ctx, "clinic", "pa55word"); !errors.Is(err, model.ErrInactive) {
		t.Errorf("inactive: err = %v", err)
	}
	if _, err := svc.Authenticate(ctx, sess.Access); !errors.Is(err, model.ErrInvalidToken) {
		t.Errorf("inactive authenticate: err = %v", err)
	}
}

func TestRefreshAndLogout(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	sess := register(t, svc, "nurse", "worker")

	access, err := svc.Refresh(ctx, sess.Refresh)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	caller, err := svc.Authenticate(ctx, access)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if caller.ID != sess.User.ID || caller.Role != model.RoleWorker {
		t.Errorf("caller = %+v", caller)
	}

	if err := svc.Logout(ctx, sess.Refresh); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.Refresh(ctx, sess.Refresh); !errors.Is(err, model.ErrInvalidToken) {
		t.Errorf("refresh after logout: err = %v", err)
	}
	if err := svc.Logout(ctx, sess.Refresh); !errors.Is(err, model.ErrInvalidToken) {
		t.Errorf("second logout: err = %v", err)
	}

	if err := svc.Logout(ctx, "garbage"); !errors.Is(err, model.ErrInvalidToken) {
		t.Errorf("logout garbage: err = %v", err)
	}
	if err := svc.Logout(ctx, sess.Access); !errors.Is(err, model.ErrInvalidToken) {
		t.Errorf("logout with access token: err = %v", err)
	}
}

func TestWorkerProfile(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	worker := register(t, svc, "nurse", "worker")
	hospital := register(t, svc, "clinic", "hospital")
	wc := model.Caller{ID: worker.User.ID, Role: model.RoleWorker}
	hc := model.Caller{ID: hospital.User.ID, Role: model.RoleHospital}

	if _, err := svc.WorkerProfile(ctx, wc); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("absent profile: err = %v", err)
	}

	dto := model.InsertWorkerProfileDTO{
		LicenseNumber: "RN-1",
		Specialties:   []string{"icu"},
		Availability:  model.Availability{"monday": {{Start: "08:00", End: "16:00"}}},
		HourlyRate:    decimal.NewNullDecimal(decimal.RequireFromString("45.50")),
	}

	if _, err := svc.CreateWorkerProfile(ctx, hc, dto); !errors.Is(err, model.ErrForbidden) {
		t.Errorf("hospital creating worker profile: err = %v", err)
	}

	profile, err := svc.CreateWorkerProfile(ctx, wc, dto)
	if err != nil {
		t.Fatalf("CreateWorkerProfile: %v", err)
	}
	if profile.Username != "nurse" || !profile.IsAvailable || profile.Country != "US" {
		t.Errorf("profile = %+v", profile)
	}

	if _, err := svc.CreateWorkerProfile(ctx, wc, dto); !errors.Is(err, model.ErrExists) {
		t.Errorf("second profile: err = %v", err)
	}

	years := -1
	if _, err := svc.UpdateWorkerProfile(ctx, wc, model.UpdateWorkerProfileDTO{ExperienceYears: &years}); !model.IsValidation(err) {
		t.Errorf("negative years: err = %v", err)
	}

	years = 4
	updated, err := svc.UpdateWorkerProfile(ctx, wc, model.UpdateWorkerProfileDTO{ExperienceYears: &years})
	if err != nil {
		t.Fatalf("UpdateWorkerProfile: %v", err)
	}
	if updated.ExperienceYears != 4 || !updated.Rating.IsZero() || updated.TotalReviews != 0 {
		t.Errorf("updated = %+v", updated)
	}
}

func TestListHospitals_VerifiedOnly(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t)

	for _, name := range []string{"north", "south"} {
		sess := register(t, svc, name, "hospital")
		caller := model.Caller{ID: sess.User.ID, Role: model.RoleHospital}
		if _, err := svc.CreateHospitalProfile(ctx, caller, model.InsertHospitalProfileDTO{
			HospitalName:  name + " general",
			LicenseNumber: "H-" + name,
			Departments:   []string{"er"},
		}); err != nil {
			t.Fatal(err)
		}
		if name == "north" {
			if err := store.HospitalProfiles().Verify(ctx, sess.User.ID); err != nil {
				t.Fatal(err)
			}
		}
	}

	got, err := svc.ListHospitals(ctx, model.HospitalFilter{}, model.NewFindOptions(0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].HospitalName != "north general" {
		t.Errorf("ListHospitals = %+v", got)
	}
}

func TestSetPicture(t *testing.T) {
	ctx := context.Background()
	svc, _, pictures := newService(t)

	sess := register(t, svc, "nurse", "worker")
	caller := model.Caller{ID: sess.User.ID, Role: model.RoleWorker}

	if _, err := svc.SetPicture(ctx, caller, "text/plain", []byte("x")); !model.IsValidation(err) {
		t.Errorf("text upload: err = %v", err)
	}

	user, err := svc.SetPicture(ctx, caller, "image/png", []byte{0x89, 'P', 'N', 'G'})
	if err != nil {
		t.Fatalf("SetPicture: %v", err)
	}
	if len(pictures.keys) != 1 || user.ProfilePicture == nil || *user.ProfilePicture != "/media/"+pictures.keys[0] {
		t.Errorf("picture = %v, keys = %v", user.ProfilePicture, pictures.keys)
	}
}
