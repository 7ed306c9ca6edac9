package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/protomem/medicall/internal/account"
	"github.com/protomem/medicall/internal/auth"
	"github.com/protomem/medicall/internal/marketplace"
	"github.com/protomem/medicall/internal/media"
	"github.com/protomem/medicall/internal/memstore"
	"github.com/protomem/medicall/internal/model"
	"github.com/protomem/medicall/internal/notify"
	"github.com/protomem/medicall/internal/rates"
	"github.com/protomem/medicall/internal/report"
)

func newTestApplication(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := memoryStores(memstore.New())

	disk, err := media.NewDiskStorage(t.TempDir(), "http://media.test")
	if err != nil {
		t.Fatalf("NewDiskStorage: %v", err)
	}

	app := &application{
		config:   config{env: "test", httpHost: "localhost", httpPort: 8080},
		logger:   logger,
		mediaDir: disk.Dir(),
	}
	app.inbox = notify.NewService(logger, st.notifications, st.preferences, notify.NopPublisher{})
	app.accounts = account.NewService(logger, account.Deps{
		Users:     st.users,
		Workers:   st.workers,
		Hospitals: st.hospitals,
		Tokens:    st.tokens,
		Pictures:  disk,
		Issuer:    auth.NewIssuer("test-secret", time.Minute, time.Hour),
	})
	app.catalog = marketplace.NewCatalog(logger, st.shifts)
	app.workflow = marketplace.NewWorkflow(logger, st.shifts, st.applications, app.inbox)
	app.ledger = marketplace.NewLedger(logger, st.reviews)
	app.rates = rates.NewService(logger, nil, time.Second)

	return app.routes()
}

type testClient struct {
	t       *testing.T
	handler http.Handler
}

func (c testClient) do(method, path, token string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()

	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, want, rec.Body.String())
	}
}

func (c testClient) register(username, userType string) account.Session {
	c.t.Helper()

	rec := c.do(http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username":        username,
		"email":           username + "@example.com",
		"password":        "pa55word",
		"passwordConfirm": "pa55word",
		"userType":        userType,
		"firstName":       "Test",
		"lastName":        "User",
	})
	expectStatus(c.t, rec, http.StatusCreated)
	return decode[account.Session](c.t, rec)
}

func (c testClient) postShift(token string) model.Shift {
	c.t.Helper()

	rec := c.do(http.MethodPost, "/api/v1/shifts", token, map[string]any{
		"department":    "Emergency",
		"role":          "Registered Nurse",
		"date":          time.Now().AddDate(0, 0, 3).Format(model.DateLayout),
		"startTime":     "7:00",
		"endTime":       "19:00",
		"durationHours": "12",
		"payPerHour":    "55.50",
		"requirements":  "BLS",
		"location":      "Ward 3",
	})
	expectStatus(c.t, rec, http.StatusCreated)
	return decode[model.Shift](c.t, rec)
}

func TestHealth(t *testing.T) {
	c := testClient{t, newTestApplication(t)}

	rec := c.do(http.MethodGet, "/api/v1/health", "", nil)
	expectStatus(t, rec, http.StatusOK)

	body := decode[map[string]string](t, rec)
	if body["status"] != "healthy" {
		t.Errorf("body = %v", body)
	}
	if rec.Header().Get("X-Trace-Id") == "" {
		t.Error("missing trace id header")
	}

	rec = c.do(http.MethodGet, "/api/v1/health", "expired-or-garbage", nil)
	expectStatus(t, rec, http.StatusOK)
}

func TestCurrencyRateFallsBack(t *testing.T) {
	c := testClient{t, newTestApplication(t)}

	rec := c.do(http.MethodGet, "/api/v1/currency-rate?from=usd&to=ngn", "", nil)
	expectStatus(t, rec, http.StatusOK)

	q := decode[rates.Quote](t, rec)
	if q.From != "USD" || q.To != "NGN" || q.Source != rates.SourceFallback || q.Rate != rates.FallbackRate("NGN") {
		t.Errorf("quote = %+v", q)
	}

	rec = c.do(http.MethodGet, "/api/v1/currency-rate?to=NGN", "expired-or-garbage", nil)
	expectStatus(t, rec, http.StatusOK)
}

func TestRegisterValidation(t *testing.T) {
	c := testClient{t, newTestApplication(t)}

	rec := c.do(http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username":        "nurse",
		"email":           "not-an-email",
		"password":        "pa55word",
		"passwordConfirm": "different",
		"firstName":       "A",
		"lastName":        "B",
	})
	expectStatus(t, rec, http.StatusBadRequest)

	c.register("nurse", "worker")
	rec = c.do(http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username":        "nurse",
		"email":           "other@example.com",
		"password":        "pa55word",
		"passwordConfirm": "pa55word",
		"firstName":       "A",
		"lastName":        "B",
	})
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestAuthRequired(t *testing.T) {
	c := testClient{t, newTestApplication(t)}

	for _, path := range []string{"/api/v1/shifts", "/api/v1/auth/profile", "/api/v1/notifications"} {
		rec := c.do(http.MethodGet, path, "", nil)
		expectStatus(t, rec, http.StatusUnauthorized)
		if rec.Header().Get("WWW-Authenticate") != "Bearer" {
			t.Errorf("%s: missing WWW-Authenticate", path)
		}
	}

	rec := c.do(http.MethodGet, "/api/v1/shifts", "garbage", nil)
	expectStatus(t, rec, http.StatusUnauthorized)
	if body := decode[map[string]string](t, rec); body["error"] != "Invalid token" {
		t.Errorf("error = %q, want %q", body["error"], "Invalid token")
	}
}

func TestLoginRefreshLogout(t *testing.T) {
	c := testClient{t, newTestApplication(t)}
	sess := c.register("nurse", "worker")

	rec := c.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "nurse", "password": "wrong"})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = c.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "nurse", "password": "pa55word"})
	expectStatus(t, rec, http.StatusOK)

	rec = c.do(http.MethodPost, "/api/v1/auth/token/refresh", "", map[string]string{"refresh": sess.Refresh})
	expectStatus(t, rec, http.StatusOK)
	if decode[map[string]string](t, rec)["access"] == "" {
		t.Error("expected new access token")
	}

	rec = c.do(http.MethodPost, "/api/v1/auth/logout", sess.Access, map[string]string{"refresh": sess.Refresh})
	expectStatus(t, rec, http.StatusOK)

	rec = c.do(http.MethodPost, "/api/v1/auth/token/refresh", "", map[string]string{"refresh": sess.Refresh})
	expectStatus(t, rec, http.StatusUnauthorized)

	rec = c.do(http.MethodPost, "/api/v1/auth/logout", sess.Access, map[string]string{"refresh": sess.Refresh})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = c.do(http.MethodPost, "/api/v1/auth/logout", sess.Access, map[string]string{"refresh": "nope"})
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestShiftLifecycle(t *testing.T) {
	c := testClient{t, newTestApplication(t)}
	hospital := c.register("general", "hospital")
	worker := c.register("nurse", "worker")

	rec := c.do(http.MethodPost, "/api/v1/shifts", worker.Access, map[string]any{
		"department": "ER", "role": "RN", "date": "2030-01-01", "startTime": "07:00", "endTime": "19:00",
		"durationHours": "12", "payPerHour": "50", "requirements": "BLS", "location": "Ward 3",
	})
	expectStatus(t, rec, http.StatusForbidden)

	shift := c.postShift(hospital.Access)
	if shift.Urgency != model.UrgencyMedium || shift.MaxApplicants != 10 || shift.StartTime != "07:00" {
		t.Errorf("defaults not applied: %+v", shift)
	}
	if !shift.TotalPay.Equal(shift.PayPerHour.Mul(shift.DurationHours)) {
		t.Errorf("totalPay = %s", shift.TotalPay)
	}

	open := decode[[]model.Shift](t, c.do(http.MethodGet, "/api/v1/shifts/worker", worker.Access, nil))
	if len(open) != 1 {
		t.Fatalf("worker sees %d shifts, want 1", len(open))
	}

	rec = c.do(http.MethodPost, "/api/v1/shifts/applications", worker.Access, map[string]any{
		"shiftId": shift.ID, "coverLetter": "Available", "proposedRate": "60",
	})
	expectStatus(t, rec, http.StatusCreated)
	application := decode[model.Application](t, rec)
	if application.Status != model.ApplicationPending {
		t.Errorf("status = %s", application.Status)
	}

	rec = c.do(http.MethodPost, "/api/v1/shifts/applications", worker.Access, map[string]any{"shiftId": shift.ID})
	expectStatus(t, rec, http.StatusBadRequest)

	open = decode[[]model.Shift](t, c.do(http.MethodGet, "/api/v1/shifts/worker", worker.Access, nil))
	if len(open) != 0 {
		t.Errorf("applied shift still listed for worker")
	}

	forShift := decode[[]model.Application](t, c.do(http.MethodGet, fmt.Sprintf("/api/v1/shifts/%d/applications", shift.ID), worker.Access, nil))
	if len(forShift) != 0 {
		t.Errorf("non-owner sees %d applications", len(forShift))
	}
	forShift = decode[[]model.Application](t, c.do(http.MethodGet, fmt.Sprintf("/api/v1/shifts/%d/applications", shift.ID), hospital.Access, nil))
	if len(forShift) != 1 {
		t.Errorf("owner sees %d applications, want 1", len(forShift))
	}

	rec = c.do(http.MethodPut, fmt.Sprintf("/api/v1/shifts/applications/%d/status", application.ID), hospital.Access, map[string]string{"status": "bogus"})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = c.do(http.MethodPost, fmt.Sprintf("/api/v1/shifts/applications/%d/approve", application.ID), hospital.Access, nil)
	expectStatus(t, rec, http.StatusOK)
	if got := decode[model.Application](t, rec).Status; got != model.ApplicationApproved {
		t.Errorf("status = %s, want approved", got)
	}

	got := decode[model.Shift](t, c.do(http.MethodGet, fmt.Sprintf("/api/v1/shifts/%d", shift.ID), worker.Access, nil))
	if got.Status != model.ShiftFilled {
		t.Errorf("shift status = %s, want filled", got.Status)
	}

	rec = c.do(http.MethodPost, fmt.Sprintf("/api/v1/shifts/applications/%d/withdraw", application.ID), worker.Access, nil)
	expectStatus(t, rec, http.StatusBadRequest)

	for _, sess := range []account.Session{hospital, worker} {
		count := decode[map[string]int](t, c.do(http.MethodGet, "/api/v1/notifications/unread-count", sess.Access, nil))
		if count["unreadCount"] != 1 {
			t.Errorf("%s unread = %d, want 1", sess.User.Username, count["unreadCount"])
		}
	}

	rec = c.do(http.MethodPost, "/api/v1/notifications/read-all", worker.Access, nil)
	expectStatus(t, rec, http.StatusOK)
	unread := decode[[]model.Notification](t, c.do(http.MethodGet, "/api/v1/notifications?isRead=false", worker.Access, nil))
	if len(unread) != 0 {
		t.Errorf("unread after read-all = %d", len(unread))
	}

	rec = c.do(http.MethodPost, "/api/v1/shifts/reviews", hospital.Access, map[string]any{
		"shiftId": shift.ID, "reviewedUserId": worker.User.ID, "rating": 5, "comment": "Great work",
	})
	expectStatus(t, rec, http.StatusCreated)

	rec = c.do(http.MethodPost, "/api/v1/shifts/reviews", hospital.Access, map[string]any{
		"shiftId": shift.ID, "reviewedUserId": worker.User.ID, "rating": 6, "comment": "Again",
	})
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestShiftQueryValidation(t *testing.T) {
	c := testClient{t, newTestApplication(t)}
	hospital := c.register("general", "hospital")

	for _, query := range []string{"status=open", "urgency=extreme", "date=tomorrow", "ordering=-hospitalName"} {
		rec := c.do(http.MethodGet, "/api/v1/shifts?"+query, hospital.Access, nil)
		expectStatus(t, rec, http.StatusBadRequest)
	}

	rec := c.do(http.MethodPost, "/api/v1/shifts", hospital.Access, map[string]any{
		"department": "ER", "role": "RN", "date": "2030-01-01", "startTime": "07:00", "endTime": "19:00",
		"durationHours": "12", "payPerHour": "1000000", "requirements": "BLS", "location": "Ward 3",
	})
	expectStatus(t, rec, http.StatusBadRequest)

	shift := c.postShift(hospital.Access)
	rec = c.do(http.MethodPatch, fmt.Sprintf("/api/v1/shifts/%d", shift.ID), hospital.Access, map[string]any{"payPerHour": "1000000"})
	expectStatus(t, rec, http.StatusBadRequest)

	worker := c.register("nurse", "worker")
	rec = c.do(http.MethodPost, "/api/v1/shifts/applications", worker.Access, map[string]any{
		"shiftId": shift.ID, "proposedRate": "1000000",
	})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = c.do(http.MethodGet, "/api/v1/shifts/abc", hospital.Access, nil)
	expectStatus(t, rec, http.StatusNotFound)
	rec = c.do(http.MethodGet, "/api/v1/shifts/999", hospital.Access, nil)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestExportHospitalShifts(t *testing.T) {
	c := testClient{t, newTestApplication(t)}
	hospital := c.register("general", "hospital")
	worker := c.register("nurse", "worker")
	c.postShift(hospital.Access)

	rec := c.do(http.MethodGet, "/api/v1/shifts/hospital/export", hospital.Access, nil)
	expectStatus(t, rec, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); ct != report.XLSXContentType {
		t.Errorf("content type = %q", ct)
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Disposition"), "attachment;") {
		t.Errorf("content disposition = %q", rec.Header().Get("Content-Disposition"))
	}
	if rec.Body.Len() == 0 {
		t.Error("empty workbook")
	}

	rec = c.do(http.MethodGet, "/api/v1/shifts/hospital/export", worker.Access, nil)
	expectStatus(t, rec, http.StatusForbidden)
}

func TestProfiles(t *testing.T) {
	c := testClient{t, newTestApplication(t)}
	worker := c.register("nurse", "worker")

	rec := c.do(http.MethodGet, "/api/v1/auth/worker-profile", worker.Access, nil)
	expectStatus(t, rec, http.StatusNotFound)

	rec = c.do(http.MethodPost, "/api/v1/auth/hospital-profile", worker.Access, map[string]any{
		"hospitalName": "General", "licenseNumber": "H-1", "address": "1 Main St", "city": "Austin",
		"state": "TX", "zipCode": "73301", "phone": "+15125550100",
	})
	expectStatus(t, rec, http.StatusForbidden)

	body := map[string]any{
		"licenseNumber": "RN-42", "specialties": []string{"icu"}, "experienceYears": 4, "hourlyRate": "48.00",
	}
	rec = c.do(http.MethodPost, "/api/v1/auth/worker-profile", worker.Access, body)
	expectStatus(t, rec, http.StatusCreated)
	rec = c.do(http.MethodPost, "/api/v1/auth/worker-profile", worker.Access, body)
	expectStatus(t, rec, http.StatusBadRequest)

	rec = c.do(http.MethodPut, "/api/v1/auth/worker-profile", worker.Access, map[string]any{"isAvailable": false})
	expectStatus(t, rec, http.StatusOK)
	if decode[model.WorkerProfile](t, rec).IsAvailable {
		t.Error("isAvailable not updated")
	}

	workers := decode[[]model.WorkerProfile](t, c.do(http.MethodGet, "/api/v1/auth/workers", worker.Access, nil))
	if len(workers) != 0 {
		t.Errorf("unavailable worker listed")
	}

	rec = c.do(http.MethodPut, "/api/v1/auth/profile", worker.Access, map[string]any{
		"firstName": "Jane", "username": "ignored", "userType": "admin",
	})
	expectStatus(t, rec, http.StatusOK)
	user := decode[model.User](t, rec)
	if user.FirstName != "Jane" || user.Username != "nurse" || user.Role != model.RoleWorker {
		t.Errorf("user = %+v", user)
	}

	rec = c.do(http.MethodPut, "/api/v1/auth/profile", worker.Access, map[string]any{"phoneNumber": "12"})
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestUploadPicture(t *testing.T) {
	c := testClient{t, newTestApplication(t)}
	worker := c.register("nurse", "worker")

	png := []byte("\x89PNG\r\n\x1a\nfake")

	req := httptest.NewRequest(http.MethodPut, "/api/v1/auth/profile/picture", bytes.NewReader(png))
	req.Header.Set("Content-Type", "image/png")
	req.Header.Set("Authorization", "Bearer "+worker.Access)
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusOK)

	user := decode[model.User](t, rec)
	if user.ProfilePicture == nil {
		t.Fatal("picture not set")
	}
	u, err := url.Parse(*user.ProfilePicture)
	if err != nil {
		t.Fatalf("parse picture url: %v", err)
	}

	rec = c.do(http.MethodGet, u.Path, "", nil)
	expectStatus(t, rec, http.StatusOK)
	if !bytes.Equal(rec.Body.Bytes(), png) {
		t.Error("served picture differs from upload")
	}

	req = httptest.NewRequest(http.MethodPut, "/api/v1/auth/profile/picture", strings.NewReader("GIF89a"))
	req.Header.Set("Content-Type", "image/gif")
	req.Header.Set("Authorization", "Bearer "+worker.Access)
	rec = httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestNotificationPreferences(t *testing.T) {
	c := testClient{t, newTestApplication(t)}
	worker := c.register("nurse", "worker")

	rec := c.do(http.MethodGet, "/api/v1/notifications/preferences", worker.Access, nil)
	expectStatus(t, rec, http.StatusOK)
	pref := decode[model.NotificationPreference](t, rec)
	if !pref.EmailNotifications || pref.SMSNotifications {
		t.Errorf("defaults = %+v", pref)
	}

	rec = c.do(http.MethodPut, "/api/v1/notifications/preferences", worker.Access, map[string]bool{"smsNotifications": true})
	expectStatus(t, rec, http.StatusOK)
	pref = decode[model.NotificationPreference](t, rec)
	if !pref.SMSNotifications || !pref.EmailNotifications {
		t.Errorf("after update = %+v", pref)
	}

	rec = c.do(http.MethodPost, "/api/v1/notifications/999/read", worker.Access, nil)
	expectStatus(t, rec, http.StatusNotFound)
}
