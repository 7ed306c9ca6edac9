package model_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/protomem/medicall/internal/model"
	"github.com/shopspring/decimal"
)

func TestRoleCan(t *testing.T) {
	cases := []struct {
		role model.Role
		cap  model.Capability
		want bool
	}{
		{model.RoleHospital, model.CapPostShifts, true},
		{model.RoleHospital, model.CapReviewApplications, true},
		{model.RoleHospital, model.CapApplyToShifts, false},
		{model.RoleWorker, model.CapApplyToShifts, true},
		{model.RoleWorker, model.CapPostShifts, false},
		{model.RoleWorker, model.CapKeepWorkerProfile, true},
		{model.RoleWorker, model.CapKeepHospitalProfile, false},
		{model.RoleAdmin, model.CapPostShifts, false},
		{model.RoleAdmin, model.CapApplyToShifts, false},
		{model.Role("nobody"), model.CapApplyToShifts, false},
	}
	for _, c := range cases {
		if got := c.role.Can(c.cap); got != c.want {
			t.Errorf("%s.Can(%d) = %v, want %v", c.role, c.cap, got, c.want)
		}
	}
}

func TestScopeAdmits(t *testing.T) {
	owners := func(o model.Ownership) model.ID {
		switch o {
		case model.OwnerHospital:
			return 7
		case model.OwnerWorker:
			return 9
		}
		return 0
	}

	if !model.Unscoped().Admits(owners) {
		t.Error("Unscoped should admit every row")
	}
	if model.Nothing().Admits(owners) {
		t.Error("Nothing should admit no row")
	}
	if !model.OwnedBy(model.OwnerHospital, 7).Admits(owners) {
		t.Error("OwnedBy(hospital 7) should admit a row owned by hospital 7")
	}
	if model.OwnedBy(model.OwnerHospital, 8).Admits(owners) {
		t.Error("OwnedBy(hospital 8) should not admit a row owned by hospital 7")
	}
	if !model.OwnedBy(model.OwnerWorker, 9).Admits(owners) {
		t.Error("OwnedBy(worker 9) should admit a row applied for by worker 9")
	}
}

func TestShiftTotalPayIsExact(t *testing.T) {
	cases := []struct {
		pay, hours, want string
	}{
		{"33.33", "7.5", "249.975"},
		{"0.10", "3", "0.3"},
		{"120.00", "12", "1440"},
		{"45.55", "0.25", "11.3875"},
	}
	for _, c := range cases {
		s := model.Shift{
			PayPerHour:    decimal.RequireFromString(c.pay),
			DurationHours: decimal.RequireFromString(c.hours),
		}
		s.Derive()
		if !s.TotalPay.Equal(decimal.RequireFromString(c.want)) {
			t.Errorf("total pay %s × %s = %s, want %s", c.pay, c.hours, s.TotalPay, c.want)
		}
	}
}

func TestDateJSON(t *testing.T) {
	var d model.Date
	if err := json.Unmarshal([]byte(`"2025-06-26"`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"2025-06-26"` {
		t.Errorf("marshal = %s", out)
	}
	if err := json.Unmarshal([]byte(`"26/06/2025"`), &d); err == nil {
		t.Error("expected error for non ISO date")
	}
}

func TestParseClock(t *testing.T) {
	for in, want := range map[string]string{"08:00": "08:00", "19:30:00": "19:30"} {
		got, err := model.ParseClock(in)
		if err != nil || got != want {
			t.Errorf("ParseClock(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := model.ParseClock("25:00"); err == nil {
		t.Error("ParseClock(25:00) expected error")
	}
}

func TestAvailabilityValidate(t *testing.T) {
	ok := model.Availability{"monday": {{Start: "08:00", End: "16:00"}}}
	if err := ok.Validate(); err != nil {
		t.Errorf("valid availability: %v", err)
	}
	bad := model.Availability{"funday": {{Start: "08:00", End: "16:00"}}}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for unknown weekday")
	}
}

func TestParseOrdering(t *testing.T) {
	o, ok := model.ParseOrdering("-payPerHour", model.ShiftOrderings...)
	if !ok || o.Field != "payPerHour" || !o.Desc {
		t.Errorf("ParseOrdering(-payPerHour) = %+v, %v", o, ok)
	}
	if _, ok := model.ParseOrdering("hospital", model.ShiftOrderings...); ok {
		t.Error("ParseOrdering(hospital) should be rejected")
	}
}

func TestUserFullAddress(t *testing.T) {
	str := func(s string) *string { return &s }
	u := model.User{Address: str("1 Main St"), City: str("Lagos"), Country: str("NG")}
	if got := u.FullAddress(); got != "1 Main St, Lagos, NG" {
		t.Errorf("FullAddress = %q", got)
	}
	u.Country = str("US")
	if got := u.FullAddress(); got != "1 Main St, Lagos" {
		t.Errorf("FullAddress = %q", got)
	}

	out, _ := json.Marshal(u)
	if !strings.Contains(string(out), `"fullAddress":"1 Main St, Lagos"`) {
		t.Errorf("json missing fullAddress: %s", out)
	}
	if strings.Contains(string(out), "password") {
		t.Errorf("json leaks password: %s", out)
	}
}

func TestPreferenceChannels(t *testing.T) {
	p := model.DefaultNotificationPreference(1)
	if got := strings.Join(p.Channels(), ","); got != "email,push" {
		t.Errorf("default channels = %s", got)
	}
	p.ApplicationNotifications = false
	if p.Allows(model.CategoryApplication) {
		t.Error("application category should be disabled")
	}
	if !p.Allows(model.CategoryShift) {
		t.Error("shift category should be enabled")
	}
}

func TestCheckAmount(t *testing.T) {
	cases := []struct {
		in    string
		valid bool
	}{
		{"0", true},
		{"55.50", true},
		{"999999.99", true},
		{"-0.01", false},
		{"1000000", false},
	}
	for _, c := range cases {
		err := model.CheckAmount("payPerHour", decimal.RequireFromString(c.in))
		if (err == nil) != c.valid {
			t.Errorf("CheckAmount(%s) = %v, want valid=%v", c.in, err, c.valid)
		}
		if err != nil && !model.IsValidation(err) {
			t.Errorf("CheckAmount(%s) error is not a validation error: %v", c.in, err)
		}
	}
}
