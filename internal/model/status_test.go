package model_test

import (
	"testing"

	"github.com/protomem/medicall/internal/model"
)

// ── ParseApplicationStatus ─────────────────────────────────────────────────

func TestParseApplicationStatus_ValidValues(t *testing.T) {
	for _, s := range []string{"pending", "approved", "rejected", "withdrawn"} {
		got, err := model.ParseApplicationStatus(s)
		if err != nil {
			t.Errorf("ParseApplicationStatus(%q) returned unexpected error: %v", s, err)
		}
		if string(got) != s {
			t.Errorf("ParseApplicationStatus(%q) = %q, want %q", s, got, s)
		}
	}
}

func TestParseApplicationStatus_InvalidValues(t *testing.T) {
	for _, s := range []string{"", "PENDING", "filled", "accepted"} {
		if _, err := model.ParseApplicationStatus(s); err == nil {
			t.Errorf("ParseApplicationStatus(%q) expected error, got nil", s)
		}
	}
}

// ── IsApplicationTransitionAllowed ─────────────────────────────────────────

func TestIsApplicationTransitionAllowed_FromPending(t *testing.T) {
	for _, to := range []model.ApplicationStatus{
		model.ApplicationApproved,
		model.ApplicationRejected,
		model.ApplicationWithdrawn,
	} {
		if !model.IsApplicationTransitionAllowed(model.ApplicationPending, to) {
			t.Errorf("IsApplicationTransitionAllowed(pending → %s) should be true", to)
		}
	}
	if model.IsApplicationTransitionAllowed(model.ApplicationPending, model.ApplicationPending) {
		t.Error("IsApplicationTransitionAllowed(pending → pending) should be false")
	}
}

func TestIsApplicationTransitionAllowed_FromTerminal(t *testing.T) {
	terminals := []model.ApplicationStatus{
		model.ApplicationApproved,
		model.ApplicationRejected,
		model.ApplicationWithdrawn,
	}
	all := append([]model.ApplicationStatus{model.ApplicationPending}, terminals...)
	for _, from := range terminals {
		for _, to := range all {
			if model.IsApplicationTransitionAllowed(from, to) {
				t.Errorf("IsApplicationTransitionAllowed(%s → %s) should be false (terminal state)", from, to)
			}
		}
	}
}

func TestIsHospitalDecision(t *testing.T) {
	cases := map[model.ApplicationStatus]bool{
		model.ApplicationPending:   false,
		model.ApplicationApproved:  true,
		model.ApplicationRejected:  true,
		model.ApplicationWithdrawn: false,
	}
	for s, want := range cases {
		if got := model.IsHospitalDecision(s); got != want {
			t.Errorf("IsHospitalDecision(%s) = %v, want %v", s, got, want)
		}
	}
}

// ── Notification categories ────────────────────────────────────────────────

func TestNotificationType_Category(t *testing.T) {
	cases := map[model.NotificationType]model.NotificationCategory{
		model.NotificationShiftPosted:         model.CategoryShift,
		model.NotificationShiftReminder:       model.CategoryShift,
		model.NotificationApplicationReceived: model.CategoryApplication,
		model.NotificationApplicationApproved: model.CategoryApplication,
		model.NotificationApplicationRejected: model.CategoryApplication,
		model.NotificationPaymentReceived:     model.CategoryPayment,
		model.NotificationSystem:              model.CategorySystem,
	}
	for typ, want := range cases {
		if got := typ.Category(); got != want {
			t.Errorf("%s.Category() = %s, want %s", typ, got, want)
		}
	}
}

func TestParseShiftStatusAndUrgency(t *testing.T) {
	if _, err := model.ParseShiftStatus("expired"); err != nil {
		t.Errorf("ParseShiftStatus(expired): %v", err)
	}
	if _, err := model.ParseShiftStatus("open"); err == nil {
		t.Error("ParseShiftStatus(open) expected error")
	}
	if _, err := model.ParseUrgency("critical"); err != nil {
		t.Errorf("ParseUrgency(critical): %v", err)
	}
	if _, err := model.ParseUrgency("urgent"); err == nil {
		t.Error("ParseUrgency(urgent) expected error")
	}
}
