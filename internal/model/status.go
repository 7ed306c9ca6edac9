package model

import "fmt"

type ShiftStatus string

const (
	ShiftActive    ShiftStatus = "active"
	ShiftFilled    ShiftStatus = "filled"
	ShiftCancelled ShiftStatus = "cancelled"
	ShiftExpired   ShiftStatus = "expired"
)

func ParseShiftStatus(s string) (ShiftStatus, error) {
	st := ShiftStatus(s)
	switch st {
	case ShiftActive, ShiftFilled, ShiftCancelled, ShiftExpired:
		return st, nil
	}
	return "", fmt.Errorf("unknown shift status %q", s)
}

type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

func ParseUrgency(s string) (Urgency, error) {
	u := Urgency(s)
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return u, nil
	}
	return "", fmt.Errorf("unknown urgency %q", s)
}

// ApplicationStatus is the lifecycle of an application:
//
//	pending ──► approved
//	   │ ├────► rejected
//	   │ └────► withdrawn
//
// approved, rejected and withdrawn are terminal.
type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationApproved  ApplicationStatus = "approved"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationWithdrawn ApplicationStatus = "withdrawn"
)

var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationPending: {ApplicationApproved, ApplicationRejected, ApplicationWithdrawn},
}

func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	st := ApplicationStatus(s)
	switch st {
	case ApplicationPending, ApplicationApproved, ApplicationRejected, ApplicationWithdrawn:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

func IsApplicationTransitionAllowed(from, to ApplicationStatus) bool {
	for _, s := range applicationTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsHospitalDecision reports whether s may be set by the hospital owning the shift.
func IsHospitalDecision(s ApplicationStatus) bool {
	return s == ApplicationApproved || s == ApplicationRejected
}

type NotificationType string

const (
	NotificationShiftPosted         NotificationType = "shift_posted"
	NotificationApplicationReceived NotificationType = "application_received"
	NotificationApplicationApproved NotificationType = "application_approved"
	NotificationApplicationRejected NotificationType = "application_rejected"
	NotificationShiftReminder       NotificationType = "shift_reminder"
	NotificationPaymentReceived     NotificationType = "payment_received"
	NotificationSystem              NotificationType = "system"
)

func ParseNotificationType(s string) (NotificationType, error) {
	t := NotificationType(s)
	switch t {
	case NotificationShiftPosted, NotificationApplicationReceived, NotificationApplicationApproved,
		NotificationApplicationRejected, NotificationShiftReminder, NotificationPaymentReceived,
		NotificationSystem:
		return t, nil
	}
	return "", fmt.Errorf("unknown notification type %q", s)
}

type NotificationCategory string

const (
	CategoryShift       NotificationCategory = "shift"
	CategoryApplication NotificationCategory = "application"
	CategoryPayment     NotificationCategory = "payment"
	CategorySystem      NotificationCategory = "system"
)

func (t NotificationType) Category() NotificationCategory {
	switch t {
	case NotificationShiftPosted, NotificationShiftReminder:
		return CategoryShift
	case NotificationApplicationReceived, NotificationApplicationApproved, NotificationApplicationRejected:
		return CategoryApplication
	case NotificationPaymentReceived:
		return CategoryPayment
	}
	return CategorySystem
}
