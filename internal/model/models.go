package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type ID = uint

type User struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Username     string `json:"username" db:"username"`
	Email        string `json:"email" db:"email"`
	FirstName    string `json:"firstName" db:"first_name"`
	LastName     string `json:"lastName" db:"last_name"`
	PasswordHash string `json:"-" db:"password_hash"`

	Role       Role `json:"userType" db:"user_type"`
	IsVerified bool `json:"isVerified" db:"is_verified"`
	IsActive   bool `json:"-" db:"is_active"`

	PhoneNumber    *string `json:"phoneNumber,omitempty" db:"phone_number"`
	ProfilePicture *string `json:"profilePicture,omitempty" db:"profile_picture"`

	Address *string `json:"address,omitempty" db:"address"`
	City    *string `json:"city,omitempty" db:"city"`
	State   *string `json:"state,omitempty" db:"state"`
	ZipCode *string `json:"zipCode,omitempty" db:"zip_code"`
	Country *string `json:"country,omitempty" db:"country"`
}

// FullAddress joins the non-empty address parts; the default country US is omitted.
func (u User) FullAddress() string {
	parts := make([]string, 0, 5)
	for _, p := range []*string{u.Address, u.City, u.State, u.ZipCode} {
		if p != nil && *p != "" {
			parts = append(parts, *p)
		}
	}
	if u.Country != nil && *u.Country != "" && *u.Country != "US" {
		parts = append(parts, *u.Country)
	}
	return strings.Join(parts, ", ")
}

func (u User) MarshalJSON() ([]byte, error) {
	type plain User
	var full *string
	if addr := u.FullAddress(); addr != "" {
		full = &addr
	}
	return json.Marshal(struct {
		plain
		FullAddress *string `json:"fullAddress"`
	}{plain(u), full})
}

type WorkerProfile struct {
	ID     ID `json:"id" db:"id"`
	UserID ID `json:"userId" db:"user_id"`

	Username  string `json:"username" db:"username"`
	FirstName string `json:"firstName" db:"first_name"`
	LastName  string `json:"lastName" db:"last_name"`

	LicenseNumber   string              `json:"licenseNumber" db:"license_number"`
	Specialties     pq.StringArray      `json:"specialties" db:"specialties"`
	ExperienceYears int                 `json:"experienceYears" db:"experience_years"`
	Certifications  pq.StringArray      `json:"certifications" db:"certifications"`
	Availability    Availability        `json:"availability" db:"availability"`
	HourlyRate      decimal.NullDecimal `json:"hourlyRate" db:"hourly_rate"`
	Rating          decimal.Decimal     `json:"rating" db:"rating"`
	TotalReviews    int                 `json:"totalReviews" db:"total_reviews"`
	IsAvailable     bool                `json:"isAvailable" db:"is_available"`
	Country         string              `json:"country" db:"country"`
}

type HospitalProfile struct {
	ID     ID `json:"id" db:"id"`
	UserID ID `json:"userId" db:"user_id"`

	HospitalName  string         `json:"hospitalName" db:"hospital_name"`
	LicenseNumber string         `json:"licenseNumber" db:"license_number"`
	Address       string         `json:"address" db:"address"`
	City          string         `json:"city" db:"city"`
	State         string         `json:"state" db:"state"`
	ZipCode       string         `json:"zipCode" db:"zip_code"`
	Country       string         `json:"country" db:"country"`
	Phone         string         `json:"phone" db:"phone"`
	Website       *string        `json:"website,omitempty" db:"website"`
	Departments   pq.StringArray `json:"departments" db:"departments"`
	BedCount      int            `json:"bedCount" db:"bed_count"`
	IsVerified    bool           `json:"isVerified" db:"is_verified"`
}

type Shift struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	HospitalID   ID     `json:"hospitalId" db:"hospital_id"`
	HospitalName string `json:"hospitalName" db:"hospital_name"`

	Department    string          `json:"department" db:"department"`
	Position      string          `json:"role" db:"role"`
	Date          Date            `json:"date" db:"date"`
	StartTime     string          `json:"startTime" db:"start_time"`
	EndTime       string          `json:"endTime" db:"end_time"`
	DurationHours decimal.Decimal `json:"durationHours" db:"duration_hours"`
	PayPerHour    decimal.Decimal `json:"payPerHour" db:"pay_per_hour"`
	Urgency       Urgency         `json:"urgency" db:"urgency"`
	Status        ShiftStatus     `json:"status" db:"status"`
	Requirements  string          `json:"requirements" db:"requirements"`
	Location      string          `json:"location" db:"location"`
	Description   string          `json:"description" db:"description"`
	MaxApplicants int             `json:"maxApplicants" db:"max_applicants"`

	ApplicantCount int             `json:"applicantCount" db:"applicant_count"`
	TotalPay       decimal.Decimal `json:"totalPay" db:"-"`
}

// ComputeTotalPay is the exact product of hourly pay and duration.
func (s Shift) ComputeTotalPay() decimal.Decimal {
	return s.PayPerHour.Mul(s.DurationHours)
}

// Derive fills the read-only fields computed from stored columns.
func (s *Shift) Derive() {
	s.TotalPay = s.ComputeTotalPay()
}

type Application struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	ShiftID  ID `json:"shiftId" db:"shift_id"`
	WorkerID ID `json:"workerId" db:"worker_id"`

	Status       ApplicationStatus   `json:"status" db:"status"`
	CoverLetter  string              `json:"coverLetter" db:"cover_letter"`
	ProposedRate decimal.NullDecimal `json:"proposedRate" db:"proposed_rate"`

	WorkerUsername string `json:"workerUsername" db:"worker_username"`
	HospitalID     ID     `json:"hospitalId" db:"hospital_id"`
	ShiftRole      string `json:"shiftRole" db:"shift_role"`
	ShiftDate      Date   `json:"shiftDate" db:"shift_date"`
}

type ShiftReview struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	ShiftID        ID `json:"shiftId" db:"shift_id"`
	ReviewerID     ID `json:"reviewerId" db:"reviewer_id"`
	ReviewedUserID ID `json:"reviewedUserId" db:"reviewed_user_id"`

	Rating  int    `json:"rating" db:"rating"`
	Comment string `json:"comment" db:"comment"`
}

type Notification struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	RecipientID ID  `json:"recipientId" db:"recipient_id"`
	SenderID    *ID `json:"senderId,omitempty" db:"sender_id"`

	Type    NotificationType `json:"notificationType" db:"notification_type"`
	Title   string           `json:"title" db:"title"`
	Message string           `json:"message" db:"message"`
	IsRead  bool             `json:"isRead" db:"is_read"`

	RelatedShiftID       *ID `json:"relatedShiftId,omitempty" db:"related_shift_id"`
	RelatedApplicationID *ID `json:"relatedApplicationId,omitempty" db:"related_application_id"`
}

type NotificationPreference struct {
	UserID    ID        `json:"userId" db:"user_id"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	EmailNotifications bool `json:"emailNotifications" db:"email_notifications"`
	PushNotifications  bool `json:"pushNotifications" db:"push_notifications"`
	SMSNotifications   bool `json:"smsNotifications" db:"sms_notifications"`

	ShiftNotifications       bool `json:"shiftNotifications" db:"shift_notifications"`
	ApplicationNotifications bool `json:"applicationNotifications" db:"application_notifications"`
	PaymentNotifications     bool `json:"paymentNotifications" db:"payment_notifications"`
	SystemNotifications      bool `json:"systemNotifications" db:"system_notifications"`
}

func DefaultNotificationPreference(user ID) NotificationPreference {
	return NotificationPreference{
		UserID:                   user,
		EmailNotifications:       true,
		PushNotifications:        true,
		SMSNotifications:         false,
		ShiftNotifications:       true,
		ApplicationNotifications: true,
		PaymentNotifications:     true,
		SystemNotifications:      true,
	}
}

func (p NotificationPreference) Allows(c NotificationCategory) bool {
	switch c {
	case CategoryShift:
		return p.ShiftNotifications
	case CategoryApplication:
		return p.ApplicationNotifications
	case CategoryPayment:
		return p.PaymentNotifications
	}
	return p.SystemNotifications
}

// Channels lists the enabled external delivery channels.
func (p NotificationPreference) Channels() []string {
	channels := make([]string, 0, 3)
	if p.EmailNotifications {
		channels = append(channels, "email")
	}
	if p.PushNotifications {
		channels = append(channels, "push")
	}
	if p.SMSNotifications {
		channels = append(channels, "sms")
	}
	return channels
}

type RevokedToken struct {
	JTI       string    `json:"jti" db:"jti"`
	UserID    ID        `json:"userId" db:"user_id"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// DueReminder is an approved application whose shift starts soon.
type DueReminder struct {
	ApplicationID ID     `db:"application_id"`
	WorkerID      ID     `db:"worker_id"`
	HospitalID    ID     `db:"hospital_id"`
	ShiftID       ID     `db:"shift_id"`
	ShiftRole     string `db:"shift_role"`
	ShiftDate     Date   `db:"shift_date"`
	StartTime     string `db:"start_time"`
	Location      string `db:"location"`
}

// MaxAmount is the largest pay or rate value the store can hold.
var MaxAmount = decimal.RequireFromString("999999.99")

// CheckAmount rejects negative amounts and amounts above MaxAmount.
func CheckAmount(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return NewValidationError("%s must not be negative", field)
	}
	if d.GreaterThan(MaxAmount) {
		return NewValidationError("%s must be at most %s", field, MaxAmount)
	}
	return nil
}
