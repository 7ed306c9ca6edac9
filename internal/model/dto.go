package model

import "github.com/shopspring/decimal"

// Store DTOs. Insert DTOs carry every column a caller may set; update DTOs
// use nil to mean "leave unchanged".

type InsertUserDTO struct {
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         Role
	IsVerified   bool

	PhoneNumber *string
	Address     *string
	City        *string
	State       *string
	ZipCode     *string
	Country     *string
}

type UpdateUserDTO struct {
	Email          *string
	FirstName      *string
	LastName       *string
	PhoneNumber    *string
	ProfilePicture *string
	Address        *string
	City           *string
	State          *string
	ZipCode        *string
	Country        *string
}

type InsertWorkerProfileDTO struct {
	UserID          ID
	LicenseNumber   string
	Specialties     []string
	ExperienceYears int
	Certifications  []string
	Availability    Availability
	HourlyRate      decimal.NullDecimal
	Country         string
}

type UpdateWorkerProfileDTO struct {
	LicenseNumber   *string
	Specialties     *[]string
	ExperienceYears *int
	Certifications  *[]string
	Availability    *Availability
	HourlyRate      *decimal.Decimal
	IsAvailable     *bool
	Country         *string
}

type InsertHospitalProfileDTO struct {
	UserID        ID
	HospitalName  string
	LicenseNumber string
	Address       string
	City          string
	State         string
	ZipCode       string
	Country       string
	Phone         string
	Website       *string
	Departments   []string
	BedCount      int
}

type UpdateHospitalProfileDTO struct {
	HospitalName  *string
	LicenseNumber *string
	Address       *string
	City          *string
	State         *string
	ZipCode       *string
	Country       *string
	Phone         *string
	Website       *string
	Departments   *[]string
	BedCount      *int
}

type InsertShiftDTO struct {
	HospitalID    ID
	Department    string
	Position      string
	Date          Date
	StartTime     string
	EndTime       string
	DurationHours decimal.Decimal
	PayPerHour    decimal.Decimal
	Urgency       Urgency
	Requirements  string
	Location      string
	Description   string
	MaxApplicants int
}

type UpdateShiftDTO struct {
	Department    *string
	Position      *string
	Date          *Date
	StartTime     *string
	EndTime       *string
	DurationHours *decimal.Decimal
	PayPerHour    *decimal.Decimal
	Urgency       *Urgency
	Status        *ShiftStatus
	Requirements  *string
	Location      *string
	Description   *string
	MaxApplicants *int
}

type InsertApplicationDTO struct {
	ShiftID      ID
	WorkerID     ID
	CoverLetter  string
	ProposedRate decimal.NullDecimal
}

type UpdateApplicationDTO struct {
	CoverLetter  *string
	ProposedRate *decimal.Decimal
}

type InsertReviewDTO struct {
	ShiftID        ID
	ReviewerID     ID
	ReviewedUserID ID
	Rating         int
	Comment        string
}

type UpdateReviewDTO struct {
	Rating  *int
	Comment *string
}

type InsertNotificationDTO struct {
	RecipientID          ID
	SenderID             *ID
	Type                 NotificationType
	Title                string
	Message              string
	RelatedShiftID       *ID
	RelatedApplicationID *ID
}
