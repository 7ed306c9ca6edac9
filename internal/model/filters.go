package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

type FindOptions struct {
	Limit  int
	Offset int
}

func NewFindOptions(limit, offset int) FindOptions {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return FindOptions{Limit: limit, Offset: offset}
}

// Ordering is a sort key; Field is one of a listing's allowed field names.
type Ordering struct {
	Field string
	Desc  bool
}

// ParseOrdering reads "field" or "-field"; ok is false when field is not allowed.
func ParseOrdering(raw string, allowed ...string) (Ordering, bool) {
	o := Ordering{Field: strings.TrimPrefix(raw, "-"), Desc: strings.HasPrefix(raw, "-")}
	for _, f := range allowed {
		if f == o.Field {
			return o, true
		}
	}
	return Ordering{}, false
}

var (
	ShiftOrderings       = []string{"date", "payPerHour", "createdAt"}
	ApplicationOrderings = []string{"createdAt"}
	ReviewOrderings      = []string{"createdAt", "rating"}
	WorkerOrderings      = []string{"rating", "experienceYears", "hourlyRate"}
	HospitalOrderings    = []string{"hospitalName", "bedCount"}
)

type ShiftFilter struct {
	Scope Scope

	Status     *ShiftStatus
	Department *string
	Urgency    *Urgency
	Date       *Date
	Location   *string
	Search     string

	// NotAppliedBy hides shifts the worker already has an application for.
	NotAppliedBy *ID

	OrderBy Ordering
}

type ApplicationFilter struct {
	Scope Scope

	Status  *ApplicationStatus
	ShiftID *ID

	OrderBy Ordering
}

type ReviewFilter struct {
	Scope Scope

	ShiftID        *ID
	ReviewedUserID *ID

	OrderBy Ordering
}

type NotificationFilter struct {
	Scope Scope

	IsRead *bool
}

type WorkerFilter struct {
	Specialty       *string
	ExperienceYears *int
	MinRating       *decimal.Decimal
	Search          string

	OrderBy Ordering
}

type HospitalFilter struct {
	Department *string
	City       *string
	State      *string
	Search     string

	OrderBy Ordering
}
