package model

import "fmt"

type Role string

const (
	RoleWorker   Role = "worker"
	RoleHospital Role = "hospital"
	RoleAdmin    Role = "admin"
)

func ParseRole(s string) (Role, error) {
	r := Role(s)
	switch r {
	case RoleWorker, RoleHospital, RoleAdmin:
		return r, nil
	}
	return "", fmt.Errorf("unknown user type %q", s)
}

func (r Role) String() string { return string(r) }

// Capability names an action gated by role.
type Capability int

const (
	CapPostShifts Capability = iota + 1
	CapApplyToShifts
	CapReviewApplications
	CapKeepWorkerProfile
	CapKeepHospitalProfile
)

var capabilities = map[Role][]Capability{
	RoleWorker:   {CapApplyToShifts, CapKeepWorkerProfile},
	RoleHospital: {CapPostShifts, CapReviewApplications, CapKeepHospitalProfile},
	RoleAdmin:    {},
}

// Can is the only place role-based permissions are decided.
func (r Role) Can(c Capability) bool {
	for _, granted := range capabilities[r] {
		if granted == c {
			return true
		}
	}
	return false
}

// Caller is the authenticated identity attached to a request.
type Caller struct {
	ID   ID
	Role Role
}

func (c Caller) Can(cap Capability) bool { return c.Role.Can(cap) }
