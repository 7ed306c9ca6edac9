package model

// Ownership selects which owner column a Scope filters on.
type Ownership int

const (
	OwnerNone Ownership = iota
	OwnerHospital
	OwnerWorker
	OwnerReviewer
	OwnerRecipient
)

// Scope restricts a lookup to rows owned by one user. Rows outside the scope
// are reported as absent, never as forbidden, so callers cannot probe for
// another tenant's data.
type Scope struct {
	By    Ownership
	Owner ID
	empty bool
}

func Unscoped() Scope { return Scope{} }

func OwnedBy(by Ownership, owner ID) Scope { return Scope{By: by, Owner: owner} }

// Nothing matches no rows at all.
func Nothing() Scope { return Scope{empty: true} }

func (s Scope) IsEmpty() bool { return s.empty }

func (s Scope) IsScoped() bool { return s.By != OwnerNone }

// Admits reports whether a row is visible; owner resolves the row's owner
// for the requested ownership kind.
func (s Scope) Admits(owner func(Ownership) ID) bool {
	if s.empty {
		return false
	}
	if s.By == OwnerNone {
		return true
	}
	return owner(s.By) == s.Owner
}
