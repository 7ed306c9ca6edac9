package marketplace

import "github.com/protomem/medicall/internal/model"

// scopeFor limits lookups to rows the caller owns as by. Callers without
// capability see nothing at all, so they get empty lists and not-found
// rather than a forbidden error.
func scopeFor(caller model.Caller, capability model.Capability, by model.Ownership) model.Scope {
	if !caller.Can(capability) {
		return model.Nothing()
	}
	return model.OwnedBy(by, caller.ID)
}

func forbidden(entity string) error {
	return model.NewError(entity, model.ErrForbidden)
}
