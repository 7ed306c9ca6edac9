package database

import (
	"github.com/Masterminds/squirrel"
	"github.com/protomem/medicall/internal/model"
)

// ownerColumns maps each ownership kind a table supports to its owner column.
type ownerColumns map[model.Ownership]string

var (
	shiftOwners        = ownerColumns{model.OwnerHospital: "s.hospital_id"}
	applicationOwners  = ownerColumns{model.OwnerHospital: "s.hospital_id", model.OwnerWorker: "a.worker_id"}
	reviewOwners       = ownerColumns{model.OwnerReviewer: "r.reviewer_id"}
	notificationOwners = ownerColumns{model.OwnerRecipient: "n.recipient_id"}
)

func applyScope(b squirrel.SelectBuilder, scope model.Scope, owners ownerColumns) squirrel.SelectBuilder {
	if scope.IsEmpty() {
		return b.Where(squirrel.Expr("FALSE"))
	}
	if !scope.IsScoped() {
		return b
	}

	column, ok := owners[scope.By]
	if !ok {
		return b.Where(squirrel.Expr("FALSE"))
	}

	return b.Where(squirrel.Eq{column: scope.Owner})
}

func orderBy(b squirrel.SelectBuilder, o model.Ordering, columns map[string]string, fallback string) squirrel.SelectBuilder {
	column, ok := columns[o.Field]
	if !ok {
		return b.OrderBy(fallback)
	}
	if o.Desc {
		return b.OrderBy(column+" DESC", fallback)
	}
	return b.OrderBy(column+" ASC", fallback)
}

func contains(s string) string {
	return "%" + s + "%"
}
