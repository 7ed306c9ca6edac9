package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/protomem/medicall/internal/model"
)

func TestMapWriteError(t *testing.T) {
	pgErr := func(code string) error {
		return fmt.Errorf("exec: %w", &pgconn.PgError{Code: code})
	}

	tests := []struct {
		name       string
		err        error
		validation bool
		want       error
	}{
		{"unique", pgErr(pgerrcode.UniqueViolation), false, model.ErrExists},
		{"foreign key", pgErr(pgerrcode.ForeignKeyViolation), false, model.ErrNotFound},
		{"check", pgErr(pgerrcode.CheckViolation), true, nil},
		{"numeric overflow", pgErr(pgerrcode.NumericValueOutOfRange), true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapWriteError("shift", tt.err)
			if model.IsValidation(got) != tt.validation {
				t.Errorf("IsValidation(%v) = %v, want %v", got, !tt.validation, tt.validation)
			}
			if tt.want != nil && !errors.Is(got, tt.want) {
				t.Errorf("err = %v, want %v", got, tt.want)
			}
		})
	}

	other := errors.New("connection reset")
	if got := mapWriteError("shift", other); got != other {
		t.Errorf("unmapped err = %v", got)
	}
}
