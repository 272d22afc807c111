package repository_test

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JaimeStill/gallery/pkg/repository"
)

var (
	errNotFound = errors.New("not found")
	errInvalid  = errors.New("invalid")
)

func TestMapError(t *testing.T) {
	other := errors.New("connection reset")
	fk := &pgconn.PgError{Code: "23503"}

	tests := []struct {
		name     string
		err      error
		want     error
		wantText string
	}{
		{"nil", nil, nil, ""},
		{"no rows", sql.ErrNoRows, errNotFound, ""},
		{"wrapped no rows", fmt.Errorf("scan: %w", sql.ErrNoRows), errNotFound, ""},
		{"unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "prompts_pkey"}, errInvalid, "unique violation on prompts_pkey"},
		{"check violation", &pgconn.PgError{Code: "23514", ConstraintName: "prompts_title_present"}, errInvalid, "check violation on prompts_title_present"},
		{"not null uses column", &pgconn.PgError{Code: "23502", ColumnName: "prompt"}, errInvalid, "not null violation on prompt"},
		{"unnamed violation", &pgconn.PgError{Code: "23514"}, errInvalid, "check violation"},
		{"foreign key passes through", fk, fk, ""},
		{"other passes through", other, other, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repository.MapError(tt.err, errNotFound, errInvalid)
			if tt.want == nil {
				if got != nil {
					t.Errorf("MapError = %v, want nil", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("MapError = %v, want %v", got, tt.want)
			}
			if tt.wantText != "" && !strings.HasSuffix(got.Error(), tt.wantText) {
				t.Errorf("MapError text = %q, want suffix %q", got.Error(), tt.wantText)
			}
		})
	}
}
