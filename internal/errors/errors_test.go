package errors

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorWrapping(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Wrap(cause, ErrCodeInternal, "saving document")

	require.Error(t, err)
	assert.Equal(t, "saving document: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsInternal(err))
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "ignored"))
	assert.Nil(t, Wrapf(nil, ErrCodeInternal, "ignored %d", 1))
}

func TestCodePredicates(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"not found", NotFound("missing"), IsNotFound},
		{"conflict", Conflict("duplicate"), IsConflict},
		{"validation", ValidationField("title", "required"), IsValidation},
		{"unauthorized", Unauthorized("no session"), IsUnauthorized},
		{"unavailable", Unavailable("upstream down"), IsUnavailable},
		{"wrapped", fmt.Errorf("outer: %w", NotFound("inner")), IsNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
		})
	}
}

func TestGetField(t *testing.T) {
	assert.Equal(t, "title", GetField(ValidationField("title", "required")))
	assert.Empty(t, GetField(fmt.Errorf("plain")))
}

func TestMapDBError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode ErrorCode
	}{
		{"no rows", pgx.ErrNoRows, ErrCodeNotFound},
		{"deadline", context.DeadlineExceeded, ErrCodeTimeout},
		{"canceled", context.Canceled, ErrCodeCanceled},
		{
			"unique violation",
			&pgconn.PgError{Code: pgerrcode.UniqueViolation, Detail: `Key (path, id)=(wishlists/u1/items, 42) already exists.`},
			ErrCodeConflict,
		},
		{
			"not null violation",
			&pgconn.PgError{Code: pgerrcode.NotNullViolation, ColumnName: "fields"},
			ErrCodeValidation,
		},
		{
			"unknown pg error",
			&pgconn.PgError{Code: pgerrcode.SerializationFailure},
			ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := MapDBError(tt.err)
			assert.Equal(t, tt.wantCode, GetCode(mapped))
			assert.ErrorIs(t, mapped, tt.err)
		})
	}
}

func TestMapDBErrorPassthrough(t *testing.T) {
	assert.NoError(t, MapDBError(nil))

	plain := fmt.Errorf("not a database error")
	assert.Same(t, plain, MapDBError(plain))
}

func TestMapUniqueViolationFieldFromDetail(t *testing.T) {
	mapped := MapDBError(&pgconn.PgError{
		Code:   pgerrcode.UniqueViolation,
		Detail: `Key (path, (fields ->> 'id'::text))=(wishlists/u1/items, 42) already exists.`,
	})
	assert.Equal(t, "path, (fields ->> 'id'::text)", GetField(mapped))
}
