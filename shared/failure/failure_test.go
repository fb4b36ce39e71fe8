package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prestige/shared/failure"
)

var errOverlap = errors.New("vehicle already booked for these dates")

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{name: "bad request", err: failure.BadRequest(errors.New("bad date")), code: http.StatusBadRequest, message: "bad date"},
		{name: "bad request from string", err: failure.BadRequestFromString("rating is required"), code: http.StatusBadRequest, message: "rating is required"},
		{name: "unauthorized", err: failure.Unauthorized("token expired"), code: http.StatusUnauthorized, message: "token expired"},
		{name: "internal", err: failure.InternalError(errors.New("db down")), code: http.StatusInternalServerError, message: "db down"},
		{name: "unimplemented", err: failure.Unimplemented("Export"), code: http.StatusNotImplemented, message: "Export"},
		{name: "not found", err: failure.NotFound("vehicle not found"), code: http.StatusNotFound, message: "vehicle not found"},
		{name: "conflict", err: failure.Conflict("service already attached"), code: http.StatusConflict, message: "service already attached"},
		{name: "new", err: failure.New(http.StatusTooManyRequests, "slow down"), code: http.StatusTooManyRequests, message: "slow down"},
		{name: "forbidden", err: failure.Forbidden("not your booking"), code: http.StatusForbidden, message: "not your booking"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fail *failure.Failure

			require.ErrorAs(t, tt.err, &fail)
			assert.Equal(t, tt.code, fail.Code)
			assert.Equal(t, tt.message, fail.Error())
		})
	}
}

func TestNilInputs(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))
	assert.NoError(t, failure.InternalError(nil))
	assert.NoError(t, failure.Wrap(http.StatusConflict, nil))
}

func TestWrap(t *testing.T) {
	err := failure.Wrap(http.StatusConflict, errOverlap)

	assert.ErrorIs(t, err, errOverlap)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	assert.Equal(t, errOverlap.Error(), err.Error())

	wrapped := fmt.Errorf("failed to create booking: %w", err)

	assert.ErrorIs(t, wrapped, errOverlap)
	assert.Equal(t, http.StatusConflict, failure.GetCode(wrapped))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(failure.InvalidPageParam))
	assert.Equal(t, http.StatusForbidden, failure.GetCode(failure.ForbiddenError))
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(errors.New("plain")))
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(nil))
}
