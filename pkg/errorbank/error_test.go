package errorbank

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
)

func TestStatusCodes(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, BadRequest("x").StatusCode())
	assert.Equal(t, http.StatusUnauthorized, Unauthorized("x").StatusCode())
	assert.Equal(t, http.StatusConflict, Conflict("x").StatusCode())
	assert.Equal(t, http.StatusNotFound, NotFound("x").StatusCode())
	assert.Equal(t, http.StatusUnprocessableEntity, Unprocessable("x").StatusCode())
	assert.Equal(t, http.StatusBadGateway, BadGatewayErr("x").StatusCode())
	assert.Equal(t, http.StatusInternalServerError, Internal("x").StatusCode())
}

func TestGRPCCodes(t *testing.T) {
	assert.Equal(t, codes.Unauthenticated, Unauthorized("x").GRPCCode())
	assert.Equal(t, codes.Unavailable, BadGatewayErr("x").GRPCCode())
	assert.Equal(t, codes.InvalidArgument, BadRequest("x").GRPCCode())
}

func TestFrom(t *testing.T) {
	appErr := NotFound("missing")
	assert.Same(t, appErr, From(appErr))

	wrapped := From(errors.New("boom"))
	assert.Equal(t, KindInternal, wrapped.Kind())

	assert.Nil(t, From(nil))
}

func TestWithCauseAndDetails(t *testing.T) {
	cause := errors.New("root")
	err := BadRequest("invalid", WithCause(cause), WithDetail("field", "email"))

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "email", err.Details()["field"])
	assert.Equal(t, "invalid", err.Message())
}
