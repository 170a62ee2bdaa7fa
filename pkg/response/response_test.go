package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"medilink-api/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestFromErrorMapsKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
		kind   string
	}{
		{apperror.Validation(map[string]string{"email": "bad"}), http.StatusUnprocessableEntity, "validation"},
		{apperror.Forbidden("nope"), http.StatusForbidden, "forbidden"},
		{apperror.NotFound("Annonce"), http.StatusNotFound, "not_found"},
		{apperror.Domain("role not found"), http.StatusBadRequest, "domain"},
		{apperror.Conflict("already cancelled"), http.StatusConflict, "conflict"},
		{apperror.Unauthorized("invalid token"), http.StatusUnauthorized, "unauthorized"},
	}

	for _, c := range cases {
		rec := httptest.NewRecorder()
		FromError(rec, c.err, "fallback")

		assert.Equal(t, c.status, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, c.kind, body["error"].(map[string]interface{})["kind"])
	}
}

func TestFromErrorDoesNotLeakInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	FromError(rec, errors.New("pq: relation users does not exist"), "Registration failed")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "relation users")

	body := decode(t, rec)
	assert.Equal(t, "Registration failed", body["message"])
}

func TestValidationErrorListsFields(t *testing.T) {
	rec := httptest.NewRecorder()
	ValidationError(rec, map[string]string{"name": "name is required", "phone": "phone is required"})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	fields := decode(t, rec)["error"].(map[string]interface{})["fields"].(map[string]interface{})
	assert.Len(t, fields, 2)
}
