package response_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kinderhort/childcare-registration/internal/utils/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	err := response.WriteJSON(rec, http.StatusTeapot, map[string]int{"cups": 2})
	require.NoError(t, err)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"cups":2}`, rec.Body.String())
}

func TestErrorShapes(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, response.WriteJSON(rec, http.StatusInternalServerError, response.Error("Database error occurred")))
	assert.JSONEq(t, `{"status":"error","error":"Database error occurred"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	require.NoError(t, response.WriteJSON(rec, http.StatusBadRequest, response.ValidationErrors([]string{"a", "b"})))
	assert.JSONEq(t, `{"status":"error","errors":["a","b"]}`, rec.Body.String())

	assert.Equal(t, "bad id", response.GeneralError(errors.New("bad id")).Error)
}
