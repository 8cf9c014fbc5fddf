package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lindabi/backend/internal/domain/shared"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(method, path, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandlerSuccess(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext("GET", "/", "")

	h.Success(c, gin.H{"key": "value"})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

func TestBaseHandlerHandleError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedErr  string
	}{
		{
			name:         "not found maps to 404",
			err:          shared.ErrNotFound,
			expectedCode: http.StatusNotFound,
			expectedErr:  "NOT_FOUND",
		},
		{
			name:         "wrapped already exists maps to 409",
			err:          errors.Join(errors.New("insert tender"), shared.ErrAlreadyExists),
			expectedCode: http.StatusConflict,
			expectedErr:  "ALREADY_EXISTS",
		},
		{
			name:         "domain error maps to 400",
			err:          shared.NewDomainError("INVALID_COPY_TARGET", "cannot copy items onto the source tender"),
			expectedCode: http.StatusBadRequest,
			expectedErr:  "INVALID_COPY_TARGET",
		},
		{
			name:         "status transition error maps to 422",
			err:          shared.NewDomainError("INVALID_STATUS_TRANSITION", "cannot move from won to inquiry"),
			expectedCode: http.StatusUnprocessableEntity,
			expectedErr:  "INVALID_STATUS_TRANSITION",
		},
		{
			name:         "unknown error maps to 500",
			err:          errors.New("boom"),
			expectedCode: http.StatusInternalServerError,
			expectedErr:  "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newTestContext("GET", "/", "")

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.expectedCode, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.expectedErr, resp.Error.Code)
		})
	}
}

func TestTenderHandlerRejectsMissingHeaders(t *testing.T) {
	h := NewTenderHandler(nil, nil, nil)

	t.Run("missing tenant header", func(t *testing.T) {
		c, w := newTestContext("GET", "/tenders/"+uuid.NewString(), "")
		c.Request.Header.Set("X-User-ID", uuid.NewString())

		h.Get(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing user header", func(t *testing.T) {
		c, w := newTestContext("GET", "/tenders/"+uuid.NewString(), "")
		c.Request.Header.Set("X-Tenant-ID", uuid.NewString())

		h.Get(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed tenant header", func(t *testing.T) {
		c, w := newTestContext("GET", "/tenders/"+uuid.NewString(), "")
		c.Request.Header.Set("X-Tenant-ID", "not-a-uuid")
		c.Request.Header.Set("X-User-ID", uuid.NewString())

		h.Get(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTenderHandlerRejectsInvalidPathID(t *testing.T) {
	h := NewTenderHandler(nil, nil, nil)

	c, w := newTestContext("GET", "/tenders/abc", "")
	c.Request.Header.Set("X-Tenant-ID", uuid.NewString())
	c.Request.Header.Set("X-User-ID", uuid.NewString())
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	h.Get(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "BAD_REQUEST", resp.Error.Code)
}

func TestTenderHandlerRejectsInvalidBody(t *testing.T) {
	h := NewTenderHandler(nil, nil, nil)

	t.Run("create requires contractor and customer", func(t *testing.T) {
		c, w := newTestContext("POST", "/tenders", `{"currency":"HUF"}`)
		c.Request.Header.Set("X-Tenant-ID", uuid.NewString())
		c.Request.Header.Set("X-User-ID", uuid.NewString())

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("move rejects unknown direction", func(t *testing.T) {
		c, w := newTestContext("POST", "/tenders/x/items/y/move", `{"direction":"sideways"}`)
		c.Request.Header.Set("X-Tenant-ID", uuid.NewString())
		c.Request.Header.Set("X-User-ID", uuid.NewString())
		c.Params = gin.Params{
			{Key: "id", Value: uuid.NewString()},
			{Key: "itemId", Value: uuid.NewString()},
		}

		h.MoveItem(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUpdateTenderRequestToPatch(t *testing.T) {
	status := "sent"
	fee := 12.5
	notes := "call back"

	req := updateTenderRequest{
		Status: &status,
		Fee:    &fee,
		Notes:  &notes,
	}
	patch := req.toPatch()

	require.NotNil(t, patch.Status)
	assert.Equal(t, "sent", patch.Status.String())
	require.NotNil(t, patch.Fee)
	assert.True(t, patch.Fee.Equal(decimal.NewFromFloat(12.5)))
	require.NotNil(t, patch.Notes)
	assert.Nil(t, patch.Surcharge)
	assert.Nil(t, patch.ContractorID)
}
