package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jwalitptl/property-api/pkg/errors"
	"github.com/jwalitptl/property-api/pkg/httputil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// render mimics the error middleware so the helpers can be tested alone.
func render(c *gin.Context) {
	c.Next()
	if len(c.Errors) > 0 && !c.Writer.Written() {
		httputil.RespondWithError(c, c.Errors.Last().Err)
	}
}

type filter struct {
	Status   string     `form:"status"`
	TenantID *uuid.UUID `form:"-"`
}

func TestBindFilter(t *testing.T) {
	r := gin.New()
	r.Use(render)
	r.GET("/", func(c *gin.Context) {
		var f filter
		if !BindFilter(c, &f, QueryID{Name: "tenant_id", Dst: &f.TenantID}) {
			return
		}
		OK(c, f)
	})

	tenantID := uuid.New()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?status=paid&tenant_id="+tenantID.String(), nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Status   string
			TenantID *uuid.UUID
		}
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "paid", body.Data.Status)
	require.NotNil(t, body.Data.TenantID)
	assert.Equal(t, tenantID, *body.Data.TenantID)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?tenant_id=nope", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid tenant_id")
}

type createReq struct {
	Name string `json:"name" binding:"required"`
}

func TestCreateAndByID(t *testing.T) {
	r := gin.New()
	r.Use(render)
	r.POST("/things", func(c *gin.Context) {
		Create(c, func(_ context.Context, _ uuid.UUID, req *createReq) (string, error) {
			return "created " + req.Name, nil
		})
	})
	r.GET("/things/:id", func(c *gin.Context) {
		ByID(c, func(context.Context, uuid.UUID, uuid.UUID) (string, error) {
			return "", apperrors.NotFound("Thing")
		})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/things", strings.NewReader(`{"name":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "created x")

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/things", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation failed")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/things/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/things/123", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
