package listing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/service/listing"
	"github.com/jwalitptl/property-api/pkg/httputil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockListingService struct {
	listing.ListingServicer
	mock.Mock
}

func (m *mockListingService) GetBySlug(ctx context.Context, slug string) (*model.ListingView, error) {
	args := m.Called(ctx, slug)
	view, _ := args.Get(0).(*model.ListingView)
	return view, args.Error(1)
}

func newRouter(svc listing.ListingServicer) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Next()
		if len(c.Errors) > 0 && !c.Writer.Written() {
			httputil.RespondWithError(c, c.Errors.Last().Err)
		}
	})
	NewHandler(svc, nil).RegisterPublicRoutes(r.Group("/api/v1"))
	return r
}

func TestGetBySlug_OnlyActiveIsPublic(t *testing.T) {
	cases := map[model.ListingStatus]int{
		model.ListingStatusActive:  http.StatusOK,
		model.ListingStatusDraft:   http.StatusNotFound,
		model.ListingStatusPaused:  http.StatusNotFound,
		model.ListingStatusRented:  http.StatusNotFound,
		model.ListingStatusExpired: http.StatusNotFound,
	}
	for status, want := range cases {
		t.Run(string(status), func(t *testing.T) {
			svc := new(mockListingService)
			svc.On("GetBySlug", mock.Anything, "loft-a").
				Return(&model.ListingView{Listing: &model.Listing{Title: "Loft A", Slug: "loft-a", Status: status}}, nil)

			w := httptest.NewRecorder()
			newRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/marketplace/listings/loft-a", nil))

			assert.Equal(t, want, w.Code)
			if want == http.StatusNotFound {
				assert.NotContains(t, w.Body.String(), "Loft A")
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestGetBySlug_Missing(t *testing.T) {
	svc := new(mockListingService)
	svc.On("GetBySlug", mock.Anything, "gone").Return(nil, nil)

	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/marketplace/listings/gone", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
