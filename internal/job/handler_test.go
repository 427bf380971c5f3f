package job

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newRouter(repo *MockRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(NewService(repo))

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", testClientID)
		c.Next()
	})
	router.POST("/jobs", h.Post)
	router.GET("/jobs/:jobID", h.Get)
	router.POST("/jobs/:jobID/cancel", h.Cancel)
	return router
}

func TestHandler_Post(t *testing.T) {
	repo := new(MockRepo)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	body := `{"service_id":"88888888-8888-4888-8888-888888888888","title":"Move a sofa","price":"80"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	newRouter(repo).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"open"`)
}

func TestHandler_Post_MissingTitle(t *testing.T) {
	body := `{"service_id":"88888888-8888-4888-8888-888888888888","price":"80"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	newRouter(new(MockRepo)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Title is required")
}

func TestHandler_Get_BadID(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter(new(MockRepo)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/jobs/42", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Cancel_Booked(t *testing.T) {
	repo := new(MockRepo)
	repo.On("GetByID", mock.Anything, testJobID).Return(&Job{ID: testJobID, ClientID: testClientID, State: StateBooked}, nil)

	body := `{"reason_id":"` + testReasonID.String() + `"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/jobs/"+testJobID.String()+"/cancel", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	newRouter(repo).ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_STATE")
}
