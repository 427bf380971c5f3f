package quotation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"servicehub/internal/apperr"
	"servicehub/internal/booking"
)

type MockService struct{ mock.Mock }

func (m *MockService) Submit(ctx context.Context, in SubmitInput) (*Quotation, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Quotation), args.Error(1)
}

func (m *MockService) Accept(ctx context.Context, in AcceptInput) (*booking.Booking, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockService) Reject(ctx context.Context, in RejectInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *MockService) MarkRead(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockService) ListForJob(ctx context.Context, jobID uuid.UUID) ([]Quotation, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Quotation), args.Error(1)
}

func newRouter(svc Service, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})
	router.GET("/jobs/:jobID/quotations", h.ListForJob)
	router.POST("/jobs/:jobID/quotations", h.Submit)
	router.POST("/jobs/:jobID/quotations/:quotationID/accept", h.Accept)
	router.POST("/jobs/:jobID/quotations/:quotationID/reject", h.Reject)
	router.POST("/quotations/:quotationID/read", h.MarkRead)
	return router
}

func acceptPath() string {
	return "/jobs/" + testJobID.String() + "/quotations/" + testQuotationID.String() + "/accept"
}

func TestHandler_Submit_InsufficientCredit(t *testing.T) {
	svc := new(MockService)
	svc.On("Submit", mock.Anything, mock.MatchedBy(func(in SubmitInput) bool {
		return in.ServiceProviderID == testProviderID && in.JobID == testJobID
	})).Return(nil, apperr.ErrInsufficientCredit)

	body := `{"budget":"500","cover":"hi","date":"2026-11-01T10:00:00Z"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/jobs/"+testJobID.String()+"/quotations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	newRouter(svc, testProviderID).ServeHTTP(w, req)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Contains(t, w.Body.String(), "INSUFFICIENT_CREDIT_BALANCE")
}

func TestHandler_Submit_MissingDate(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/jobs/"+testJobID.String()+"/quotations", strings.NewReader(`{"budget":"500"}`))
	req.Header.Set("Content-Type", "application/json")
	newRouter(new(MockService), testProviderID).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Accept_WithoutBody(t *testing.T) {
	svc := new(MockService)
	svc.On("Accept", mock.Anything, AcceptInput{JobID: testJobID, QuotationID: testQuotationID, ClientID: testClientID}).
		Return(&booking.Booking{ID: testBookingID}, nil)

	w := httptest.NewRecorder()
	newRouter(svc, testClientID).ServeHTTP(w, httptest.NewRequest(http.MethodPost, acceptPath(), nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), testBookingID.String())
}

func TestHandler_Accept_WithPromotion(t *testing.T) {
	svc := new(MockService)
	svc.On("Accept", mock.Anything, mock.MatchedBy(func(in AcceptInput) bool {
		return in.PromotionID != nil && *in.PromotionID == testGrantID
	})).Return(nil, apperr.ErrPromotionNotFound)

	body := `{"promotion_id":"` + testGrantID.String() + `"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, acceptPath(), strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	newRouter(svc, testClientID).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "PROMOTION_NOT_FOUND")
}

func TestHandler_Accept_ChunkedPromotion(t *testing.T) {
	svc := new(MockService)
	svc.On("Accept", mock.Anything, mock.MatchedBy(func(in AcceptInput) bool {
		return in.PromotionID != nil && *in.PromotionID == testGrantID
	})).Return(&booking.Booking{ID: testBookingID}, nil)

	body := `{"promotion_id":"` + testGrantID.String() + `"}`
	req := httptest.NewRequest(http.MethodPost, acceptPath(), strings.NewReader(body))
	req.ContentLength = -1
	req.TransferEncoding = []string{"chunked"}
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	newRouter(svc, testClientID).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestHandler_Accept_InsufficientBalance(t *testing.T) {
	svc := new(MockService)
	svc.On("Accept", mock.Anything, mock.Anything).Return(nil, apperr.ErrInsufficientBalance)

	w := httptest.NewRecorder()
	newRouter(svc, testClientID).ServeHTTP(w, httptest.NewRequest(http.MethodPost, acceptPath(), nil))

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}

func TestHandler_Reject_Conflict(t *testing.T) {
	svc := new(MockService)
	svc.On("Reject", mock.Anything, mock.Anything).Return(apperr.InvalidState("quotation is accepted"))

	body := `{"reason_id":"` + testReasonID.String() + `"}`
	path := "/jobs/" + testJobID.String() + "/quotations/" + testQuotationID.String() + "/reject"
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	newRouter(svc, testClientID).ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandler_MarkRead(t *testing.T) {
	svc := new(MockService)
	svc.On("MarkRead", mock.Anything, testQuotationID).Return(nil)

	w := httptest.NewRecorder()
	newRouter(svc, testClientID).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/quotations/"+testQuotationID.String()+"/read", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestHandler_ListForJob_BadID(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter(new(MockService), testClientID).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/jobs/nope/quotations", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
