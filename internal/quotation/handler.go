package quotation

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"servicehub/internal/api"
	"servicehub/internal/auth"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type SubmitRequest struct {
	Budget decimal.Decimal `json:"budget"`
	Cover  string          `json:"cover" validate:"max=5000"`
	Date   time.Time       `json:"date" validate:"required"`
}

type AcceptRequest struct {
	PromotionID string `json:"promotion_id" validate:"omitempty,uuid"`
}

type RejectRequest struct {
	ReasonID    string `json:"reason_id" validate:"required,uuid"`
	Description string `json:"description" validate:"max=2000"`
}

// Submit godoc
// @Summary Submit a quotation on a job
// @Tags quotations
// @Param jobID path string true "Job ID"
// @Success 201 {object} Quotation
// @Failure 402 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /jobs/{jobID}/quotations [post]
func (h *Handler) Submit(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	jobID, ok := pathID(c, "jobID")
	if !ok {
		return
	}

	var req SubmitRequest
	if !api.BindJSON(c, &req) {
		return
	}

	q, err := h.service.Submit(c.Request.Context(), SubmitInput{
		JobID:             jobID,
		ServiceProviderID: userID,
		Budget:            req.Budget,
		Cover:             req.Cover,
		Date:              req.Date,
	})
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, q)
}

// Accept godoc
// @Summary Accept a quotation and book the job
// @Tags quotations
// @Param jobID path string true "Job ID"
// @Param quotationID path string true "Quotation ID"
// @Success 201 {object} booking.Booking
// @Failure 402 {object} api.ErrorResponse
// @Router /jobs/{jobID}/quotations/{quotationID}/accept [post]
func (h *Handler) Accept(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	jobID, ok := pathID(c, "jobID")
	if !ok {
		return
	}
	quotationID, ok := pathID(c, "quotationID")
	if !ok {
		return
	}

	in := AcceptInput{JobID: jobID, QuotationID: quotationID, ClientID: userID}

	// The body is optional; it only carries a promotion.
	var req AcceptRequest
	if !api.BindOptionalJSON(c, &req) {
		return
	}
	if req.PromotionID != "" {
		id := uuid.FromStringOrNil(req.PromotionID)
		in.PromotionID = &id
	}

	b, err := h.service.Accept(c.Request.Context(), in)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *Handler) Reject(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	jobID, ok := pathID(c, "jobID")
	if !ok {
		return
	}
	quotationID, ok := pathID(c, "quotationID")
	if !ok {
		return
	}

	var req RejectRequest
	if !api.BindJSON(c, &req) {
		return
	}

	err := h.service.Reject(c.Request.Context(), RejectInput{
		JobID:       jobID,
		QuotationID: quotationID,
		ClientID:    userID,
		ReasonID:    uuid.FromStringOrNil(req.ReasonID),
		Description: req.Description,
	})
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "quotation rejected"})
}

func (h *Handler) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "quotationID")
	if !ok {
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), id); err != nil {
		api.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListForJob(c *gin.Context) {
	jobID, ok := pathID(c, "jobID")
	if !ok {
		return
	}

	quotations, err := h.service.ListForJob(c.Request.Context(), jobID)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quotations)
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.FromString(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
