package booking

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid/v5"

	"servicehub/internal/api"
	"servicehub/internal/auth"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type ReviewRequest struct {
	Rating int `json:"rating" validate:"gte=1,lte=5"`
}

type transitionFunc func(ctx context.Context, bookingID, callerID uuid.UUID) (*Booking, error)

func (h *Handler) RequestStart() gin.HandlerFunc  { return h.transition(h.service.SendRequestToStart) }
func (h *Handler) RequestFinish() gin.HandlerFunc { return h.transition(h.service.SendRequestToFinish) }
func (h *Handler) AcceptStart() gin.HandlerFunc   { return h.transition(h.service.AcceptToStart) }
func (h *Handler) DenyStart() gin.HandlerFunc     { return h.transition(h.service.DenyToStart) }
func (h *Handler) AcceptFinish() gin.HandlerFunc  { return h.transition(h.service.AcceptToFinish) }
func (h *Handler) DenyFinish() gin.HandlerFunc    { return h.transition(h.service.DenyToFinish) }

// transition godoc
// @Summary      Move booking request state
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      string  true  "Booking ID"
// @Success      200        {object}  Booking
// @Failure      404        {object}  api.ErrorResponse
// @Failure      409        {object}  api.ErrorResponse
func (h *Handler) transition(fn transitionFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		bookingID, err := uuid.FromString(c.Param("bookingID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
			return
		}

		b, err := fn(c.Request.Context(), bookingID, userID)
		if err != nil {
			api.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, b)
	}
}

func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	bookings, err := h.service.ListForUser(c.Request.Context(), userID, RequestWorkState(c.Query("request_work_state")))
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *Handler) Get(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	bookingID, err := uuid.FromString(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	b, err := h.service.Get(c.Request.Context(), bookingID, userID)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) Review(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	bookingID, err := uuid.FromString(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	var req ReviewRequest
	if !api.BindJSON(c, &req) {
		return
	}

	if err := h.service.Review(c.Request.Context(), bookingID, userID, req.Rating); err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "review saved"})
}
