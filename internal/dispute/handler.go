package dispute

import (
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

type OpenRequest struct {
	ReasonID    string `json:"reason_id" validate:"required,uuid"`
	Description string `json:"description" validate:"max=2000"`
}

func (h *Handler) Open(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	bookingID, err := uuid.FromString(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	var req OpenRequest
	if !api.BindJSON(c, &req) {
		return
	}

	d, err := h.service.Open(c.Request.Context(), OpenInput{
		BookingID:   bookingID,
		CallerID:    userID,
		ReasonID:    uuid.FromStringOrNil(req.ReasonID),
		Description: req.Description,
	})
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *Handler) List(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	bookingID, err := uuid.FromString(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	disputes, err := h.service.ListForBooking(c.Request.Context(), bookingID, userID)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, disputes)
}
