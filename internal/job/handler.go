package job

import (
	"net/http"

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

type PostRequest struct {
	ServiceID   string          `json:"service_id" validate:"required,uuid"`
	CategoryID  *uuid.UUID      `json:"category_id"`
	AddressID   *uuid.UUID      `json:"address_id"`
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=5000"`
	Price       decimal.Decimal `json:"price"`
	ViewState   ViewState       `json:"view_state" validate:"omitempty,oneof=public private"`
	Images      []string        `json:"images" validate:"max=6"`
}

type CancelRequest struct {
	ReasonID    string `json:"reason_id" validate:"required,uuid"`
	Description string `json:"description" validate:"max=2000"`
}

func (h *Handler) Post(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req PostRequest
	if !api.BindJSON(c, &req) {
		return
	}

	j, err := h.service.Post(c.Request.Context(), PostInput{
		ClientID:    userID,
		ServiceID:   uuid.FromStringOrNil(req.ServiceID),
		CategoryID:  req.CategoryID,
		AddressID:   req.AddressID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		ViewState:   req.ViewState,
		Images:      req.Images,
	})
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, j)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.FromString(c.Param("jobID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}

	j, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, j)
}

func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	jobs, err := h.service.ListMine(c.Request.Context(), userID, State(c.Query("state")))
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *Handler) Cancel(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := uuid.FromString(c.Param("jobID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}

	var req CancelRequest
	if !api.BindJSON(c, &req) {
		return
	}

	err = h.service.Cancel(c.Request.Context(), CancelInput{
		JobID:       id,
		ClientID:    userID,
		ReasonID:    uuid.FromStringOrNil(req.ReasonID),
		Description: req.Description,
	})
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "job cancelled"})
}
