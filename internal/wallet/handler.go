package wallet

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"servicehub/internal/api"
	"servicehub/internal/apperr"
	"servicehub/internal/auth"
	"servicehub/internal/metrics"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

type TopUpRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

func (h *Handler) GetBalance(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	w, err := h.repo.GetOrCreate(c.Request.Context(), userID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, w)
}

// TopUp credits the wallet named in the path. Routed for admins only.
func (h *Handler) TopUp(c *gin.Context) {
	userID, err := uuid.FromString(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Amount.IsPositive() {
		api.RespondError(c, apperr.ErrValidation)
		return
	}

	t, err := h.repo.TopUp(c.Request.Context(), userID, req.Amount)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	metrics.RecordWalletTopUp()

	c.JSON(http.StatusOK, gin.H{
		"message":     "wallet recharged",
		"transaction": t,
	})
}

func (h *Handler) ListTransactions(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	limit, _ := strconv.ParseUint(c.DefaultQuery("limit", "50"), 10, 64)
	offset, _ := strconv.ParseUint(c.DefaultQuery("offset", "0"), 10, 64)

	f := Filter{
		Type:   TransactionType(c.Query("type")),
		Status: TransactionStatus(c.Query("status")),
		Limit:  limit,
		Offset: offset,
	}
	if f.Type != "" && !f.Type.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown transaction type"})
		return
	}
	if f.Status != "" && !f.Status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown transaction status"})
		return
	}

	txs, err := h.repo.ListTransactions(c.Request.Context(), userID, f)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, txs)
}
