package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"betaware/internal/middleware"
	"betaware/internal/model"
	"betaware/internal/service"
	"betaware/internal/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BetHandler handles bet related requests
type BetHandler struct {
	service service.BetService
	log     *zap.Logger
}

// NewBetHandler creates a new BetHandler
func NewBetHandler(s service.BetService, log *zap.Logger) *BetHandler {
	return &BetHandler{service: s, log: log}
}

func (h *BetHandler) claims(c *gin.Context) (*token.Claims, bool) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required", nil)
		return nil, false
	}
	return claims, true
}

func (h *BetHandler) CreateBet(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}

	var req model.CreateBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	bet, err := h.service.Create(c.Request.Context(), claims, req)
	if err != nil {
		h.respondServiceError(c, err, "create bet")
		return
	}
	respondData(c, http.StatusCreated, "Bet created successfully", bet)
}

func (h *BetHandler) GetMyBets(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}

	bets, err := h.service.ListOwn(c.Request.Context(), claims)
	if err != nil {
		h.respondServiceError(c, err, "list own bets")
		return
	}
	respondList(c, bets, len(bets), nil)
}

// GetBetsByPeriod lists every bet whose event time falls in the
// requested range. Unauthenticated by design; it serves reporting.
func (h *BetHandler) GetBetsByPeriod(c *gin.Context) {
	start, end, ok := parsePeriod(c)
	if !ok {
		return
	}

	bets, err := h.service.ListByPeriod(c.Request.Context(), start, end, nil)
	if err != nil {
		h.respondServiceError(c, err, "list bets by period")
		return
	}
	respondList(c, bets, len(bets), &Period{Start: start, End: end})
}

// GetMyBetsByPeriod is the owner-scoped flavor of the period listing
func (h *BetHandler) GetMyBetsByPeriod(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}
	start, end, ok := parsePeriod(c)
	if !ok {
		return
	}

	bets, err := h.service.ListByPeriod(c.Request.Context(), start, end, &claims.UserID)
	if err != nil {
		h.respondServiceError(c, err, "list own bets by period")
		return
	}
	respondList(c, bets, len(bets), &Period{Start: start, End: end})
}

func (h *BetHandler) UpdateBet(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}

	betID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid bet ID", nil)
		return
	}

	var req model.UpdateBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	bet, err := h.service.Update(c.Request.Context(), claims, betID, req)
	if err != nil {
		h.respondServiceError(c, err, "update bet")
		return
	}
	respondData(c, http.StatusOK, "Bet updated successfully", bet)
}

func (h *BetHandler) DeleteBet(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}

	betID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid bet ID", nil)
		return
	}

	if err := h.service.Delete(c.Request.Context(), claims, betID); err != nil {
		h.respondServiceError(c, err, "delete bet")
		return
	}
	respondData(c, http.StatusOK, "Bet deleted successfully", nil)
}

// GetAllBetsAdmin lists every bet, optionally filtered by period
func (h *BetHandler) GetAllBetsAdmin(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}

	var filters model.BetFilters
	if v := c.Query("start"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid start date, use RFC3339", nil)
			return
		}
		filters.StartDate = &t
	}
	if v := c.Query("end"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid end date, use RFC3339", nil)
			return
		}
		filters.EndDate = &t
	}

	bets, err := h.service.ListAll(c.Request.Context(), claims, filters)
	if err != nil {
		h.respondServiceError(c, err, "list all bets")
		return
	}
	respondList(c, bets, len(bets), nil)
}

// parsePeriod reads the mandatory start/end query parameters. Bounds are
// inclusive; start after end is allowed and simply matches nothing.
func parsePeriod(c *gin.Context) (time.Time, time.Time, bool) {
	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid start date, use RFC3339", nil)
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid end date, use RFC3339", nil)
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func (h *BetHandler) respondServiceError(c *gin.Context, err error, action string) {
	var vErr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrBetNotFound):
		respondError(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, service.ErrForbidden):
		respondError(c, http.StatusForbidden, err.Error(), nil)
	case errors.As(err, &vErr):
		respondError(c, http.StatusBadRequest, "Invalid data", vErr.Fields)
	default:
		h.log.Error("bet operation failed", zap.String("action", action), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Internal server error", nil)
	}
}

// RegisterBetRoutes registers bet routes
func (h *BetHandler) RegisterBetRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	bets := rg.Group("/bets")
	{
		bets.GET("/period", h.GetBetsByPeriod) // public reporting endpoint

		authed := bets.Group("")
		authed.Use(authMW)
		{
			authed.POST("", h.CreateBet)
			authed.GET("", h.GetMyBets)
			authed.GET("/user/period", h.GetMyBetsByPeriod)
			authed.PUT("/:id", h.UpdateBet)
			authed.DELETE("/:id", h.DeleteBet)
		}
	}

	admin := rg.Group("/admin")
	admin.Use(authMW)
	admin.Use(adminMW)
	{
		admin.GET("/bets", h.GetAllBetsAdmin)
	}
}
