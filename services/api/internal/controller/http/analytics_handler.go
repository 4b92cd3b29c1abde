package http

import (
	"net/http"

	"loyalty-hub/pkg/logger"
	"loyalty-hub/services/api/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsUseCase usecase.AnalyticsUseCase
	logger           *logger.Logger
}

func NewAnalyticsHandler(analyticsUseCase usecase.AnalyticsUseCase, logger *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsUseCase: analyticsUseCase,
		logger:           logger,
	}
}

// Dashboard godoc
// @Summary      KPI dashboard
// @Description  Defaults to the last 30 days. Trends compare against the previous period of equal length.
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        date_from  query  string  false  "From (YYYY-MM-DD or RFC 3339)"
// @Param        date_to    query  string  false  "To (YYYY-MM-DD or RFC 3339)"
// @Success      200  {object}  entity.Dashboard
// @Failure      400  {object}  map[string]string
// @Router       /analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	from, to, err := queryPeriod(c)
	if err != nil {
		respondError(c, h.logger, "get dashboard", err)
		return
	}

	dashboard, err := h.analyticsUseCase.Dashboard(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, h.logger, "get dashboard", err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// CustomerAnalytics godoc
// @Summary      Customer analytics
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.CustomerAnalyticsReport
// @Router       /analytics/customers [get]
func (h *AnalyticsHandler) CustomerAnalytics(c *gin.Context) {
	report, err := h.analyticsUseCase.CustomerAnalytics(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "get customer analytics", err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// LoyaltyAnalytics godoc
// @Summary      Loyalty analytics
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        date_from  query  string  false  "From (YYYY-MM-DD or RFC 3339)"
// @Param        date_to    query  string  false  "To (YYYY-MM-DD or RFC 3339)"
// @Success      200  {object}  entity.LoyaltyAnalyticsReport
// @Failure      400  {object}  map[string]string
// @Router       /analytics/loyalty [get]
func (h *AnalyticsHandler) LoyaltyAnalytics(c *gin.Context) {
	from, to, err := queryPeriod(c)
	if err != nil {
		respondError(c, h.logger, "get loyalty analytics", err)
		return
	}

	report, err := h.analyticsUseCase.LoyaltyAnalytics(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, h.logger, "get loyalty analytics", err)
		return
	}

	c.JSON(http.StatusOK, report)
}
