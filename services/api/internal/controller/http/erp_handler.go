package http

import (
	"net/http"

	"loyalty-hub/pkg/logger"
	"loyalty-hub/services/api/internal/usecase"

	"github.com/gin-gonic/gin"
)

type ERPHandler struct {
	erpUseCase usecase.ERPUseCase
	logger     *logger.Logger
}

func NewERPHandler(erpUseCase usecase.ERPUseCase, logger *logger.Logger) *ERPHandler {
	return &ERPHandler{
		erpUseCase: erpUseCase,
		logger:     logger,
	}
}

// Connect godoc
// @Summary      Test the ERP connection
// @Tags         erp
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.ConnectionStatus
// @Router       /erp/connect [post]
func (h *ERPHandler) Connect(c *gin.Context) {
	status, err := h.erpUseCase.TestConnection(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "test erp connection", err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// Status godoc
// @Summary      ERP connection status
// @Tags         erp
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.ConnectionStatus
// @Router       /erp/status [get]
func (h *ERPHandler) Status(c *gin.Context) {
	status, err := h.erpUseCase.Status(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "get erp status", err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// SyncCustomers godoc
// @Summary      Sync customers from the ERP
// @Tags         erp
// @Produce      json
// @Security     BearerAuth
// @Param        since  query  string  false  "Only rows modified since (YYYY-MM-DD or RFC 3339)"
// @Success      200  {object}  entity.SyncResult
// @Failure      400  {object}  map[string]string
// @Router       /erp/sync/customers [post]
func (h *ERPHandler) SyncCustomers(c *gin.Context) {
	since, err := queryTime(c, "since")
	if err != nil {
		respondError(c, h.logger, "sync erp customers", err)
		return
	}

	result, err := h.erpUseCase.SyncCustomers(c.Request.Context(), since)
	if err != nil {
		respondError(c, h.logger, "sync erp customers", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SyncSales godoc
// @Summary      Import ERP sales as loyalty points
// @Description  Sales already imported are skipped
// @Tags         erp
// @Produce      json
// @Security     BearerAuth
// @Param        since  query  string  false  "Only sales since (YYYY-MM-DD or RFC 3339)"
// @Success      200  {object}  entity.SyncResult
// @Failure      400  {object}  map[string]string
// @Router       /erp/sync/sales [post]
func (h *ERPHandler) SyncSales(c *gin.Context) {
	since, err := queryTime(c, "since")
	if err != nil {
		respondError(c, h.logger, "sync erp sales", err)
		return
	}

	result, err := h.erpUseCase.SyncSales(c.Request.Context(), since)
	if err != nil {
		respondError(c, h.logger, "sync erp sales", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SyncAll godoc
// @Summary      Full ERP sync
// @Tags         erp
// @Produce      json
// @Security     BearerAuth
// @Param        incremental  query  bool  false  "Only changes since the last successful sync"
// @Success      200  {object}  entity.SyncResult
// @Failure      400  {object}  map[string]string
// @Router       /erp/sync/all [post]
func (h *ERPHandler) SyncAll(c *gin.Context) {
	sync := h.erpUseCase.SyncAll
	if c.Query("incremental") == "true" {
		sync = h.erpUseCase.IncrementalSync
	}

	result, err := sync(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "sync erp", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DataSummary godoc
// @Summary      ERP and local record counts
// @Tags         erp
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.DataSummary
// @Router       /erp/data-summary [get]
func (h *ERPHandler) DataSummary(c *gin.Context) {
	summary, err := h.erpUseCase.DataSummary(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "get erp data summary", err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Mappings godoc
// @Summary      ERP field mappings
// @Tags         erp
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   entity.FieldMapping
// @Router       /erp/mappings [get]
func (h *ERPHandler) Mappings(c *gin.Context) {
	c.JSON(http.StatusOK, h.erpUseCase.Mappings())
}

// SyncHistory godoc
// @Summary      Recent sync runs
// @Tags         erp
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query  int  false  "Max runs" default(20)
// @Success      200  {array}   entity.SyncRun
// @Router       /erp/sync-history [get]
func (h *ERPHandler) SyncHistory(c *gin.Context) {
	runs, err := h.erpUseCase.SyncHistory(c.Request.Context(), queryInt(c, "limit", 0))
	if err != nil {
		respondError(c, h.logger, "get sync history", err)
		return
	}

	c.JSON(http.StatusOK, runs)
}

// SyncReport godoc
// @Summary      Sync report
// @Tags         erp
// @Produce      json
// @Security     BearerAuth
// @Param        days  query  int  false  "Period in days" default(7)
// @Success      200  {object}  entity.SyncReport
// @Router       /erp/sync-report [get]
func (h *ERPHandler) SyncReport(c *gin.Context) {
	report, err := h.erpUseCase.SyncReport(c.Request.Context(), queryInt(c, "days", 0))
	if err != nil {
		respondError(c, h.logger, "get sync report", err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// IntegrationHealth godoc
// @Summary      ERP integration health
// @Tags         erp
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.IntegrationHealth
// @Router       /erp/integration-health [get]
func (h *ERPHandler) IntegrationHealth(c *gin.Context) {
	health, err := h.erpUseCase.IntegrationHealth(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "get integration health", err)
		return
	}

	c.JSON(http.StatusOK, health)
}
