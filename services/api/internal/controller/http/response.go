package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"loyalty-hub/pkg/errs"
	"loyalty-hub/pkg/logger"
	"loyalty-hub/pkg/middleware"
	"loyalty-hub/services/api/internal/entity"
	"loyalty-hub/services/api/internal/usecase"

	"github.com/gin-gonic/gin"
)

// respondError writes {"error": ...} with the status mapped from the error kind.
// Only unexpected failures are logged; typed errors were already logged by the usecase.
func respondError(c *gin.Context, log *logger.Logger, action string, err error) {
	status := errs.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error("Failed to %s: %v", action, err)
	}
	c.JSON(status, gin.H{"error": errs.PublicMessage(err)})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.ContextUserID)
}

func isAdmin(c *gin.Context) bool {
	return c.GetString(middleware.ContextUserRole) == string(entity.RoleAdmin)
}

// parsePage reads limit/offset query parameters. Bad numbers fall back to defaults.
func parsePage(c *gin.Context) entity.Page {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(entity.DefaultPageLimit)))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	return entity.Page{Limit: limit, Offset: offset}.Normalize()
}

func queryInt(c *gin.Context, key string, defaultValue int) int {
	if value := c.Query(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// queryTime accepts RFC 3339 timestamps or plain dates.
func queryTime(c *gin.Context, key string) (*time.Time, error) {
	value := c.Query(key)
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, errs.Validation("%s must be a date (YYYY-MM-DD) or RFC 3339 timestamp", key)
}

func queryPeriod(c *gin.Context) (*time.Time, *time.Time, error) {
	from, err := queryTime(c, "date_from")
	if err != nil {
		return nil, nil, err
	}
	to, err := queryTime(c, "date_to")
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

// authorizeCustomer lets admins through and limits everyone else to their own customer record.
func authorizeCustomer(c *gin.Context, customers usecase.CustomerUseCase, log *logger.Logger, customerID string) bool {
	if isAdmin(c) {
		return true
	}
	own, err := customers.GetByUserID(c.Request.Context(), currentUserID(c))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return false
		}
		respondError(c, log, "resolve customer", err)
		return false
	}
	if own.ID != customerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return false
	}
	return true
}

// authorizeAffiliate lets admins through and limits affiliates to their own account.
func authorizeAffiliate(c *gin.Context, affiliates usecase.AffiliateUseCase, log *logger.Logger, affiliateID string) bool {
	if isAdmin(c) {
		return true
	}
	own, err := affiliates.GetByUserID(c.Request.Context(), currentUserID(c))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return false
		}
		respondError(c, log, "resolve affiliate", err)
		return false
	}
	if own.ID != affiliateID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return false
	}
	return true
}
