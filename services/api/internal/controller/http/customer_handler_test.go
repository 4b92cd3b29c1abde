package http

import (
	"net/http"
	"testing"
	"time"

	"loyalty-hub/pkg/errs"
	"loyalty-hub/pkg/logger"
	"loyalty-hub/services/api/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestListCustomers_PassesFilterAndPage(t *testing.T) {
	mockUseCase := new(MockCustomerUseCase)
	handler := NewCustomerHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.GET("/customers", as(entity.RoleAdmin, "admin-1", handler.ListCustomers))

	filter := entity.CustomerFilter{Search: "ada", Tier: entity.TierGold, SortBy: "total_points", SortOrder: "desc"}
	page := entity.Page{Limit: 20, Offset: 40}
	customers := []*entity.Customer{{ID: "cust-1", Tier: entity.TierGold}}
	mockUseCase.On("List", mock.Anything, filter, page).Return(entity.NewPageResult(customers, 61, page), nil)

	w := serve(router, http.MethodGet, "/customers?search=ada&tier=gold&sort_by=total_points&sort_order=desc&limit=20&offset=40", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(61), body["total"])
	assert.Equal(t, float64(20), body["limit"])
	assert.Equal(t, float64(40), body["offset"])
	assert.Equal(t, true, body["has_more"])
	mockUseCase.AssertExpectations(t)
}

func TestGetCustomer_OwnRecord(t *testing.T) {
	mockUseCase := new(MockCustomerUseCase)
	handler := NewCustomerHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.GET("/customers/:id", as(entity.RoleCustomer, "user-1", handler.GetCustomer))

	mockUseCase.On("GetByUserID", mock.Anything, "user-1").Return(&entity.Customer{ID: "cust-1"}, nil)
	mockUseCase.On("Get", mock.Anything, "cust-1").Return(&entity.CustomerDetails{
		Customer:  &entity.Customer{ID: "cust-1", TotalPoints: 320},
		Analytics: entity.CustomerAnalytics{EngagementScore: 70},
	}, nil)

	w := serve(router, http.MethodGet, "/customers/cust-1", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(70), body["analytics"].(map[string]interface{})["engagement_score"])
}

func TestGetCustomer_OtherCustomerForbidden(t *testing.T) {
	mockUseCase := new(MockCustomerUseCase)
	handler := NewCustomerHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.GET("/customers/:id", as(entity.RoleCustomer, "user-1", handler.GetCustomer))

	mockUseCase.On("GetByUserID", mock.Anything, "user-1").Return(&entity.Customer{ID: "cust-1"}, nil)

	w := serve(router, http.MethodGet, "/customers/cust-2", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockUseCase.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestGetCustomer_NotFound(t *testing.T) {
	mockUseCase := new(MockCustomerUseCase)
	handler := NewCustomerHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.GET("/customers/:id", as(entity.RoleAdmin, "admin-1", handler.GetCustomer))

	mockUseCase.On("Get", mock.Anything, "missing").Return(nil, errs.NotFound("customer"))

	w := serve(router, http.MethodGet, "/customers/missing", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "customer not found", decode(t, w)["error"])
}

func TestCreateCustomer(t *testing.T) {
	mockUseCase := new(MockCustomerUseCase)
	handler := NewCustomerHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/customers", as(entity.RoleAdmin, "admin-1", handler.CreateCustomer))

	mockUseCase.On("Create", mock.Anything, mock.MatchedBy(func(in entity.NewCustomer) bool {
		return in.Email == "bola@example.com" && in.ERPID == "ERP-77" && in.DateOfBirth != nil
	})).Return(&entity.Customer{ID: "cust-9", Tier: entity.TierBronze}, nil)

	w := serve(router, http.MethodPost, "/customers", jsonBody(t, map[string]interface{}{
		"name":          "Bola",
		"email":         "bola@example.com",
		"phone":         "+2348000000001",
		"erp_id":        "ERP-77",
		"date_of_birth": "1990-05-17T00:00:00Z",
	}))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "bronze", decode(t, w)["tier"])
}

func TestCreateCustomer_InvalidEmail(t *testing.T) {
	mockUseCase := new(MockCustomerUseCase)
	handler := NewCustomerHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/customers", as(entity.RoleAdmin, "admin-1", handler.CreateCustomer))

	w := serve(router, http.MethodPost, "/customers", jsonBody(t, map[string]string{
		"name":  "Bola",
		"email": "not-an-email",
		"phone": "+2348000000001",
	}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUseCase.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateCustomer_PassesActor(t *testing.T) {
	mockUseCase := new(MockCustomerUseCase)
	handler := NewCustomerHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.PUT("/customers/:id", as(entity.RoleAdmin, "admin-1", handler.UpdateCustomer))

	gold := entity.TierGold
	mockUseCase.On("Update", mock.Anything, "cust-1", entity.CustomerUpdate{Tier: &gold}, "admin-1").
		Return(&entity.Customer{ID: "cust-1", Tier: entity.TierGold}, nil)

	w := serve(router, http.MethodPut, "/customers/cust-1", jsonBody(t, map[string]string{"tier": "gold"}))

	assert.Equal(t, http.StatusOK, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestAddKid(t *testing.T) {
	mockUseCase := new(MockCustomerUseCase)
	handler := NewCustomerHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/customers/:id/kids", as(entity.RoleCustomer, "user-1", handler.AddKid))

	dob := time.Date(2018, 3, 9, 0, 0, 0, 0, time.UTC)
	mockUseCase.On("GetByUserID", mock.Anything, "user-1").Return(&entity.Customer{ID: "cust-1"}, nil)
	mockUseCase.On("AddKid", mock.Anything, "cust-1", entity.CustomerKid{Name: "Tobi", DateOfBirth: dob, Gender: "male"}).
		Return(&entity.CustomerKid{ID: "kid-1", CustomerID: "cust-1", Name: "Tobi", DateOfBirth: dob, IsActive: true}, nil)

	w := serve(router, http.MethodPost, "/customers/cust-1/kids", jsonBody(t, map[string]string{
		"name":          "Tobi",
		"date_of_birth": "2018-03-09T00:00:00Z",
		"gender":        "male",
	}))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "kid-1", decode(t, w)["id"])
}

func TestActivity(t *testing.T) {
	mockUseCase := new(MockCustomerUseCase)
	handler := NewCustomerHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.GET("/customers/:id/activity", as(entity.RoleAdmin, "admin-1", handler.Activity))

	mockUseCase.On("Activity", mock.Anything, "cust-1", 5).Return([]entity.ActivityItem{
		{Kind: entity.ActivityTransaction, Description: "Points earned from purchase", Points: 40},
	}, nil)

	w := serve(router, http.MethodGet, "/customers/cust-1/activity?limit=5", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Len(t, body["activities"], 1)
}

func TestSegments_InternalErrorHidesDetail(t *testing.T) {
	mockUseCase := new(MockCustomerUseCase)
	handler := NewCustomerHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.GET("/customers/segments", as(entity.RoleAdmin, "admin-1", handler.Segments))

	mockUseCase.On("Segments", mock.Anything).Return(entity.CustomerSegments{}, assert.AnError)

	w := serve(router, http.MethodGet, "/customers/segments", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decode(t, w)["error"])
}
