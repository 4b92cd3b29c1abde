package http

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"loyalty-hub/pkg/errs"
	"loyalty-hub/pkg/logger"
	"loyalty-hub/services/api/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRewardHandler() (*RewardHandler, *MockRewardUseCase, *MockCustomerUseCase) {
	mockRewards := new(MockRewardUseCase)
	mockCustomers := new(MockCustomerUseCase)
	return NewRewardHandler(mockRewards, mockCustomers, logger.New()), mockRewards, mockCustomers
}

func TestCreateReward_DefaultsToUnlimitedStock(t *testing.T) {
	handler, mockRewards, _ := newRewardHandler()

	router := setupTestRouter()
	router.POST("/rewards", as(entity.RoleAdmin, "admin-1", handler.CreateReward))

	mockRewards.On("Create", mock.Anything, mock.MatchedBy(func(r entity.Reward) bool {
		return r.Name == "Free Coffee" && r.PointsRequired == 100 && r.StockQuantity == entity.UnlimitedStock
	})).Return(&entity.Reward{ID: "r-1", Name: "Free Coffee", StockQuantity: -1}, nil)

	w := serve(router, http.MethodPost, "/rewards", jsonBody(t, map[string]interface{}{
		"name":            "Free Coffee",
		"points_required": 100,
	}))

	assert.Equal(t, http.StatusCreated, w.Code)
	mockRewards.AssertExpectations(t)
}

func TestCreateReward_ZeroStockKept(t *testing.T) {
	handler, mockRewards, _ := newRewardHandler()

	router := setupTestRouter()
	router.POST("/rewards", as(entity.RoleAdmin, "admin-1", handler.CreateReward))

	mockRewards.On("Create", mock.Anything, mock.MatchedBy(func(r entity.Reward) bool {
		return r.StockQuantity == 0
	})).Return(&entity.Reward{ID: "r-2", Status: entity.RewardOutOfStock}, nil)

	w := serve(router, http.MethodPost, "/rewards", jsonBody(t, map[string]interface{}{
		"name":            "Mug",
		"points_required": 300,
		"stock_quantity":  0,
	}))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "out_of_stock", decode(t, w)["status"])
}

func TestListRewards_FeaturedFilter(t *testing.T) {
	handler, mockRewards, _ := newRewardHandler()

	router := setupTestRouter()
	router.GET("/rewards", as(entity.RoleCustomer, "user-1", handler.ListRewards))

	mockRewards.On("List", mock.Anything, mock.MatchedBy(func(f entity.RewardFilter) bool {
		return f.Featured != nil && *f.Featured && f.Category == "drinks"
	}), entity.Page{Limit: 50}).Return(entity.NewPageResult([]*entity.Reward{{ID: "r-1"}}, 1, entity.Page{Limit: 50}), nil)

	w := serve(router, http.MethodGet, "/rewards?featured=true&category=drinks", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(router, http.MethodGet, "/rewards?featured=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRedeem_Success(t *testing.T) {
	handler, mockRewards, mockCustomers := newRewardHandler()

	router := setupTestRouter()
	router.POST("/rewards/redeem", as(entity.RoleCustomer, "user-1", handler.Redeem))

	mockCustomers.On("GetByUserID", mock.Anything, "user-1").Return(&entity.Customer{ID: "cust-1"}, nil)
	mockRewards.On("Redeem", mock.Anything, "cust-1", "r-1", 1).Return(&entity.RedemptionResult{
		Redemption: &entity.RewardRedemption{ID: "red-1", RedemptionCode: "AB12CD34EF", Status: entity.RedemptionPending},
		Customer:   &entity.Customer{ID: "cust-1", TotalPoints: 50},
	}, nil)

	w := serve(router, http.MethodPost, "/rewards/redeem", jsonBody(t, map[string]string{
		"customer_id": "cust-1",
		"reward_id":   "r-1",
	}))

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, "AB12CD34EF", body["redemption"].(map[string]interface{})["redemption_code"])
}

func TestRedeem_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"insufficient points", errs.InsufficientBalance(50, 100), http.StatusBadRequest},
		{"out of stock", errs.InsufficientStock("Free Coffee"), http.StatusBadRequest},
		{"unknown reward", errs.NotFound("reward"), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mockRewards, _ := newRewardHandler()
			router := setupTestRouter()
			router.POST("/rewards/redeem", as(entity.RoleAdmin, "admin-1", handler.Redeem))

			mockRewards.On("Redeem", mock.Anything, "cust-1", "r-1", 2).Return(nil, tt.err)

			w := serve(router, http.MethodPost, "/rewards/redeem", jsonBody(t, map[string]interface{}{
				"customer_id": "cust-1",
				"reward_id":   "r-1",
				"quantity":    2,
			}))

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRedeem_ForAnotherCustomerForbidden(t *testing.T) {
	handler, mockRewards, mockCustomers := newRewardHandler()

	router := setupTestRouter()
	router.POST("/rewards/redeem", as(entity.RoleCustomer, "user-1", handler.Redeem))

	mockCustomers.On("GetByUserID", mock.Anything, "user-1").Return(&entity.Customer{ID: "cust-1"}, nil)

	w := serve(router, http.MethodPost, "/rewards/redeem", jsonBody(t, map[string]string{
		"customer_id": "cust-2",
		"reward_id":   "r-1",
	}))

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockRewards.AssertNotCalled(t, "Redeem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFulfill(t *testing.T) {
	handler, mockRewards, _ := newRewardHandler()

	router := setupTestRouter()
	router.POST("/rewards/redeem/:id/fulfill", as(entity.RoleAdmin, "admin-1", handler.Fulfill))

	mockRewards.On("Fulfill", mock.Anything, "red-1", "admin-1", "picked up").
		Return(&entity.RewardRedemption{ID: "red-1", Status: entity.RedemptionFulfilled}, nil)

	w := serve(router, http.MethodPost, "/rewards/redeem/red-1/fulfill", jsonBody(t, map[string]string{"notes": "picked up"}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fulfilled", decode(t, w)["status"])
}

func TestCancel_AlreadyClosed(t *testing.T) {
	handler, mockRewards, _ := newRewardHandler()

	router := setupTestRouter()
	router.POST("/rewards/redeem/:id/cancel", as(entity.RoleAdmin, "admin-1", handler.Cancel))

	mockRewards.On("Cancel", mock.Anything, "red-1", "").Return(nil, errs.Validation("redemption is fulfilled"))

	w := serve(router, http.MethodPost, "/rewards/redeem/red-1/cancel", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateStock_RequiresQuantity(t *testing.T) {
	handler, mockRewards, _ := newRewardHandler()

	router := setupTestRouter()
	router.PUT("/rewards/:id/stock", as(entity.RoleAdmin, "admin-1", handler.UpdateStock))

	w := serve(router, http.MethodPut, "/rewards/r-1/stock", jsonBody(t, map[string]string{}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	mockRewards.On("UpdateStock", mock.Anything, "r-1", 0).Return(&entity.Reward{ID: "r-1", Status: entity.RewardOutOfStock}, nil)

	w = serve(router, http.MethodPut, "/rewards/r-1/stock", jsonBody(t, map[string]int{"stock_quantity": 0}))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUploadImage(t *testing.T) {
	handler, mockRewards, _ := newRewardHandler()

	router := setupTestRouter()
	router.POST("/rewards/:id/image", as(entity.RoleAdmin, "admin-1", handler.UploadImage))

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="coffee.png"`)
	header.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, _ = part.Write([]byte("fake png"))
	require.NoError(t, writer.Close())

	mockRewards.On("UploadImage", mock.Anything, "r-1", mock.Anything, "coffee.png", "image/png").
		Return(&entity.Reward{ID: "r-1", ImageURL: "https://cdn.example.com/rewards/r-1/coffee.png"}, nil)

	req, _ := http.NewRequest(http.MethodPost, "/rewards/r-1/image", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://cdn.example.com/rewards/r-1/coffee.png", decode(t, w)["image_url"])
}

func TestUploadImage_MissingFile(t *testing.T) {
	handler, mockRewards, _ := newRewardHandler()

	router := setupTestRouter()
	router.POST("/rewards/:id/image", as(entity.RoleAdmin, "admin-1", handler.UploadImage))

	w := serve(router, http.MethodPost, "/rewards/r-1/image", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockRewards.AssertNotCalled(t, "UploadImage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
