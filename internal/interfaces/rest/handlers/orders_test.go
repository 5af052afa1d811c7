package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DanielPopoola/sberbank-gateway/internal/application/services"
	"github.com/DanielPopoola/sberbank-gateway/internal/domain"
	"github.com/DanielPopoola/sberbank-gateway/internal/interfaces/rest"
	"github.com/DanielPopoola/sberbank-gateway/internal/interfaces/rest/handlers"
	"github.com/DanielPopoola/sberbank-gateway/sberbank"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type orderServiceMock struct {
	mock.Mock
}

func (m *orderServiceMock) Register(ctx context.Context, cmd services.RegisterCommand) (*domain.Order, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *orderServiceMock) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *orderServiceMock) GetByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *orderServiceMock) RefreshStatus(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func newMux(svc handlers.OrderService) *http.ServeMux {
	mux := http.NewServeMux()
	handlers.NewHandlers(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(mux)
	return mux
}

func testOrder(t *testing.T) *domain.Order {
	order, err := domain.NewOrder(uuid.New(), "1001", 15000, "https://shop.example/return",
		&sberbank.RegistrationResult{
			OrderID: "14613d21-71b4-45eb-81f9-12dc21a12253",
			FormURL: "https://3dsec.sberbank.ru/payment/form",
		})
	require.NoError(t, err)
	return order
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) (rest.APIResponse, map[string]any) {
	var raw struct {
		Success bool              `json:"success"`
		Data    map[string]any    `json:"data"`
		Error   *rest.ErrorDetail `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&raw))
	return rest.APIResponse{Success: raw.Success, Error: raw.Error}, raw.Data
}

func postJSON(path string, body any) *http.Request {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRegisterOrder_Success(t *testing.T) {
	svc := new(orderServiceMock)
	order := testOrder(t)
	svc.On("Register", mock.Anything, services.RegisterCommand{
		OrderNumber: "1001",
		Amount:      15000,
		ReturnURL:   "https://shop.example/return",
	}).Return(order, nil).Once()

	rec := httptest.NewRecorder()
	newMux(svc).ServeHTTP(rec, postJSON("/orders", map[string]any{
		"order_number": 1001,
		"amount":       15000,
		"return_url":   "https://shop.example/return",
	}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp, data := decode(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, order.ID.String(), data["id"])
	assert.Equal(t, "14613d21-71b4-45eb-81f9-12dc21a12253", data["gateway_order_id"])
	assert.Equal(t, "REGISTERED", data["status_name"])
	svc.AssertExpectations(t)
}

func TestRegisterOrder_StringOrderNumber(t *testing.T) {
	svc := new(orderServiceMock)
	svc.On("Register", mock.Anything, mock.MatchedBy(func(cmd services.RegisterCommand) bool {
		return cmd.OrderNumber == "ord-42"
	})).Return(testOrder(t), nil).Once()

	rec := httptest.NewRecorder()
	newMux(svc).ServeHTTP(rec, postJSON("/orders", map[string]any{
		"order_number": "ord-42",
		"amount":       100,
		"return_url":   "https://shop.example/return",
	}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestRegisterOrder_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
		code string
	}{
		{
			name: "fractional amount",
			body: map[string]any{"order_number": 1, "amount": 10.5, "return_url": "https://shop.example"},
			code: sberbank.ErrCodeInvalidAmount,
		},
		{
			name: "negative amount",
			body: map[string]any{"order_number": 1, "amount": -1, "return_url": "https://shop.example"},
			code: sberbank.ErrCodeInvalidAmount,
		},
		{
			name: "numeric string amount",
			body: map[string]any{"order_number": 1, "amount": "100", "return_url": "https://shop.example"},
			code: sberbank.ErrCodeInvalidAmount,
		},
		{
			name: "order number too long",
			body: map[string]any{"order_number": "abcdefghijabcdefghijabcdefghijabc", "amount": 1, "return_url": "https://shop.example"},
			code: sberbank.ErrCodeInvalidOrderID,
		},
		{
			name: "order number with spaces",
			body: map[string]any{"order_number": "order 1", "amount": 1, "return_url": "https://shop.example"},
			code: sberbank.ErrCodeInvalidOrderID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(orderServiceMock)

			rec := httptest.NewRecorder()
			newMux(svc).ServeHTTP(rec, postJSON("/orders", tt.body))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp, _ := decode(t, rec)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
		})
	}
}

func TestRegisterOrder_MalformedBody(t *testing.T) {
	svc := new(orderServiceMock)
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString("{not json"))

	rec := httptest.NewRecorder()
	newMux(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp, _ := decode(t, rec)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestRegisterOrder_GatewayRejected(t *testing.T) {
	svc := new(orderServiceMock)
	svc.On("Register", mock.Anything, mock.Anything).Return(nil, &sberbank.Error{
		Code:    sberbank.ErrCodeGatewayRejected,
		Message: "gateway rejected request",
		Err:     &sberbank.RegisterOrderError{Code: sberbank.RegisterErrorAlreadyRegistered, Message: "Order already registered"},
	}).Once()

	rec := httptest.NewRecorder()
	newMux(svc).ServeHTTP(rec, postJSON("/orders", map[string]any{
		"order_number": 1001,
		"amount":       15000,
		"return_url":   "https://shop.example/return",
	}))

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp, _ := decode(t, rec)
	assert.Equal(t, "GATEWAY_ALREADY_REGISTERED", resp.Error.Code)
}

func TestGetOrder(t *testing.T) {
	svc := new(orderServiceMock)
	order := testOrder(t)
	svc.On("Get", mock.Anything, order.ID).Return(order, nil).Once()

	rec := httptest.NewRecorder()
	newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/"+order.ID.String(), nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	_, data := decode(t, rec)
	assert.Equal(t, "1001", data["order_number"])
	assert.EqualValues(t, 15000, data["amount_kopeks"])
}

func TestGetOrder_NotFound(t *testing.T) {
	svc := new(orderServiceMock)
	id := uuid.New()
	svc.On("Get", mock.Anything, id).Return(nil, domain.NewOrderNotFoundError(id.String())).Once()

	rec := httptest.NewRecorder()
	newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/"+id.String(), nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp, _ := decode(t, rec)
	assert.Equal(t, domain.ErrCodeOrderNotFound, resp.Error.Code)
}

func TestGetOrder_InvalidID(t *testing.T) {
	svc := new(orderServiceMock)

	rec := httptest.NewRecorder()
	newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/not-a-uuid", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestGetOrderByNumber(t *testing.T) {
	svc := new(orderServiceMock)
	order := testOrder(t)
	svc.On("GetByOrderNumber", mock.Anything, "1001").Return(order, nil).Once()

	rec := httptest.NewRecorder()
	newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders?order_number=1001", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	_, data := decode(t, rec)
	assert.Equal(t, order.ID.String(), data["id"])
}

func TestRefreshOrderStatus(t *testing.T) {
	svc := new(orderServiceMock)
	order := testOrder(t)
	_, err := order.ApplyStatus(sberbank.OrderStatusCompleted, order.CreatedAt)
	require.NoError(t, err)
	svc.On("RefreshStatus", mock.Anything, order.ID).Return(order, nil).Once()

	rec := httptest.NewRecorder()
	newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders/"+order.ID.String()+"/refresh", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	_, data := decode(t, rec)
	assert.EqualValues(t, 2, data["status"])
	assert.Equal(t, "COMPLETED", data["status_name"])
	assert.Equal(t, true, data["final"])
}

func TestRefreshOrderStatus_TransportError(t *testing.T) {
	svc := new(orderServiceMock)
	id := uuid.New()
	svc.On("RefreshStatus", mock.Anything, id).Return(nil, &sberbank.Error{
		Code:    sberbank.ErrCodeTransport,
		Message: "request to /getOrderStatus.do failed",
	}).Once()

	rec := httptest.NewRecorder()
	newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders/"+id.String()+"/refresh", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	resp, _ := decode(t, rec)
	assert.Equal(t, sberbank.ErrCodeTransport, resp.Error.Code)
}

func TestOpenAPIDocument(t *testing.T) {
	rec := httptest.NewRecorder()
	newMux(new(orderServiceMock)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Equal(t, rest.OpenAPIDocument, rec.Body.Bytes())
}
