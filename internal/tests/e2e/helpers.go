package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DanielPopoola/sberbank-gateway/internal/interfaces/rest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestClient wraps HTTP calls to gateway
type TestClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewTestClient(baseURL string) *TestClient {
	return &TestClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type apiError struct {
	Status int
	Code   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Status, e.Code)
}

type orderResponse struct {
	Success bool              `json:"success"`
	Data    rest.Order        `json:"data"`
	Error   *rest.ErrorDetail `json:"error"`
}

// Register calls POST /orders
func (c *TestClient) Register(t *testing.T, orderNumber any, amount int64, returnURL string) (*rest.Order, error) {
	body, _ := json.Marshal(map[string]any{
		"order_number": orderNumber,
		"amount":       amount,
		"return_url":   returnURL,
	})
	return c.do(t, http.MethodPost, "/orders", body)
}

// Get calls GET /orders/{id}
func (c *TestClient) Get(t *testing.T, id string) (*rest.Order, error) {
	return c.do(t, http.MethodGet, "/orders/"+id, nil)
}

// Refresh calls POST /orders/{id}/refresh
func (c *TestClient) Refresh(t *testing.T, id string) (*rest.Order, error) {
	return c.do(t, http.MethodPost, "/orders/"+id+"/refresh", nil)
}

func (c *TestClient) do(t *testing.T, method, path string, body []byte) (*rest.Order, error) {
	httpReq, err := http.NewRequest(method, c.baseURL+path, bytes.NewReader(body))
	require.NoError(t, err)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	var orderResp orderResponse
	require.NoError(t, json.Unmarshal(bodyBytes, &orderResp), string(bodyBytes))

	if resp.StatusCode >= 400 {
		require.NotNil(t, orderResp.Error)
		return nil, &apiError{Status: resp.StatusCode, Code: orderResp.Error.Code}
	}

	return &orderResp.Data, nil
}

// FakeSberbank emulates register.do and getOrderStatus.do of the test endpoint.
type FakeSberbank struct {
	mu       sync.Mutex
	username string
	password string
	numbers  map[string]string
	statuses map[string]int
	calls    map[string]int
}

func NewFakeSberbank(username, password string) *FakeSberbank {
	return &FakeSberbank{
		username: username,
		password: password,
		numbers:  make(map[string]string),
		statuses: make(map[string]int),
		calls:    make(map[string]int),
	}
}

func (f *FakeSberbank) SetStatus(gatewayOrderID string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[gatewayOrderID] = status
}

func (f *FakeSberbank) Forget(gatewayOrderID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.statuses, gatewayOrderID)
}

func (f *FakeSberbank) Calls(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func (f *FakeSberbank) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimSuffix(r.URL.Path, "/")
	f.calls[path]++

	w.Header().Set("Content-Type", "application/json")

	if r.PostForm.Get("userName") != f.username || r.PostForm.Get("password") != f.password {
		_ = json.NewEncoder(w).Encode(map[string]any{"ErrorCode": "5", "ErrorMessage": "Access denied"})
		return
	}

	switch path {
	case "/register.do":
		orderNumber := r.PostForm.Get("orderNumber")
		if _, ok := f.numbers[orderNumber]; ok {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"errorCode":    "1",
				"errorMessage": "Order with this number was already processed",
			})
			return
		}
		id := uuid.NewString()
		f.numbers[orderNumber] = id
		f.statuses[id] = 0
		_ = json.NewEncoder(w).Encode(map[string]any{
			"orderId": id,
			"formUrl": "https://3dsec.sberbank.ru/payment/merchants/test/payment_ru.html?mdOrder=" + id,
		})
	case "/getOrderStatus.do":
		status, ok := f.statuses[r.PostForm.Get("orderId")]
		if !ok {
			_ = json.NewEncoder(w).Encode(map[string]any{"ErrorCode": "6", "ErrorMessage": "Unregistered OrderId"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"OrderStatus":  status,
			"ErrorCode":    "0",
			"ErrorMessage": "Success",
		})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}
