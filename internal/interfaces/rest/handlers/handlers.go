package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/sberbank-gateway/internal/application/services"
	"github.com/DanielPopoola/sberbank-gateway/internal/domain"
	"github.com/DanielPopoola/sberbank-gateway/internal/interfaces/rest"
	"github.com/google/uuid"
)

type OrderService interface {
	Register(ctx context.Context, cmd services.RegisterCommand) (*domain.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	RefreshStatus(ctx context.Context, id uuid.UUID) (*domain.Order, error)
}

type Handlers struct {
	orderService OrderService
	logger       *slog.Logger
}

func NewHandlers(orderService OrderService, logger *slog.Logger) *Handlers {
	return &Handlers{
		orderService: orderService,
		logger:       logger,
	}
}

func (h *Handlers) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /orders", h.RegisterOrder)
	mux.HandleFunc("GET /orders", h.GetOrderByNumber)
	mux.HandleFunc("GET /orders/{id}", h.GetOrder)
	mux.HandleFunc("POST /orders/{id}/refresh", h.RefreshOrderStatus)
	mux.HandleFunc("GET /openapi.yaml", h.OpenAPIDocument)
}

func (h *Handlers) OpenAPIDocument(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rest.OpenAPIDocument)
}
