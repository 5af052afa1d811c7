package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/DanielPopoola/sberbank-gateway/internal/application"
	"github.com/DanielPopoola/sberbank-gateway/internal/application/services"
	"github.com/DanielPopoola/sberbank-gateway/internal/domain"
	"github.com/DanielPopoola/sberbank-gateway/internal/interfaces/rest"
	"github.com/DanielPopoola/sberbank-gateway/sberbank"
	"github.com/google/uuid"
)

// RegisterOrderRequest keeps order_number and amount untyped so the client
// validators see exactly what the caller sent.
type RegisterOrderRequest struct {
	OrderNumber any    `json:"order_number"`
	Amount      any    `json:"amount"`
	ReturnURL   string `json:"return_url"`
}

func (h *Handlers) RegisterOrder(w http.ResponseWriter, r *http.Request) {
	var req RegisterOrderRequest
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&req); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(fmt.Errorf("invalid request body: %w", err)), h.logger)
		return
	}

	orderNumber, err := sberbank.ParseMerchantOrderID(req.OrderNumber)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	amount, err := sberbank.ParseAmount(req.Amount)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	order, err := h.orderService.Register(r.Context(), services.RegisterCommand{
		OrderNumber: orderNumber,
		Amount:      amount,
		ReturnURL:   req.ReturnURL,
	})
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, rest.ToAPIOrder(order))
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	order, err := h.orderService.Get(r.Context(), id)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.ToAPIOrder(order))
}

func (h *Handlers) GetOrderByNumber(w http.ResponseWriter, r *http.Request) {
	orderNumber := r.URL.Query().Get("order_number")
	if orderNumber == "" {
		rest.WriteError(w, application.NewInvalidInputError(domain.NewMissingRequiredFieldError("order_number")), h.logger)
		return
	}

	order, err := h.orderService.GetByOrderNumber(r.Context(), orderNumber)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.ToAPIOrder(order))
}

func (h *Handlers) RefreshOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	order, err := h.orderService.RefreshStatus(r.Context(), id)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.ToAPIOrder(order))
}

func (h *Handlers) orderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		rest.WriteError(w, application.NewInvalidInputError(fmt.Errorf("invalid order id %q", r.PathValue("id"))), h.logger)
		return uuid.Nil, false
	}
	return id, true
}
