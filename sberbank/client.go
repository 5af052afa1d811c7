// Package sberbank is a client for the Sberbank one-stage card payment REST API:
// it registers orders for payment and looks up their status.
package sberbank

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
)

const (
	ProductionURL = "https://securepayments.sberbank.ru/payment/rest"
	TestURL       = "https://3dsec.sberbank.ru/payment/rest/"

	registerPath       = "/register.do"
	getOrderStatusPath = "/getOrderStatus.do"
)

// RegistrationResult is what the gateway returns for a registered order.
// FormURL is the payment page the payer has to be redirected to.
type RegistrationResult struct {
	OrderID GatewayOrderID
	FormURL string
}

// Client is safe for concurrent use as long as its Transport is.
type Client struct {
	username  string
	password  string
	baseURL   string
	transport Transport
	logger    *slog.Logger
}

type Option func(*Client)

func WithTransport(t Transport) Option {
	return func(c *Client) {
		c.transport = t
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client bound to the production endpoint, or to the test
// endpoint when useTestEndpoint is set. The endpoint cannot be changed later.
func NewClient(username, password string, useTestEndpoint bool, opts ...Option) (*Client, error) {
	if username == "" {
		return nil, newInvalidCredentialsError("username")
	}
	if password == "" {
		return nil, newInvalidCredentialsError("password")
	}

	c := &Client{
		username: username,
		password: password,
		baseURL:  ProductionURL,
	}
	if useTestEndpoint {
		c.baseURL = TestURL
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.transport == nil {
		c.transport = NewFormTransport(nil)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}

	return c, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// RegisterOrder registers an order of amount kopeks and returns the gateway order id
// together with the payment form URL.
func (c *Client) RegisterOrder(ctx context.Context, orderID MerchantOrderID, amount int64, returnURL string) (*RegistrationResult, error) {
	if !orderID.Valid() {
		return nil, newInvalidOrderIDError("merchant", orderID)
	}
	if amount < 0 {
		return nil, newInvalidAmountError(amount)
	}
	if err := validateReturnURL(returnURL); err != nil {
		return nil, err
	}

	resp, err := c.call(ctx, registerPath, url.Values{
		"orderNumber": {string(orderID)},
		"amount":      {strconv.FormatInt(amount, 10)},
		"returnUrl":   {returnURL},
	})
	if err != nil {
		return nil, err
	}

	code, err := intField(resp, "errorCode")
	if err != nil {
		return nil, newMalformedResponseError(registerPath, "errorCode is not an integer", err)
	}
	if code != int(RegisterErrorNone) {
		regErr := &RegisterOrderError{
			Code:    RegisterErrorCode(code),
			Message: stringField(resp, "errorMessage"),
		}
		c.logger.Warn("order registration rejected",
			"order_number", orderID,
			"error_code", code,
			"error_name", regErr.Code.String(),
			"error_message", regErr.Message,
		)
		return nil, newGatewayRejectedError(regErr)
	}

	result := &RegistrationResult{
		OrderID: GatewayOrderID(stringField(resp, "orderId")),
		FormURL: stringField(resp, "formUrl"),
	}
	if result.OrderID == "" || result.FormURL == "" {
		return nil, newMalformedResponseError(registerPath, "orderId or formUrl is missing", nil)
	}

	c.logger.Debug("order registered",
		"order_number", orderID,
		"gateway_order_id", result.OrderID,
	)

	return result, nil
}

// GetOrderStatus returns the payment status of an order previously registered with RegisterOrder.
// Statuses the client does not know about are returned as is.
func (c *Client) GetOrderStatus(ctx context.Context, orderID GatewayOrderID) (OrderStatus, error) {
	if !orderID.Valid() {
		return 0, newInvalidOrderIDError("gateway", orderID)
	}

	resp, err := c.call(ctx, getOrderStatusPath, url.Values{
		"orderId": {string(orderID)},
	})
	if err != nil {
		return 0, err
	}

	code, err := intField(resp, "ErrorCode")
	if err != nil {
		return 0, newMalformedResponseError(getOrderStatusPath, "ErrorCode is not an integer", err)
	}
	if code != int(StatusErrorNone) {
		statusErr := &OrderStatusError{
			Code:    StatusErrorCode(code),
			Message: stringField(resp, "ErrorMessage"),
		}
		c.logger.Warn("order status request rejected",
			"gateway_order_id", orderID,
			"error_code", code,
			"error_name", statusErr.Code.String(),
			"error_message", statusErr.Message,
		)
		return 0, newGatewayRejectedError(statusErr)
	}

	if resp["OrderStatus"] == nil {
		return 0, newMalformedResponseError(getOrderStatusPath, "OrderStatus is missing", nil)
	}
	status, err := intField(resp, "OrderStatus")
	if err != nil {
		return 0, newMalformedResponseError(getOrderStatusPath, "OrderStatus is not an integer", err)
	}

	orderStatus := OrderStatus(status)
	if !orderStatus.Known() {
		c.logger.Warn("gateway returned unknown order status",
			"gateway_order_id", orderID,
			"status", status,
		)
	}

	return orderStatus, nil
}

// call injects the credentials, performs a single transport round trip and
// checks that the answer is a JSON object.
func (c *Client) call(ctx context.Context, path string, params url.Values) (map[string]any, error) {
	form := url.Values{
		"userName": {c.username},
		"password": {c.password},
	}
	for key, values := range params {
		form[key] = values
	}

	c.logger.Debug("sending gateway request", "base_url", c.baseURL, "path", path)

	decoded, err := c.transport.Post(ctx, c.baseURL, path, form)
	if err != nil {
		if isUndecodable(err) {
			return nil, newMalformedResponseError(path, "body is not valid json", err)
		}
		return nil, newTransportError(path, err)
	}

	resp, ok := decoded.(map[string]any)
	if !ok {
		return nil, newMalformedResponseError(path, "expected a json object", nil)
	}

	return resp, nil
}
