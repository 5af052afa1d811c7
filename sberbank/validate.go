package sberbank

import (
	"encoding/json"
	"math"
	"net/url"
	"reflect"
	"regexp"
	"strconv"

	"github.com/go-playground/validator"
)

var (
	merchantOrderIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]{1,32}$`)
	gatewayOrderIDPattern  = regexp.MustCompile(`^[A-Za-z0-9-]{1,36}$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("merchant_order_id", func(fl validator.FieldLevel) bool {
		return merchantOrderIDPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("gateway_order_id", func(fl validator.FieldLevel) bool {
		return gatewayOrderIDPattern.MatchString(fl.Field().String())
	})
	return v
}

// MerchantOrderID is the order number assigned by the merchant before registration.
type MerchantOrderID string

// OrderNumber builds a MerchantOrderID from a numeric order number.
func OrderNumber(n int64) MerchantOrderID {
	return MerchantOrderID(strconv.FormatInt(n, 10))
}

func (id MerchantOrderID) Valid() bool {
	return validate.Var(string(id), "merchant_order_id") == nil
}

// GatewayOrderID is the identifier the gateway assigns on registration, usually a UUID.
type GatewayOrderID string

func (id GatewayOrderID) Valid() bool {
	return validate.Var(string(id), "gateway_order_id") == nil
}

// IsMerchantOrderIDValid reports whether v can be used as a merchant order number.
// Integers are always accepted, strings must be 1-32 characters of [A-Za-z0-9-].
func IsMerchantOrderIDValid(v any) bool {
	if _, ok := integerString(v); ok {
		return true
	}
	switch id := v.(type) {
	case string:
		return MerchantOrderID(id).Valid()
	case MerchantOrderID:
		return id.Valid()
	default:
		return false
	}
}

// IsGatewayOrderIDValid reports whether v is a string of 1-36 characters of [A-Za-z0-9-].
func IsGatewayOrderIDValid(v any) bool {
	switch id := v.(type) {
	case string:
		return GatewayOrderID(id).Valid()
	case GatewayOrderID:
		return id.Valid()
	default:
		return false
	}
}

// ParseMerchantOrderID converts a loosely typed value, such as a decoded JSON field,
// into a MerchantOrderID.
func ParseMerchantOrderID(v any) (MerchantOrderID, error) {
	switch id := v.(type) {
	case json.Number:
		if n, err := id.Int64(); err == nil {
			return OrderNumber(n), nil
		}
	case float64:
		if id == math.Trunc(id) && math.Abs(id) < 1<<53 {
			return OrderNumber(int64(id)), nil
		}
	case string:
		if MerchantOrderID(id).Valid() {
			return MerchantOrderID(id), nil
		}
	case MerchantOrderID:
		if id.Valid() {
			return id, nil
		}
	default:
		if n, ok := integerString(v); ok {
			return MerchantOrderID(n), nil
		}
	}
	return "", newInvalidOrderIDError("merchant", v)
}

// ParseAmount converts a loosely typed value into an amount in kopeks.
// Only whole, non-negative integers are accepted: floats and numeric strings are rejected.
func ParseAmount(v any) (int64, error) {
	var amount int64
	if n, ok := v.(json.Number); ok {
		parsed, err := n.Int64()
		if err != nil {
			return 0, newInvalidAmountError(v)
		}
		amount = parsed
	} else {
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			amount = rv.Int()
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if rv.Uint() > math.MaxInt64 {
				return 0, newInvalidAmountError(v)
			}
			amount = int64(rv.Uint())
		default:
			return 0, newInvalidAmountError(v)
		}
	}
	if amount < 0 {
		return 0, newInvalidAmountError(v)
	}
	return amount, nil
}

// integerString renders any Go integer kind in decimal.
func integerString(v any) (string, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	default:
		return "", false
	}
}

// validateReturnURL requires an absolute URL; http and https ones must name a host.
func validateReturnURL(returnURL string) error {
	if err := validate.Var(returnURL, "required,url"); err != nil {
		return newInvalidReturnURLError(returnURL)
	}
	u, err := url.Parse(returnURL)
	if err != nil {
		return newInvalidReturnURLError(returnURL)
	}
	if (u.Scheme == "http" || u.Scheme == "https") && u.Hostname() == "" {
		return newInvalidReturnURLError(returnURL)
	}
	return nil
}
