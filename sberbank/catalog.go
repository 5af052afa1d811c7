package sberbank

// RegisterErrorCode is the errorCode space of register.do. Codes 2 and 6 are not used.
type RegisterErrorCode int

const (
	RegisterErrorNone              RegisterErrorCode = 0
	RegisterErrorAlreadyRegistered RegisterErrorCode = 1
	RegisterErrorIncorrectCurrency RegisterErrorCode = 3
	RegisterErrorMissedParameter   RegisterErrorCode = 4
	RegisterErrorMissedValue       RegisterErrorCode = 5
	RegisterErrorSystem            RegisterErrorCode = 7
)

var registerErrorNames = map[RegisterErrorCode]string{
	RegisterErrorNone:              "NONE",
	RegisterErrorAlreadyRegistered: "ALREADY_REGISTERED",
	RegisterErrorIncorrectCurrency: "INCORRECT_CURRENCY",
	RegisterErrorMissedParameter:   "MISSED_PARAMETER",
	RegisterErrorMissedValue:       "MISSED_VALUE",
	RegisterErrorSystem:            "SYSTEM",
}

func (c RegisterErrorCode) Known() bool {
	_, ok := registerErrorNames[c]
	return ok
}

func (c RegisterErrorCode) String() string {
	if name, ok := registerErrorNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// StatusErrorCode is the ErrorCode space of getOrderStatus.do. Codes 1, 3 and 4 are not used.
type StatusErrorCode int

const (
	StatusErrorNone              StatusErrorCode = 0
	StatusErrorIncorrectPayment  StatusErrorCode = 2
	StatusErrorAccessDenied      StatusErrorCode = 5
	StatusErrorUnregisteredOrder StatusErrorCode = 6
	StatusErrorSystem            StatusErrorCode = 7
)

var statusErrorNames = map[StatusErrorCode]string{
	StatusErrorNone:              "NONE",
	StatusErrorIncorrectPayment:  "INCORRECT_PAYMENT",
	StatusErrorAccessDenied:      "ACCESS_DENIED",
	StatusErrorUnregisteredOrder: "UNREGISTERED_ORDER",
	StatusErrorSystem:            "SYSTEM",
}

func (c StatusErrorCode) Known() bool {
	_, ok := statusErrorNames[c]
	return ok
}

func (c StatusErrorCode) String() string {
	if name, ok := statusErrorNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// OrderStatus is the payment state reported by getOrderStatus.do.
// The gateway may add values; unknown ones are passed through unchanged.
type OrderStatus int

const (
	OrderStatusRegistered OrderStatus = 0
	OrderStatusCompleted  OrderStatus = 2
	OrderStatusCanceled   OrderStatus = 3
	OrderStatusRefunded   OrderStatus = 4
	OrderStatusFailed     OrderStatus = 6
)

var orderStatusNames = map[OrderStatus]string{
	OrderStatusRegistered: "REGISTERED",
	OrderStatusCompleted:  "COMPLETED",
	OrderStatusCanceled:   "CANCELED",
	OrderStatusRefunded:   "REFUNDED",
	OrderStatusFailed:     "FAILED",
}

func (s OrderStatus) Known() bool {
	_, ok := orderStatusNames[s]
	return ok
}

func (s OrderStatus) String() string {
	if name, ok := orderStatusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// Final reports whether the payer is done with the order. Unknown statuses are not final.
func (s OrderStatus) Final() bool {
	return s.Known() && s != OrderStatusRegistered
}
