package sberbank

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

func isUndecodable(err error) bool {
	return errors.Is(err, ErrUndecodableResponse)
}

// intField reads an int-like field. The gateway sends codes both as numbers and
// as numeric strings; an absent or null field reads as zero.
func intField(resp map[string]any, key string) (int, error) {
	switch v := resp[key].(type) {
	case nil:
		return 0, nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, err
		}
		return int(n), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%s: %v is not a whole number", key, v)
		}
		if v < math.MinInt64 || v >= math.MaxInt64 {
			return 0, fmt.Errorf("%s: %v is out of range", key, v)
		}
		return int(v), nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case string:
		return strconv.Atoi(v)
	default:
		return 0, fmt.Errorf("%s: unexpected type %T", key, v)
	}
}

func stringField(resp map[string]any, key string) string {
	switch v := resp[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}
