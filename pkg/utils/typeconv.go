package utils

import (
	"fmt"
	"strconv"
	"time"

	"github.com/myshopdata/shoploader/pkg/models"
)

// CoerceValue converts a raw JSON value to the Go value matching the
// column's warehouse type. nil passes through so optional columns load
// as NULL.
func CoerceValue(val interface{}, cfg models.FieldSpec) (interface{}, error) {
	if val == nil {
		return nil, nil
	}
	switch cfg.Type {
	case models.TypeTimestamp:
		return ConvertDateTime(val)
	case models.TypeNumber:
		return ConvertToFloat(val)
	case models.TypeString:
		return ConvertToString(val)
	default:
		return val, nil
	}
}

func ConvertToString(val interface{}) (string, error) {
	switch v := val.(type) {
	case string:
		return v, nil
	case float64:
		// JSON numbers decode as float64; render ids like 42 without
		// a trailing ".0".
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10), nil
		}
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("cannot convert %T to string", val)
	}
}

func ConvertToFloat(val interface{}) (float64, error) {
	switch v := val.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(v, 64)
	case []byte:
		return strconv.ParseFloat(string(v), 64)
	default:
		return 0, fmt.Errorf("cannot convert %T to number", val)
	}
}

func ConvertDateTime(val interface{}) (time.Time, error) {
	switch v := val.(type) {
	case time.Time:
		return v, nil
	case string:
		formats := []string{
			time.RFC3339,
			time.RFC3339Nano,
			"2006-01-02 15:04:05",
			"2006-01-02",
		}
		for _, f := range formats {
			if t, err := time.Parse(f, v); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unable to parse datetime: %s", v)
	case []byte:
		return ConvertDateTime(string(v))
	default:
		return time.Time{}, fmt.Errorf("cannot convert %T to datetime", val)
	}
}
