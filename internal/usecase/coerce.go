package usecase

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// JSONで数値が文字列で来たり整数がfloat64で来たりするので、
// ゆるい入力を1か所で整数・金額・真偽に寄せる。

var errBadNumber = errors.New("bad number")

func coerceInt64(v interface{}) (int64, error) {
	switch t := v.(type) {
	case float64:
		if t != math.Trunc(t) {
			return 0, errBadNumber
		}
		return int64(t), nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, errBadNumber
		}
		return strconv.ParseInt(s, 10, 64)
	case json.Number:
		return t.Int64()
	case int:
		return int64(t), nil
	case int64:
		return t, nil
	default:
		return 0, errBadNumber
	}
}

func coerceDecimal(v interface{}) (decimal.Decimal, error) {
	switch t := v.(type) {
	case float64:
		return decimal.NewFromFloat(t), nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return decimal.Decimal{}, errBadNumber
		}
		return decimal.NewFromString(s)
	case json.Number:
		return decimal.NewFromString(t.String())
	case int:
		return decimal.NewFromInt(int64(t)), nil
	case int64:
		return decimal.NewFromInt(t), nil
	default:
		return decimal.Decimal{}, errBadNumber
	}
}

// coerceTruthy は is_featured などのゆるい真偽値。
// true / 1 / "1" / "true"（大文字小文字問わず）だけをtrue扱いにする。
func coerceTruthy(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t == 1
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		return s == "1" || s == "true"
	case json.Number:
		return t.String() == "1"
	default:
		return false
	}
}
