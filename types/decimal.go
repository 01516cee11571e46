package types

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ExDecimal 可空的 decimal.Decimal 类型
// 交易所未返回、返回 null、空字符串或无法解析的内容时 Valid 为 false
type ExDecimal struct {
	decimal.Decimal
	Valid bool
}

// NewExDecimal 由 decimal.Decimal 创建有效值
func NewExDecimal(d decimal.Decimal) ExDecimal {
	return ExDecimal{Decimal: d, Valid: true}
}

// NewExDecimalFromInt 由整数创建有效值
func NewExDecimalFromInt(i int64) ExDecimal {
	return NewExDecimal(decimal.NewFromInt(i))
}

// NewExDecimalFromFloat 由浮点数创建有效值
func NewExDecimalFromFloat(f float64) ExDecimal {
	return NewExDecimal(decimal.NewFromFloat(f))
}

// ParseExDecimal 宽松解析字符串，无法解析时返回空值
func ParseExDecimal(s string) ExDecimal {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return ExDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ExDecimal{}
	}
	return NewExDecimal(d)
}

// ExDecimalFromAny 从 JSON 解码得到的任意值解析
func ExDecimalFromAny(v interface{}) ExDecimal {
	switch x := v.(type) {
	case nil:
		return ExDecimal{}
	case ExDecimal:
		return x
	case decimal.Decimal:
		return NewExDecimal(x)
	case string:
		return ParseExDecimal(x)
	case json.Number:
		return ParseExDecimal(x.String())
	case float64:
		return NewExDecimal(decimal.NewFromFloat(x))
	case float32:
		return NewExDecimal(decimal.NewFromFloat32(x))
	case int:
		return NewExDecimalFromInt(int64(x))
	case int64:
		return NewExDecimalFromInt(x)
	case int32:
		return NewExDecimalFromInt(int64(x))
	case json.RawMessage:
		var d ExDecimal
		_ = d.UnmarshalJSON(x)
		return d
	default:
		return ExDecimal{}
	}
}

// UnmarshalJSON 宽松反序列化，兼容字符串与数字
func (d *ExDecimal) UnmarshalJSON(data []byte) error {
	*d = ParseExDecimal(strings.Trim(string(data), `"`))
	return nil
}

// MarshalJSON 空值序列化为 null
func (d ExDecimal) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(d.Decimal.String())), nil
}

// IsNull 是否为空值
func (d ExDecimal) IsNull() bool {
	return !d.Valid
}

// IsPositive 非空且大于零
func (d ExDecimal) IsPositive() bool {
	return d.Valid && d.Decimal.IsPositive()
}

// String 空值返回空字符串
func (d ExDecimal) String() string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

// Or 返回第一个有效值
func (d ExDecimal) Or(others ...ExDecimal) ExDecimal {
	if d.Valid {
		return d
	}
	for _, o := range others {
		if o.Valid {
			return o
		}
	}
	return ExDecimal{}
}

// Equal 两个值同为空或数值相等
func (d ExDecimal) Equal(o ExDecimal) bool {
	if d.Valid != o.Valid {
		return false
	}
	return !d.Valid || d.Decimal.Equal(o.Decimal)
}

// ExAdd 任一为空则结果为空
func ExAdd(a, b ExDecimal) ExDecimal {
	if !a.Valid || !b.Valid {
		return ExDecimal{}
	}
	return NewExDecimal(a.Decimal.Add(b.Decimal))
}

// ExSub 任一为空则结果为空
func ExSub(a, b ExDecimal) ExDecimal {
	if !a.Valid || !b.Valid {
		return ExDecimal{}
	}
	return NewExDecimal(a.Decimal.Sub(b.Decimal))
}

// ExMul 任一为空则结果为空
func ExMul(a, b ExDecimal) ExDecimal {
	if !a.Valid || !b.Valid {
		return ExDecimal{}
	}
	return NewExDecimal(a.Decimal.Mul(b.Decimal))
}

// ExDiv 任一为空或除数为零则结果为空
func ExDiv(a, b ExDecimal) ExDecimal {
	if !a.Valid || !b.Valid || b.Decimal.IsZero() {
		return ExDecimal{}
	}
	return NewExDecimal(a.Decimal.Div(b.Decimal))
}
