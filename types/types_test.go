package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExDecimal_UnmarshalJSON(t *testing.T) {
	var payload struct {
		Str     ExDecimal `json:"str"`
		Num     ExDecimal `json:"num"`
		Empty   ExDecimal `json:"empty"`
		Null    ExDecimal `json:"null"`
		Bad     ExDecimal `json:"bad"`
		Missing ExDecimal `json:"missing"`
	}
	err := json.Unmarshal([]byte(`{"str":"100.5","num":2.25,"empty":"","null":null,"bad":"n/a"}`), &payload)
	require.NoError(t, err)

	assert.True(t, payload.Str.Valid)
	assert.Equal(t, "100.5", payload.Str.String())
	assert.True(t, payload.Num.Valid)
	assert.Equal(t, "2.25", payload.Num.String())
	assert.True(t, payload.Empty.IsNull())
	assert.True(t, payload.Null.IsNull())
	assert.True(t, payload.Bad.IsNull())
	assert.True(t, payload.Missing.IsNull())
}

func TestExDecimal_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		A ExDecimal `json:"a"`
		B ExDecimal `json:"b"`
	}{A: ParseExDecimal("1.50")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"1.5","b":null}`, string(b))
}

func TestExDecimal_Arithmetic(t *testing.T) {
	a := ParseExDecimal("2")
	b := ParseExDecimal("3")
	null := ExDecimal{}

	assert.Equal(t, "6", ExMul(a, b).String())
	assert.Equal(t, "5", ExAdd(a, b).String())
	assert.Equal(t, "-1", ExSub(a, b).String())
	assert.True(t, ExMul(a, null).IsNull())
	assert.True(t, ExDiv(a, NewExDecimal(decimal.Zero)).IsNull())
	assert.Equal(t, "3", null.Or(null, b, a).String())
	assert.True(t, a.Equal(NewExDecimalFromInt(2)))
	assert.True(t, null.Equal(ExDecimal{}))
}

func TestExDecimalFromAny(t *testing.T) {
	assert.Equal(t, "1.25", ExDecimalFromAny("1.25").String())
	assert.Equal(t, "3", ExDecimalFromAny(float64(3)).String())
	assert.Equal(t, "7", ExDecimalFromAny(7).String())
	assert.True(t, ExDecimalFromAny(nil).IsNull())
	assert.True(t, ExDecimalFromAny(map[string]interface{}{}).IsNull())
}

func TestExTimestamp_Formats(t *testing.T) {
	cases := map[string]int64{
		`1700000000`:             1700000000000,
		`"1700000000123"`:        1700000000123,
		`1700000000123456`:       1700000000123,
		`1616663113.3211`:        1616663113321,
		`"2023-11-14T22:13:20Z"`: 1700000000000,
	}
	for raw, want := range cases {
		var ts ExTimestamp
		require.NoError(t, json.Unmarshal([]byte(raw), &ts), raw)
		assert.Equal(t, want, ts.Millis(), raw)
	}

	var empty ExTimestamp
	require.NoError(t, json.Unmarshal([]byte(`null`), &empty))
	assert.True(t, empty.IsNull())
	assert.Equal(t, int64(0), empty.Millis())
	assert.Equal(t, "", empty.Datetime())
}

func TestExTimestamp_MarshalKeepsSourceFormat(t *testing.T) {
	var ts ExTimestamp
	require.NoError(t, json.Unmarshal([]byte(`1700000000`), &ts))
	b, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `1700000000`, string(b))

	b, err = json.Marshal(ExTimestamp{})
	require.NoError(t, err)
	assert.Equal(t, `null`, string(b))

	assert.Equal(t, "2023-11-14T22:13:20.000Z", NewExTimestamp(time.UnixMilli(1700000000000)).Datetime())
}

func TestInfo_RoundTrip(t *testing.T) {
	var holder struct {
		Info Info `json:"info"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"info":{"pair":"XBTUSD","n":1}}`), &holder))
	assert.Equal(t, "XBTUSD", holder.Info.Get("pair"))

	b, err := json.Marshal(holder)
	require.NoError(t, err)
	assert.JSONEq(t, `{"info":{"pair":"XBTUSD","n":1}}`, string(b))

	assert.Nil(t, Info(`[1,2]`).Map())
	assert.JSONEq(t, `{"a":1}`, NewInfo(map[string]int{"a": 1}).String())
}
