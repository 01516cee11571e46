package cli

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/lemconn/exkit/model"
	"github.com/lemconn/exkit/option"
	"github.com/lemconn/exkit/types"
)

// queryFlags 查询类命令共用的参数
type queryFlags struct {
	limit      int
	since      string
	until      string
	marketType string
	params     map[string]string
}

func (q *queryFlags) addLimit(fs *pflag.FlagSet, def int) {
	fs.IntVarP(&q.limit, "limit", "l", def, "max number of records, 0 uses exchange default")
}

func (q *queryFlags) addTimeRange(fs *pflag.FlagSet) {
	fs.StringVar(&q.since, "since", "", "start time, unix seconds/milliseconds or RFC3339")
	fs.StringVar(&q.until, "until", "", "end time, unix seconds/milliseconds or RFC3339")
}

func (q *queryFlags) addMarketType(fs *pflag.FlagSet) {
	fs.StringVarP(&q.marketType, "type", "t", "", "market type: spot or swap")
}

func (q *queryFlags) addParams(fs *pflag.FlagSet) {
	fs.StringToStringVarP(&q.params, "param", "p", nil, "extra exchange params, key=value")
}

func (q *queryFlags) options() ([]option.ArgsOption, error) {
	var opts []option.ArgsOption
	if q.limit > 0 {
		opts = append(opts, option.WithLimit(q.limit))
	}
	if q.since != "" {
		t, err := parseTime(q.since)
		if err != nil {
			return nil, errors.Wrap(err, "--since")
		}
		opts = append(opts, option.WithSince(t.Time))
	}
	if q.until != "" {
		t, err := parseTime(q.until)
		if err != nil {
			return nil, errors.Wrap(err, "--until")
		}
		opts = append(opts, option.WithUntil(t.Time))
	}
	if q.marketType != "" {
		mt, err := parseMarketType(q.marketType)
		if err != nil {
			return nil, err
		}
		opts = append(opts, option.WithMarketType(mt))
	}
	for k, v := range q.params {
		opts = append(opts, option.WithParam(k, v))
	}
	return opts, nil
}

func parseTime(s string) (types.ExTimestamp, error) {
	var t types.ExTimestamp
	if err := t.UnmarshalJSON([]byte(s)); err != nil {
		return t, err
	}
	if t.IsNull() {
		return t, errors.Errorf("invalid time %q", s)
	}
	return t, nil
}

func parseMarketType(s string) (model.MarketType, error) {
	switch mt := model.MarketType(strings.ToLower(s)); mt {
	case model.MarketTypeSpot, model.MarketTypeSwap, model.MarketTypeFuture:
		return mt, nil
	}
	return "", errors.Errorf("unknown market type %q", s)
}

func parseSide(s string) (model.OrderSide, error) {
	switch side := model.OrderSide(strings.ToLower(s)); side {
	case model.OrderSideBuy, model.OrderSideSell:
		return side, nil
	}
	return "", errors.Errorf("side must be buy or sell, got %q", s)
}

func parseTimeInForce(s string) (model.OrderTimeInForce, error) {
	switch tif := model.OrderTimeInForce(strings.ToUpper(s)); tif {
	case model.OrderTimeInForceGTC, model.OrderTimeInForceIOC, model.OrderTimeInForceFOK, model.OrderTimeInForcePO:
		return tif, nil
	}
	return "", errors.Errorf("unknown time in force %q", s)
}
