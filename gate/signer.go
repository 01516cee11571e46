package gate

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/lemconn/exkit/base"
	"github.com/lemconn/exkit/common"
	"github.com/lemconn/exkit/types"
)

// Signature hex(HMAC-SHA512(METHOD\n/api/v4/path\nquery\nhex(SHA512(body))\ntimestamp))
func Signature(method, requestPath, query, body, timestamp, secret string) string {
	payload := strings.Join([]string{
		strings.ToUpper(method),
		requestPath,
		query,
		common.Hash([]byte(body), common.SHA512, common.Hex),
		timestamp,
	}, "\n")
	return common.HMAC([]byte(payload), []byte(secret), common.SHA512, common.Hex)
}

// Sign POST 以 JSON 请求体传参，其余方法参数放在查询串
// Timestamp 取当前秒，服务端只接受 60 秒内的偏差
func (g *Gate) Sign(req *base.Request) error {
	requestPath := apiPrefix + req.Path
	values := types.NewExValues()
	values.Merge(req.Params)

	query, body := "", ""
	if req.Method == http.MethodPost {
		if values.Len() > 0 {
			raw, err := json.Marshal(req.Params)
			if err != nil {
				return errors.Wrap(err, "gate: encode body")
			}
			body = string(raw)
			req.Body = raw
		}
		req.URL = g.URL(req.API) + requestPath
	} else {
		query = values.EncodeQuery()
		req.URL = values.JoinPath(g.URL(req.API) + requestPath)
	}
	req.Headers["Accept"] = "application/json"
	req.Headers["Content-Type"] = "application/json"
	if !req.Private {
		return nil
	}

	timestamp := strconv.FormatInt(g.NonceSource().Now().Unix(), 10)
	req.Headers["KEY"] = g.APIKey()
	req.Headers["Timestamp"] = timestamp
	req.Headers["SIGN"] = Signature(req.Method, requestPath, query, body, timestamp, g.Secret())
	return nil
}
