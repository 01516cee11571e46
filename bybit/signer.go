package bybit

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"github.com/lemconn/exkit/base"
	"github.com/lemconn/exkit/common"
	"github.com/lemconn/exkit/types"
)

// Signature hex(HMAC-SHA256(timestamp + apiKey + recvWindow + payload))
// GET 请求的 payload 为查询串，POST 为 JSON 请求体
func Signature(timestamp, apiKey, recvWindow, payload, secret string) string {
	return common.HMAC([]byte(timestamp+apiKey+recvWindow+payload), []byte(secret), common.SHA256, common.Hex)
}

// Sign 私有接口通过 X-BAPI-* 请求头签名
func (b *Bybit) Sign(req *base.Request) error {
	url := b.URL(req.API) + "/" + req.Path
	values := types.NewExValues()
	values.Merge(req.Params)

	payload := ""
	if req.Method == http.MethodPost {
		body := []byte("{}")
		if values.Len() > 0 {
			raw, err := json.Marshal(req.Params)
			if err != nil {
				return errors.Wrap(err, "bybit: encode body")
			}
			body = raw
		}
		req.Body = body
		req.URL = url
		req.Headers["Content-Type"] = "application/json"
		payload = string(body)
	} else {
		payload = values.EncodeQuery()
		req.URL = values.JoinPath(url)
	}
	if !req.Private {
		return nil
	}

	timestamp := strconv.FormatInt(b.Nonce(), 10)
	recvWindow := strconv.Itoa(defaultRecvWindow)
	req.Headers["X-BAPI-API-KEY"] = b.APIKey()
	req.Headers["X-BAPI-TIMESTAMP"] = timestamp
	req.Headers["X-BAPI-RECV-WINDOW"] = recvWindow
	req.Headers["X-BAPI-SIGN"] = Signature(timestamp, b.APIKey(), recvWindow, payload, b.Secret())
	return nil
}
