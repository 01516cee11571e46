package okx

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/lemconn/exkit/base"
	"github.com/lemconn/exkit/common"
	"github.com/lemconn/exkit/types"
)

// Signature base64(HMAC-SHA256(timestamp + METHOD + requestPath + body))
func Signature(timestamp, method, requestPath, body, secret string) string {
	return common.HMAC([]byte(timestamp+method+requestPath+body), []byte(secret), common.SHA256, common.Base64)
}

// Sign GET/DELETE 参数放在查询串并参与签名，POST 以 JSON 请求体签名
func (o *OKX) Sign(req *base.Request) error {
	requestPath := "/api/v5/" + req.Path
	values := types.NewExValues()
	values.Merge(req.Params)

	body := ""
	if req.Method == http.MethodPost {
		if values.Len() > 0 {
			raw, err := json.Marshal(req.Params)
			if err != nil {
				return errors.Wrap(err, "okx: encode body")
			}
			body = string(raw)
		} else {
			body = "{}"
		}
		req.Body = []byte(body)
		req.Headers["Content-Type"] = "application/json"
	} else {
		requestPath = values.JoinPath(requestPath)
	}
	req.URL = o.URL(req.API) + requestPath

	if o.IsSandbox() {
		req.Headers["x-simulated-trading"] = "1"
	}
	if !req.Private {
		return nil
	}

	timestamp := common.ISO8601(o.NonceSource().Now())
	req.Headers["OK-ACCESS-KEY"] = o.APIKey()
	req.Headers["OK-ACCESS-PASSPHRASE"] = o.Password()
	req.Headers["OK-ACCESS-TIMESTAMP"] = timestamp
	req.Headers["OK-ACCESS-SIGN"] = Signature(timestamp, req.Method, requestPath, body, o.Secret())
	return nil
}
