package bitopro

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/lemconn/exkit/base"
	"github.com/lemconn/exkit/common"
	"github.com/lemconn/exkit/types"
)

// Signature hex(HMAC-SHA384(payload, secret))，payload 为 base64 编码的 JSON
func Signature(payload, secret string) string {
	return common.HMAC([]byte(payload), []byte(secret), common.SHA384, common.Hex)
}

// Payload JSON 序列化后做标准 base64 编码
func Payload(v interface{}) (string, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, "bitopro: marshal payload")
	}
	return common.Base64Encode(body), nil
}

// Sign POST/PUT 以请求体作为 payload，GET/DELETE 以 {"nonce": 毫秒} 作为 payload
func (p *Bitopro) Sign(req *base.Request) error {
	url := p.URL(req.API) + "/" + req.Path
	req.Headers["X-BITOPRO-API"] = "exkit"

	if !req.Private {
		values := types.NewExValues()
		values.Merge(req.Params)
		req.URL = values.JoinPath(url)
		return nil
	}

	var payload string
	switch req.Method {
	case http.MethodPost, http.MethodPut:
		body, err := json.Marshal(req.Params)
		if err != nil {
			return errors.Wrap(err, "bitopro: marshal body")
		}
		req.Body = body
		req.Headers["Content-Type"] = "application/json"
		payload = common.Base64Encode(body)
	default:
		values := types.NewExValues()
		values.Merge(req.Params)
		url = values.JoinPath(url)
		encoded, err := Payload(map[string]int64{"nonce": p.Nonce()})
		if err != nil {
			return err
		}
		payload = encoded
	}

	req.URL = url
	req.Headers["X-BITOPRO-APIKEY"] = p.APIKey()
	req.Headers["X-BITOPRO-PAYLOAD"] = payload
	req.Headers["X-BITOPRO-SIGNATURE"] = Signature(payload, p.Secret())
	return nil
}
