package binance

import (
	"net/http"

	"github.com/lemconn/exkit/base"
	"github.com/lemconn/exkit/common"
	"github.com/lemconn/exkit/types"
)

// Signature 对查询字符串做 HMAC-SHA256，输出十六进制
func Signature(query, secret string) string {
	return common.HMAC([]byte(query), []byte(secret), common.SHA256, common.Hex)
}

// Sign 私有接口附加 timestamp、recvWindow 与 signature
// GET/DELETE 参数放在查询串，POST/PUT 以表单提交
func (b *Binance) Sign(req *base.Request) error {
	url := b.URL(req.API) + "/" + req.Path
	values := types.NewExValues()
	values.Merge(req.Params)

	if !req.Private {
		req.URL = values.JoinPath(url)
		return nil
	}

	if !values.Has("recvWindow") {
		values.Set("recvWindow", defaultRecvWindow)
	}
	values.Set("timestamp", b.Nonce())
	query := values.EncodeQuery()
	query += "&signature=" + Signature(query, b.Secret())

	req.Headers["X-MBX-APIKEY"] = b.APIKey()
	switch req.Method {
	case http.MethodPost, http.MethodPut:
		req.URL = url
		req.Body = []byte(query)
		req.Headers["Content-Type"] = "application/x-www-form-urlencoded"
	default:
		req.URL = url + "?" + query
	}
	return nil
}
