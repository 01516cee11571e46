package kraken

import (
	"strconv"

	"github.com/lemconn/exkit/base"
	"github.com/lemconn/exkit/common"
	"github.com/lemconn/exkit/exchange"
	"github.com/lemconn/exkit/types"
)

// Signature 计算 API-Sign
// base64(HMAC-SHA512(path + SHA256(nonce + body), base64decode(secret)))
func Signature(path, nonce, body string, secret []byte) string {
	digest := common.HashBytes([]byte(nonce+body), common.SHA256)
	message := append([]byte(path), digest...)
	return common.HMAC(message, secret, common.SHA512, common.Base64)
}

// Sign 公共接口参数拼在查询串，私有接口以表单提交并签名
func (k *Kraken) Sign(req *base.Request) error {
	path := "/0/" + req.API + "/" + req.Path

	if !req.Private {
		values := types.NewExValues()
		values.Merge(req.Params)
		req.URL = values.JoinPath(k.URL(req.API) + path)
		return nil
	}

	secret, err := common.Base64Decode(k.Secret())
	if err != nil {
		return exchange.WrapError(exchange.AuthenticationError, krakenName, err, "kraken secret must be base64 encoded")
	}

	nonce := strconv.FormatInt(k.Nonce(), 10)
	values := types.NewExValues()
	values.Set("nonce", nonce)
	values.Merge(req.Params)
	body := values.EncodeQuery()

	req.URL = k.URL(req.API) + path
	req.Body = []byte(body)
	req.Headers["API-Key"] = k.APIKey()
	req.Headers["API-Sign"] = Signature(path, nonce, body, secret)
	req.Headers["Content-Type"] = "application/x-www-form-urlencoded"
	return nil
}
