package common

import (
	"strings"

	"github.com/google/uuid"
)

// UUID16 生成 16 位十六进制随机串
func UUID16() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

// GenerateClientOrderID 生成客户端订单ID
// 格式: exkit{exchange}{UUID16}，仅包含字母与数字以兼容各交易所的校验规则
// 示例: exkitbinancecaa54b21bbabadd4
func GenerateClientOrderID(exchange string) string {
	return "exkit" + strings.ToLower(exchange) + UUID16()
}
