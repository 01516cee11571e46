package common

import (
	"net/url"
	"regexp"

	"github.com/lemconn/exkit/types"
)

var routeParamPattern = regexp.MustCompile(`\{([^}]+)\}`)

// ExtractParams 返回路由模板中的参数名，例如 "orders/{pair}/{id}" -> [pair id]
func ExtractParams(path string) []string {
	matches := routeParamPattern.FindAllStringSubmatch(path, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// ImplodeParams 用 params 填充路由模板，未提供的参数保持原样
func ImplodeParams(path string, params map[string]interface{}) string {
	return routeParamPattern.ReplaceAllStringFunc(path, func(m string) string {
		key := m[1 : len(m)-1]
		if v, ok := params[key]; ok {
			return url.PathEscape(types.FormatValue(v))
		}
		return m
	})
}

// Omit 返回去掉指定 key 后的新 map
func Omit(params map[string]interface{}, keys ...string) map[string]interface{} {
	out := make(map[string]interface{}, len(params))
	for k, v := range params {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// Extend 合并多个 map，后者覆盖前者
func Extend(maps ...map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
