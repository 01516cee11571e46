package model

// StatusTable 交易所原始状态 -> 统一状态
// 未收录的原始值原样透传
type StatusTable[T ~string] map[string]T

// Parse 查表，未命中时返回原始值
func (m StatusTable[T]) Parse(raw string) T {
	if v, ok := m[raw]; ok {
		return v
	}
	return T(raw)
}
