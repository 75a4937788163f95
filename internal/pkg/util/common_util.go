package util

import (
	"strconv"
	"strings"
)

// ParseUint64 解析路径或查询参数中的 ID，空串或非法值返回 false
func ParseUint64(s string) (uint64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return v, true
}

// AtoiDefault 解析失败时返回 def
func AtoiDefault(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return v
}

