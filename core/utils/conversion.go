package utils

import (
	"math"
	"strconv"
	"strings"
)

// ParseInt64 converts a dynamic row value to an integer using explicit type
// switching. It handles the integer types the RDB codec produces plus
// numeric strings. Anything unparseable (and nil) yields nil rather than an
// error; callers store NULL in that case.
func ParseInt64(val any) *int64 {
	switch v := val.(type) {
	case int64:
		return &v
	case int:
		n := int64(v)
		return &n
	case uint64:
		if v > math.MaxInt64 {
			return nil
		}
		n := int64(v)
		return &n
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil
		}
		return &n
	default:
		return nil
	}
}

// ParseInt is ParseInt64 narrowed to int, for year/month style columns.
func ParseInt(val any) *int {
	n := ParseInt64(val)
	if n == nil {
		return nil
	}
	i := int(*n)
	return &i
}
