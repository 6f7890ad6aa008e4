package main

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// record is a resource row of any type, decoded as plain JSON.
type record map[string]any

func (r record) Identity() int64 {
	switch v := r["id"].(type) {
	case float64:
		return int64(v)
	case json.Number:
		n, _ := v.Int64()
		return n
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	}
	return 0
}

// text renders key for a table cell.
func (r record) text(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return fmt.Sprint(v)
}
