package main

import (
	"strconv"

	"github.com/flagkit/flagkit/pkg/flagtype"
)

func formatValue(v flagtype.Value) string {
	switch v.Tag() {
	case flagtype.TagBool:
		b, _ := v.AsBool()
		return strconv.FormatBool(b)
	case flagtype.TagNum:
		n, _ := v.AsNum()
		return strconv.FormatFloat(n, 'g', -1, 64)
	default:
		s, _ := v.AsStr()
		return s
	}
}

// parseValue mirrors flagctl's inference: bool, then number, then string.
func parseValue(s string) flagtype.Value {
	switch s {
	case "true":
		return flagtype.Bool(true)
	case "false":
		return flagtype.Bool(false)
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return flagtype.Num(n)
	}
	return flagtype.Str(s)
}
