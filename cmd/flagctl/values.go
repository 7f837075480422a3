package main

import (
	"fmt"
	"strconv"

	"github.com/flagkit/flagkit/pkg/flagtype"
)

// parseValue turns a CLI argument into a flagtype.Value: "true"/"false" fold
// to Bool, anything strconv.ParseFloat accepts folds to Num, everything else
// is taken as Str. There is no explicit --type flag because flagtype.Value
// has exactly three variants and the distinction is unambiguous from the
// text itself for this CLI's purposes.
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

func formatValue(v flagtype.Value) string {
	switch v.Tag() {
	case flagtype.TagBool:
		b, _ := v.AsBool()
		return fmt.Sprintf("%t", b)
	case flagtype.TagNum:
		n, _ := v.AsNum()
		return strconv.FormatFloat(n, 'g', -1, 64)
	default:
		s, _ := v.AsStr()
		return s
	}
}
