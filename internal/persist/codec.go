// Package persist implements the stable textual encoding of a plain
// registry snapshot used by the persistence adapter's autosave hook.
//
// The format is a plain-text analogue of the teacher's .reg export
// (internal/regtext): one line per entry, tab-separated, sorted by key for
// determinism, with a small escape scheme for embedded tabs/newlines in
// string values instead of a binary or JSON codec.
package persist

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/flagkit/flagkit/pkg/flagtype"
)

const (
	tagBool = "b"
	tagNum  = "n"
	tagStr  = "s"
)

// Encode serializes a plain-value snapshot into the stable textual format.
// Computed definitions and history are never part of this encoding, per
// spec.md §4.G.
func Encode(values map[string]flagtype.Value) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		v := values[k]
		switch v.Tag() {
		case flagtype.TagBool:
			bv, _ := v.AsBool()
			fmt.Fprintf(&b, "%s\t%s\t%t\n", escape(k), tagBool, bv)
		case flagtype.TagNum:
			nv, _ := v.AsNum()
			fmt.Fprintf(&b, "%s\t%s\t%s\n", escape(k), tagNum, strconv.FormatFloat(nv, 'g', -1, 64))
		case flagtype.TagStr:
			sv, _ := v.AsStr()
			fmt.Fprintf(&b, "%s\t%s\t%s\n", escape(k), tagStr, escape(sv))
		}
	}
	return b.String()
}

// Decode parses the textual format produced by Encode. Malformed lines are
// skipped rather than aborting the whole decode, so a partially-corrupt
// blob still yields whatever entries are readable.
func Decode(blob string) map[string]flagtype.Value {
	out := make(map[string]flagtype.Value)
	for _, line := range strings.Split(blob, "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) != 3 {
			continue
		}
		key := unescape(parts[0])
		switch parts[1] {
		case tagBool:
			b, err := strconv.ParseBool(parts[2])
			if err != nil {
				continue
			}
			out[key] = flagtype.Bool(b)
		case tagNum:
			n, err := strconv.ParseFloat(parts[2], 64)
			if err != nil {
				continue
			}
			out[key] = flagtype.Num(n)
		case tagStr:
			out[key] = flagtype.Str(unescape(parts[2]))
		}
	}
	return out
}

// escape replaces tabs and newlines with their backslash-escaped form so a
// single record stays on a single line.
func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}

func unescape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 't':
				b.WriteByte('\t')
				i++
				continue
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case '\\':
				b.WriteByte('\\')
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
