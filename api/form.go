package main

import (
	"encoding/hex"
	"strings"
)

// parseForm decodes an application/x-www-form-urlencoded string without
// rejecting anything. Pairs are split on '&' only, so ';' stays part of the
// value. Pairs without '=' or with an empty raw value are skipped, invalid
// percent escapes are kept literally, and the first kept value of a repeated
// key wins.
func parseForm(raw string) map[string]string {
	fields := make(map[string]string)
	for _, pair := range strings.Split(raw, "&") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || value == "" {
			continue
		}
		key = unescapeForm(key)
		if _, seen := fields[key]; seen {
			continue
		}
		fields[key] = unescapeForm(value)
	}
	return fields
}

func unescapeForm(s string) string {
	s = strings.ReplaceAll(s, "+", " ")
	if !strings.Contains(s, "%") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			if v, err := hex.DecodeString(s[i+1 : i+3]); err == nil {
				b.WriteByte(v[0])
				i += 2
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return strings.ToValidUTF8(b.String(), "\uFFFD")
}
