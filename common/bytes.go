package common

import (
	"strconv"
	"strings"
)

const hexDigits = "0123456789ABCDEF"

// ToStringBinary renders b with printable ASCII kept as is and every other
// byte written as \xHH. A backslash is escaped too so the output parses back.
func ToStringBinary(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, ch := range b {
		if ch >= ' ' && ch <= '~' && ch != '\\' {
			sb.WriteByte(ch)
			continue
		}
		sb.WriteString(`\x`)
		sb.WriteByte(hexDigits[ch>>4])
		sb.WriteByte(hexDigits[ch&0x0f])
	}
	return sb.String()
}

// ToBytesBinary is the inverse of ToStringBinary. Malformed escapes are kept
// literally.
func ToBytesBinary(s string) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch == '\\' && i+3 < len(s) && s[i+1] == 'x' {
			if v, err := strconv.ParseUint(s[i+2:i+4], 16, 8); err == nil {
				out = append(out, byte(v))
				i += 3
				continue
			}
		}
		out = append(out, ch)
	}
	return out
}
