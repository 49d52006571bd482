// Package integrity implements the request integrity protocol of the payout processor:
// the canonical payload signature and per-attempt idempotency tokens.
package integrity

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Sign returns the hex encoded HMAC-SHA256 of the canonical form of payload, keyed with secret.
// The result depends only on the key/value pairs, never on their insertion order.
func Sign(payload map[string]any, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(CanonicalString(payload)))
	return hex.EncodeToString(mac.Sum(nil))
}

// CanonicalString serializes payload as key=value pairs sorted by key and joined by '&'.
func CanonicalString(payload map[string]any) string {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(encodeURI(canonicalValue(payload[k])))
	}
	return b.String()
}

func canonicalValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		if val == "null" || val == "undefined" {
			return ""
		}
		return val
	case json.Number:
		return numberText(val)
	case float64:
		return formatNumber(val)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return jsonText(normalizeNumbers(val))
	}
}

// numberText rewrites a decoded JSON number the way the processor prints it after parsing,
// so 50000, 50000.0 and 5e4 all sign as "50000".
func numberText(n json.Number) string {
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return n.String()
	}
	return formatNumber(f)
}

// formatNumber prints f in the shortest form that round-trips, with plain decimals
// for 1e-6 <= |f| < 1e21 and exponent notation outside that range.
func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, exp, ok := strings.Cut(s, "e")
	if !ok {
		return s
	}
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mantissa + "e" + sign + digits
}

// normalizeNumbers replaces every json.Number inside arrays and objects with its printed form.
func normalizeNumbers(v any) any {
	switch val := v.(type) {
	case json.Number:
		return json.Number(numberText(val))
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeNumbers(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeNumbers(item)
		}
		return out
	default:
		return v
	}
}

// jsonText renders arrays and objects the way the processor's reference client does:
// compact, without HTML escaping.
func jsonText(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

const upperHex = "0123456789ABCDEF"

// encodeURI percent-encodes s with the same reserved set as ECMAScript encodeURI,
// which is what the processor uses when it rebuilds the signed string.
func encodeURI(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if keepUnescaped(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0x0f])
	}
	return b.String()
}

func keepUnescaped(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte(";,/?:@&=+$-_.!~*'()#", c) >= 0
}
