package normalize

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/admincheck123/payos-payout/internal/core/domain"
)

// Alias keys in priority order. Different directories name the same field differently.
var (
	shortNameKeys = []string{"short_name", "shortName", "shortNameEN", "name", "short"}
	logoKeys      = []string{"logo", "icon", "image"}
	binKeys       = []string{"bin", "bins", "BIN", "bic", "banks"}
)

// Entries normalizes every record of a listing, dropping those without a short name.
// Source order is preserved.
func Entries(l Listing) []domain.BankEntry {
	out := make([]domain.BankEntry, 0, len(l.Items))
	for _, item := range l.Items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if entry, ok := Entry(obj); ok {
			out = append(out, entry)
		}
	}
	return out
}

// Entry maps one raw record to a BankEntry. It reports false when no short name can be resolved.
func Entry(raw map[string]any) (domain.BankEntry, bool) {
	name := firstString(raw, shortNameKeys...)
	if name == "" {
		return domain.BankEntry{}, false
	}

	return domain.BankEntry{
		ShortName: name,
		Logo:      firstString(raw, logoKeys...),
		Bins:      bins(firstPresent(raw, binKeys...)),
	}, true
}

// Body is a convenience for ExtractListing followed by Entries.
func Body(body []byte) ([]domain.BankEntry, Shape, bool) {
	l, ok := ExtractListing(body)
	if !ok {
		return nil, ShapeNone, false
	}
	return Entries(l), l.Shape, true
}

func bins(v any) []string {
	switch val := v.(type) {
	case nil:
		return []string{}
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := toString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		s := toString(val)
		if s == "" {
			return []string{}
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
}

func firstString(data map[string]any, keys ...string) string {
	for _, key := range keys {
		if val, ok := data[key]; ok {
			if str := toString(val); str != "" {
				return str
			}
		}
	}
	return ""
}

// firstPresent returns the first value that is neither missing, null nor an empty string.
func firstPresent(data map[string]any, keys ...string) any {
	for _, key := range keys {
		val, ok := data[key]
		if !ok || val == nil {
			continue
		}
		if s, isStr := val.(string); isStr && strings.TrimSpace(s) == "" {
			continue
		}
		return val
	}
	return nil
}

func toString(val any) string {
	switch v := val.(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}
