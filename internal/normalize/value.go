package normalize

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// money reduces the upstream's assorted monetary shapes (bare number,
// numeric string, or an object carrying amount/total/value, possibly
// nested) to a plain float64. Missing or unparseable values become 0.
func money(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return f
		}
	case map[string]any:
		for _, key := range []string{"amount", "total", "value"} {
			if inner, ok := val[key]; ok {
				return money(inner)
			}
		}
	}
	return 0
}

// number coerces v to float64, or returns def when that is not possible.
func number(v any, def float64) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return f
		}
	}
	return def
}

// text returns a non-empty string value or nil.
func text(v any) any {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}

// scalar passes through strings, numbers and bools; everything else
// (objects, arrays) becomes nil.
func scalar(v any) any {
	switch v.(type) {
	case string, float64, int, int64, bool:
		return v
	}
	return nil
}

// firstOf returns the first present, non-nil value among keys.
func firstOf(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// dateLayouts covers the formats the upstream has been observed to emit.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"1/2/2006 15:04",
	"1/2/2006",
}

func parseDate(v any) (time.Time, string, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, s, true
		}
	}
	return time.Time{}, s, false
}

// formatDate renders v as M/D/YYYY. Unparseable strings pass through
// untouched; missing values become nil.
func formatDate(v any) any {
	t, raw, ok := parseDate(v)
	if !ok {
		if raw != "" {
			return raw
		}
		return nil
	}
	return fmt.Sprintf("%d/%d/%d", int(t.Month()), t.Day(), t.Year())
}

// formatDateTime renders v as M/D/YYYY HH:MM.
func formatDateTime(v any) any {
	t, raw, ok := parseDate(v)
	if !ok {
		if raw != "" {
			return raw
		}
		return nil
	}
	return fmt.Sprintf("%d/%d/%d %02d:%02d", int(t.Month()), t.Day(), t.Year(), t.Hour(), t.Minute())
}

// displayName resolves a counterparty's display name with a fixed
// precedence: organization, first+last, first, last, raw name field.
func displayName(m map[string]any) any {
	if m == nil {
		return nil
	}
	org := text(firstOf(m, "organization", "organization_name"))
	first := text(firstOf(m, "fname", "first_name"))
	last := text(firstOf(m, "lname", "last_name"))

	switch {
	case org != nil:
		return org
	case first != nil && last != nil:
		return first.(string) + " " + last.(string)
	case first != nil:
		return first
	case last != nil:
		return last
	}
	return text(firstOf(m, "name", "vendor_name"))
}

// counterparty applies displayName to either a nested object or, when the
// value is a plain string, returns it directly.
func counterparty(v any, fallback map[string]any) any {
	switch val := v.(type) {
	case map[string]any:
		return displayName(val)
	case string:
		return text(val)
	}
	return displayName(fallback)
}

// Known line-array field names, most specific first.
var lineKeys = []string{"lines", "line_items", "details"}

// Generic array-valued fields worth trying before recursing.
var genericArrayKeys = []string{"items", "entries", "data", "rows"}

// objectArray converts v to a slice of objects, or nil.
func objectArray(v any) []map[string]any {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return nil
	}
	out := make([]map[string]any, 0, len(arr))
	for _, el := range arr {
		if m, ok := el.(map[string]any); ok {
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// findLines locates an item's line array: known field names first, then
// known generic array fields, then a recursive descent through nested
// objects (bounded at depth 3, sorted keys for determinism). First
// non-empty array wins.
func findLines(m map[string]any, depth int) []map[string]any {
	if m == nil || depth > 3 {
		return nil
	}
	for _, k := range lineKeys {
		if ls := objectArray(m[k]); ls != nil {
			return ls
		}
	}
	for _, k := range genericArrayKeys {
		if ls := objectArray(m[k]); ls != nil {
			return ls
		}
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if sub, ok := m[k].(map[string]any); ok {
			if ls := findLines(sub, depth+1); ls != nil {
				return ls
			}
		}
	}
	return nil
}

// clone copies a record so per-line expansion never shares maps.
func (r Record) clone() Record {
	out := make(Record, len(r)+6)
	for k, v := range r {
		out[k] = v
	}
	return out
}

// expandLines emits one record per line item, each repeating the header
// fields and carrying line_items = total line count. Items without lines
// get a single synthetic line representing the whole record.
func expandLines(item map[string]any, header Record, synthetic Record) []Record {
	ls := findLines(item, 0)
	if len(ls) == 0 {
		rec := header.clone()
		for k, v := range synthetic {
			rec[k] = v
		}
		rec["line_items"] = 1
		return []Record{rec}
	}

	out := make([]Record, 0, len(ls))
	for _, ln := range ls {
		rec := header.clone()
		rec["description"] = text(firstOf(ln, "description", "name"))
		qty := number(firstOf(ln, "qty", "quantity"), 1)
		rec["quantity"] = qty
		unitCost := money(firstOf(ln, "unit_cost", "rate", "price"))
		rec["unit_cost"] = unitCost
		if total := firstOf(ln, "amount", "total"); total != nil {
			rec["line_total"] = money(total)
		} else {
			rec["line_total"] = qty * unitCost
		}
		rec["line_items"] = len(ls)
		out = append(out, rec)
	}
	return out
}

// syntheticLine builds the synthetic single-line fields for resources
// without a natural line concept.
func syntheticLine(description any, amount float64) Record {
	return Record{
		"description": description,
		"quantity":    float64(1),
		"unit_cost":   amount,
		"line_total":  amount,
	}
}
