package upstream

import (
	"fmt"
	"sort"
)

// The API's envelope shapes vary by resource family: the accounting
// family wraps everything in {"response":{"result":{...}}}, the business
// family answers flatter. Extraction is an explicit ordered list of
// strategies; the ordering (declared key first) matters when a payload
// carries more than one array field.

// unwrapResponse strips the outer "response" wrapper when present.
func unwrapResponse(body map[string]any) map[string]any {
	if inner, ok := body["response"].(map[string]any); ok {
		return inner
	}
	return body
}

// asItems converts v to a slice of objects. The second return reports
// whether v was an array at all, so an empty page is distinguishable
// from an absent key.
func asItems(v any) ([]map[string]any, bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]map[string]any, 0, len(arr))
	for _, el := range arr {
		if m, ok := el.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out, true
}

// firstObjectArray returns the first non-empty array-of-objects field in
// m, scanning keys in sorted order for determinism.
func firstObjectArray(m map[string]any) ([]map[string]any, bool) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if items, ok := asItems(m[k]); ok && len(items) > 0 {
			return items, true
		}
	}
	return nil, false
}

// extractItems locates the result array inside an unwrapped envelope:
// the declared key at the top level, the declared key under "result",
// any array under "result", any top-level array. First hit wins.
func extractItems(env map[string]any, key string) ([]map[string]any, bool) {
	if key != "" {
		if items, ok := asItems(env[key]); ok {
			return items, true
		}
	}
	if result, ok := env["result"].(map[string]any); ok {
		if key != "" {
			if items, ok := asItems(result[key]); ok {
				return items, true
			}
		}
		if items, ok := firstObjectArray(result); ok {
			return items, true
		}
	}
	return firstObjectArray(env)
}

// extractTotalPages reads the server-reported page count, looking at the
// envelope top level and under "result". Zero means not reported.
func extractTotalPages(env map[string]any) int {
	for _, m := range []map[string]any{env, resultOf(env)} {
		if m == nil {
			continue
		}
		for _, key := range []string{"pages", "total_pages"} {
			if n, ok := asInt(m[key]); ok {
				return n
			}
		}
	}
	return 0
}

func resultOf(env map[string]any) map[string]any {
	result, _ := env["result"].(map[string]any)
	return result
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	}
	return 0, false
}

// itemID renders an item's identifier for the stuck-pagination guard.
// Only the first item of each page is compared; this matches observed
// upstream behavior when page parameters are ignored.
func itemID(item map[string]any) string {
	for _, key := range []string{"id", "uuid", "entryid", "accountid"} {
		if v, ok := item[key]; ok && v != nil {
			return fmt.Sprint(v)
		}
	}
	return ""
}
