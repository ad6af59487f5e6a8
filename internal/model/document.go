package model

// Document field accessors.
//
// Store documents round-trip through encoding/json, which decodes every JSON
// number into float64 and may hand back values typed however the caller
// built the map (int, float64, bool...). These helpers normalise the common
// cases so the FromDocument constructors stay readable. A missing or
// mistyped field yields the zero value — the store layer has already
// distinguished "document absent" from "document present".

func docString(doc map[string]any, key string) string {
	if v, ok := doc[key].(string); ok {
		return v
	}
	return ""
}

func docFloat(doc map[string]any, key string) float64 {
	switch v := doc[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

func docInt(doc map[string]any, key string) int {
	switch v := doc[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func docBool(doc map[string]any, key string) bool {
	switch v := doc[key].(type) {
	case bool:
		return v
	case float64:
		// SQLite's json_extract surfaces JSON booleans as 0/1
		return v != 0
	case int64:
		return v != 0
	}
	return false
}
