// Package props converts loosely-typed property bags into the store's typed
// property value map.
package props

import (
	"strings"
	"time"

	"git.home.luguber.info/inful/notionbridge/internal/notion"
)

// Normalize converts a flat bag of values into store-typed properties.
//
// Values already carrying a known type tag pass through unchanged. Primitives
// are coerced: booleans become checkboxes, numbers become numbers, timestamps
// become start-only dates, and strings become title, url or rich_text
// depending on the property name. Nil entries are skipped. Anything else is
// dropped without error; validation belongs at the request boundary, not here.
func Normalize(raw map[string]any) notion.Properties {
	out := make(notion.Properties, len(raw))
	for key, v := range raw {
		if v == nil {
			continue
		}

		if typed, ok := notion.AsPropertyValue(v); ok {
			out[key] = typed
			continue
		}

		switch val := v.(type) {
		case bool:
			out[key] = notion.CheckboxValue(val)
		case float64:
			out[key] = notion.NumberValue(val)
		case float32:
			out[key] = notion.NumberValue(float64(val))
		case int:
			out[key] = notion.NumberValue(float64(val))
		case int64:
			out[key] = notion.NumberValue(float64(val))
		case time.Time:
			out[key] = notion.DateStartValue(val.UTC().Format(time.RFC3339))
		case string:
			out[key] = coerceString(key, val)
		}
		// Unrecognized shapes fall through silently.
	}
	return out
}

// coerceString routes a string onto title, url or rich_text by property name.
func coerceString(key, val string) *notion.PropertyValue {
	k := strings.ToLower(key)
	switch {
	case strings.Contains(k, "title"):
		return notion.TitleValue(val)
	case strings.Contains(k, "url"):
		return notion.URLValue(val)
	default:
		return notion.RichTextValue(val)
	}
}

// TitleProperty builds the mandatory title property under the configured
// property name.
func TitleProperty(propName, title string) notion.Properties {
	return notion.Properties{propName: notion.TitleValue(title)}
}

// SlugProperty builds the optional slug property as rich_text. An empty slug
// yields an empty map.
func SlugProperty(propName, slug string) notion.Properties {
	if slug == "" {
		return notion.Properties{}
	}
	return notion.Properties{propName: notion.RichTextValue(slug)}
}

// Merge overlays property maps left to right; later maps win on key clashes.
// The upsert flow relies on this order staying fixed: computed title and slug
// first, caller-supplied properties last.
func Merge(maps ...notion.Properties) notion.Properties {
	out := make(notion.Properties)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// Compact strips nil-valued entries. The gateway must never receive a null
// property.
func Compact(props notion.Properties) notion.Properties {
	out := make(notion.Properties, len(props))
	for k, v := range props {
		if v == nil {
			continue
		}
		out[k] = v
	}
	return out
}
