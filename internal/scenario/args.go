package scenario

import (
	"fmt"
	"strconv"

	"github.com/ternarybob/uicontrols/pkg/models"
)

// AnyCellMarker in a cells list matches any text
const AnyCellMarker = "*"

// Args holds step arguments as decoded from TOML or YAML
type Args map[string]interface{}

// Has reports whether key is present
func (a Args) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// String returns key as text; missing keys are ""
func (a Args) String(key string) string {
	switch v := a[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Bool returns key as a flag, or def when missing
func (a Args) Bool(key string, def bool) bool {
	switch v := a[key].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// Int returns key as an integer; missing or non-numeric keys are 0.
// TOML decodes integers as int64, YAML as int.
func (a Args) Int(key string) int {
	switch v := a[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	}
	return 0
}

// Strings returns key as a list. A missing key is nil, which the select helpers read as
// "not asserted"; an empty list stays non-nil.
func (a Args) Strings(key string) []string {
	switch v := a[key].(type) {
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				out = append(out, "")
				continue
			}
			out = append(out, fmt.Sprint(item))
		}
		return out
	case []string:
		return v
	case string:
		return []string{v}
	}
	return nil
}

// Cells returns key as table cell expectations. "*" and YAML nulls match any text.
func (a Args) Cells(key string) []models.Cell {
	raw, _ := a[key].([]interface{})
	cells := make([]models.Cell, 0, len(raw))
	for _, item := range raw {
		if item == nil {
			cells = append(cells, models.AnyCell())
			continue
		}
		text := fmt.Sprint(item)
		if text == AnyCellMarker {
			cells = append(cells, models.AnyCell())
			continue
		}
		cells = append(cells, models.TextCell(text))
	}
	return cells
}
