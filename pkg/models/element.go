package models

import "strings"

// ElementState is a point-in-time snapshot of one resolved DOM node
type ElementState struct {
	Tag        string            `json:"tag"`
	Text       string            `json:"text"`
	Value      string            `json:"value"`
	HasValue   bool              `json:"has_value"`
	Attributes map[string]string `json:"attributes"`
	Classes    []string          `json:"classes"`
	Visible    bool              `json:"visible"`
	Enabled    bool              `json:"enabled"`
	Disabled   bool              `json:"disabled"`
	Checked    bool              `json:"checked"`
	Style      map[string]string `json:"style"`
}

// Attr returns the attribute value and whether it is present
func (e ElementState) Attr(name string) (string, bool) {
	v, ok := e.Attributes[name]
	return v, ok
}

// HasClass reports whether class is on the node
func (e ElementState) HasClass(class string) bool {
	for _, c := range e.Classes {
		if c == class {
			return true
		}
	}
	return false
}

// ID returns the id attribute
func (e ElementState) ID() string {
	return e.Attributes["id"]
}

// ComputedStyle returns a style property, lowercased
func (e ElementState) ComputedStyle(property string) string {
	return strings.ToLower(strings.TrimSpace(e.Style[property]))
}

// Key names a keyboard key understood by every backend
type Key string

const (
	KeyEnter  Key = "Enter"
	KeyEscape Key = "Escape"
)

// ClickOptions controls how a click is delivered
type ClickOptions struct {
	// Force skips actionability checks and dispatches the click on the node directly
	Force bool `json:"force"`
}

// StyleProperties lists the computed style entries captured in ElementState.Style
var StyleProperties = []string{"cursor", "display", "visibility"}
