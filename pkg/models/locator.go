package models

import (
	"fmt"
	"strings"
)

// Pick values select which of the matched nodes a Locator yields
const (
	PickAll  = 0
	PickLast = -1
)

// Locator identifies DOM nodes at call time. It is re-resolved on every use.
type Locator struct {
	Selector string `json:"selector"`

	// Text narrows each match to its deepest descendant (or itself) whose text contains Text
	Text       string `json:"text,omitempty"`
	IgnoreCase bool   `json:"ignore_case,omitempty"`

	// Parents replaces each match by its ancestors, stopping before ParentsUntil
	Parents      bool   `json:"parents,omitempty"`
	ParentsUntil string `json:"parents_until,omitempty"`

	// Pick is PickAll, PickLast or index+1
	Pick int `json:"pick,omitempty"`
}

// CSS returns a locator for every node matching selector
func CSS(selector string) Locator {
	return Locator{Selector: selector}
}

// ByID returns a locator for #id
func ByID(id string) Locator {
	return Locator{Selector: "#" + id}
}

// ByTestID returns a locator for [data-testid=id]
func ByTestID(id string) Locator {
	return Locator{Selector: fmt.Sprintf(`[data-testid="%s"]`, id)}
}

// ByAutomationID returns a locator for [data-automation-id=id]
func ByAutomationID(id string) Locator {
	return Locator{Selector: fmt.Sprintf(`[data-automation-id="%s"]`, id)}
}

// ByClass returns a locator for .class
func ByClass(class string) Locator {
	return Locator{Selector: "." + class}
}

// Containing narrows the locator to nodes containing text
func (l Locator) Containing(text string) Locator {
	l.Text = text
	return l
}

// ContainingFold is Containing without case sensitivity
func (l Locator) ContainingFold(text string) Locator {
	l.Text = text
	l.IgnoreCase = true
	return l
}

// Last keeps only the last match
func (l Locator) Last() Locator {
	l.Pick = PickLast
	return l
}

// First keeps only the first match
func (l Locator) First() Locator {
	return l.Eq(0)
}

// Eq keeps only the match at index
func (l Locator) Eq(index int) Locator {
	l.Pick = index + 1
	return l
}

// ParentsUntilSelector yields the ancestors of each match up to, not including, until
func (l Locator) ParentsUntilSelector(until string) Locator {
	l.Parents = true
	l.ParentsUntil = until
	return l
}

// Child appends a child combinator step to the selector
func (l Locator) Child(selector string) Locator {
	l.Selector = l.Selector + " > " + selector
	return l
}

// String describes the locator for logs and errors
func (l Locator) String() string {
	var b strings.Builder
	b.WriteString(l.Selector)
	if l.Parents {
		b.WriteString(" parents")
		if l.ParentsUntil != "" {
			b.WriteString(" until " + l.ParentsUntil)
		}
	}
	if l.Text != "" {
		fmt.Fprintf(&b, " containing %q", l.Text)
		if l.IgnoreCase {
			b.WriteString(" (ignore case)")
		}
	}
	switch {
	case l.Pick == PickLast:
		b.WriteString(" last")
	case l.Pick > 0:
		fmt.Fprintf(&b, " eq(%d)", l.Pick-1)
	}
	return b.String()
}
