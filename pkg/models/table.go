package models

// Cell is the expected content of one table cell
type Cell struct {
	Text string `json:"text" yaml:"text" toml:"text"`
	Any  bool   `json:"any" yaml:"any" toml:"any"` // any content is accepted
}

// TextCell expects the trimmed cell text to equal text
func TextCell(text string) Cell {
	return Cell{Text: text}
}

// AnyCell accepts whatever the cell holds
func AnyCell() Cell {
	return Cell{Any: true}
}

// Matches reports whether the trimmed cell text satisfies the expectation
func (c Cell) Matches(text string) bool {
	return c.Any || c.Text == text
}
