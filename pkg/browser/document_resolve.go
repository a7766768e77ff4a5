package browser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/uicontrols/pkg/models"
)

var formTags = map[string]bool{
	"button":   true,
	"input":    true,
	"select":   true,
	"textarea": true,
	"optgroup": true,
	"option":   true,
	"fieldset": true,
}

var valueTags = map[string]bool{
	"button":   true,
	"input":    true,
	"select":   true,
	"textarea": true,
	"option":   true,
	"output":   true,
	"data":     true,
	"param":    true,
}

var hiddenTags = map[string]bool{
	"head":     true,
	"script":   true,
	"style":    true,
	"template": true,
	"title":    true,
	"meta":     true,
	"noscript": true,
}

// resolveDocument applies a Locator to a goquery document the same way resolver.js does in a browser
func resolveDocument(doc *goquery.Document, loc models.Locator) []*goquery.Selection {
	var nodes []*goquery.Selection
	doc.Find(loc.Selector).Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, s)
	})

	if loc.Parents {
		var parents []*goquery.Selection
		for _, n := range nodes {
			var ancestors *goquery.Selection
			if loc.ParentsUntil != "" {
				ancestors = n.ParentsUntil(loc.ParentsUntil)
			} else {
				ancestors = n.Parents()
			}
			ancestors.Each(func(_ int, p *goquery.Selection) {
				parents = appendUnique(parents, p)
			})
		}
		nodes = parents
	}

	if loc.Text != "" {
		want := normText(loc.Text, loc.IgnoreCase)
		var found []*goquery.Selection
		for _, n := range nodes {
			if hit := deepestContaining(n, want, loc.IgnoreCase); hit != nil {
				found = appendUnique(found, hit)
			}
		}
		nodes = found
	}

	switch {
	case loc.Pick == models.PickLast:
		if len(nodes) > 0 {
			nodes = nodes[len(nodes)-1:]
		}
	case loc.Pick > 0:
		if len(nodes) >= loc.Pick {
			nodes = nodes[loc.Pick-1 : loc.Pick]
		} else {
			nodes = nil
		}
	}
	return nodes
}

func normText(s string, ignoreCase bool) string {
	if ignoreCase {
		return strings.ToLower(s)
	}
	return s
}

func appendUnique(list []*goquery.Selection, s *goquery.Selection) []*goquery.Selection {
	for _, existing := range list {
		if existing.Nodes[0] == s.Nodes[0] {
			return list
		}
	}
	return append(list, s)
}

// deepestContaining returns the first node in document order, among root and its
// descendants, whose text contains want and which has no matching descendant
func deepestContaining(root *goquery.Selection, want string, ignoreCase bool) *goquery.Selection {
	var cands []*goquery.Selection
	if strings.Contains(normText(root.Text(), ignoreCase), want) {
		cands = append(cands, root)
	}
	root.Find("*").Each(func(_ int, s *goquery.Selection) {
		if strings.Contains(normText(s.Text(), ignoreCase), want) {
			cands = append(cands, s)
		}
	})

	for _, c := range cands {
		deepest := true
		for _, m := range cands {
			if m.Nodes[0] != c.Nodes[0] && c.Contains(m.Nodes[0]) {
				deepest = false
				break
			}
		}
		if deepest {
			return c
		}
	}
	return nil
}

func parseInlineStyle(s *goquery.Selection) map[string]string {
	out := make(map[string]string)
	raw, ok := s.Attr("style")
	if !ok {
		return out
	}
	for _, decl := range strings.Split(raw, ";") {
		name, value, found := strings.Cut(decl, ":")
		if !found {
			continue
		}
		out[strings.ToLower(strings.TrimSpace(name))] = strings.ToLower(strings.TrimSpace(value))
	}
	return out
}

// inheritedStyle returns the nearest inline declaration of property on s or its ancestors
func inheritedStyle(s *goquery.Selection, property, fallback string) string {
	for cur := s; cur.Length() > 0; cur = cur.Parent() {
		if v, ok := parseInlineStyle(cur)[property]; ok && v != "" && v != "inherit" {
			return v
		}
	}
	return fallback
}

func isVisible(s *goquery.Selection) bool {
	tag := goquery.NodeName(s)
	if tag == "input" {
		if t, _ := s.Attr("type"); strings.EqualFold(t, "hidden") {
			return false
		}
	}
	if inheritedStyle(s, "visibility", "visible") == "hidden" {
		return false
	}
	for cur := s; cur.Length() > 0; cur = cur.Parent() {
		if hiddenTags[goquery.NodeName(cur)] {
			return false
		}
		if _, hidden := cur.Attr("hidden"); hidden {
			return false
		}
		if parseInlineStyle(cur)["display"] == "none" {
			return false
		}
	}
	return true
}

func isDisabled(s *goquery.Selection) bool {
	tag := goquery.NodeName(s)
	if !formTags[tag] {
		return false
	}
	if _, ok := s.Attr("disabled"); ok {
		return true
	}
	if tag == "option" {
		if _, ok := s.ParentFiltered("optgroup").Attr("disabled"); ok {
			return true
		}
	}
	return s.ParentsFiltered("fieldset[disabled]").Length() > 0
}

func isChecked(s *goquery.Selection) bool {
	switch goquery.NodeName(s) {
	case "input":
		t, _ := s.Attr("type")
		t = strings.ToLower(t)
		if t != "checkbox" && t != "radio" {
			return false
		}
		_, ok := s.Attr("checked")
		return ok
	case "option":
		_, ok := s.Attr("selected")
		return ok
	}
	return false
}

func valueOf(s *goquery.Selection) string {
	switch goquery.NodeName(s) {
	case "textarea":
		return s.Text()
	case "select":
		opt := s.Find("option[selected]").First()
		if opt.Length() == 0 {
			opt = s.Find("option").First()
		}
		if opt.Length() == 0 {
			return ""
		}
		return valueOf(opt)
	case "option":
		if v, ok := s.Attr("value"); ok {
			return v
		}
		return s.Text()
	}
	v, _ := s.Attr("value")
	return v
}

func snapshotSelection(s *goquery.Selection) models.ElementState {
	tag := goquery.NodeName(s)

	attrs := make(map[string]string)
	for _, a := range s.Nodes[0].Attr {
		attrs[a.Key] = a.Val
	}
	classes := strings.Fields(attrs["class"])
	if classes == nil {
		classes = []string{}
	}

	display := parseInlineStyle(s)["display"]
	if display == "" {
		display = "block"
	}

	state := models.ElementState{
		Tag:        tag,
		Text:       s.Text(),
		HasValue:   valueTags[tag],
		Attributes: attrs,
		Classes:    classes,
		Visible:    isVisible(s),
		Checked:    isChecked(s),
		Style: map[string]string{
			"cursor":     inheritedStyle(s, "cursor", "auto"),
			"display":    display,
			"visibility": inheritedStyle(s, "visibility", "visible"),
		},
	}
	if state.HasValue {
		state.Value = valueOf(s)
	}
	if formTags[tag] {
		state.Disabled = isDisabled(s)
		state.Enabled = !state.Disabled
	}
	return state
}
