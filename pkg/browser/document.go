package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/uicontrols/pkg/models"
)

// ErrNotActionable is returned when a non-forced click targets a hidden node
var ErrNotActionable = errors.New("element is not visible")

// Action kinds recorded by DocumentPage
const (
	ActionClick    = "click"
	ActionHover    = "hover"
	ActionUnhover  = "unhover"
	ActionType     = "type"
	ActionPress    = "press"
	ActionClear    = "clear"
	ActionCheck    = "check"
	ActionFiles    = "files"
	ActionNavigate = "navigate"
)

// DocumentAction is one interaction applied to a DocumentPage
type DocumentAction struct {
	Kind    string
	Locator string
	Target  string // id or tag of the node acted on
	Text    string
	Force   bool
	Files   []models.FilePayload
}

// Hook mutates the document in response to an action. target is nil for navigation.
// Hooks run under the page lock and must not call back into the page.
type Hook func(doc *goquery.Document, target *goquery.Selection, action DocumentAction)

type hook struct {
	kind     string
	selector string
	fn       Hook
}

// DocumentPage is a Page over a static DOM parsed with goquery. Hooks registered with On
// stand in for the application's scripts.
type DocumentPage struct {
	mu      sync.Mutex
	doc     *goquery.Document
	url     string
	hooks   []hook
	actions []DocumentAction
	logger  arbor.ILogger
}

// NewDocumentPage parses html into a page
func NewDocumentPage(html string, logger arbor.ILogger) (*DocumentPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return &DocumentPage{
		doc:    doc,
		url:    "about:blank",
		logger: logger,
	}, nil
}

// SetHTML replaces the document, keeping hooks and the action log
func (p *DocumentPage) SetHTML(html string) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.doc = doc
	return nil
}

// SetURL sets the address URL reports
func (p *DocumentPage) SetURL(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.url = url
}

// On registers fn for actions of kind whose target matches selector (empty matches all)
func (p *DocumentPage) On(kind, selector string, fn Hook) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hooks = append(p.hooks, hook{kind: kind, selector: selector, fn: fn})
}

// Mutate runs fn against the document under the page lock
func (p *DocumentPage) Mutate(fn func(doc *goquery.Document)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p.doc)
}

// Actions returns the interactions applied so far
func (p *DocumentPage) Actions() []DocumentAction {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]DocumentAction, len(p.actions))
	copy(out, p.actions)
	return out
}

// ActionsOf returns the recorded actions of one kind
func (p *DocumentPage) ActionsOf(kind string) []DocumentAction {
	var out []DocumentAction
	for _, a := range p.Actions() {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}

func (p *DocumentPage) Query(ctx context.Context, loc models.Locator) ([]models.ElementState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	nodes := resolveDocument(p.doc, loc)
	states := make([]models.ElementState, 0, len(nodes))
	for _, n := range nodes {
		states = append(states, snapshotSelection(n))
	}
	return states, nil
}

// act resolves loc, records the action and fires matching hooks
func (p *DocumentPage) act(ctx context.Context, loc models.Locator, action DocumentAction, apply func(target *goquery.Selection) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	nodes := resolveDocument(p.doc, loc)
	if len(nodes) == 0 {
		return fmt.Errorf("%s %s: %w", action.Kind, loc, ErrNoMatch)
	}
	target := nodes[0]
	if apply != nil {
		if err := apply(target); err != nil {
			return err
		}
	}

	action.Locator = loc.String()
	action.Target = describeSelection(target)
	p.actions = append(p.actions, action)
	p.logger.Debug().Str("action", action.Kind).Str("target", action.Target).Msg("Document action")

	for _, h := range p.hooks {
		if h.kind != action.Kind {
			continue
		}
		if h.selector != "" && !target.Is(h.selector) {
			continue
		}
		h.fn(p.doc, target, action)
	}
	return nil
}

func (p *DocumentPage) Click(ctx context.Context, loc models.Locator, opts models.ClickOptions) error {
	return p.act(ctx, loc, DocumentAction{Kind: ActionClick, Force: opts.Force}, func(target *goquery.Selection) error {
		if !opts.Force && !isVisible(target) {
			return fmt.Errorf("click %s: %w", loc, ErrNotActionable)
		}
		return nil
	})
}

func (p *DocumentPage) Hover(ctx context.Context, loc models.Locator, leave bool) error {
	kind := ActionHover
	if leave {
		kind = ActionUnhover
	}
	return p.act(ctx, loc, DocumentAction{Kind: kind}, nil)
}

func (p *DocumentPage) Type(ctx context.Context, loc models.Locator, text string) error {
	return p.act(ctx, loc, DocumentAction{Kind: ActionType, Text: text}, func(target *goquery.Selection) error {
		switch goquery.NodeName(target) {
		case "input":
			v, _ := target.Attr("value")
			target.SetAttr("value", v+text)
		case "textarea":
			target.SetText(target.Text() + text)
		}
		return nil
	})
}

func (p *DocumentPage) Press(ctx context.Context, loc models.Locator, key models.Key) error {
	return p.act(ctx, loc, DocumentAction{Kind: ActionPress, Text: string(key)}, nil)
}

func (p *DocumentPage) Clear(ctx context.Context, loc models.Locator) error {
	return p.act(ctx, loc, DocumentAction{Kind: ActionClear}, func(target *goquery.Selection) error {
		switch goquery.NodeName(target) {
		case "input":
			target.SetAttr("value", "")
		case "textarea":
			target.SetText("")
		}
		return nil
	})
}

func (p *DocumentPage) SetChecked(ctx context.Context, loc models.Locator, checked bool) error {
	text := "false"
	if checked {
		text = "true"
	}
	return p.act(ctx, loc, DocumentAction{Kind: ActionCheck, Text: text}, func(target *goquery.Selection) error {
		if checked {
			target.SetAttr("checked", "checked")
		} else {
			target.RemoveAttr("checked")
		}
		return nil
	})
}

func (p *DocumentPage) SetFiles(ctx context.Context, loc models.Locator, files []models.FilePayload) error {
	return p.act(ctx, loc, DocumentAction{Kind: ActionFiles, Files: files}, nil)
}

func (p *DocumentPage) URL(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url, nil
}

func (p *DocumentPage) Navigate(ctx context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.url = url
	action := DocumentAction{Kind: ActionNavigate, Text: url}
	p.actions = append(p.actions, action)
	for _, h := range p.hooks {
		if h.kind == ActionNavigate {
			h.fn(p.doc, nil, action)
		}
	}
	return nil
}

func (p *DocumentPage) HTML(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	html, err := goquery.OuterHtml(p.doc.Selection.Children())
	if err != nil {
		return "", fmt.Errorf("failed to render document: %w", err)
	}
	return html, nil
}

func describeSelection(s *goquery.Selection) string {
	if id, ok := s.Attr("id"); ok && id != "" {
		return "#" + id
	}
	return goquery.NodeName(s)
}
