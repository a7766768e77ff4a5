package controls

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/uicontrols/internal/poll"
	"github.com/ternarybob/uicontrols/pkg/browser"
	"github.com/ternarybob/uicontrols/pkg/models"
)

// check is one condition evaluated against the nodes a locator resolves to.
// Unless allowEmpty is set, zero nodes fails the check as NotFound.
type check struct {
	name       string
	kind       error
	expected   string
	allowEmpty bool
	eval       func(nodes []models.ElementState) (actual string, ok bool)
}

func exists() check {
	return check{
		name: "exist",
		kind: ErrNotFound,
		eval: func(nodes []models.ElementState) (string, bool) {
			return "", true
		},
	}
}

func notExists() check {
	return check{
		name:       "not exist",
		kind:       ErrStateMismatch,
		expected:   "absent",
		allowEmpty: true,
		eval: func(nodes []models.ElementState) (string, bool) {
			return fmt.Sprintf("%d present", len(nodes)), len(nodes) == 0
		},
	}
}

// countAbove passes once more than n nodes match
func countAbove(n int) check {
	return check{
		name:       "count",
		kind:       ErrNotFound,
		expected:   "more than " + strconv.Itoa(n),
		allowEmpty: true,
		eval: func(nodes []models.ElementState) (string, bool) {
			return strconv.Itoa(len(nodes)), len(nodes) > n
		},
	}
}

func joinedText(nodes []models.ElementState) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(n.Text)
	}
	return b.String()
}

// textEq compares the concatenated text content of every match
func textEq(value string) check {
	return check{
		name:     "text",
		kind:     ErrMismatch,
		expected: value,
		eval: func(nodes []models.ElementState) (string, bool) {
			text := joinedText(nodes)
			return text, text == value
		},
	}
}

func textContains(value string) check {
	return check{
		name:     "contain text",
		kind:     ErrMismatch,
		expected: value,
		eval: func(nodes []models.ElementState) (string, bool) {
			text := joinedText(nodes)
			return text, strings.Contains(text, value)
		},
	}
}

func valueEq(value string) check {
	return check{
		name:     "value",
		kind:     ErrMismatch,
		expected: value,
		eval: func(nodes []models.ElementState) (string, bool) {
			return nodes[0].Value, nodes[0].Value == value
		},
	}
}

func attrEq(name, value string) check {
	return check{
		name:     "attribute " + name,
		kind:     ErrMismatch,
		expected: value,
		eval: func(nodes []models.ElementState) (string, bool) {
			v, ok := nodes[0].Attr(name)
			return v, ok && v == value
		},
	}
}

func cssEq(property, value string) check {
	return check{
		name:     "css " + property,
		kind:     ErrMismatch,
		expected: value,
		eval: func(nodes []models.ElementState) (string, bool) {
			v := nodes[0].ComputedStyle(property)
			return v, v == value
		},
	}
}

func anyNode(nodes []models.ElementState, pred func(models.ElementState) bool) bool {
	for _, n := range nodes {
		if pred(n) {
			return true
		}
	}
	return false
}

func visible() check {
	return check{
		name:     "visible",
		kind:     ErrStateMismatch,
		expected: "visible",
		eval: func(nodes []models.ElementState) (string, bool) {
			if anyNode(nodes, func(n models.ElementState) bool { return n.Visible }) {
				return "visible", true
			}
			return "hidden", false
		},
	}
}

// enabled asserts the :enabled or :disabled state, which only form elements carry
func enabled(want bool) check {
	name := "enabled"
	if !want {
		name = "disabled"
	}
	return check{
		name:     name,
		kind:     ErrStateMismatch,
		expected: name,
		eval: func(nodes []models.ElementState) (string, bool) {
			ok := anyNode(nodes, func(n models.ElementState) bool {
				if want {
					return n.Enabled
				}
				return n.Disabled
			})
			return stateName(nodes[0]), ok
		},
	}
}

func stateName(n models.ElementState) string {
	switch {
	case n.Enabled:
		return "enabled"
	case n.Disabled:
		return "disabled"
	}
	return "not a form control"
}

func checked(want bool) check {
	name := "checked"
	if !want {
		name = "not checked"
	}
	return check{
		name:     name,
		kind:     ErrStateMismatch,
		expected: name,
		eval: func(nodes []models.ElementState) (string, bool) {
			found := anyNode(nodes, func(n models.ElementState) bool { return n.Checked })
			actual := "not checked"
			if found {
				actual = "checked"
			}
			return actual, found == want
		},
	}
}

func hasClass(class string, want bool) check {
	name := "has class " + class
	if !want {
		name = "not has class " + class
	}
	return check{
		name:     name,
		kind:     ErrStateMismatch,
		expected: name,
		eval: func(nodes []models.ElementState) (string, bool) {
			found := anyNode(nodes, func(n models.ElementState) bool { return n.HasClass(class) })
			return strings.Join(nodes[0].Classes, " "), found == want
		},
	}
}

// expect polls loc until every check holds or timeout elapses
func (c *Controls) expect(ctx context.Context, loc models.Locator, timeout time.Duration, checks ...check) error {
	target := loc.String()

	attempt := func(ctx context.Context) error {
		nodes, err := c.page.Query(ctx, loc)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			return poll.Retry(&AssertionError{Kind: ErrNotFound, Target: target, Check: "query", Cause: err})
		}
		for _, chk := range checks {
			if len(nodes) == 0 && !chk.allowEmpty {
				return poll.Retry(notFound(target, chk.name))
			}
			if actual, ok := chk.eval(nodes); !ok {
				return poll.Retry(&AssertionError{
					Kind:     chk.kind,
					Target:   target,
					Check:    chk.name,
					Expected: chk.expected,
					Actual:   actual,
				})
			}
		}
		return nil
	}

	out, err := poll.Until(ctx, timeout, c.interval(), attempt)
	if err == nil {
		return nil
	}

	var ae *AssertionError
	if errors.As(err, &ae) {
		ae.Elapsed = out.Elapsed
		return ae
	}
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return &AssertionError{Kind: ErrTimeout, Target: target, Elapsed: out.Elapsed, Cause: err}
	}
	return fmt.Errorf("%s: %w", target, err)
}

// pollFailure attaches the elapsed time to an assertion failure of a hand-written poll
func pollFailure(err error, out poll.Outcome) error {
	if err == nil {
		return nil
	}
	var ae *AssertionError
	if errors.As(err, &ae) {
		ae.Elapsed = out.Elapsed
	}
	return err
}

func (c *Controls) defaultTimeout() time.Duration {
	return models.Millis(c.settings.Timeouts.DefaultMs)
}

// actionError classifies a failed browser action
func actionError(action string, loc models.Locator, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, browser.ErrNoMatch):
		return &AssertionError{Kind: ErrNotFound, Target: loc.String(), Check: action, Cause: err}
	case errors.Is(err, browser.ErrNotActionable):
		return &AssertionError{Kind: ErrStateMismatch, Target: loc.String(), Check: action, Expected: "visible", Cause: err}
	}
	return fmt.Errorf("%s %s: %w", action, loc, err)
}

// click waits for loc to resolve, and to be visible unless forced, then clicks the first node
func (c *Controls) click(ctx context.Context, loc models.Locator, force bool) error {
	ready := exists()
	if !force {
		ready = visible()
	}
	if err := c.expect(ctx, loc, c.defaultTimeout(), ready); err != nil {
		return err
	}
	return actionError("click", loc, c.page.Click(ctx, loc, models.ClickOptions{Force: force}))
}

func (c *Controls) hover(ctx context.Context, loc models.Locator, leave bool) error {
	if err := c.expect(ctx, loc, c.defaultTimeout(), exists()); err != nil {
		return err
	}
	return actionError("hover", loc, c.page.Hover(ctx, loc, leave))
}

func (c *Controls) typeText(ctx context.Context, loc models.Locator, text string) error {
	if err := c.expect(ctx, loc, c.defaultTimeout(), exists()); err != nil {
		return err
	}
	return actionError("type", loc, c.page.Type(ctx, loc, text))
}

// typeAndEnter types text followed by the Enter key
func (c *Controls) typeAndEnter(ctx context.Context, loc models.Locator, text string) error {
	if err := c.typeText(ctx, loc, text); err != nil {
		return err
	}
	return actionError("press", loc, c.page.Press(ctx, loc, models.KeyEnter))
}

func (c *Controls) press(ctx context.Context, loc models.Locator, key models.Key) error {
	if err := c.expect(ctx, loc, c.defaultTimeout(), exists()); err != nil {
		return err
	}
	return actionError("press", loc, c.page.Press(ctx, loc, key))
}

func (c *Controls) clear(ctx context.Context, loc models.Locator) error {
	if err := c.expect(ctx, loc, c.defaultTimeout(), exists()); err != nil {
		return err
	}
	return actionError("clear", loc, c.page.Clear(ctx, loc))
}
