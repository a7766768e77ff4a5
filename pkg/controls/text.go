package controls

import (
	"context"
	"fmt"

	"github.com/ternarybob/uicontrols/pkg/models"
)

// validateTextAt checks loc's text. exact compares the full text content, case and whitespace
// included; otherwise some node under loc must contain value.
func (c *Controls) validateTextAt(ctx context.Context, loc models.Locator, value string, exact bool, timeoutMs int) error {
	t := c.timeout(timeoutMs, c.settings.Timeouts.DefaultMs)
	if err := c.expect(ctx, loc, t, exists()); err != nil {
		return err
	}
	if exact {
		return c.expect(ctx, loc, t, textEq(value))
	}
	return c.expect(ctx, loc.Containing(value), t, exists())
}

func textDetail(target, value string, exact bool) string {
	return fmt.Sprintf("target=%s value=%s exact=%t", target, value, exact)
}

// ValidateText checks the text of #id. timeoutMs 0 uses the default timeout.
func (c *Controls) ValidateText(ctx context.Context, id, value string, exact bool, timeoutMs int) error {
	return c.step(ctx, "ValidateText", textDetail(id, value, exact), func() error {
		return c.validateTextAt(ctx, models.ByID(id), value, exact, timeoutMs)
	})
}

// ValidateDataIDText checks the text of [data-testid=id]
func (c *Controls) ValidateDataIDText(ctx context.Context, id, value string, exact bool, timeoutMs int) error {
	return c.step(ctx, "ValidateDataIDText", textDetail(id, value, exact), func() error {
		return c.validateTextAt(ctx, models.ByTestID(id), value, exact, timeoutMs)
	})
}

// ValidateTextByClass checks the text of .class
func (c *Controls) ValidateTextByClass(ctx context.Context, class, value string, exact bool, timeoutMs int) error {
	return c.step(ctx, "ValidateTextByClass", textDetail(class, value, exact), func() error {
		return c.validateTextAt(ctx, models.ByClass(class), value, exact, timeoutMs)
	})
}

// ValidateHyperlinkText checks the text of the link [data-testid=id]
func (c *Controls) ValidateHyperlinkText(ctx context.Context, id, value string, exact bool, timeoutMs int) error {
	return c.step(ctx, "ValidateHyperlinkText", textDetail(id, value, exact), func() error {
		return c.validateTextAt(ctx, models.ByTestID(id), value, exact, timeoutMs)
	})
}

// WaitForElement waits for #id to be visible and, when value is set, to contain it.
// timeoutMs 0 uses the element wait default.
func (c *Controls) WaitForElement(ctx context.Context, id, value string, timeoutMs int) error {
	return c.step(ctx, "WaitForElement", fmt.Sprintf("id=%s value=%s", id, value), func() error {
		return c.waitFor(ctx, models.ByID(id), value, timeoutMs)
	})
}

// WaitForElements is WaitForElement for an arbitrary selector
func (c *Controls) WaitForElements(ctx context.Context, selector, value string, timeoutMs int) error {
	return c.step(ctx, "WaitForElements", fmt.Sprintf("selector=%s value=%s", selector, value), func() error {
		return c.waitFor(ctx, models.CSS(selector), value, timeoutMs)
	})
}

func (c *Controls) waitFor(ctx context.Context, loc models.Locator, value string, timeoutMs int) error {
	t := c.timeout(timeoutMs, c.settings.Timeouts.WaitForElementMs)
	if err := c.expect(ctx, loc, t, visible()); err != nil {
		return err
	}
	if value == "" {
		return nil
	}
	return c.expect(ctx, loc.Containing(value), t, exists())
}
