package controls

import (
	"context"
	"fmt"

	"github.com/ternarybob/uicontrols/pkg/models"
)

const (
	reviewActionLink = ".ant-table-cell-fix-right > .reviewButton > .columnLinkWithText > #undefined-name"
	vtxIcon          = ".vtx-icon"
)

// ValidateButton checks a button's exact label and its enabled or disabled state.
// timeoutMs 0 uses the default timeout.
func (c *Controls) ValidateButton(ctx context.Context, id, value string, isEnabled bool, timeoutMs int) error {
	detail := fmt.Sprintf("id=%s value=%s enabled=%t", id, value, isEnabled)
	return c.step(ctx, "ValidateButton", detail, func() error {
		t := c.timeout(timeoutMs, c.settings.Timeouts.DefaultMs)
		button := models.ByID(id)
		if err := c.expect(ctx, button, t, exists(), textEq(value)); err != nil {
			return err
		}
		return c.expect(ctx, button, t, enabled(isEnabled))
	})
}

// ValidateButtonNotExists checks #id is absent
func (c *Controls) ValidateButtonNotExists(ctx context.Context, id string) error {
	return c.step(ctx, "ValidateButtonNotExists", "id="+id, func() error {
		return c.expect(ctx, models.ByID(id), c.defaultTimeout(), notExists())
	})
}

// ValidateIconButton checks an icon button's label
func (c *Controls) ValidateIconButton(ctx context.Context, id, value string) error {
	return c.step(ctx, "ValidateIconButton", fmt.Sprintf("id=%s value=%s", id, value), func() error {
		return c.expect(ctx, models.ByID(id), c.defaultTimeout(), exists(), textEq(value))
	})
}

// WaitForButton waits for a button to become enabled or disabled
func (c *Controls) WaitForButton(ctx context.Context, id string, isEnabled bool, timeoutMs int) error {
	return c.step(ctx, "WaitForButton", fmt.Sprintf("id=%s enabled=%t", id, isEnabled), func() error {
		t := c.timeout(timeoutMs, c.settings.Timeouts.WaitForButtonMs)
		return c.expect(ctx, models.ByID(id), t, enabled(isEnabled))
	})
}

// ClickButton clicks an enabled button
func (c *Controls) ClickButton(ctx context.Context, id string) error {
	return c.step(ctx, "ClickButton", "id="+id, func() error {
		button := models.ByID(id)
		if err := c.expect(ctx, button, c.defaultTimeout(), exists(), enabled(true)); err != nil {
			return err
		}
		return c.click(ctx, button, false)
	})
}

// ClickIconButton force-clicks a button whatever its state
func (c *Controls) ClickIconButton(ctx context.Context, id string) error {
	return c.step(ctx, "ClickIconButton", "id="+id, func() error {
		return c.click(ctx, models.ByID(id), true)
	})
}

// ClickSaveButton clicks the button when it is enabled and otherwise asserts it is disabled
func (c *Controls) ClickSaveButton(ctx context.Context, id string) error {
	return c.step(ctx, "ClickSaveButton", "id="+id, func() error {
		button := models.ByID(id)
		if err := c.expect(ctx, button, c.defaultTimeout(), exists()); err != nil {
			return err
		}
		nodes, err := c.page.Query(ctx, button)
		if err != nil {
			return fmt.Errorf("query %s: %w", button, err)
		}
		if len(nodes) > 0 && nodes[0].Enabled {
			return c.click(ctx, button, false)
		}
		return c.expect(ctx, button, c.defaultTimeout(), enabled(false))
	})
}

// clickExisting clicks loc once it exists, without forcing
func (c *Controls) clickExisting(ctx context.Context, op string, loc models.Locator) error {
	return c.step(ctx, op, "target="+loc.String(), func() error {
		if err := c.expect(ctx, loc, c.defaultTimeout(), exists()); err != nil {
			return err
		}
		return c.click(ctx, loc, false)
	})
}

// ClickIcon clicks the icon #id
func (c *Controls) ClickIcon(ctx context.Context, id string) error {
	return c.clickExisting(ctx, "ClickIcon", models.ByID(id))
}

// ClickHyperlink clicks the link [data-testid=id]
func (c *Controls) ClickHyperlink(ctx context.Context, id string) error {
	return c.clickExisting(ctx, "ClickHyperlink", models.ByTestID(id))
}

// ClickMenu clicks the menu matched by selector
func (c *Controls) ClickMenu(ctx context.Context, selector string) error {
	return c.clickExisting(ctx, "ClickMenu", models.CSS(selector))
}

// DownloadConfigReport clicks the report download control matched by selector
func (c *Controls) DownloadConfigReport(ctx context.Context, selector string) error {
	return c.clickExisting(ctx, "DownloadConfigReport", models.CSS(selector))
}

// ClickIconByClassName clicks the .vtx-icon child of .class
func (c *Controls) ClickIconByClassName(ctx context.Context, class string) error {
	return c.clickExisting(ctx, "ClickIconByClassName", models.ByClass(class).Child(vtxIcon))
}

// ClickReviewInActions force-clicks the review action of the row at index
func (c *Controls) ClickReviewInActions(ctx context.Context, index int) error {
	return c.step(ctx, "ClickReviewInActions", fmt.Sprintf("index=%d", index), func() error {
		return c.click(ctx, models.CSS(reviewActionLink).Eq(index), true)
	})
}

// ValidateSwitch checks a switch's label and enabled state
func (c *Controls) ValidateSwitch(ctx context.Context, id, value string, isEnabled bool) error {
	detail := fmt.Sprintf("id=%s value=%s enabled=%t", id, value, isEnabled)
	return c.step(ctx, "ValidateSwitch", detail, func() error {
		sw := models.ByAutomationID(id)
		if err := c.expect(ctx, sw, c.defaultTimeout(), exists(), textEq(value)); err != nil {
			return err
		}
		return c.expect(ctx, sw, c.defaultTimeout(), enabled(isEnabled))
	})
}

// ToggleSwitch clicks an enabled switch
func (c *Controls) ToggleSwitch(ctx context.Context, id string) error {
	return c.step(ctx, "ToggleSwitch", "id="+id, func() error {
		sw := models.ByAutomationID(id)
		if err := c.expect(ctx, sw, c.defaultTimeout(), exists(), enabled(true)); err != nil {
			return err
		}
		return c.click(ctx, sw, false)
	})
}

// ValidateSwitchStatus turns the switch over and saves the settings when its label is value.
// Any other label leaves the switch alone.
func (c *Controls) ValidateSwitchStatus(ctx context.Context, id, value string) error {
	return c.step(ctx, "ValidateSwitchStatus", fmt.Sprintf("id=%s value=%s", id, value), func() error {
		sw := models.ByAutomationID(id)
		if err := c.expect(ctx, sw, c.defaultTimeout(), exists()); err != nil {
			return err
		}
		nodes, err := c.page.Query(ctx, sw)
		if err != nil {
			return fmt.Errorf("query %s: %w", sw, err)
		}
		if joinedText(nodes) != value {
			c.logger.Debug().Str("id", id).Msg("Switch already in the wanted state")
			return nil
		}

		if err := c.click(ctx, sw, false); err != nil {
			return err
		}
		if err := c.ValidateButton(ctx, "cancelButton", "Cancel", true, 0); err != nil {
			return err
		}
		if err := c.ValidateButton(ctx, "saveButton", "Save", true, 0); err != nil {
			return err
		}
		if err := c.ClickButton(ctx, "saveButton"); err != nil {
			return err
		}
		return c.ValidateText(ctx, "notificationDescription", c.settings.Messages.SettingsSaved, true, 0)
	})
}
