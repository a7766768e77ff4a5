package controls

import (
	"context"
	"fmt"

	"github.com/ternarybob/uicontrols/pkg/models"
)

// Confirmation dialog element ids
const (
	ConfirmationHeading      = "confirmationHeading"
	ConfirmationMessage      = "confirmationMessage"
	OKConfirmationButton     = "okConfirmationButton"
	CancelConfirmationButton = "cancelConfirmationButton"
)

// Unsaved changes dialog
const (
	unsavedHeading     = "#rcDialogTitle0 > h2"
	unsavedBody        = ".ant-modal-body"
	unsavedStayButton  = ".ant-modal-footer > .ant-btn-default"
	unsavedLeaveButton = ".ant-modal-footer > .ant-btn-primary"

	UnsavedChangesHeading = "Unsaved Changes"
	LeavePage             = "Leave Page"
	StayOnPage            = "Stay on this Page"
)

// ValidateConfirmationMessage checks the confirmation dialog's heading, message and buttons
func (c *Controls) ValidateConfirmationMessage(ctx context.Context, heading, message, ok, cancel string) error {
	detail := fmt.Sprintf("heading=%s message=%s ok=%s cancel=%s", heading, message, ok, cancel)
	return c.step(ctx, "ValidateConfirmationMessage", detail, func() error {
		if err := c.ValidateText(ctx, ConfirmationHeading, heading, true, 0); err != nil {
			return err
		}
		if err := c.ValidateText(ctx, ConfirmationMessage, message, true, 0); err != nil {
			return err
		}
		if err := c.ValidateButton(ctx, OKConfirmationButton, ok, true, 0); err != nil {
			return err
		}
		return c.ValidateButton(ctx, CancelConfirmationButton, cancel, true, 0)
	})
}

// ValidateUnsavedText checks value appears anywhere on the page. selector only labels the check.
func (c *Controls) ValidateUnsavedText(ctx context.Context, selector, value string, timeoutMs int) error {
	return c.step(ctx, "ValidateUnsavedText", fmt.Sprintf("selector=%s value=%s", selector, value), func() error {
		t := c.timeout(timeoutMs, c.settings.Timeouts.DefaultMs)
		return c.expect(ctx, models.CSS("body").Containing(value), t, exists())
	})
}

// ValidateUnsavedButton checks a dialog button's exact label and state
func (c *Controls) ValidateUnsavedButton(ctx context.Context, selector, value string, isEnabled bool) error {
	detail := fmt.Sprintf("selector=%s value=%s enabled=%t", selector, value, isEnabled)
	return c.step(ctx, "ValidateUnsavedButton", detail, func() error {
		button := models.CSS(selector)
		if err := c.expect(ctx, button, c.defaultTimeout(), exists(), textEq(value)); err != nil {
			return err
		}
		return c.expect(ctx, button, c.defaultTimeout(), enabled(isEnabled))
	})
}

// ClickUnsavedButton clicks an enabled dialog button
func (c *Controls) ClickUnsavedButton(ctx context.Context, selector string) error {
	return c.step(ctx, "ClickUnsavedButton", "selector="+selector, func() error {
		button := models.CSS(selector)
		if err := c.expect(ctx, button, c.defaultTimeout(), exists(), enabled(true)); err != nil {
			return err
		}
		return c.click(ctx, button, false)
	})
}

// ValidateUnsavedConfirmationMessage checks the unsaved changes dialog
func (c *Controls) ValidateUnsavedConfirmationMessage(ctx context.Context, heading, message, leave, stay string) error {
	detail := fmt.Sprintf("heading=%s message=%s leave=%s stay=%s", heading, message, leave, stay)
	return c.step(ctx, "ValidateUnsavedConfirmationMessage", detail, func() error {
		if err := c.ValidateUnsavedText(ctx, unsavedHeading, heading, 0); err != nil {
			return err
		}
		if err := c.ValidateUnsavedText(ctx, unsavedBody, message, 0); err != nil {
			return err
		}
		if err := c.ValidateUnsavedButton(ctx, unsavedStayButton, stay, true); err != nil {
			return err
		}
		return c.ValidateUnsavedButton(ctx, unsavedLeaveButton, leave, true)
	})
}

// ValidateAndClickButton checks the unsaved changes dialog, then leaves the page when option
// is LeavePage and stays otherwise
func (c *Controls) ValidateAndClickButton(ctx context.Context, option string) error {
	return c.step(ctx, "ValidateAndClickButton", "option="+option, func() error {
		if err := c.ValidateUnsavedConfirmationMessage(ctx, UnsavedChangesHeading, c.UnsavedMessage(), LeavePage, StayOnPage); err != nil {
			return err
		}
		if option == LeavePage {
			return c.ClickUnsavedButton(ctx, unsavedLeaveButton)
		}
		return c.ClickUnsavedButton(ctx, unsavedStayButton)
	})
}
