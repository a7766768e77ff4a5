package controls

import (
	"context"
	"fmt"

	"github.com/ternarybob/uicontrols/pkg/models"
)

// Job history row states after a cancel dialog
const (
	JobCancelled = "Cancelled"
	JobMapped    = "Mapped"
)

const (
	cancelJobHeading = "Cancel Job?"
	historyTitle     = "tcHeader"
	jobStatus        = "jobStatus"
)

// jobRow is the expected history row: name, file, date, version, user, status, error, actions
func jobRow(name, file, user, status, actions string) []models.Cell {
	return []models.Cell{
		models.TextCell(name),
		models.TextCell(file),
		models.AnyCell(),
		models.AnyCell(),
		models.TextCell(user),
		models.TextCell(status),
		models.TextCell(""),
		models.TextCell(actions),
	}
}

func (c *Controls) validateCancelDialog(ctx context.Context, name string) error {
	return c.ValidateConfirmationMessage(ctx, cancelJobHeading, c.CancelMessage(name), "Yes", "No")
}

// ValidateCancelledJobOnHistory confirms the cancel dialog raised from the history page and waits
// for the job's row to show it cancelled
func (c *Controls) ValidateCancelledJobOnHistory(ctx context.Context, name, file, user string) error {
	detail := fmt.Sprintf("name=%s file=%s user=%s", name, file, user)
	return c.step(ctx, "ValidateCancelledJobOnHistory", detail, func() error {
		if err := c.validateCancelDialog(ctx, name); err != nil {
			return err
		}
		if err := c.ClickButton(ctx, OKConfirmationButton); err != nil {
			return err
		}
		if err := c.settle(ctx, "cancel_job", c.settings.Settle.CancelJobMs); err != nil {
			return err
		}
		if err := c.ValidateText(ctx, historyTitle, c.HistoryHeader(), true, c.settings.Timeouts.HistoryReloadMs); err != nil {
			return err
		}
		return c.ValidateTableRow(ctx, c.settings.History.TableID, "Name", name, jobRow(name, file, user, JobCancelled, ""))
	})
}

// ValidateCancelledJob answers the cancel dialog and checks the job's history row. cancel confirms
// the cancellation; otherwise the job stays Mapped. history means the dialog was raised from the
// history page, so a dismissed dialog needs no navigation.
func (c *Controls) ValidateCancelledJob(ctx context.Context, name, file, user string, cancel, history bool) error {
	detail := fmt.Sprintf("name=%s file=%s user=%s cancel=%t history=%t", name, file, user, cancel, history)
	return c.step(ctx, "ValidateCancelledJob", detail, func() error {
		if err := c.validateCancelDialog(ctx, name); err != nil {
			return err
		}

		var row []models.Cell
		if cancel {
			if err := c.ClickButton(ctx, OKConfirmationButton); err != nil {
				return err
			}
			row = jobRow(name, file, user, JobCancelled, "")
			if history {
				if err := c.settle(ctx, "cancel_job", c.settings.Settle.CancelJobMs); err != nil {
					return err
				}
			}
		} else {
			if err := c.ClickButton(ctx, CancelConfirmationButton); err != nil {
				return err
			}
			if !history {
				if err := c.WaitForElement(ctx, jobStatus, JobMapped, c.settings.Timeouts.ElementWaitMs); err != nil {
					return err
				}
				if err := c.GoToHistoryPage(ctx); err != nil {
					return err
				}
			}
			row = jobRow(name, file, user, JobMapped, "Actions")
		}

		if err := c.ValidateText(ctx, historyTitle, c.HistoryHeader(), true, c.settings.Timeouts.ElementWaitMs); err != nil {
			return err
		}
		return c.ValidateTableRow(ctx, c.settings.History.TableID, "Name", name, row)
	})
}
