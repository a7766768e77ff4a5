package controls

import "os"

// CancelMessage is the body of the cancel-job confirmation for job name
func (c *Controls) CancelMessage(name string) string {
	return os.Expand(c.settings.Messages.CancelTemplate, func(key string) string {
		if key == "name" {
			return name
		}
		return "$" + key
	})
}

// HistoryHeader is the heading of the job history page
func (c *Controls) HistoryHeader() string {
	return c.settings.Messages.HistoryHeader
}

// UnsavedMessage is the body of the unsaved changes dialog
func (c *Controls) UnsavedMessage() string {
	return c.settings.Messages.UnsavedMessage
}
