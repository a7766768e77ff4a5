package controls

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/uicontrols/pkg/browser"
)

const leftNavHTML = `
<ul class="menu">
  <li class="li"><div class="item active"><a data-testid="jobsLink"><span>Jobs</span></a></div></li>
  <li class="li"><div class="item"><a data-testid="historyLink"><span>History</span></a></div></li>
</ul>
<a id="settingsLink" style="display: none">Settings</a>`

func TestMessages(t *testing.T) {
	h := newHarness(t, htmlPage(``))
	assert.Equal(t, "Are you sure you want to cancel Nightly?", h.ctl.CancelMessage("Nightly"))
	assert.Equal(t, "Job History", h.ctl.HistoryHeader())

	settings := testSettings()
	settings.Messages.CancelTemplate = "Cancel $name for $tenant?"
	h = newHarness(t, htmlPage(``), WithSettings(settings))
	assert.Equal(t, "Cancel Nightly for $tenant?", h.ctl.CancelMessage("Nightly"))
}

func TestValidateLeftNavigationLink(t *testing.T) {
	h := newHarness(t, htmlPage(leftNavHTML))
	ctx := context.Background()

	require.NoError(t, h.ctl.ValidateLeftNavigationLink(ctx, "jobsLink", "Jobs", true))
	require.NoError(t, h.ctl.ValidateLeftNavigationLink(ctx, "historyLink", "History", false))

	err := h.ctl.ValidateLeftNavigationLink(ctx, "historyLink", "History", true)
	assert.ErrorIs(t, err, ErrStateMismatch)
	assert.ErrorIs(t, h.ctl.ValidateLeftNavigationLink(ctx, "jobsLink", "Reports", true), ErrNotFound)

	require.NoError(t, h.ctl.ValidateLeftNavigationLinkNotExists(ctx, "reportsLink"))
	assert.ErrorIs(t, h.ctl.ValidateLeftNavigationLinkNotExists(ctx, "jobsLink"), ErrStateMismatch)

	require.NoError(t, h.ctl.LeftNavigationLink(ctx, "historyLink"))
	clicks := h.page.ActionsOf(browser.ActionClick)
	require.Len(t, clicks, 1)
	assert.False(t, clicks[0].Force)
}

func TestNavigationLink(t *testing.T) {
	h := newHarness(t, htmlPage(leftNavHTML))
	ctx := context.Background()

	require.NoError(t, h.ctl.ValidateNavigationLink(ctx, "settingsLink", "Settings"))
	assert.ErrorIs(t, h.ctl.ValidateNavigationLink(ctx, "settingsLink", "Setting"), ErrMismatch)

	require.NoError(t, h.ctl.NavigationLink(ctx, "settingsLink"), "hidden links are force-clicked")
	clicks := h.page.ActionsOf(browser.ActionClick)
	require.Len(t, clicks, 1)
	assert.True(t, clicks[0].Force)
}

func TestGetUUIDFromURL(t *testing.T) {
	h := newHarness(t, htmlPage(``))
	h.page.SetURL("http://app.test/jobs/5f0c7a52-93d1-4f0e-b7b5-0c1d2e3f4a5b")

	id, err := h.ctl.GetUUIDFromURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "5f0c7a52-93d1-4f0e-b7b5-0c1d2e3f4a5b", id)
}

func TestGoToHistoryPage(t *testing.T) {
	html := htmlPage(`<h1 id="tcHeader">Job History</h1>`)
	ctx := context.Background()

	t.Run("base url", func(t *testing.T) {
		h := newHarness(t, html, WithBaseURL("http://app.test/tenant/"))
		require.NoError(t, h.ctl.GoToHistoryPage(ctx))
		navs := h.page.ActionsOf(browser.ActionNavigate)
		require.Len(t, navs, 1)
		assert.Equal(t, "http://app.test/history", navs[0].Text)
	})

	t.Run("relative path from current url", func(t *testing.T) {
		settings := testSettings()
		settings.History.Path = "history"
		h := newHarness(t, html, WithSettings(settings), WithBaseURL(""))
		h.page.SetURL("http://app.test/tenant/jobs")

		require.NoError(t, h.ctl.GoToHistoryPage(ctx))
		assert.Equal(t, "http://app.test/tenant/history", h.page.ActionsOf(browser.ActionNavigate)[0].Text)
	})

	t.Run("header missing", func(t *testing.T) {
		h := newHarness(t, htmlPage(`<h1 id="tcHeader">Jobs</h1>`))
		err := h.ctl.GoToHistoryPage(ctx)
		assert.ErrorIs(t, err, ErrMismatch)
	})
}

const confirmationHTML = `
<h2 id="confirmationHeading">Delete mapping?</h2>
<p id="confirmationMessage">This cannot be undone.</p>
<button id="okConfirmationButton">Delete</button>
<button id="cancelConfirmationButton" disabled>Keep</button>`

func TestValidateConfirmationMessage(t *testing.T) {
	h := newHarness(t, htmlPage(confirmationHTML))
	ctx := context.Background()

	err := h.ctl.ValidateConfirmationMessage(ctx, "Delete mapping?", "This cannot be undone.", "Delete", "Keep")
	assert.ErrorIs(t, err, ErrStateMismatch)

	require.NoError(t, h.page.SetHTML(htmlPage(`
<h2 id="confirmationHeading">Delete mapping?</h2>
<p id="confirmationMessage">This cannot be undone.</p>
<button id="okConfirmationButton">Delete</button>
<button id="cancelConfirmationButton">Keep</button>`)))
	require.NoError(t, h.ctl.ValidateConfirmationMessage(ctx, "Delete mapping?", "This cannot be undone.", "Delete", "Keep"))
}

const unsavedHTML = `
<div class="ant-modal">
  <div id="rcDialogTitle0"><h2>Unsaved Changes</h2></div>
  <div class="ant-modal-body">You have unsaved changes. Are you sure you want to leave this page?</div>
  <div class="ant-modal-footer">
    <button class="ant-btn ant-btn-default">Stay on this Page</button>
    <button class="ant-btn ant-btn-primary">Leave Page</button>
  </div>
</div>`

func TestValidateAndClickButton(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		option string
		want   string
	}{
		{LeavePage, "ant-btn-primary"},
		{StayOnPage, "ant-btn-default"},
		{"", "ant-btn-default"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			h := newHarness(t, htmlPage(unsavedHTML))
			require.NoError(t, h.ctl.ValidateAndClickButton(ctx, tt.option))

			clicks := h.page.ActionsOf(browser.ActionClick)
			require.Len(t, clicks, 1)
			assert.Contains(t, clicks[0].Locator, tt.want)
		})
	}
}

func TestUnsavedDialogFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("wrong message", func(t *testing.T) {
		settings := testSettings()
		settings.Messages.UnsavedMessage = "Discard your edits?"
		h := newHarness(t, htmlPage(unsavedHTML), WithSettings(settings))
		assert.ErrorIs(t, h.ctl.ValidateAndClickButton(ctx, LeavePage), ErrNotFound)
		assert.Empty(t, h.page.ActionsOf(browser.ActionClick))
	})

	t.Run("disabled leave button", func(t *testing.T) {
		h := newHarness(t, htmlPage(unsavedHTML))
		require.NoError(t, h.ctl.ValidateUnsavedText(ctx, unsavedHeading, UnsavedChangesHeading, 0))

		require.NoError(t, h.page.SetHTML(htmlPage(`
<div class="ant-modal-footer">
  <button class="ant-btn ant-btn-default">Stay on this Page</button>
  <button class="ant-btn ant-btn-primary" disabled>Leave Page</button>
</div>`)))
		assert.ErrorIs(t, h.ctl.ValidateUnsavedButton(ctx, unsavedLeaveButton, LeavePage, true), ErrStateMismatch)
		require.NoError(t, h.ctl.ValidateUnsavedButton(ctx, unsavedLeaveButton, LeavePage, false))
		assert.ErrorIs(t, h.ctl.ClickUnsavedButton(ctx, unsavedLeaveButton), ErrStateMismatch)
	})
}

func TestVisit(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, htmlPage(``))

	require.NoError(t, h.ctl.Visit(ctx, "/jobs/new"))
	require.NoError(t, h.ctl.Visit(ctx, "https://other.test/login"))

	navs := h.page.ActionsOf(browser.ActionNavigate)
	require.Len(t, navs, 2)
	assert.Equal(t, "http://app.test/jobs/new", navs[0].Text)
	assert.Equal(t, "https://other.test/login", navs[1].Text)

	assert.Error(t, h.ctl.Visit(ctx, "http://[::1"))
}
