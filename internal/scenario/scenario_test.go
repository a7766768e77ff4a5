package scenario

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/uicontrols/internal/report"
	"github.com/ternarybob/uicontrols/pkg/browser"
	"github.com/ternarybob/uicontrols/pkg/controls"
	"github.com/ternarybob/uicontrols/pkg/models"
)

const historyScenarioTOML = `
name = "history smoke"
start = "/history"

[[steps]]
name = "header"
action = "ValidateText"
[steps.args]
id = "tcHeader"
value = "Job History"

[[steps]]
action = "ValidateButton"
[steps.args]
id = "refreshButton"
value = "Refresh"
timeout_ms = 100

[[steps]]
action = "ClickButton"
[steps.args]
id = "refreshButton"
`

const historyScenarioYAML = `
name: history smoke
start: /history
steps:
  - name: header
    action: ValidateText
    args:
      id: tcHeader
      value: Job History
  - action: ValidateButton
    args:
      id: refreshButton
      value: Refresh
      timeout_ms: 100
  - action: ClickButton
    args:
      id: refreshButton
`

const historyPageHTML = `<html><body>
<h1 id="tcHeader">Job History</h1>
<button id="refreshButton">Refresh</button>
</body></html>`

func fastSettings() models.Settings {
	s := *models.DefaultSettings()
	s.Timeouts.DefaultMs = 200
	s.Timeouts.WaitForButtonMs = 200
	s.PollMs = 10
	return s
}

func newTestRunner(t *testing.T, html string, opts ...controls.Option) (*Runner, *browser.DocumentPage) {
	t.Helper()
	logger := arbor.NewLogger()
	page, err := browser.NewDocumentPage(html, logger)
	require.NoError(t, err)
	base := []controls.Option{
		controls.WithSettings(fastSettings()),
		controls.WithFs(afero.NewMemMapFs()),
		controls.WithBaseURL("http://app.test/"),
	}
	ctl := controls.New(page, logger, append(base, opts...)...)
	return NewRunner(ctl, "document", logger), page
}

func TestParse_FormatsAgree(t *testing.T) {
	fromTOML, err := Parse([]byte(historyScenarioTOML), "toml")
	require.NoError(t, err)
	fromYAML, err := Parse([]byte(historyScenarioYAML), "yaml")
	require.NoError(t, err)

	for _, sc := range []*Scenario{fromTOML, fromYAML} {
		assert.Equal(t, "history smoke", sc.Name)
		assert.Equal(t, "/history", sc.Start)
		require.Len(t, sc.Steps, 3)
		assert.Equal(t, "header", sc.Steps[0].Label())
		assert.Equal(t, "ValidateButton", sc.Steps[1].Label())
		assert.Equal(t, 100, sc.Steps[1].Args.Int("timeout_ms"))
		assert.Equal(t, "refreshButton", sc.Steps[2].Args.String("id"))
	}
}

func TestLoad_ByExtension(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "smoke.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(historyScenarioYAML), 0o644))
	tomlPath := filepath.Join(dir, "smoke.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(historyScenarioTOML), 0o644))

	for _, path := range []string{yamlPath, tomlPath} {
		sc, err := Load(path)
		require.NoError(t, err, path)
		assert.Len(t, sc.Steps, 3)
	}

	_, err := Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"no name", "steps:\n  - action: GoToHistoryPage\n", "invalid scenario"},
		{"no steps", "name: empty\n", "invalid scenario"},
		{"unknown action", "name: x\nsteps:\n  - action: Teleport\n", `unknown action "Teleport"`},
		{"missing argument", "name: x\nsteps:\n  - name: title\n    action: ValidateText\n    args:\n      id: tcHeader\n", `step 1 (title): missing argument "value"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), "yaml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := Parse([]byte(historyScenarioTOML), "json")
	assert.Error(t, err)
}

func TestArgs(t *testing.T) {
	a := Args{
		"name":    "Nightly",
		"count":   int64(3),
		"ratio":   2.0,
		"flag":    "true",
		"list":    []interface{}{"a", 1, nil},
		"empty":   []interface{}{},
		"cells":   []interface{}{"Nightly", "*", nil},
		"nothing": nil,
	}

	assert.Equal(t, "Nightly", a.String("name"))
	assert.Equal(t, "3", a.String("count"))
	assert.Equal(t, "", a.String("nothing"))
	assert.Equal(t, 3, a.Int("count"))
	assert.Equal(t, 2, a.Int("ratio"))
	assert.Equal(t, 0, a.Int("missing"))
	assert.True(t, a.Bool("flag", false))
	assert.True(t, a.Bool("missing", true))
	assert.Equal(t, []string{"a", "1", ""}, a.Strings("list"))
	assert.NotNil(t, a.Strings("empty"))
	assert.Empty(t, a.Strings("empty"))
	assert.Nil(t, a.Strings("missing"))
	assert.Equal(t, []models.Cell{models.TextCell("Nightly"), models.AnyCell(), models.AnyCell()}, a.Cells("cells"))
}

func TestActions_Registered(t *testing.T) {
	names := Actions()
	assert.Contains(t, names, "ValidateSelect2")
	assert.Contains(t, names, "SelectPopulateSubmitFilter")
	assert.Contains(t, names, "ValidateCancelledJob")
	assert.Contains(t, names, "ClickUnsavedButton")
	assert.IsIncreasing(t, names)
}

func TestRunner_Passes(t *testing.T) {
	runner, page := newTestRunner(t, historyPageHTML)
	sc, err := Parse([]byte(historyScenarioTOML), "toml")
	require.NoError(t, err)

	run := runner.Run(context.Background(), sc)

	assert.True(t, run.Passed())
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "document", run.Backend)
	require.Len(t, run.Steps, 4)
	assert.Equal(t, "start", run.Steps[0].Name)
	assert.Equal(t, "Visit", run.Steps[0].Action)

	navs := page.ActionsOf(browser.ActionNavigate)
	require.Len(t, navs, 1)
	assert.Equal(t, "http://app.test/history", navs[0].Text)
	assert.Len(t, page.ActionsOf(browser.ActionClick), 1)
}

func TestRunner_OptionalArgumentDefaults(t *testing.T) {
	html := `<html><body>
<ul class="menu">
  <li class="li"><div class="item active"><a data-testid="jobsLink"><span>Jobs</span></a></div></li>
</ul>
<span id="jobStatus">Mapped</span>
</body></html>`
	runner, _ := newTestRunner(t, html)
	sc := &Scenario{
		Name: "defaults",
		Steps: []Step{
			{Action: "ValidateLeftNavigationLink", Args: Args{"id": "jobsLink", "value": "Jobs"}},
			{Action: "WaitForElement", Args: Args{"id": "jobStatus"}},
			{Action: "WaitForElements", Args: Args{"selector": ".menu"}},
		},
	}
	require.NoError(t, sc.Validate())

	run := runner.Run(context.Background(), sc)
	for _, step := range run.Steps {
		assert.True(t, step.Passed, "%s: %s", step.Action, step.Error)
	}
	assert.Len(t, run.Steps, 3)
}

func TestRunner_StopsAtFailure(t *testing.T) {
	fs := afero.NewMemMapFs()
	writer := report.NewWriter(fs, "results", arbor.NewLogger())
	runner, page := newTestRunner(t, `<html><body><h1 id="tcHeader">Jobs</h1>
<button id="refreshButton">Refresh</button></body></html>`, controls.WithRecorder(writer))

	sc, err := Parse([]byte(historyScenarioTOML), "toml")
	require.NoError(t, err)
	run := runner.Run(context.Background(), sc)

	assert.False(t, run.Passed())
	require.Len(t, run.Steps, 2, "steps after the failure do not run")
	failed := run.Steps[1]
	assert.Equal(t, "header", failed.Name)
	assert.Equal(t, "Mismatch", failed.Kind)
	assert.Contains(t, failed.Error, "Job History")
	require.NotEmpty(t, failed.Snapshot)

	ok, err := afero.Exists(fs, filepath.Join("results", failed.Snapshot+".html"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, page.ActionsOf(browser.ActionClick))
}

func TestRunner_ContinueOnError(t *testing.T) {
	runner, page := newTestRunner(t, historyPageHTML)
	sc := &Scenario{
		Name: "tolerant",
		Steps: []Step{
			{Action: "ValidateElement", Args: Args{"id": "banner"}, ContinueOnError: true},
			{Action: "ClickButton", Args: Args{"id": "refreshButton"}},
		},
	}
	require.NoError(t, sc.Validate())

	run := runner.Run(context.Background(), sc)

	require.Len(t, run.Steps, 2)
	assert.False(t, run.Steps[0].Passed)
	assert.Equal(t, "NotFound", run.Steps[0].Kind)
	assert.True(t, run.Steps[1].Passed)
	assert.Equal(t, 1, run.Failures())
	assert.Len(t, page.ActionsOf(browser.ActionClick), 1)
}

func TestRunner_Cancelled(t *testing.T) {
	runner, _ := newTestRunner(t, historyPageHTML)
	sc := &Scenario{
		Name: "cancelled",
		Steps: []Step{
			{Action: "ValidateElement", Args: Args{"id": "banner"}, ContinueOnError: true},
			{Action: "ClickButton", Args: Args{"id": "refreshButton"}},
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run := runner.Run(ctx, sc)
	require.Len(t, run.Steps, 1)
	assert.False(t, run.Passed())
}

func TestRunner_SummaryReport(t *testing.T) {
	runner, _ := newTestRunner(t, historyPageHTML)
	sc, err := Parse([]byte(historyScenarioYAML), "yaml")
	require.NoError(t, err)
	run := runner.Run(context.Background(), sc)

	fs := afero.NewMemMapFs()
	writer := report.NewWriter(fs, "results", arbor.NewLogger())
	require.NoError(t, writer.WriteSummary(run))

	summary, err := afero.ReadFile(fs, filepath.Join("results", "summary.md"))
	require.NoError(t, err)
	assert.Contains(t, string(summary), "# history smoke: PASSED")
	assert.Contains(t, string(summary), "| 2 | header | ValidateText | ok |")
}
