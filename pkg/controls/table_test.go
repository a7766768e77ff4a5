package controls

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/uicontrols/pkg/browser"
	"github.com/ternarybob/uicontrols/pkg/models"
)

func headerRow(columns int) string {
	var b strings.Builder
	b.WriteString(`<table><thead class="ant-table-thead"><tr>`)
	for i := 0; i < columns; i++ {
		fmt.Fprintf(&b, `<th class="ant-table-filter-column"><span class="ant-table-column-title"><span class="ant-table-column-sorters">c%d</span></span><span class="ant-dropdown-trigger">f</span></th>`, i)
	}
	b.WriteString(`</tr></thead></table>`)
	return b.String()
}

func TestSortColumnInHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("history column by position", func(t *testing.T) {
		h := newHarness(t, htmlPage(headerRow(7)))
		require.NoError(t, h.ctl.SortColumnInHistory(ctx, "status", models.HistoryPage))

		clicks := h.page.ActionsOf(browser.ActionClick)
		require.Len(t, clicks, 1)
		assert.Equal(t, models.CSS(".ant-table-filter-column").Eq(5).String(), clicks[0].Locator)
		assert.True(t, clicks[0].Force)
	})

	t.Run("batch review sorts on the title sorter", func(t *testing.T) {
		h := newHarness(t, htmlPage(headerRow(4)))
		require.NoError(t, h.ctl.SortColumnInHistory(ctx, "probability", models.SMEBatchReviewPage))

		clicks := h.page.ActionsOf(browser.ActionClick)
		require.Len(t, clicks, 1)
		assert.Equal(t, models.CSS(".ant-table-column-title > .ant-table-column-sorters").Eq(2).String(), clicks[0].Locator)
	})

	t.Run("batch number pre-sort only", func(t *testing.T) {
		html := htmlPage(`<div class="ant-table-cell-content"><span class="ant-table-column-sorters">Batch</span></div>` + headerRow(4))
		h := newHarness(t, html)
		require.NoError(t, h.ctl.SortColumnInHistory(ctx, "Batch Number", models.SMEReviewPage))

		clicks := h.page.ActionsOf(browser.ActionClick)
		require.Len(t, clicks, 1)
		assert.Contains(t, clicks[0].Locator, ".ant-table-cell-content")
	})

	t.Run("unknown page", func(t *testing.T) {
		h := newHarness(t, htmlPage(headerRow(7)))
		assert.ErrorIs(t, h.ctl.SortColumnInHistory(ctx, "status", "Settings Page"), ErrNotFound)
	})

	t.Run("unknown column", func(t *testing.T) {
		h := newHarness(t, htmlPage(headerRow(7)))
		assert.ErrorIs(t, h.ctl.SortColumnInHistory(ctx, "owner", models.HistoryPage), ErrNotFound)
	})

	t.Run("fewer columns rendered", func(t *testing.T) {
		h := newHarness(t, htmlPage(headerRow(3)))
		assert.ErrorIs(t, h.ctl.SortColumnInHistory(ctx, "status", models.HistoryPage), ErrNotFound)
	})
}

func TestClickFilterIcon(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, htmlPage(headerRow(5)))

	require.NoError(t, h.ctl.ClickFilterIcon(ctx, "taxcat", models.ReviewPage))
	clicks := h.page.ActionsOf(browser.ActionClick)
	require.Len(t, clicks, 1)
	assert.Equal(t, models.CSS(".ant-table-filter-column > .ant-dropdown-trigger").Eq(2).String(), clicks[0].Locator)

	assert.ErrorIs(t, h.ctl.ClickFilterIcon(ctx, "Batch Number", models.SMEReviewPage), ErrNotFound)
}

type jobRowData struct {
	key, name, file, user, status, actions string
	cursor                                 string
}

func jobsTableHTML(rows ...jobRowData) string {
	var b strings.Builder
	b.WriteString(`<h1 id="tcHeader">Job History</h1><div id="JobsHistory"><table><thead class="ant-table-thead"><tr>`)
	for _, col := range []string{"Name", "File", "Date", "Version", "User", "Status", "Error", "Actions"} {
		fmt.Fprintf(&b, `<th> %s </th>`, col)
	}
	b.WriteString(`</tr></thead><tbody>`)
	for _, r := range rows {
		fmt.Fprintf(&b, `<tr class="ant-table-row" data-row-key="%s">`, r.key)
		fmt.Fprintf(&b, `<td><a id="%s-name" style="cursor: %s">%s</a></td>`, r.key, r.cursor, r.name)
		fmt.Fprintf(&b, `<td>%s</td><td>2024-05-01 10:00</td><td>3</td><td>%s</td>`, r.file, r.user)
		fmt.Fprintf(&b, `<td class="status">%s</td><td></td><td class="actions">%s</td></tr>`, r.status, r.actions)
	}
	b.WriteString(`</tbody></table></div>`)
	return b.String()
}

var (
	nightlyJob = jobRowData{key: "u1", name: "Nightly", file: "products.csv", user: "alice", status: "Running", actions: "Actions", cursor: "pointer"}
	weeklyJob  = jobRowData{key: "u2", name: "Weekly", file: "rates.csv", user: "bob", status: "Mapped", actions: "Actions", cursor: "default"}
)

func TestValidateTableRow(t *testing.T) {
	h := newHarness(t, htmlPage(jobsTableHTML(nightlyJob, weeklyJob)))
	ctx := context.Background()

	cells := []models.Cell{
		models.TextCell("Weekly"), models.TextCell("rates.csv"), models.AnyCell(), models.AnyCell(),
		models.TextCell("bob"), models.TextCell("Mapped"), models.TextCell(""), models.TextCell("Actions"),
	}
	require.NoError(t, h.ctl.ValidateTableRow(ctx, "JobsHistory", "Name", "Weekly", cells))

	cells[5] = models.TextCell("Cancelled")
	err := h.ctl.ValidateTableRow(ctx, "JobsHistory", "Name", "Weekly", cells)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMismatch)
	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "cell 5", ae.Check)
	assert.Equal(t, "Mapped", ae.Actual)

	assert.ErrorIs(t, h.ctl.ValidateTableRow(ctx, "JobsHistory", "Name", "Monthly", nil), ErrNotFound)
	assert.ErrorIs(t, h.ctl.ValidateTableRow(ctx, "JobsHistory", "Owner", "Weekly", nil), ErrNotFound)

	tooMany := append(cells, models.TextCell("extra"))
	assert.ErrorIs(t, h.ctl.ValidateTableRow(ctx, "JobsHistory", "Name", "Weekly", tooMany), ErrMismatch)
}

func TestValidateTableLink(t *testing.T) {
	h := newHarness(t, htmlPage(jobsTableHTML(nightlyJob, weeklyJob)))
	ctx := context.Background()

	require.NoError(t, h.ctl.ValidateTableLinkClickable(ctx, "JobsHistory", "u1", "name"))
	require.NoError(t, h.ctl.ValidateTableLinkNonClickable(ctx, "JobsHistory", "u2", "name"))
	assert.ErrorIs(t, h.ctl.ValidateTableLinkNonClickable(ctx, "JobsHistory", "u1", "name"), ErrStateMismatch)
	assert.ErrorIs(t, h.ctl.ValidateTableLinkClickable(ctx, "JobsHistory", "u2", "name"), ErrMismatch)
	assert.ErrorIs(t, h.ctl.ValidateTableLinkClickable(ctx, "JobsHistory", "u9", "name"), ErrNotFound)
}

const statusFilterHTML = `
<input id="select-status-search">
<div id="select-status-radio-group"><label><input type="radio">Running</label><label><input type="radio">Mapped</label></div>
<button id="status-searchButton">Filter</button>
<button id="clearFiltersButton">Clear</button>`

func TestValidateStatusNonClickable(t *testing.T) {
	ctx := context.Background()
	html := htmlPage(headerRow(7) + statusFilterHTML + jobsTableHTML(weeklyJob, nightlyJob))

	t.Run("non clickable", func(t *testing.T) {
		h := newHarness(t, html)
		require.NoError(t, h.ctl.ValidateStatusNonClickable(ctx, "Mapped", true))

		clicks := h.page.ActionsOf(browser.ActionClick)
		require.NotEmpty(t, clicks)
		assert.Equal(t, "#clearFiltersButton", clicks[len(clicks)-1].Target)
		typed := h.page.ActionsOf(browser.ActionType)
		require.Len(t, typed, 1)
		assert.Equal(t, "Mapped", typed[0].Text)
	})

	t.Run("expected clickable", func(t *testing.T) {
		h := newHarness(t, html)
		err := h.ctl.ValidateStatusNonClickable(ctx, "Mapped", false)
		assert.ErrorIs(t, err, ErrMismatch)
	})
}

func filterDropdownHTML(column string, condition int, operators ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<div id="search-%s-%d-option">`, column, condition)
	b.WriteString(`<div class="searchTypeSelect__control"><div class="searchTypeSelect__value-container"><div class="vtx-select">Select</div></div></div>`)
	b.WriteString(`<div class="searchTypeSelect__menu"><div class="searchTypeSelect__menu-list">`)
	for _, op := range operators {
		fmt.Fprintf(&b, `<div class="option">%s</div>`, op)
	}
	b.WriteString(`</div></div></div>`)
	return b.String()
}

func columnFilterHTML(column, combinator string) string {
	operators := []string{"Contains", "Equals", InRangeIncluded, InRangeExcluded}
	return filterDropdownHTML(column, 1, operators...) +
		filterDropdownHTML(column, 2, operators...) +
		fmt.Sprintf(`<input id="search-%[1]s-1-from-value" value="old">
<input id="search-%[1]s-1-to-value">
<input id="search-%[1]s-2-from-value">
<span id="search-condition-%[1]s-%[2]s">%[2]s</span>
<button id="%[1]s-searchButton">Filter</button>`, column, combinator)
}

// selectOperatorOnPick shows a picked operator as the dropdown's value
func selectOperatorOnPick(page *browser.DocumentPage) {
	page.On(browser.ActionClick, ".option", func(doc *goquery.Document, target *goquery.Selection, _ browser.DocumentAction) {
		target.Closest(`[id$="-option"]`).Find(".vtx-select").SetText(target.Text())
	})
}

func inputValue(t *testing.T, h *harness, id string) string {
	t.Helper()
	nodes, err := h.page.Query(context.Background(), models.ByID(id))
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	return nodes[0].Value
}

func TestSelectValueFromTableFilterDropdown(t *testing.T) {
	h := newHarness(t, htmlPage(columnFilterHTML("name", "and")))
	selectOperatorOnPick(h.page)
	ctx := context.Background()

	require.NoError(t, h.ctl.SelectValueFromTableFilterDropdown(ctx, "name", 1, "Equals"))
	require.NoError(t, h.ctl.SelectValueFromTableFilterDropdown(ctx, "name", 2, ""))
	assert.Len(t, h.page.ActionsOf(browser.ActionClick), 2)

	assert.ErrorIs(t, h.ctl.SelectValueFromTableFilterDropdown(ctx, "name", 1, "Starts with"), ErrNotFound)
}

func TestSelectPopulateSubmitFilter_SingleCondition(t *testing.T) {
	h := newHarness(t, htmlPage(columnFilterHTML("name", "and")))
	selectOperatorOnPick(h.page)

	require.NoError(t, h.ctl.SelectPopulateSubmitFilter(context.Background(), FilterSpec{
		Column:   "name",
		Operator: "Contains",
		Value:    "Nightly",
	}))
	assert.Equal(t, "Nightly", inputValue(t, h, "search-name-1-from-value"))

	presses := h.page.ActionsOf(browser.ActionPress)
	require.Len(t, presses, 1)
	assert.Equal(t, string(models.KeyEnter), presses[0].Text)

	clicks := h.page.ActionsOf(browser.ActionClick)
	assert.Equal(t, "#name-searchButton", clicks[len(clicks)-1].Target)
}

func TestSelectPopulateSubmitFilter_Range(t *testing.T) {
	for _, op := range []string{InRangeIncluded, InRangeExcluded} {
		t.Run(op, func(t *testing.T) {
			h := newHarness(t, htmlPage(columnFilterHTML("version", "and")))
			selectOperatorOnPick(h.page)

			require.NoError(t, h.ctl.SelectPopulateSubmitFilter(context.Background(), FilterSpec{
				Column:      "version",
				Operator:    op,
				Value:       "2",
				SecondValue: "5",
			}))
			assert.Equal(t, "2", inputValue(t, h, "search-version-1-from-value"))
			assert.Equal(t, "5", inputValue(t, h, "search-version-1-to-value"))
			assert.Empty(t, inputValue(t, h, "search-version-2-from-value"))
		})
	}
}

// disableUntilSecondOperator mirrors the grid: choosing a combinator disables Filter until
// the second condition has an operator
func disableUntilSecondOperator(page *browser.DocumentPage, column string) {
	page.On(browser.ActionClick, `[id^="search-condition-`+column+`-"]`, func(doc *goquery.Document, _ *goquery.Selection, _ browser.DocumentAction) {
		doc.Find("#"+column+"-searchButton").SetAttr("disabled", "")
	})
	page.On(browser.ActionClick, `#search-`+column+`-2-option .option`, func(doc *goquery.Document, _ *goquery.Selection, _ browser.DocumentAction) {
		doc.Find("#" + column + "-searchButton").RemoveAttr("disabled")
	})
}

func TestSelectPopulateSubmitFilter_Combinator(t *testing.T) {
	for _, combinator := range []string{"and", "or", "xor"} {
		t.Run(combinator, func(t *testing.T) {
			h := newHarness(t, htmlPage(columnFilterHTML("user", combinator)))
			selectOperatorOnPick(h.page)
			disableUntilSecondOperator(h.page, "user")

			require.NoError(t, h.ctl.SelectPopulateSubmitFilter(context.Background(), FilterSpec{
				Column:         "user",
				Operator:       "Contains",
				Value:          "ali",
				Combinator:     combinator,
				SecondOperator: "Equals",
				SecondValue:    "bob",
			}))
			assert.Equal(t, "ali", inputValue(t, h, "search-user-1-from-value"))
			assert.Equal(t, "bob", inputValue(t, h, "search-user-2-from-value"))

			var targets []string
			for _, click := range h.page.ActionsOf(browser.ActionClick) {
				targets = append(targets, click.Target)
			}
			assert.Contains(t, targets, "#search-condition-user-"+combinator)
		})
	}
}

func TestSelectPopulateSubmitFilter_CombinatorExpectsFilterDisabled(t *testing.T) {
	h := newHarness(t, htmlPage(columnFilterHTML("user", "xor")))
	selectOperatorOnPick(h.page)

	err := h.ctl.SelectPopulateSubmitFilter(context.Background(), FilterSpec{
		Column:         "user",
		Operator:       "Contains",
		Combinator:     "xor",
		SecondOperator: "Equals",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStateMismatch)
}

func TestSelectPopulateSubmitFilter_StatusPath(t *testing.T) {
	h := newHarness(t, htmlPage(statusFilterHTML+columnFilterHTML("status", "and")))

	require.NoError(t, h.ctl.SelectPopulateSubmitFilter(context.Background(), FilterSpec{
		Column:     "status",
		Operator:   "RUNNING",
		Value:      "Running",
		Combinator: "and",
	}))

	typed := h.page.ActionsOf(browser.ActionType)
	require.Len(t, typed, 1)
	assert.Equal(t, "#select-status-search", typed[0].Target)

	var locators []string
	for _, click := range h.page.ActionsOf(browser.ActionClick) {
		locators = append(locators, click.Locator)
	}
	require.Len(t, locators, 3, "search box, radio option, Filter")
	assert.Contains(t, locators[1], "(ignore case)")
	assert.Equal(t, "#status-searchButton", locators[2])
	assert.Equal(t, "old", inputValue(t, h, "search-status-1-from-value"), "operator inputs are not touched")
}

func TestSelectPopulateSubmitFilter_StatusNeedsOption(t *testing.T) {
	h := newHarness(t, htmlPage(statusFilterHTML+columnFilterHTML("status", "and")))

	err := h.ctl.SelectPopulateSubmitFilter(context.Background(), FilterSpec{
		Column: "status",
		Value:  "Running",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, h.page.ActionsOf(browser.ActionClick), "nothing is clicked")
}
