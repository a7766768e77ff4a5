package controls

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/ternarybob/uicontrols/internal/poll"
	"github.com/ternarybob/uicontrols/pkg/models"
)

const (
	tableRow     = "tr.ant-table-row"
	tableHeader  = ".ant-table-thead th"
	rowKeyAttr   = "data-row-key"
	cursorPtr    = "pointer"
	clearFilters = "clearFiltersButton"
)

func (c *Controls) layout(page string) (models.PageLayout, error) {
	layout, ok := c.settings.Pages[page]
	if !ok {
		return models.PageLayout{}, &AssertionError{Kind: ErrNotFound, Target: page, Check: "page layout"}
	}
	return layout, nil
}

func columnIndex(columns []string, column, page string) (int, error) {
	index := slices.Index(columns, column)
	if index < 0 {
		return 0, &AssertionError{Kind: ErrNotFound, Target: page, Check: "column " + column}
	}
	return index, nil
}

// SortColumnInHistory clicks the sorter of column on page. Columns with a pre-sort selector are
// clicked there first; when the page has no sorter at the column's position afterwards the pre-sort
// click is the whole action.
func (c *Controls) SortColumnInHistory(ctx context.Context, column, page string) error {
	return c.step(ctx, "SortColumnInHistory", fmt.Sprintf("column=%s page=%s", column, page), func() error {
		layout, err := c.layout(page)
		if err != nil {
			return err
		}

		preSort, hasPreSort := layout.PreSort[column]
		if hasPreSort {
			if err := c.click(ctx, models.CSS(preSort), true); err != nil {
				return err
			}
		}

		index := slices.Index(layout.SortColumns, column)
		if index < 0 {
			if hasPreSort {
				return nil
			}
			return &AssertionError{Kind: ErrNotFound, Target: page, Check: "column " + column}
		}

		if err := c.expect(ctx, models.CSS(layout.SortScan), c.defaultTimeout(), countAbove(index)); err != nil {
			if hasPreSort {
				c.logger.Debug().Str("column", column).Int("index", index).Msg("No sorter at column position after pre-sort")
				return nil
			}
			return err
		}
		return c.click(ctx, models.CSS(layout.SortTarget).Eq(index), true)
	})
}

// ClickFilterIcon opens the filter dropdown of column on page
func (c *Controls) ClickFilterIcon(ctx context.Context, column, page string) error {
	return c.step(ctx, "ClickFilterIcon", fmt.Sprintf("column=%s page=%s", column, page), func() error {
		layout, err := c.layout(page)
		if err != nil {
			return err
		}
		index, err := columnIndex(layout.FilterColumns, column, page)
		if err != nil {
			return err
		}
		trigger := models.CSS(layout.FilterTrigger)
		if err := c.expect(ctx, trigger, c.defaultTimeout(), countAbove(index)); err != nil {
			return err
		}
		return c.click(ctx, trigger.Eq(index), true)
	})
}

// tableRef scopes a selector to the table #id
func tableRef(table, selector string) models.Locator {
	return models.CSS("#" + table + " " + selector)
}

func attrSelector(name, value string) string {
	return "[" + name + "=" + strconv.Quote(value) + "]"
}

// ValidateTableRow finds the row of table whose keyColumn cell equals keyValue and compares its
// cells in order. Cell text is trimmed; AnyCell accepts any content.
func (c *Controls) ValidateTableRow(ctx context.Context, table, keyColumn, keyValue string, cells []models.Cell) error {
	detail := fmt.Sprintf("table=%s key_column=%s key=%s cells=%d", table, keyColumn, keyValue, len(cells))
	return c.step(ctx, "ValidateTableRow", detail, func() error {
		attempt := func(ctx context.Context) error {
			row, err := c.findRow(ctx, table, keyColumn, keyValue)
			if err != nil {
				return err
			}
			return compareCells(table, keyValue, row, cells)
		}
		out, err := poll.Until(ctx, c.timeout(0, c.settings.Timeouts.DefaultMs), c.interval(), attempt)
		return pollFailure(err, out)
	})
}

// findRow returns the trimmed cell texts of the first row matching keyValue in keyColumn
func (c *Controls) findRow(ctx context.Context, table, keyColumn, keyValue string) ([]string, error) {
	target := "#" + table
	headers, err := c.page.Query(ctx, tableRef(table, tableHeader))
	if err != nil {
		return nil, poll.Retry(&AssertionError{Kind: ErrNotFound, Target: target, Check: "header", Cause: err})
	}
	keyIndex := slices.IndexFunc(headers, func(h models.ElementState) bool {
		return strings.TrimSpace(h.Text) == keyColumn
	})
	if keyIndex < 0 {
		return nil, poll.Retry(notFound(target, "column "+keyColumn))
	}

	rows, err := c.page.Query(ctx, tableRef(table, tableRow))
	if err != nil {
		return nil, poll.Retry(&AssertionError{Kind: ErrNotFound, Target: target, Check: "rows", Cause: err})
	}
	for _, row := range rows {
		key, ok := row.Attr(rowKeyAttr)
		if !ok {
			continue
		}
		tds, err := c.page.Query(ctx, tableRef(table, "tr"+attrSelector(rowKeyAttr, key)+" > td"))
		if err != nil {
			return nil, poll.Retry(&AssertionError{Kind: ErrNotFound, Target: target, Check: "cells", Cause: err})
		}
		texts := make([]string, len(tds))
		for i, td := range tds {
			texts[i] = strings.TrimSpace(td.Text)
		}
		if keyIndex < len(texts) && texts[keyIndex] == keyValue {
			return texts, nil
		}
	}
	return nil, poll.Retry(notFound(target, keyColumn+"="+keyValue))
}

func compareCells(table, keyValue string, row []string, cells []models.Cell) error {
	for i, cell := range cells {
		actual := ""
		if i < len(row) {
			actual = row[i]
		}
		if i >= len(row) || !cell.Matches(actual) {
			return poll.Retry(&AssertionError{
				Kind:     ErrMismatch,
				Target:   "#" + table + " row " + keyValue,
				Check:    "cell " + strconv.Itoa(i),
				Expected: cell.Text,
				Actual:   actual,
			})
		}
	}
	return nil
}

func linkLocator(table, rowKey, column string) models.Locator {
	return tableRef(table, attrSelector("id", rowKey+"-"+column))
}

// ValidateTableLinkClickable checks the column link of row rowKey shows a pointer cursor
func (c *Controls) ValidateTableLinkClickable(ctx context.Context, table, rowKey, column string) error {
	detail := fmt.Sprintf("table=%s row=%s column=%s", table, rowKey, column)
	return c.step(ctx, "ValidateTableLinkClickable", detail, func() error {
		return c.expect(ctx, linkLocator(table, rowKey, column), c.defaultTimeout(), exists(), cssEq("cursor", cursorPtr))
	})
}

// ValidateTableLinkNonClickable checks the column link of row rowKey does not show a pointer cursor
func (c *Controls) ValidateTableLinkNonClickable(ctx context.Context, table, rowKey, column string) error {
	detail := fmt.Sprintf("table=%s row=%s column=%s", table, rowKey, column)
	return c.step(ctx, "ValidateTableLinkNonClickable", detail, func() error {
		return c.expect(ctx, linkLocator(table, rowKey, column), c.defaultTimeout(), exists(), cssNot("cursor", cursorPtr))
	})
}

func cssNot(property, value string) check {
	return check{
		name:     "css " + property,
		kind:     ErrStateMismatch,
		expected: "not " + value,
		eval: func(nodes []models.ElementState) (string, bool) {
			v := nodes[0].ComputedStyle(property)
			return v, v != value
		},
	}
}

// ValidateStatusNonClickable filters the job history by status and checks whether the first job's
// name links anywhere. A non-clickable job must leave the history page in place.
func (c *Controls) ValidateStatusNonClickable(ctx context.Context, status string, nonClickable bool) error {
	detail := fmt.Sprintf("status=%s non_clickable=%t", status, nonClickable)
	return c.step(ctx, "ValidateStatusNonClickable", detail, func() error {
		if err := c.ClickFilterIcon(ctx, "status", models.HistoryPage); err != nil {
			return err
		}
		if err := c.SelectPopulateSubmitFilter(ctx, FilterSpec{Column: "status", Operator: status, Value: status}); err != nil {
			return err
		}

		rows := models.CSS(".ant-table-row")
		if err := c.expect(ctx, rows, c.defaultTimeout(), exists()); err != nil {
			return err
		}
		nodes, err := c.page.Query(ctx, rows)
		if err != nil {
			return fmt.Errorf("failed to read job rows: %w", err)
		}
		if len(nodes) == 0 {
			return notFound(rows.String(), "row")
		}
		jobID, _ := nodes[0].Attr(rowKeyAttr)
		c.logger.Debug().Str("job_id", jobID).Msg("First filtered job")

		table := c.settings.History.TableID
		if nonClickable {
			if err := c.ValidateTableLinkNonClickable(ctx, table, jobID, "name"); err != nil {
				return err
			}
			if err := c.ValidateText(ctx, historyTitle, c.HistoryHeader(), true, 0); err != nil {
				return err
			}
		} else if err := c.ValidateTableLinkClickable(ctx, table, jobID, "name"); err != nil {
			return err
		}
		return c.ClickIcon(ctx, clearFilters)
	})
}
