package controls

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ternarybob/uicontrols/pkg/models"
)

// Range operators take their second bound in the first condition's "to" input
const (
	InRangeIncluded = "In range (included)"
	InRangeExcluded = "In range (excluded)"
)

const statusColumn = "status"

// FilterSpec describes one column filter. Combinator ("and" or "or") chains a second condition.
type FilterSpec struct {
	Column         string `yaml:"column" toml:"column"`
	Operator       string `yaml:"operator" toml:"operator"`
	Value          string `yaml:"value" toml:"value"`
	Combinator     string `yaml:"combinator" toml:"combinator"`
	SecondOperator string `yaml:"second_operator" toml:"second_operator"`
	SecondValue    string `yaml:"second_value" toml:"second_value"`
}

func (f FilterSpec) String() string {
	return fmt.Sprintf("column=%s operator=%s value=%s combinator=%s operator2=%s value2=%s",
		f.Column, f.Operator, f.Value, f.Combinator, f.SecondOperator, f.SecondValue)
}

func filterInput(column string, condition int, bound string) models.Locator {
	return models.ByID("search-" + column + "-" + strconv.Itoa(condition) + "-" + bound + "-value")
}

func filterButton(column string) string {
	return column + "-searchButton"
}

// SelectValueFromTableFilterDropdown picks value in the operator dropdown of condition index of
// column's filter. An empty value leaves the dropdown alone.
func (c *Controls) SelectValueFromTableFilterDropdown(ctx context.Context, column string, index int, value string) error {
	detail := fmt.Sprintf("column=%s index=%d value=%s", column, index, value)
	return c.step(ctx, "SelectValueFromTableFilterDropdown", detail, func() error {
		if value == "" {
			return nil
		}
		root := "#search-" + column + "-" + strconv.Itoa(index) + "-option"

		opener := models.CSS(root + " > .searchTypeSelect__control > .searchTypeSelect__value-container > .vtx-select")
		if err := c.expect(ctx, opener, c.defaultTimeout(), exists()); err != nil {
			return err
		}
		if err := c.click(ctx, opener, false); err != nil {
			return err
		}

		option := models.CSS(root + " > .searchTypeSelect__menu > .searchTypeSelect__menu-list").Containing(value)
		if err := c.click(ctx, option, true); err != nil {
			return err
		}
		return c.expect(ctx, models.CSS(root+" > .searchTypeSelect__control"), c.defaultTimeout(), textEq(value))
	})
}

// SelectPopulateSubmitFilter fills and submits the open filter dropdown of f.Column. The status
// column has its own search box and radio group; every other column takes operators and values.
// Any non-empty combinator expects the Filter button disabled until the second condition is set.
func (c *Controls) SelectPopulateSubmitFilter(ctx context.Context, f FilterSpec) error {
	return c.step(ctx, "SelectPopulateSubmitFilter", f.String(), func() error {
		var err error
		if f.Column == statusColumn {
			err = c.submitStatusFilter(ctx, f)
		} else {
			err = c.submitColumnFilter(ctx, f)
		}
		if err != nil {
			return err
		}
		return c.settle(ctx, "filter", c.settings.Settle.FilterMs)
	})
}

func (c *Controls) submitColumnFilter(ctx context.Context, f FilterSpec) error {
	if err := c.SelectValueFromTableFilterDropdown(ctx, f.Column, 1, f.Operator); err != nil {
		return err
	}
	if f.Value != "" {
		if err := c.replaceInput(ctx, filterInput(f.Column, 1, "from"), f.Value); err != nil {
			return err
		}
	}

	if f.Combinator != "" {
		condition := models.ByID("search-condition-" + f.Column + "-" + f.Combinator)
		if err := c.click(ctx, condition, true); err != nil {
			return err
		}
		if err := c.ValidateButton(ctx, filterButton(f.Column), "Filter", false, 0); err != nil {
			return err
		}
		if err := c.SelectValueFromTableFilterDropdown(ctx, f.Column, 2, f.SecondOperator); err != nil {
			return err
		}
	}

	if f.SecondValue != "" {
		second := filterInput(f.Column, 2, "from")
		if f.Operator == InRangeIncluded || f.Operator == InRangeExcluded {
			second = filterInput(f.Column, 1, "to")
		}
		if err := c.replaceInput(ctx, second, f.SecondValue); err != nil {
			return err
		}
	}

	return c.submitFilter(ctx, f.Column, true)
}

func (c *Controls) submitStatusFilter(ctx context.Context, f FilterSpec) error {
	// an empty option text would match the whole radio group
	if strings.TrimSpace(f.Operator) == "" {
		err := notFound("#select-status-radio-group", "status option")
		err.Expected = "a status option"
		return err
	}
	search := models.ByID("select-status-search")
	if err := c.click(ctx, search, true); err != nil {
		return err
	}
	if err := c.typeAndEnter(ctx, search, f.Value); err != nil {
		return err
	}
	radio := models.ByID("select-status-radio-group").ContainingFold(f.Operator)
	if err := c.click(ctx, radio, true); err != nil {
		return err
	}
	return c.submitFilter(ctx, f.Column, false)
}

// submitFilter force-clicks the column's Filter button once enabled. labelled also checks its text.
func (c *Controls) submitFilter(ctx context.Context, column string, labelled bool) error {
	id := filterButton(column)
	if labelled {
		if err := c.ValidateButton(ctx, id, "Filter", true, 0); err != nil {
			return err
		}
	}
	button := models.ByID(id)
	if err := c.expect(ctx, button, c.defaultTimeout(), exists(), enabled(true)); err != nil {
		return err
	}
	return c.click(ctx, button, true)
}

// replaceInput clears an input and types value followed by Enter
func (c *Controls) replaceInput(ctx context.Context, input models.Locator, value string) error {
	if err := c.clear(ctx, input); err != nil {
		return err
	}
	return c.typeAndEnter(ctx, input, value)
}
