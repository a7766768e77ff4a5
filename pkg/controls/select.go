package controls

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/uicontrols/pkg/models"
)

// MaxAssertedOptions is how many expected options are checked in an open overlay.
// Later options are virtualised and only mount after scrolling.
const MaxAssertedOptions = 9

const (
	antOptionContent   = ".ant-select-item-option-content"
	antSelectSelector  = ".ant-select-selector"
	antSelectionItem   = ".ant-select-selection-item"
	antPlaceholder     = ".ant-select-selection-placeholder"
	antOverflow        = ".ant-select-selection-overflow"
	antOverflowSuffix  = ".ant-select-selection-overflow-item-suffix"
	antTreeTitle       = ".ant-select-tree-title"
	vtxSelect          = ".vtx-select"
	vtxMultipleSelect  = ".vtx-multiple-select"
	vertexSelectClass  = `[data-automation-class="vtx-select"]`
	vertexSelect       = ".vertexSelect"
	vertexControl      = ".vertexSelect__control"
	vertexMenu         = ".vertexSelect__menu"
	vertexMenuList     = ".vertexSelect__menu-list"
	statusControl      = ".statusSelector__control"
	statusMenuList     = ".statusSelector__menu > .statusSelector__menu-list"
	disabledTreeNode   = ".ant-select-tree-treenode-disabled > .ant-select-tree-node-content-wrapper"
	categoryTreeSearch = ".ant-select-selection-item > span"
)

// SelectSpec describes the expected state of a select widget. Empty strings are not asserted.
type SelectSpec struct {
	ID          string
	Label       string
	Placeholder string
	Value       string
	// Options are looked up in the open overlay. nil leaves the overlay closed.
	Options  []string
	Required bool
	// SkipEnabled drops the enabled check
	SkipEnabled bool
}

func (s SelectSpec) String() string {
	return fmt.Sprintf("id=%s label=%s placeholder=%s value=%s options=%v required=%t enabled=%t",
		s.ID, s.Label, s.Placeholder, s.Value, s.Options, s.Required, !s.SkipEnabled)
}

// SearchAheadSpec describes a search-ahead select
type SearchAheadSpec struct {
	ID          string
	Label       string
	Placeholder string
	SkipEnabled bool
	Validation  string
}

// TreeCategory says how SelectValueFromTree treats the value
type TreeCategory int

const (
	// CategoryValid picks the value from the tree
	CategoryValid TreeCategory = iota
	// CategoryInvalid types the value without picking it
	CategoryInvalid
	// CategoryUnchecked only checks the tree exists
	CategoryUnchecked
)

func cappedOptions(options []string) []string {
	if len(options) > MaxAssertedOptions {
		return options[:MaxAssertedOptions]
	}
	return options
}

func antSelector(id string) models.Locator {
	return models.ByID(id + "-Wrapper").Child(vtxSelect).Child(antSelectSelector)
}

func multiSelectRegion(wrapper models.Locator) models.Locator {
	return wrapper.Child(vtxMultipleSelect).Child(antSelectSelector).Child(antOverflow)
}

func (c *Controls) expectLabel(ctx context.Context, id, label string) error {
	if label == "" {
		return nil
	}
	return c.expect(ctx, models.ByID(id+"-Label"), c.defaultTimeout(), textEq(label))
}

// expectValidation checks the #id-Validation message is shown with exactly message
func (c *Controls) expectValidation(ctx context.Context, id, message string) error {
	return c.expect(ctx, models.ByID(id+"-Validation"), c.defaultTimeout(), exists(), visible(), textEq(message))
}

// ValidateSelect2 checks an Ant Design select
func (c *Controls) ValidateSelect2(ctx context.Context, spec SelectSpec) error {
	return c.step(ctx, "ValidateSelect2", spec.String(), func() error {
		t := c.defaultTimeout()
		sel := models.ByID(spec.ID)
		selector := antSelector(spec.ID)

		if err := c.expect(ctx, sel, t, exists()); err != nil {
			return err
		}
		if !spec.SkipEnabled {
			if err := c.expect(ctx, sel, t, enabled(true)); err != nil {
				return err
			}
		}
		if err := c.expectLabel(ctx, spec.ID, spec.Label); err != nil {
			return err
		}
		if spec.Placeholder != "" {
			if err := c.expect(ctx, selector.Child(antPlaceholder), t, textEq(spec.Placeholder)); err != nil {
				return err
			}
		}
		if spec.Value != "" {
			if err := c.expect(ctx, selector.Child(antSelectionItem), t, textEq(spec.Value)); err != nil {
				return err
			}
		}
		if spec.Required && spec.Value == "" {
			if err := c.expectValidation(ctx, spec.ID, c.settings.Messages.RequiredField); err != nil {
				return err
			}
		}

		if spec.Options == nil {
			return nil
		}
		if err := c.click(ctx, sel, true); err != nil {
			return err
		}
		// the list is an overlay outside the select's subtree
		if err := c.expect(ctx, models.ByID(spec.ID+"_list"), t, exists()); err != nil {
			return err
		}
		for _, option := range cappedOptions(spec.Options) {
			if err := c.expect(ctx, models.CSS(antOptionContent).Containing(option), t, exists()); err != nil {
				return err
			}
		}
		return c.press(ctx, sel, models.KeyEscape)
	})
}

// ValidateSelect checks a vertexSelect widget. It has no enabled check and leaves the
// overlay open after looking up options.
func (c *Controls) ValidateSelect(ctx context.Context, spec SelectSpec) error {
	return c.step(ctx, "ValidateSelect", spec.String(), func() error {
		t := c.defaultTimeout()
		control := models.ByID(spec.ID).Child(vertexControl)
		wrapper := models.ByID(spec.ID + "-Wrapper").Child(vertexSelectClass).Child(vertexSelect)

		if err := c.expect(ctx, models.ByID(spec.ID), t, exists()); err != nil {
			return err
		}
		if err := c.expectLabel(ctx, spec.ID, spec.Label); err != nil {
			return err
		}
		if spec.Placeholder != "" {
			if err := c.expect(ctx, control, t, textEq(spec.Placeholder)); err != nil {
				return err
			}
		}
		if spec.Value != "" {
			if err := c.expect(ctx, wrapper.Child(vertexControl), t, textEq(spec.Value)); err != nil {
				return err
			}
		}
		if spec.Required && spec.Value == "" {
			if err := c.expectValidation(ctx, spec.ID, c.settings.Messages.RequiredField); err != nil {
				return err
			}
		}

		if spec.Options == nil {
			return nil
		}
		if err := c.click(ctx, control, true); err != nil {
			return err
		}
		menu := models.CSS(vertexSelectClass).Child(vertexSelect).Child(vertexMenu)
		for _, option := range cappedOptions(spec.Options) {
			if err := c.expect(ctx, menu.Containing(option), t, exists()); err != nil {
				return err
			}
		}
		return nil
	})
}

// ValidateSelectSearchAhead checks a search-ahead select
func (c *Controls) ValidateSelectSearchAhead(ctx context.Context, spec SearchAheadSpec) error {
	detail := fmt.Sprintf("id=%s label=%s placeholder=%s enabled=%t validation=%s",
		spec.ID, spec.Label, spec.Placeholder, !spec.SkipEnabled, spec.Validation)
	return c.step(ctx, "ValidateSelectSearchAhead", detail, func() error {
		t := c.defaultTimeout()
		sel := models.ByID(spec.ID)

		if err := c.expect(ctx, sel, t, exists()); err != nil {
			return err
		}
		if !spec.SkipEnabled {
			if err := c.expect(ctx, sel, t, enabled(true)); err != nil {
				return err
			}
		}
		if err := c.expectLabel(ctx, spec.ID, spec.Label); err != nil {
			return err
		}
		if spec.Placeholder != "" {
			if err := c.expect(ctx, antSelector(spec.ID).Child(antPlaceholder), t, textEq(spec.Placeholder)); err != nil {
				return err
			}
		}
		if spec.Validation != "" {
			return c.expectValidation(ctx, spec.ID, spec.Validation)
		}
		return nil
	})
}

// pickOption clicks the open overlay option containing value
func (c *Controls) pickOption(ctx context.Context, value string) error {
	return c.click(ctx, models.CSS(antOptionContent).Containing(value), true)
}

// pickMany clicks each value in the overlay, checks the chip region holds all of them,
// then closes the overlay through the region's trailing control
func (c *Controls) pickMany(ctx context.Context, region models.Locator, values []string) error {
	for _, v := range values {
		if err := c.pickOption(ctx, v); err != nil {
			return err
		}
	}
	for _, v := range values {
		if err := c.expect(ctx, region, c.defaultTimeout(), textContains(v)); err != nil {
			return err
		}
	}
	return c.click(ctx, region.Child(antOverflowSuffix), false)
}

// HistoryDropdown picks values from the dropdown with class name class
func (c *Controls) HistoryDropdown(ctx context.Context, class string, values []string, multi bool) error {
	detail := fmt.Sprintf("class=%s values=%v multi=%t", class, values, multi)
	return c.step(ctx, "HistoryDropdown", detail, func() error {
		dropdown := models.ByClass(class)
		if err := c.expect(ctx, dropdown, c.defaultTimeout(), exists()); err != nil {
			return err
		}
		if len(values) == 0 {
			return nil
		}
		if err := c.click(ctx, dropdown, true); err != nil {
			return err
		}
		if !multi {
			return c.pickOption(ctx, strings.Join(values, ","))
		}
		return c.pickMany(ctx, multiSelectRegion(models.ByClass(class+"-Wrapper")), values)
	})
}

// SelectValueFromDropdown picks values from a vertexSelect. clickTwice opens the control
// once more first, for menus that swallow the first click.
func (c *Controls) SelectValueFromDropdown(ctx context.Context, id string, values []string, multi, clickTwice bool) error {
	detail := fmt.Sprintf("id=%s values=%v multi=%t click_twice=%t", id, values, multi, clickTwice)
	return c.step(ctx, "SelectValueFromDropdown", detail, func() error {
		if err := c.expect(ctx, models.ByID(id), c.defaultTimeout(), exists()); err != nil {
			return err
		}
		if len(values) == 0 {
			return nil
		}

		control := models.ByID(id).Child(vertexControl)
		if clickTwice {
			if err := c.click(ctx, control, true); err != nil {
				return err
			}
		}
		if multi {
			return c.pickMany(ctx, multiSelectRegion(models.ByID(id+"-Wrapper")), values)
		}

		value := strings.Join(values, ",")
		if err := c.hover(ctx, control, false); err != nil {
			return err
		}
		if err := c.click(ctx, control, true); err != nil {
			return err
		}
		if err := c.click(ctx, models.CSS(vertexMenuList).Containing(value), true); err != nil {
			return err
		}
		current := models.ByID(id + "-Wrapper").Child(vertexSelectClass).Child(vertexSelect).Child(vertexControl)
		return c.expect(ctx, current, c.defaultTimeout(), textEq(value))
	})
}

// SelectValueFromDropdown2 picks values from an Ant Design select
func (c *Controls) SelectValueFromDropdown2(ctx context.Context, id string, values []string, multi bool) error {
	detail := fmt.Sprintf("id=%s values=%v multi=%t", id, values, multi)
	return c.step(ctx, "SelectValueFromDropdown2", detail, func() error {
		dropdown := models.ByID(id)
		if err := c.expect(ctx, dropdown, c.defaultTimeout(), exists()); err != nil {
			return err
		}
		if len(values) == 0 {
			return nil
		}
		if err := c.click(ctx, dropdown, true); err != nil {
			return err
		}
		if multi {
			return c.pickMany(ctx, multiSelectRegion(models.ByID(id+"-Wrapper")), values)
		}

		value := strings.Join(values, ",")
		if err := c.pickOption(ctx, value); err != nil {
			return err
		}
		return c.expect(ctx, antSelector(id).Child(antSelectionItem), c.defaultTimeout(), textEq(value))
	})
}

// SelectValueFromTree types value into a tree select and, for a valid category, picks it
func (c *Controls) SelectValueFromTree(ctx context.Context, id, value string, category TreeCategory) error {
	detail := fmt.Sprintf("id=%s value=%s category=%d", id, value, category)
	return c.step(ctx, "SelectValueFromTree", detail, func() error {
		tree := models.ByID(id)
		if err := c.expect(ctx, tree, c.defaultTimeout(), exists()); err != nil {
			return err
		}

		switch {
		case category == CategoryValid && value != "":
			if err := c.click(ctx, tree, true); err != nil {
				return err
			}
			if err := c.settle(ctx, "tree_open", c.settings.Settle.TreeOpenMs); err != nil {
				return err
			}
			if err := c.typeText(ctx, models.CSS(antSelectSelector).Last(), value); err != nil {
				return err
			}
			return c.click(ctx, models.CSS(antTreeTitle).Containing(value), true)

		case category == CategoryInvalid:
			if err := c.click(ctx, tree, true); err != nil {
				return err
			}
			if err := c.settle(ctx, "tree_open", c.settings.Settle.TreeOpenMs); err != nil {
				return err
			}
			search := models.CSS(".ant-select").First()
			if err := c.click(ctx, search, true); err != nil {
				return err
			}
			if value == "" {
				return nil
			}
			return c.typeText(ctx, search, value)
		}
		return nil
	})
}

// ValidateDummyCategoryTree searches the tree for every code in the fixture file and checks
// disabled nodes carrying that code cannot be picked
func (c *Controls) ValidateDummyCategoryTree(ctx context.Context, id, fixture string) error {
	detail := fmt.Sprintf("id=%s fixture=%s", id, fixture)
	return c.step(ctx, "ValidateDummyCategoryTree", detail, func() error {
		t := c.defaultTimeout()
		tree := models.ByID(id)
		if err := c.expect(ctx, tree, t, exists()); err != nil {
			return err
		}
		for i := 0; i < 2; i++ {
			if err := c.click(ctx, tree, true); err != nil {
				return err
			}
		}

		records, err := c.fixtures.Categories(fixture)
		if err != nil {
			return &AssertionError{Kind: ErrNotFound, Target: fixture, Check: "fixture", Cause: err}
		}

		for _, record := range records {
			c.logger.Debug().Str("code", record.Code).Msg("Searching category tree")
			if err := c.clear(ctx, tree); err != nil {
				return err
			}
			if err := c.click(ctx, tree, true); err != nil {
				return err
			}
			if err := c.typeText(ctx, models.CSS(categoryTreeSearch), record.Code); err != nil {
				return err
			}
			if err := c.expect(ctx, models.CSS(antTreeTitle).Containing(record.Code), t, exists()); err != nil {
				return err
			}
			if err := c.expect(ctx, models.CSS(disabledTreeNode), t, disabledNodesLocked(record.Code)); err != nil {
				return err
			}
		}
		return nil
	})
}

// disabledNodesLocked passes when every node whose text is code shows the not-allowed cursor
func disabledNodesLocked(code string) check {
	return check{
		name:       "css cursor",
		kind:       ErrMismatch,
		expected:   "not-allowed",
		allowEmpty: true,
		eval: func(nodes []models.ElementState) (string, bool) {
			for _, n := range nodes {
				if n.Text != code {
					continue
				}
				if cursor := n.ComputedStyle("cursor"); cursor != "not-allowed" {
					return cursor, false
				}
			}
			return "not-allowed", true
		},
	}
}

// SelectStatusDropdownInHistory picks value from the history status selector
func (c *Controls) SelectStatusDropdownInHistory(ctx context.Context, id, value string) error {
	return c.step(ctx, "SelectStatusDropdownInHistory", fmt.Sprintf("id=%s value=%s", id, value), func() error {
		if value == "" {
			return nil
		}
		control := models.ByID(id).Child(statusControl)
		if err := c.hover(ctx, control, false); err != nil {
			return err
		}
		if err := c.click(ctx, control, true); err != nil {
			return err
		}
		if err := c.click(ctx, models.ByID(id).Child(statusMenuList).Containing(value), true); err != nil {
			return err
		}
		return c.expect(ctx, control, c.defaultTimeout(), textEq(value))
	})
}

// ValidateSelectValue checks a page-size selector shows "<value> / page"
func (c *Controls) ValidateSelectValue(ctx context.Context, selector, value string) error {
	return c.step(ctx, "ValidateSelectValue", fmt.Sprintf("selector=%s value=%s", selector, value), func() error {
		return c.expect(ctx, models.CSS(selector), c.defaultTimeout(), textEq(value+" / page"))
	})
}
