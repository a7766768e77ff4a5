package controls

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ternarybob/uicontrols/pkg/models"
)

const (
	stepsIcon      = ".ant-steps-icon"
	stepsItemTitle = ".ant-steps-item-title"
)

// FieldSpec describes the expected state of an input or date field. Empty strings are not asserted.
type FieldSpec struct {
	ID          string
	Label       string
	Placeholder string
	Value       string
	SkipEnabled bool
	Validation  string
}

func (s FieldSpec) String() string {
	return fmt.Sprintf("id=%s label=%s placeholder=%s value=%s enabled=%t validation=%s",
		s.ID, s.Label, s.Placeholder, s.Value, !s.SkipEnabled, s.Validation)
}

func (c *Controls) validateField(ctx context.Context, spec FieldSpec) error {
	t := c.defaultTimeout()
	field := models.ByID(spec.ID)

	if err := c.expect(ctx, field, t, exists()); err != nil {
		return err
	}
	if !spec.SkipEnabled {
		if err := c.expect(ctx, field, t, enabled(true)); err != nil {
			return err
		}
	}
	if err := c.expectLabel(ctx, spec.ID, spec.Label); err != nil {
		return err
	}
	if spec.Placeholder != "" {
		if err := c.expect(ctx, field, t, attrEq("placeholder", spec.Placeholder)); err != nil {
			return err
		}
	}
	if spec.Value != "" {
		if err := c.expect(ctx, field, t, valueEq(spec.Value)); err != nil {
			return err
		}
	}
	if spec.Validation != "" {
		return c.expectValidation(ctx, spec.ID, spec.Validation)
	}
	return nil
}

// ValidateDate checks a date picker input
func (c *Controls) ValidateDate(ctx context.Context, spec FieldSpec) error {
	return c.step(ctx, "ValidateDate", spec.String(), func() error {
		return c.validateField(ctx, spec)
	})
}

// ValidateInputField checks an input with its label and validation message
func (c *Controls) ValidateInputField(ctx context.Context, spec FieldSpec) error {
	return c.step(ctx, "ValidateInputField", spec.String(), func() error {
		return c.validateField(ctx, spec)
	})
}

// ValidateInputFieldSimple checks an input's state, value and placeholder. Label and
// Validation are ignored.
func (c *Controls) ValidateInputFieldSimple(ctx context.Context, spec FieldSpec) error {
	return c.step(ctx, "ValidateInputFieldSimple", spec.String(), func() error {
		t := c.defaultTimeout()
		field := models.ByID(spec.ID)
		if err := c.expect(ctx, field, t, exists()); err != nil {
			return err
		}
		if !spec.SkipEnabled {
			if err := c.expect(ctx, field, t, enabled(true)); err != nil {
				return err
			}
		}
		if spec.Value != "" {
			if err := c.expect(ctx, field, t, valueEq(spec.Value)); err != nil {
				return err
			}
		}
		if spec.Placeholder != "" {
			return c.expect(ctx, field, t, attrEq("placeholder", spec.Placeholder))
		}
		return nil
	})
}

// InputField clears the input and, when value is set, types it and checks the result
func (c *Controls) InputField(ctx context.Context, id, value string) error {
	return c.step(ctx, "InputField", fmt.Sprintf("id=%s value=%s", id, value), func() error {
		field := models.ByID(id)
		if err := c.clear(ctx, field); err != nil {
			return err
		}
		if err := c.clear(ctx, field); err != nil {
			return err
		}
		if value == "" {
			return nil
		}
		if err := c.typeText(ctx, field, value); err != nil {
			return err
		}
		return c.expect(ctx, field, c.defaultTimeout(), valueEq(value))
	})
}

// ValidateCheckbox checks a checkbox's enabled and checked state
func (c *Controls) ValidateCheckbox(ctx context.Context, id string, isEnabled, isChecked bool) error {
	detail := fmt.Sprintf("id=%s enabled=%t checked=%t", id, isEnabled, isChecked)
	return c.step(ctx, "ValidateCheckbox", detail, func() error {
		return c.expect(ctx, models.ByID(id), c.defaultTimeout(), exists(), enabled(isEnabled), checked(isChecked))
	})
}

// ClickCheckbox moves an enabled checkbox to the checked state given, asserting it starts
// in the opposite one
func (c *Controls) ClickCheckbox(ctx context.Context, id string, want bool) error {
	return c.step(ctx, "ClickCheckbox", fmt.Sprintf("id=%s checked=%t", id, want), func() error {
		box := models.ByID(id)
		if err := c.expect(ctx, box, c.defaultTimeout(), exists(), enabled(true), checked(!want)); err != nil {
			return err
		}
		return actionError("check", box, c.page.SetChecked(ctx, box, want))
	})
}

// ValidateElementNotExists checks #id is absent
func (c *Controls) ValidateElementNotExists(ctx context.Context, id string) error {
	return c.step(ctx, "ValidateElementNotExists", "id="+id, func() error {
		return c.expect(ctx, models.ByID(id), c.defaultTimeout(), notExists())
	})
}

// ValidateElement checks #id is present or absent
func (c *Controls) ValidateElement(ctx context.Context, id string, present bool) error {
	return c.step(ctx, "ValidateElement", fmt.Sprintf("id=%s exists=%t", id, present), func() error {
		return c.expectPresence(ctx, models.ByID(id), present)
	})
}

func (c *Controls) expectPresence(ctx context.Context, loc models.Locator, present bool) error {
	if present {
		return c.expect(ctx, loc, c.defaultTimeout(), exists())
	}
	return c.expect(ctx, loc, c.defaultTimeout(), notExists())
}

// ValidateBreadCrumb checks the breadcrumb is shown and, when value is set, contains it
func (c *Controls) ValidateBreadCrumb(ctx context.Context, id, value string) error {
	return c.step(ctx, "ValidateBreadCrumb", fmt.Sprintf("id=%s value=%s", id, value), func() error {
		crumb := models.ByID(id)
		if err := c.expect(ctx, crumb, c.defaultTimeout(), exists(), visible()); err != nil {
			return err
		}
		if value == "" {
			return nil
		}
		return c.expect(ctx, crumb, c.defaultTimeout(), textContains(value))
	})
}

// ValidateProgressBar checks the progress bar and the partial text of its description
func (c *Controls) ValidateProgressBar(ctx context.Context, id, descriptionID string) error {
	return c.step(ctx, "ValidateProgressBar", fmt.Sprintf("id=%s description=%s", id, descriptionID), func() error {
		if err := c.expect(ctx, models.ByID(id), c.defaultTimeout(), exists()); err != nil {
			return err
		}
		return c.ValidateText(ctx, descriptionID, c.settings.Messages.ProgressPartial, false, 0)
	})
}

// ValidatePendingOperation checks the pending operation banner text
func (c *Controls) ValidatePendingOperation(ctx context.Context, id, message string) error {
	return c.step(ctx, "ValidatePendingOperation", fmt.Sprintf("id=%s message=%s", id, message), func() error {
		return c.expect(ctx, models.ByID(id), c.defaultTimeout(), exists(), textEq(message))
	})
}

// ValidateLoadingIndicator checks the indicator is present, or gone
func (c *Controls) ValidateLoadingIndicator(ctx context.Context, id string, isVisible bool) error {
	return c.step(ctx, "ValidateLoadingIndicator", fmt.Sprintf("id=%s visible=%t", id, isVisible), func() error {
		return c.expectPresence(ctx, models.ByID(id), isVisible)
	})
}

// ValidateStepper checks the current step number and every line of the step titles
func (c *Controls) ValidateStepper(ctx context.Context, id string, step int, titles []string) error {
	detail := fmt.Sprintf("id=%s step=%d titles=%v", id, step, titles)
	return c.step(ctx, "ValidateStepper", detail, func() error {
		t := c.defaultTimeout()
		icon := models.CSS(stepsIcon)
		if err := c.expect(ctx, icon, t, exists()); err != nil {
			return err
		}
		if err := c.expect(ctx, icon.Containing(strconv.Itoa(step)), t, exists()); err != nil {
			return err
		}

		title := models.CSS(stepsItemTitle)
		if err := c.expect(ctx, title, t, exists()); err != nil {
			return err
		}
		// a title can wrap onto several lines; each is checked on its own
		for _, line := range titles {
			if err := c.expect(ctx, title.Containing(line), t, exists()); err != nil {
				return err
			}
		}
		return nil
	})
}
