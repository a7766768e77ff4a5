package scenario

import (
	"context"
	"fmt"
	"sort"

	"github.com/ternarybob/uicontrols/pkg/controls"
)

type action struct {
	required []string
	run      func(ctx context.Context, c *controls.Controls, a Args) error
}

func selectSpec(a Args) controls.SelectSpec {
	return controls.SelectSpec{
		ID:          a.String("id"),
		Label:       a.String("label"),
		Placeholder: a.String("placeholder"),
		Value:       a.String("value"),
		Options:     a.Strings("options"),
		Required:    a.Bool("required", false),
		SkipEnabled: !a.Bool("enabled", true),
	}
}

func fieldSpec(a Args) controls.FieldSpec {
	return controls.FieldSpec{
		ID:          a.String("id"),
		Label:       a.String("label"),
		Placeholder: a.String("placeholder"),
		Value:       a.String("value"),
		SkipEnabled: !a.Bool("enabled", true),
		Validation:  a.String("validation"),
	}
}

func filterSpec(a Args) controls.FilterSpec {
	return controls.FilterSpec{
		Column:         a.String("column"),
		Operator:       a.String("operator"),
		Value:          a.String("value"),
		Combinator:     a.String("combinator"),
		SecondOperator: a.String("second_operator"),
		SecondValue:    a.String("second_value"),
	}
}

func treeCategory(name string) (controls.TreeCategory, error) {
	switch name {
	case "", "valid":
		return controls.CategoryValid, nil
	case "invalid":
		return controls.CategoryInvalid, nil
	case "unchecked":
		return controls.CategoryUnchecked, nil
	}
	return 0, fmt.Errorf("unknown tree category %q", name)
}

var actions = map[string]action{
	// navigation
	"Visit": {[]string{"path"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.Visit(ctx, a.String("path"))
	}},
	"GoToHistoryPage": {nil, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.GoToHistoryPage(ctx)
	}},
	"NavigationLink": {[]string{"id"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.NavigationLink(ctx, a.String("id"))
	}},
	"ValidateNavigationLink": {[]string{"id", "value"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateNavigationLink(ctx, a.String("id"), a.String("value"))
	}},
	"LeftNavigationLink": {[]string{"id"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.LeftNavigationLink(ctx, a.String("id"))
	}},
	"ValidateLeftNavigationLink": {[]string{"id", "value"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateLeftNavigationLink(ctx, a.String("id"), a.String("value"), a.Bool("active", true))
	}},
	"ValidateLeftNavigationLinkNotExists": {[]string{"id"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateLeftNavigationLinkNotExists(ctx, a.String("id"))
	}},
	"GetUUIDFromURL": {nil, func(ctx context.Context, c *controls.Controls, a Args) error {
		_, err := c.GetUUIDFromURL(ctx)
		return err
	}},
	"Wait": {[]string{"ms"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.Wait(ctx, a.Int("ms"))
	}},

	// text
	"ValidateText": {[]string{"id", "value"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateText(ctx, a.String("id"), a.String("value"), a.Bool("exact", true), a.Int("timeout_ms"))
	}},
	"ValidateDataIDText": {[]string{"id", "value"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateDataIDText(ctx, a.String("id"), a.String("value"), a.Bool("exact", true), a.Int("timeout_ms"))
	}},
	"ValidateTextByClass": {[]string{"class", "value"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateTextByClass(ctx, a.String("class"), a.String("value"), a.Bool("exact", true), a.Int("timeout_ms"))
	}},
	"ValidateHyperlinkText": {[]string{"id", "value"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateHyperlinkText(ctx, a.String("id"), a.String("value"), a.Bool("exact", true), a.Int("timeout_ms"))
	}},
	"WaitForElement": {[]string{"id"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.WaitForElement(ctx, a.String("id"), a.String("value"), a.Int("timeout_ms"))
	}},
	"WaitForElements": {[]string{"selector"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.WaitForElements(ctx, a.String("selector"), a.String("value"), a.Int("timeout_ms"))
	}},

	// buttons and clicks
	"ValidateButton": {[]string{"id", "value"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateButton(ctx, a.String("id"), a.String("value"), a.Bool("enabled", true), a.Int("timeout_ms"))
	}},
	"ValidateButtonNotExists": {[]string{"id"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateButtonNotExists(ctx, a.String("id"))
	}},
	"ValidateIconButton": {[]string{"id", "value"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateIconButton(ctx, a.String("id"), a.String("value"))
	}},
	"WaitForButton": {[]string{"id"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.WaitForButton(ctx, a.String("id"), a.Bool("enabled", true), a.Int("timeout_ms"))
	}},
	"ClickButton": {[]string{"id"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ClickButton(ctx, a.String("id"))
	}},
	"ClickIconButton": {[]string{"id"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ClickIconButton(ctx, a.String("id"))
	}},
	"ClickSaveButton": {[]string{"id"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ClickSaveButton(ctx, a.String("id"))
	}},
	"ClickIcon": {[]string{"id"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ClickIcon(ctx, a.String("id"))
	}},
	"ClickHyperlink": {[]string{"id"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ClickHyperlink(ctx, a.String("id"))
	}},
	"ClickMenu": {[]string{"selector"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ClickMenu(ctx, a.String("selector"))
	}},
	"DownloadConfigReport": {[]string{"selector"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.DownloadConfigReport(ctx, a.String("selector"))
	}},
	"ClickIconByClassName": {[]string{"class"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ClickIconByClassName(ctx, a.String("class"))
	}},
	"ClickReviewInActions": {nil, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ClickReviewInActions(ctx, a.Int("index"))
	}},
	"ValidateSwitch": {[]string{"id", "value"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateSwitch(ctx, a.String("id"), a.String("value"), a.Bool("enabled", true))
	}},
	"ToggleSwitch": {[]string{"id"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ToggleSwitch(ctx, a.String("id"))
	}},
	"ValidateSwitchStatus": {[]string{"id", "value"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateSwitchStatus(ctx, a.String("id"), a.String("value"))
	}},

	// form fields
	"ValidateDate": {[]string{"id"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateDate(ctx, fieldSpec(a))
	}},
	"ValidateInputField": {[]string{"id"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateInputField(ctx, fieldSpec(a))
	}},
	"ValidateInputFieldSimple": {[]string{"id"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateInputFieldSimple(ctx, fieldSpec(a))
	}},
	"InputField": {[]string{"id", "value"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.InputField(ctx, a.String("id"), a.String("value"))
	}},
	"ValidateCheckbox": {[]string{"id"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateCheckbox(ctx, a.String("id"), a.Bool("enabled", true), a.Bool("checked", false))
	}},
	"ClickCheckbox": {[]string{"id"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ClickCheckbox(ctx, a.String("id"), a.Bool("checked", true))
	}},
	"ValidateElement": {[]string{"id"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateElement(ctx, a.String("id"), a.Bool("present", true))
	}},
	"ValidateElementNotExists": {[]string{"id"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateElementNotExists(ctx, a.String("id"))
	}},
	"ValidateBreadCrumb": {[]string{"id", "value"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateBreadCrumb(ctx, a.String("id"), a.String("value"))
	}},
	"ValidateProgressBar": {[]string{"id", "description_id"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateProgressBar(ctx, a.String("id"), a.String("description_id"))
	}},
	"ValidatePendingOperation": {[]string{"id", "message"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidatePendingOperation(ctx, a.String("id"), a.String("message"))
	}},
	"ValidateLoadingIndicator": {[]string{"id"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateLoadingIndicator(ctx, a.String("id"), a.Bool("visible", true))
	}},
	"ValidateStepper": {[]string{"id", "step", "titles"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateStepper(ctx, a.String("id"), a.Int("step"), a.Strings("titles"))
	}},

	// selects
	"ValidateSelect2": {[]string{"id"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateSelect2(ctx, selectSpec(a))
	}},
	"ValidateSelect": {[]string{"id"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateSelect(ctx, selectSpec(a))
	}},
	"ValidateSelectSearchAhead": {[]string{"id"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateSelectSearchAhead(ctx, controls.SearchAheadSpec{
			ID:          a.String("id"),
			Label:       a.String("label"),
			Placeholder: a.String("placeholder"),
			SkipEnabled: !a.Bool("enabled", true),
			Validation:  a.String("validation"),
		})
	}},
	"HistoryDropdown": {[]string{"class"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.HistoryDropdown(ctx, a.String("class"), a.Strings("values"), a.Bool("multi", false))
	}},
	"SelectValueFromDropdown": {[]string{"id"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.SelectValueFromDropdown(ctx, a.String("id"), a.Strings("values"), a.Bool("multi", false), a.Bool("click_twice", false))
	}},
	"SelectValueFromDropdown2": {[]string{"id"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.SelectValueFromDropdown2(ctx, a.String("id"), a.Strings("values"), a.Bool("multi", false))
	}},
	"SelectValueFromTree": {[]string{"id", "value"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		category, err := treeCategory(a.String("category"))
		if err != nil {
			return err
		}
		return c.SelectValueFromTree(ctx, a.String("id"), a.String("value"), category)
	}},
	"ValidateDummyCategoryTree": {[]string{"id", "fixture"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateDummyCategoryTree(ctx, a.String("id"), a.String("fixture"))
	}},
	"SelectStatusDropdownInHistory": {[]string{"id", "value"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.SelectStatusDropdownInHistory(ctx, a.String("id"), a.String("value"))
	}},
	"ValidateSelectValue": {[]string{"selector", "value"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateSelectValue(ctx, a.String("selector"), a.String("value"))
	}},

	// dialogs
	"ValidateConfirmationMessage": {[]string{"heading", "message", "ok", "cancel"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateConfirmationMessage(ctx, a.String("heading"), a.String("message"), a.String("ok"), a.String("cancel"))
	}},
	"ValidateUnsavedText": {[]string{"selector", "value"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateUnsavedText(ctx, a.String("selector"), a.String("value"), a.Int("timeout_ms"))
	}},
	"ValidateUnsavedButton": {[]string{"selector", "value"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateUnsavedButton(ctx, a.String("selector"), a.String("value"), a.Bool("enabled", true))
	}},
	"ClickUnsavedButton": {[]string{"selector"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ClickUnsavedButton(ctx, a.String("selector"))
	}},
	"ValidateUnsavedConfirmationMessage": {[]string{"heading", "message", "leave", "stay"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateUnsavedConfirmationMessage(ctx, a.String("heading"), a.String("message"), a.String("leave"), a.String("stay"))
	}},
	"ValidateAndClickButton": {[]string{"option"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateAndClickButton(ctx, a.String("option"))
	}},

	// files
	"ValidateFileSelectNoFile": {[]string{"id"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateFileSelectNoFile(ctx, a.String("id"), a.String("info"), a.String("drag_text"), a.String("drag_info"), a.Bool("required", false))
	}},
	"ValidateFileSelectWithFile": {[]string{"id", "file"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateFileSelectWithFile(ctx, a.String("id"), a.String("file"), a.String("type"), a.Int("timeout_ms"))
	}},
	"FileSelect": {[]string{"id", "file"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.FileSelect(ctx, a.String("id"), a.String("file"), a.String("type"), a.Int("timeout_ms"))
	}},
	"ValidateVirusIcon": {[]string{"color"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateVirusIcon(ctx, a.String("color"))
	}},
	"ValidateFileDownload": {[]string{"file"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateFileDownload(ctx, a.String("file"), a.Int("timeout_ms"))
	}},
	"ValidateFilesContains": {[]string{"source", "downloaded"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateFilesContains(ctx, a.String("source"), a.String("downloaded"))
	}},
	"ValidateErrorFile": {[]string{"file"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateErrorFile(ctx, a.String("file"), a.Int("timeout_ms"))
	}},
	"UploadFileRequest": {[]string{"file", "alias"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.UploadFileRequest(ctx, a.String("file"), a.String("alias"), a.String("token"))
	}},
	"WaitForRequest": {[]string{"alias"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		_, err := c.WaitForRequest(ctx, a.String("alias"), a.Int("timeout_ms"))
		return err
	}},
	"WaitForResponse": {[]string{"url"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		_, err := c.WaitForResponse(ctx, a.String("method"), a.String("url"), a.Int("timeout_ms"))
		return err
	}},

	// tables and filters
	"SortColumnInHistory": {[]string{"column", "page"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.SortColumnInHistory(ctx, a.String("column"), a.String("page"))
	}},
	"ClickFilterIcon": {[]string{"column", "page"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ClickFilterIcon(ctx, a.String("column"), a.String("page"))
	}},
	"SelectValueFromTableFilterDropdown": {[]string{"column", "index"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.SelectValueFromTableFilterDropdown(ctx, a.String("column"), a.Int("index"), a.String("value"))
	}},
	"SelectPopulateSubmitFilter": {[]string{"column", "operator"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.SelectPopulateSubmitFilter(ctx, filterSpec(a))
	}},
	"ValidateTableRow": {[]string{"table", "key_column", "key", "cells"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateTableRow(ctx, a.String("table"), a.String("key_column"), a.String("key"), a.Cells("cells"))
	}},
	"ValidateTableLinkClickable": {[]string{"table", "row", "column"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateTableLinkClickable(ctx, a.String("table"), a.String("row"), a.String("column"))
	}},
	"ValidateTableLinkNonClickable": {[]string{"table", "row", "column"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateTableLinkNonClickable(ctx, a.String("table"), a.String("row"), a.String("column"))
	}},
	"ValidateStatusNonClickable": {[]string{"status"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateStatusNonClickable(ctx, a.String("status"), a.Bool("non_clickable", true))
	}},

	// jobs
	"ValidateCancelledJobOnHistory": {[]string{"name", "file", "user"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateCancelledJobOnHistory(ctx, a.String("name"), a.String("file"), a.String("user"))
	}},
	"ValidateCancelledJob": {[]string{"name", "file", "user"}, func(ctx context.Context, c *controls.Controls, a Args) error {
		return c.ValidateCancelledJob(ctx, a.String("name"), a.String("file"), a.String("user"), a.Bool("cancel", true), a.Bool("history", false))
	}},
}

// Actions lists the action names a scenario step may use
func Actions() []string {
	names := make([]string, 0, len(actions))
	for name := range actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
