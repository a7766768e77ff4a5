package models

import "time"

// Page identifiers used by the default layouts
const (
	HistoryPage        = "History Page"
	ReviewPage         = "Review Page"
	SMEReviewPage      = "SME Review Page"
	SMEBatchReviewPage = "SME Batch Review Page"
)

// Settings configures the assertion helpers. All durations are milliseconds.
type Settings struct {
	Timeouts TimeoutSettings       `toml:"timeouts"`
	Settle   SettleSettings        `toml:"settle"`
	Messages MessageSettings       `toml:"messages"`
	Upload   UploadSettings        `toml:"upload"`
	History  HistorySettings       `toml:"history"`
	Pages    map[string]PageLayout `toml:"pages" validate:"dive"`
	PollMs   int                   `toml:"poll_ms" validate:"gt=0"`
}

// TimeoutSettings holds the bounded-wait defaults per helper family
type TimeoutSettings struct {
	DefaultMs        int `toml:"default_ms" validate:"gt=0"`
	WaitForElementMs int `toml:"wait_for_element_ms" validate:"gt=0"`
	WaitForButtonMs  int `toml:"wait_for_button_ms" validate:"gt=0"`
	ElementWaitMs    int `toml:"element_wait_ms" validate:"gt=0"` // job status / history reload waits
	HistoryReloadMs  int `toml:"history_reload_ms" validate:"gt=0"`
	VirusScanMs      int `toml:"virus_scan_ms" validate:"gt=0"`
	DownloadMs       int `toml:"download_ms" validate:"gt=0"`
	DownloadPollMs   int `toml:"download_poll_ms" validate:"gt=0"`
	ErrorFileMs      int `toml:"error_file_ms" validate:"gt=0"`
	ErrorFilePollMs  int `toml:"error_file_poll_ms" validate:"gt=0"`
	ErrorHeaderMs    int `toml:"error_header_ms" validate:"gt=0"`
	FileWithFileMs   int `toml:"file_with_file_ms" validate:"gt=0"`
}

// SettleSettings are fixed waits that let the backend catch up before re-querying
type SettleSettings struct {
	CancelJobMs int `toml:"cancel_job_ms" validate:"gte=0"`
	FilterMs    int `toml:"filter_ms" validate:"gte=0"`
	TreeOpenMs  int `toml:"tree_open_ms" validate:"gte=0"`
}

// MessageSettings holds the application strings the helpers compare against
type MessageSettings struct {
	HistoryHeader   string `toml:"history_header" validate:"required"`
	UnsavedMessage  string `toml:"unsaved_message" validate:"required"`
	CancelTemplate  string `toml:"cancel_template" validate:"required"` // $name is replaced by the job name
	RequiredField   string `toml:"required_field" validate:"required"`
	RequiredFile    string `toml:"required_file" validate:"required"`
	SettingsSaved   string `toml:"settings_saved" validate:"required"`
	ProgressPartial string `toml:"progress_partial" validate:"required"`
}

// UploadSettings configures the direct upload request
type UploadSettings struct {
	Endpoint  string `toml:"endpoint"`
	FieldName string `toml:"field_name" validate:"required"`
	TimeoutMs int    `toml:"timeout_ms" validate:"gt=0"`
}

// HistorySettings locates the job history page
type HistorySettings struct {
	Path    string `toml:"path" validate:"required"`
	TableID string `toml:"table_id" validate:"required"`
}

// PageLayout maps column names to positional indexes on one page
type PageLayout struct {
	SortColumns   []string          `toml:"sort_columns"`
	FilterColumns []string          `toml:"filter_columns"`
	SortScan      string            `toml:"sort_scan" validate:"required"`
	SortTarget    string            `toml:"sort_target" validate:"required"`
	FilterTrigger string            `toml:"filter_trigger" validate:"required"`
	PreSort       map[string]string `toml:"pre_sort"` // column -> selector clicked before sorting
}

const (
	tableFilterColumn  = ".ant-table-filter-column"
	tableFilterTrigger = ".ant-table-filter-column > .ant-dropdown-trigger"
)

// DefaultSettings returns the settings the helpers were written against
func DefaultSettings() *Settings {
	return &Settings{
		Timeouts: TimeoutSettings{
			DefaultMs:        4000,
			WaitForElementMs: 10000,
			WaitForButtonMs:  10000,
			ElementWaitMs:    30000,
			HistoryReloadMs:  40000,
			VirusScanMs:      20000,
			DownloadMs:       30000,
			DownloadPollMs:   30000,
			ErrorFileMs:      10000,
			ErrorFilePollMs:  600,
			ErrorHeaderMs:    10000,
			FileWithFileMs:   10000,
		},
		Settle: SettleSettings{
			CancelJobMs: 15000,
			FilterMs:    1000,
			TreeOpenMs:  5000,
		},
		Messages: MessageSettings{
			HistoryHeader:   "Job History",
			UnsavedMessage:  "You have unsaved changes. Are you sure you want to leave this page?",
			CancelTemplate:  "Are you sure you want to cancel $name?",
			RequiredField:   "This is a required field",
			RequiredFile:    "This is a required file",
			SettingsSaved:   "The Settings were saved.",
			ProgressPartial: "For the last",
		},
		Upload: UploadSettings{
			FieldName: "user-file",
			TimeoutMs: 60000,
		},
		History: HistorySettings{
			Path:    "/history",
			TableID: "JobsHistory",
		},
		Pages:  DefaultPageLayouts(),
		PollMs: 100,
	}
}

// DefaultPageLayouts returns the column layouts of the four table pages
func DefaultPageLayouts() map[string]PageLayout {
	return map[string]PageLayout{
		HistoryPage: {
			SortColumns:   []string{"name", "filename", "date", "version", "user", "status", "error"},
			FilterColumns: []string{"name", "filename", "date", "version", "user", "status", "error"},
			SortScan:      tableFilterColumn,
			SortTarget:    tableFilterColumn,
			FilterTrigger: tableFilterTrigger,
		},
		ReviewPage: {
			SortColumns:   []string{"name", "description", "taxcat", "probability", "status"},
			FilterColumns: []string{"name", "description", "taxcat", "probability", "status"},
			SortScan:      tableFilterColumn,
			SortTarget:    tableFilterColumn,
			FilterTrigger: tableFilterTrigger,
		},
		SMEReviewPage: {
			SortColumns:   []string{"Added Date and Time", "Item Count", "Status", "Days in Queue", "Batch Number"},
			FilterColumns: []string{"Added Date and Time", "Item Count", "status", "Days in Queue"},
			SortScan:      tableFilterColumn,
			SortTarget:    tableFilterColumn,
			FilterTrigger: tableFilterTrigger,
			PreSort: map[string]string{
				"Batch Number": ".ant-table-cell-content > .ant-table-column-sorters",
			},
		},
		SMEBatchReviewPage: {
			SortColumns:   []string{"product_name", "taxcat_reviewed", "probability", "source_name"},
			FilterColumns: []string{"product_name", "taxcat_reviewed", "probability", "source_name"},
			SortScan:      tableFilterColumn,
			SortTarget:    ".ant-table-column-title > .ant-table-column-sorters",
			FilterTrigger: tableFilterTrigger,
		},
	}
}

// Millis converts a millisecond count to a duration
func Millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// OrDefault returns ms, or def when ms is not positive
func OrDefault(ms, def int) int {
	if ms <= 0 {
		return def
	}
	return ms
}
