// -----------------------------------------------------------------------
// Crash Protection - crash file generation for scenario runs
// -----------------------------------------------------------------------

package common

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// WriteCrashFile writes a crash report for a panic raised while running a scenario.
// Returns the path of the file, or "" when it could not be written.
func WriteCrashFile(dir string, panicVal interface{}, stackTrace string) string {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "CRASH: Failed to create crash directory: %v\n", err)
		return ""
	}

	crashPath := filepath.Join(dir, fmt.Sprintf("crash-%s.log", time.Now().Format("2006-01-02T15-04-05")))

	var report bytes.Buffer
	report.WriteString("=== UICONTROLS CRASH REPORT ===\n")
	fmt.Fprintf(&report, "Time: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&report, "Version: %s\n", GetFullVersion())
	fmt.Fprintf(&report, "Go: %s %s/%s\n\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)

	report.WriteString("=== PANIC VALUE ===\n")
	fmt.Fprintf(&report, "%v\n\n", panicVal)

	report.WriteString("=== STACK TRACE ===\n")
	report.WriteString(stackTrace)
	report.WriteString("\n")

	if err := os.WriteFile(crashPath, report.Bytes(), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "CRASH: Failed to write crash file: %v\n", err)
		return ""
	}
	return crashPath
}
