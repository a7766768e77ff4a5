package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/uicontrols/internal/common"
	"github.com/ternarybob/uicontrols/internal/httpclient"
	"github.com/ternarybob/uicontrols/internal/report"
	"github.com/ternarybob/uicontrols/internal/scenario"
	"github.com/ternarybob/uicontrols/pkg/browser"
	"github.com/ternarybob/uicontrols/pkg/controls"
	"github.com/ternarybob/uicontrols/pkg/fixtures"
	"github.com/ternarybob/uicontrols/pkg/models"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles  configPaths
	scenarioPath = flag.String("scenario", "", "Scenario file to run (.toml, .yaml)")
	backendName  = flag.String("backend", "", "Browser backend: chrome, playwright or document (overrides config)")
	baseURL      = flag.String("base-url", "", "Application base URL (overrides config)")
	pageFile     = flag.String("page", "", "Saved HTML page for the document backend")
	listActions  = flag.Bool("actions", false, "List the scenario actions and exit")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("UIControls version %s\n", common.LoadVersionFromFile())
		os.Exit(0)
	}
	if *listActions {
		for _, name := range scenario.Actions() {
			fmt.Println(name)
		}
		os.Exit(0)
	}

	if len(configFiles) == 0 {
		if _, err := os.Stat("uicontrols.toml"); err == nil {
			configFiles = append(configFiles, "uicontrols.toml")
		} else if _, err := os.Stat("deployments/local/uicontrols.toml"); err == nil {
			configFiles = append(configFiles, "deployments/local/uicontrols.toml")
		}
	}

	// 1. defaults -> files -> keys -> env, then CLI flags
	config, err := common.LoadFromFiles(common.GetLogger(), configFiles...)
	if err != nil {
		common.GetLogger().Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration files")
		os.Exit(1)
	}
	common.ApplyFlagOverrides(config, *backendName, *baseURL)
	if err := config.Validate(); err != nil {
		common.GetLogger().Fatal().Err(err).Msg("Configuration rejected")
		os.Exit(1)
	}

	// 2. logger and banner
	logger := common.InitLogger(config)
	common.PrintBanner(config, logger)

	if *scenarioPath == "" {
		logger.Fatal().Msg("No scenario given, use -scenario")
		os.Exit(2)
	}
	sc, err := scenario.Load(*scenarioPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load scenario")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, config, sc, logger))
}

// run executes the scenario and returns the process exit code
func run(ctx context.Context, config *common.Config, sc *scenario.Scenario, logger arbor.ILogger) (code int) {
	runDir := ""
	if config.Paths.Reports != "" {
		runDir = filepath.Join(config.Paths.Reports, time.Now().Format("2006-01-02T15-04-05")+"_"+sanitize(sc.Name))
	}

	defer func() {
		if r := recover(); r != nil {
			path := common.WriteCrashFile(runDir, r, string(debug.Stack()))
			logger.Error().Str("panic", fmt.Sprintf("%v", r)).Str("crash_file", path).Msg("Scenario run panicked")
			code = 3
		}
	}()

	page, err := openPage(ctx, config, logger)
	if err != nil {
		logger.Error().Err(err).Str("backend", config.Backend).Msg("Failed to start browser backend")
		return 2
	}
	if closer, ok := page.(browser.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				logger.Warn().Err(err).Msg("Failed to close browser backend")
			}
		}()
	}

	osFs := afero.NewOsFs()
	uploadTimeout := models.Millis(config.Controls.Upload.TimeoutMs)
	opts := []controls.Option{
		controls.WithSettings(config.Controls),
		controls.WithBaseURL(config.BaseURL),
		controls.WithFs(osFs),
		controls.WithFixtures(fixtures.NewStore(osFs, config.Paths.Fixtures, logger)),
		controls.WithDownloads(fixtures.NewDownloads(osFs, config.Paths.Downloads)),
		controls.WithUploader(httpclient.NewUploader(httpclient.NewDefaultHTTPClient(uploadTimeout), uploadTimeout, logger)),
	}

	var writer *report.Writer
	if runDir != "" {
		writer = report.NewWriter(osFs, runDir, logger)
		opts = append(opts, controls.WithRecorder(writer))
	}

	ctl := controls.New(page, logger, opts...)
	result := scenario.NewRunner(ctl, config.Backend, logger).Run(ctx, sc)

	if writer != nil {
		if err := writer.WriteSummary(result); err != nil {
			logger.Warn().Err(err).Msg("Failed to write run summary")
		}
	}

	if !result.Passed() {
		logger.Error().
			Int("failures", result.Failures()).
			Str("reports", runDir).
			Msg("Scenario failed")
		return 1
	}
	logger.Info().Dur("duration", result.Duration).Msg("Scenario passed")
	return 0
}

func openPage(ctx context.Context, config *common.Config, logger arbor.ILogger) (browser.Page, error) {
	switch config.Backend {
	case common.BackendChrome:
		return browser.NewChromePage(ctx, config.Chrome, logger)
	case common.BackendPlaywright:
		return browser.NewPlaywrightPage(config.Playwright, logger)
	case common.BackendDocument:
		html := "<html><body></body></html>"
		if *pageFile != "" {
			data, err := os.ReadFile(*pageFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read page file: %w", err)
			}
			html = string(data)
		}
		return browser.NewDocumentPage(html, logger)
	}
	return nil, fmt.Errorf("unknown backend %q", config.Backend)
}

func sanitize(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
