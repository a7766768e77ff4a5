package common

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/banner"
)

// PrintBanner displays the application banner and the resolved run target
func PrintBanner(config *Config, logger arbor.ILogger) {
	banner.Print("UIControls", GetVersion())

	logger.Info().
		Str("version", GetFullVersion()).
		Str("backend", config.Backend).
		Str("base_url", config.BaseURL).
		Str("environment", config.Environment).
		Msg("UIControls runner")
}
