// Package browser provides the automation primitives the assertion helpers run on.
package browser

import (
	"context"
	"errors"

	"github.com/ternarybob/uicontrols/pkg/models"
)

// ErrNoMatch is returned by actions when the locator resolves to zero nodes
var ErrNoMatch = errors.New("no element matches locator")

// Page is the automation primitive surface. Actions apply to the first resolved node.
type Page interface {
	// Query resolves the locator and snapshots every resulting node. Zero nodes is not an error.
	Query(ctx context.Context, loc models.Locator) ([]models.ElementState, error)

	Click(ctx context.Context, loc models.Locator, opts models.ClickOptions) error

	// Hover dispatches mouseover, or mouseout when leave is set
	Hover(ctx context.Context, loc models.Locator, leave bool) error

	Type(ctx context.Context, loc models.Locator, text string) error
	Press(ctx context.Context, loc models.Locator, key models.Key) error
	Clear(ctx context.Context, loc models.Locator) error
	SetChecked(ctx context.Context, loc models.Locator, checked bool) error
	SetFiles(ctx context.Context, loc models.Locator, files []models.FilePayload) error

	URL(ctx context.Context) (string, error)
	Navigate(ctx context.Context, url string) error
	HTML(ctx context.Context) (string, error)
}

// Screenshotter is implemented by backends that can render the page
type Screenshotter interface {
	Screenshot(ctx context.Context) ([]byte, error)
}

// RequestWatcher is implemented by backends that observe network traffic
type RequestWatcher interface {
	Requests() []models.RequestRecord
}

// Closer releases backend resources
type Closer interface {
	Close() error
}
