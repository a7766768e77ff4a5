package controls

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/ternarybob/uicontrols/pkg/models"
)

const (
	navItem     = ".li"
	activeClass = "active"
)

// NavigationLink force-clicks the link #id
func (c *Controls) NavigationLink(ctx context.Context, id string) error {
	return c.step(ctx, "NavigationLink", "id="+id, func() error {
		return c.click(ctx, models.ByID(id), true)
	})
}

// ValidateNavigationLink checks the exact label of the link #id
func (c *Controls) ValidateNavigationLink(ctx context.Context, id, value string) error {
	return c.step(ctx, "ValidateNavigationLink", fmt.Sprintf("id=%s value=%s", id, value), func() error {
		return c.expect(ctx, models.ByID(id), c.defaultTimeout(), exists(), textEq(value))
	})
}

// LeftNavigationLink clicks the side menu entry [data-testid=id]
func (c *Controls) LeftNavigationLink(ctx context.Context, id string) error {
	return c.step(ctx, "LeftNavigationLink", "id="+id, func() error {
		return c.click(ctx, models.ByTestID(id), false)
	})
}

// ValidateLeftNavigationLink checks the side menu entry's label and whether it is the active one.
// The entry is every ancestor of [data-testid=id] below the menu item.
func (c *Controls) ValidateLeftNavigationLink(ctx context.Context, id, value string, isActive bool) error {
	detail := fmt.Sprintf("id=%s value=%s active=%t", id, value, isActive)
	return c.step(ctx, "ValidateLeftNavigationLink", detail, func() error {
		t := c.defaultTimeout()
		link := models.ByTestID(id).ParentsUntilSelector(navItem)
		if err := c.expect(ctx, link, t, exists()); err != nil {
			return err
		}
		if err := c.expect(ctx, link.Containing(value), t, exists()); err != nil {
			return err
		}
		return c.expect(ctx, link, t, hasClass(activeClass, isActive))
	})
}

// ValidateLeftNavigationLinkNotExists checks the side menu entry is absent
func (c *Controls) ValidateLeftNavigationLinkNotExists(ctx context.Context, id string) error {
	return c.step(ctx, "ValidateLeftNavigationLinkNotExists", "id="+id, func() error {
		return c.expect(ctx, models.ByTestID(id), c.defaultTimeout(), notExists())
	})
}

// GetUUIDFromURL returns the last path segment of the current address
func (c *Controls) GetUUIDFromURL(ctx context.Context) (string, error) {
	var uuid string
	err := c.step(ctx, "GetUUIDFromURL", "", func() error {
		current, err := c.page.URL(ctx)
		if err != nil {
			return fmt.Errorf("failed to read page url: %w", err)
		}
		uuid = current[strings.LastIndex(current, "/")+1:]
		c.logger.Debug().Str("uuid", uuid).Str("url", current).Msg("UUID from URL")
		return nil
	})
	return uuid, err
}

// Visit opens path resolved against the base URL, or against the current address when no
// base URL is set. Absolute URLs are opened as given.
func (c *Controls) Visit(ctx context.Context, path string) error {
	return c.step(ctx, "Visit", "path="+path, func() error {
		return c.visit(ctx, path)
	})
}

func (c *Controls) visit(ctx context.Context, path string) error {
	target, err := c.resolveURL(ctx, path)
	if err != nil {
		return err
	}
	if err := c.page.Navigate(ctx, target); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", target, err)
	}
	return nil
}

// GoToHistoryPage opens the job history page and waits for its header
func (c *Controls) GoToHistoryPage(ctx context.Context) error {
	return c.step(ctx, "GoToHistoryPage", "path="+c.settings.History.Path, func() error {
		if err := c.visit(ctx, c.settings.History.Path); err != nil {
			return err
		}
		return c.ValidateText(ctx, historyTitle, c.HistoryHeader(), true, c.settings.Timeouts.ElementWaitMs)
	})
}

func (c *Controls) resolveURL(ctx context.Context, path string) (string, error) {
	base := c.baseURL
	if base == "" {
		current, err := c.page.URL(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to read page url: %w", err)
		}
		base = current
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", base, err)
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}
	return baseURL.ResolveReference(ref).String(), nil
}
