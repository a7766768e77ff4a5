package browser

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/ternarybob/uicontrols/pkg/models"
)

//go:embed resolver.js
var resolverSource string

// targetAttr tags the node an action is about to hit so native driver actions can select it
const targetAttr = "data-uictl-target"

type scriptRequest struct {
	Op     string         `json:"op"`
	Loc    models.Locator `json:"loc"`
	Styles []string       `json:"styles,omitempty"`
	Attr   string         `json:"attr,omitempty"`
	Tag    string         `json:"tag,omitempty"`
	Leave  bool           `json:"leave,omitempty"`
}

type scriptCount struct {
	Count int `json:"count"`
}

// evaluator runs a JS expression that yields a string
type evaluator interface {
	evalString(ctx context.Context, expr string) (string, error)
}

func buildScript(req scriptRequest) (string, error) {
	args, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode resolver request: %w", err)
	}
	return "(" + resolverSource + ")(" + string(args) + ")", nil
}

func runScript(ctx context.Context, ev evaluator, req scriptRequest, out interface{}) error {
	expr, err := buildScript(req)
	if err != nil {
		return err
	}
	raw, err := ev.evalString(ctx, expr)
	if err != nil {
		return fmt.Errorf("resolver %s on %s failed: %w", req.Op, req.Loc, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("failed to decode resolver %s result: %w", req.Op, err)
	}
	return nil
}

func queryNodes(ctx context.Context, ev evaluator, loc models.Locator) ([]models.ElementState, error) {
	var states []models.ElementState
	if err := runScript(ctx, ev, scriptRequest{Op: "query", Loc: loc, Styles: models.StyleProperties}, &states); err != nil {
		return nil, err
	}
	return states, nil
}

// scriptAction runs a DOM-level action on the first resolved node
func scriptAction(ctx context.Context, ev evaluator, op string, loc models.Locator, leave bool) error {
	var res scriptCount
	if err := runScript(ctx, ev, scriptRequest{Op: op, Loc: loc, Leave: leave}, &res); err != nil {
		return err
	}
	if res.Count == 0 {
		return fmt.Errorf("%s %s: %w", op, loc, ErrNoMatch)
	}
	return nil
}

// markTarget tags the first resolved node and returns a selector for it
func markTarget(ctx context.Context, ev evaluator, loc models.Locator) (string, error) {
	tag := uuid.New().String()
	var res scriptCount
	if err := runScript(ctx, ev, scriptRequest{Op: "mark", Loc: loc, Attr: targetAttr, Tag: tag}, &res); err != nil {
		return "", err
	}
	if res.Count == 0 {
		return "", fmt.Errorf("%s: %w", loc, ErrNoMatch)
	}
	return fmt.Sprintf(`[%s="%s"]`, targetAttr, tag), nil
}
