package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/costvar/internal/repository"
)

// latestAlias resolves to the most recently uploaded session.
const latestAlias = "latest"

// resolveSessionID accepts a full session ID, a unique ID prefix or
// "latest".
func resolveSessionID(ctx context.Context, app *App, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("session ID is required")
	}

	if strings.EqualFold(input, latestAlias) {
		sessions, err := app.Costs.ListSessions(ctx, 1)
		if err != nil {
			return "", err
		}
		if len(sessions) == 0 {
			return "", fmt.Errorf("no sessions uploaded yet")
		}
		return sessions[0].ID, nil
	}

	s, err := app.Costs.GetSession(ctx, input)
	if err == nil {
		return s.ID, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}

	matches, err := app.Costs.MatchSessionIDs(ctx, input)
	if err != nil {
		return "", err
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("session %q: %w", input, repository.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("session ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}
