package cli

import (
	"context"
	"fmt"
	"strings"
)

// resolveProjectID accepts a full project UUID or an unambiguous prefix of
// one, which is what list output shows.
func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("project ID is required")
	}

	projects, err := app.Projects.List(ctx)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, p := range projects {
		if p.ID == input {
			return p.ID, nil
		}
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("project not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("project ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveProjectForFlag resolves an optional --project flag value. An empty
// value stays empty.
func resolveProjectForFlag(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", nil
	}
	return resolveProjectID(ctx, app, input)
}
