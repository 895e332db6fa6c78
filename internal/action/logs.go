package action

import (
	"context"
	"fmt"
	"strings"

	"kubezen/internal/input"
	"kubezen/internal/navigation"
)

// ViewLogs streams or pages container logs through a kubectl window.
type ViewLogs struct{}

func (ViewLogs) Name() string     { return "View logs" }
func (ViewLogs) Code() string     { return "view_logs" }
func (ViewLogs) Shortcut() string { return "l" }
func (ViewLogs) Icon() string     { return "📜" }

func (ViewLogs) Applicable(actx *Context) bool { return actx.ResourceKind == "Pod" }

func (a ViewLogs) Execute(ctx context.Context, actx *Context) (navigation.Signal, error) {
	if push, ready, err := ResolveContainer(ctx, actx); err != nil {
		return navigation.Signal{}, err
	} else if !ready {
		return push, nil
	}
	container := actx.CustomString(SelectedContainerKey)

	res, err := actx.Services.Prompter.Collect(ctx, []input.Spec{
		{Key: "tail", Prompt: "Tail lines [200]: ", Default: "200", Validate: input.NonNegativeInt},
		{Key: "follow", Prompt: "Follow? (y/n) [n]: ", Default: "n", Validate: input.YesNo},
		{Key: "since", Prompt: "Since (e.g. 10m, empty for all): ", Validate: input.Duration},
	}, "logs")
	if err != nil {
		return navigation.Signal{}, Failedf("could not collect log options: %v", err)
	}
	if res.Cancelled {
		return navigation.Signal{}, ErrCancelled
	}

	parts := []string{
		actx.Services.Config.KubectlPath, "logs", actx.ResourceName,
		"-n", actx.Namespace,
		"-c", container,
		"--tail=" + res.Values["tail"],
	}
	if since := res.Values["since"]; since != "" {
		parts = append(parts, "--since="+since)
	}
	follow := strings.EqualFold(res.Values["follow"], "y")
	if follow {
		parts = append(parts, "-f")
	}
	command := strings.Join(parts, " ")
	if !follow {
		command = fmt.Sprintf("%s | %s", command, actx.Services.Config.Pager)
	}

	windowName := fmt.Sprintf("logs:%s", actx.ResourceName)
	if _, err := actx.Services.UI.LaunchCommandInWindow(ctx, command, windowName, true); err != nil {
		return navigation.Signal{}, Failedf("could not open log window: %v", err)
	}
	return navigation.Stay(), nil
}
