package action

import (
	"context"
	"fmt"

	"kubezen/internal/navigation"
)

// ExecShell opens an interactive shell inside a pod container.
type ExecShell struct{}

func (ExecShell) Name() string     { return "Exec shell" }
func (ExecShell) Code() string     { return "exec_shell" }
func (ExecShell) Shortcut() string { return "e" }
func (ExecShell) Icon() string     { return "🐚" }

func (ExecShell) Applicable(actx *Context) bool { return actx.ResourceKind == "Pod" }

func (a ExecShell) Execute(ctx context.Context, actx *Context) (navigation.Signal, error) {
	if push, ready, err := ResolveContainer(ctx, actx); err != nil {
		return navigation.Signal{}, err
	} else if !ready {
		return push, nil
	}
	container := actx.CustomString(SelectedContainerKey)

	// Prefer bash when the image has it, fall back to sh.
	command := fmt.Sprintf(
		"%s exec -it %s -n %s -c %s -- sh -c 'command -v bash >/dev/null 2>&1 && exec bash || exec sh'",
		actx.Services.Config.KubectlPath, actx.ResourceName, actx.Namespace, container,
	)
	windowName := fmt.Sprintf("exec:%s", actx.ResourceName)
	if _, err := actx.Services.UI.LaunchCommandInWindow(ctx, command, windowName, true); err != nil {
		return navigation.Signal{}, Failedf("could not open exec window: %v", err)
	}
	return navigation.Stay(), nil
}
