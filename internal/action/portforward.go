package action

import (
	"context"
	"fmt"
	"strings"

	"kubezen/internal/input"
	"kubezen/internal/navigation"
)

// PortForward starts kubectl port-forward in a background window.
type PortForward struct{}

func (PortForward) Name() string     { return "Port forward" }
func (PortForward) Code() string     { return "port_forward" }
func (PortForward) Shortcut() string { return "p" }
func (PortForward) Icon() string     { return "🔌" }

func (PortForward) Applicable(actx *Context) bool {
	return actx.ResourceKind == "Pod" || actx.ResourceKind == "Service"
}

func (a PortForward) Execute(ctx context.Context, actx *Context) (navigation.Signal, error) {
	res, err := actx.Services.Prompter.Collect(ctx, []input.Spec{
		{Key: "local", Prompt: "Local port: ", Validate: input.Port},
		{Key: "remote", Prompt: "Remote port: ", Validate: input.Port},
	}, "port-forward")
	if err != nil {
		return navigation.Signal{}, Failedf("could not collect ports: %v", err)
	}
	if res.Cancelled {
		return navigation.Signal{}, ErrCancelled
	}

	target := actx.ResourceName
	if actx.ResourceKind == "Service" {
		target = "svc/" + actx.ResourceName
	}
	command := strings.Join([]string{
		actx.Services.Config.KubectlPath, "port-forward", target,
		fmt.Sprintf("%s:%s", res.Values["local"], res.Values["remote"]),
		"-n", actx.Namespace,
	}, " ")

	windowName := fmt.Sprintf("pf:%s:%s", actx.ResourceName, res.Values["local"])
	if _, err := actx.Services.UI.LaunchCommandInWindow(ctx, command, windowName, false); err != nil {
		return navigation.Signal{}, Failedf("could not start port-forward: %v", err)
	}
	actx.Notify(ctx, fmt.Sprintf("Forwarding localhost:%s -> %s:%s", res.Values["local"], actx.ResourceName, res.Values["remote"]), "green")
	return navigation.Stay(), nil
}
