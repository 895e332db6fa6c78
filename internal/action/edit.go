package action

import (
	"context"
	"fmt"
	"strings"

	"kubezen/internal/navigation"
)

// EditResource opens the resource in `kubectl edit` inside a window.
type EditResource struct{}

func (EditResource) Name() string     { return "Edit" }
func (EditResource) Code() string     { return "edit" }
func (EditResource) Shortcut() string { return "E" }
func (EditResource) Icon() string     { return "✏️" }

func (EditResource) Applicable(*Context) bool { return true }

func (a EditResource) Execute(ctx context.Context, actx *Context) (navigation.Signal, error) {
	parts := []string{}
	if editor := actx.Services.Config.Editor; editor != "" {
		parts = append(parts, fmt.Sprintf("EDITOR=%q", editor))
	}
	parts = append(parts, actx.Services.Config.KubectlPath, "edit", strings.ToLower(actx.ResourceKind), actx.ResourceName)
	if actx.Namespace != "" {
		parts = append(parts, "-n", actx.Namespace)
	}

	windowName := fmt.Sprintf("edit:%s", actx.ResourceName)
	if _, err := actx.Services.UI.LaunchCommandInWindow(ctx, strings.Join(parts, " "), windowName, true); err != nil {
		return navigation.Signal{}, Failedf("could not open editor window: %v", err)
	}
	return navigation.Stay(), nil
}
