package action

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"kubezen/internal/navigation"
)

// DescribeResource shows `kubectl describe` output in a pager window.
type DescribeResource struct{}

func (DescribeResource) Name() string     { return "Describe" }
func (DescribeResource) Code() string     { return "describe" }
func (DescribeResource) Shortcut() string { return "d" }
func (DescribeResource) Icon() string     { return "🔍" }

func (DescribeResource) Applicable(*Context) bool { return true }

func (a DescribeResource) Execute(ctx context.Context, actx *Context) (navigation.Signal, error) {
	args := []string{"describe", strings.ToLower(actx.ResourceKind), actx.ResourceName}
	if actx.Namespace != "" {
		args = append(args, "-n", actx.Namespace)
	}
	out, err := exec.CommandContext(ctx, actx.Services.Config.KubectlPath, args...).CombinedOutput()
	if err != nil {
		return navigation.Signal{}, Failedf("describe failed: %v: %s", err, strings.TrimSpace(string(out)))
	}

	windowName := fmt.Sprintf("describe:%s", actx.ResourceName)
	if err := actx.Services.UI.DisplayTextInPager(ctx, string(out), windowName, actx.Services.Config.Pager); err != nil {
		return navigation.Signal{}, Failedf("could not open pager: %v", err)
	}
	return navigation.Stay(), nil
}
