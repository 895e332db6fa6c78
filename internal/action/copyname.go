package action

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"

	"kubezen/internal/navigation"
)

// CopyName puts the resource name on the system clipboard.
type CopyName struct{}

func (CopyName) Name() string     { return "Copy name" }
func (CopyName) Code() string     { return "copy_name" }
func (CopyName) Shortcut() string { return "c" }
func (CopyName) Icon() string     { return "📋" }

func (CopyName) Applicable(*Context) bool { return true }

func (a CopyName) Execute(ctx context.Context, actx *Context) (navigation.Signal, error) {
	if err := clipboard.WriteAll(actx.ResourceName); err != nil {
		return navigation.Signal{}, Failedf("clipboard unavailable: %v", err)
	}
	actx.Notify(ctx, fmt.Sprintf("Copied %q", actx.ResourceName), "green")
	return navigation.Stay(), nil
}
