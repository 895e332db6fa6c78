package action

import (
	"context"
	"fmt"
	"strings"

	"kubezen/internal/input"
	"kubezen/internal/navigation"
)

// DeleteResource deletes the resource after an explicit confirmation.
type DeleteResource struct{}

func (DeleteResource) Name() string     { return "Delete" }
func (DeleteResource) Code() string     { return "delete" }
func (DeleteResource) Shortcut() string { return "D" }
func (DeleteResource) Icon() string     { return "🗑️" }

func (DeleteResource) Applicable(actx *Context) bool { return actx.ResourceKind != "Node" }

func (a DeleteResource) Execute(ctx context.Context, actx *Context) (navigation.Signal, error) {
	answer, cancelled, err := actx.Services.Prompter.CollectOne(ctx, input.Spec{
		Key:      "confirm",
		Prompt:   fmt.Sprintf("Delete %s? (y/n) [n]: ", actx.Subject()),
		Default:  "n",
		Validate: input.YesNo,
	}, "delete")
	if err != nil {
		return navigation.Signal{}, Failedf("could not confirm deletion: %v", err)
	}
	if cancelled || !strings.EqualFold(answer, "y") {
		return navigation.Signal{}, ErrCancelled
	}

	if err := actx.Services.Kube.Delete(ctx, actx.ResourceKind, actx.Namespace, actx.ResourceName); err != nil {
		return navigation.Signal{}, Failedf("delete failed: %v", err)
	}
	actx.Notify(ctx, fmt.Sprintf("Deleted %s", actx.Subject()), "green")
	return navigation.ToParent(), nil
}
