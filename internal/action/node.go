package action

import (
	"context"
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"kubezen/internal/input"
	"kubezen/internal/navigation"
)

// CordonNode marks a node unschedulable so no new pods land on it.
type CordonNode struct{}

func (CordonNode) Name() string     { return "Cordon" }
func (CordonNode) Code() string     { return "cordon_node" }
func (CordonNode) Shortcut() string { return "o" }
func (CordonNode) Icon() string     { return "🚧" }

func (CordonNode) Applicable(actx *Context) bool {
	return actx.ResourceKind == "Node" && !nodeUnschedulable(actx.Resource)
}

func (a CordonNode) Execute(ctx context.Context, actx *Context) (navigation.Signal, error) {
	if err := actx.Services.Kube.SetNodeUnschedulable(ctx, actx.ResourceName, true); err != nil {
		return navigation.Signal{}, Failedf("cordon failed: %v", err)
	}
	actx.Notify(ctx, fmt.Sprintf("Cordoned node %s", actx.ResourceName), "green")
	return navigation.ToParent(), nil
}

// UncordonNode makes a cordoned node schedulable again.
type UncordonNode struct{}

func (UncordonNode) Name() string     { return "Uncordon" }
func (UncordonNode) Code() string     { return "uncordon_node" }
func (UncordonNode) Shortcut() string { return "u" }
func (UncordonNode) Icon() string     { return "🟢" }

func (UncordonNode) Applicable(actx *Context) bool {
	return actx.ResourceKind == "Node" && nodeUnschedulable(actx.Resource)
}

func (a UncordonNode) Execute(ctx context.Context, actx *Context) (navigation.Signal, error) {
	if err := actx.Services.Kube.SetNodeUnschedulable(ctx, actx.ResourceName, false); err != nil {
		return navigation.Signal{}, Failedf("uncordon failed: %v", err)
	}
	actx.Notify(ctx, fmt.Sprintf("Uncordoned node %s", actx.ResourceName), "green")
	return navigation.ToParent(), nil
}

// DrainNode cordons the node and evicts its pods through a kubectl window so
// the operator can watch eviction progress.
type DrainNode struct{}

func (DrainNode) Name() string     { return "Drain" }
func (DrainNode) Code() string     { return "drain_node" }
func (DrainNode) Shortcut() string { return "x" }
func (DrainNode) Icon() string     { return "💧" }

func (DrainNode) Applicable(actx *Context) bool { return actx.ResourceKind == "Node" }

func (a DrainNode) Execute(ctx context.Context, actx *Context) (navigation.Signal, error) {
	answer, cancelled, err := actx.Services.Prompter.CollectOne(ctx, input.Spec{
		Key:      "confirm",
		Prompt:   fmt.Sprintf("Drain node %s? This cordons it and evicts all pods. (y/n) [n]: ", actx.ResourceName),
		Default:  "n",
		Validate: input.YesNo,
	}, "drain")
	if err != nil {
		return navigation.Signal{}, Failedf("could not confirm drain: %v", err)
	}
	if cancelled || !strings.EqualFold(answer, "y") {
		return navigation.Signal{}, ErrCancelled
	}

	command := fmt.Sprintf("%s drain %s --ignore-daemonsets --delete-emptydir-data",
		actx.Services.Config.KubectlPath, actx.ResourceName)
	windowName := fmt.Sprintf("drain:%s", actx.ResourceName)
	if _, err := actx.Services.UI.LaunchCommandInWindow(ctx, command, windowName, true); err != nil {
		return navigation.Signal{}, Failedf("could not open drain window: %v", err)
	}
	return navigation.Stay(), nil
}

func nodeUnschedulable(obj *unstructured.Unstructured) bool {
	if obj == nil {
		return false
	}
	unschedulable, _, _ := unstructured.NestedBool(obj.Object, "spec", "unschedulable")
	return unschedulable
}
