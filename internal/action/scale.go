package action

import (
	"context"
	"fmt"
	"strconv"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"kubezen/internal/input"
	"kubezen/internal/navigation"
)

var scalableKinds = map[string]bool{
	"Deployment":  true,
	"StatefulSet": true,
	"ReplicaSet":  true,
}

// ScaleWorkload changes the replica count of a scalable workload.
type ScaleWorkload struct{}

func (ScaleWorkload) Name() string     { return "Scale" }
func (ScaleWorkload) Code() string     { return "scale" }
func (ScaleWorkload) Shortcut() string { return "s" }
func (ScaleWorkload) Icon() string     { return "⚖️" }

func (ScaleWorkload) Applicable(actx *Context) bool { return scalableKinds[actx.ResourceKind] }

func (a ScaleWorkload) Execute(ctx context.Context, actx *Context) (navigation.Signal, error) {
	current := currentReplicas(actx.Resource)
	value, cancelled, err := actx.Services.Prompter.CollectOne(ctx, input.Spec{
		Key:      "replicas",
		Prompt:   fmt.Sprintf("Replicas for %s [%d]: ", actx.Subject(), current),
		Default:  strconv.FormatInt(current, 10),
		Validate: input.NonNegativeInt,
	}, "scale")
	if err != nil {
		return navigation.Signal{}, Failedf("could not collect replica count: %v", err)
	}
	if cancelled {
		return navigation.Signal{}, ErrCancelled
	}

	replicas, err := strconv.ParseInt(value, 10, 32)
	if err != nil {
		return navigation.Signal{}, Failedf("invalid replica count %q", value)
	}
	if err := actx.Services.Kube.Scale(ctx, actx.ResourceKind, actx.Namespace, actx.ResourceName, int32(replicas)); err != nil {
		return navigation.Signal{}, Failedf("scale failed: %v", err)
	}
	actx.Notify(ctx, fmt.Sprintf("Scaled %s to %d replicas", actx.Subject(), replicas), "green")
	return navigation.ToParent(), nil
}

func currentReplicas(obj *unstructured.Unstructured) int64 {
	if obj == nil {
		return 1
	}
	n, found, err := unstructured.NestedInt64(obj.Object, "spec", "replicas")
	if !found || err != nil {
		return 1
	}
	return n
}
