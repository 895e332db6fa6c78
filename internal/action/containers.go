package action

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"

	"kubezen/internal/navigation"
	"kubezen/pkg/logging"
)

// Context keys of the container-selection sub-protocol. The chooser view
// reads the push keys and writes SelectedContainerKey into its result.
const (
	SelectedContainerKey  = "selected_container_name"
	OriginalContextKey    = "original_action_context"
	ActionToResumeKey     = "action_to_resume"
	ContainerNamesKey     = "container_names"
	ContainerSelectionKey = "containers"
)

// PodContainers lists the container names of a pod object, regular
// containers first, then init containers.
func PodContainers(actx *Context) ([]string, error) {
	if actx.Resource == nil {
		return nil, Failedf("no pod object available for %s", actx.Subject())
	}
	var pod corev1.Pod
	if err := runtime.DefaultUnstructuredConverter.FromUnstructured(actx.Resource.Object, &pod); err != nil {
		return nil, Failedf("could not decode pod %s: %v", actx.ResourceName, err)
	}
	names := make([]string, 0, len(pod.Spec.Containers)+len(pod.Spec.InitContainers))
	for _, c := range pod.Spec.Containers {
		names = append(names, c.Name)
	}
	for _, c := range pod.Spec.InitContainers {
		names = append(names, c.Name)
	}
	return names, nil
}

// ResolveContainer implements the shared container-selection protocol. When
// the pod has exactly one container it is selected silently into CustomData
// and the action proceeds. With several, the returned signal pushes the
// chooser view carrying a snapshot of actx and the action code to resume;
// the caller must return that signal unchanged. A pod with no containers is
// an action failure.
//
// The bool reports whether a container is now selected and execution may
// continue.
func ResolveContainer(ctx context.Context, actx *Context) (navigation.Signal, bool, error) {
	if name := actx.CustomString(SelectedContainerKey); name != "" {
		return navigation.Signal{}, true, nil
	}

	names, err := PodContainers(actx)
	if err != nil {
		return navigation.Signal{}, false, err
	}

	switch len(names) {
	case 0:
		return navigation.Signal{}, false, Failedf("pod %s has no containers", actx.ResourceName)
	case 1:
		actx.CustomData[SelectedContainerKey] = names[0]
		logging.Debug("Action", "auto-selected sole container %q of pod %s", names[0], actx.ResourceName)
		return navigation.Signal{}, true, nil
	default:
		push := navigation.PushByKey(ContainerSelectionKey, map[string]any{
			OriginalContextKey: actx.ToMap(),
			ActionToResumeKey:  actx.ActionCode,
			ContainerNamesKey:  names,
			"pod_name":         actx.ResourceName,
		})
		return push, false, nil
	}
}
