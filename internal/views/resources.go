package views

import (
	"context"
	"fmt"
	"sort"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"kubezen/internal/action"
	"kubezen/internal/navigation"
)

// ResourceListView lists live objects of one kind in one namespace.
type ResourceListView struct {
	navigation.Base
	deps Deps
}

// NewResourceListView constructs the resource list view.
func NewResourceListView(deps Deps, viewContext map[string]any) *ResourceListView {
	return &ResourceListView{Base: navigation.NewBase(viewContext), deps: deps}
}

func (v *ResourceListView) namespace() string { return v.ContextString(ctxNamespace) }
func (v *ResourceListView) kind() string      { return v.ContextString(ctxResourceKind) }

func (v *ResourceListView) DisplayConfig(ctx context.Context) ([]navigation.Item, navigation.Options, error) {
	kind := v.kind()
	opts := navigation.Options{
		Prompt: fmt.Sprintf("%s> ", kind),
		Header: fmt.Sprintf("%s in %s", kind, v.namespace()),
	}

	def, ok := v.deps.Config.ResourceByKind(kind)
	if !ok {
		return nil, opts, fmt.Errorf("resource kind %q is not configured", kind)
	}
	namespace := v.namespace()
	if !def.Namespaced {
		namespace = ""
		opts.Header = fmt.Sprintf("%s (cluster-scoped)", kind)
	}

	objects, err := v.deps.Kube.List(ctx, kind, namespace)
	if err != nil {
		return []navigation.Item{errorItem(err)}, opts, nil
	}
	if len(objects) == 0 {
		return []navigation.Item{noItemsItem(def.Plural)}, opts, nil
	}

	items := make([]navigation.Item, 0, len(objects))
	for _, obj := range objects {
		items = append(items, navigation.Item{
			Code: obj.GetName(),
			Text: fmt.Sprintf("%-50s %8s %s", obj.GetName(), action.Age(obj.GetCreationTimestamp().Time), statusSummary(&obj)),
			Icon: def.Icon,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Code < items[j].Code })
	return items, opts, nil
}

func (v *ResourceListView) ProcessSelection(ctx context.Context, code, text string, selection map[string]any) (navigation.Signal, error) {
	if sig, handled := standardSignal(code); handled {
		return sig, nil
	}

	def, _ := v.deps.Config.ResourceByKind(v.kind())
	namespace := v.namespace()
	if !def.Namespaced {
		namespace = ""
	}

	pushed := map[string]any{
		ctxNamespace:    namespace,
		ctxResourceKind: v.kind(),
		ctxResourceName: code,
	}
	// Hand the current object along so the action list renders without
	// another round trip; it refreshes on its own when it needs to.
	if obj, err := v.deps.Kube.List(ctx, v.kind(), namespace); err == nil {
		for _, o := range obj {
			if o.GetName() == code {
				pushed[ctxResourceObj] = o.Object
				break
			}
		}
	}
	return navigation.PushByKey(KeyActions, pushed), nil
}

// WantsReload limits watch-driven reloads to this view's kind and namespace.
func (v *ResourceListView) WantsReload(resourceKind, namespace string) bool {
	if resourceKind != v.kind() {
		return false
	}
	def, ok := v.deps.Config.ResourceByKind(resourceKind)
	if ok && !def.Namespaced {
		return true
	}
	return namespace == v.namespace()
}

// statusSummary extracts a short per-kind status column.
func statusSummary(obj *unstructured.Unstructured) string {
	switch obj.GetKind() {
	case "Pod":
		phase, _, _ := unstructured.NestedString(obj.Object, "status", "phase")
		return phase
	case "Deployment", "StatefulSet", "ReplicaSet":
		ready, _, _ := unstructured.NestedInt64(obj.Object, "status", "readyReplicas")
		desired, found, _ := unstructured.NestedInt64(obj.Object, "spec", "replicas")
		if !found {
			return ""
		}
		return fmt.Sprintf("%d/%d", ready, desired)
	case "DaemonSet":
		ready, _, _ := unstructured.NestedInt64(obj.Object, "status", "numberReady")
		desired, _, _ := unstructured.NestedInt64(obj.Object, "status", "desiredNumberScheduled")
		return fmt.Sprintf("%d/%d", ready, desired)
	case "Node":
		for _, c := range nodeConditions(obj) {
			if c["type"] == "Ready" {
				if c["status"] == "True" {
					return "Ready"
				}
				return "NotReady"
			}
		}
		return ""
	default:
		return ""
	}
}

func nodeConditions(obj *unstructured.Unstructured) []map[string]any {
	raw, found, err := unstructured.NestedSlice(obj.Object, "status", "conditions")
	if !found || err != nil {
		return nil
	}
	conditions := make([]map[string]any, 0, len(raw))
	for _, c := range raw {
		if m, ok := c.(map[string]any); ok {
			conditions = append(conditions, m)
		}
	}
	return conditions
}
