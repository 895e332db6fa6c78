package action

import (
	"context"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"kubezen/internal/config"
	"kubezen/internal/input"
	"kubezen/internal/kube"
)

// UISurface is the slice of the tmux manager actions depend on.
type UISurface interface {
	ShowNotification(ctx context.Context, text, color string, durationSeconds int) error
	LaunchCommandInWindow(ctx context.Context, command, windowName string, attach bool) (string, error)
	DisplayTextInPager(ctx context.Context, text, windowName, pagerCmd string) error
}

// KubeClient is the data-access surface actions consume.
type KubeClient interface {
	List(ctx context.Context, kind, namespace string) ([]unstructured.Unstructured, error)
	Get(ctx context.Context, kind, namespace, name string) (*unstructured.Unstructured, error)
	Delete(ctx context.Context, kind, namespace, name string) error
	Scale(ctx context.Context, kind, namespace, name string, replicas int32) error
	RestartRollout(ctx context.Context, kind, namespace, name string) error
	Rollback(ctx context.Context, namespace, deployment string, revision int64) error
	RolloutHistory(ctx context.Context, namespace, deployment string) ([]kube.Revision, error)
	TriggerCronJob(ctx context.Context, namespace, name, jobName string) error
	SetCronJobSuspend(ctx context.Context, namespace, name string, suspend bool) error
	SetNodeUnschedulable(ctx context.Context, name string, unschedulable bool) error
}

// Prompter collects operator input with an explicit cancelled variant.
type Prompter interface {
	Collect(ctx context.Context, specs []input.Spec, taskName string) (input.Result, error)
	CollectOne(ctx context.Context, spec input.Spec, taskName string) (value string, cancelled bool, err error)
}

// Services bundles the live collaborators injected into every action context.
// They are process-scoped and never serialized.
type Services struct {
	Config   config.Config
	UI       UISurface
	Kube     KubeClient
	Prompter Prompter
}

// Context carries everything an action needs: live services, the identity of
// the resource acted on, the raw object, and a scratch map for data passed
// between an action and the views it pushes.
type Context struct {
	Services Services

	ResourceKind string
	ResourceName string
	Namespace    string
	Resource     *unstructured.Unstructured

	// ActionCode is the code of the action being executed; it doubles as the
	// resume handle when the action round-trips through a child view.
	ActionCode string

	// CustomData accumulates intermediate results (selected container, child
	// view answers). Keys are owned by the actions that write them.
	CustomData map[string]any

	// ViewContext is the invoking view's context at execution time.
	ViewContext map[string]any
}

// NewContext builds an action context for the given resource.
func NewContext(services Services, kind, namespace, name string, resource *unstructured.Unstructured, viewContext map[string]any) *Context {
	return &Context{
		Services:     services,
		ResourceKind: kind,
		ResourceName: name,
		Namespace:    namespace,
		Resource:     resource,
		CustomData:   make(map[string]any),
		ViewContext:  viewContext,
	}
}

// ToMap serializes the data portion of the context: resource identity, the
// raw object, the action code and the scratch map. Services are deliberately
// excluded; FromMap re-attaches live ones.
func (c *Context) ToMap() map[string]any {
	m := map[string]any{
		"resource_kind": c.ResourceKind,
		"resource_name": c.ResourceName,
		"namespace":     c.Namespace,
		"action_code":   c.ActionCode,
		"custom_data":   c.CustomData,
		"view_context":  c.ViewContext,
	}
	if c.Resource != nil {
		m["resource"] = c.Resource.Object
	}
	return m
}

// FromMap rebuilds a context from a ToMap snapshot, re-attaching the given
// live services. The snapshot carries data only, so a context can cross a
// child-view round trip without holding stale handles.
func FromMap(data map[string]any, services Services) (*Context, error) {
	c := &Context{
		Services:   services,
		CustomData: make(map[string]any),
	}
	var ok bool
	if c.ResourceKind, ok = data["resource_kind"].(string); !ok || c.ResourceKind == "" {
		return nil, fmt.Errorf("action context snapshot missing resource_kind")
	}
	if c.ResourceName, ok = data["resource_name"].(string); !ok || c.ResourceName == "" {
		return nil, fmt.Errorf("action context snapshot missing resource_name")
	}
	c.Namespace, _ = data["namespace"].(string)
	c.ActionCode, _ = data["action_code"].(string)
	if cd, ok := data["custom_data"].(map[string]any); ok {
		for k, v := range cd {
			c.CustomData[k] = v
		}
	}
	if vc, ok := data["view_context"].(map[string]any); ok {
		c.ViewContext = vc
	}
	if obj, ok := data["resource"].(map[string]any); ok {
		c.Resource = &unstructured.Unstructured{Object: obj}
	}
	return c, nil
}

// Notify shows a transient notification, logging rather than failing if the
// surface is unavailable.
func (c *Context) Notify(ctx context.Context, text, color string) {
	if c.Services.UI == nil {
		return
	}
	c.Services.UI.ShowNotification(ctx, text, color, 3)
}

// Subject is the "kind name" phrase used in prompts and notifications.
func (c *Context) Subject() string {
	return fmt.Sprintf("%s %s", c.ResourceKind, c.ResourceName)
}

// CustomString reads a string entry from CustomData.
func (c *Context) CustomString(key string) string {
	if v, ok := c.CustomData[key].(string); ok {
		return v
	}
	return ""
}

// Age formats how long ago the resource was created, kubectl style.
func Age(created time.Time) string {
	if created.IsZero() {
		return "?"
	}
	d := time.Since(created)
	switch {
	case d >= 48*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	case d >= time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d >= time.Minute:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
}
