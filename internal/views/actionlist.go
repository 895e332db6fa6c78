package views

import (
	"context"
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"kubezen/internal/action"
	"kubezen/internal/navigation"
	"kubezen/pkg/logging"
)

// ActionListView offers the applicable actions for one resource and owns the
// resume flow: when an action round-trips through a child view, the child's
// answer comes back here and the action is re-executed with it.
type ActionListView struct {
	navigation.Base
	deps Deps
}

// NewActionListView constructs the action list view.
func NewActionListView(deps Deps, viewContext map[string]any) *ActionListView {
	return &ActionListView{Base: navigation.NewBase(viewContext), deps: deps}
}

func (v *ActionListView) actionContext() *action.Context {
	var resource *unstructured.Unstructured
	if obj, ok := v.Context()[ctxResourceObj].(map[string]any); ok {
		resource = &unstructured.Unstructured{Object: obj}
	}
	return action.NewContext(
		v.deps.Services,
		v.ContextString(ctxResourceKind),
		v.ContextString(ctxNamespace),
		v.ContextString(ctxResourceName),
		resource,
		v.Context(),
	)
}

func (v *ActionListView) DisplayConfig(ctx context.Context) ([]navigation.Item, navigation.Options, error) {
	actx := v.actionContext()
	opts := navigation.Options{
		Prompt: "Action> ",
		Header: fmt.Sprintf("Actions for %s", actx.Subject()),
	}

	applicable := v.deps.Actions.For(actx)
	if len(applicable) == 0 {
		return []navigation.Item{noItemsItem("actions")}, opts, nil
	}

	items := make([]navigation.Item, 0, len(applicable))
	for _, a := range applicable {
		text := a.Name()
		if a.Shortcut() != "" {
			text = fmt.Sprintf("%-24s [%s]", a.Name(), a.Shortcut())
		}
		items = append(items, navigation.Item{Code: a.Code(), Text: text, Icon: a.Icon()})
	}
	return items, opts, nil
}

func (v *ActionListView) ProcessSelection(ctx context.Context, code, text string, selection map[string]any) (navigation.Signal, error) {
	if sig, handled := standardSignal(code); handled {
		return sig, nil
	}

	a, ok := v.deps.Actions.ByCode(code)
	if !ok {
		return navigation.Signal{}, fmt.Errorf("selected unknown action %q", code)
	}

	actx := v.actionContext()
	actx.ActionCode = code
	if actx.Resource == nil {
		v.refreshResource(ctx, actx)
	}
	return a.Execute(ctx, actx)
}

// HandleChildResult resumes an action after its child view popped with an
// answer. The child hands back the serialized action context and the action
// code; everything else in the result is merged into the scratch map.
func (v *ActionListView) HandleChildResult(ctx context.Context, result map[string]any, childContext map[string]any) (navigation.Signal, error) {
	code, _ := result[action.ActionToResumeKey].(string)
	snapshot, _ := result[action.OriginalContextKey].(map[string]any)
	if code == "" || snapshot == nil {
		logging.Debug("Views", "child result carries nothing to resume, staying")
		return navigation.Stay(), nil
	}

	a, ok := v.deps.Actions.ByCode(code)
	if !ok {
		return navigation.Signal{}, fmt.Errorf("cannot resume unknown action %q", code)
	}
	actx, err := action.FromMap(snapshot, v.deps.Services)
	if err != nil {
		return navigation.Signal{}, fmt.Errorf("cannot resume action %q: %w", code, err)
	}
	actx.ActionCode = code
	for key, value := range result {
		if key == action.ActionToResumeKey || key == action.OriginalContextKey {
			continue
		}
		actx.CustomData[key] = value
	}

	logging.Debug("Views", "resuming action %q for %s", code, actx.Subject())
	return a.Execute(ctx, actx)
}

// refreshResource fetches the live object when the pushed context carried
// none (or it went stale across a round trip).
func (v *ActionListView) refreshResource(ctx context.Context, actx *action.Context) {
	objects, err := v.deps.Kube.List(ctx, actx.ResourceKind, actx.Namespace)
	if err != nil {
		logging.Warn("Views", "could not refresh %s: %v", strings.ToLower(actx.ResourceKind), err)
		return
	}
	for _, obj := range objects {
		if obj.GetName() == actx.ResourceName {
			actx.Resource = &obj
			v.Context()[ctxResourceObj] = obj.Object
			return
		}
	}
}
