package views

import (
	"context"
	"fmt"

	"kubezen/internal/navigation"
)

// ResourceTypeView lists the browsable resource kinds for a namespace.
type ResourceTypeView struct {
	navigation.Base
	deps Deps
}

// NewResourceTypeView constructs the resource type view.
func NewResourceTypeView(deps Deps, viewContext map[string]any) *ResourceTypeView {
	return &ResourceTypeView{Base: navigation.NewBase(viewContext), deps: deps}
}

func (v *ResourceTypeView) namespace() string { return v.ContextString(ctxNamespace) }

func (v *ResourceTypeView) DisplayConfig(ctx context.Context) ([]navigation.Item, navigation.Options, error) {
	opts := navigation.Options{
		Prompt: "Resource> ",
		Header: fmt.Sprintf("Namespace: %s", v.namespace()),
	}

	items := make([]navigation.Item, 0, len(v.deps.Config.Resources))
	for _, def := range v.deps.Config.Resources {
		if def.Kind == "Namespace" {
			continue
		}
		items = append(items, navigation.Item{
			Code: def.Kind,
			Text: def.Kind,
			Icon: def.Icon,
		})
	}
	if len(items) == 0 {
		return []navigation.Item{noItemsItem("resource kinds")}, opts, nil
	}
	return items, opts, nil
}

func (v *ResourceTypeView) ProcessSelection(ctx context.Context, code, text string, selection map[string]any) (navigation.Signal, error) {
	if sig, handled := standardSignal(code); handled {
		return sig, nil
	}
	if _, known := v.deps.Config.ResourceByKind(code); !known {
		return navigation.Signal{}, fmt.Errorf("selected unknown resource kind %q", code)
	}
	return navigation.PushByKey(KeyResources, map[string]any{
		ctxNamespace:    v.namespace(),
		ctxResourceKind: code,
	}), nil
}
