package views

import (
	"context"
	"sort"

	"kubezen/internal/navigation"
)

// NamespaceView is the entry point: pick a namespace to browse.
type NamespaceView struct {
	navigation.Base
	deps Deps
}

// NewNamespaceView constructs the namespace view.
func NewNamespaceView(deps Deps, viewContext map[string]any) *NamespaceView {
	return &NamespaceView{Base: navigation.NewBase(viewContext), deps: deps}
}

func (v *NamespaceView) DisplayConfig(ctx context.Context) ([]navigation.Item, navigation.Options, error) {
	opts := navigation.Options{
		Prompt: "Namespace> ",
		Header: "Select a namespace",
	}

	namespaces, err := v.deps.Kube.List(ctx, "Namespace", "")
	if err != nil {
		return []navigation.Item{errorItem(err)}, opts, nil
	}
	if len(namespaces) == 0 {
		return []navigation.Item{noItemsItem("namespaces")}, opts, nil
	}

	icon := "📁"
	if def, ok := v.deps.Config.ResourceByKind("Namespace"); ok {
		icon = def.Icon
	}

	items := make([]navigation.Item, 0, len(namespaces))
	for _, ns := range namespaces {
		items = append(items, navigation.Item{
			Code: ns.GetName(),
			Text: ns.GetName(),
			Icon: icon,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Text < items[j].Text })
	return items, opts, nil
}

func (v *NamespaceView) ProcessSelection(ctx context.Context, code, text string, selection map[string]any) (navigation.Signal, error) {
	if sig, handled := standardSignal(code); handled {
		return sig, nil
	}
	return navigation.PushByKey(KeyResourceTypes, map[string]any{ctxNamespace: code}), nil
}

// WantsReload keeps the namespace list current as namespaces come and go.
func (v *NamespaceView) WantsReload(resourceKind, namespace string) bool {
	return resourceKind == "Namespace"
}
