package views

import (
	"context"
	"fmt"

	"kubezen/internal/action"
	"kubezen/internal/navigation"
)

// ContainerSelectionView lets the operator pick one container of a pod. It
// answers its parent with the selection plus the resume payload it was
// pushed with.
type ContainerSelectionView struct {
	navigation.Base
}

// NewContainerSelectionView constructs the container chooser.
func NewContainerSelectionView(viewContext map[string]any) *ContainerSelectionView {
	return &ContainerSelectionView{Base: navigation.NewBase(viewContext)}
}

func (v *ContainerSelectionView) containerNames() []string {
	switch names := v.Context()[action.ContainerNamesKey].(type) {
	case []string:
		return names
	case []any:
		out := make([]string, 0, len(names))
		for _, n := range names {
			if s, ok := n.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func (v *ContainerSelectionView) DisplayConfig(ctx context.Context) ([]navigation.Item, navigation.Options, error) {
	opts := navigation.Options{
		Prompt: "Container> ",
		Header: fmt.Sprintf("Containers of pod %s", v.ContextString("pod_name")),
	}

	names := v.containerNames()
	if len(names) == 0 {
		return []navigation.Item{noItemsItem("containers")}, opts, nil
	}
	items := make([]navigation.Item, 0, len(names))
	for _, name := range names {
		items = append(items, navigation.Item{Code: name, Text: name, Icon: "📦"})
	}
	return items, opts, nil
}

func (v *ContainerSelectionView) ProcessSelection(ctx context.Context, code, text string, selection map[string]any) (navigation.Signal, error) {
	if sig, handled := standardSignal(code); handled {
		return sig, nil
	}
	return navigation.ToParentWithResult(map[string]any{
		action.SelectedContainerKey: code,
		action.OriginalContextKey:   v.Context()[action.OriginalContextKey],
		action.ActionToResumeKey:    v.Context()[action.ActionToResumeKey],
	}), nil
}
