// Package views contains the concrete navigation views: what the operator
// sees in the selector and what each selection leads to.
package views

import (
	"context"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"kubezen/internal/action"
	"kubezen/internal/config"
	"kubezen/internal/kube"
	"kubezen/internal/navigation"
)

// Registered view keys.
const (
	KeyNamespaces    = "namespaces"
	KeyResourceTypes = "resource_types"
	KeyResources     = "resources"
	KeyActions       = "actions"
	KeyContainers    = action.ContainerSelectionKey
	KeyHistory       = action.RolloutHistoryKey
)

// View context keys shared across the hierarchy.
const (
	ctxNamespace    = "namespace"
	ctxResourceKind = "resource_kind"
	ctxResourceName = "resource_name"
	ctxResourceObj  = "resource_object"
)

// Lister is the slice of the kube client the list views need.
type Lister interface {
	List(ctx context.Context, kind, namespace string) ([]unstructured.Unstructured, error)
}

// RolloutHistorian is the slice of the kube client the history view needs.
type RolloutHistorian interface {
	RolloutHistory(ctx context.Context, namespace, deployment string) ([]kube.Revision, error)
}

// StoreAware is implemented by views that care about resource watch events.
// The dispatcher reloads the active view only when it reports relevance.
type StoreAware interface {
	WantsReload(resourceKind, namespace string) bool
}

// Deps bundles what view constructors close over.
type Deps struct {
	Config   config.Config
	Kube     Lister
	History  RolloutHistorian
	Actions  *action.Registry
	Services action.Services
}

// RegisterAll wires every view constructor into the navigation registry.
func RegisterAll(reg *navigation.Registry, deps Deps) {
	reg.Register(KeyNamespaces, func(viewContext map[string]any) navigation.View {
		return NewNamespaceView(deps, viewContext)
	})
	reg.Register(KeyResourceTypes, func(viewContext map[string]any) navigation.View {
		return NewResourceTypeView(deps, viewContext)
	})
	reg.Register(KeyResources, func(viewContext map[string]any) navigation.View {
		return NewResourceListView(deps, viewContext)
	})
	reg.Register(KeyActions, func(viewContext map[string]any) navigation.View {
		return NewActionListView(deps, viewContext)
	})
	reg.Register(KeyContainers, func(viewContext map[string]any) navigation.View {
		return NewContainerSelectionView(viewContext)
	})
	reg.Register(KeyHistory, func(viewContext map[string]any) navigation.View {
		return NewRolloutHistoryView(deps, viewContext)
	})
}

// standardSignal resolves the item codes every view shares: go-back pops,
// placeholder items reload. The bool reports whether the code was handled.
func standardSignal(code string) (navigation.Signal, bool) {
	switch code {
	case navigation.GoBackCode:
		return navigation.ToParent(), true
	case navigation.NoItemsCode, navigation.ErrorFetchingCode:
		return navigation.Reload(), true
	default:
		return navigation.Signal{}, false
	}
}

func errorItem(err error) navigation.Item {
	return navigation.Item{
		Code: navigation.ErrorFetchingCode,
		Text: "Error fetching items: " + err.Error(),
		Icon: navigation.ErrorFetchingIcon,
	}
}

func noItemsItem(what string) navigation.Item {
	return navigation.Item{
		Code: navigation.NoItemsCode,
		Text: "No " + what + " found",
		Icon: navigation.NoItemsIcon,
	}
}
