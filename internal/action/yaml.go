package action

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"kubezen/internal/navigation"
)

// ViewYAML renders the live object as YAML in a pager window.
type ViewYAML struct{}

func (ViewYAML) Name() string     { return "View YAML" }
func (ViewYAML) Code() string     { return "view_yaml" }
func (ViewYAML) Shortcut() string { return "y" }
func (ViewYAML) Icon() string     { return "📄" }

func (ViewYAML) Applicable(*Context) bool { return true }

func (a ViewYAML) Execute(ctx context.Context, actx *Context) (navigation.Signal, error) {
	obj, err := actx.Services.Kube.Get(ctx, actx.ResourceKind, actx.Namespace, actx.ResourceName)
	if err != nil {
		return navigation.Signal{}, Failedf("could not fetch %s: %v", actx.Subject(), err)
	}

	// managedFields are noise at pager width.
	clean := obj.DeepCopy()
	unstructured.RemoveNestedField(clean.Object, "metadata", "managedFields")

	data, err := yaml.Marshal(clean.Object)
	if err != nil {
		return navigation.Signal{}, Failedf("could not render YAML: %v", err)
	}

	windowName := fmt.Sprintf("yaml:%s", actx.ResourceName)
	if err := actx.Services.UI.DisplayTextInPager(ctx, string(data), windowName, actx.Services.Config.Pager); err != nil {
		return navigation.Signal{}, Failedf("could not open pager: %v", err)
	}
	return navigation.Stay(), nil
}
