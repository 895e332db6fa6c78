package views

import (
	"context"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"kubezen/internal/action"
	"kubezen/internal/config"
	"kubezen/internal/input"
	"kubezen/internal/kube"
)

// fakeCluster serves canned objects per kind and records mutations.
type fakeCluster struct {
	objects   map[string][]unstructured.Unstructured
	listErr   error
	revisions []kube.Revision
	rolledTo  []int64
	deleted   []string
}

func (f *fakeCluster) List(ctx context.Context, kind, namespace string) ([]unstructured.Unstructured, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []unstructured.Unstructured
	for _, obj := range f.objects[kind] {
		if namespace == "" || obj.GetNamespace() == namespace {
			out = append(out, obj)
		}
	}
	return out, nil
}

func (f *fakeCluster) Get(ctx context.Context, kind, namespace, name string) (*unstructured.Unstructured, error) {
	for _, obj := range f.objects[kind] {
		if obj.GetName() == name {
			return &obj, nil
		}
	}
	return nil, f.listErr
}

func (f *fakeCluster) Delete(ctx context.Context, kind, namespace, name string) error {
	f.deleted = append(f.deleted, name)
	return nil
}

func (f *fakeCluster) Scale(ctx context.Context, kind, namespace, name string, replicas int32) error {
	return nil
}

func (f *fakeCluster) RestartRollout(ctx context.Context, kind, namespace, name string) error {
	return nil
}

func (f *fakeCluster) Rollback(ctx context.Context, namespace, deployment string, revision int64) error {
	f.rolledTo = append(f.rolledTo, revision)
	return nil
}

func (f *fakeCluster) RolloutHistory(ctx context.Context, namespace, deployment string) ([]kube.Revision, error) {
	return f.revisions, f.listErr
}

func (f *fakeCluster) TriggerCronJob(ctx context.Context, namespace, name, jobName string) error {
	return nil
}

func (f *fakeCluster) SetCronJobSuspend(ctx context.Context, namespace, name string, suspend bool) error {
	return nil
}

func (f *fakeCluster) SetNodeUnschedulable(ctx context.Context, name string, unschedulable bool) error {
	return nil
}

type fakeUI struct {
	notifications []string
	windows       []string
	pagerTexts    []string
}

func (f *fakeUI) ShowNotification(ctx context.Context, text, color string, durationSeconds int) error {
	f.notifications = append(f.notifications, text)
	return nil
}

func (f *fakeUI) LaunchCommandInWindow(ctx context.Context, command, windowName string, attach bool) (string, error) {
	f.windows = append(f.windows, command)
	return "@1", nil
}

func (f *fakeUI) DisplayTextInPager(ctx context.Context, text, windowName, pagerCmd string) error {
	f.pagerTexts = append(f.pagerTexts, text)
	return nil
}

type fakePrompter struct {
	values    map[string]string
	cancelled bool
}

func (f *fakePrompter) Collect(ctx context.Context, specs []input.Spec, taskName string) (input.Result, error) {
	if f.cancelled {
		return input.Result{Cancelled: true}, nil
	}
	values := make(map[string]string, len(specs))
	for _, spec := range specs {
		if v, ok := f.values[spec.Key]; ok {
			values[spec.Key] = v
		} else {
			values[spec.Key] = spec.Default
		}
	}
	return input.Result{Values: values}, nil
}

func (f *fakePrompter) CollectOne(ctx context.Context, spec input.Spec, taskName string) (string, bool, error) {
	res, err := f.Collect(ctx, []input.Spec{spec}, taskName)
	if err != nil || res.Cancelled {
		return "", res.Cancelled, err
	}
	return res.Values[spec.Key], false, nil
}

func testDeps(cluster *fakeCluster, ui *fakeUI, prompter *fakePrompter) Deps {
	cfg := config.DefaultConfig()
	services := action.Services{Config: cfg, UI: ui, Kube: cluster, Prompter: prompter}
	return Deps{
		Config:   cfg,
		Kube:     cluster,
		History:  cluster,
		Actions:  action.DefaultRegistry(),
		Services: services,
	}
}

func objectsByKind(kind string, objs ...unstructured.Unstructured) map[string][]unstructured.Unstructured {
	return map[string][]unstructured.Unstructured{kind: objs}
}

func namespaceObject(name string) unstructured.Unstructured {
	return unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "v1",
		"kind":       "Namespace",
		"metadata":   map[string]any{"name": name},
	}}
}

func podObject(name, namespace string, containers ...string) unstructured.Unstructured {
	specContainers := make([]any, 0, len(containers))
	for _, c := range containers {
		specContainers = append(specContainers, map[string]any{"name": c, "image": "busybox"})
	}
	return unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "v1",
		"kind":       "Pod",
		"metadata":   map[string]any{"name": name, "namespace": namespace},
		"spec":       map[string]any{"containers": specContainers},
		"status":     map[string]any{"phase": "Running"},
	}}
}
