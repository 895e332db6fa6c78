package action

import (
	"context"
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"kubezen/internal/config"
	"kubezen/internal/input"
	"kubezen/internal/kube"
)

type fakeUI struct {
	notifications []string
	windows       []string
	pagerTexts    []string
	launchErr     error
}

func (f *fakeUI) ShowNotification(ctx context.Context, text, color string, durationSeconds int) error {
	f.notifications = append(f.notifications, text)
	return nil
}

func (f *fakeUI) LaunchCommandInWindow(ctx context.Context, command, windowName string, attach bool) (string, error) {
	if f.launchErr != nil {
		return "", f.launchErr
	}
	f.windows = append(f.windows, command)
	return "@1", nil
}

func (f *fakeUI) DisplayTextInPager(ctx context.Context, text, windowName, pagerCmd string) error {
	f.pagerTexts = append(f.pagerTexts, text)
	return nil
}

type fakeKube struct {
	scaled    []string
	deleted   []string
	restarted []string
	rolledTo  []int64
	triggered []string
	suspended []string
	cordoned  []string
	getObj    *unstructured.Unstructured
	err       error
}

func (f *fakeKube) List(ctx context.Context, kind, namespace string) ([]unstructured.Unstructured, error) {
	return nil, f.err
}

func (f *fakeKube) Get(ctx context.Context, kind, namespace, name string) (*unstructured.Unstructured, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.getObj, nil
}

func (f *fakeKube) Delete(ctx context.Context, kind, namespace, name string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, fmt.Sprintf("%s/%s/%s", kind, namespace, name))
	return nil
}

func (f *fakeKube) Scale(ctx context.Context, kind, namespace, name string, replicas int32) error {
	if f.err != nil {
		return f.err
	}
	f.scaled = append(f.scaled, fmt.Sprintf("%s/%s/%s=%d", kind, namespace, name, replicas))
	return nil
}

func (f *fakeKube) RestartRollout(ctx context.Context, kind, namespace, name string) error {
	if f.err != nil {
		return f.err
	}
	f.restarted = append(f.restarted, name)
	return nil
}

func (f *fakeKube) Rollback(ctx context.Context, namespace, deployment string, revision int64) error {
	if f.err != nil {
		return f.err
	}
	f.rolledTo = append(f.rolledTo, revision)
	return nil
}

func (f *fakeKube) RolloutHistory(ctx context.Context, namespace, deployment string) ([]kube.Revision, error) {
	return nil, f.err
}

func (f *fakeKube) TriggerCronJob(ctx context.Context, namespace, name, jobName string) error {
	if f.err != nil {
		return f.err
	}
	f.triggered = append(f.triggered, fmt.Sprintf("%s/%s->%s", namespace, name, jobName))
	return nil
}

func (f *fakeKube) SetCronJobSuspend(ctx context.Context, namespace, name string, suspend bool) error {
	if f.err != nil {
		return f.err
	}
	f.suspended = append(f.suspended, fmt.Sprintf("%s/%s=%t", namespace, name, suspend))
	return nil
}

func (f *fakeKube) SetNodeUnschedulable(ctx context.Context, name string, unschedulable bool) error {
	if f.err != nil {
		return f.err
	}
	f.cordoned = append(f.cordoned, fmt.Sprintf("%s=%t", name, unschedulable))
	return nil
}

// fakePrompter answers every key from its canned values, or cancels.
type fakePrompter struct {
	values    map[string]string
	cancelled bool
	err       error
}

func (f *fakePrompter) Collect(ctx context.Context, specs []input.Spec, taskName string) (input.Result, error) {
	if f.err != nil {
		return input.Result{}, f.err
	}
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
	if err != nil {
		return "", false, err
	}
	if res.Cancelled {
		return "", true, nil
	}
	return res.Values[spec.Key], false, nil
}

func testServices(ui *fakeUI, kc *fakeKube, p *fakePrompter) Services {
	return Services{
		Config:   config.DefaultConfig(),
		UI:       ui,
		Kube:     kc,
		Prompter: p,
	}
}

func podObject(name, namespace string, containers ...string) *unstructured.Unstructured {
	specContainers := make([]any, 0, len(containers))
	for _, c := range containers {
		specContainers = append(specContainers, map[string]any{"name": c, "image": "busybox"})
	}
	return &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "v1",
		"kind":       "Pod",
		"metadata": map[string]any{
			"name":      name,
			"namespace": namespace,
		},
		"spec": map[string]any{
			"containers": specContainers,
		},
	}}
}
