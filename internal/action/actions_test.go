package action

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"kubezen/internal/navigation"
)

func deploymentObject(name, namespace string, replicas int64) *unstructured.Unstructured {
	return &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "apps/v1",
		"kind":       "Deployment",
		"metadata":   map[string]any{"name": name, "namespace": namespace},
		"spec":       map[string]any{"replicas": replicas},
	}}
}

func TestScale_Success(t *testing.T) {
	ui := &fakeUI{}
	kc := &fakeKube{}
	actx := NewContext(testServices(ui, kc, &fakePrompter{values: map[string]string{"replicas": "5"}}),
		"Deployment", "default", "web", deploymentObject("web", "default", 2), nil)

	sig, err := ScaleWorkload{}.Execute(context.Background(), actx)
	require.NoError(t, err)
	assert.Equal(t, navigation.SignalToParent, sig.Kind())
	require.Len(t, kc.scaled, 1)
	assert.Equal(t, "Deployment/default/web=5", kc.scaled[0])
	require.Len(t, ui.notifications, 1)
	assert.Contains(t, ui.notifications[0], "Scaled")
}

func TestScale_CancelledLeavesClusterUntouched(t *testing.T) {
	kc := &fakeKube{}
	actx := NewContext(testServices(&fakeUI{}, kc, &fakePrompter{cancelled: true}),
		"Deployment", "default", "web", deploymentObject("web", "default", 2), nil)

	_, err := ScaleWorkload{}.Execute(context.Background(), actx)
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Empty(t, kc.scaled)
}

func TestDelete_DeclinedIsCancelled(t *testing.T) {
	kc := &fakeKube{}
	actx := NewContext(testServices(&fakeUI{}, kc, &fakePrompter{values: map[string]string{"confirm": "n"}}),
		"Pod", "default", "web", podObject("web", "default", "app"), nil)

	_, err := DeleteResource{}.Execute(context.Background(), actx)
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Empty(t, kc.deleted)
}

func TestDelete_Confirmed(t *testing.T) {
	kc := &fakeKube{}
	actx := NewContext(testServices(&fakeUI{}, kc, &fakePrompter{values: map[string]string{"confirm": "y"}}),
		"Pod", "default", "web", podObject("web", "default", "app"), nil)

	sig, err := DeleteResource{}.Execute(context.Background(), actx)
	require.NoError(t, err)
	assert.Equal(t, navigation.SignalToParent, sig.Kind())
	assert.Equal(t, []string{"Pod/default/web"}, kc.deleted)
}

func TestRollback_PushesHistoryThenResumes(t *testing.T) {
	kc := &fakeKube{}
	actx := NewContext(testServices(&fakeUI{}, kc, &fakePrompter{}),
		"Deployment", "default", "web", deploymentObject("web", "default", 2), nil)
	actx.ActionCode = Rollback{}.Code()

	sig, err := Rollback{}.Execute(context.Background(), actx)
	require.NoError(t, err)
	require.Equal(t, navigation.SignalPushView, sig.Kind())
	assert.Equal(t, RolloutHistoryKey, sig.ViewKey())
	assert.Empty(t, kc.rolledTo)

	// Second pass with the revision answered, as after the child view pops.
	actx.CustomData[SelectedRevisionKey] = int64(3)
	sig, err = Rollback{}.Execute(context.Background(), actx)
	require.NoError(t, err)
	assert.Equal(t, navigation.SignalToParent, sig.Kind())
	assert.Equal(t, []int64{3}, kc.rolledTo)
}

func TestViewLogs_MultiContainerDefersToChooser(t *testing.T) {
	ui := &fakeUI{}
	actx := NewContext(testServices(ui, &fakeKube{}, &fakePrompter{}),
		"Pod", "default", "web", podObject("web", "default", "app", "sidecar"), nil)
	actx.ActionCode = ViewLogs{}.Code()

	sig, err := ViewLogs{}.Execute(context.Background(), actx)
	require.NoError(t, err)
	assert.Equal(t, navigation.SignalPushView, sig.Kind())
	assert.Empty(t, ui.windows, "no window before a container is chosen")
}

func TestViewLogs_SingleContainerOpensWindow(t *testing.T) {
	ui := &fakeUI{}
	actx := NewContext(testServices(ui, &fakeKube{}, &fakePrompter{values: map[string]string{
		"tail": "100", "follow": "n", "since": "",
	}}), "Pod", "default", "web", podObject("web", "default", "app"), nil)

	sig, err := ViewLogs{}.Execute(context.Background(), actx)
	require.NoError(t, err)
	assert.Equal(t, navigation.SignalStay, sig.Kind())
	require.Len(t, ui.windows, 1)
	assert.Contains(t, ui.windows[0], "logs web")
	assert.Contains(t, ui.windows[0], "-c app")
	assert.Contains(t, ui.windows[0], "--tail=100")
}

func cronJobObject(name, namespace string, suspended bool) *unstructured.Unstructured {
	return &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "batch/v1",
		"kind":       "CronJob",
		"metadata":   map[string]any{"name": name, "namespace": namespace},
		"spec": map[string]any{
			"schedule": "0 * * * *",
			"suspend":  suspended,
		},
	}}
}

func nodeObject(name string, unschedulable bool) *unstructured.Unstructured {
	obj := &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "v1",
		"kind":       "Node",
		"metadata":   map[string]any{"name": name},
		"spec":       map[string]any{},
	}}
	if unschedulable {
		obj.Object["spec"] = map[string]any{"unschedulable": true}
	}
	return obj
}

func TestTriggerCronJob_CreatesJobWithPromptedName(t *testing.T) {
	ui := &fakeUI{}
	kc := &fakeKube{}
	actx := NewContext(testServices(ui, kc, &fakePrompter{values: map[string]string{"job_name": "nightly-manual"}}),
		"CronJob", "default", "nightly", cronJobObject("nightly", "default", false), nil)

	sig, err := TriggerCronJob{}.Execute(context.Background(), actx)
	require.NoError(t, err)
	assert.Equal(t, navigation.SignalToParent, sig.Kind())
	assert.Equal(t, []string{"default/nightly->nightly-manual"}, kc.triggered)
	require.Len(t, ui.notifications, 1)
	assert.Contains(t, ui.notifications[0], "nightly-manual")
}

func TestTriggerCronJob_CancelledLeavesClusterUntouched(t *testing.T) {
	kc := &fakeKube{}
	actx := NewContext(testServices(&fakeUI{}, kc, &fakePrompter{cancelled: true}),
		"CronJob", "default", "nightly", cronJobObject("nightly", "default", false), nil)

	_, err := TriggerCronJob{}.Execute(context.Background(), actx)
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Empty(t, kc.triggered)
}

func TestSuspendResumeCronJob_ApplicabilityFollowsState(t *testing.T) {
	services := testServices(&fakeUI{}, &fakeKube{}, &fakePrompter{})
	running := NewContext(services, "CronJob", "default", "nightly", cronJobObject("nightly", "default", false), nil)
	suspended := NewContext(services, "CronJob", "default", "nightly", cronJobObject("nightly", "default", true), nil)

	assert.True(t, SuspendCronJob{}.Applicable(running))
	assert.False(t, SuspendCronJob{}.Applicable(suspended))
	assert.False(t, ResumeCronJob{}.Applicable(running))
	assert.True(t, ResumeCronJob{}.Applicable(suspended))
}

func TestSuspendResumeCronJob_PatchSuspendFlag(t *testing.T) {
	kc := &fakeKube{}
	services := testServices(&fakeUI{}, kc, &fakePrompter{})

	actx := NewContext(services, "CronJob", "default", "nightly", cronJobObject("nightly", "default", false), nil)
	sig, err := SuspendCronJob{}.Execute(context.Background(), actx)
	require.NoError(t, err)
	assert.Equal(t, navigation.SignalToParent, sig.Kind())

	actx = NewContext(services, "CronJob", "default", "nightly", cronJobObject("nightly", "default", true), nil)
	_, err = ResumeCronJob{}.Execute(context.Background(), actx)
	require.NoError(t, err)

	assert.Equal(t, []string{"default/nightly=true", "default/nightly=false"}, kc.suspended)
}

func TestCordonUncordonNode_ApplicabilityAndPatch(t *testing.T) {
	kc := &fakeKube{}
	services := testServices(&fakeUI{}, kc, &fakePrompter{})
	schedulable := NewContext(services, "Node", "", "worker-1", nodeObject("worker-1", false), nil)
	cordoned := NewContext(services, "Node", "", "worker-1", nodeObject("worker-1", true), nil)

	assert.True(t, CordonNode{}.Applicable(schedulable))
	assert.False(t, CordonNode{}.Applicable(cordoned))
	assert.False(t, UncordonNode{}.Applicable(schedulable))
	assert.True(t, UncordonNode{}.Applicable(cordoned))

	sig, err := CordonNode{}.Execute(context.Background(), schedulable)
	require.NoError(t, err)
	assert.Equal(t, navigation.SignalToParent, sig.Kind())

	_, err = UncordonNode{}.Execute(context.Background(), cordoned)
	require.NoError(t, err)

	assert.Equal(t, []string{"worker-1=true", "worker-1=false"}, kc.cordoned)
}

func TestDrainNode_DeclinedIsCancelled(t *testing.T) {
	ui := &fakeUI{}
	actx := NewContext(testServices(ui, &fakeKube{}, &fakePrompter{values: map[string]string{"confirm": "n"}}),
		"Node", "", "worker-1", nodeObject("worker-1", false), nil)

	_, err := DrainNode{}.Execute(context.Background(), actx)
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Empty(t, ui.windows)
}

func TestDrainNode_ConfirmedOpensKubectlWindow(t *testing.T) {
	ui := &fakeUI{}
	actx := NewContext(testServices(ui, &fakeKube{}, &fakePrompter{values: map[string]string{"confirm": "y"}}),
		"Node", "", "worker-1", nodeObject("worker-1", false), nil)

	sig, err := DrainNode{}.Execute(context.Background(), actx)
	require.NoError(t, err)
	assert.Equal(t, navigation.SignalStay, sig.Kind())
	require.Len(t, ui.windows, 1)
	assert.Contains(t, ui.windows[0], "drain worker-1")
	assert.Contains(t, ui.windows[0], "--ignore-daemonsets")
}

func TestRegistry_FiltersByKindAndApplicability(t *testing.T) {
	r := DefaultRegistry()

	pod := NewContext(testServices(&fakeUI{}, &fakeKube{}, &fakePrompter{}),
		"Pod", "default", "web", podObject("web", "default", "app"), nil)
	podCodes := codesOf(r.For(pod))
	assert.Contains(t, podCodes, "view_logs")
	assert.Contains(t, podCodes, "exec_shell")
	assert.NotContains(t, podCodes, "scale")

	deploy := NewContext(testServices(&fakeUI{}, &fakeKube{}, &fakePrompter{}),
		"Deployment", "default", "web", deploymentObject("web", "default", 1), nil)
	deployCodes := codesOf(r.For(deploy))
	assert.Contains(t, deployCodes, "scale")
	assert.Contains(t, deployCodes, "rollback")
	assert.NotContains(t, deployCodes, "view_logs")

	cron := NewContext(testServices(&fakeUI{}, &fakeKube{}, &fakePrompter{}),
		"CronJob", "default", "nightly", cronJobObject("nightly", "default", false), nil)
	cronCodes := codesOf(r.For(cron))
	assert.Contains(t, cronCodes, "trigger_cronjob")
	assert.Contains(t, cronCodes, "suspend_cronjob")
	assert.NotContains(t, cronCodes, "resume_cronjob", "resume only offered while suspended")

	node := NewContext(testServices(&fakeUI{}, &fakeKube{}, &fakePrompter{}),
		"Node", "", "worker-1", nodeObject("worker-1", false), nil)
	nodeCodes := codesOf(r.For(node))
	assert.Contains(t, nodeCodes, "cordon_node")
	assert.Contains(t, nodeCodes, "drain_node")
	assert.NotContains(t, nodeCodes, "uncordon_node", "uncordon only offered while cordoned")
	assert.NotContains(t, nodeCodes, "delete")
}

func TestRegistry_ByCode(t *testing.T) {
	r := DefaultRegistry()
	a, ok := r.ByCode("rollback")
	require.True(t, ok)
	assert.Equal(t, "Rollback", a.Name())

	_, ok = r.ByCode("nope")
	assert.False(t, ok)
}

func codesOf(actions []Action) []string {
	codes := make([]string, 0, len(actions))
	for _, a := range actions {
		codes = append(codes, a.Code())
	}
	return codes
}
