package action

import (
	"context"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"kubezen/internal/input"
	"kubezen/internal/navigation"
)

// TriggerCronJob runs a CronJob now by creating a Job from its template.
type TriggerCronJob struct{}

func (TriggerCronJob) Name() string     { return "Trigger" }
func (TriggerCronJob) Code() string     { return "trigger_cronjob" }
func (TriggerCronJob) Shortcut() string { return "t" }
func (TriggerCronJob) Icon() string     { return "⚡" }

func (TriggerCronJob) Applicable(actx *Context) bool { return actx.ResourceKind == "CronJob" }

func (a TriggerCronJob) Execute(ctx context.Context, actx *Context) (navigation.Signal, error) {
	defaultName := fmt.Sprintf("%s-%d", actx.ResourceName, time.Now().Unix())
	jobName, cancelled, err := actx.Services.Prompter.CollectOne(ctx, input.Spec{
		Key:     "job_name",
		Prompt:  fmt.Sprintf("Name for the new Job [%s]: ", defaultName),
		Default: defaultName,
	}, "trigger")
	if err != nil {
		return navigation.Signal{}, Failedf("could not collect job name: %v", err)
	}
	if cancelled {
		return navigation.Signal{}, ErrCancelled
	}
	if jobName == "" {
		jobName = defaultName
	}

	if err := actx.Services.Kube.TriggerCronJob(ctx, actx.Namespace, actx.ResourceName, jobName); err != nil {
		return navigation.Signal{}, Failedf("trigger failed: %v", err)
	}
	actx.Notify(ctx, fmt.Sprintf("Triggered Job %s from %s", jobName, actx.Subject()), "green")
	return navigation.ToParent(), nil
}

// SuspendCronJob stops future scheduling; jobs already running are untouched.
type SuspendCronJob struct{}

func (SuspendCronJob) Name() string     { return "Suspend" }
func (SuspendCronJob) Code() string     { return "suspend_cronjob" }
func (SuspendCronJob) Shortcut() string { return "s" }
func (SuspendCronJob) Icon() string     { return "⏸️" }

func (SuspendCronJob) Applicable(actx *Context) bool {
	return actx.ResourceKind == "CronJob" && !cronJobSuspended(actx.Resource)
}

func (a SuspendCronJob) Execute(ctx context.Context, actx *Context) (navigation.Signal, error) {
	if err := actx.Services.Kube.SetCronJobSuspend(ctx, actx.Namespace, actx.ResourceName, true); err != nil {
		return navigation.Signal{}, Failedf("suspend failed: %v", err)
	}
	actx.Notify(ctx, fmt.Sprintf("Suspended %s", actx.Subject()), "green")
	return navigation.ToParent(), nil
}

// ResumeCronJob re-enables scheduling of a suspended CronJob.
type ResumeCronJob struct{}

func (ResumeCronJob) Name() string     { return "Resume" }
func (ResumeCronJob) Code() string     { return "resume_cronjob" }
func (ResumeCronJob) Shortcut() string { return "r" }
func (ResumeCronJob) Icon() string     { return "▶️" }

func (ResumeCronJob) Applicable(actx *Context) bool {
	return actx.ResourceKind == "CronJob" && cronJobSuspended(actx.Resource)
}

func (a ResumeCronJob) Execute(ctx context.Context, actx *Context) (navigation.Signal, error) {
	if err := actx.Services.Kube.SetCronJobSuspend(ctx, actx.Namespace, actx.ResourceName, false); err != nil {
		return navigation.Signal{}, Failedf("resume failed: %v", err)
	}
	actx.Notify(ctx, fmt.Sprintf("Resumed %s", actx.Subject()), "green")
	return navigation.ToParent(), nil
}

func cronJobSuspended(obj *unstructured.Unstructured) bool {
	if obj == nil {
		return false
	}
	suspended, _, _ := unstructured.NestedBool(obj.Object, "spec", "suspend")
	return suspended
}
