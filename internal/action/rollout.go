package action

import (
	"context"
	"fmt"

	"kubezen/internal/navigation"
)

var restartableKinds = map[string]bool{
	"Deployment":  true,
	"StatefulSet": true,
	"DaemonSet":   true,
}

// RestartRollout triggers a rolling restart of a workload.
type RestartRollout struct{}

func (RestartRollout) Name() string     { return "Restart rollout" }
func (RestartRollout) Code() string     { return "restart_rollout" }
func (RestartRollout) Shortcut() string { return "r" }
func (RestartRollout) Icon() string     { return "🔄" }

func (RestartRollout) Applicable(actx *Context) bool { return restartableKinds[actx.ResourceKind] }

func (a RestartRollout) Execute(ctx context.Context, actx *Context) (navigation.Signal, error) {
	if err := actx.Services.Kube.RestartRollout(ctx, actx.ResourceKind, actx.Namespace, actx.ResourceName); err != nil {
		return navigation.Signal{}, Failedf("restart failed: %v", err)
	}
	actx.Notify(ctx, fmt.Sprintf("Restarted rollout of %s", actx.Subject()), "green")
	return navigation.ToParent(), nil
}

// Context keys of the rollback sub-protocol, mirroring container selection:
// the history view answers with SelectedRevisionKey and the action resumes.
const (
	SelectedRevisionKey = "selected_revision"
	RolloutHistoryKey   = "rollout_history"
)

// Rollback rolls a Deployment back to a revision picked from its history.
type Rollback struct{}

func (Rollback) Name() string     { return "Rollback" }
func (Rollback) Code() string     { return "rollback" }
func (Rollback) Shortcut() string { return "R" }
func (Rollback) Icon() string     { return "⏪" }

func (Rollback) Applicable(actx *Context) bool { return actx.ResourceKind == "Deployment" }

func (a Rollback) Execute(ctx context.Context, actx *Context) (navigation.Signal, error) {
	revision, picked := actx.CustomData[SelectedRevisionKey].(int64)
	if !picked {
		// Float sneaks in when the snapshot round-tripped through generic maps.
		if f, ok := actx.CustomData[SelectedRevisionKey].(float64); ok {
			revision, picked = int64(f), true
		}
	}
	if !picked {
		push := navigation.PushByKey(RolloutHistoryKey, map[string]any{
			OriginalContextKey: actx.ToMap(),
			ActionToResumeKey:  actx.ActionCode,
			"namespace":        actx.Namespace,
			"deployment":       actx.ResourceName,
		})
		return push, nil
	}

	if err := actx.Services.Kube.Rollback(ctx, actx.Namespace, actx.ResourceName, revision); err != nil {
		return navigation.Signal{}, Failedf("rollback failed: %v", err)
	}
	actx.Notify(ctx, fmt.Sprintf("Rolled %s back to revision %d", actx.Subject(), revision), "green")
	return navigation.ToParent(), nil
}
