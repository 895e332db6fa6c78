package views

import (
	"context"
	"fmt"
	"strconv"

	"kubezen/internal/action"
	"kubezen/internal/navigation"
)

// RolloutHistoryView lists a Deployment's revisions so the operator can pick
// a rollback target. Like the container chooser, it answers its parent with
// the pick plus the resume payload.
type RolloutHistoryView struct {
	navigation.Base
	deps Deps
}

// NewRolloutHistoryView constructs the history view.
func NewRolloutHistoryView(deps Deps, viewContext map[string]any) *RolloutHistoryView {
	return &RolloutHistoryView{Base: navigation.NewBase(viewContext), deps: deps}
}

func (v *RolloutHistoryView) DisplayConfig(ctx context.Context) ([]navigation.Item, navigation.Options, error) {
	deployment := v.ContextString("deployment")
	opts := navigation.Options{
		Prompt: "Revision> ",
		Header: fmt.Sprintf("Rollout history of %s", deployment),
	}

	revisions, err := v.deps.History.RolloutHistory(ctx, v.ContextString("namespace"), deployment)
	if err != nil {
		return []navigation.Item{errorItem(err)}, opts, nil
	}
	if len(revisions) == 0 {
		return []navigation.Item{noItemsItem("revisions")}, opts, nil
	}

	items := make([]navigation.Item, 0, len(revisions))
	for _, rev := range revisions {
		cause := rev.ChangeCause
		if cause == "" {
			cause = "<none>"
		}
		items = append(items, navigation.Item{
			Code: strconv.FormatInt(rev.Number, 10),
			Text: fmt.Sprintf("rev %-4d %8s  %s", rev.Number, action.Age(rev.CreatedAt), cause),
			Icon: "🕘",
		})
	}
	return items, opts, nil
}

func (v *RolloutHistoryView) ProcessSelection(ctx context.Context, code, text string, selection map[string]any) (navigation.Signal, error) {
	if sig, handled := standardSignal(code); handled {
		return sig, nil
	}
	revision, err := strconv.ParseInt(code, 10, 64)
	if err != nil {
		return navigation.Signal{}, fmt.Errorf("selected malformed revision %q", code)
	}
	return navigation.ToParentWithResult(map[string]any{
		action.SelectedRevisionKey: revision,
		action.OriginalContextKey:  v.Context()[action.OriginalContextKey],
		action.ActionToResumeKey:   v.Context()[action.ActionToResumeKey],
	}), nil
}
