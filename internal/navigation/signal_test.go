package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPushView_RequiresExactlyOneTarget(t *testing.T) {
	construct := func(ctx map[string]any) View { return nil }

	_, err := NewPushView("", nil, nil)
	assert.Error(t, err, "neither target must fail at construction")

	_, err = NewPushView("pods", construct, nil)
	assert.Error(t, err, "both targets must fail at construction")

	sig, err := NewPushView("pods", nil, map[string]any{"ns": "default"})
	require.NoError(t, err)
	assert.Equal(t, SignalPushView, sig.Kind())
	assert.Equal(t, "pods", sig.ViewKey())
	assert.Nil(t, sig.Constructor())
	assert.Equal(t, "default", sig.Context()["ns"])

	sig, err = NewPushView("", construct, nil)
	require.NoError(t, err)
	assert.Empty(t, sig.ViewKey())
	assert.NotNil(t, sig.Constructor())
}

func TestSignalConstructors(t *testing.T) {
	assert.Equal(t, SignalStay, Stay().Kind())
	assert.Equal(t, SignalToParent, ToParent().Kind())
	assert.Equal(t, SignalReload, Reload().Kind())
	assert.Equal(t, SignalPopView, PopView().Kind())
	assert.Equal(t, SignalExitApplication, Exit().Kind())

	s := StayWithActions("first", "clear-query")
	assert.Equal(t, SignalStay, s.Kind())
	assert.Equal(t, []string{"first", "clear-query"}, s.ExtraActions())

	r := ToParentWithResult(map[string]any{"selected_container_name": "app"})
	assert.Equal(t, SignalToParentWithResult, r.Kind())
	assert.Equal(t, "app", r.Result()["selected_container_name"])
}

func TestSignalZeroValueIsInvalid(t *testing.T) {
	var s Signal
	assert.Equal(t, SignalInvalid, s.Kind())
}
