package input

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner scripts the result of each prompt round.
type fakeRunner struct {
	results       []string
	runErr        error
	calls         int
	notifications []string
	tempDir       string
}

func (f *fakeRunner) RunScriptAndWait(ctx context.Context, scriptPath, resultPath, taskName string, timeout time.Duration) (string, error) {
	if f.runErr != nil {
		return "", f.runErr
	}
	idx := f.calls
	f.calls++
	if idx >= len(f.results) {
		idx = len(f.results) - 1
	}
	return f.results[idx], nil
}

func (f *fakeRunner) ShowNotification(ctx context.Context, text, color string, durationSeconds int) error {
	f.notifications = append(f.notifications, text)
	return nil
}

func (f *fakeRunner) TempFile(pattern string) (*os.File, error) {
	return os.CreateTemp(f.tempDir, pattern)
}

func newFakeRunner(t *testing.T, results ...string) *fakeRunner {
	t.Helper()
	return &fakeRunner{results: results, tempDir: t.TempDir()}
}

func TestPrompter_CollectReturnsValues(t *testing.T) {
	runner := newFakeRunner(t, "replicas\t3\nfollow\ty\n")
	p := NewPrompter(runner)

	res, err := p.Collect(context.Background(), []Spec{
		{Key: "replicas", Prompt: "Replicas: ", Validate: NonNegativeInt},
		{Key: "follow", Prompt: "Follow: ", Validate: YesNo},
	}, "test")
	require.NoError(t, err)
	assert.False(t, res.Cancelled)
	assert.Equal(t, "3", res.Values["replicas"])
	assert.Equal(t, "y", res.Values["follow"])
	assert.Empty(t, runner.notifications)
}

func TestPrompter_CollectCancelled(t *testing.T) {
	runner := newFakeRunner(t, cancelSentinel+"\n")
	p := NewPrompter(runner)

	res, err := p.Collect(context.Background(), []Spec{{Key: "x", Prompt: "X: "}}, "test")
	require.NoError(t, err)
	assert.True(t, res.Cancelled)
	assert.Nil(t, res.Values)
}

func TestPrompter_ValidationFailureRepromptsWithNotification(t *testing.T) {
	runner := newFakeRunner(t, "replicas\tnope\n", "replicas\t5\n")
	p := NewPrompter(runner)

	res, err := p.Collect(context.Background(), []Spec{
		{Key: "replicas", Prompt: "Replicas: ", Validate: NonNegativeInt},
	}, "test")
	require.NoError(t, err)
	assert.False(t, res.Cancelled)
	assert.Equal(t, "5", res.Values["replicas"])
	assert.Equal(t, 2, runner.calls)
	require.Len(t, runner.notifications, 1)
	assert.Contains(t, runner.notifications[0], "Invalid input")
}

func TestPrompter_MechanismFailure(t *testing.T) {
	runner := newFakeRunner(t)
	runner.runErr = errors.New("window closed unexpectedly")
	p := NewPrompter(runner)

	_, err := p.Collect(context.Background(), []Spec{{Key: "x", Prompt: "X: "}}, "test")
	assert.ErrorIs(t, err, ErrPromptFailed)
}

func TestValidators(t *testing.T) {
	assert.NoError(t, NonNegativeInt("0"))
	assert.Error(t, NonNegativeInt("-1"))
	assert.Error(t, NonNegativeInt("abc"))

	assert.NoError(t, PositiveInt("2"))
	assert.Error(t, PositiveInt("0"))

	assert.NoError(t, YesNo("Y"))
	assert.Error(t, YesNo("maybe"))

	assert.NoError(t, Duration(""))
	assert.NoError(t, Duration("10s"))
	assert.Error(t, Duration("10days"))

	assert.NoError(t, Port("8080"))
	assert.Error(t, Port("70000"))
}
