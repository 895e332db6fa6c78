package input

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"kubezen/pkg/logging"
)

// ErrPromptFailed indicates the prompting mechanism itself broke, as opposed
// to the operator declining to answer.
var ErrPromptFailed = errors.New("input prompt failed")

// Validator checks a single input value and returns an error describing why
// it is unacceptable.
type Validator func(value string) error

// Spec describes one piece of input to request from the operator.
type Spec struct {
	Key      string
	Prompt   string
	Default  string
	Validate Validator
}

// Result is the outcome of a prompt round. Cancellation is part of the
// return contract, not an error: callers branch on Cancelled explicitly.
type Result struct {
	Values    map[string]string
	Cancelled bool
}

// cancelSentinel is written by the prompt script's INT trap so a deliberate
// abort is distinguishable from a broken mechanism.
const cancelSentinel = "__KUBEZEN_CANCELLED__"

// Runner executes a prompt script somewhere the operator can see it and
// returns the result file contents. Implemented by the tmux manager.
type Runner interface {
	RunScriptAndWait(ctx context.Context, scriptPath, resultPath, taskName string, timeout time.Duration) (string, error)
	ShowNotification(ctx context.Context, text, color string, durationSeconds int) error
	TempFile(pattern string) (*os.File, error)
}

// Prompter collects validated text inputs through a terminal window.
type Prompter struct {
	runner  Runner
	timeout time.Duration
}

// NewPrompter creates a prompter over the given runner.
func NewPrompter(runner Runner) *Prompter {
	return &Prompter{runner: runner, timeout: 10 * time.Minute}
}

// Collect requests every spec'd input in one prompt window. A validator
// failure notifies the operator and restarts the whole round; an operator
// abort yields Result{Cancelled: true}. Only mechanism breakage returns an
// error (wrapping ErrPromptFailed).
func (p *Prompter) Collect(ctx context.Context, specs []Spec, taskName string) (Result, error) {
	if len(specs) == 0 {
		return Result{Values: map[string]string{}}, nil
	}

	for {
		values, cancelled, err := p.collectOnce(ctx, specs, taskName)
		if err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrPromptFailed, err)
		}
		if cancelled {
			logging.Info("Input", "operator cancelled %q", taskName)
			return Result{Cancelled: true}, nil
		}

		if bad := validate(specs, values); bad != nil {
			p.runner.ShowNotification(ctx, fmt.Sprintf("Invalid input: %v", bad), "yellow", 5)
			continue
		}
		return Result{Values: values}, nil
	}
}

// CollectOne is a convenience for a single prompt.
func (p *Prompter) CollectOne(ctx context.Context, spec Spec, taskName string) (string, bool, error) {
	res, err := p.Collect(ctx, []Spec{spec}, taskName)
	if err != nil {
		return "", false, err
	}
	if res.Cancelled {
		return "", true, nil
	}
	return res.Values[spec.Key], false, nil
}

func validate(specs []Spec, values map[string]string) error {
	for _, spec := range specs {
		if spec.Validate == nil {
			continue
		}
		if err := spec.Validate(values[spec.Key]); err != nil {
			return fmt.Errorf("%s: %w", spec.Key, err)
		}
	}
	return nil
}

func (p *Prompter) collectOnce(ctx context.Context, specs []Spec, taskName string) (map[string]string, bool, error) {
	resultFile, err := p.runner.TempFile("input-result-*.txt")
	if err != nil {
		return nil, false, err
	}
	resultPath := resultFile.Name()
	resultFile.Close()
	os.Remove(resultPath)
	defer os.Remove(resultPath)

	scriptFile, err := p.runner.TempFile("input-script-*.sh")
	if err != nil {
		return nil, false, err
	}
	scriptPath := scriptFile.Name()
	if _, err := scriptFile.WriteString(buildScript(specs, resultPath)); err != nil {
		scriptFile.Close()
		return nil, false, err
	}
	scriptFile.Close()
	if err := os.Chmod(scriptPath, 0o700); err != nil {
		return nil, false, err
	}
	defer os.Remove(scriptPath)

	raw, err := p.runner.RunScriptAndWait(ctx, scriptPath, resultPath, taskName, p.timeout)
	if err != nil {
		return nil, false, err
	}
	return parseResult(raw)
}

// buildScript renders a bash script that reads each value interactively and
// writes key<TAB>value lines to the result file. Ctrl+C writes the cancel
// sentinel instead.
func buildScript(specs []Spec, resultPath string) string {
	var b strings.Builder
	b.WriteString("#!/bin/bash\n")
	fmt.Fprintf(&b, "trap 'printf %q > %q; exit 130' INT\n", cancelSentinel+"\n", resultPath)
	b.WriteString("exec < /dev/tty\n")
	b.WriteString("OUT=\"\"\n")
	for _, spec := range specs {
		prompt := strings.ReplaceAll(spec.Prompt, "'", "'\\''")
		fmt.Fprintf(&b, "read -r -e -p '%s' VALUE\n", prompt)
		fmt.Fprintf(&b, "if [ -z \"$VALUE\" ]; then VALUE=%q; fi\n", spec.Default)
		fmt.Fprintf(&b, "OUT=\"${OUT}%s\t${VALUE}\n\"\n", spec.Key)
	}
	fmt.Fprintf(&b, "printf '%%s' \"$OUT\" > %q\n", resultPath)
	return b.String()
}

func parseResult(raw string) (map[string]string, bool, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == cancelSentinel {
		return nil, true, nil
	}
	values := make(map[string]string)
	for _, line := range strings.Split(trimmed, "\n") {
		if line == "" {
			continue
		}
		key, value, found := strings.Cut(line, "\t")
		if !found {
			return nil, false, fmt.Errorf("malformed result line %q", line)
		}
		values[key] = value
	}
	return values, false, nil
}
