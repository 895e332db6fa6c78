package tmux

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	gotmux "github.com/GianlucaP106/gotmux/gotmux"

	"kubezen/internal/config"
	"kubezen/pkg/logging"
)

// Manager is the command/UI surface: it shows notifications, launches
// commands in tmux windows and tears the visible UI down on shutdown. All
// imperative commands shell out to the tmux binary; queries go through the
// gotmux client.
type Manager struct {
	socketPath string
	session    string
	mainWindow string
	tempDir    string
}

// NewManager builds a manager for the configured session and verifies the
// tmux server is reachable.
func NewManager(cfg config.Config) (*Manager, error) {
	m := &Manager{
		socketPath: cfg.TmuxSocketPath,
		session:    cfg.SessionName,
		mainWindow: cfg.MainWindowName,
		tempDir:    cfg.TempDir,
	}
	client, err := m.client()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoServer, err)
	}
	_ = client
	return m, nil
}

func (m *Manager) client() (*gotmux.Tmux, error) {
	if m.socketPath != "" {
		return gotmux.NewTmux(m.socketPath)
	}
	return gotmux.DefaultTmux()
}

func (m *Manager) baseArgs() []string {
	if m.socketPath == "" {
		return nil
	}
	return []string{"-S", m.socketPath}
}

func (m *Manager) run(ctx context.Context, args ...string) (string, error) {
	full := append(m.baseArgs(), args...)
	out, err := exec.CommandContext(ctx, "tmux", full...).CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %v", ErrInterrupted, ctx.Err())
		}
		return "", &CommandError{Args: args, Output: strings.TrimSpace(string(out)), Err: err}
	}
	return strings.TrimSpace(string(out)), nil
}

// HasSession reports whether the managed session exists.
func (m *Manager) HasSession() bool {
	client, err := m.client()
	if err != nil {
		return false
	}
	session, err := client.GetSessionByName(m.session)
	return err == nil && session != nil
}

// EnsureSession creates the managed session (detached, running the given
// command in the main window) if it does not already exist.
func (m *Manager) EnsureSession(ctx context.Context, command string) error {
	if m.HasSession() {
		return nil
	}
	_, err := m.run(ctx, "new-session", "-d", "-s", m.session, "-n", m.mainWindow, command)
	return err
}

// ShowNotification displays a transient message to the operator without
// stealing focus from the selector.
func (m *Manager) ShowNotification(ctx context.Context, text, color string, durationSeconds int) error {
	if durationSeconds <= 0 {
		durationSeconds = 3
	}
	if style := notificationStyle(color); style != "" {
		if _, err := m.run(ctx, "set-option", "-t", m.session, "message-style", style); err != nil {
			logging.Debug("Tmux", "could not set message style: %v", err)
		}
	}
	_, err := m.run(ctx,
		"display-message",
		"-t", m.session,
		"-d", fmt.Sprintf("%d", durationSeconds*1000),
		text,
	)
	return err
}

func notificationStyle(color string) string {
	switch color {
	case "red":
		return "bg=red,fg=white"
	case "green":
		return "bg=green,fg=black"
	case "yellow":
		return "bg=yellow,fg=black"
	case "blue":
		return "bg=blue,fg=white"
	default:
		return ""
	}
}

// LaunchCommandInWindow starts command in a new window of the managed
// session and returns the new window's id.
func (m *Manager) LaunchCommandInWindow(ctx context.Context, command, windowName string, attach bool) (string, error) {
	args := []string{"new-window", "-t", m.session, "-n", windowName, "-P", "-F", "#{window_id}"}
	if !attach {
		args = append(args, "-d")
	}
	args = append(args, command)
	id, err := m.run(ctx, args...)
	if err != nil {
		return "", err
	}
	logging.Debug("Tmux", "launched %q in window %s", windowName, id)
	return id, nil
}

// DisplayTextInPager writes text to a temp file and opens it with the pager
// in a new window.
func (m *Manager) DisplayTextInPager(ctx context.Context, text, windowName, pagerCmd string) error {
	if pagerCmd == "" {
		pagerCmd = "less -R"
	}
	if err := os.MkdirAll(m.tempDir, 0o700); err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	f, err := os.CreateTemp(m.tempDir, "pager-*.txt")
	if err != nil {
		return fmt.Errorf("failed to create pager file: %w", err)
	}
	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return fmt.Errorf("failed to write pager file: %w", err)
	}
	f.Close()

	command := fmt.Sprintf("%s %q; rm -f %q", pagerCmd, f.Name(), f.Name())
	_, err = m.LaunchCommandInWindow(ctx, command, windowName, true)
	return err
}

// RunScriptAndWait executes a script in a new window and polls for the
// result file it writes. Returns the file contents once the script is done.
func (m *Manager) RunScriptAndWait(ctx context.Context, scriptPath, resultPath, taskName string, timeout time.Duration) (string, error) {
	windowID, err := m.LaunchCommandInWindow(ctx, scriptPath, taskName, true)
	if err != nil {
		return "", err
	}

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.KillWindow(context.Background(), windowID)
			return "", fmt.Errorf("%w: %v", ErrInterrupted, ctx.Err())
		case <-ticker.C:
		}
		if data, err := os.ReadFile(resultPath); err == nil && len(data) > 0 {
			return string(data), nil
		}
		if !m.windowExists(windowID) {
			// Window closed without writing a result; give the filesystem
			// one last chance before declaring failure.
			if data, err := os.ReadFile(resultPath); err == nil && len(data) > 0 {
				return string(data), nil
			}
			return "", fmt.Errorf("window for %q closed without producing a result", taskName)
		}
		if time.Now().After(deadline) {
			m.KillWindow(context.Background(), windowID)
			return "", fmt.Errorf("timed out waiting for %q", taskName)
		}
	}
}

func (m *Manager) windowExists(windowID string) bool {
	client, err := m.client()
	if err != nil {
		return false
	}
	windows, err := client.ListAllWindows()
	if err != nil {
		return false
	}
	for _, w := range windows {
		if w.Id == windowID {
			return true
		}
	}
	return false
}

// KillWindow closes a window by id. Missing windows are not an error.
func (m *Manager) KillWindow(ctx context.Context, windowID string) error {
	if windowID == "" {
		return nil
	}
	client, err := m.client()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoServer, err)
	}
	windows, err := client.ListAllWindows()
	if err != nil {
		return err
	}
	for _, w := range windows {
		if w.Id == windowID {
			return w.Kill()
		}
	}
	return nil
}

// KillUI tears down the whole visible session. Used for instant feedback on
// interrupt and during shutdown; failures are logged, not returned.
func (m *Manager) KillUI(ctx context.Context) {
	if _, err := m.run(ctx, "kill-session", "-t", m.session); err != nil {
		logging.Debug("Tmux", "kill-session failed: %v", err)
	}
}

// TempFile creates a file under the manager's scratch directory.
func (m *Manager) TempFile(pattern string) (*os.File, error) {
	if err := os.MkdirAll(m.tempDir, 0o700); err != nil {
		return nil, err
	}
	return os.CreateTemp(m.tempDir, pattern)
}

// TempPath returns a path under the scratch directory without creating it.
func (m *Manager) TempPath(name string) string {
	return filepath.Join(m.tempDir, name)
}
