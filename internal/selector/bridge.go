package selector

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"kubezen/internal/config"
	"kubezen/internal/event"
	"kubezen/pkg/logging"
)

// Bridge connects the fzf process to the event bus. Outbound, it POSTs action
// strings to fzf's listen API; inbound, it runs a local HTTP server that
// fzf's key bindings call back into, translating each callback to a bus
// event.
type Bridge struct {
	cfg config.Config
	bus *event.Bus
	ui  SessionHost

	fzfAddr    string
	listener   net.Listener
	server     *http.Server
	httpClient *http.Client
	itemFile   string
}

// SessionHost is the slice of the tmux manager the bridge needs to host fzf.
type SessionHost interface {
	EnsureSession(ctx context.Context, command string) error
	TempPath(name string) string
}

// NewBridge creates an unstarted bridge.
func NewBridge(cfg config.Config, bus *event.Bus, ui SessionHost) *Bridge {
	timeout := cfg.SelectorAPITimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Bridge{
		cfg:        cfg,
		bus:        bus,
		ui:         ui,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ItemFile is the path the renderer writes items to and fzf reloads from.
func (b *Bridge) ItemFile() string {
	if b.itemFile == "" {
		b.itemFile = b.ui.TempPath("items.txt")
	}
	return b.itemFile
}

// Start brings up the callback server, launches fzf inside the tmux session
// and waits until its listen API answers.
func (b *Bridge) Start(ctx context.Context) error {
	if err := b.startCallbackServer(); err != nil {
		return err
	}

	fzfPort, err := freePort()
	if err != nil {
		return fmt.Errorf("could not allocate selector port: %w", err)
	}
	b.fzfAddr = fmt.Sprintf("127.0.0.1:%d", fzfPort)

	if err := b.ui.EnsureSession(ctx, b.fzfCommand()); err != nil {
		return fmt.Errorf("could not start selector session: %w", err)
	}

	// fzf needs a moment to bind its API socket.
	for attempt := 0; attempt < 20; attempt++ {
		if b.IsRunning(ctx) {
			logging.Info("Selector", "selector ready on %s", b.fzfAddr)
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(250 * time.Millisecond):
		}
	}
	return fmt.Errorf("selector did not become ready on %s", b.fzfAddr)
}

// Stop shuts the callback server down. The fzf process dies with its tmux
// session; the bridge does not own it.
func (b *Bridge) Stop(ctx context.Context) error {
	if b.server == nil {
		return nil
	}
	err := b.server.Shutdown(ctx)
	b.server = nil
	b.listener = nil
	return err
}

// SendActions forwards selector actions to fzf, joined the way its API
// expects.
func (b *Bridge) SendActions(ctx context.Context, actions []string) error {
	if len(actions) == 0 {
		return nil
	}
	body := strings.Join(actions, "+")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "http://"+b.fzfAddr, strings.NewReader(body))
	if err != nil {
		return err
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("selector unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("selector rejected actions: %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}
	return nil
}

// IsRunning probes the fzf listen API. Used by the controller's health
// monitor and by Start.
func (b *Bridge) IsRunning(ctx context.Context) bool {
	if b.fzfAddr == "" {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+b.fzfAddr, nil)
	if err != nil {
		return false
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (b *Bridge) startCallbackServer() error {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("could not start callback server: %w", err)
	}
	b.listener = listener

	mux := http.NewServeMux()
	mux.HandleFunc("POST /event/select", b.handleSelect)
	mux.HandleFunc("POST /event/refresh", b.handleSimple(event.RefreshRequestedEvent{}))
	mux.HandleFunc("POST /event/exit", b.handleSimple(event.ExitRequestedEvent{}))
	mux.HandleFunc("POST /event/query", b.handleQuery)

	b.server = &http.Server{Handler: mux}
	go func() {
		if err := b.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			logging.Error("Selector", err, "callback server stopped")
		}
	}()
	return nil
}

// handleSelect parses the "code|session|text" line fzf reports for the
// picked item and publishes a selection event.
func (b *Bridge) handleSelect(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		http.Error(w, "unreadable body", http.StatusBadRequest)
		return
	}
	line := strings.TrimSpace(string(body))
	sel, err := ParseLine(line)
	if err != nil {
		logging.Warn("Selector", "discarding malformed selection %q: %v", line, err)
		w.WriteHeader(http.StatusOK)
		return
	}
	b.publish(r.Context(), sel)
	w.WriteHeader(http.StatusOK)
}

func (b *Bridge) handleQuery(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(io.LimitReader(r.Body, 1<<12))
	b.publish(r.Context(), event.QueryChangedEvent{Query: strings.TrimSpace(string(body))})
	w.WriteHeader(http.StatusOK)
}

func (b *Bridge) handleSimple(e event.Event) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.publish(r.Context(), e)
		w.WriteHeader(http.StatusOK)
	}
}

// publish detaches from the request context so slow handlers do not abort
// when fzf hangs up the callback early.
func (b *Bridge) publish(_ context.Context, e event.Event) {
	go func() {
		if err := b.bus.Publish(context.Background(), e); err != nil {
			logging.Error("Selector", err, "event %s failed", e.Type())
		}
	}()
}

// fzfCommand renders the fzf invocation hosting the whole browsing session.
func (b *Bridge) fzfCommand() string {
	callback := "http://" + b.listener.Addr().String()
	curl := func(path, data string) string {
		return fmt.Sprintf("curl -s -X POST --data-raw %s %s%s >/dev/null 2>&1", data, callback, path)
	}
	return strings.Join([]string{
		b.cfg.FzfPath,
		"--listen", b.fzfAddr,
		"--ansi",
		"--no-sort",
		"--layout=reverse",
		"--delimiter", "'|'",
		"--with-nth", "'3..'",
		fmt.Sprintf("--bind 'enter:execute-silent(%s)'", curl("/event/select", "{}")),
		fmt.Sprintf("--bind 'ctrl-r:execute-silent(%s)'", curl("/event/refresh", "''")),
		fmt.Sprintf("--bind 'ctrl-q:execute-silent(%s)'", curl("/event/exit", "''")),
		fmt.Sprintf("--bind 'change:execute-silent(%s)'", curl("/event/query", "{q}")),
		"< /dev/null; sleep infinity",
	}, " ")
}

// ParseLine splits a selector item line into its code, view session id and
// display text.
func ParseLine(line string) (event.SelectionEvent, error) {
	parts := strings.SplitN(line, "|", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return event.SelectionEvent{}, fmt.Errorf("expected code|session|text")
	}
	return event.SelectionEvent{
		Code:          parts[0],
		ViewSessionID: parts[1],
		DisplayText:   strings.TrimSpace(parts[2]),
		RawLine:       line,
	}, nil
}

func freePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
