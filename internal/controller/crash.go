package controller

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"kubezen/pkg/logging"
)

// Pager shows long-form text in a pager window; implemented by the tmux
// manager.
type Pager interface {
	DisplayTextInPager(ctx context.Context, text, windowName, pagerCmd string) error
}

// PagerCrashReporter formats unexpected errors into a readable report and
// shows it in a pager window so the operator sees what happened without
// digging through the log file.
type PagerCrashReporter struct {
	pager    Pager
	pagerCmd string
	logFile  string
}

// NewCrashReporter builds a reporter using the given pager command.
func NewCrashReporter(pager Pager, pagerCmd, logFile string) *PagerCrashReporter {
	return &PagerCrashReporter{pager: pager, pagerCmd: pagerCmd, logFile: logFile}
}

// Report renders and displays the crash report. Failure to display is logged
// and swallowed; the reporter must never make things worse.
func (r *PagerCrashReporter) Report(ctx context.Context, err error) {
	report := fmt.Sprintf(
		"KUBEZEN ERROR REPORT\n====================\n\nTime:  %s\nError: %v\n\nThe session will continue. If this keeps happening, check the log file:\n  %s\n\nStack:\n%s\n",
		time.Now().Format(time.RFC3339),
		err,
		r.logFile,
		debug.Stack(),
	)
	if perr := r.pager.DisplayTextInPager(ctx, report, "error-report", r.pagerCmd); perr != nil {
		logging.Error("CrashReporter", perr, "could not display crash report")
	}
}
