package status

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Status is the closed set of outcomes a setup unit can rest at after its
// lifecycle call returns. Running is the one transient value: it marks an
// in-flight command on the console but is never returned as a result.
type Status int

const (
	// Normal is the default/no-op sentinel. A unit that was never run rests here.
	Normal Status = iota
	// Running marks a command that is currently executing. Transient only.
	Running
	// Skipped means the unit did not apply to this host (distribution mismatch).
	Skipped
	// Passed means the unit's idempotency check found the work already done,
	// so the payload was not executed. Distinct from Success so callers can
	// tell "didn't need to run" from "ran and succeeded".
	Passed
	// Success means the unit ran and its command exited zero.
	Success
	// Warning marks a non-fatal problem worth the user's attention.
	Warning
	// Failure means the unit ran and failed (non-zero exit, signal, or spawn error).
	Failure
)

// String returns the human-readable name of the status.
func (s Status) String() string {
	switch s {
	case Running:
		return "Running"
	case Success:
		return "Success"
	case Warning:
		return "Warning"
	case Failure:
		return "Failure"
	case Skipped:
		return "Skipped"
	case Passed:
		return "Passed"
	default:
		return "Normal"
	}
}

// severity defines the total order used when many child statuses are reduced
// into one. Failure always dominates; Normal never does.
var severity = map[Status]int{
	Normal:  0,
	Running: 1,
	Skipped: 2,
	Passed:  3,
	Success: 4,
	Warning: 5,
	Failure: 6,
}

// Aggregate reduces a list of statuses into a single one by taking the most
// severe member. An empty list aggregates to Normal.
func Aggregate(statuses []Status) Status {
	result := Normal
	for _, s := range statuses {
		if severity[s] > severity[result] {
			result = s
		}
	}
	return result
}

// Presentation style per status. Each status maps to a fixed icon and color;
// the mapping is deterministic so the console output of a run can be asserted.
var (
	runningColor = color.New(color.FgBlue)
	successColor = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow)
	failureColor = color.New(color.FgRed)
	skippedColor = color.New(color.FgYellow)
	passedColor  = color.New(color.FgGreen)
)

// Icon returns the marker printed in front of the status message.
func (s Status) Icon() string {
	switch s {
	case Running:
		return "⏳"
	case Success:
		return "✅"
	case Warning:
		return "⚠️"
	case Failure:
		return "❌"
	case Skipped:
		return "⏭"
	case Passed:
		return "✔"
	default:
		return ""
	}
}

// PrintMessage emits exactly one formatted status line for this status.
// Failure goes to standard error; every other status goes to standard output.
// Normal prints the message unadorned.
func (s Status) PrintMessage(message string) {
	s.Fprint(os.Stdout, os.Stderr, message)
}

// Fprint is PrintMessage with explicit streams so tests can capture output.
// out receives every status line except Failure, which goes to errOut.
func (s Status) Fprint(out, errOut *os.File, message string) {
	switch s {
	case Running:
		_, _ = runningColor.Fprintf(out, "==> %sRunning: %s\n", s.Icon(), message)
	case Success:
		_, _ = successColor.Fprintf(out, "==> %sSucceeded: %s\n", s.Icon(), message)
	case Warning:
		_, _ = warningColor.Fprintf(out, "==> %sWarning: %s\n", s.Icon(), message)
	case Failure:
		_, _ = failureColor.Fprintf(errOut, "==> %sFailed: %s\n", s.Icon(), message)
	case Skipped:
		_, _ = skippedColor.Fprintf(out, "==> %sSkipped: %s\n", s.Icon(), message)
	case Passed:
		_, _ = passedColor.Fprintf(out, "==> %sAlready done: %s\n", s.Icon(), message)
	default:
		_, _ = fmt.Fprintln(out, message)
	}
}
