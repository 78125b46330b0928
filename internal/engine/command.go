package engine

import (
	"errors"
	"strings"

	"provisioner/internal/distro"
	"provisioner/internal/logger"
	"provisioner/internal/shell"
	"provisioner/internal/status"
)

// notFoundMarker is the substring shells print on stderr when the command
// does not exist ("sh: 1: foo: not found", "bash: foo: command not found").
const notFoundMarker = "not found"

// Failure causes, distinguished for diagnostics only. Both rest at Failure.
var (
	ErrCommandNotFound   = errors.New("command not found")
	ErrExecutionFailed   = errors.New("command execution failed")
	ErrRevertUnsupported = errors.New("revert is not supported: no inverse action is defined")
)

// CommandSpec carries the configuration a Command is built from.
type CommandSpec struct {
	// Line is the shell line to execute, passed whole to the interpreter.
	Line string
	// Shell selects the interpreter; empty means the sh default.
	Shell shell.Shell
	// Distribution restricts the command to hosts of one distribution.
	Distribution distro.Distribution
	// Check is an optional idempotency probe; exit 0 with non-empty stdout
	// means the command's effect is already present.
	Check string
	// Interactive runs the payload attached to the terminal instead of captured.
	Interactive bool
}

// Command is the smallest executable setup unit: one shell line with optional
// shell choice, distribution restriction and idempotency check. It is built
// once from configuration and immutable afterwards except for the memoized
// last-observed status.
type Command struct {
	line         string
	shell        shell.Shell
	distribution distro.Distribution
	check        string
	interactive  bool

	lastStatus status.Status
}

// NewCommand builds a Command from its spec.
func NewCommand(spec CommandSpec) *Command {
	return &Command{
		line:         spec.Line,
		shell:        spec.Shell,
		distribution: spec.Distribution,
		check:        spec.Check,
		interactive:  spec.Interactive,
	}
}

// Line returns the shell line this command executes.
func (c *Command) Line() string { return c.line }

// Distribution returns the command's distribution restriction, if any.
func (c *Command) Distribution() distro.Distribution { return c.distribution }

// LastStatus returns the resting status of the most recent Run, or Normal if
// the command has not run yet.
func (c *Command) LastStatus() status.Status { return c.lastStatus }

// Run drives the full lifecycle: skip check, idempotency check, execution,
// post-processing. The returned value is the command's resting status.
func (c *Command) Run(rt *Runtime) status.Status {
	if st := c.BeforeRun(rt); st != status.Success {
		return st
	}
	return c.AfterRun(rt, c.execute(rt))
}

// BeforeRun decides whether the payload executes at all. A distribution
// mismatch rests the command at Skipped without touching the invoker; a
// satisfied idempotency check rests it at Passed. Success means proceed.
func (c *Command) BeforeRun(rt *Runtime) status.Status {
	if rt.ShouldSkip(c.distribution) {
		c.setStatus(status.Skipped, c.line)
		return status.Skipped
	}

	if c.check != "" && checkSatisfied(rt, c.check) {
		c.setStatus(status.Passed, c.line)
		return status.Passed
	}

	return status.Success
}

// AfterRun memoizes the execution outcome and normalizes it to a terminal
// status: Failure stays Failure, everything else rests at Success.
func (c *Command) AfterRun(_ *Runtime, st status.Status) status.Status {
	switch st {
	case status.Failure:
		c.setStatus(status.Failure, c.line)
		return status.Failure
	case status.Skipped, status.Passed:
		c.setStatus(st, c.line)
		return st
	default:
		c.setStatus(status.Success, c.line)
		return status.Success
	}
}

// execute runs the payload line through the invoker and maps the outcome to a
// raw status. Interactive commands attach to the terminal; everything else is
// captured so stderr can be inspected for diagnostics.
func (c *Command) execute(rt *Runtime) status.Status {
	status.Running.PrintMessage(c.line)

	if c.interactive {
		exitCode, err := rt.Invoker.RunAttached(c.shell, c.line)
		if err != nil {
			logger.Error("[ERROR] Failed to run '%s': %v\n", c.line, err)
			return status.Failure
		}
		if exitCode != 0 {
			logger.Error("[ERROR] '%s' exited with code %d\n", c.line, exitCode)
			return status.Failure
		}
		return status.Success
	}

	result, err := rt.Invoker.RunCaptured(c.shell, c.line)
	if err != nil {
		// Spawn failure or signal termination; the payload never exited cleanly.
		logger.Error("[ERROR] Failed to run '%s': %v\n", c.line, err)
		return status.Failure
	}
	if result.ExitCode != 0 {
		execErr := classifyFailure(result.Stderr)
		logger.Error("[ERROR] '%s' exited with code %d: %v\n", c.line, result.ExitCode, execErr)
		logger.Debug("[DEBUG] stderr: %s\n", result.Stderr)
		return status.Failure
	}
	return status.Success
}

// classifyFailure inspects stderr to tell a missing command apart from a
// generic execution failure. The distinction feeds error messages only; both
// causes rest at Failure.
func classifyFailure(stderr string) error {
	if strings.Contains(stderr, notFoundMarker) {
		return ErrCommandNotFound
	}
	return ErrExecutionFailed
}

// setStatus records the resting status and emits its status line.
func (c *Command) setStatus(st status.Status, message string) {
	c.lastStatus = st
	st.PrintMessage(message)
}
