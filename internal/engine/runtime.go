package engine

import (
	"provisioner/internal/distro"
	"provisioner/internal/shell"
	"provisioner/internal/state"
	"provisioner/internal/status"
)

// Runtime bundles the external capabilities the engine needs while running a
// registry: spawning shell processes, prompting the user, deciding whether a
// distribution restriction applies, and the persistent artifact state.
// Tests substitute spies for each capability.
type Runtime struct {
	Invoker    shell.Invoker
	Prompter   Prompter
	ShouldSkip func(distro.Distribution) bool
	State      *state.State
}

// NewRuntime returns a Runtime wired to the real host: os/exec invoker,
// console prompter, and live distribution detection. State starts nil and is
// attached by the caller when artifact tracking is wanted.
func NewRuntime() *Runtime {
	return &Runtime{
		Invoker:    shell.Exec{},
		Prompter:   NewConsolePrompter(),
		ShouldSkip: distro.ShouldSkip,
	}
}

// Runnable is anything that executes and comes to rest at a single Status.
type Runnable interface {
	Run(rt *Runtime) status.Status
}

// Hooked splits a run into the pre-check deciding whether the payload
// executes at all, and the post-processing of its raw outcome.
type Hooked interface {
	// BeforeRun returns Skipped or Passed to short-circuit the payload,
	// or Success to proceed with execution.
	BeforeRun(rt *Runtime) status.Status
	// AfterRun records and normalizes the payload's outcome.
	AfterRun(rt *Runtime, st status.Status) status.Status
}

// Applyable is a configuration step that can be applied and, in principle,
// reverted. Revert has no inverse action defined yet and reports that
// explicitly instead of silently doing nothing.
type Applyable interface {
	Apply(rt *Runtime) status.Status
	Revert(rt *Runtime) error
}

// checkSatisfied evaluates an idempotency check line. The probe always runs
// under plain sh regardless of the owning unit's shell, because it is a probe,
// not the payload. Satisfied means the probe exited zero and produced output
// on stdout; any probe error counts as unsatisfied so the payload still runs.
func checkSatisfied(rt *Runtime, check string) bool {
	result, err := rt.Invoker.RunCaptured(shell.Sh, check)
	if err != nil {
		return false
	}
	return result.ExitCode == 0 && len(result.Stdout) > 0
}
