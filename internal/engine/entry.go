package engine

import (
	"os"
	"path/filepath"
	"strings"

	"provisioner/internal/artifact"
	"provisioner/internal/logger"
	"provisioner/internal/status"
)

// Precondition declares what must hold before an entry's commands run:
// environment variables the commands rely on (prompted for when unset) and an
// optional working directory created when absent.
type Precondition struct {
	Env     []string
	WorkDir string
}

// EntrySpec carries the configuration a setup Entry is built from.
type EntrySpec struct {
	Description  string
	Check        string
	Precondition *Precondition
	Artifacts    []artifact.Artifact
	Commands     []*Command
	Configs      []*ConfigItem
}

// Entry is the composite setup unit: an optional entry-level idempotency
// check, an ordered list of commands, an optional ordered list of
// configuration items, plus preconditions and fetched artifacts. An Entry
// exclusively owns its child units.
type Entry struct {
	description  string
	check        string
	precondition *Precondition
	artifacts    []artifact.Artifact
	commands     []*Command
	configs      []*ConfigItem

	lastStatus status.Status
}

// NewEntry builds an Entry from its spec.
func NewEntry(spec EntrySpec) *Entry {
	return &Entry{
		description:  spec.Description,
		check:        spec.Check,
		precondition: spec.Precondition,
		artifacts:    spec.Artifacts,
		commands:     spec.Commands,
		configs:      spec.Configs,
	}
}

// Description returns the entry's human-readable description.
func (e *Entry) Description() string { return e.description }

// Commands returns the entry's full command list, before any per-run
// distribution filtering.
func (e *Entry) Commands() []*Command { return e.commands }

// Configs returns the entry's configuration items.
func (e *Entry) Configs() []*ConfigItem { return e.configs }

// LastStatus returns the resting status of the most recent Run, or Normal if
// the entry has not run yet.
func (e *Entry) LastStatus() status.Status { return e.lastStatus }

// Run drives the entry lifecycle:
//
//  1. preconditions: working directory, env prompts, artifact fetches
//  2. filter out commands whose distribution restriction fails on this host
//  3. entry-level idempotency check, bypassing the command phase when satisfied
//  4. run every remaining command in order, aggregating failures
//  5. apply configuration items, only when the command phase did not fail
//
// Failures accumulate: a failed command never stops its siblings, and a failed
// entry never stops later entries in the registry.
func (e *Entry) Run(rt *Runtime) status.Status {
	if st := e.prepare(rt); st == status.Failure {
		return e.rest(status.Failure)
	}

	applicable := e.applicableCommands(rt)

	st := status.Running
	if e.check != "" && checkSatisfied(rt, e.check) {
		logger.Debug("[DEBUG] Entry check satisfied, bypassing %d command(s)\n", len(applicable))
		st = status.Passed
	} else {
		st = e.runCommands(rt, applicable)
	}

	if len(e.configs) > 0 && st != status.Failure {
		status.Running.PrintMessage("applying configuration")
		st = e.applyConfigs(rt)
	}

	return e.rest(st)
}

// prepare runs the precondition phase. Only a working-directory or artifact
// failure fails the entry; a declined env prompt is deliberately non-fatal.
func (e *Entry) prepare(rt *Runtime) status.Status {
	if e.precondition != nil {
		if dir := e.precondition.WorkDir; dir != "" {
			if err := ensureWorkDir(dir); err != nil {
				logger.Error("[ERROR] Failed to create working directory %s: %v\n", dir, err)
				return status.Failure
			}
		}
		e.requestEnv(rt)
	}

	if len(e.artifacts) > 0 {
		if !artifact.Sync(e.artifacts, e.artifactDir(), rt.State) {
			logger.Error("[ERROR] Failed to fetch artifacts for entry '%s'\n", e.description)
			return status.Failure
		}
	}

	return status.Success
}

// requestEnv prompts for every declared environment variable that is unset in
// the current process, setting confirmed values for this process only.
// Declining leaves the variable unset and execution proceeds regardless.
func (e *Entry) requestEnv(rt *Runtime) {
	for _, name := range e.precondition.Env {
		if os.Getenv(name) != "" {
			logger.Debug("[DEBUG] Environment variable %s already set\n", name)
			continue
		}
		value, confirmed := rt.Prompter.Request(name)
		if !confirmed {
			logger.Warn("[WARN] %s left unset, continuing anyway\n", name)
			continue
		}
		if err := os.Setenv(name, value); err != nil {
			logger.Error("[ERROR] Failed to set %s: %v\n", name, err)
		}
	}
}

// applicableCommands filters out commands whose distribution restriction
// fails on this host. The filter is computed per run and leaves the entry's
// own command list untouched, so entries stay inspectable and repeated runs
// are deterministic.
func (e *Entry) applicableCommands(rt *Runtime) []*Command {
	applicable := make([]*Command, 0, len(e.commands))
	for _, cmd := range e.commands {
		if cmd.Distribution() != "" && rt.ShouldSkip(cmd.Distribution()) {
			logger.Debug("[DEBUG] Pruning '%s': restricted to %s\n", cmd.Line(), cmd.Distribution())
			continue
		}
		applicable = append(applicable, cmd)
	}
	return applicable
}

// runCommands runs every command in order. There is no short-circuit: all
// commands run and the union of their statuses decides the phase outcome.
func (e *Entry) runCommands(rt *Runtime, commands []*Command) status.Status {
	failed := 0
	for _, cmd := range commands {
		if cmd.Run(rt) == status.Failure {
			failed++
		}
	}
	if failed > 0 {
		return status.Failure
	}
	return status.Success
}

// applyConfigs applies every configuration item in order with the same
// non-short-circuit aggregation as the command phase.
func (e *Entry) applyConfigs(rt *Runtime) status.Status {
	failed := 0
	for _, cfg := range e.configs {
		if cfg.Apply(rt) == status.Failure {
			failed++
		}
	}
	if failed > 0 {
		return status.Failure
	}
	return status.Success
}

// rest memoizes the entry's resting status and emits its status line.
func (e *Entry) rest(st status.Status) status.Status {
	e.lastStatus = st
	st.PrintMessage(e.description)
	return st
}

// artifactDir is where fetched artifact executables are installed: the
// entry's working directory when declared, the default bin directory otherwise.
func (e *Entry) artifactDir() string {
	if e.precondition != nil && e.precondition.WorkDir != "" {
		return expandHome(e.precondition.WorkDir)
	}
	return artifact.DefaultBinDir()
}

// ensureWorkDir creates the working directory recursively if it is absent.
func ensureWorkDir(dir string) error {
	path := expandHome(dir)
	if _, err := os.Stat(path); err == nil {
		logger.Debug("[DEBUG] Working directory %s already exists\n", path)
		return nil
	}
	logger.Info("[INFO] Creating working directory %s\n", path)
	return os.MkdirAll(path, 0755)
}

// expandHome resolves a leading ~/ against the current user's home directory.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
