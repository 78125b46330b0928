package engine

import (
	"provisioner/internal/status"
)

// ConfigItem wraps one Command with an independent idempotency check and a
// preference for interactive execution. Configuration steps typically open
// editors or prompt the user, so the wrapped command always runs attached to
// the terminal.
type ConfigItem struct {
	check   string
	command *Command

	lastStatus status.Status
}

// NewConfigItem builds a ConfigItem around the given command. The command is
// forced onto the interactive execution path.
func NewConfigItem(check string, command *Command) *ConfigItem {
	command.interactive = true
	return &ConfigItem{
		check:   check,
		command: command,
	}
}

// Command returns the wrapped command.
func (ci *ConfigItem) Command() *Command { return ci.command }

// LastStatus returns the resting status of the most recent Apply, or Normal
// if the item has not been applied yet.
func (ci *ConfigItem) LastStatus() status.Status { return ci.lastStatus }

// Apply evaluates the item's own idempotency check first; when satisfied the
// wrapped command is never invoked and the item rests at Passed. Otherwise the
// wrapped command runs on its attached/interactive path and its resting status
// becomes the item's.
func (ci *ConfigItem) Apply(rt *Runtime) status.Status {
	if ci.check != "" && checkSatisfied(rt, ci.check) {
		ci.lastStatus = status.Passed
		status.Passed.PrintMessage(ci.command.Line())
		return status.Passed
	}

	st := ci.command.Run(rt)
	ci.lastStatus = st
	return st
}

// Revert is not implemented: no configuration item defines an inverse action
// yet. It surfaces ErrRevertUnsupported rather than silently doing nothing.
func (ci *ConfigItem) Revert(_ *Runtime) error {
	return ErrRevertUnsupported
}
