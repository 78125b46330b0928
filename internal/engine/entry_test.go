package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provisioner/internal/distro"
	"provisioner/internal/shell"
	"provisioner/internal/status"
)

func TestEntryRunsAllCommandsDespiteFailure(t *testing.T) {
	spy := &spyInvoker{
		respond: func(_ shell.Shell, line string) shell.Result {
			if line == "first" {
				return shell.Result{ExitCode: 1, Stderr: "broken"}
			}
			return shell.Result{}
		},
	}
	rt := newTestRuntime(spy)

	entry := NewEntry(EntrySpec{
		Description: "two commands",
		Commands: []*Command{
			NewCommand(CommandSpec{Line: "first"}),
			NewCommand(CommandSpec{Line: "second"}),
		},
	})
	st := entry.Run(rt)

	// No short-circuit: both commands executed, union decides the outcome.
	assert.Equal(t, status.Failure, st)
	require.Len(t, spy.capturedCalls, 2)
	assert.Equal(t, "first", spy.capturedCalls[0].line)
	assert.Equal(t, "second", spy.capturedCalls[1].line)
}

func TestEntrySkipsConfigPhaseAfterCommandFailure(t *testing.T) {
	spy := &spyInvoker{
		respond: func(_ shell.Shell, _ string) shell.Result {
			return shell.Result{ExitCode: 1}
		},
	}
	rt := newTestRuntime(spy)

	entry := NewEntry(EntrySpec{
		Description: "failing commands",
		Commands:    []*Command{NewCommand(CommandSpec{Line: "false"})},
		Configs: []*ConfigItem{
			NewConfigItem("", NewCommand(CommandSpec{Line: "configure"})),
		},
	})
	st := entry.Run(rt)

	assert.Equal(t, status.Failure, st)
	// The config phase must show zero invocations.
	assert.Empty(t, spy.attachedCalls)
	assert.Equal(t, status.Normal, entry.Configs()[0].LastStatus())
}

func TestEntryGuardBypassesCommands(t *testing.T) {
	spy := &spyInvoker{
		respond: func(_ shell.Shell, line string) shell.Result {
			if line == "test -d ~/.oh-my-zsh && echo yes" {
				return shell.Result{ExitCode: 0, Stdout: "yes\n"}
			}
			return shell.Result{ExitCode: 1}
		},
	}
	rt := newTestRuntime(spy)

	entry := NewEntry(EntrySpec{
		Description: "guarded",
		Check:       "test -d ~/.oh-my-zsh && echo yes",
		Commands:    []*Command{NewCommand(CommandSpec{Line: "install-oh-my-zsh"})},
	})
	st := entry.Run(rt)

	assert.Equal(t, status.Passed, st)
	// Only the guard probe reached the invoker.
	require.Len(t, spy.capturedCalls, 1)
	assert.Equal(t, "test -d ~/.oh-my-zsh && echo yes", spy.capturedCalls[0].line)
}

func TestEntryConfigsStillApplyAfterGuardPass(t *testing.T) {
	spy := &spyInvoker{
		respond: func(_ shell.Shell, line string) shell.Result {
			if line == "guard" {
				return shell.Result{ExitCode: 0, Stdout: "done\n"}
			}
			return shell.Result{}
		},
	}
	rt := newTestRuntime(spy)

	entry := NewEntry(EntrySpec{
		Description: "guarded with configs",
		Check:       "guard",
		Commands:    []*Command{NewCommand(CommandSpec{Line: "never-runs"})},
		Configs: []*ConfigItem{
			NewConfigItem("", NewCommand(CommandSpec{Line: "tweak"})),
		},
	})
	st := entry.Run(rt)

	// The guard bypasses commands only; configuration still applies.
	assert.Equal(t, status.Success, st)
	require.Len(t, spy.attachedCalls, 1)
	assert.Equal(t, "tweak", spy.attachedCalls[0])
}

func TestEntryPrunesRestrictedCommands(t *testing.T) {
	spy := &spyInvoker{}
	rt := newTestRuntime(spy)
	rt.ShouldSkip = func(d distro.Distribution) bool { return d == distro.Ubuntu }

	ubuntuCmd := NewCommand(CommandSpec{Line: "apt-get update", Distribution: distro.Ubuntu})
	plainCmd := NewCommand(CommandSpec{Line: "echo hi"})
	entry := NewEntry(EntrySpec{
		Description: "mixed restrictions",
		Commands:    []*Command{ubuntuCmd, plainCmd},
	})
	st := entry.Run(rt)

	assert.Equal(t, status.Success, st)
	require.Len(t, spy.capturedCalls, 1)
	assert.Equal(t, "echo hi", spy.capturedCalls[0].line)

	// Pruning is a per-run view; the entry's own command list is untouched.
	assert.Len(t, entry.Commands(), 2)
}

func TestEntryCreatesWorkingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "workdir")
	rt := newTestRuntime(&spyInvoker{})

	entry := NewEntry(EntrySpec{
		Description:  "with workdir",
		Precondition: &Precondition{WorkDir: dir},
		Commands:     []*Command{NewCommand(CommandSpec{Line: "echo hi"})},
	})
	st := entry.Run(rt)

	assert.Equal(t, status.Success, st)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

// cannedPrompter answers every env request with a fixed value.
type cannedPrompter struct {
	value     string
	confirmed bool
	requests  []string
}

func (p *cannedPrompter) Request(name string) (string, bool) {
	p.requests = append(p.requests, name)
	return p.value, p.confirmed
}

func TestEntryPromptsForMissingEnv(t *testing.T) {
	const name = "PROVISIONER_TEST_TOKEN"
	require.Empty(t, os.Getenv(name))
	t.Cleanup(func() { _ = os.Unsetenv(name) })

	prompter := &cannedPrompter{value: "secret", confirmed: true}
	rt := newTestRuntime(&spyInvoker{})
	rt.Prompter = prompter

	entry := NewEntry(EntrySpec{
		Description:  "needs env",
		Precondition: &Precondition{Env: []string{name}},
	})
	entry.Run(rt)

	assert.Equal(t, []string{name}, prompter.requests)
	assert.Equal(t, "secret", os.Getenv(name))
}

func TestEntryDeclinedEnvPromptIsNonFatal(t *testing.T) {
	const name = "PROVISIONER_TEST_DECLINED"
	require.Empty(t, os.Getenv(name))

	prompter := &cannedPrompter{value: "ignored", confirmed: false}
	rt := newTestRuntime(&spyInvoker{})
	rt.Prompter = prompter

	entry := NewEntry(EntrySpec{
		Description:  "declined env",
		Precondition: &Precondition{Env: []string{name}},
		Commands:     []*Command{NewCommand(CommandSpec{Line: "echo hi"})},
	})
	st := entry.Run(rt)

	// Declining leaves the variable unset; the entry still runs.
	assert.Equal(t, status.Success, st)
	assert.Empty(t, os.Getenv(name))
}

func TestEntrySetEnvIsNotRePrompted(t *testing.T) {
	const name = "PROVISIONER_TEST_PRESET"
	t.Setenv(name, "already-there")

	prompter := &cannedPrompter{value: "unused", confirmed: true}
	rt := newTestRuntime(&spyInvoker{})
	rt.Prompter = prompter

	entry := NewEntry(EntrySpec{
		Description:  "preset env",
		Precondition: &Precondition{Env: []string{name}},
	})
	entry.Run(rt)

	assert.Empty(t, prompter.requests)
	assert.Equal(t, "already-there", os.Getenv(name))
}

func TestConfigItemPassedWhenCheckSatisfied(t *testing.T) {
	spy := &spyInvoker{
		respond: func(_ shell.Shell, line string) shell.Result {
			return shell.Result{ExitCode: 0, Stdout: "configured\n"}
		},
	}
	rt := newTestRuntime(spy)

	item := NewConfigItem("grep setopt ~/.zshrc", NewCommand(CommandSpec{Line: "edit-zshrc"}))
	st := item.Apply(rt)

	assert.Equal(t, status.Passed, st)
	// The wrapped command never reached the attached path.
	assert.Empty(t, spy.attachedCalls)
}

func TestConfigItemDelegatesToAttachedExecution(t *testing.T) {
	spy := &spyInvoker{}
	rt := newTestRuntime(spy)

	item := NewConfigItem("", NewCommand(CommandSpec{Line: "vim ~/.vimrc"}))
	st := item.Apply(rt)

	assert.Equal(t, status.Success, st)
	require.Len(t, spy.attachedCalls, 1)
	assert.Equal(t, "vim ~/.vimrc", spy.attachedCalls[0])
}

func TestConfigItemRevertIsUnsupported(t *testing.T) {
	item := NewConfigItem("", NewCommand(CommandSpec{Line: "anything"}))
	err := item.Revert(newTestRuntime(&spyInvoker{}))
	assert.ErrorIs(t, err, ErrRevertUnsupported)
}
