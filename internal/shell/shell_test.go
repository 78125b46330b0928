package shell

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpreterDefaultsToSh(t *testing.T) {
	assert.Equal(t, "sh", Shell("").Interpreter())
	assert.Equal(t, "sh", Sh.Interpreter())
	assert.Equal(t, "bash", Bash.Interpreter())
	assert.Equal(t, "zsh", Zsh.Interpreter())
	assert.Equal(t, "fish", Shell("fish").Interpreter())
}

func TestRunCapturedSuccess(t *testing.T) {
	result, err := Exec{}.RunCaptured(Sh, "echo Hello")
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "Hello", strings.TrimSpace(result.Stdout))
	assert.Empty(t, result.Stderr)
}

func TestRunCapturedNonZeroExitIsNotAnError(t *testing.T) {
	result, err := Exec{}.RunCaptured(Sh, "exit 3")
	require.NoError(t, err)
	assert.Equal(t, 3, result.ExitCode)
}

func TestRunCapturedCollectsStderr(t *testing.T) {
	result, err := Exec{}.RunCaptured(Sh, "echo oops >&2; exit 1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.ExitCode)
	assert.Equal(t, "oops", strings.TrimSpace(result.Stderr))
	assert.Empty(t, result.Stdout)
}

func TestRunCapturedLineIsNotTokenized(t *testing.T) {
	// The whole line goes to sh -c; quoting and pipes must survive intact.
	result, err := Exec{}.RunCaptured(Sh, `printf '%s\n' "a b" | wc -l`)
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "1", strings.TrimSpace(result.Stdout))
}

func TestRunCapturedMissingInterpreter(t *testing.T) {
	_, err := Exec{}.RunCaptured(Shell("no-such-interpreter-xyz"), "echo hi")
	require.Error(t, err)
}

func TestRunAttachedExitCode(t *testing.T) {
	// Attached mode inherits this process's streams; use quiet commands.
	code, err := Exec{}.RunAttached(Sh, "exit 7")
	require.NoError(t, err)
	assert.Equal(t, 7, code)

	code, err = Exec{}.RunAttached(Sh, "true")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
}
