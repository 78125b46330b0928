package shell

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
)

// Shell names the interpreter a command line is handed to. The zero value
// falls back to plain sh, the baseline shell present on every target host.
type Shell string

const (
	Sh   Shell = "sh"
	Bash Shell = "bash"
	Zsh  Shell = "zsh"
)

// Interpreter returns the executable name for this shell, defaulting to sh.
// Any other value is treated as a custom interpreter name and used verbatim.
func (s Shell) Interpreter() string {
	if s == "" {
		return string(Sh)
	}
	return string(s)
}

// Result holds the outcome of a captured command invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Invoker runs one shell line in a child process. The line is always passed
// whole to the interpreter's -c flag; the invoker never tokenizes it.
//
// Both methods block until the child exits. A returned error means the
// process could not be spawned or terminated abnormally (missing interpreter,
// permission denied, killed by signal) and is distinct from a non-zero exit.
type Invoker interface {
	// RunCaptured executes the line and collects exit code, stdout and stderr.
	RunCaptured(sh Shell, line string) (Result, error)
	// RunAttached executes the line with the child sharing the controlling
	// terminal, for interactive steps like editors or prompts.
	RunAttached(sh Shell, line string) (int, error)
}

// Exec is the production Invoker backed by os/exec.
type Exec struct{}

// RunCaptured spawns `interpreter -c line` and buffers its output.
// A non-zero exit is not an error; it is reported through Result.ExitCode.
func (Exec) RunCaptured(sh Shell, line string) (Result, error) {
	cmd := exec.Command(sh.Interpreter(), "-c", line)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			// The process never ran: missing interpreter, permission, etc.
			return result, fmt.Errorf("failed to spawn %s: %w", sh.Interpreter(), err)
		}
		if exitErr.ExitCode() < 0 {
			// Terminated by a signal rather than exiting on its own.
			return result, fmt.Errorf("%s terminated by signal: %w", sh.Interpreter(), err)
		}
		result.ExitCode = exitErr.ExitCode()
	}

	return result, nil
}

// RunAttached spawns `interpreter -c line` wired to the current process's
// stdin/stdout/stderr so the user interacts with the child directly.
func (Exec) RunAttached(sh Shell, line string) (int, error) {
	cmd := exec.Command(sh.Interpreter(), "-c", line)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			return -1, fmt.Errorf("failed to spawn %s: %w", sh.Interpreter(), err)
		}
		if exitErr.ExitCode() < 0 {
			return -1, fmt.Errorf("%s terminated by signal: %w", sh.Interpreter(), err)
		}
		return exitErr.ExitCode(), nil
	}
	return 0, nil
}
