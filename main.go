package main

import (
	"provisioner/cmd" // Import the cmd package which contains the CLI commands and execution logic
)

// main is the program entry point.
// It delegates to cmd.Execute() which handles command line argument parsing and execution.
//
// This design cleanly separates the CLI interface (cmd package) from main,
// allowing easier testing, extension, and reuse of the CLI commands.
//
// The provisioner project is a declarative Linux machine setup executor that:
//   - Reads a YAML registry describing ordered setup entries: shell commands,
//     interactive configuration steps, idempotency checks, and preconditions
//   - Runs every entry sequentially, skipping commands that do not apply to the
//     detected Linux distribution or whose idempotency check reports the work
//     is already done
//   - Prompts for required-but-unset environment variables before an entry runs,
//     and creates the entry's working directory when it is missing
//   - Optionally fetches release artifacts (archives) per entry, extracts them,
//     and installs the contained executables into a bin directory
//   - Maintains a JSON state file for fetched artifacts so re-runs only download
//     what changed
//
// Error handling strategy:
//   - A failing command never stops its siblings; the entry is marked failed and
//     execution continues with the next entry, applying as much of the registry
//     as possible in one run
//   - Only an unreadable or malformed registry file aborts the whole process
//
// Integration points:
//   - Spawns shell child processes (sh by default, bash/zsh/custom per command)
//     either captured or attached to the terminal for interactive steps
//   - Detects the host distribution from /etc/arch-release and /etc/lsb-release
func main() {
	cmd.Execute()
}
