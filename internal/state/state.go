package state

import (
	"encoding/json" // For JSON encoding and decoding of the state file
	"os"            // For file system operations like reading and writing files

	"provisioner/internal/logger"
)

// ArtifactState records an artifact that was fetched and installed by a
// previous run: the version that was installed, the URL it came from, and
// where the executable ended up.
type ArtifactState struct {
	Version     string `json:"version"`      // Version string of the installed artifact
	URL         string `json:"url"`          // Download URL used
	InstallPath string `json:"install_path"` // Absolute path of the installed executable
}

// State holds the entire saved state for the provisioner: a map of installed
// artifacts keyed by artifact name. It lets re-runs skip downloads whose
// version has not changed.
type State struct {
	Artifacts map[string]ArtifactState `json:"artifacts"`
}

// Load reads the saved state from a JSON file at the given path.
// If the file does not exist or cannot be read, it returns a new empty State.
// The Artifacts map is always non-nil to prevent nil map writes.
func Load(path string) *State {
	file, err := os.ReadFile(path)
	if err != nil {
		// File missing or unreadable: start from an empty state.
		return &State{Artifacts: make(map[string]ArtifactState)}
	}

	var st State
	_ = json.Unmarshal(file, &st)

	if st.Artifacts == nil {
		st.Artifacts = make(map[string]ArtifactState)
	}

	return &st
}

// Save writes the given State to a JSON file at the given path, pretty-printed
// for readability. Errors are logged but not propagated: a stale state file
// only costs a redundant download on the next run.
func Save(path string, st *State) {
	file, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		logger.Error("[ERROR] Failed to marshal state: %v\n", err)
		return
	}

	logger.Debug("[DEBUG] Writing state to %s:\n%s\n", path, string(file))

	if err := os.WriteFile(path, file, 0644); err != nil {
		logger.Error("[ERROR] Failed to write state file %s: %v\n", path, err)
	}
}
