package config

// Command describes one shell command of a setup entry.
// - Run: the shell line, passed whole to the interpreter (required).
// - Shell: interpreter name (sh, bash, zsh, or a custom binary); empty means sh.
// - Distribution: restricts the command to one distribution (ubuntu, archlinux).
// - Check: idempotency probe; exit 0 with output means the work is already done.
// - Interactive: run attached to the terminal instead of captured.
type Command struct {
	Run          string `yaml:"run"`
	Shell        string `yaml:"shell"`
	Distribution string `yaml:"distribution"`
	Check        string `yaml:"check"`
	Interactive  bool   `yaml:"interactive"`
}

// ConfigStep describes one interactive configuration step of a setup entry.
// Configuration steps always run attached to the terminal.
type ConfigStep struct {
	Run   string `yaml:"run"`
	Shell string `yaml:"shell"`
	Check string `yaml:"check"`
}

// Artifact describes a release asset to download and install for an entry.
type Artifact struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	URL     string `yaml:"url"`
}

// Entry describes one setup entry of the registry.
// - Description: human-readable name shown in status output.
// - Check: entry-level idempotency probe bypassing all commands when satisfied.
// - WorkingDir: directory created (recursively) before the entry runs.
// - Env: environment variables the entry needs; prompted for when unset.
type Entry struct {
	Description string       `yaml:"description"`
	Check       string       `yaml:"check"`
	WorkingDir  string       `yaml:"working_dir"`
	Env         []string     `yaml:"env"`
	Artifacts   []Artifact   `yaml:"artifacts"`
	Commands    []Command    `yaml:"commands"`
	Configs     []ConfigStep `yaml:"configs"`
}

// Registry is the top-level structure of the registry YAML file: the ordered
// list of setup entries executed per invocation.
type Registry struct {
	Setup []Entry `yaml:"setup"`
}
