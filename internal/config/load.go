package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"provisioner/internal/artifact"
	"provisioner/internal/distro"
	"provisioner/internal/engine"
	"provisioner/internal/shell"
)

// Load reads the registry YAML file and builds the executable registry.
// Any read, parse or validation error is returned as-is; the caller treats it
// as fatal and aborts, there is no partial load.
func Load(path string) (*engine.Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file %s: %w", path, err)
	}

	var reg Registry
	if err := yaml.Unmarshal(raw, &reg); err != nil {
		return nil, fmt.Errorf("failed to parse registry file %s: %w", path, err)
	}

	return Build(reg)
}

// Build validates the declarative registry and maps it onto engine values.
func Build(reg Registry) (*engine.Registry, error) {
	registry := engine.NewRegistry()

	for i, entry := range reg.Setup {
		built, err := buildEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("entry %d (%s): %w", i, entry.Description, err)
		}
		registry.Add(built)
	}

	return registry, nil
}

// buildEntry maps one declarative entry onto an engine entry.
func buildEntry(entry Entry) (*engine.Entry, error) {
	spec := engine.EntrySpec{
		Description: entry.Description,
		Check:       entry.Check,
	}

	if entry.WorkingDir != "" || len(entry.Env) > 0 {
		spec.Precondition = &engine.Precondition{
			Env:     entry.Env,
			WorkDir: entry.WorkingDir,
		}
	}

	for i, art := range entry.Artifacts {
		if art.Name == "" || art.URL == "" {
			return nil, fmt.Errorf("artifact %d: name and url are required", i)
		}
		spec.Artifacts = append(spec.Artifacts, artifact.Artifact{
			Name:    art.Name,
			Version: art.Version,
			URL:     art.URL,
		})
	}

	for i, cmd := range entry.Commands {
		if cmd.Run == "" {
			return nil, fmt.Errorf("command %d: run line must not be empty", i)
		}
		spec.Commands = append(spec.Commands, engine.NewCommand(engine.CommandSpec{
			Line:         cmd.Run,
			Shell:        shell.Shell(cmd.Shell),
			Distribution: distro.Parse(cmd.Distribution),
			Check:        cmd.Check,
			Interactive:  cmd.Interactive,
		}))
	}

	for i, cfg := range entry.Configs {
		if cfg.Run == "" {
			return nil, fmt.Errorf("config %d: run line must not be empty", i)
		}
		command := engine.NewCommand(engine.CommandSpec{
			Line:  cfg.Run,
			Shell: shell.Shell(cfg.Shell),
		})
		spec.Configs = append(spec.Configs, engine.NewConfigItem(cfg.Check, command))
	}

	return engine.NewEntry(spec), nil
}
