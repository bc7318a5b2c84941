// Package shell generates shell integration scripts for cpu-pulse.
//
// Each supported shell gets a generator function that produces a script snippet
// users can source in their shell RC file (~/.bashrc, ~/.zshrc, etc.). The
// generated scripts provide:
//
//   - A keybinding (default Ctrl+P) to open the dashboard
//   - A prompt segment showing the last exported load reading
//   - Helpers to start and stop a background headless exporter
//   - Flag completions where the shell supports them
package shell

import (
	"fmt"
	"strings"
)

// ShellType identifies a supported shell.
type ShellType int

const (
	// Bash is the Bourne Again Shell.
	Bash ShellType = iota
	// Zsh is the Z Shell.
	Zsh
	// Fish is the Friendly Interactive Shell.
	Fish
	// Nushell is the Nu shell.
	Nushell
)

// String returns the lowercase name of the shell type.
func (s ShellType) String() string {
	switch s {
	case Bash:
		return "bash"
	case Zsh:
		return "zsh"
	case Fish:
		return "fish"
	case Nushell:
		return "nushell"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// ParseShellType maps a shell name to its ShellType. "nu" is accepted for
// Nushell.
func ParseShellType(name string) (ShellType, error) {
	switch strings.ToLower(name) {
	case "bash":
		return Bash, nil
	case "zsh":
		return Zsh, nil
	case "fish":
		return Fish, nil
	case "nu", "nushell":
		return Nushell, nil
	default:
		return 0, fmt.Errorf("unknown shell %q (supported: bash, zsh, fish, nushell)", name)
	}
}

// IntegrationConfig controls how the generated shell integration behaves.
type IntegrationConfig struct {
	// BinaryPath is the path to the cpu-pulse binary.
	BinaryPath string
	// ConfigPath, when set, is passed to every invocation as -config.
	ConfigPath string
	// DashboardKeybinding is the key combo that opens the dashboard
	// (default: "\\C-p" for ctrl+p).
	DashboardKeybinding string
}

// DefaultIntegrationConfig returns an IntegrationConfig with sensible defaults.
// It assumes cpu-pulse is available on PATH and uses the default config
// search path.
func DefaultIntegrationConfig() IntegrationConfig {
	return IntegrationConfig{
		BinaryPath:          "cpu-pulse",
		DashboardKeybinding: `\C-p`,
	}
}

// command returns the binary invocation with the optional -config flag.
func (c IntegrationConfig) command() string {
	if c.ConfigPath == "" {
		return c.BinaryPath
	}
	return fmt.Sprintf("%s -config %q", c.BinaryPath, c.ConfigPath)
}

// GenerateIntegration dispatches to the appropriate shell-specific generator.
func GenerateIntegration(shell ShellType, cfg IntegrationConfig) string {
	switch shell {
	case Bash:
		return GenerateBashIntegration(cfg)
	case Zsh:
		return GenerateZshIntegration(cfg)
	case Fish:
		return GenerateFishIntegration(cfg)
	case Nushell:
		return GenerateNushellIntegration(cfg)
	default:
		return fmt.Sprintf("# cpu-pulse: %s integration is not yet implemented\n", shell)
	}
}
