package shell

import "fmt"

// GenerateZshIntegration returns a Zsh script snippet that provides
// cpu-pulse shell integration. Source the output in ~/.zshrc.
func GenerateZshIntegration(cfg IntegrationConfig) string {
	return fmt.Sprintf(`# cpu-pulse shell integration for Zsh
# Source this in your ~/.zshrc

# Open the cpu-pulse dashboard with Ctrl+P
_cpu_pulse_dashboard() {
    BUFFER=""
    zle reset-prompt
    %[1]s
    zle reset-prompt
}
zle -N _cpu_pulse_dashboard
bindkey '^P' _cpu_pulse_dashboard

# Prompt segment: last exported load, shown on the right
setopt PROMPT_SUBST
_cpu_pulse_segment() {
    %[1]s -status -no-color 2>/dev/null | cut -d'|' -f1 | sed 's/ *$//'
}
RPROMPT='$(_cpu_pulse_segment)'

# Full status line
pulse-status() {
    %[1]s -status "$@"
}

# Start a background exporter for the prompt segment
pulse-start() {
    %[1]s -headless >/dev/null 2>&1 &!
    echo "cpu-pulse exporter started"
}

# Stop the background exporter
pulse-stop() {
    pkill -f "%[2]s -headless"
}

# Zsh completion for cpu-pulse
_cpu_pulse_completion() {
    local -a flags
    flags=(
        '-config:Config file path'
        '-headless:Print status lines instead of the dashboard'
        '-status:Print the last exported snapshot'
        '-json:Output -status as JSON'
        '-no-color:Disable colored output'
        '-shell:Output shell integration script'
        '-verbose:Enable debug logging'
        '-version:Show version'
    )
    _describe 'cpu-pulse' flags
}
compdef _cpu_pulse_completion %[2]s
`, cfg.command(), cfg.BinaryPath)
}
