package shell

import "fmt"

// GenerateBashIntegration returns a Bash script snippet that provides
// cpu-pulse shell integration. Source the output in ~/.bashrc.
func GenerateBashIntegration(cfg IntegrationConfig) string {
	return fmt.Sprintf(`# cpu-pulse shell integration for Bash
# Source this in your ~/.bashrc or ~/.bash_profile

# Open the cpu-pulse dashboard with Ctrl+P
_cpu_pulse_dashboard() {
    %[1]s
}
bind -x '"%[2]s": _cpu_pulse_dashboard'

# Prompt segment: last exported load, empty when nothing is exporting.
# Add $(_cpu_pulse_segment) to PS1.
_cpu_pulse_segment() {
    %[1]s -status -no-color 2>/dev/null | cut -d'|' -f1 | sed 's/ *$//'
}

# Full status line
pulse-status() {
    %[1]s -status "$@"
}

# Start a background exporter for the prompt segment
pulse-start() {
    %[1]s -headless >/dev/null 2>&1 &
    disown
    echo "cpu-pulse exporter started (PID: $!)"
}

# Stop the background exporter
pulse-stop() {
    pkill -f "%[3]s -headless"
}

complete -W "-config -headless -status -json -no-color -verbose -version -shell" %[3]s
`, cfg.command(), cfg.DashboardKeybinding, cfg.BinaryPath)
}
