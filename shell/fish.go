package shell

import "fmt"

// GenerateFishIntegration returns a Fish shell script snippet that provides
// cpu-pulse keybindings, helper functions, and tab completions.
func GenerateFishIntegration(cfg IntegrationConfig) string {
	return fmt.Sprintf(`# cpu-pulse shell integration for Fish

# Open the cpu-pulse dashboard with %[3]s
function _cpu_pulse_dashboard
    commandline -f repaint
    %[1]s
    commandline -f repaint
end
bind \cp _cpu_pulse_dashboard

# Prompt segment: call from fish_right_prompt
function cpu_pulse_segment -d "Last exported cpu-pulse load"
    %[1]s -status -no-color 2>/dev/null | string split -f1 '|' | string trim
end

function pulse-status -d "Show cpu-pulse status"
    %[1]s -status $argv
end

function pulse-start -d "Start a background cpu-pulse exporter"
    %[1]s -headless >/dev/null 2>&1 &
    disown
    echo "cpu-pulse exporter started (PID: $last_pid)"
end

function pulse-stop -d "Stop the background cpu-pulse exporter"
    pkill -f "%[2]s -headless"
end

# Completions
complete -c %[2]s -o config -d "Config file path" -rF
complete -c %[2]s -o headless -d "Print status lines instead of the dashboard"
complete -c %[2]s -o status -d "Print the last exported snapshot"
complete -c %[2]s -o json -d "Output -status as JSON"
complete -c %[2]s -o no-color -d "Disable colored output"
complete -c %[2]s -o shell -d "Output shell integration script" -xa "bash zsh fish nushell"
complete -c %[2]s -o verbose -d "Enable debug logging"
complete -c %[2]s -o version -d "Show version"
`, cfg.command(), cfg.BinaryPath, cfg.DashboardKeybinding)
}
