package shell

import "fmt"

// GenerateNushellIntegration returns a Nushell script snippet that provides
// cpu-pulse commands. Keybinding configuration is emitted
// as comments because Nushell keybindings must be defined statically in the
// user's config.nu and cannot be added dynamically via source.
func GenerateNushellIntegration(cfg IntegrationConfig) string {
	return fmt.Sprintf(`# cpu-pulse shell integration for Nushell

# Keybinding: Add the following block to $env.config.keybindings in your config.nu:
# {
#     name: cpu_pulse_dashboard
#     modifier: control
#     keycode: char_p
#     mode: [emacs vi_normal vi_insert]
#     event: {
#         send: executehostcommand
#         cmd: "%[1]s"
#     }
# }

# Prompt segment: use in $env.PROMPT_COMMAND_RIGHT
def cpu-pulse-segment [] {
    do -i { ^%[1]s -status -no-color } | complete | get stdout | split row '|' | first | str trim
}

# Show cpu-pulse status
def pulse-status [] {
    ^%[1]s -status
}

# Start a background cpu-pulse exporter
def pulse-start [] {
    job spawn { ^%[1]s -headless | ignore }
    print "cpu-pulse exporter started"
}

# Stop the background cpu-pulse exporter
def pulse-stop [] {
    ps -l | where command =~ "%[2]s -headless" | each { |it| kill $it.pid }
}

`, cfg.command(), cfg.BinaryPath)
}
