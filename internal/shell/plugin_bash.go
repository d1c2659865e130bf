package shell

// BashPlugin is the bash plugin source, the same wrapper function with
// bash sourcing instructions.
const BashPlugin = `# nirikit shell plugin (auto-generated, do not edit)
# Source this file from your ~/.bashrc:
#   source ~/.config/nirikit/nirikit.plugin.bash

if command -v nirikit >/dev/null 2>&1; then
  opencode() {
    command nirikit wrap -- opencode "$@"
  }
fi
`
