package shell

// ZshPlugin is the zsh plugin source. It shadows opencode with a function
// that routes it through the focus wrapper, so the terminal-focus state
// file is maintained for every interactive run.
const ZshPlugin = `# nirikit shell plugin (auto-generated, do not edit)
# Source this file from your ~/.zshrc:
#   source ~/.config/nirikit/nirikit.plugin.zsh

if command -v nirikit >/dev/null 2>&1; then
  opencode() {
    command nirikit wrap -- opencode "$@"
  }
fi
`
