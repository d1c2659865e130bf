package agentstatus

import (
	"fmt"
	"strings"
	"time"

	"github.com/palegrave/nirikit/internal/waybar"
)

// spinnerFrames advance one step per emitted frame while the agent works.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const (
	iconBell = "󰗻"
	iconPlug = "󰚥"
	iconTool = ""
)

// toolIcons maps the agent's built-in tool names to glyphs.
var toolIcons = map[string]string{
	"Read":         "",
	"Write":        "󱇨",
	"Edit":         "󱇨",
	"MultiEdit":    "󱇨",
	"Bash":         "",
	"Task":         "",
	"Grep":         "󰱽",
	"Glob":         "",
	"LS":           "󰙅",
	"WebFetch":     "",
	"WebSearch":    "󰖟",
	"TodoWrite":    "󰝖",
	"NotebookRead": "󰠮",
	"NotebookEdit": "󱓧",
}

// mcpIcons maps MCP server names, matched from the segment after the
// mcp__ prefix, so every tool a server exposes shares one glyph.
var mcpIcons = map[string]string{
	"speech":   "",
	"linear":   "󰪡",
	"context7": "󱂛",
}

func toolIcon(name string) string {
	if icon, ok := toolIcons[name]; ok {
		return icon
	}
	if rest, ok := strings.CutPrefix(name, "mcp__"); ok {
		server, _, _ := strings.Cut(rest, "__")
		if icon, ok := mcpIcons[server]; ok {
			return icon
		}
		return iconPlug
	}
	return iconTool
}

// Render formats one bar frame. frame picks the spinner step; the caller
// advances it per emit so a busy agent visibly spins. Idle and stale
// updates render empty text, which makes waybar hide the module.
func Render(s Status, at, now time.Time, frame int) waybar.Output {
	if Stale(at, now) {
		return waybar.Output{Tooltip: "Agent: no recent activity", Class: "idle"}
	}
	spinner := spinnerFrames[frame%len(spinnerFrames)]
	switch s.State {
	case StateProcessing:
		return waybar.Output{
			Text:    spinner,
			Tooltip: "Agent: working",
			Class:   "processing",
		}
	case StateTool:
		tooltip := "Agent: running a tool"
		if s.Tool != "" {
			tooltip = fmt.Sprintf("Agent: running %s", waybar.EscapePango(s.Tool))
		}
		return waybar.Output{
			Text:    fmt.Sprintf("%s %s", toolIcon(s.Tool), spinner),
			Tooltip: tooltip,
			Class:   "tool",
		}
	case StateWaiting:
		return waybar.Output{
			Text:    iconBell,
			Tooltip: "Agent: waiting for permission",
			Class:   "waiting",
		}
	case StateIdle:
		return waybar.Output{Tooltip: "Agent: idle", Class: "idle"}
	}
	return waybar.Output{
		Tooltip: "Agent: " + waybar.EscapePango(s.State),
		Class:   "unknown",
	}
}
