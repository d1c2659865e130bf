package daemon

import "time"

// Ops accepted over the daemon socket.
const (
	OpToggle      = "toggle"
	OpSmartToggle = "smart-toggle"
	OpShow        = "show"
	OpHide        = "hide"
	OpAdopt       = "adopt"
	OpDisown      = "disown"
	OpClose       = "close"
	OpFloat       = "float"
	OpTile        = "tile"
	OpToggleFloat = "toggle-float"
	OpMenu        = "menu"
	OpStatus      = "status"
	OpReload      = "reload"
	OpStop        = "stop"
	OpRestart     = "restart"
)

// Request is one JSON line sent to the daemon socket.
type Request struct {
	Op   string `json:"op"`
	Name string `json:"name,omitempty"`
}

// Response is the JSON line the daemon writes back.
type Response struct {
	OK     bool       `json:"ok"`
	Error  string     `json:"error,omitempty"`
	Items  []MenuItem `json:"items,omitempty"`
	Status *Status    `json:"status,omitempty"`
}

// MenuItem describes one configured scratchpad for pickers and status output.
type MenuItem struct {
	Name    string `json:"name"`
	Bound   bool   `json:"bound"` // a live window is attached
	Visible bool   `json:"visible"`
}

// Status is the daemon's self-description.
type Status struct {
	PID         int        `json:"pid"`
	Socket      string     `json:"socket"`
	NiriSocket  string     `json:"niri_socket"`
	StartedAt   time.Time  `json:"started_at"`
	ConfigFiles []string   `json:"config_files"`
	Warnings    []string   `json:"warnings,omitempty"`
	Scratchpads []MenuItem `json:"scratchpads"`
}
