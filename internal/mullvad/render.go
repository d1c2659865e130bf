package mullvad

import (
	"fmt"
	"strings"
	"time"

	"github.com/palegrave/nirikit/internal/waybar"
)

const (
	iconSecure = "󰌾"
	iconLeak   = "󱙱"

	// How long the last verdict is trusted before the frame turns stale.
	staleAfter = 5 * time.Minute
)

// verdict is everything the renderer needs: the last successful report,
// when it landed, and the error that replaced it if the newest check failed.
type verdict struct {
	report    *Report
	checkedAt time.Time
	err       error
}

// Render formats the current verdict as one bar frame.
func Render(v verdict, now time.Time) waybar.Output {
	if v.report == nil {
		msg := "Mullvad check failed"
		if v.err != nil {
			msg = fmt.Sprintf("Mullvad check failed: %v", v.err)
		}
		return waybar.Output{
			Text:    iconLeak + " ?",
			Tooltip: waybar.EscapePango(msg),
			Class:   "error",
		}
	}

	rep := v.report
	var o waybar.Output
	if rep.MullvadExit {
		label := rep.Hostname
		if label == "" {
			label = rep.City
		}
		if label == "" {
			label = "mullvad"
		}
		o.Text = iconSecure + " " + label
		o.Class = "connected"
	} else {
		o.Text = iconLeak + " exposed"
		o.Class = "disconnected"
	}
	if now.Sub(v.checkedAt) > staleAfter {
		o.Class = "stale"
	}
	o.Tooltip = tooltip(rep, v.checkedAt, now, v.err)
	return o
}

func tooltip(rep *Report, checkedAt, now time.Time, lastErr error) string {
	var b strings.Builder
	if rep.MullvadExit {
		b.WriteString("<b>Mullvad: connected</b>\n")
		if rep.Hostname != "" {
			fmt.Fprintf(&b, "Relay: %s\n", waybar.EscapePango(rep.Hostname))
		}
		if rep.ServerType != "" {
			fmt.Fprintf(&b, "Type: %s\n", waybar.EscapePango(rep.ServerType))
		}
	} else {
		b.WriteString("<b>Mullvad: not connected</b>\n")
		fmt.Fprintf(&b, "Your traffic exits as %s\n", waybar.EscapePango(rep.IP))
	}

	place := rep.City
	if place != "" && rep.Country != "" {
		place += ", "
	}
	place += rep.Country
	if place != "" {
		fmt.Fprintf(&b, "Location: %s\n", waybar.EscapePango(place))
	}

	fmt.Fprintf(&b, "IPv4: %s\n", waybar.EscapePango(rep.IP))
	if rep.IPv6 != "" {
		fmt.Fprintf(&b, "IPv6: %s\n", waybar.EscapePango(rep.IPv6))
	} else {
		b.WriteString("IPv6: not available\n")
	}
	if rep.Organization != "" {
		fmt.Fprintf(&b, "Provider: %s\n", waybar.EscapePango(rep.Organization))
	}

	fmt.Fprintf(&b, "\nChecked %s ago", waybar.DeltaHM(now.Sub(checkedAt)))
	if lastErr != nil {
		fmt.Fprintf(&b, "\nLast check failed: %s", waybar.EscapePango(lastErr.Error()))
	}
	return b.String()
}
