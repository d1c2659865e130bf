package claude

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/palegrave/nirikit/internal/waybar"
)

// Tooltip geometry. Bars, charts, and label rows all share barWidth so the
// columns line up.
const (
	barWidth    = 46
	chartHeight = 3
)

const (
	iconZap      = ""
	iconStar     = ""
	iconWarning  = ""
	iconRejected = ""
	iconBullet   = "·"

	chartDeltaIcon = "𝚫"
	chartSumIcon   = "𝚺"
)

var chartBlocks = []rune("▁▂▃▄▅▆▇█")

// chartGradient colors the per-bucket delta chart, dark to bright purple.
var chartGradient = waybar.Gradient{
	{R: 0x4A, G: 0x3A, B: 0x5C},
	{R: 0x5D, G: 0x4A, B: 0x72},
	{R: 0x72, G: 0x5A, B: 0x8C},
	{R: 0x87, G: 0x6A, B: 0xA6},
	{R: 0x9D, G: 0x7A, B: 0xC2},
	{R: 0xB3, G: 0x8A, B: 0xDE},
	{R: 0xC9, G: 0x9A, B: 0xFA},
}

// cumulativeGradient colors the cumulative chart, burnt orange to rose.
var cumulativeGradient = waybar.Gradient{
	{R: 0x7B, G: 0x49, B: 0x37},
	{R: 0x9A, G: 0x55, B: 0x3B},
	{R: 0xB5, G: 0x5A, B: 0x3D},
	{R: 0xC3, G: 0x61, B: 0x42},
	{R: 0xC6, G: 0x61, B: 0x3F},
	{R: 0xD0, G: 0x6C, B: 0x4A},
	{R: 0xD9, G: 0x77, B: 0x57},
	{R: 0xD9, G: 0x6A, B: 0x7A},
}

// DisplayMode selects how much the bar text shows.
type DisplayMode string

const (
	ModeCompact  DisplayMode = "compact"
	ModeNormal   DisplayMode = "normal"
	ModeExpanded DisplayMode = "expanded"
)

// DisplayModes in cycle order.
var DisplayModes = []DisplayMode{ModeCompact, ModeNormal, ModeExpanded}

// ParseDisplayMode maps a config string onto a DisplayMode, defaulting to
// normal.
func ParseDisplayMode(s string) DisplayMode {
	switch DisplayMode(s) {
	case ModeCompact, ModeExpanded:
		return DisplayMode(s)
	default:
		return ModeNormal
	}
}

// CycleDisplayMode returns the mode delta steps away in cycle order.
func CycleDisplayMode(m DisplayMode, delta int) DisplayMode {
	idx := 1
	for i, mode := range DisplayModes {
		if mode == m {
			idx = i
		}
	}
	n := len(DisplayModes)
	return DisplayModes[((idx+delta)%n+n)%n]
}

// Frame is everything one waybar update is rendered from.
type Frame struct {
	Usage          *Usage
	Profile        *Profile
	Source         Source
	SourceFallback bool
	PreferSource   Source
	DisplayMode    DisplayMode
	Alternate      bool // second half of the 30s text cycle
	Cumulative     bool // show the cumulative chart instead of the delta chart
	Snapshots      []Snapshot
	Sessions       []SessionRecord
	LastChecked    time.Time
	TokenError     string // non-empty when no usable credentials exist
	Now            time.Time
}

// Render produces the waybar output for a frame. The second result is false
// when there is nothing to emit yet.
func Render(f Frame) (waybar.Output, bool) {
	if f.TokenError != "" {
		return waybar.Output{
			Text:       iconStar,
			Tooltip:    "No active token\n\n" + f.TokenError,
			Percentage: waybar.Percent(0),
			Class:      "inactive",
		}, true
	}
	if f.Usage == nil {
		return waybar.Output{}, false
	}

	u := f.Usage
	active5h := u.Session5hActive()
	var primary WindowUsage
	var window time.Duration
	if active5h {
		primary = u.Session5h
		window = 5 * time.Hour
	} else {
		primary = u.Window7d
		window = 7 * 24 * time.Hour
	}
	percentage := primary.Percent()
	elapsed := timeElapsedPercent(primary.ResetsAt, window, f.Now)
	resetShort := formatResetShort(primary.ResetsAt, f.Now)

	var class string
	switch {
	case !u.Allowed():
		class = "critical"
	case !active5h:
		class = "inactive"
	case percentage == 0:
		class = "inactive"
	case percentage <= 33:
		class = "low"
	case percentage <= 66:
		class = "med"
	case percentage <= 90:
		class = "high"
	default:
		class = "critical"
	}

	var text string
	switch f.DisplayMode {
	case ModeCompact:
		if f.Alternate && active5h {
			text = fmt.Sprintf("%s %s", iconZap, resetShort)
		} else {
			text = fmt.Sprintf("%s %d%%", iconZap, percentage)
		}
	case ModeExpanded:
		if f.Alternate && active5h {
			hourglass := waybar.Hourglass(elapsed)
			bar := waybar.TimeBar(int(elapsed), 10)
			text = fmt.Sprintf("%s %s  %s %2d%%", iconZap, bar, hourglass, int(elapsed))
		} else {
			bar := waybar.ProgressBar(percentage, 10)
			text = fmt.Sprintf("%s %s  %s %2d%%", iconZap, bar, iconZap, percentage)
		}
	default:
		hourglass := waybar.Hourglass(elapsed)
		text = fmt.Sprintf("%s %d%%  %s %d%%", iconZap, percentage, hourglass, int(elapsed))
	}

	return waybar.Output{
		Text:       text,
		Tooltip:    formatTooltip(f),
		Percentage: waybar.Percent(percentage),
		Class:      class,
	}, true
}

func statusIcon(status string) (string, string) {
	switch {
	case status == "allowed_warning":
		return iconWarning, "#FFB86C"
	case status != "allowed":
		return iconRejected, "#FF7D90"
	}
	return iconZap, waybar.ColorSubdued
}

// windowLines renders the bar line and the time line for one rate-limit
// window, as (plain, markup) pairs so the caller can size the tooltip.
type windowLines struct {
	headerPlain  string
	headerMarkup string
	barPlain     string
	barMarkup    string
	timePlain    string
	timeMarkup   string
	elapsed      float64
}

func renderWindowLines(label string, w WindowUsage, window time.Duration, now time.Time) windowLines {
	util := w.Utilization * 100
	elapsed := timeElapsedPercent(w.ResetsAt, window, now)

	bar := waybar.ProgressBar(int(util), barWidth)
	barColored := waybar.ProgressBarColored(int(util), barWidth, waybar.UsageGradient)
	timeBar := waybar.TimeBar(int(elapsed), barWidth)
	timeBarColored := waybar.TimeBarColored(int(elapsed), barWidth, waybar.TimeGradient)
	hourglass := waybar.Hourglass(elapsed)

	endTime := formatEndTime(w.ResetsAt, now)
	remaining := formatResetShort(w.ResetsAt, now)

	utilColor := waybar.ColorSubdued
	if util > 85 {
		utilColor = waybar.UsageGradient.Color(util / 100)
	}
	timeColor := waybar.ColorSubdued
	if elapsed > 85 {
		timeColor = waybar.TimeGradient.Color(elapsed / 100)
	}
	icon, iconColor := statusIcon(w.Status)

	return windowLines{
		headerPlain: fmt.Sprintf("   %s %s %s (in %s)", label, iconBullet, endTime, remaining),
		headerMarkup: fmt.Sprintf(`   <b>%s</b> <span color="%s">%s %s (in %s)</span>`,
			label, waybar.ColorSubdued, iconBullet, endTime, remaining),
		barPlain: fmt.Sprintf("%s  %s %4.1f%%", icon, bar, util),
		barMarkup: fmt.Sprintf(`<span color="%s" alpha="85%%">%s</span>  %s <span color="%s">%4.1f%%</span>`,
			iconColor, icon, barColored, utilColor, util),
		timePlain: fmt.Sprintf("%s  %s %4.1f%%", hourglass, timeBar, elapsed),
		timeMarkup: fmt.Sprintf(`<span color="%s" alpha="85%%">%s</span>  %s <span color="%s">%4.1f%%</span>`,
			waybar.ColorSubdued, hourglass, timeBarColored, timeColor, elapsed),
		elapsed: elapsed,
	}
}

// chartSection assembles chart rows with the delta icon on the top row and
// the sum icon on the bottom row, the active chart's icon highlighted.
func chartSection(rows []string, cumulative bool) string {
	deltaColor := waybar.ColorDim
	sumColor := waybar.ColorDim
	if cumulative {
		sumColor = cumulativeGradient.Color(0.7)
	} else {
		deltaColor = chartGradient.Color(0.7)
	}
	iconTop := fmt.Sprintf(`<span color="%s">%s</span>`, deltaColor, chartDeltaIcon)
	iconBottom := fmt.Sprintf(`<span color="%s">%s</span>`, sumColor, chartSumIcon)

	lines := make([]string, 0, len(rows))
	for i, row := range rows {
		switch i {
		case 0:
			lines = append(lines, fmt.Sprintf("   %s %s", row, iconTop))
		case len(rows) - 1:
			lines = append(lines, fmt.Sprintf("   %s %s", row, iconBottom))
		default:
			lines = append(lines, "   "+row)
		}
	}
	return fmt.Sprintf(`<span line_height="0.85">%s</span>`, strings.Join(lines, "\n"))
}

func formatTooltip(f Frame) string {
	u := f.Usage
	now := f.Now

	lines5h := renderWindowLines("5-hour session", u.Session5h, 5*time.Hour, now)
	lines7d := renderWindowLines("7-day window", u.Window7d, 7*24*time.Hour, now)

	plain := []string{
		"",
		lines5h.headerPlain, lines5h.barPlain, lines5h.timePlain,
		"",
		lines7d.headerPlain, lines7d.barPlain, lines7d.timePlain,
	}
	maxWidth := 0
	for _, l := range plain {
		if n := utf8.RuneCountInString(l); n > maxWidth {
			maxWidth = n
		}
	}

	var footerParts []string
	if f.Source != "" {
		switch {
		case f.PreferSource == "" || f.PreferSource == SourceAuto:
			footerParts = append(footerParts, string(f.Source))
		case f.SourceFallback:
			footerParts = append(footerParts, string(f.Source)+" (fallback)")
		default:
			footerParts = append(footerParts, "["+string(f.Source)+"]")
		}
	}
	if f.Profile != nil && f.Profile.Account.Email != "" {
		footerParts = append(footerParts, f.Profile.Account.Email)
	}
	if !f.LastChecked.IsZero() {
		footerParts = append(footerParts, "checked "+formatRelativeTime(f.LastChecked, now))
	}
	footer := strings.Join(footerParts, " "+iconBullet+" ")

	titlePlain := "Claude " + iconBullet + " Usage Monitor"
	bullet := fmt.Sprintf(`<span color="%s">%s</span>`, waybar.ColorSubdued, iconBullet)
	titleMarkup := "Claude " + bullet + " Usage Monitor"
	if f.Profile != nil {
		if plan := f.Profile.PlanLabel(); plan != "" {
			titlePlain += fmt.Sprintf(" %s %s Plan", iconBullet, plan)
			titleMarkup += fmt.Sprintf(" %s %s Plan", bullet, plan)
		}
	}

	pad := maxWidth - utf8.RuneCountInString(titlePlain)
	if pad < 0 {
		pad = 0
	}
	title := strings.Repeat(" ", pad/2) + titleMarkup + strings.Repeat(" ", pad-pad/2)

	// 5h charts from this session's snapshots.
	deltaBuckets, rawBuckets := UsageBuckets(f.Snapshots, u.Session5h.ResetsAt, barWidth)
	cumBuckets, cumIdx := cumulativeBuckets(f.Snapshots, u.Session5h.ResetsAt, barWidth, now)
	var rows5h []string
	if f.Cumulative {
		rows5h = renderCumulativeChart(cumBuckets, cumIdx)
	} else {
		rows5h = renderTimelineChart(deltaBuckets, rawBuckets)
	}

	// 7d charts from archived sessions.
	delta7d, raw7d := SessionBuckets(f.Sessions, u.Session7dCurrent(f.LastChecked), u.Window7d.ResetsAt, barWidth)
	cum7d, cumIdx7d := cumulative7dBuckets(f.Sessions, u.Window7d.ResetsAt, barWidth, u.Window7d.Utilization, now)
	var rows7d []string
	if f.Cumulative {
		rows7d = renderCumulativeChart(cum7d, cumIdx7d)
	} else {
		rows7d = renderTimelineChart(delta7d, raw7d)
	}

	spacer := `<span line_height="0.60"> </span>`
	var out []string
	out = append(out, "<b>"+title+"</b>")
	out = append(out, spacer)
	out = append(out, lines5h.headerMarkup)
	out = append(out, lines5h.barMarkup)
	out = append(out, chartSection(rows5h, f.Cumulative))
	out = append(out, lines5h.timeMarkup)
	out = append(out, "   "+render5hTimeLabels(u.Session5h.ResetsAt, barWidth))
	out = append(out, "")
	out = append(out, lines7d.headerMarkup)
	out = append(out, lines7d.barMarkup)
	out = append(out, chartSection(rows7d, f.Cumulative))
	out = append(out, lines7d.timeMarkup)
	out = append(out, "   "+render7dDayLabels(u.Window7d.ResetsAt, barWidth))

	if footer != "" {
		out = append(out, spacer)
		out = append(out, fmt.Sprintf(`<span color="%s">%s</span>`,
			waybar.ColorSubdued, centerText(footer, maxWidth)))
	}
	return strings.Join(out, "\n")
}

// Session7dCurrent synthesizes the in-flight session as a record so the
// 7-day chart includes it next to the archived ones.
func (u *Usage) Session7dCurrent(lastChecked time.Time) *SessionRecord {
	if lastChecked.IsZero() {
		return nil
	}
	return &SessionRecord{ResetAt: lastChecked, Utilization: u.Session5h.Utilization}
}

func centerText(s string, width int) string {
	pad := width - utf8.RuneCountInString(s)
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad/2) + s + strings.Repeat(" ", pad-pad/2)
}

// timeElapsedPercent reports how far into a window we are: 0 right after a
// reset, 100 when the reset is due.
func timeElapsedPercent(resetAt time.Time, window time.Duration, now time.Time) float64 {
	if resetAt.IsZero() {
		return 0
	}
	remaining := resetAt.Sub(now)
	if remaining <= 0 {
		return 100
	}
	pct := float64(window-remaining) / float64(window) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func formatResetShort(resetAt, now time.Time) string {
	if resetAt.IsZero() {
		return "0m"
	}
	return waybar.DeltaShort(resetAt.Sub(now))
}

func formatEndTime(resetAt, now time.Time) string {
	if resetAt.IsZero() {
		return "ends at unknown"
	}
	local := resetAt.Local()
	clock := local.Format("15:04")
	switch daysBetween(now.Local(), local) {
	case 0:
		return "ends at " + clock
	case 1:
		return "ends tomorrow at " + clock
	default:
		return fmt.Sprintf("ends %s at %s", local.Weekday(), clock)
	}
}

func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}

func formatRelativeTime(t, now time.Time) string {
	seconds := int(now.Sub(t).Seconds())
	switch {
	case seconds < 5:
		return "just now"
	case seconds < 60:
		return fmt.Sprintf("%d seconds ago", seconds)
	case seconds < 120:
		return "1 minute ago"
	case seconds < 3600:
		return fmt.Sprintf("%d minutes ago", seconds/60)
	case seconds < 7200:
		return "1 hour ago"
	default:
		return fmt.Sprintf("%d hours ago", seconds/3600)
	}
}

// UsageBuckets distributes utilization deltas between consecutive snapshots
// across the session timeline. Returns bar heights normalized so the tallest
// bucket is 1.0, plus the cumulative utilization per bucket for coloring.
func UsageBuckets(snapshots []Snapshot, resetAt time.Time, width int) ([]float64, []float64) {
	deltas := make([]float64, width)
	raw := make([]float64, width)
	if len(snapshots) == 0 || width <= 0 || resetAt.IsZero() {
		return deltas, raw
	}

	sessionStart := resetAt.Add(-5 * time.Hour)
	bucketDur := 5 * time.Hour / time.Duration(width)
	for i := 1; i < len(snapshots); i++ {
		delta := snapshots[i].Util - snapshots[i-1].Util
		if delta <= 0 {
			continue
		}
		idx := int(snapshots[i].TS.Sub(sessionStart) / bucketDur)
		deltas[clampIndex(idx, width)] += delta
	}

	cumulative := 0.0
	maxDelta := 0.0
	for i, d := range deltas {
		cumulative += d
		raw[i] = cumulative
		if d > maxDelta {
			maxDelta = d
		}
	}
	if maxDelta > 0 {
		normalized := make([]float64, width)
		for i, d := range deltas {
			normalized[i] = d / maxDelta
		}
		return normalized, raw
	}
	return deltas, raw
}

// SessionBuckets places finished 5-hour sessions (and the in-flight one) on
// the 7-day timeline, keeping the max utilization per bucket.
func SessionBuckets(sessions []SessionRecord, current *SessionRecord, resetAt7d time.Time, width int) ([]float64, []float64) {
	raw := make([]float64, width)
	if width <= 0 || resetAt7d.IsZero() {
		return raw, raw
	}

	windowStart := resetAt7d.Add(-7 * 24 * time.Hour)
	bucketDur := 7 * 24 * time.Hour / time.Duration(width)

	place := func(at time.Time, util float64) {
		if !at.After(windowStart) {
			return
		}
		idx := clampIndex(int(at.Sub(windowStart)/bucketDur), width)
		if util > raw[idx] {
			raw[idx] = util
		}
	}
	for _, s := range sessions {
		// A session's reset marks its end; bucket it at its midpoint.
		place(s.ResetAt.Add(-150*time.Minute), s.Utilization)
	}
	if current != nil {
		place(current.ResetAt, current.Utilization)
	}

	maxVal := 0.0
	for _, v := range raw {
		if v > maxVal {
			maxVal = v
		}
	}
	normalized := make([]float64, width)
	if maxVal > 0 {
		for i, v := range raw {
			normalized[i] = v / maxVal
		}
	}
	return normalized, raw
}

// cumulativeBuckets samples the running utilization at each bucket boundary.
// Buckets past now stay at zero; the second result is the last filled index.
func cumulativeBuckets(snapshots []Snapshot, resetAt time.Time, width int, now time.Time) ([]float64, int) {
	buckets := make([]float64, width)
	if len(snapshots) == 0 || width <= 0 || resetAt.IsZero() {
		return buckets, -1
	}

	sorted := make([]Snapshot, len(snapshots))
	copy(sorted, snapshots)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].TS.Before(sorted[j].TS) })

	sessionStart := resetAt.Add(-5 * time.Hour)
	bucketDur := 5 * time.Hour / time.Duration(width)
	currentIndex := -1
	for i := 0; i < width; i++ {
		bucketEnd := sessionStart.Add(time.Duration(i+1) * bucketDur)
		if bucketEnd.After(now) {
			break
		}
		last := 0.0
		for _, s := range sorted {
			if s.TS.After(bucketEnd) {
				break
			}
			last = s.Util
		}
		buckets[i] = last
		currentIndex = i
	}
	return buckets, currentIndex
}

// cumulative7dBuckets accumulates archived sessions across the 7-day window,
// scaled so the latest bucket matches the utilization the API reports.
func cumulative7dBuckets(sessions []SessionRecord, resetAt7d time.Time, width int, currentUtil float64, now time.Time) ([]float64, int) {
	buckets := make([]float64, width)
	if width <= 0 || resetAt7d.IsZero() {
		return buckets, -1
	}

	windowStart := resetAt7d.Add(-7 * 24 * time.Hour)
	bucketDur := 7 * 24 * time.Hour / time.Duration(width)

	inWindow := make([]SessionRecord, 0, len(sessions))
	for _, s := range sessions {
		if s.ResetAt.After(windowStart) {
			inWindow = append(inWindow, s)
		}
	}
	sort.Slice(inWindow, func(i, j int) bool { return inWindow[i].ResetAt.Before(inWindow[j].ResetAt) })

	total := 0.0
	running := make([]float64, len(inWindow))
	for i, s := range inWindow {
		total += s.Utilization
		running[i] = total
	}

	currentIndex := -1
	for i := 0; i < width; i++ {
		bucketEnd := windowStart.Add(time.Duration(i+1) * bucketDur)
		if bucketEnd.After(now) {
			break
		}
		cumulative := 0.0
		for j, s := range inWindow {
			if s.ResetAt.After(bucketEnd) {
				break
			}
			cumulative = running[j]
		}
		if total > 0 {
			buckets[i] = cumulative / total * currentUtil
		} else if bucketEnd.After(now.Add(-bucketDur)) {
			buckets[i] = currentUtil
		}
		currentIndex = i
	}
	return buckets, currentIndex
}

func clampIndex(idx, width int) int {
	if idx < 0 {
		return 0
	}
	if idx > width-1 {
		return width - 1
	}
	return idx
}

// renderTimelineChart draws normalized bucket heights as chartHeight rows of
// block glyphs, colored by the cumulative utilization at each bucket.
func renderTimelineChart(buckets, raw []float64) []string {
	return renderChartRows(buckets, func(i int, _ float64) string {
		return chartGradient.Color(raw[i])
	})
}

// renderCumulativeChart draws cumulative utilization; buckets past
// currentIndex render as a flat shadow at the current level.
func renderCumulativeChart(buckets []float64, currentIndex int) []string {
	currentValue := 0.0
	if currentIndex >= 0 && currentIndex < len(buckets) {
		currentValue = buckets[currentIndex]
	}
	shadowed := make([]float64, len(buckets))
	copy(shadowed, buckets)
	for i := range shadowed {
		if currentIndex >= 0 && i > currentIndex {
			shadowed[i] = currentValue
		}
	}
	return renderChartRows(shadowed, func(i int, v float64) string {
		if currentIndex >= 0 && i > currentIndex {
			return waybar.ColorShadow
		}
		return cumulativeGradient.Color(v)
	})
}

func renderChartRows(buckets []float64, colorAt func(i int, v float64) string) []string {
	maxLevel := chartHeight * 8
	rowParts := make([][]string, chartHeight)
	for row := range rowParts {
		rowParts[row] = make([]string, 0, len(buckets))
	}

	for i, value := range buckets {
		level := int(value * float64(maxLevel))
		if level < 0 {
			level = 0
		}
		if level > maxLevel {
			level = maxLevel
		}
		color := colorAt(i, value)

		for row := 0; row < chartHeight; row++ {
			rowFromBottom := chartHeight - 1 - row
			rowMin := rowFromBottom*8 + 1
			rowMax := (rowFromBottom + 1) * 8
			switch {
			case level < rowMin:
				rowParts[row] = append(rowParts[row], " ")
			case level >= rowMax:
				rowParts[row] = append(rowParts[row],
					fmt.Sprintf(`<span color="%s">█</span>`, color))
			default:
				ch := string(chartBlocks[level-rowMin])
				rowParts[row] = append(rowParts[row],
					fmt.Sprintf(`<span color="%s">%s</span>`, color, ch))
			}
		}
	}

	rows := make([]string, chartHeight)
	for row, parts := range rowParts {
		rows[row] = fmt.Sprintf(`<span bgcolor="%s40">%s</span>`,
			waybar.ColorDim, strings.Join(parts, ""))
	}
	return rows
}

// render5hTimeLabels puts the session start, midpoint, and end clock times
// under the 5-hour charts.
func render5hTimeLabels(resetAt time.Time, width int) string {
	if resetAt.IsZero() || width <= 0 {
		return ""
	}
	chars := blankLine(width)
	placeLabel(chars, resetAt.Add(-5*time.Hour).Local().Format("15:04"), 0)
	mid := resetAt.Add(-150 * time.Minute).Local().Format("15:04")
	placeLabel(chars, mid, (width-len(mid))/2)
	end := resetAt.Local().Format("15:04")
	placeLabel(chars, end, width-len(end))
	return fmt.Sprintf(`<span color="%s">%s</span>`, waybar.ColorSubdued, string(chars))
}

// render7dDayLabels marks each midnight with its weekday under the 7-day
// charts.
func render7dDayLabels(resetAt7d time.Time, width int) string {
	if resetAt7d.IsZero() || width <= 0 {
		return ""
	}
	windowStart := resetAt7d.Add(-7 * 24 * time.Hour)
	bucketDur := 7 * 24 * time.Hour / time.Duration(width)

	chars := blankLine(width)
	local := windowStart.Local()
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
	if midnight.Before(local) {
		midnight = midnight.AddDate(0, 0, 1)
	}
	for midnight.Before(resetAt7d) {
		idx := int(midnight.Sub(windowStart) / bucketDur)
		if idx >= 0 && idx < width {
			placeLabel(chars, midnight.Weekday().String()[:3], idx)
		}
		midnight = midnight.AddDate(0, 0, 1)
	}
	return fmt.Sprintf(`<span color="%s">%s</span>`, waybar.ColorSubdued, string(chars))
}

func blankLine(width int) []byte {
	chars := make([]byte, width)
	for i := range chars {
		chars[i] = ' '
	}
	return chars
}

func placeLabel(chars []byte, label string, at int) {
	for i := 0; i < len(label); i++ {
		if at+i >= 0 && at+i < len(chars) {
			chars[at+i] = label[i]
		}
	}
}
