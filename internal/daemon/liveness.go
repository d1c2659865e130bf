package daemon

import (
	"fmt"
	"os"
	"strings"

	"github.com/palegrave/nirikit/internal/niri"
)

// RecordedPID reports the pid persisted for this session's daemon, or 0 when
// none is recorded or the process no longer looks like a nirikit daemon.
// Status uses it to tell a crashed daemon from one whose socket is wedged.
func RecordedPID() int {
	niriSocket, err := niri.SocketPath()
	if err != nil {
		return 0
	}
	store, err := NewStateStore()
	if err != nil {
		return 0
	}
	st, err := store.Load(niriSocket)
	if err != nil {
		return 0
	}
	if st.PID > 0 && pidLooksLikeDaemon(st.PID) {
		return st.PID
	}
	return 0
}

// pidLooksLikeDaemon checks /proc cmdline so a reused pid does not count as
// a live daemon.
func pidLooksLikeDaemon(pid int) bool {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/cmdline", pid))
	if err != nil {
		return false
	}
	args := strings.Split(strings.TrimRight(string(data), "\x00"), "\x00")
	if len(args) < 2 {
		return false
	}
	if !strings.Contains(args[0], "nirikit") {
		return false
	}
	for _, a := range args[1:] {
		if a == "daemon" {
			return true
		}
	}
	return false
}
