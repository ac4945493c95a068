// Package osadapt wraps the operating system facilities the application
// depends on: ICMP echo, launching files/URLs/RDP sessions, spawning
// terminal windows, and local address enumeration.
package osadapt

import (
	"context"
	"os/exec"
	"runtime"
	"strings"
)

// SystemPinger runs the platform ping utility with a single packet and a
// short timeout.
type SystemPinger struct{}

// Ping reports whether addr answered an ICMP echo. A reply only counts when
// the output carries a TTL marker; unreachable replies from intermediate
// hosts exit zero on some platforms but carry no TTL.
func (SystemPinger) Ping(ctx context.Context, addr string) bool {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "ping", "-n", "1", "-w", "1000", addr)
	} else {
		cmd = exec.CommandContext(ctx, "ping", "-c", "1", "-W", "1", addr)
	}
	out, err := cmd.CombinedOutput()
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(out)), "ttl=")
}
