package osadapt

import (
	"strings"

	gnet "github.com/shirou/gopsutil/v3/net"
)

// LocalIPs returns the host's own IP addresses, best effort. Loopback and
// link-local addresses are excluded. Used by the "Who am I?" highlight.
func LocalIPs() map[string]bool {
	addrs := make(map[string]bool)
	ifaces, err := gnet.Interfaces()
	if err != nil {
		return addrs
	}
	for _, iface := range ifaces {
		for _, a := range iface.Addrs {
			ip := a.Addr
			if i := strings.IndexByte(ip, '/'); i >= 0 {
				ip = ip[:i]
			}
			if ip == "" || strings.HasPrefix(ip, "127.") || ip == "::1" || strings.HasPrefix(ip, "fe80:") {
				continue
			}
			addrs[ip] = true
		}
	}
	return addrs
}
