package netutil

import (
	"net"
	"strings"
)

// LanIP best-effort returns this machine's LAN IPv4, for building URLs
// a phone on the same network can open. Falls back to loopback.
func LanIP() string {
	ifaces, _ := net.Interfaces()
	var anyV4 string
	for _, iface := range ifaces {
		if (iface.Flags&net.FlagUp) == 0 || (iface.Flags&net.FlagLoopback) != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, addr := range addrs {
			ip := extractIP(addr)
			if ip == nil {
				continue
			}
			ip4 := ip.To4()
			if ip4 == nil || ip4.IsLoopback() || ip4.IsUnspecified() {
				continue
			}
			if ip4.IsPrivate() {
				return ip4.String()
			}
			if anyV4 == "" {
				anyV4 = ip4.String()
			}
		}
	}
	if anyV4 != "" {
		return anyV4
	}
	return "127.0.0.1"
}

func extractIP(addr net.Addr) net.IP {
	switch v := addr.(type) {
	case *net.IPNet:
		return v.IP
	case *net.IPAddr:
		return v.IP
	default:
		s := addr.String()
		if i := strings.IndexByte(s, '/'); i >= 0 {
			s = s[:i]
		}
		return net.ParseIP(s)
	}
}
