package netutil

import (
	"fmt"
	"net"
	"strconv"
)

func TCPPortAvailable(port int) bool {
	l, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	_ = l.Close()
	return true
}

// ChooseListen returns listen unchanged when its port is free, else the
// same host with the first free candidate port. When nothing is free
// the original address comes back and binding reports the real error.
func ChooseListen(listen string, candidates []int) string {
	host, portStr, err := net.SplitHostPort(listen)
	if err != nil {
		return listen
	}
	port, _ := strconv.Atoi(portStr)
	if port > 0 && TCPPortAvailable(port) {
		return listen
	}
	for _, p := range candidates {
		if TCPPortAvailable(p) {
			return net.JoinHostPort(host, strconv.Itoa(p))
		}
	}
	return listen
}
