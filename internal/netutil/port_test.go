package netutil

import (
	"net"
	"strconv"
	"testing"
)

func TestTCPPortAvailable(t *testing.T) {
	l, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	port := l.Addr().(*net.TCPAddr).Port
	if TCPPortAvailable(port) {
		t.Fatalf("expected port %d unavailable", port)
	}
}

func TestChooseListenBusyPort(t *testing.T) {
	l, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	busy := l.Addr().(*net.TCPAddr).Port

	free, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatal(err)
	}
	candidate := free.Addr().(*net.TCPAddr).Port
	free.Close()

	got := ChooseListen("127.0.0.1:"+strconv.Itoa(busy), []int{candidate})
	want := "127.0.0.1:" + strconv.Itoa(candidate)
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestChooseListenKeepsFreePort(t *testing.T) {
	l, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatal(err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()
	addr := "127.0.0.1:" + strconv.Itoa(port)
	if got := ChooseListen(addr, []int{1}); got != addr {
		t.Fatalf("got %q want %q", got, addr)
	}
}

func TestLanIP(t *testing.T) {
	ip := LanIP()
	if net.ParseIP(ip) == nil {
		t.Fatalf("not an ip: %q", ip)
	}
}
