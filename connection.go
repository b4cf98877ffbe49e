package dtracksdk

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// ConnectionMode enumerates the four forms of the connection-string
// grammar.
type ConnectionMode int

const (
	// ModeListenOnly binds a UDP receiver with no known controller
	// address. There is no command interface in this mode, and feedback
	// has no destination until a datagram arrives.
	ModeListenOnly ConnectionMode = iota
	// ModeMulticast joins a multicast group for the measurement stream.
	ModeMulticast
	// ModeCommunicating opens both the UDP receiver and a TCP command
	// connection to a known controller address.
	ModeCommunicating
	// ModeFirewall binds the UDP receiver and primes a stateful firewall
	// pinhole toward a known controller address, without opening TCP.
	ModeFirewall
)

func (m ConnectionMode) String() string {
	switch m {
	case ModeListenOnly:
		return "listen-only"
	case ModeMulticast:
		return "multicast"
	case ModeCommunicating:
		return "communicating"
	case ModeFirewall:
		return "firewall"
	default:
		return "unknown"
	}
}

// ConnectionSpec is the parsed result of ParseConnectionString.
type ConnectionSpec struct {
	Mode ConnectionMode
	// Host is the controller's address for ModeCommunicating and
	// ModeFirewall. Empty otherwise.
	Host string
	// Port is always the local UDP port the receiver binds; the
	// controller is configured separately (by its own front-end) to send
	// measurement datagrams there. Host, when set, names where the SDK
	// dials TCP commands or sends firewall-priming/feedback datagrams --
	// a different socket than the one Port binds.
	Port int
	// MulticastGroup is the multicast group address, set only for
	// ModeMulticast.
	MulticastGroup string
}

// ParseConnectionString parses the SDK's single-argument connection
// string grammar:
//
//	<port>                   pure listening, no controller address
//	<multicast-ip>:<port>    multicast listening
//	<host-or-ip>:<port>      communicating mode, opens TCP
//	<host-or-ip>:<port>:fw   listening with stateful-firewall priming, no TCP
//
// Exposed standalone (not just as part of constructing a Session) so a
// collaborator building a CLI flag validator can check a connection
// string without opening a socket.
func ParseConnectionString(s string) (ConnectionSpec, error) {
	if s == "" {
		return ConnectionSpec{}, fmt.Errorf("dtracksdk: empty connection string")
	}

	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		port, err := strconv.Atoi(parts[0])
		if err != nil {
			return ConnectionSpec{}, fmt.Errorf("dtracksdk: invalid port %q: %w", parts[0], err)
		}
		return ConnectionSpec{Mode: ModeListenOnly, Port: port}, nil

	case 2:
		host := parts[0]
		port, err := strconv.Atoi(parts[1])
		if err != nil {
			return ConnectionSpec{}, fmt.Errorf("dtracksdk: invalid port %q: %w", parts[1], err)
		}
		if isMulticastHost(host) {
			return ConnectionSpec{Mode: ModeMulticast, MulticastGroup: host, Port: port}, nil
		}
		return ConnectionSpec{Mode: ModeCommunicating, Host: host, Port: port}, nil

	case 3:
		if parts[2] != "fw" {
			return ConnectionSpec{}, fmt.Errorf("dtracksdk: invalid connection string suffix %q, want \"fw\"", parts[2])
		}
		port, err := strconv.Atoi(parts[1])
		if err != nil {
			return ConnectionSpec{}, fmt.Errorf("dtracksdk: invalid port %q: %w", parts[1], err)
		}
		return ConnectionSpec{Mode: ModeFirewall, Host: parts[0], Port: port}, nil

	default:
		return ConnectionSpec{}, fmt.Errorf("dtracksdk: malformed connection string %q", s)
	}
}

func isMulticastHost(host string) bool {
	ip := net.ParseIP(host)
	return ip != nil && ip.IsMulticast()
}
