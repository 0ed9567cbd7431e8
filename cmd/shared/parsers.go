package shared

import (
	"fmt"
	"net"
	"regexp"
	"strconv"
)

var listenAddressRe = regexp.MustCompile(`^([^:]*):(\d+)$`)

// ParseListenAddress parses "host:port". The host can be empty or "*" to
// bind to all interfaces. It returns the address in a form net.Listen accepts.
func ParseListenAddress(s string) (string, error) {
	matches := listenAddressRe.FindStringSubmatch(s)
	if len(matches) != 3 {
		return "", listenParsingError(s)
	}

	host := matches[1]
	if host == "*" { // also counts as all interfaces
		host = ""
	}

	port, err := strconv.Atoi(matches[2])
	if err != nil || port < 0 || port > 65535 {
		return "", listenParsingError(s)
	}

	return net.JoinHostPort(host, strconv.Itoa(port)), nil
}

func listenParsingError(s string) error {
	return fmt.Errorf("parsing %s: format should be 'host:port', host may be empty or '*'", s)
}

var mirrorURLRe = regexp.MustCompile(`^(?:ws://)?([^:/]+):(\d+)(/.*)?$`)

// ParseMirrorURL parses the address of a mirror, either "ws://host:port"
// or "host:port", and returns its websocket URL.
func ParseMirrorURL(s string) (string, error) {
	matches := mirrorURLRe.FindStringSubmatch(s)
	if len(matches) != 4 {
		return "", mirrorParsingError(s)
	}

	port, err := strconv.Atoi(matches[2])
	if err != nil || port < 1 || port > 65535 {
		return "", mirrorParsingError(s)
	}

	return fmt.Sprintf("ws://%s%s", net.JoinHostPort(matches[1], strconv.Itoa(port)), matches[3]), nil
}

func mirrorParsingError(s string) error {
	return fmt.Errorf("parsing %s: format should be 'ws://host:port' or 'host:port'", s)
}
