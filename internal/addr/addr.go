// Package addr parses network addresses in "host:port" form. Addr works as a
// flag.Value and as an encoding.TextUnmarshaler, so the same type serves
// flags, environment variables and config files.
package addr

import (
	"errors"
	"net"
	"strconv"
	"strings"
)

// ErrNotCorrect is returned when an address is not in "host:port" form.
var ErrNotCorrect = errors.New("wrong host:port")

// Addr is a network endpoint.
type Addr struct {
	Host string
	Port int
}

// UnmarshalText parses text, which may be wrapped in double quotes.
func (a *Addr) UnmarshalText(text []byte) error {
	address := string(text)
	address = strings.TrimSuffix(strings.TrimPrefix(address, "\""), "\"")
	return a.Set(address)
}

func (a *Addr) String() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Set parses flagValue in "host:port" form. IPv6 hosts must be bracketed.
func (a *Addr) Set(flagValue string) error {
	host, rawPort, err := net.SplitHostPort(flagValue)
	if err != nil {
		return ErrNotCorrect
	}
	port, err := strconv.Atoi(rawPort)
	if err != nil || port < 0 || port > 65535 {
		return ErrNotCorrect
	}
	a.Host = host
	a.Port = port
	return nil
}

func (a *Addr) GetHost() string {
	return a.Host
}

func (a *Addr) GetPort() int {
	return a.Port
}

// GetAddr returns the address in "host:port" form.
func (a *Addr) GetAddr() string {
	return a.String()
}

// URL returns the base URL of an HTTP server listening on the address.
func (a *Addr) URL() string {
	host := a.Host
	if host == "" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(a.Port))
}
