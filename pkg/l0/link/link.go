// Package link opens the byte links between a host and a device.
//
// A link is named by URL:
//
//	serial:///dev/ttyUSB0?baud=115200
//	serial://                          first USB serial adapter
//	ws://localhost:8420/steerbox       simulator websocket endpoint
//
// Loopback creates an in-process link for simulation.
package link

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"
)

// Defaults of a link.
const (
	DefaultBaudRate    = 115200
	DefaultReadTimeout = 500 * time.Millisecond
	DefaultPath        = "/steerbox"
)

// Options are parsed from the URL query.
type Options struct {
	BaudRate    int
	ReadTimeout time.Duration
}

// Open opens a link by URL.
func Open(rawurl string) (io.ReadWriteCloser, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, err
	}
	opts, err := parseOptions(u.Query())
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "serial":
		name := u.Path
		if name == "" {
			name = u.Opaque
		}
		return OpenSerial(name, opts)
	case "ws", "wss":
		conn, err := DialWebSocket(u)
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
	return nil, &UnsupportedError{Scheme: u.Scheme}
}

func parseOptions(q url.Values) (opts Options, err error) {
	opts.BaudRate, opts.ReadTimeout = DefaultBaudRate, DefaultReadTimeout
	if val := q.Get("baud"); val != "" {
		if opts.BaudRate, err = strconv.Atoi(val); err != nil {
			return opts, fmt.Errorf("invalid baud %q: %v", val, err)
		}
	}
	if val := q.Get("timeout"); val != "" {
		if opts.ReadTimeout, err = time.ParseDuration(val); err != nil {
			return opts, fmt.Errorf("invalid timeout %q: %v", val, err)
		}
	}
	return
}

// UnsupportedError indicates an unknown URL scheme.
type UnsupportedError struct {
	Scheme string
}

// Error implements error.
func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported link scheme %q", e.Scheme)
}
