package link

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/steerbox/pkg/framework"
)

// ErrServerClosed is returned by Server.Read after Close.
var ErrServerClosed = errors.New("link server closed")

// drainTimeout ends ResetInputBuffer on a websocket.
const drainTimeout = 20 * time.Millisecond

// WebSocketConn is a binary websocket used as a byte stream.
type WebSocketConn struct {
	*websocket.Conn
}

// DialWebSocket connects to a websocket endpoint.
func DialWebSocket(u *url.URL) (*WebSocketConn, error) {
	origin := &url.URL{Scheme: "http", Host: u.Host}
	if u.Scheme == "wss" {
		origin.Scheme = "https"
	}
	ws, err := websocket.Dial(u.String(), "", origin.String())
	if err != nil {
		return nil, err
	}
	ws.PayloadType = websocket.BinaryFrame
	glog.Infof("websocket %s connected", u)
	return &WebSocketConn{Conn: ws}, nil
}

// ResetInputBuffer implements comm.InputFlusher by reading until the
// peer goes quiet.
func (c *WebSocketConn) ResetInputBuffer() error {
	defer c.SetReadDeadline(time.Time{})
	buf := make([]byte, 64)
	for {
		if err := c.SetReadDeadline(time.Now().Add(drainTimeout)); err != nil {
			return err
		}
		if _, err := c.Read(buf); err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				return nil
			}
			return err
		}
	}
}

type peer struct {
	conn *websocket.Conn
	done chan struct{}
}

// Server exposes a device over a websocket endpoint, one host at a time.
// It's the io.ReadWriter of the device side. Bytes written while no host
// is connected are dropped like on an unplugged serial line.
type Server struct {
	Addr string
	Path string

	attachCh chan *peer
	closeCh  chan struct{}
	lock     sync.Mutex
	current  *peer
	closed   bool
}

// NewServer creates a Server.
func NewServer(addr string) *Server {
	return &Server{
		Addr:     addr,
		Path:     DefaultPath,
		attachCh: make(chan *peer),
		closeCh:  make(chan struct{}),
	}
}

// Name implements Named.
func (s *Server) Name() string {
	return "link-server"
}

// Handler accepts websocket connections.
func (s *Server) Handler() http.Handler {
	return websocket.Handler(func(ws *websocket.Conn) {
		ws.PayloadType = websocket.BinaryFrame
		p := &peer{conn: ws, done: make(chan struct{})}
		select {
		case s.attachCh <- p:
		case <-s.closeCh:
			return
		}
		glog.Infof("host %s connected", ws.Request().RemoteAddr)
		select {
		case <-p.done:
		case <-s.closeCh:
		}
		glog.Infof("host %s disconnected", ws.Request().RemoteAddr)
	})
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle(s.Path, s.Handler())
	srv := &http.Server{Addr: s.Addr, Handler: mux}
	glog.Infof("serving device at ws://%s%s", s.Addr, s.Path)
	err := framework.RunWithContextCancel(ctx, func() {
		srv.Close()
	}, srv.ListenAndServe)
	if err == http.ErrServerClosed {
		err = nil
	}
	return err
}

// Read implements io.Reader. It waits for a host to connect.
func (s *Server) Read(p []byte) (int, error) {
	for {
		s.lock.Lock()
		cur := s.current
		s.lock.Unlock()
		if cur == nil {
			select {
			case cur = <-s.attachCh:
				s.lock.Lock()
				s.current = cur
				s.lock.Unlock()
			case <-s.closeCh:
				return 0, ErrServerClosed
			}
		}
		n, err := cur.conn.Read(p)
		if n > 0 {
			return n, nil
		}
		if err != nil {
			s.detach(cur)
		}
	}
}

// Write implements io.Writer.
func (s *Server) Write(p []byte) (int, error) {
	s.lock.Lock()
	cur := s.current
	s.lock.Unlock()
	if cur == nil {
		return len(p), nil
	}
	if _, err := cur.conn.Write(p); err != nil {
		s.detach(cur)
	}
	return len(p), nil
}

// Close implements io.Closer.
func (s *Server) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if !s.closed {
		s.closed = true
		close(s.closeCh)
	}
	return nil
}

func (s *Server) detach(p *peer) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.current == p {
		s.current = nil
		close(p.done)
	}
}

var _ io.ReadWriteCloser = &Server{}
