package sh

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"sync"

	"github.com/robotalks/steerbox/pkg/framework"
	"github.com/robotalks/steerbox/pkg/l0/link"
	"github.com/robotalks/steerbox/pkg/l1"
	"github.com/robotalks/steerbox/pkg/l1/comm/mqtt"
	"github.com/robotalks/steerbox/pkg/l1/msgs"
	"github.com/robotalks/steerbox/pkg/l1/steerbox"
	"github.com/robotalks/steerbox/pkg/sim/rig"
	"github.com/robotalks/steerbox/pkg/sim/wheel"
)

// Session is an opened box, either local over a link or remote over MQTT.
type Session struct {
	Name   string
	Target l1.CommandHandler

	closer  func() error
	lock    sync.Mutex
	last    *msgs.State
	lastErr *msgs.CommandErr
	watchCh chan *msgs.State
}

// Publish implements l1.Publisher.
func (s *Session) Publish(msg msgs.Message) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	switch m := msg.(type) {
	case *msgs.State:
		s.last = m
		if s.watchCh != nil {
			select {
			case s.watchCh <- m:
			default:
			}
		}
	case *msgs.CommandErr:
		s.lastErr = m
	}
	return nil
}

// Last returns the last received state and command error.
func (s *Session) Last() (*msgs.State, *msgs.CommandErr) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.last, s.lastErr
}

// Watch streams states until the returned func is called.
func (s *Session) Watch() (<-chan *msgs.State, func()) {
	ch := make(chan *msgs.State, 16)
	s.lock.Lock()
	s.watchCh = ch
	s.lock.Unlock()
	return ch, func() {
		s.lock.Lock()
		s.watchCh = nil
		s.lock.Unlock()
	}
}

// Close closes the session.
func (s *Session) Close() error {
	if s.closer != nil {
		return s.closer()
	}
	return nil
}

// OpenLink opens a link, or starts a simulated device for sim://
// URLs, e.g. sim://?drop=0.01
func OpenLink(runner *framework.Runner, linkURL string) (io.ReadWriteCloser, error) {
	u, err := url.Parse(linkURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "sim" {
		return link.Open(linkURL)
	}
	conf := wheel.DefaultConfig
	if val := u.Query().Get("drop"); val != "" {
		if conf.DropRate, err = strconv.ParseFloat(val, 64); err != nil {
			return nil, fmt.Errorf("invalid drop %q: %v", val, err)
		}
	}
	return rig.Loopback(runner, conf), nil
}

// OpenLocal drives a box directly over a link.
func OpenLocal(linkURL string, conf steerbox.Config) (*Session, error) {
	runner := framework.NewRunner()
	rw, err := OpenLink(runner, linkURL)
	if err != nil {
		runner.Stop()
		runner.Wait()
		return nil, err
	}
	box := steerbox.New(rw, conf)
	driver := steerbox.NewDriver(box)
	driver.PublishEvery = 1
	s := &Session{Name: linkURL, Target: driver}
	driver.Publisher = s
	runner.Go(driver)
	s.closer = func() error {
		runner.Stop()
		runner.Wait()
		return box.Close()
	}
	return s, nil
}

// remoteTarget sends commands to a daemon.
type remoteTarget struct {
	remote *mqtt.Remote
}

func (t *remoteTarget) HandleCommand(msg msgs.Message) error {
	return t.remote.Send(msg)
}

// OpenRemote connects a daemon.
func OpenRemote(ctx context.Context, connect func(context.Context) (*mqtt.Remote, error)) (*Session, error) {
	remote, err := connect(ctx)
	if err != nil {
		return nil, err
	}
	s := &Session{Name: remote.Ref.Name(), Target: &remoteTarget{remote: remote}}
	sub := remote.Watch(func(msg msgs.Message, err error) {
		if err == nil {
			s.Publish(msg)
		}
	})
	s.closer = func() error {
		sub.Close()
		return remote.Close()
	}
	return s, nil
}
