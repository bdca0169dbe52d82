package mqtt

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/robotalks/steerbox/pkg/l1"
	"github.com/robotalks/steerbox/pkg/l1/msgs"
)

// DefaultDiscoverTimeout defines the default timeout value of discovery.
const DefaultDiscoverTimeout = 500 * time.Millisecond

// Connector finds daemons and connects to them.
type Connector struct {
	DiscoverTimeout time.Duration

	options     *paho.ClientOptions
	topicPrefix string
}

// NewConnector creates a Connector.
func NewConnector(brokerURL string) (*Connector, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	return &Connector{
		DiscoverTimeout: DefaultDiscoverTimeout,
		options:         opts,
		topicPrefix:     topicPrefix,
	}, nil
}

// ParseMetaTopic extracts the Ref from a meta topic.
func ParseMetaTopic(topic string) (l1.Ref, bool) {
	items := strings.Split(topic, "/")
	if len(items) != 3 || items[2] != "meta" {
		return l1.Ref{}, false
	}
	ref := l1.Ref{Type: items[0], ID: items[1]}
	return ref, ref.IsValid()
}

// Discover collects the daemons online, from their retained meta.
func (c *Connector) Discover(ctx context.Context) (res []l1.Info, err error) {
	q := NewQueue(c.options, c.topicPrefix)
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	defer q.Close()
	resCh := make(chan l1.Info, 16)
	q.Sub("+/+/meta", func(topic string, payload []byte) {
		ref, ok := ParseMetaTopic(topic)
		if !ok || len(payload) == 0 {
			return
		}
		info := l1.Info{Ref: ref}
		json.Unmarshal(payload, &info.Meta)
		select {
		case resCh <- info:
		case <-time.After(time.Second):
		}
	})

	dur := c.DiscoverTimeout
	if dur == 0 {
		dur = DefaultDiscoverTimeout
	}
	timeout := time.After(dur)
	for {
		select {
		case info := <-resCh:
			res = append(res, info)
		case <-timeout:
			return
		case <-ctx.Done():
			return res, ctx.Err()
		}
	}
}

// Connect connects to a daemon.
func (c *Connector) Connect(ref l1.Ref) (*Remote, error) {
	r := &Remote{Ref: ref, Queue: NewQueue(c.options, c.topicPrefix)}
	if token := r.Queue.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return r, nil
}

// Remote is a connected daemon.
type Remote struct {
	Ref   l1.Ref
	Queue *Queue
}

// Send sends a command.
func (r *Remote) Send(msg msgs.Message) error {
	data, err := msgs.Encode(msg)
	if err != nil {
		return err
	}
	token := r.Queue.Pub(r.Ref.CmdTopic(), data)
	token.Wait()
	return token.Error()
}

// Watch receives the events of the daemon until the subscription is
// closed. Undecodable payloads are reported with a nil message.
func (r *Remote) Watch(fn func(msgs.Message, error)) *Subscription {
	return r.Queue.Sub(r.Ref.StateTopic(), func(topic string, payload []byte) {
		fn(msgs.DecodeMessage(payload))
	})
}

// Close implements io.Closer.
func (r *Remote) Close() error {
	return r.Queue.Close()
}
