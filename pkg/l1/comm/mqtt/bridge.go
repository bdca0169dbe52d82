package mqtt

import (
	"context"
	"encoding/json"

	"github.com/golang/glog"

	"github.com/robotalks/steerbox/pkg/l1"
	"github.com/robotalks/steerbox/pkg/l1/msgs"
)

// Bridge exposes a daemon on MQTT. It publishes events on the state
// topic and passes commands received on the cmd topic to Handler.
type Bridge struct {
	Queue   *Queue
	Info    l1.Info
	Handler l1.CommandHandler

	metaJSON []byte
}

// NewBridge creates a Bridge. The retained meta is cleared by the will
// if the daemon goes away unexpectedly.
func NewBridge(brokerURL string, info l1.Info, handler l1.CommandHandler) (*Bridge, error) {
	meta, err := json.Marshal(&info.Meta)
	if err != nil {
		return nil, err
	}
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(topicPrefix+info.Ref.MetaTopic(), nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("steerbox:" + info.Ref.Name())
	}
	b := &Bridge{
		Queue:    NewQueue(opts, topicPrefix),
		Info:     info,
		Handler:  handler,
		metaJSON: meta,
	}
	b.Queue.OnConnect = func(q *Queue) {
		q.PubWith(b.Info.Ref.MetaTopic(), b.metaJSON, 1, true)
	}
	b.Queue.Sub(info.Ref.CmdTopic(), b.handleCommand)
	return b, nil
}

// Name implements Named.
func (b *Bridge) Name() string {
	return "mqtt-bridge"
}

// Publish implements l1.Publisher.
func (b *Bridge) Publish(msg msgs.Message) error {
	data, err := msgs.Encode(msg)
	if err != nil {
		return err
	}
	b.Queue.Pub(b.Info.Ref.StateTopic(), data)
	return nil
}

// Run implements Runnable.
func (b *Bridge) Run(ctx context.Context) error {
	if token := b.Queue.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	<-ctx.Done()
	b.Queue.PubWith(b.Info.Ref.MetaTopic(), nil, 1, true).Wait()
	b.Queue.Close()
	return ctx.Err()
}

func (b *Bridge) handleCommand(topic string, payload []byte) {
	typed, err := msgs.DecodeTyped(payload)
	if err != nil {
		glog.Errorf("decode command error: %v", err)
		return
	}
	if !typed.IsCommand() {
		glog.Warningf("ignore non-command %x on %s", typed.TypeId, topic)
		return
	}
	msg, err := typed.Decode()
	if err == nil {
		err = b.Handler.HandleCommand(msg)
	}
	if err != nil {
		glog.Errorf("command %x error: %v", typed.TypeId, err)
		if err = b.Publish(msgs.NewCommandErr(err)); err != nil {
			glog.Errorf("publish error: %v", err)
		}
	}
}
