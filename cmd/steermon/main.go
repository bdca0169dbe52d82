package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"reflect"
	"strings"

	"github.com/robotalks/steerbox/pkg/l1/comm/mqtt"
	"github.com/robotalks/steerbox/pkg/l1/env"
	"github.com/robotalks/steerbox/pkg/l1/msgs"
)

var (
	mqttURL = env.DefaultMQTTURL
	topic   = "#"
)

func init() {
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&topic, "topic", topic, "Topic filter under the prefix.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}
	defer q.Close()

	q.Sub(topic, mqtt.Handler(func(topic string, payload []byte) {
		if strings.HasSuffix(topic, "/meta") {
			log.Printf("%s: %s", topic, string(payload))
			return
		}
		typed, err := msgs.DecodeTyped(payload)
		if err != nil {
			log.Printf("%s: bad message: %v", topic, err)
			return
		}
		msg, err := typed.Decode()
		if err != nil {
			log.Printf("%s: decode error: (type_id=%x) %v", topic, typed.TypeId, err)
			return
		}
		log.Printf("%s: [%s] %s", topic,
			reflect.Indirect(reflect.ValueOf(msg)).Type().Name(),
			msg.Serializable().String())
	}))
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	<-sigCh
}
