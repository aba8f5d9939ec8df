package stream

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v2"
)

type chanPublisher struct {
	payloads chan []byte
	err      error
}

func (p *chanPublisher) Publish(payload []byte) error {
	select {
	case p.payloads <- payload:
	default:
	}
	return p.err
}

func TestSendFrame(t *testing.T) {
	p := &chanPublisher{payloads: make(chan []byte, 1)}
	s := NewStreamer(p, &solidAnimation{color: colorful.Color{G: 1}}, 30)

	if err := s.SendFrame(0); err != nil {
		t.Fatal(err)
	}
	payload := <-p.payloads
	if len(payload) != 5 || payload[3] != 255 {
		t.Errorf("unexpected payload %v", payload)
	}

	p.err = errors.New("offline")
	if err := s.SendFrame(10); err != p.err {
		t.Errorf("expected the publish error, got %v", err)
	}
}

func TestStreamerRun(t *testing.T) {
	p := &chanPublisher{payloads: make(chan []byte, 16)}
	s := NewStreamer(p, &solidAnimation{}, 500)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error)
	go func() { done <- s.Run(ctx) }()
	for i := 0; i < 3; i++ {
		select {
		case <-p.payloads:
		case <-time.After(time.Second):
			t.Fatal("no frame published")
		}
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestConfig(t *testing.T) {
	var c Config
	err := yaml.Unmarshal([]byte(`
mqtt:
  url: tcp://broker:1883
  topics:
    stream: tree/stream
player:
  pixels: 50
  scenes: [a.yaml, b.yaml]
`), &c)
	if err != nil {
		t.Fatal(err)
	}
	c.SetDefaults()

	if c.Mqtt.URL != "tcp://broker:1883" || c.Mqtt.Topics.Stream != "tree/stream" {
		t.Errorf("unexpected mqtt config %+v", c.Mqtt)
	}
	if c.Player.Pixels != 50 || len(c.Player.Scenes) != 2 || c.Player.FrameRate != 30 {
		t.Errorf("unexpected player config %+v", c.Player)
	}
	if c.Mqtt.ClientID != "ledtl" || c.Api.Listen != ":3000" {
		t.Errorf("defaults not applied: %+v %+v", c.Mqtt, c.Api)
	}
}
