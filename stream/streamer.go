package stream

import (
	"context"
	"log"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
)

// Publisher delivers encoded frames to an ledrx device.
type Publisher interface {
	Publish(payload []byte) error
}

type mqttPublisher struct {
	client mqtt.Client
	topic  string
}

// NewMQTTPublisher creates a Publisher that sends frames to topic.
func NewMQTTPublisher(client mqtt.Client, topic string) Publisher {
	p := new(mqttPublisher)
	p.client = client
	p.topic = topic
	return p
}

func (p *mqttPublisher) Publish(payload []byte) error {
	token := p.client.Publish(p.topic, 2, false, payload)
	token.Wait()
	return token.Error()
}

// Streamer that streams RGB data frames to an ledrx device.
type Streamer struct {
	publisher Publisher
	animation Animation
	frameRate float64
	start     time.Time
}

// NewStreamer creates an instance of a Streamer.
func NewStreamer(publisher Publisher, animation Animation, frameRate float64) *Streamer {
	s := new(Streamer)
	s.publisher = publisher
	s.animation = animation
	s.frameRate = frameRate
	if s.frameRate <= 0 {
		s.frameRate = 30
	}
	return s
}

// SendFrame renders the animation at runtimeMs and publishes it.
func (s *Streamer) SendFrame(runtimeMs int64) error {
	f := s.animation.CalculateFrame(runtimeMs)
	b, err := f.MarshalBinary()
	if err != nil {
		return err
	}
	return s.publisher.Publish(b)
}

// Run causes the Streamer to send Frames continuously until the context is cancelled.
// Failed publishes are logged and skipped.
func (s *Streamer) Run(ctx context.Context) error {
	s.start = time.Now()
	publishTimer := time.NewTicker(time.Duration(float64(time.Second) / s.frameRate))
	defer publishTimer.Stop()
	for {
		select {
		case <-publishTimer.C:
			if err := s.SendFrame(time.Since(s.start).Milliseconds()); err != nil {
				log.Printf("Failed to publish frame: %v", err)
			}
		case <-ctx.Done():
			return nil
		}
	}
}
