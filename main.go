package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/matt-g-everett/ledtl/api"
	"github.com/matt-g-everett/ledtl/scene"
	"github.com/matt-g-everett/ledtl/stream"
	"github.com/matt-g-everett/ledtl/timeline"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v2"
)

type app struct {
	Config     stream.Config
	Client     mqtt.Client
	Scenes     map[string]*scene.File
	Controller *stream.Controller
	Streamer   *stream.Streamer
	Api        *api.Api
}

func newApp() *app {
	a := new(app)
	a.Scenes = make(map[string]*scene.File)
	return a
}

func (a *app) handleOnConnect(client mqtt.Client) {
	log.Println("Connected")
}

// hooks are the functions scene files can name in loop and callback items.
func hooks() scene.Hooks {
	return scene.Hooks{
		"log": func(since float64) {
			log.Printf("Callback fired %.0fms ago", since)
		},
	}
}

func (a *app) readConfig(configPath string) {
	f, err := os.Open(configPath)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	err = decoder.Decode(&a.Config)
	if err != nil {
		panic(err)
	}
	a.Config.SetDefaults()
}

func (a *app) loadScenes() {
	if len(a.Config.Player.Scenes) == 0 {
		log.Fatal("No scenes configured")
	}

	var animations []stream.Animation
	for _, path := range a.Config.Player.Scenes {
		f, err := scene.Load(path)
		if err != nil {
			log.Fatalf("Failed to load scene: %v", err)
		}

		strip := stream.NewStrip(a.Config.Player.Pixels)
		tl, err := f.Build(&timeline.Env{Access: strip, Resolver: strip}, hooks())
		if err != nil {
			log.Fatalf("Failed to build scene %s: %v", f.Name, err)
		}
		log.Printf("Loaded scene %s (%.0fms)", f.Name, tl.Duration())

		a.Scenes[f.Name] = f
		animations = append(animations, stream.NewTimelineAnimation(f.Name, strip, tl, f.Loop))
	}

	animationTime := time.Duration(a.Config.Player.AnimationSecs * float64(time.Second))
	a.Controller = stream.NewController(animations, a.Config.Player.FrameRate,
		a.Config.Player.TransitionSecs, animationTime)
}

func (a *app) run(ctx context.Context) error {
	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer a.Client.Disconnect(250)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Controller.Run(ctx)
	})
	g.Go(func() error {
		return a.Streamer.Run(ctx)
	})
	g.Go(func() error {
		return a.Api.Serve(ctx, a.Config.Api.Listen)
	})
	return g.Wait()
}

func main() {
	// mqtt.DEBUG = log.New(os.Stdout, "", 0)
	mqtt.ERROR = log.New(os.Stdout, "", 0)

	// Parse command line parameters
	configPath := flag.String("config", "config.yaml", "YAML config file.")
	flag.Parse()

	// Read the config
	a := newApp()
	a.readConfig(*configPath)
	log.Printf("Config: %+v", a.Config.Player)

	a.loadScenes()

	preview, err := api.NewApi(a.Scenes, a.Config.Player.Pixels, hooks(), a.Config.Api.Static)
	if err != nil {
		log.Fatalf("Failed to build previews: %v", err)
	}
	a.Api = preview

	options := mqtt.NewClientOptions().
		AddBroker(a.Config.Mqtt.URL).
		SetClientID(a.Config.Mqtt.ClientID).
		SetUsername(a.Config.Mqtt.Username).
		SetPassword(a.Config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetOnConnectHandler(a.handleOnConnect)
	a.Client = mqtt.NewClient(options)

	publisher := stream.NewMQTTPublisher(a.Client, a.Config.Mqtt.Topics.Stream)
	a.Streamer = stream.NewStreamer(publisher, a.Controller, a.Config.Player.FrameRate)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.run(ctx); err != nil {
		log.Fatal(err)
	}
	log.Println("Stopped")
}
