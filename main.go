package main

import (
	"context"
	"errors"
	"flag"
	"image"
	"image/color"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/matt-g-everett/vistx/api"
	"github.com/matt-g-everett/vistx/conversation"
	"github.com/matt-g-everett/vistx/effects"
	"github.com/matt-g-everett/vistx/feed"
	"github.com/matt-g-everett/vistx/raster"
	"github.com/matt-g-everett/vistx/render"
	"github.com/matt-g-everett/vistx/spec"
	"github.com/matt-g-everett/vistx/stream"
	"github.com/matt-g-everett/vistx/viewer"
)

type app struct {
	Config   stream.Config
	Client   mqtt.Client
	Store    *conversation.Store
	Remote   *stream.Remote
	Streamer *stream.Streamer
	Source   *feed.MQTTSource
}

func newApp() *app {
	a := new(app)
	return a
}

func (a *app) readConfig(configPath, envPath string) error {
	if err := stream.LoadEnvFile(envPath); err != nil {
		return err
	}
	c, err := stream.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if err := c.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}
	a.Config = c
	return nil
}

func (a *app) handleEvent(ev feed.Event) {
	if vis, ok := a.Store.Apply(ev); ok {
		a.Remote.Load(vis)
	}
}

func (a *app) handleOnConnect(client mqtt.Client) {
	slog.Info("connected to broker", "url", a.Config.Mqtt.URL)
	if a.Source == nil {
		return
	}
	if err := a.Source.Subscribe(a.handleEvent); err != nil {
		slog.Error("feed subscription failed", "error", err)
	}
}

func (a *app) connect() error {
	if a.Config.Mqtt.URL == "" {
		return nil
	}
	options := mqtt.NewClientOptions().
		AddBroker(a.Config.Mqtt.URL).
		SetClientID(a.Config.Mqtt.ClientID).
		SetUsername(a.Config.Mqtt.Username).
		SetPassword(a.Config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetOnConnectHandler(a.handleOnConnect)
	a.Client = mqtt.NewClient(options)
	if a.Config.Mqtt.Topics.Specs != "" {
		a.Source = feed.NewMQTTSource(a.Client, a.Config.Mqtt.Topics.Specs)
	}
	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

func (a *app) publisher() stream.Publisher {
	if a.Client == nil {
		return nil
	}
	return stream.MQTTPublisher{Client: a.Client}
}

func (a *app) playFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	ev, err := feed.DecodeEvent(data)
	if err != nil {
		return err
	}
	a.handleEvent(ev)
	return nil
}

func (a *app) startFeeds(ctx context.Context) {
	if a.Config.Redis.Addr == "" {
		return
	}
	src := feed.NewRedisSource(a.Config.Redis.Addr, a.Config.Redis.Password, a.Config.Redis.DB, a.Config.Redis.Channel)
	go func() {
		defer src.Close()
		if err := src.Run(ctx, a.handleEvent); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("redis feed stopped", "error", err)
		}
	}()
}

func (a *app) startApi(ctx context.Context) {
	if a.Config.HTTP.Addr == "" {
		return
	}
	server := api.NewApi(a.Remote, a.Streamer, a.Store)
	go func() {
		if err := server.Serve(ctx, a.Config.HTTP.Addr); err != nil {
			slog.Error("http server stopped", "error", err)
		}
	}()
}

func (a *app) background() color.Color {
	if c, ok := render.ParseColor(a.Config.Canvas.Background); ok {
		return c
	}
	return color.Black
}

func main() {
	// mqtt.DEBUG = log.New(os.Stdout, "", 0)
	mqtt.ERROR = log.New(os.Stdout, "", 0)

	// Parse command line parameters
	configPath := flag.String("config", "", "YAML config file.")
	envPath := flag.String("env", ".env", "Optional dotenv file.")
	window := flag.Bool("window", false, "Play in a desktop window instead of headless.")
	verbose := flag.Bool("v", false, "Debug logging.")
	specPath := flag.String("spec", "", "Visualization or feed event JSON to play at startup.")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	a := newApp()
	if err := a.readConfig(*configPath, *envPath); err != nil {
		log.Fatalf("config: %v", err)
	}
	slog.Debug("config loaded", "mqtt", a.Config.Mqtt.URL, "redis", a.Config.Redis.Addr, "http", a.Config.HTTP.Addr)

	var linter *spec.Linter
	if a.Config.Player.Lint {
		var err error
		if linter, err = spec.NewLinter(); err != nil {
			log.Fatalf("linter: %v", err)
		}
	}
	a.Store = conversation.NewStore(linter)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.connect(); err != nil {
		log.Fatalf("mqtt: %v", err)
	}
	a.Streamer = stream.NewStreamer(a.publisher(), a.Config.Mqtt.Topics.Frames, a.Config.Player.PublishFPS)

	width, height := a.Config.Canvas.Width, a.Config.Canvas.Height
	renderer := render.NewRenderer()
	if err := effects.Register(renderer, float64(width), float64(height)); err != nil {
		log.Fatalf("effects: %v", err)
	}
	opts := []stream.Option{stream.WithRenderer(renderer)}
	var (
		ctrl     *stream.Controller
		snapshot func() *image.RGBA
		run      func() error
	)
	if *window {
		game, err := viewer.NewGame(ctx, width, height, a.background(), opts...)
		if err != nil {
			log.Fatalf("viewer: %v", err)
		}
		ctrl = game.Controller()
		a.Remote = stream.NewRemote(game.Do, ctrl)
		snapshot = game.Surface().Snapshot
		run = func() error {
			defer stop()
			return viewer.Run(game, "vistx")
		}
	} else {
		canvas, err := raster.NewCanvas(width, height, a.background())
		if err != nil {
			log.Fatalf("canvas: %v", err)
		}
		loop := stream.NewLoop(a.Config.Player.FPS)
		ctrl = stream.NewController(loop, canvas, opts...)
		a.Remote = stream.NewRemote(loop.Do, ctrl)
		snapshot = canvas.Snapshot
		run = func() error { return loop.Run(ctx) }
	}
	ctrl.OnFrame(func(info stream.FrameInfo) {
		a.Streamer.Offer(info, snapshot)
	})

	go a.Streamer.Run(ctx)
	a.startFeeds(ctx)
	a.startApi(ctx)

	if *specPath != "" {
		if err := a.playFile(*specPath); err != nil {
			log.Fatalf("spec: %v", err)
		}
	}

	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("player stopped", "error", err)
	}
	if a.Client != nil {
		a.Client.Disconnect(250)
	}
}
