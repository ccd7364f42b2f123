// Package stream publishes per-update trait summaries to a socket.io
// server.
package stream

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/evogrid/internal/module"
	"github.com/vk/evogrid/internal/registry"
	"github.com/vk/evogrid/internal/trait"
)

const typeName = "Stream"

type Plugin struct{}

// Input holds the settings of a `module "Stream"` block.
type Input struct {
	URL                string   `hcl:"url"`
	Namespace          string   `hcl:"namespace,optional"`
	Event              string   `hcl:"event,optional"`
	Target             string   `hcl:"target"`
	Traits             []string `hcl:"traits"`
	Every              uint64   `hcl:"every,optional"`
	Timeout            string   `hcl:"timeout,optional"`
	InsecureSkipVerify bool     `hcl:"insecure_skip_verify,optional"`
}

func newInput() any {
	return &Input{Namespace: "/", Event: "update", Every: 1, Timeout: "10s"}
}

func (Plugin) Register(r *registry.Registry) {
	r.Register(&registry.Entry{
		Type:     typeName,
		Desc:     "Emits trait means over socket.io every few updates.",
		NewInput: newInput,
		New: func(name string, input any) (module.Module, error) {
			return New(name, *input.(*Input), Dial)
		},
	})
}

// Emitter is the part of a socket.io client the module uses.
type Emitter interface {
	Emit(ev string, args ...any) error
	Close()
}

// DialFunc connects an Emitter.
type DialFunc func(ctx context.Context, logger *slog.Logger, input Input) (Emitter, error)

// Stream emits one message per due update.
type Stream struct {
	module.Base
	input   Input
	timeout time.Duration
	dial    DialFunc
	conn    Emitter
}

func New(name string, input Input, dial DialFunc) (*Stream, error) {
	if input.URL == "" {
		return nil, fmt.Errorf("url is required")
	}
	if input.Target == "" || len(input.Traits) == 0 {
		return nil, fmt.Errorf("target and traits are required")
	}
	timeout, err := time.ParseDuration(input.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout %q: %w", input.Timeout, err)
	}
	if input.Every == 0 {
		input.Every = 1
	}
	return &Stream{
		Base:    module.NewBase(name, typeName, "Emits trait means over socket.io."),
		input:   input,
		timeout: timeout,
		dial:    dial,
	}, nil
}

func (s *Stream) SetupModule(h module.Host) error {
	for _, eq := range s.input.Traits {
		s.AddRequiredEquation(eq)
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	conn, err := s.dial(ctx, h.Logger().With("module", s.Name(), "url", s.input.URL), s.input)
	if err != nil {
		return err
	}
	s.conn = conn
	return nil
}

// Message is the payload of one emitted event.
type Message struct {
	Tick   uint64            `json:"tick"`
	Target string            `json:"target"`
	Values map[string]string `json:"values"`
}

func (s *Stream) OnUpdate(tick uint64) {
	if s.conn == nil || tick%s.input.Every != 0 {
		return
	}
	h := s.Host()
	coll, err := h.ToCollection(s.input.Target)
	if err != nil {
		h.AddError("module %q: %s", s.Name(), err)
		return
	}
	msg := Message{Tick: tick, Target: s.input.Target, Values: make(map[string]string, len(s.input.Traits))}
	for _, eq := range s.input.Traits {
		v, err := h.TraitSummary(coll, eq, "mean")
		if err != nil {
			h.AddError("module %q: %s", s.Name(), err)
			return
		}
		msg.Values[eq] = trait.Format(v)
	}
	if err := s.conn.Emit(s.input.Event, msg); err != nil {
		h.AddWarning("module %q: emit failed: %s", s.Name(), err)
	}
}

func (s *Stream) BeforeExit() {
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}

type client struct {
	io *socket.Socket
}

func (c *client) Emit(ev string, args ...any) error { return c.io.Emit(ev, args...) }
func (c *client) Close()                            { c.io.Disconnect() }

// Dial connects to a socket.io server over websocket and waits for the
// connection to be acknowledged or ctx to end.
func Dial(ctx context.Context, logger *slog.Logger, input Input) (Emitter, error) {
	parsedURL, err := url.Parse(input.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if input.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(input.Namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Stream connected", "sid", io.Id())
		notify(connectChan, nil)
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		var err error = fmt.Errorf("connect error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		notify(connectChan, err)
	})

	logger.Debug("Initiating stream connection...")
	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &client{io: io}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("waiting for socket.io connection: %w", ctx.Err())
	}
}

func notify(ch chan<- error, err error) {
	select {
	case ch <- err:
	default:
	}
}
