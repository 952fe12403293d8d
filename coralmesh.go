// Package coralmesh provides a high-level façade over the hub client, model
// adapters, dispatch engine and front ends. Most applications interact with
// this package by:
//  1. Loading configuration via config.Load()
//  2. Creating a Mesh via New() (optionally overriding the hub client, model
//     or engine)
//  3. Running either the relay loop (worker agent) or the console front end
//     (coordinator agent)
//
// All wiring is explicit; there are no package-level singletons. Defaults are
// safe for local development against a hub on localhost.
package coralmesh

import (
	"strings"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/hupe1980/coralmesh/config"
	"github.com/hupe1980/coralmesh/core"
	"github.com/hupe1980/coralmesh/engine"
	"github.com/hupe1980/coralmesh/frontend"
	"github.com/hupe1980/coralmesh/hub"
	"github.com/hupe1980/coralmesh/logging"
	"github.com/hupe1980/coralmesh/model"
	anthropicmodel "github.com/hupe1980/coralmesh/model/anthropic"
	openaimodel "github.com/hupe1980/coralmesh/model/openai"
	"github.com/hupe1980/coralmesh/relay"
	"github.com/hupe1980/coralmesh/tool"
	"github.com/hupe1980/coralmesh/voice"
)

// Options configure the Mesh instance.
type Options struct {
	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger

	// HubClient overrides the HTTP hub client built from the configuration.
	HubClient hub.Client

	// Model overrides the model adapter selected by MODEL_PROVIDER.
	Model model.Model

	// Engine overrides the default tool-calling engine.
	Engine engine.Engine

	// Tools are registered in addition to the hub operation tools.
	Tools []tool.Tool

	// MaxModelCalls bounds model round trips per dispatch (0 = engine default).
	MaxModelCalls int
}

// Mesh aggregates the wired components of one agent process.
type Mesh struct {
	cfg        *config.Config
	logger     logging.Logger
	hubClient  hub.Client
	model      model.Model
	engine     engine.Engine
	catalog    *tool.Catalog
	transcript *voice.Transcript
}

// New wires a Mesh from resolved configuration. Any unset component is built
// from the configuration: the hub HTTP client from CORAL_SSE_URL and
// CORAL_AGENT_ID, the model adapter from MODEL_PROVIDER.
func New(cfg *config.Config, optFns ...func(o *Options)) (*Mesh, error) {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	hubClient := opts.HubClient
	if hubClient == nil {
		hubClient = hub.NewHTTPClient(cfg.HubURL, cfg.AgentID, func(o *hub.HTTPClientOptions) {
			o.Timeout = cfg.RequestTimeout
			o.Logger = opts.Logger
			o.AgentDescription = cfg.AgentDescription
		})
	}

	m := opts.Model
	if m == nil {
		var err error
		if m, err = newModel(cfg.Model); err != nil {
			return nil, err
		}
	}

	catalog := tool.NewCatalog(hub.Tools(hubClient)...)
	for _, t := range opts.Tools {
		catalog.Add(t)
	}

	eng := opts.Engine
	if eng == nil {
		eng = engine.NewToolCallingEngine(m, catalog, func(o *engine.ToolCallingOptions) {
			o.Logger = opts.Logger
			if opts.MaxModelCalls > 0 {
				o.MaxModelCalls = opts.MaxModelCalls
			}
		})
	}

	return &Mesh{
		cfg:        cfg,
		logger:     opts.Logger,
		hubClient:  hubClient,
		model:      m,
		engine:     eng,
		catalog:    catalog,
		transcript: &voice.Transcript{},
	}, nil
}

// HubClient returns the wired hub client.
func (m *Mesh) HubClient() hub.Client { return m.hubClient }

// Engine returns the wired dispatch engine.
func (m *Mesh) Engine() engine.Engine { return m.engine }

// Catalog returns the wired tool catalog.
func (m *Mesh) Catalog() *tool.Catalog { return m.catalog }

// Transcript returns the voice transcript shared between the session manager
// and the conversation bridge.
func (m *Mesh) Transcript() *voice.Transcript { return m.transcript }

// RelayLoop builds the worker-side orchestration loop: poll for mentions,
// dispatch, reply, sleep, forever. The hub-side long-poll window follows the
// configured request timeout.
func (m *Mesh) RelayLoop(optFns ...func(o *relay.Options)) *relay.Loop {
	return relay.NewLoop(m.hubClient, m.engine, func(o *relay.Options) {
		o.PollTimeout = m.cfg.RequestTimeout
		o.ToolCatalog = m.catalog.Describe()
		o.Logger = m.logger
		for _, fn := range optFns {
			fn(o)
		}
	})
}

// Bridge builds the single-shot conversation bridge with a bounded query
// history, shared with any voice session via the mesh transcript.
func (m *Mesh) Bridge() *voice.Bridge {
	return voice.NewBridge(m.engine, m.transcript, func(o *voice.BridgeOptions) {
		o.History = core.NewBoundedHistory(core.DefaultHistoryCapacity)
		o.ToolCatalog = m.catalog.Describe()
		o.Logger = m.logger
	})
}

// SessionManager builds the bounded voice session manager over a provider.
func (m *Mesh) SessionManager(provider voice.Provider, optFns ...func(o *voice.SessionOptions)) *voice.SessionManager {
	return voice.NewSessionManager(provider, m.transcript, func(o *voice.SessionOptions) {
		o.Logger = m.logger
		for _, fn := range optFns {
			fn(o)
		}
	})
}

// Frontend builds the console front end. provider may be nil to disable
// voice mode.
func (m *Mesh) Frontend(source frontend.Source, provider voice.Provider, optFns ...func(o *frontend.Options)) *frontend.Selector {
	var sessions *voice.SessionManager
	if provider != nil {
		sessions = m.SessionManager(provider)
	}

	return frontend.NewSelector(source, m.Bridge(), sessions, func(o *frontend.Options) {
		o.Logger = m.logger
		for _, fn := range optFns {
			fn(o)
		}
	})
}

// newModel selects the model adapter by provider name.
func newModel(cfg config.ModelConfig) (model.Model, error) {
	switch strings.ToLower(cfg.Provider) {
	case "anthropic":
		return anthropicmodel.NewModel(func(o *anthropicmodel.Options) {
			if cfg.Name != "" {
				o.Model = anthropicsdk.Model(cfg.Name)
			}
			o.Temperature = cfg.Temperature
			o.MaxTokens = cfg.MaxTokens
			o.APIKey = cfg.APIKey
			o.BaseURL = cfg.BaseURL
		}), nil
	case "openai", "":
		return openaimodel.NewModel(func(o *openaimodel.Options) {
			if cfg.Name != "" {
				o.Model = cfg.Name
			}
			o.Temperature = cfg.Temperature
			o.MaxCompletionTokens = cfg.MaxTokens
			o.APIKey = cfg.APIKey
			o.BaseURL = cfg.BaseURL
		}), nil
	default:
		return nil, &config.Error{Message: "unsupported model provider: " + cfg.Provider}
	}
}
