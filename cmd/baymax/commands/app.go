package commands

import (
	"context"
	"time"

	"github.com/flynn-ai/baymax/internal/agent"
	"github.com/flynn-ai/baymax/internal/capability"
	"github.com/flynn-ai/baymax/internal/capability/email"
	"github.com/flynn-ai/baymax/internal/capability/search"
	"github.com/flynn-ai/baymax/internal/capability/weather"
	"github.com/flynn-ai/baymax/internal/chat"
	"github.com/flynn-ai/baymax/internal/classifier"
	"github.com/flynn-ai/baymax/internal/config"
	"github.com/flynn-ai/baymax/internal/logger"
	"github.com/flynn-ai/baymax/internal/model"
	"github.com/flynn-ai/baymax/internal/session"
)

// app is the fully wired assistant.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	adapter *model.Adapter
	invoker *capability.Invoker
	router  *agent.Router
}

// newApp loads configuration, loads the model and wires the router. Any
// failure here is fatal.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.Logging, "baymax")

	modelCfg, err := cfg.ResolveModel()
	if err != nil {
		return nil, err
	}
	backend, err := model.NewBackend(cfg.Model, log)
	if err != nil {
		return nil, err
	}
	adapter, err := model.New(ctx, modelCfg, backend, log)
	if err != nil {
		return nil, err
	}

	invoker := capability.NewInvoker(newRegistry(cfg.Capabilities), log)
	router := agent.NewRouter(agent.Config{
		Classifier: classifier.NewClassifier(),
		Invoker:    invoker,
		Generator:  chat.NewGenerator(adapter, log),
		Streamer:   adapter,
		Timeout:    time.Duration(cfg.Assistant.ResponseTimeoutSeconds) * time.Second,
		Logger:     log,
	})

	return &app{cfg: cfg, log: log, adapter: adapter, invoker: invoker, router: router}, nil
}

func newRegistry(c config.CapabilitiesConfig) capability.Registry {
	return capability.Registry{
		Weather: weather.New(weather.Config{
			BaseURL: c.Weather.BaseURL,
			Timeout: time.Duration(c.Weather.TimeoutSeconds) * time.Second,
		}),
		Search: search.New(search.Config{
			BaseURL:    c.Search.BaseURL,
			MaxResults: c.Search.MaxResults,
			Timeout:    time.Duration(c.Search.TimeoutSeconds) * time.Second,
		}),
		Email: email.New(email.Config{
			Host:     c.Email.SMTPHost,
			Port:     c.Email.SMTPPort,
			Username: c.Email.Username,
			Password: c.Email.Password,
			From:     c.Email.From,
		}),
	}
}

func (a *app) session() *session.Session {
	return session.New(a.router, a.cfg.Assistant.EchoPrefix, a.log)
}

func (a *app) Close() error {
	return a.adapter.Close()
}
