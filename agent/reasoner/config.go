package reasoner

import (
	"context"
	"strings"
	"sync"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/rs/zerolog/log"

	configx "github.com/yuhsuanko/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/pkg/config"
	openrouterx "github.com/yuhsuanko/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/pkg/openrouter"
)

// Config selects the reasoning backend. Per-operation model and temperature
// overrides fall back to the shared defaults when unset.
type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.2"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`

	ClassifierModel        string  `envconfig:"CLASSIFIER_MODEL" split_words:"true"`
	PlannerModel           string  `envconfig:"PLANNER_MODEL" split_words:"true"`
	SynthesizerModel       string  `envconfig:"SYNTHESIZER_MODEL" split_words:"true"`
	ClassifierTemperature  float32 `envconfig:"CLASSIFIER_TEMPERATURE" split_words:"true" default:"-1"`
	PlannerTemperature     float32 `envconfig:"PLANNER_TEMPERATURE" split_words:"true" default:"-1"`
	SynthesizerTemperature float32 `envconfig:"SYNTHESIZER_TEMPERATURE" split_words:"true" default:"-1"`
}

// Enabled reports whether a reasoning backend is configured at all. Without
// one the adapter runs offline on the rule tables.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.APIKey) != "" && strings.TrimSpace(c.Model) != ""
}

func (c Config) builderFor(modelOverride string, tempOverride float32) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	if v := strings.TrimSpace(modelOverride); v != "" {
		modelName = v
	}
	temp := c.Temperature
	if tempOverride >= 0 {
		temp = tempOverride
	}

	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
	}
}

// NewFromConfig builds the adapter with one chat model per operation.
func NewFromConfig(ctx context.Context, cfg Config) (*Adapter, error) {
	build := func(modelOverride string, tempOverride float32) (einomodel.BaseChatModel, error) {
		builder := cfg.builderFor(modelOverride, tempOverride)
		return builder.New(ctx)
	}

	classifier, err := build(cfg.ClassifierModel, cfg.ClassifierTemperature)
	if err != nil {
		return nil, err
	}
	planner, err := build(cfg.PlannerModel, cfg.PlannerTemperature)
	if err != nil {
		return nil, err
	}
	synthesizer, err := build(cfg.SynthesizerModel, cfg.SynthesizerTemperature)
	if err != nil {
		return nil, err
	}

	return New(ctx, ModelSet{
		Classifier:  classifier,
		Planner:     planner,
		Synthesizer: synthesizer,
	}, cfg.Timeout)
}

var (
	defaultOnce    sync.Once
	defaultAdapter *Adapter
)

// Default returns the process-wide adapter handle, initialized at most once
// and safe under concurrent first use. A missing or broken backend
// configuration yields the offline adapter rather than an error; the engine
// must keep answering from the rule tables.
func Default(ctx context.Context) *Adapter {
	defaultOnce.Do(func() {
		cfg, err := configx.New[Config]("REASONER")
		if err != nil {
			log.Warn().Err(err).Msg("reasoner config unreadable, running offline")
			defaultAdapter = NewOffline()
			return
		}
		if !cfg.Enabled() {
			log.Info().Msg("no reasoning backend configured, running offline")
			defaultAdapter = NewOffline()
			return
		}

		adapter, err := NewFromConfig(ctx, *cfg)
		if err != nil {
			log.Warn().Err(err).Msg("reasoner init failed, running offline")
			defaultAdapter = NewOffline()
			return
		}
		defaultAdapter = adapter
	})
	return defaultAdapter
}
