package main

import (
	"fmt"
	"strings"

	"grammar_enhancer/bridge"
	"grammar_enhancer/config"
	"grammar_enhancer/improver"
	"grammar_enhancer/selection"
	"grammar_enhancer/settings"
)

// background is the privileged side: the settings store and the completion client.
type background struct {
	store   settings.Store
	handler *bridge.Background
}

func (a *app) openBackground() (*background, error) {
	store, err := settings.Open(a.cfg.Settings)
	if err != nil {
		return nil, err
	}
	llm, err := buildLLM(a.cfg, store)
	if err != nil {
		_ = settings.Close(store)
		return nil, err
	}
	imp, err := improver.New(llm, a.logger.Named("improver"))
	if err != nil {
		_ = settings.Close(store)
		return nil, err
	}
	return &background{
		store:   store,
		handler: bridge.NewBackground(imp, a.logger.Named("background")),
	}, nil
}

func (b *background) Close() error {
	return settings.Close(b.store)
}

func buildLLM(cfg config.Config, secrets improver.SecretSource) (improver.LLMClient, error) {
	if cfg.LLM == nil || cfg.LLM.Provider == "" {
		return nil, fmt.Errorf("llm config missing; please set llm.provider in config")
	}
	llmCfg := &improver.LLMSettings{
		Provider:  cfg.LLM.Provider,
		Model:     cfg.LLM.Model,
		BaseURL:   cfg.LLM.BaseURL,
		MaxTokens: cfg.LLM.MaxTokens,
	}
	if cfg.LLM.Temperature != nil {
		llmCfg.Temperature = *cfg.LLM.Temperature
	}
	switch cfg.LLM.Provider {
	case "openai":
		return improver.NewOpenAILLMFromConfig(llmCfg, secrets)
	case "deepseek":
		// DeepSeek 提供 OpenAI 兼容接口，需填写 base_url（例如官方/网关地址）。
		if cfg.LLM.BaseURL == "" {
			return nil, fmt.Errorf("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		return improver.NewOpenAILLMFromConfig(llmCfg, secrets)
	case "mock":
		return improver.MockLLM{}, nil
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.LLM.Provider)
	}
}

// channel returns the page→background channel: over HTTP when remote is set,
// otherwise a background in this process. The returned close func releases it.
func (a *app) channel(remote string) (bridge.Channel, func(), error) {
	if remote != "" {
		return bridge.NewHTTPChannel(remote, nil), func() {}, nil
	}
	bg, err := a.openBackground()
	if err != nil {
		return nil, nil, err
	}
	return bridge.NewInProcess(bg.handler), func() { _ = bg.Close() }, nil
}

// selectionSources resolves a comma separated list such as "primary,browser".
// Each source becomes its own frame of the page.
func selectionSources(cfg config.Config, list string) ([]selection.Source, error) {
	if list == "" {
		list = cfg.Selection.Source
	}
	var srcs []selection.Source
	for _, name := range strings.Split(list, ",") {
		src, err := selectionSource(cfg, strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		srcs = append(srcs, src)
	}
	return srcs, nil
}

func selectionSource(cfg config.Config, name string) (selection.Source, error) {
	if name == "" {
		name = cfg.Selection.Source
	}
	switch name {
	case "primary":
		return selection.Primary{}, nil
	case "browser":
		if cfg.Selection.BrowserURL == "" {
			return nil, fmt.Errorf("selection source browser requires selection.browser_url")
		}
		return selection.Browser{ControlURL: cfg.Selection.BrowserURL}, nil
	default:
		return nil, fmt.Errorf("selection source %s not supported", name)
	}
}
