package main

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"grammar_enhancer/bridge"
	"grammar_enhancer/config"
	"grammar_enhancer/improver"
	"grammar_enhancer/selection"
	"grammar_enhancer/settings"
	"grammar_enhancer/trigger"
)

func testConfig(provider, baseURL string) config.Config {
	cfg := config.Default()
	cfg.LLM.Provider = provider
	cfg.LLM.BaseURL = baseURL
	return cfg
}

func TestBuildLLM(t *testing.T) {
	secrets := settings.NewMemoryStore("sk-test")

	llm, err := buildLLM(testConfig("openai", ""), secrets)
	require.NoError(t, err)
	require.IsType(t, &improver.OpenAILLM{}, llm)

	llm, err = buildLLM(testConfig("deepseek", "https://api.deepseek.com/v1"), secrets)
	require.NoError(t, err)
	require.IsType(t, &improver.OpenAILLM{}, llm)

	_, err = buildLLM(testConfig("deepseek", ""), secrets)
	require.ErrorContains(t, err, "base_url")

	llm, err = buildLLM(testConfig("mock", ""), secrets)
	require.NoError(t, err)
	require.IsType(t, improver.MockLLM{}, llm)

	_, err = buildLLM(testConfig("gemini", ""), secrets)
	require.ErrorContains(t, err, "not supported")

	_, err = buildLLM(config.Config{}, secrets)
	require.Error(t, err)
}

func TestBuildLLM_CarriesFixedParameters(t *testing.T) {
	llm, err := buildLLM(testConfig("openai", ""), settings.NewMemoryStore(""))
	require.NoError(t, err)
	o := llm.(*improver.OpenAILLM)
	require.Equal(t, "gpt-4o-mini", o.Model)
	require.EqualValues(t, 1000, o.MaxTokens)
	require.InDelta(t, 0.7, o.Temperature, 1e-9)
}

func TestReadText(t *testing.T) {
	text, err := readText([]string{"this", "are", "bad"}, strings.NewReader("ignored"))
	require.NoError(t, err)
	require.Equal(t, "this are bad", text)

	text, err = readText(nil, strings.NewReader("line one\nline two\n"))
	require.NoError(t, err)
	require.Equal(t, "line one\nline two\n", text)
}

func TestSelectionSource(t *testing.T) {
	cfg := config.Default()

	src, err := selectionSource(cfg, "")
	require.NoError(t, err)
	require.IsType(t, selection.Primary{}, src)

	_, err = selectionSource(cfg, "browser")
	require.ErrorContains(t, err, "browser_url")

	cfg.Selection.BrowserURL = "ws://127.0.0.1:9222/devtools/browser/abc"
	src, err = selectionSource(cfg, "browser")
	require.NoError(t, err)
	require.Equal(t, selection.Browser{ControlURL: cfg.Selection.BrowserURL}, src)

	_, err = selectionSource(cfg, "ocr")
	require.Error(t, err)
}

func TestListenAddr(t *testing.T) {
	require.Equal(t, ":9000", listenAddr(":9000", "127.0.0.1:8787"))
	require.Equal(t, "127.0.0.1:8787", listenAddr("", "127.0.0.1:8787"))
}

func TestRootCommands(t *testing.T) {
	root := newRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "run", "improve", "shortcut", "key"} {
		require.True(t, names[want], "missing command %s", want)
	}

	for _, c := range root.Commands() {
		switch c.Name() {
		case "run", "improve", "shortcut":
			require.Equal(t, "true", c.Annotations[tuiAnnotation], c.Name())
		default:
			require.Empty(t, c.Annotations[tuiAnnotation], c.Name())
		}
	}
}

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	body := "llm:\n  provider: mock\nsettings:\n  backend: file\n  path: " + filepath.Join(dir, "settings.json") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestKeyCommands(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)

	out := execute(t, "--config", cfgPath, "key", "show")
	require.Equal(t, "No API key saved.\n", out)

	out = execute(t, "--config", cfgPath, "key", "set", "sk-live-5678")
	require.Equal(t, "API key saved successfully!\n", out)

	out = execute(t, "--config", cfgPath, "key", "show")
	require.Equal(t, "API key saved (ending in 5678).\n", out)
	require.NotContains(t, out, "sk-live")
}

func TestLogFile(t *testing.T) {
	dir := t.TempDir()
	a := &app{logPath: filepath.Join(dir, "logs", "ge.log")}
	path, err := a.logFile()
	require.NoError(t, err)
	require.Equal(t, a.logPath, path)
	info, err := os.Stat(filepath.Join(dir, "logs"))
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestBindFailsOnBusyPort(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	_, err = bind(busy.Addr().String())
	require.ErrorContains(t, err, "listen on "+busy.Addr().String())
}

func TestServeStopsOnCancel(t *testing.T) {
	a := &app{logger: zap.NewNop()}
	ln, err := bind("127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- a.serve(ctx, ln, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "ok")
		}))
	}()

	resp, err := http.Get("http://" + ln.Addr().String())
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, "ok", string(body))

	cancel()
	require.NoError(t, <-done)
}

func TestSelectionSources(t *testing.T) {
	cfg := config.Default()
	cfg.Selection.BrowserURL = "ws://127.0.0.1:9222/devtools/browser/abc"

	srcs, err := selectionSources(cfg, "")
	require.NoError(t, err)
	require.Len(t, srcs, 1)

	srcs, err = selectionSources(cfg, "primary, browser")
	require.NoError(t, err)
	require.Len(t, srcs, 2)
	require.IsType(t, selection.Primary{}, srcs[0])
	require.IsType(t, selection.Browser{}, srcs[1])

	_, err = selectionSources(cfg, "primary,ocr")
	require.Error(t, err)
}

type recordingChannel struct {
	mu    sync.Mutex
	texts []string
}

func (c *recordingChannel) Send(_ context.Context, msg bridge.Message) (bridge.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.texts = append(c.texts, msg.Text)
	return bridge.Response{Success: true, ImprovedText: msg.Text}, nil
}

func (c *recordingChannel) sent() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.texts...)
}

func TestPage_OnlyFrameWithSelectionAnswers(t *testing.T) {
	a := &app{cfg: config.Default(), logger: zap.NewNop()}
	ch := &recordingChannel{}
	p, err := a.newPage(ch, selection.NewStatic(""), selection.NewStatic("teh text"))
	require.NoError(t, err)
	defer p.Close()

	d := trigger.NewDispatcher(zap.NewNop())
	unregister := p.register(d)
	require.Equal(t, 2, d.Frames())

	d.OnCommand(context.Background(), trigger.CommandImproveGrammar)
	for _, f := range p.frames {
		f.Wait()
	}
	require.Equal(t, []string{"teh text"}, ch.sent())

	unregister()
	require.Zero(t, d.Frames())
}

func TestPage_SingleFrameAnswersWithoutSelection(t *testing.T) {
	a := &app{cfg: config.Default(), logger: zap.NewNop()}
	ch := &recordingChannel{}
	p, err := a.newPage(ch, selection.NewStatic(""))
	require.NoError(t, err)
	defer p.Close()

	p.frames[0].HandleTrigger(context.Background(), trigger.ProcessText("menu text"))
	p.frames[0].Wait()
	require.Equal(t, []string{"menu text"}, ch.sent())

	_, err = a.newPage(ch)
	require.Error(t, err)
}
