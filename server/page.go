package server

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/yuin/goldmark"
	"go.uber.org/zap"
)

//go:embed web/settings.html web/howto.md
var webFS embed.FS

type settingsPage struct {
	tmpl  *template.Template
	howTo template.HTML
}

func newSettingsPage() (*settingsPage, error) {
	tmpl, err := template.ParseFS(webFS, "web/settings.html")
	if err != nil {
		return nil, err
	}
	md, err := webFS.ReadFile("web/howto.md")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := goldmark.Convert(md, &buf); err != nil {
		return nil, err
	}
	return &settingsPage{tmpl: tmpl, howTo: template.HTML(buf.String())}, nil
}

type pageData struct {
	HasAPIKey  bool
	APIKeyHint string
	HowTo      template.HTML
}

func (s *Server) settingsPage(w http.ResponseWriter, r *http.Request) {
	st, err := s.loadSettings(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = s.page.tmpl.Execute(w, pageData{
		HasAPIKey:  st.HasAPIKey,
		APIKeyHint: st.APIKeyHint,
		HowTo:      s.page.howTo,
	})
	if err != nil {
		s.logger.Warn("render settings page", zap.Error(err))
	}
}
