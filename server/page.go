package server

import (
	"bytes"
	"net/http"

	"github.com/sirupsen/logrus"

	"voicespeaker/languages"
)

type feature struct {
	Icon        string
	Title       string
	Description string
}

var features = []feature{
	{"🌐", "10+ Languages", "High-quality speech in English, Urdu, Hindi, Arabic, Spanish, French, Chinese, Russian, German, and Japanese"},
	{"⌨️", "Romanized Input", "Type Urdu/Hindi in English letters (like 'aap kaise hain') and get perfect native pronunciation"},
	{"📱", "Mobile Optimized", "Works perfectly on all devices with touch-friendly controls"},
	{"🔄", "RTL Support", "Proper right-to-left display for Urdu and Arabic with correct text alignment"},
}

type pageData struct {
	AppName      string
	Provider     string
	Languages    []languages.Language
	Showcase     []languages.Language
	QuickPhrases []languages.Phrase
	Features     []feature
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		AppName:      AppName,
		Provider:     s.svc.Provider(),
		Languages:    languages.All(),
		Showcase:     languages.Showcase(),
		QuickPhrases: languages.QuickPhrases,
		Features:     features,
	}

	// render fully before writing so a template error can still be a 500
	buf := bytes.NewBuffer(nil)
	if err := pageTemplate.Execute(buf, data); err != nil {
		logrus.WithError(err).Errorln("failed to render page")
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
