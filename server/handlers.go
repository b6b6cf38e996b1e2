package server

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"voicespeaker/audio"
	"voicespeaker/languages"
	"voicespeaker/speaker"
	"voicespeaker/transliteration"
)

const (
	headerConvertedText = "X-Converted-Text"
	headerDuration      = "X-Audio-Duration"
	headerSlow          = "X-Slow-Speech"
)

type textRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type languageResponse struct {
	languages.Language
	Slow           bool `json:"slow"`
	Transliterated bool `json:"transliterated"`
}

type convertResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	RTL      bool   `json:"rtl"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	all := languages.All()
	out := make([]languageResponse, 0, len(all))
	for _, l := range all {
		out = append(out, languageResponse{
			Language:       l,
			Slow:           languages.SlowSpeech(l.Code),
			Transliterated: transliteration.Supported(l.Code),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	lang, err := resolveLanguage(req.Language)
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, convertResponse{
		Text:     s.svc.Convert(req.Text, lang),
		Language: lang.Name,
		RTL:      lang.RTL,
	})
}

func (s *Server) handleSpeak(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	s.speak(w, r, req, audio.FormatMP3, false)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := textRequest{
		Text:     query.Get("text"),
		Language: query.Get("language"),
	}
	s.speak(w, r, req, query.Get("format"), true)
}

func (s *Server) speak(w http.ResponseWriter, r *http.Request, req textRequest, format string, attachment bool) {
	lang, err := resolveLanguage(req.Language)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	if format == "" {
		format = audio.FormatMP3
	}
	format = strings.ToLower(format)
	contentType, err := audio.MimeType(format)
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	res, err := s.svc.Speak(r.Context(), speaker.Request{Text: req.Text, Language: lang})
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	data := res.Audio.Data
	if format == audio.FormatWAV {
		data, err = audio.ToWAV(data)
		if err != nil {
			logrus.WithError(err).Errorln("failed to transcode to wav")
			writeError(w, http.StatusInternalServerError, "failed to prepare wav audio")
			return
		}
	}

	h := w.Header()
	h.Set("Content-Type", contentType)
	h.Set("Content-Length", strconv.Itoa(len(data)))
	h.Set(headerConvertedText, url.PathEscape(res.Text))
	h.Set(headerSlow, strconv.FormatBool(res.Slow))
	if res.Duration > 0 {
		h.Set(headerDuration, strconv.FormatFloat(res.Duration.Seconds(), 'f', 2, 64))
	}
	if attachment {
		h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
			"filename": audio.FileName(lang.Name, format),
		}))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logrus.WithError(err).Debugln("client went away while writing audio")
	}
}

// resolveLanguage falls back to the default language when none is given.
func resolveLanguage(nameOrCode string) (languages.Language, error) {
	if strings.TrimSpace(nameOrCode) == "" {
		return languages.Default(), nil
	}
	return languages.Resolve(nameOrCode)
}

func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	status, msg := failureStatus(err)
	if status >= http.StatusInternalServerError {
		logrus.WithError(err).Errorln("request failed")
	}
	writeError(w, status, msg)
}

func failureStatus(err error) (int, string) {
	var synthErr *speaker.SynthesisError
	switch {
	case errors.Is(err, speaker.ErrEmptyInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, speaker.ErrTextTooLong):
		return http.StatusRequestEntityTooLarge, err.Error()
	case errors.Is(err, languages.ErrUnsupportedLanguage):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, audio.ErrUnknownFormat):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &synthErr):
		return http.StatusBadGateway, synthErr.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Debugln("failed to write json response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
