package httpserver

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/w-h-a/librarian"
	"github.com/w-h-a/librarian/moderation"
	"github.com/w-h-a/librarian/speech"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Asker is the orchestrator surface the transport needs.
type Asker interface {
	Ask(ctx context.Context, query string, conv *librarian.Conversation) (librarian.Outcome, error)
}

type Server struct {
	options   Options
	asker     Asker
	moderator moderation.Moderator
	speech    speech.Speech
	router    *mux.Router
}

func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	for i := len(s.options.Middleware) - 1; i >= 0; i-- {
		h = s.options.Middleware[i](h)
	}
	return otelhttp.NewHandler(h, "librarian")
}

func (s *Server) Run() error {
	return http.ListenAndServe(s.options.Address, s.Handler())
}

func NewServer(asker Asker, moderator moderation.Moderator, sp speech.Speech, opts ...Option) *Server {
	if asker == nil {
		panic("asker is required")
	}

	options := NewOptions(opts...)

	s := &Server{
		options:   options,
		asker:     asker,
		moderator: moderator,
		speech:    sp,
	}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/api/chat", s.handleChat).Methods(http.MethodPost)
	if sp != nil {
		r.HandleFunc("/api/speech", s.handleSpeech).Methods(http.MethodPost)
		r.HandleFunc("/api/transcribe", s.handleTranscribe).Methods(http.MethodPost)
	}

	s.router = r

	return s
}
