package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Handlers struct {
	Poll  *PollHandler
	Vote  *VoteHandler
	Admin *AdminHandler
	Auth  *AuthMiddleware

	// optional
	Events  http.Handler
	Metrics http.Handler
}

func NewHandler(h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if h.Metrics != nil {
		r.Handle("/metrics", h.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("welcome"))
		})

		r.Route("/contract", func(r chi.Router) {
			r.Get("/", h.Admin.GetConfig)
			r.With(h.Auth.Authenticate).Post("/", h.Admin.Instantiate)
		})

		r.Route("/polls", func(r chi.Router) {
			r.With(h.Auth.Authenticate).Post("/", h.Poll.CreatePoll)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/choices", h.Poll.GetChoices)
				r.Get("/report", h.Poll.GetReport)

				r.Group(func(r chi.Router) {
					r.Use(h.Auth.Authenticate)
					r.Post("/choices", h.Poll.AddChoice)
					r.Post("/start", h.Poll.StartPoll)
					r.Post("/end", h.Poll.EndPoll)
					r.Post("/votes", h.Vote.VoteOnPoll)
				})
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/code", h.Admin.GetCode)

			r.Group(func(r chi.Router) {
				r.Use(h.Auth.Authenticate)
				r.Post("/pause", h.Admin.Pause)
				r.Post("/unpause", h.Admin.Unpause)
				r.Put("/admin", h.Admin.ChangeAdmin)
				r.Post("/code", h.Admin.SetCode)
				r.Post("/code/uploads", h.Admin.UploadCode)
			})
		})

		if h.Events != nil {
			r.Handle("/events", h.Events)
		}
	})

	return r
}
