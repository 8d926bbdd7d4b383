package api

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the task list endpoints on r.
func RegisterRoutes(r chi.Router, h *TaskHandler) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.GetState)
		r.Put("/draft", h.UpdateDraft)
		r.Post("/submit", h.Submit)
		r.Post("/cancel", h.Cancel)

		r.Route("/tasks/{id}", func(r chi.Router) {
			r.Post("/edit", h.EditTask)
			r.Post("/toggle", h.ToggleTask)
			r.Delete("/", h.DeleteTask)
		})
	})

	r.Get("/health", h.Health)
}
