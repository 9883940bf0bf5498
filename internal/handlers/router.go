package handlers

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/ShazSiddiq/Employee-Engagement-System/internal/middleware"
)

// NewRouter собирает маршруты доски. Пути совпадают с теми, что уже
// использует клиент, менять их нельзя без миграции фронта
func NewRouter(h *BoardHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.RateLimit(100))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/project", func(r chi.Router) {
		r.Post("/", h.PostProject) // POST /project

		r.Put("/grantExtension/{taskId}", h.PutGrantExtension) // PUT /project/grantExtension/{taskId}
		r.Put("/denyExtension/{taskId}", h.PutDenyExtension)   // PUT /project/denyExtension/{taskId}

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetProject) // GET /project/{id}

			r.Post("/task", h.PostTask) // POST /project/{id}/task
			r.Route("/task/{taskId}", func(r chi.Router) {
				r.Get("/", h.GetTask)       // GET /project/{id}/task/{taskId}
				r.Put("/", h.PutTask)       // PUT /project/{id}/task/{taskId}
				r.Delete("/", h.DeleteTask) // DELETE /project/{id}/task/{taskId}
			})

			r.Put("/todo", h.PutTodo)                                   // PUT /project/{id}/todo
			r.Put("/remark/{taskId}", h.PutRemark)                      // PUT /project/{id}/remark/{taskId}
			r.Put("/move/{taskId}", h.PutMove)                          // PUT /project/{id}/move/{taskId}
			r.Put("/extensionRequest/{taskId}", h.PutExtensionRequest)  // PUT /project/{id}/extensionRequest/{taskId}
		})
	})

	r.Get("/timelogs/{taskId}", h.GetTimelogs)
	r.Get("/audit/{taskId}", h.GetTaskAudit)
	r.Get("/userdata", h.GetUserData)
	r.Get("/project-history/{projectId}/{userId}", h.GetProjectHistory)
	r.Get("/projects-history/{userId}", h.GetProjectsHistory)

	r.Get("/health", h.HealthCheck)

	return r
}
