package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	authHandler "github.com/arjunks/kharcha/internal/http/auth"
	budgetHandler "github.com/arjunks/kharcha/internal/http/budget"
	goalHandler "github.com/arjunks/kharcha/internal/http/goal"
	recurringHandler "github.com/arjunks/kharcha/internal/http/recurring"
	transactionHandler "github.com/arjunks/kharcha/internal/http/transaction"
	"github.com/arjunks/kharcha/internal/user"
)

func New(
	issuer *user.TokenIssuer,
	authV1 *authHandler.Handler,
	transactionsV1 *transactionHandler.Handler,
	recurringV1 *recurringHandler.Handler,
	budgetsV1 *budgetHandler.Handler,
	goalsV1 *goalHandler.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			authV1.Routes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(authHandler.Middleware(issuer))

			r.Route("/transactions", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				transactionsV1.Routes(r)
			})

			r.Route("/recurring", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				recurringV1.Routes(r)
			})

			r.Route("/budgets", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				budgetsV1.Routes(r)
			})

			r.Route("/goals", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				goalsV1.Routes(r)
			})
		})
	})

	return router
}
