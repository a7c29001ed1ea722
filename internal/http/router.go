package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	banksynchttp "github.com/MrJamesThe3rd/penny/internal/http/banksync"
	"github.com/MrJamesThe3rd/penny/internal/http/importcsv"
	insighthttp "github.com/MrJamesThe3rd/penny/internal/http/insight"
	ledgerhttp "github.com/MrJamesThe3rd/penny/internal/http/ledger"
)

func New(
	ledgerV1 *ledgerhttp.Handler,
	insightV1 *insighthttp.Handler,
	banksyncV1 *banksynchttp.Handler,
	importV1 *importcsv.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			ledgerV1.Routes(r)
			insightV1.Routes(r)
		})

		r.Route("/banksync", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			banksyncV1.Routes(r)
		})

		r.Route("/import", importV1.Routes)
	})

	return router
}
