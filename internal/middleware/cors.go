package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS allows cross-origin requests from the given origins ("*" for any).
// Preflight requests are answered here and never reach the routes.
func CORS(allowedOrigins []string) Middleware {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPut,
			http.MethodPatch,
			http.MethodPost,
			http.MethodDelete,
		},
		AllowedHeaders:       []string{"*"},
		AllowCredentials:     false,
		OptionsSuccessStatus: http.StatusNoContent,
	})
	return c.Handler
}
