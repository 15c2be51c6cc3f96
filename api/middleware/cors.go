package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORSMiddleware allows cross-origin calls from the given origins ("*" for any)
// and answers preflight requests for the task routes.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{RequestIDHeader},
	})
	return c.Handler
}
