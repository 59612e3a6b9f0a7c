package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// Cors allows credentialed requests from origins, or from anywhere when
// origins is empty.
func Cors(origins []string) Middleware {
	options := cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
	if len(origins) == 0 {
		options.AllowedOrigins = nil
		options.AllowOriginFunc = func(string) bool { return true }
	}
	return cors.New(options).Handler
}
