package gateway

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS wraps next with cross-origin handling for browser clients. An empty
// origin list allows any origin.
func CORS(origins []string, next http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedOrigins: origins,
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Grpc-Status", "Grpc-Message", "Connect-Protocol-Version"},
	})
	return c.Handler(next)
}
