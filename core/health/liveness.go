package health

import (
	"net/http"

	"github.com/dmitrymomot/reactive/core/handler"
	"github.com/dmitrymomot/reactive/core/response"
)

// Liveness indicates if the service process is running.
// Always returns "ALIVE" with 200 OK. No dependency checks.
func Liveness(*http.Request) handler.Response {
	return response.String("ALIVE")
}

// NoContent returns HTTP 204 without body. Ideal for high-frequency checks.
func NoContent(*http.Request) handler.Response {
	return response.NoContent()
}
