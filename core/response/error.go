package response

import (
	"net/http"

	"github.com/dmitrymomot/reactive/core/handler"
)

// Error returns a response that hands err to the error handler unchanged.
func Error(err error) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		return err
	}
}
