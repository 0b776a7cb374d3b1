// Package handler defines the response-function model used by HTTP
// endpoints.
//
// A HandlerFunc inspects the request and returns a Response; the Response
// writes headers and body and returns an error instead of rendering it.
// Wrap turns the pair into an http.Handler and routes any error to an
// ErrorHandler, which keeps error rendering in one place:
//
//	mux.Handle("GET /v1/movies-info/{id}", handler.Wrap(
//		func(r *http.Request) handler.Response {
//			return response.JSONOne(svc.Get(r.PathValue("id")), response.ErrNotFound)
//		},
//		response.JSONErrorHandler,
//	))
//
// Middleware wraps HandlerFuncs:
//
//	func timed(log *slog.Logger) handler.Middleware {
//		return func(next handler.HandlerFunc) handler.HandlerFunc {
//			return func(r *http.Request) handler.Response {
//				start := time.Now()
//				resp := next(r)
//				return func(w http.ResponseWriter, r *http.Request) error {
//					err := resp(w, r)
//					log.Info("rendered", logger.Latency(time.Since(start)))
//					return err
//				}
//			}
//		}
//	}
package handler
