// Package api exposes the movie-info service over HTTP.
//
// Routes:
//
//	GET    /flux                     [1,2,3] as one JSON array
//	GET    /mono                     "hello-world"
//	GET    /stream                   a tick counter as Server-Sent Events
//	GET    /v1/movies-info           all movies, or ?year=YYYY
//	POST   /v1/movies-info           create, 201, published to the feed
//	GET    /v1/movies-info/{id}      one movie, 404 when missing
//	PUT    /v1/movies-info/{id}      replace fields, 404 when missing
//	DELETE /v1/movies-info/{id}      204
//	GET    /v1/movies-info/stream    created movies as NDJSON, replay then live
//	GET    /v1/movies-info/ws        the same feed over a WebSocket
//	GET    /health                   dependency readiness
//	GET    /health/live              liveness
//	GET    /metrics                  Prometheus, when configured
//
// Every list and lookup is a sequence from the movieinfo.Service drained by
// a response sink, so a disconnecting client cancels the store query.
package api
