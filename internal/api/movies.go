package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/reactive/core/handler"
	"github.com/dmitrymomot/reactive/core/logger"
	"github.com/dmitrymomot/reactive/core/response"
	"github.com/dmitrymomot/reactive/core/stream"
	"github.com/dmitrymomot/reactive/internal/movieinfo"
	"github.com/dmitrymomot/reactive/middleware"
)

// listMovies serves every movie, or those of ?year= when given.
func (a *API) listMovies(r *http.Request) handler.Response {
	v := r.URL.Query().Get("year")
	if v == "" {
		return response.JSONAll(a.movies.All())
	}
	year, err := strconv.Atoi(v)
	if err != nil || year <= 0 {
		return response.Error(response.ErrBadRequest.WithMessage("year must be a positive integer"))
	}
	return response.JSONAll(a.movies.ByYear(year))
}

func (a *API) getMovie(r *http.Request) handler.Response {
	return response.JSONOne(orNotFound(a.movies.Get(r.PathValue("id"))), http.StatusOK, movieinfo.ErrNotFound)
}

func (a *API) addMovie(r *http.Request) handler.Response {
	m, err := decodeMovie(r)
	if err != nil {
		return response.Error(err)
	}
	return response.JSONOne(a.movies.Add(m), http.StatusCreated, response.ErrInternalServerError)
}

func (a *API) updateMovie(r *http.Request) handler.Response {
	m, err := decodeMovie(r)
	if err != nil {
		return response.Error(err)
	}
	return response.JSONOne(orNotFound(a.movies.Update(r.PathValue("id"), m)), http.StatusOK, movieinfo.ErrNotFound)
}

func (a *API) deleteMovie(r *http.Request) handler.Response {
	if err := a.movies.Delete(r.Context(), r.PathValue("id")); err != nil {
		return response.Error(err)
	}
	return response.NoContent()
}

// movieFeed streams created movies as NDJSON: the retained ones first,
// then live ones.
func (a *API) movieFeed(*http.Request) handler.Response {
	return response.NDJSON(a.movies.Feed(),
		response.WithStreamKeepAlive(a.keepAlive),
		response.WithStreamErrorHandler(a.streamError("movie_feed")),
	)
}

func (a *API) movieFeedWS(*http.Request) handler.Response {
	opts := append([]response.WebSocketOption{
		response.WithWSErrorHandler(a.streamError("movie_feed_ws")),
	}, a.wsOpts...)
	return response.WebSocket(a.movies.Feed(), opts...)
}

// orNotFound turns an empty result into movieinfo.ErrNotFound.
func orNotFound(p stream.Publisher[movieinfo.MovieInfo]) stream.Publisher[movieinfo.MovieInfo] {
	return stream.SwitchIfEmpty(p, stream.Error[movieinfo.MovieInfo](movieinfo.ErrNotFound))
}

// decodeMovie reads a JSON movie body. A request without Content-Type is
// treated as JSON.
func decodeMovie(r *http.Request) (movieinfo.MovieInfo, error) {
	var m movieinfo.MovieInfo
	if ct := r.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err != nil || mt != "application/json" {
			return m, response.ErrUnsupportedMediaType.WithMessage("movie info body must be application/json")
		}
	}
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return m, response.ErrRequestEntityTooLarge
		}
		return m, response.ErrBadRequest.WithMessage(fmt.Sprintf("invalid movie info body: %v", err))
	}
	return m, nil
}

// renderError maps domain errors to HTTP errors and renders them as JSON.
func (a *API) renderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, movieinfo.ErrValidation):
		err = response.ErrBadRequest.WithMessage(err.Error())
	case errors.Is(err, movieinfo.ErrNotFound):
		err = response.ErrNotFound.WithMessage(err.Error())
	case errors.Is(err, context.Canceled):
		return
	}
	response.JSONErrorHandler(w, r, err)
}

func (a *API) streamError(name string) func(context.Context, error) {
	return func(ctx context.Context, err error) {
		id, _ := middleware.GetRequestID(ctx)
		a.log.WarnContext(ctx, "stream ended with error",
			logger.Component("api"),
			slog.String("stream", name),
			logger.RequestID(id),
			logger.Error(err),
		)
	}
}
