// Package server provides an HTTP server with graceful shutdown tuned for
// long-lived streaming responses.
//
// Request contexts derive from a base context that is cancelled as soon as
// shutdown begins, so handlers draining a stream.Publisher into SSE, NDJSON
// or WebSocket connections return instead of keeping the server alive until
// the shutdown timeout expires. The write timeout defaults to zero for the
// same reason.
//
// # Basic Usage
//
//	srv := server.New(":8080",
//		server.WithShutdownTimeout(10*time.Second),
//		server.WithLogger(log),
//	)
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, handler))
//	if err := g.Wait(); err != nil {
//		log.Error("server failed", logger.Error(err))
//	}
//
// # Configuration
//
// Config carries env tags and can be loaded with the config package:
//
//	var cfg server.Config
//	config.MustLoad(&cfg)
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//
// Listening on ":0" picks a free port; Addr reports the bound address once
// Ready is closed.
package server
