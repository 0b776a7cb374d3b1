// Package movieinfo manages the movie catalogue: the MovieInfo model, its
// validation, storage backends and a Service that exposes every operation
// as a cold stream.Publisher.
//
// Three Store implementations are provided: MemoryStore for tests and
// single-process deployments, MongoStore over a mongo-driver collection
// and PostgresStore over pgx. PostgresStore needs the schema in
// Migrations, applied with pg.Migrate.
//
// Usage:
//
//	hub := broadcast.New[movieinfo.MovieInfo](broadcast.ReplayLast(100))
//	svc := movieinfo.NewService(movieinfo.NewMemoryStore(),
//		movieinfo.WithNotifier(hub),
//		movieinfo.WithFeed(hub.Stream()),
//	)
//
//	created, ok, err := stream.First(ctx, svc.Add(movie))
//	movies, err := stream.Collect(ctx, svc.ByYear(2005))
//
// Operations are lazy: nothing touches the store until the returned
// publisher is subscribed, and every subscription repeats the work.
package movieinfo
