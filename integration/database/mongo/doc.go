// Package mongo provides MongoDB client initialization with retry and health
// checking.
//
// New and NewWithDatabase retry the initial connect and ping to ride out
// cold starts (MongoDB Atlas typically needs 5-8 seconds) and brief network
// interruptions during deployment.
//
// Basic usage:
//
//	var cfg mongo.Config
//	config.MustLoad(&cfg)
//
//	db, err := mongo.NewWithDatabase(ctx, cfg, "")
//	if err != nil {
//		return err
//	}
//	defer db.Client().Disconnect(context.Background())
//
//	store := movieinfo.NewMongoStore(db.Collection("movies"))
//
// # Configuration
//
//	MONGODB_URL                 (required)
//	MONGODB_DATABASE            (default: moviesinfo)
//	MONGODB_CONNECT_TIMEOUT     (default: 10s)
//	MONGODB_MAX_POOL_SIZE       (default: 100)
//	MONGODB_MIN_POOL_SIZE       (default: 1)
//	MONGODB_MAX_CONN_IDLE_TIME  (default: 300s)
//	MONGODB_RETRY_WRITES        (default: true)
//	MONGODB_RETRY_READS         (default: true)
//	MONGODB_RETRY_ATTEMPTS      (default: 3)
//	MONGODB_RETRY_INTERVAL      (default: 5s)
//
// # Health Checking
//
// Healthcheck returns a func(context.Context) error that pings the primary
// and wraps failures with ErrHealthcheckFailed.
package mongo
