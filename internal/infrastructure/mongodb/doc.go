// Package mongodb provides the device store connection.
//
// Connect dials the configured MongoDB deployment and verifies it with a
// ping, retrying with exponential backoff plus jitter until the configured
// attempt budget is spent. The backend refuses to start without its store,
// so exhaustion is a fatal startup error for the caller.
//
// # Usage
//
//	db, err := mongodb.Connect(ctx, cfg.Mongo, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close(ctx)
//
//	repo := device.NewMongoRepository(db.Devices())
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines; the
// underlying driver manages its own connection pool.
package mongodb
