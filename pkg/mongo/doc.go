// Package mongo backs document schemas with MongoDB.
//
// Connection settings come from the environment (see Config and
// LoadConfig). New retries the initial connection, Healthcheck wraps Ping
// for readiness probes, and Store implements document.Store: documents are
// stored with their id in _id and every other persistent attribute as a
// top-level field.
//
// # Usage
//
//	cfg, err := mongo.LoadConfig()
//	if err != nil {
//		return err
//	}
//	store, err := mongo.Open(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	vehicles := document.NewSchema("vehicles", document.WithStore(store))
//
// # Queries
//
// Filter translates document predicates built by state scopes into
// {attr: {$in: [...]}} and {attr: {$nin: [...]}} filters, combining several
// conditions with $and.
//
// # Error Handling
//
// Connection failures wrap ErrFailedToConnectToMongo and ping failures wrap
// ErrHealthcheckFailed. Missing documents and duplicate ids are reported
// with document.ErrNotFound and document.ErrDuplicateID.
package mongo
