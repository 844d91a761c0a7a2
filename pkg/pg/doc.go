// Package pg provides PostgreSQL plumbing for the toolkit: a retrying
// pgx pool constructor, a readiness probe, goose migration runner, and
// error classifiers for the constraint violations the tenancy schema
// relies on (unique memberships, tenant foreign keys).
//
// # Usage
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		// terminate: the database is required
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
//		// terminate: schema must be current
//	}
package pg
