// Package mongo provides the MongoDB plumbing for deployments that store
// tenant and membership records in MongoDB: a retrying client constructor
// and a readiness probe. The tenancy/mongodb repository consumes the
// resulting database handle.
package mongo
