// Package redis provides the Redis plumbing used by deployments that keep
// session state in Redis: a retrying client constructor and a readiness
// probe. The session package's RedisStore consumes the resulting client.
package redis
