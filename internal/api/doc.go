// Package api contains the HTTP handlers for the landscape analysis
// service: analysis submission and retrieval, job status, the task-executor
// callback, and health checks. Handlers decode and validate requests,
// delegate to the dispatcher and stores, and translate errors into
// sanitized JSON responses.
package api
