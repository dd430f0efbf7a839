// Package logging provides structured logging for geoflow with level
// filtering and subsystem tagging.
//
// The package is a thin layer over Go's standard slog package. Every log
// entry carries a subsystem identifier so that output from the job runner,
// the provisioner, and the upload path can be told apart in mixed logs.
//
// Initialize once at startup:
//
//	logging.Init(logging.LevelInfo, os.Stderr)
//
// then log from anywhere:
//
//	logging.Info("runner", "job %s reached %s", jobID, status)
//	logging.Error("provision", err, "rollback failed for %s", handle.Name)
//
// Calls made before Init are dropped.
package logging
