// Package logger provides a structured logging interface for chesskit.
//
// It wraps zerolog behind a small Logger interface so that the diagram
// generator, the archive downloader and the API client can be handed a
// logger explicitly and tests can swap in NewNopLogger or NewTestLogger.
//
// Basic Usage:
//
//	err := logger.Initialize(&cfg.Logging)
//
//	logger.Info("chesskit starting")
//	logger.WithField("username", "hikaru").Info("verifying account")
//	logger.WithError(err).Error("archive fetch failed")
//
// When LoggingConfig.File is empty, output goes to stderr through zerolog's
// ConsoleWriter so that it does not interleave with the progress lines
// printed on stdout. Otherwise JSON lines are appended to the file.
package logger
