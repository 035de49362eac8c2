// Package logger contains the Logger used across the engine. The Logger is a wrapper around zap.SugaredLogger.
// A single Logger should be created by the host and injected through builder options; packages that are not
// given one fall back to L(), which discards output until SetDefault is called.
package logger
