/*
Package logger wraps uber-go/zap behind a small interface used by the config
engine, the schema loader and the cfgload command.

Basic usage:

	log := logger.NewLogger(logger.Config{
	    Verbosity: 1,
	    Component: "cfg",
	})

	log.WithFields(logger.Fields{
	    "file": "/etc/app.conf",
	    "line": 12,
	}).Error("unknown parameter")

Verbosity levels:

	0: Info, Warn, Error (default)
	1: Debug + level 0
	2: Trace + level 1

Entries are JSON objects with "level", "ts" and "message" keys plus any
fields. Error values passed in Fields are encoded with zap.NamedError so the
message survives JSON encoding.

Library callers that do not want diagnostics can pass logger.Nop().
*/
package logger
