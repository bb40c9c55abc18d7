package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across picadata.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Components
	FieldComponent = "component"

	// Input and output
	FieldFile       = "file"
	FieldFormat     = "format"
	FieldFromFormat = "from"
	FieldToFormat   = "to"
	FieldSchema     = "schema"
	FieldPath       = "path"

	// Records
	FieldRecordID    = "record_id"
	FieldRecordIndex = "record_index"
	FieldCount       = "count"
	FieldErrorCount  = "error_count"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type Driver struct {
//	    log *zap.SugaredLogger
//	}
//
//	func New() *Driver {
//	    return &Driver{log: logger.ComponentLogger("pipeline")}
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name).With(FieldComponent, name)
}

// ChildLogger creates a child logger with additional context.
//
// Example:
//
//	recLogger := logger.ChildLogger(d.log, logger.FieldRecordID, rec.ID)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
