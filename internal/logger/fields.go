package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Structured field keys shared by every component
const (
	FieldProvider  = "llm_provider"
	FieldModel     = "llm_model"
	FieldOperation = "operation"
	FieldMethod    = "method"
	FieldJobID     = "job_id"
	FieldResumeID  = "resume_id"
)

// StringField describes a string-valued structured logging field
type StringField struct {
	Key   string
	Value string
}

// StringFields converts key/value pairs into zap fields, trimming whitespace
// and dropping entries with an empty key or value.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		value := strings.TrimSpace(field.Value)
		if key == "" || value == "" {
			continue
		}
		result = append(result, zap.String(key, value))
	}
	return result
}

// WithFields attaches fields to the logger, tolerating a nil logger
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	logger = OrNop(logger)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// CommonFields describes the model provider and model; empty values are skipped
func CommonFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}
