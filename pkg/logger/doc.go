// Package logger builds *slog.Logger instances with functional options,
// consistent attribute helpers and values injected from context.Context.
//
// # Architecture
//
// New picks slog.NewTextHandler or slog.NewJSONHandler from the configured
// Format and wraps it in LogHandlerDecorator, which runs every registered
// ContextExtractor before delegating. Attribute helpers in attr.go keep key
// names identical across packages (user_id, recipient, due_at, pass_id, ...).
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.AppEnv, cfg.AppName),
//	    logger.WithLevelName(cfg.LogLevel),
//	)
//	logger.SetAsDefault(log)
//
//	log.Warn("skipping report, no recipient email configured",
//	    logger.UserID(userID),
//	)
//
// # Configuration
//
//   - WithEnvironment: development logs text at debug, staging and production JSON at info.
//   - WithFormat / WithTextFormatter / WithJSONFormatter: override output format.
//   - WithLevel / WithLevelName: set the minimum level; wins over environment defaults.
//   - WithAttr: attach static attributes.
//   - WithContextExtractors / WithContextValue: inject attributes from context.
//
// # Error Handling
//
// Error and Errors return an empty attribute for nil errors, so
//
//	log.Info("pass finished", logger.Error(err))
//
// needs no nil check.
package logger
