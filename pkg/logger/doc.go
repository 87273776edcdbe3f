// Package logger builds *slog.Logger values with functional options and
// provides attribute constructors that keep key names consistent across
// the state machine, document and storage packages.
//
// New picks a text or JSON handler, applies static attributes and wraps the
// handler with LogHandlerDecorator, which runs every registered
// ContextExtractor on each record. DocumentIDExtractor is the extractor used
// by the docstate integration: any hook that logs with the context it
// receives gets the id of the document being transitioned.
//
// # Usage
//
//	log := logger.New(
//		logger.WithEnvironment(os.Getenv("APP_ENV"), "fleet"),
//		logger.WithContextExtractors(logger.DocumentIDExtractor()),
//	)
//
//	log.DebugContext(ctx, "transition applied",
//		logger.Machine("state"),
//		logger.Event("ignite"),
//		logger.From("parked"),
//		logger.To("idling"),
//	)
//
// Error and Errors return an empty attribute for nil errors, so they can be
// passed unconditionally.
package logger
