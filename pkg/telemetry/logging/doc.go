// Package logging provides structured logging with query redaction.
//
// The Logger wraps log/slog with JSON and text output, request-scoped fields
// taken from the context, and a Redactor that masks the arguments of RSQL
// queries before they are written.
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:           "info",
//	    Format:          "json",
//	    RedactArguments: true,
//	})
//
//	logger.Info("query parsed",
//	    logger.Query(`name=="John Smith";age=gt=30`), // name==***;age=gt=***
//	    "comparisons", 2,
//	)
//
//	ctx = logging.WithRequestID(ctx, "req-123")
//	logger.InfoContext(ctx, "query rejected", logger.Err(err))
package logging
