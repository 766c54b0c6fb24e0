// Package logging provides structured logging on top of Zap.
//
// # Overview
//
// The package wraps Zap with:
//   - Custom Trace level (-2, below Debug)
//   - Context field injection (trace_id, operation, project.id, request.id)
//   - Secret redaction by field name and value pattern
//   - Level-aware sampling (errors never sampled)
//
// Output goes to stderr by default so command output on stdout stays clean.
//
// # Usage
//
//	cfg, err := logging.FromSettings("debug", "console")
//	if err != nil {
//	    return err
//	}
//	logger, err := logging.NewLogger(cfg)
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
//	ctx = logging.WithOperation(ctx, "create")
//	logger.Info(ctx, "project created", zap.String("name", name))
//
// # Testing
//
//	tl := logging.NewTestLogger()
//	tl.Info(ctx, "reload failed", zap.Error(err))
//	tl.AssertLogged(t, zapcore.InfoLevel, "reload failed")
package logging
