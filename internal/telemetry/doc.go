// Package telemetry sets up OpenTelemetry tracing and metrics export for
// projectctl.
//
// Telemetry is off by default. When enabled, spans and metrics are exported
// over OTLP (grpc or http/protobuf) to a collector:
//
//	telemetry:
//	  enabled: true
//	  endpoint: "localhost:4317"
//	  protocol: grpc
//	  insecure: true
//	  sample_rate: 1.0
//	  export_interval: 15s
//
// A Telemetry value is nil-safe. Tracer and Meter fall back to the global
// providers, so instrumented packages work the same with telemetry off.
//
//	tel, err := telemetry.New(ctx, cfg.Telemetry, telemetry.WithVersion(version))
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
// Tests use TestTelemetry:
//
//	tt := telemetry.NewTestTelemetry()
//	client, _ := remote.New(cfg, remote.WithTelemetry(tt.Telemetry))
//	tt.AssertSpanExists(t, "remote.list")
package telemetry
