package transport

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const scopeName = "github.com/koscakluka/macca-core/core/transport"

var (
	tracer = otel.Tracer(scopeName)
	meter  = otel.Meter(scopeName)
	logger = otelslog.NewLogger(scopeName)

	requestDuration, _ = meter.Float64Histogram(
		"macca.transport.request.duration",
		metric.WithDescription("Duration of backend requests"),
		metric.WithUnit("s"),
	)
)
