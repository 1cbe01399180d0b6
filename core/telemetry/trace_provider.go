package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

// CollectorEndpoint describes the OTLP collector the chaincode exports
// spans to. An empty endpoint disables tracing.
type CollectorEndpoint struct {
	Endpoint                 string `json:"endpoint"`
	AuthorizationHeaderKey   string `json:"authorization_header_key,omitempty"`
	AuthorizationHeaderValue string `json:"authorization_header_value,omitempty"`
	TLSCA                    string `json:"tls_ca,omitempty"`
}

// InstallTraceProvider returns trace provider based on http otlp exporter .
func InstallTraceProvider(
	settings *CollectorEndpoint,
	serviceName string,
) {
	var tracerProvider trace.TracerProvider

	defer func() {
		otel.SetTracerProvider(tracerProvider)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	}()

	if settings == nil || len(settings.Endpoint) == 0 {
		tracerProvider = trace.NewNoopTracerProvider()
		return
	}

	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(settings.Endpoint),
	}

	if settings.AuthorizationHeaderKey != "" && settings.AuthorizationHeaderValue != "" {
		opts = append(opts, otlptracehttp.WithHeaders(map[string]string{
			settings.AuthorizationHeaderKey: settings.AuthorizationHeaderValue,
		}))
	}

	if settings.TLSCA != "" {
		tlsConfig, err := getTLSConfig(settings.TLSCA)
		if err != nil {
			fmt.Printf("creating TLS config for trace exporter: %v", err)
			return
		}
		opts = append(opts, otlptracehttp.WithTLSClientConfig(tlsConfig))
	} else {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	client := otlptracehttp.NewClient(opts...)

	exporter, err := otlptrace.New(context.Background(), client)
	if err != nil {
		fmt.Printf("creating OTLP trace exporter: %v", err)
		return
	}

	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName)))
	if err != nil {
		fmt.Printf("creating resoure: %v", err)
		return
	}

	tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(r))
}
