// SPDX-FileCopyrightText: 2026 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

// Package tracing sets up OpenTelemetry tracing for kube-observe and provides
// helpers for reconcile spans.
package tracing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"k8s.io/apimachinery/pkg/types"
)

const (
	// ServiceName is the OTEL service name reported by kube-observe.
	ServiceName = "kube-observe"

	// TracerName is the instrumentation library name used for all spans.
	TracerName = "github.com/telekom/kube-observe"

	// shutdownTimeout is the maximum time to wait for the exporter to flush.
	shutdownTimeout = 5 * time.Second
)

var (
	// ErrMissingEndpoint is returned when tracing is enabled without an endpoint.
	ErrMissingEndpoint = errors.New("tracing endpoint must be set when tracing is enabled")
	// ErrInvalidSamplingRate is returned for sampling rates outside [0, 1].
	ErrInvalidSamplingRate = errors.New("sampling rate must be between 0.0 and 1.0")
)

// Config holds the configuration for the tracing subsystem.
type Config struct {
	// Enabled controls whether tracing is active.
	Enabled bool

	// Endpoint is the OTLP collector endpoint (e.g. "otel-collector:4317").
	Endpoint string

	// SamplingRate is the ratio of traces to sample (0.0 to 1.0).
	SamplingRate float64

	// Insecure disables TLS for the OTLP exporter connection.
	Insecure bool
}

// Validate checks an enabled configuration. A disabled one is always valid.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Endpoint == "" {
		return ErrMissingEndpoint
	}
	if c.SamplingRate < 0 || c.SamplingRate > 1 {
		return fmt.Errorf("%w, got %f", ErrInvalidSamplingRate, c.SamplingRate)
	}
	return nil
}

// Provider wraps an OpenTelemetry TracerProvider and exposes a Tracer.
type Provider struct {
	tp     trace.TracerProvider
	tracer trace.Tracer
}

// NewProvider wraps an existing TracerProvider, e.g. one recording spans in
// tests.
func NewProvider(tp trace.TracerProvider) *Provider {
	return &Provider{tp: tp, tracer: tp.Tracer(TracerName)}
}

// Tracer returns the provider's tracer instance for creating spans.
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

// Shutdown flushes pending spans of an SDK provider. The incoming context is
// ignored since it is usually already canceled at shutdown.
func (p *Provider) Shutdown(_ context.Context) error {
	if sdkTP, ok := p.tp.(*sdktrace.TracerProvider); ok {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return sdkTP.Shutdown(shutdownCtx)
	}
	return nil
}

// Setup initializes the OpenTelemetry tracing subsystem based on the given config.
// If tracing is disabled, a no-op provider is returned.
func Setup(ctx context.Context, cfg Config, version string) (*Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.Enabled {
		return NewProvider(noop.NewTracerProvider()), nil
	}

	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(ServiceName),
			semconv.ServiceVersionKey.String(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating OTEL resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SamplingRate))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return NewProvider(tp), nil
}

// Span attribute keys used across kube-observe.
var (
	AttrController    = attribute.Key("kube_observe.controller")
	AttrObservation   = attribute.Key("kube_observe.observation")
	AttrNamespace     = attribute.Key("kube_observe.namespace")
	AttrTargetKind    = attribute.Key("kube_observe.target.kind")
	AttrTargetName    = attribute.Key("kube_observe.target.name")
	AttrConditionType = attribute.Key("kube_observe.condition.type")
	AttrTransitions   = attribute.Key("kube_observe.transitions")
	AttrResult        = attribute.Key("kube_observe.result")
)

// StartReconcile starts the span covering one reconcile of the named object.
// A nil tracer yields a no-op span.
func StartReconcile(ctx context.Context, tracer trace.Tracer, controller string, key types.NamespacedName) (context.Context, trace.Span) {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(TracerName)
	}
	return tracer.Start(ctx, controller+".Reconcile",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			AttrController.String(controller),
			AttrObservation.String(key.Name),
			AttrNamespace.String(key.Namespace),
		),
	)
}

// RecordError marks the span as failed. A nil error leaves it untouched.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
