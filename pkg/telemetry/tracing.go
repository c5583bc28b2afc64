package telemetry

import (
	"context"
	"encoding/json"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/maplelabs/chaos-actions/pkg/clients"
	"github.com/maplelabs/chaos-actions/pkg/log"
)

const (
	TracerName  = "maplelabs.com/chaos-actions"
	TraceParent = "TRACE_PARENT"
)

func StartTracing(clients clients.ClientSets, spanName string) trace.Span {
	ctx, span := otel.Tracer(TracerName).Start(clients.Context, spanName)
	clients.Context = ctx
	return span
}

// GetTraceParentContext rebuilds the caller's span context from the
// TRACE_PARENT env so experiment spans nest under the orchestrator's trace.
func GetTraceParentContext() context.Context {
	traceParent := os.Getenv(TraceParent)
	if traceParent == "" {
		return context.Background()
	}

	pro := otel.GetTextMapPropagator()
	carrier := make(map[string]string)
	if err := json.Unmarshal([]byte(traceParent), &carrier); err != nil {
		log.Fatal(err.Error())
	}

	return pro.Extract(context.Background(), propagation.MapCarrier(carrier))
}

// GetMarshalledSpanFromContext extracts the spanContext from the context and
// returns it as a json encoded string
func GetMarshalledSpanFromContext(ctx context.Context) string {
	carrier := make(map[string]string)
	pro := otel.GetTextMapPropagator()

	pro.Inject(ctx, propagation.MapCarrier(carrier))

	if len(carrier) == 0 {
		log.Error("spanContext not present in the context, unable to marshall")
		return ""
	}

	marshalled, err := json.Marshal(carrier)
	if err != nil {
		log.Error(err.Error())
		return ""
	}
	if len(marshalled) >= 1024 {
		log.Error("marshalled span context is too large, unable to marshall")
		return ""
	}
	return string(marshalled)
}
