package tracing

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func useRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

// TestStartSpan 测试Span创建与父子关系
func TestStartSpan(t *testing.T) {
	recorder := useRecorder(t)

	ctx, parent := StartSpan(context.Background(), "lending", "BorrowBook")
	traceID := ExtractTraceID(ctx)
	if traceID == "" {
		t.Fatal("TraceID为空")
	}

	childCtx, child := StartSpan(ctx, "lending", "CreateLoan")
	if ExtractTraceID(childCtx) != traceID {
		t.Error("子Span应继承父Span的TraceID")
	}
	child.End()
	parent.End()

	ended := recorder.Ended()
	if len(ended) != 2 {
		t.Fatalf("期望2个Span，实际%d个", len(ended))
	}
	if ended[0].Parent().SpanID() != ended[1].SpanContext().SpanID() {
		t.Error("子Span的父Span不正确")
	}
}

// TestEndSpan 测试错误状态记录
func TestEndSpan(t *testing.T) {
	recorder := useRecorder(t)

	_, span := StartSpan(context.Background(), "lending", "ReturnBook")
	EndSpan(span, errors.New("借阅记录不存在"))

	_, ok := StartSpan(context.Background(), "lending", "ReturnBook")
	EndSpan(ok, nil)

	ended := recorder.Ended()
	if ended[0].Status().Code != codes.Error {
		t.Errorf("期望Error状态，实际%v", ended[0].Status().Code)
	}
	if ended[1].Status().Code == codes.Error {
		t.Error("成功的Span不应标记为Error")
	}
}

// TestExtractTraceIDWithoutSpan 无Span时返回空字符串
func TestExtractTraceIDWithoutSpan(t *testing.T) {
	if id := ExtractTraceID(context.Background()); id != "" {
		t.Errorf("期望空TraceID，实际%s", id)
	}
}
