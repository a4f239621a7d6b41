package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// TestHelpersBeforeInit 未初始化时辅助函数不应panic
func TestHelpersBeforeInit(t *testing.T) {
	var counter prometheus.Counter
	var counterVec *prometheus.CounterVec
	var histogramVec *prometheus.HistogramVec

	IncCounter(counter)
	IncCounterVec(counterVec, map[string]string{"reason": "overdue"})
	ObserveHistogramVec(histogramVec, map[string]string{"operation": "borrow"}, 0.1)
}

// TestInitMetrics 测试指标初始化
func TestInitMetrics(t *testing.T) {
	InitMetrics()
	InitMetrics() // 重复调用不应重复注册

	if HTTPRequestsTotal == nil || LoansCreatedTotal == nil || BorrowRejectedTotal == nil {
		t.Fatal("指标未初始化")
	}
}

// TestLendingCounters 测试借阅业务计数
func TestLendingCounters(t *testing.T) {
	InitMetrics()

	before := getCounterValue(t, LoansReturnedTotal)
	IncCounter(LoansReturnedTotal)
	IncCounter(LoansReturnedTotal)
	if got := getCounterValue(t, LoansReturnedTotal) - before; got != 2 {
		t.Errorf("归还计数错误: expected=2, got=%f", got)
	}

	labels := map[string]string{"source": "reservation"}
	before = getCounterVecValue(t, LoansCreatedTotal, labels)
	IncCounterVec(LoansCreatedTotal, labels)
	IncCounterVec(LoansCreatedTotal, map[string]string{"source": "borrow"})
	if got := getCounterVecValue(t, LoansCreatedTotal, labels) - before; got != 1 {
		t.Errorf("预约兑现借阅计数错误: expected=1, got=%f", got)
	}
}

// TestGaugeVec 测试熔断器状态Gauge
func TestGaugeVec(t *testing.T) {
	InitMetrics()

	SetGaugeVec(CircuitBreakerState, map[string]string{"name": "lending-events"}, 1)
	if got := getGaugeVecValue(t, CircuitBreakerState, map[string]string{"name": "lending-events"}); got != 1 {
		t.Errorf("GaugeVec值错误: expected=1, got=%f", got)
	}
}

// TestHistogramVec 测试操作耗时
func TestHistogramVec(t *testing.T) {
	InitMetrics()

	labels := map[string]string{"operation": "return"}
	before := getHistogramVecCount(t, LendingOperationDuration, labels)
	ObserveHistogramVec(LendingOperationDuration, labels, 0.002)
	ObserveHistogramVec(LendingOperationDuration, labels, 0.02)
	if got := getHistogramVecCount(t, LendingOperationDuration, labels) - before; got != 2 {
		t.Errorf("HistogramVec观测次数错误: expected=2, got=%d", got)
	}
}

func getCounterValue(t *testing.T, counter prometheus.Counter) float64 {
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("读取Counter值失败: %v", err)
	}
	return metric.Counter.GetValue()
}

func getCounterVecValue(t *testing.T, counterVec *prometheus.CounterVec, labels map[string]string) float64 {
	return getCounterValue(t, counterVec.With(labels))
}

func getGaugeVecValue(t *testing.T, gaugeVec *prometheus.GaugeVec, labels map[string]string) float64 {
	var metric dto.Metric
	if err := gaugeVec.With(labels).Write(&metric); err != nil {
		t.Fatalf("读取GaugeVec值失败: %v", err)
	}
	return metric.Gauge.GetValue()
}

func getHistogramVecCount(t *testing.T, histogramVec *prometheus.HistogramVec, labels map[string]string) uint64 {
	var metric dto.Metric
	histogram := histogramVec.With(labels)
	if err := histogram.(prometheus.Histogram).Write(&metric); err != nil {
		t.Fatalf("读取HistogramVec值失败: %v", err)
	}
	return metric.Histogram.GetSampleCount()
}
