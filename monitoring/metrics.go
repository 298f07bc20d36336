package monitoring

import (
	"fmt"
	"math"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
)

// MetricType 指标类型
type MetricType string

const (
	MetricTypeCounter MetricType = "counter"
	MetricTypeSummary MetricType = "summary"
)

// Metric 指标
type Metric struct {
	Name   string            `json:"name"`
	Type   MetricType        `json:"type"`
	Labels map[string]string `json:"labels,omitempty"`
	Help   string            `json:"help,omitempty"`

	Value float64 `json:"value"`
	Count int64   `json:"count,omitempty"`
	Min   float64 `json:"min,omitempty"`
	Max   float64 `json:"max,omitempty"`
}

// MetricsCollector 指标收集器
type MetricsCollector struct {
	metrics     map[string]*Metric
	metricsLock sync.RWMutex

	startTime time.Time
}

// NewMetricsCollector 创建指标收集器
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		metrics:   make(map[string]*Metric),
		startTime: time.Now(),
	}
}

// IncrCounter 增加计数器
func (mc *MetricsCollector) IncrCounter(name string, labels map[string]string) {
	mc.metricsLock.Lock()
	defer mc.metricsLock.Unlock()

	m := mc.lookup(name, MetricTypeCounter, labels)
	m.Value++
}

// Observe 记录一次观测值（例如请求耗时）
func (mc *MetricsCollector) Observe(name string, value float64, labels map[string]string) {
	mc.metricsLock.Lock()
	defer mc.metricsLock.Unlock()

	m := mc.lookup(name, MetricTypeSummary, labels)
	if m.Count == 0 {
		m.Min, m.Max = value, value
	} else {
		m.Min = math.Min(m.Min, value)
		m.Max = math.Max(m.Max, value)
	}
	m.Count++
	m.Value += value
}

// Value returns the current value of a counter, or the sum of a summary.
func (mc *MetricsCollector) Value(name string, labels map[string]string) float64 {
	mc.metricsLock.RLock()
	defer mc.metricsLock.RUnlock()

	if m, ok := mc.metrics[metricKey(name, labels)]; ok {
		return m.Value
	}
	return 0
}

// Snapshot 获取所有指标的副本，按名称排序
func (mc *MetricsCollector) Snapshot() []Metric {
	mc.metricsLock.RLock()
	defer mc.metricsLock.RUnlock()

	keys := make([]string, 0, len(mc.metrics))
	for k := range mc.metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]Metric, 0, len(keys))
	for _, k := range keys {
		m := *mc.metrics[k]
		if m.Labels != nil {
			labels := make(map[string]string, len(m.Labels))
			for lk, lv := range m.Labels {
				labels[lk] = lv
			}
			m.Labels = labels
		}
		result = append(result, m)
	}
	return result
}

// ExportPrometheus 导出Prometheus格式
func (mc *MetricsCollector) ExportPrometheus() string {
	var b strings.Builder
	seen := make(map[string]bool)
	for _, m := range mc.Snapshot() {
		if !seen[m.Name] {
			seen[m.Name] = true
			fmt.Fprintf(&b, "# TYPE %s %s\n", m.Name, m.Type)
		}
		labels := formatLabels(m.Labels)
		switch m.Type {
		case MetricTypeSummary:
			fmt.Fprintf(&b, "%s_sum%s %g\n", m.Name, labels, m.Value)
			fmt.Fprintf(&b, "%s_count%s %d\n", m.Name, labels, m.Count)
		default:
			fmt.Fprintf(&b, "%s%s %g\n", m.Name, labels, m.Value)
		}
	}
	return b.String()
}

// GetUptime 获取运行时间
func (mc *MetricsCollector) GetUptime() time.Duration {
	return time.Since(mc.startTime)
}

// GetSystemStats 获取系统统计
func (mc *MetricsCollector) GetSystemStats() map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return map[string]interface{}{
		"uptime":     mc.GetUptime().String(),
		"goroutines": runtime.NumGoroutine(),
		"heap_alloc": m.HeapAlloc,
		"gc_count":   m.NumGC,
	}
}

// lookup must be called with metricsLock held.
func (mc *MetricsCollector) lookup(name string, typ MetricType, labels map[string]string) *Metric {
	key := metricKey(name, labels)
	m, ok := mc.metrics[key]
	if !ok {
		copied := make(map[string]string, len(labels))
		for k, v := range labels {
			copied[k] = v
		}
		m = &Metric{Name: name, Type: typ, Labels: copied}
		mc.metrics[key] = m
	}
	return m
}

func metricKey(name string, labels map[string]string) string {
	return name + formatLabels(labels)
}

func formatLabels(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%q", k, labels[k])
	}
	return "{" + strings.Join(parts, ",") + "}"
}
