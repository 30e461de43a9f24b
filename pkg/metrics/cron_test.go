package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gatherCron(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}
	return byName
}

func cronSample(t *testing.T, byName map[string]*dto.MetricFamily, name, job string) *dto.Metric {
	t.Helper()
	mf, ok := byName[name]
	if !ok {
		t.Fatalf("metric %q not exported", name)
	}
	for _, m := range mf.GetMetric() {
		for _, lp := range m.GetLabel() {
			if lp.GetName() == "job" && lp.GetValue() == job {
				return m
			}
		}
	}
	t.Fatalf("metric %q has no sample for job=%s", name, job)
	return nil
}

func TestCronJobMetricsRecordOutcomesPerJob(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewCronJobMetrics(reg)

	rec.ObserveDuration("purge", 250*time.Millisecond)
	rec.IncSuccess("purge")
	rec.IncSuccess("purge")
	rec.IncFailure("purge")

	byName := gatherCron(t, reg)
	if got := cronSample(t, byName, "job_success", "purge").GetCounter().GetValue(); got != 2 {
		t.Fatalf("success = %f, want 2", got)
	}
	if got := cronSample(t, byName, "job_failure", "purge").GetCounter().GetValue(); got != 1 {
		t.Fatalf("failure = %f, want 1", got)
	}
	hist := cronSample(t, byName, "job_duration_seconds", "purge").GetHistogram()
	if hist.GetSampleCount() != 1 {
		t.Fatalf("duration samples = %d, want 1", hist.GetSampleCount())
	}
	if sum := hist.GetSampleSum(); sum < 0.2 || sum > 0.3 {
		t.Fatalf("duration sum = %f, want ~0.25", sum)
	}
}

func TestCronJobMetricsNormalizeJobLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewCronJobMetrics(reg)
	rec.IncSuccess("Cart Cleanup")

	byName := gatherCron(t, reg)
	cronSample(t, byName, "job_success", normalizeLabel("Cart Cleanup"))
}

func TestNilCronJobMetricsAreSafe(t *testing.T) {
	var rec *CronJobMetrics
	rec.ObserveDuration("noop", time.Second)
	rec.IncSuccess("noop")
	rec.IncFailure("noop")

	empty := NewCronJobMetrics(nil)
	empty.ObserveDuration("noop", time.Second)
	empty.IncSuccess("noop")
	empty.IncFailure("noop")
}
