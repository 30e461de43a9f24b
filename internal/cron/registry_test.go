package cron

import (
	"context"
	"testing"
)

type namedJob struct {
	name string
}

func (n *namedJob) Name() string              { return n.name }
func (n *namedJob) Run(context.Context) error { return nil }

func TestRegistryPreservesOrderAndSkipsNil(t *testing.T) {
	first := &namedJob{name: "first"}
	second := &namedJob{name: "second"}
	registry := NewRegistry(first, nil, second)
	registry.Register(nil)

	jobs := registry.Jobs()
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0] != first || jobs[1] != second {
		t.Fatalf("jobs returned out of registration order")
	}
}

func TestRegistryJobsReturnsCopy(t *testing.T) {
	registry := NewRegistry(&namedJob{name: "only"})
	registry.Jobs()[0] = nil
	if registry.Jobs()[0] == nil {
		t.Fatalf("Jobs must return a copy, not the internal slice")
	}
}
