package inmemory

import (
	"context"
	"testing"
	"time"

	"github.com/apeksha07/insurance-advisor/internal/jobs"
)

func TestStore_SaveAndGet(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	job := &jobs.AnalysisJob{
		JobID:     "job-1",
		SourceURI: "gs://bucket/statement.csv",
		Status:    jobs.JobStatusPending,
		CreatedAt: time.Now(),
	}
	if err := store.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob returned error: %v", err)
	}

	got, err := store.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetJob returned error: %v", err)
	}
	if got.SourceURI != job.SourceURI || got.Status != jobs.JobStatusPending {
		t.Errorf("GetJob = %+v", got)
	}

	// Mutating the returned copy must not touch the stored job.
	got.Status = jobs.JobStatusFailed
	again, _ := store.GetJob(ctx, "job-1")
	if again.Status != jobs.JobStatusPending {
		t.Error("GetJob must return a copy")
	}
}

func TestStore_SaveRequiresID(t *testing.T) {
	if err := NewStore().SaveJob(context.Background(), &jobs.AnalysisJob{}); err == nil {
		t.Error("Expected error for job without ID")
	}
}

func TestStore_GetMissing(t *testing.T) {
	if _, err := NewStore().GetJob(context.Background(), "nope"); err == nil {
		t.Error("Expected error for unknown job")
	}
}

func TestStore_ListJobs(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	base := time.Now()

	statuses := []jobs.JobStatus{
		jobs.JobStatusCompleted,
		jobs.JobStatusFailed,
		jobs.JobStatusCompleted,
	}
	for i, status := range statuses {
		store.SaveJob(ctx, &jobs.AnalysisJob{
			JobID:     string(rune('a' + i)),
			Status:    status,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	all, err := store.ListJobs(ctx, jobs.JobFilter{})
	if err != nil {
		t.Fatalf("ListJobs returned error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 jobs, got %d", len(all))
	}
	if all[0].JobID != "c" {
		t.Errorf("Expected newest first, got %s", all[0].JobID)
	}

	completed, _ := store.ListJobs(ctx, jobs.JobFilter{Status: jobs.JobStatusCompleted})
	if len(completed) != 2 {
		t.Errorf("Expected 2 completed jobs, got %d", len(completed))
	}

	limited, _ := store.ListJobs(ctx, jobs.JobFilter{Limit: 1})
	if len(limited) != 1 || limited[0].JobID != "c" {
		t.Errorf("Limit filter wrong: %v", limited)
	}
}
