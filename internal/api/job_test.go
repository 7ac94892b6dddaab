package api

import "testing"

func TestJobLifecycle(t *testing.T) {
	jm := NewJobManager()

	var snapshots []Job
	jm.OnUpdate(func(j Job) { snapshots = append(snapshots, j) })

	jm.CreateJob("abc")
	jm.UpdateProgress("abc", 30, "Synthesizing")
	jm.CompleteJob("abc", "/narration/x.m4a", 42.5, 2048)

	job, ok := jm.GetJob("abc")
	if !ok {
		t.Fatal("job missing")
	}
	if job.Status != StatusSuccess || job.Progress != 100 {
		t.Errorf("job = %+v", job)
	}
	if job.DownloadURL != "/narration/x.m4a" || job.DurationSec != 42.5 || job.SizeBytes != 2048 {
		t.Errorf("result fields = %+v", job)
	}

	if len(snapshots) != 3 {
		t.Fatalf("notify saw %d snapshots, want 3", len(snapshots))
	}
	if snapshots[0].Status != StatusPending ||
		snapshots[1].Status != StatusProcessing ||
		snapshots[2].Status != StatusSuccess {
		t.Errorf("snapshot statuses = %v, %v, %v",
			snapshots[0].Status, snapshots[1].Status, snapshots[2].Status)
	}
}

func TestFailJob(t *testing.T) {
	jm := NewJobManager()
	jm.CreateJob("x")
	jm.FailJob("x", "boom")

	job, _ := jm.GetJob("x")
	if job.Status != StatusFailed || job.Error != "boom" {
		t.Errorf("job = %+v", job)
	}
}

func TestGetJobMissing(t *testing.T) {
	jm := NewJobManager()
	if _, ok := jm.GetJob("ghost"); ok {
		t.Error("GetJob returned a job that was never created")
	}
}

func TestGetAllJobsReturnsCopies(t *testing.T) {
	jm := NewJobManager()
	jm.CreateJob("a")

	list := jm.GetAllJobs()
	if len(list) != 1 {
		t.Fatalf("len = %d, want 1", len(list))
	}

	list[0].Status = StatusFailed // mutating the copy must not touch the table
	job, _ := jm.GetJob("a")
	if job.Status != StatusPending {
		t.Errorf("stored job mutated through the returned slice: %v", job.Status)
	}
}
