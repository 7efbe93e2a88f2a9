package scheduler

import (
	"testing"
)

func TestAddJob_RejectsDuplicateID(t *testing.T) {
	s := NewEventScheduler()

	if err := s.AddJob("batch", "*/2 * * * *", func() {}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.AddJob("batch", "*/5 * * * *", func() {}); err == nil {
		t.Error("expected duplicate job ID to be rejected")
	}
}

func TestAddJob_RejectsInvalidCron(t *testing.T) {
	s := NewEventScheduler()

	if err := s.AddJob("bad", "not-a-cron", func() {}); err == nil {
		t.Error("expected invalid cron expression to be rejected")
	}
}

func TestRemoveJob(t *testing.T) {
	s := NewEventScheduler()

	if err := s.RemoveJob("missing"); err == nil {
		t.Error("expected error removing unknown job")
	}

	if err := s.AddJob("batch", "*/2 * * * *", func() {}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.RemoveJob("batch"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// ลบแล้วลงทะเบียน ID เดิมใหม่ได้
	if err := s.AddJob("batch", "*/2 * * * *", func() {}); err != nil {
		t.Fatalf("re-adding removed job failed: %v", err)
	}
}

func TestStartStop(t *testing.T) {
	s := NewEventScheduler()

	if s.IsRunning() {
		t.Error("new scheduler should not be running")
	}

	s.Start()
	if !s.IsRunning() {
		t.Error("scheduler should be running after Start")
	}

	s.Stop()
	if s.IsRunning() {
		t.Error("scheduler should not be running after Stop")
	}
}
