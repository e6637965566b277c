package scheduler

import (
	"testing"

	"email-triage-go/internal/config"
)

func TestSchedulerRestart(t *testing.T) {
	cfg := &config.SyncConfig{Enabled: true, IntervalMinutes: 60}
	sched := NewScheduler(cfg, nil, nil, nil)

	if err := sched.Start(); err != nil {
		t.Fatalf("first start failed: %v", err)
	}
	if !sched.IsRunning() {
		t.Fatalf("scheduler should be running after Start")
	}
	if err := sched.Stop(); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if sched.IsRunning() {
		t.Fatalf("scheduler should not be running after Stop")
	}
	if err := sched.Start(); err != nil {
		t.Fatalf("second start failed: %v", err)
	}
	if !sched.IsRunning() {
		t.Fatalf("scheduler should be running after second Start")
	}
	if sched.ctx == nil || sched.ctx.Err() != nil {
		t.Fatalf("scheduler context should be active after restart")
	}
	sched.Stop()
}
