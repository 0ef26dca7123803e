package status

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/virtual-wall/internal/logic"
)

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{Variant: "v3", UnitMs: 900000, TickMs: 500, PinButton: 17}
	tr := NewTracker(start, cfg)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config.Variant != "v3" {
		t.Errorf("Config.Variant: got %q, want v3", snap.Config.Variant)
	}
	if snap.Config.PinButton != 17 {
		t.Errorf("Config.PinButton: got %d, want 17", snap.Config.PinButton)
	}
	if snap.State != logic.Sleeping {
		t.Errorf("expected State=SLEEPING initially, got %s", snap.State)
	}
}

func TestUpdateAndSnapshot(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.Update(logic.Snapshot{
		State:              logic.Running,
		Countdown:          1800,
		ProgrammedDuration: 1,
		Ticks:              42,
	}, logic.EventCounts{Bursts: 3, Wakes: 1})

	snap := tr.Snapshot()
	if snap.State != logic.Running {
		t.Errorf("State: got %s, want RUNNING", snap.State)
	}
	if snap.Countdown != 1800 {
		t.Errorf("Countdown: got %d, want 1800", snap.Countdown)
	}
	if snap.ProgrammedDuration != 1 {
		t.Errorf("ProgrammedDuration: got %d, want 1", snap.ProgrammedDuration)
	}
	if snap.Ticks != 42 {
		t.Errorf("Ticks: got %d, want 42", snap.Ticks)
	}
	if snap.Counts.Bursts != 3 {
		t.Errorf("Counts.Bursts: got %d, want 3", snap.Counts.Bursts)
	}
	if snap.Counts.Wakes != 1 {
		t.Errorf("Counts.Wakes: got %d, want 1", snap.Counts.Wakes)
	}
}

func TestSnapshotUptime(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		StartTime: start,
		Now:       start.Add(15 * time.Minute),
	}

	if snap.Uptime() != 15*time.Minute {
		t.Errorf("Uptime: got %v, want 15m", snap.Uptime())
	}
}

func TestSnapshotRemaining(t *testing.T) {
	tests := []struct {
		name      string
		state     logic.RunState
		countdown int32
		want      time.Duration
	}{
		{"running", logic.Running, 1800, 15 * time.Minute},
		{"shutting down", logic.RunningShutdown, 4, 2 * time.Second},
		{"expired", logic.Running, 0, 0},
		{"negative", logic.Running, -3, 0},
		{"sleeping", logic.Sleeping, 1800, 0},
		{"counting", logic.Counter, 1800, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := Snapshot{State: tt.state, Countdown: tt.countdown, Config: Config{TickMs: 500}}
			if got := snap.Remaining(); got != tt.want {
				t.Errorf("Remaining: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSnapshotNowIsSet(t *testing.T) {
	tr := NewTracker(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Config{})

	before := time.Now()
	snap := tr.Snapshot()
	after := time.Now()

	if snap.Now.Before(before) || snap.Now.After(after) {
		t.Errorf("Now (%v) not between %v and %v", snap.Now, before, after)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	tr.Update(logic.Snapshot{State: logic.Running, Countdown: 10}, logic.EventCounts{Bursts: 1})

	snap1 := tr.Snapshot()

	tr.Update(logic.Snapshot{State: logic.Sleeping, Countdown: -1}, logic.EventCounts{Bursts: 2})

	// snap1 should still reflect old state
	if snap1.State != logic.Running {
		t.Error("snapshot should be a copy; State was modified")
	}
	if snap1.Counts.Bursts != 1 {
		t.Error("snapshot should be a copy; Counts was modified")
	}
}

func TestFormatJSON(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		State:              logic.Running,
		Countdown:          3600,
		ProgrammedDuration: 2,
		Ticks:              1800,
		Counts:             logic.EventCounts{Bursts: 5, Wakes: 2, ProgrammedStarts: 1},
		StartTime:          start,
		Now:                start.Add(15 * time.Minute),
		Config:             Config{Variant: "v3", UnitMs: 900000, TxDelayMs: 250, TickMs: 500},
	}

	data := FormatJSON(snap)

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Status.State != "RUNNING" {
		t.Errorf("State: got %q, want RUNNING", parsed.Status.State)
	}
	if !parsed.Status.Transmitting {
		t.Error("expected Transmitting=true")
	}
	if parsed.Status.RemainingSeconds != 1800 {
		t.Errorf("RemainingSeconds: got %d, want 1800", parsed.Status.RemainingSeconds)
	}
	if parsed.Status.ProgrammedDuration != 2 {
		t.Errorf("ProgrammedDuration: got %d, want 2", parsed.Status.ProgrammedDuration)
	}
	if parsed.Status.UptimeSeconds != 900 {
		t.Errorf("UptimeSeconds: got %d, want 900", parsed.Status.UptimeSeconds)
	}
	if parsed.Status.Counts.Bursts != 5 {
		t.Errorf("Counts.Bursts: got %d, want 5", parsed.Status.Counts.Bursts)
	}
	if parsed.Status.Config.Variant != "v3" {
		t.Errorf("Config.Variant: got %q, want v3", parsed.Status.Config.Variant)
	}
	// Event and Reason should be omitted
	if parsed.Status.Event != "" {
		t.Errorf("expected empty Event, got %q", parsed.Status.Event)
	}
	if parsed.Status.Reason != "" {
		t.Errorf("expected empty Reason, got %q", parsed.Status.Reason)
	}
}

func TestFormatJSONSleeping(t *testing.T) {
	snap := Snapshot{
		State:     logic.Sleeping,
		Countdown: -20,
		StartTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Now:       time.Date(2026, 1, 1, 0, 0, 1, 0, time.UTC),
		Config:    Config{TickMs: 500},
	}

	data := FormatJSON(snap)

	var parsed StatusJSON
	json.Unmarshal(data, &parsed)

	if parsed.Status.State != "SLEEPING" {
		t.Errorf("State: got %q, want SLEEPING", parsed.Status.State)
	}
	if parsed.Status.Transmitting {
		t.Error("expected Transmitting=false")
	}
	if parsed.Status.RemainingSeconds != 0 {
		t.Errorf("RemainingSeconds: got %d, want 0", parsed.Status.RemainingSeconds)
	}
}

func TestFormatStatusEvent(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		State:     logic.Running,
		Countdown: 100,
		Counts:    logic.EventCounts{Bursts: 3},
		StartTime: start,
		Now:       start.Add(15 * time.Minute),
		Config:    Config{TickMs: 500},
	}

	data := FormatStatusEvent(snap, "HEARTBEAT", "")

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Status.Event != "HEARTBEAT" {
		t.Errorf("Event: got %q, want HEARTBEAT", parsed.Status.Event)
	}
	if parsed.Status.Reason != "" {
		t.Errorf("Reason: got %q, want empty", parsed.Status.Reason)
	}
	if parsed.Status.State != "RUNNING" {
		t.Errorf("State: got %q, want RUNNING", parsed.Status.State)
	}
	if parsed.Status.RemainingSeconds != 50 {
		t.Errorf("RemainingSeconds: got %d, want 50", parsed.Status.RemainingSeconds)
	}
}

func TestFormatStatusEventShutdown(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		State:     logic.Sleeping,
		StartTime: start,
		Now:       start.Add(30 * time.Minute),
	}

	data := FormatStatusEvent(snap, "SHUTDOWN", "SIGTERM")

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Status.Event != "SHUTDOWN" {
		t.Errorf("Event: got %q, want SHUTDOWN", parsed.Status.Event)
	}
	if parsed.Status.Reason != "SIGTERM" {
		t.Errorf("Reason: got %q, want SIGTERM", parsed.Status.Reason)
	}
}

func TestFormatStatusEventOmitsReasonWhenEmpty(t *testing.T) {
	snap := Snapshot{
		StartTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Now:       time.Date(2026, 1, 1, 0, 0, 1, 0, time.UTC),
	}

	data := FormatStatusEvent(snap, "STARTUP", "")

	// Verify "reason" is not in the raw JSON output
	var raw map[string]interface{}
	json.Unmarshal(data, &raw)
	status := raw["status"].(map[string]interface{})
	if _, exists := status["reason"]; exists {
		t.Error("reason should be omitted when empty")
	}
	if status["event"] != "STARTUP" {
		t.Errorf("event: got %v, want STARTUP", status["event"])
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	var wg sync.WaitGroup

	// Writer
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			tr.Update(logic.Snapshot{State: logic.Running, Ticks: uint32(i)}, logic.EventCounts{Bursts: i})
		}
	}()

	// Reader
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			snap := tr.Snapshot()
			_ = snap.Uptime()
		}
	}()

	wg.Wait()
}
