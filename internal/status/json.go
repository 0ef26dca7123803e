package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event              string     `json:"event,omitempty"`
	Reason             string     `json:"reason,omitempty"`
	State              string     `json:"state"`
	Transmitting       bool       `json:"transmitting"`
	RemainingSeconds   int64      `json:"remaining_seconds"`
	ProgrammedDuration int        `json:"programmed_units"`
	Ticks              uint32     `json:"ticks"`
	UptimeSeconds      int64      `json:"uptime_seconds"`
	StartTime          string     `json:"start_time"`
	Timestamp          string     `json:"timestamp"`
	Counts             CountsJSON `json:"event_counts"`
	Config             ConfigJSON `json:"config"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Bursts           int `json:"bursts"`
	Wakes            int `json:"wakes"`
	TimerShutdowns   int `json:"timer_shutdowns"`
	ButtonShutdowns  int `json:"button_shutdowns"`
	DefaultStarts    int `json:"default_starts"`
	ProgrammedStarts int `json:"programmed_starts"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Variant     string `json:"variant"`
	UnitMs      int64  `json:"unit_ms"`
	TxDelayMs   int64  `json:"tx_delay_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	TickMs      int64  `json:"tick_ms"`
	PinButton   int    `json:"pin_button"`
	PinLED      int    `json:"pin_led"`
	PinIR       int    `json:"pin_ir"`
}

func buildInner(snap Snapshot) StatusInner {
	return StatusInner{
		State:              snap.State.String(),
		Transmitting:       snap.State.Transmitting(),
		RemainingSeconds:   int64(snap.Remaining().Truncate(time.Second).Seconds()),
		ProgrammedDuration: snap.ProgrammedDuration,
		Ticks:              snap.Ticks,
		UptimeSeconds:      int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:          snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:          snap.Now.UTC().Format(time.RFC3339),
		Counts: CountsJSON{
			Bursts:           snap.Counts.Bursts,
			Wakes:            snap.Counts.Wakes,
			TimerShutdowns:   snap.Counts.TimerShutdowns,
			ButtonShutdowns:  snap.Counts.ButtonShutdowns,
			DefaultStarts:    snap.Counts.DefaultStarts,
			ProgrammedStarts: snap.Counts.ProgrammedStarts,
		},
		Config: ConfigJSON{
			Variant:     snap.Config.Variant,
			UnitMs:      snap.Config.UnitMs,
			TxDelayMs:   snap.Config.TxDelayMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			TickMs:      snap.Config.TickMs,
			PinButton:   snap.Config.PinButton,
			PinLED:      snap.Config.PinLED,
			PinIR:       snap.Config.PinIR,
		},
	}
}

// FormatJSON returns the indented JSON status (no event/reason), as printed
// by -print-state.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the single-line JSON status for a lifecycle log
// line (STARTUP, HEARTBEAT, SHUTDOWN).
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
