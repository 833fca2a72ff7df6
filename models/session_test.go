package models

import (
	"testing"
	"time"
)

func ledgerSession(offsets map[TimestampKey]time.Duration) SessionRecord {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	ts := make(map[TimestampKey]time.Time, len(offsets))
	for key, off := range offsets {
		ts[key] = base.Add(off)
	}
	return SessionRecord{SessionID: "s1", Timestamps: ts}
}

func TestDerivePerformanceFullLedger(t *testing.T) {
	s := ledgerSession(map[TimestampKey]time.Duration{
		TSKitchenExit:     0,
		TSWardArrival:     5 * time.Minute,
		TSNurseAlerted:    6 * time.Minute,
		TSNurseResponse:   8 * time.Minute,
		TSServiceStart:    10 * time.Minute,
		TSServiceComplete: 30 * time.Minute,
	})

	p := s.DerivePerformance()
	if p.TravelTime != 5*time.Minute {
		t.Fatalf("TravelTime = %v", p.TravelTime)
	}
	if p.NurseResponseTime != 2*time.Minute {
		t.Fatalf("NurseResponseTime = %v", p.NurseResponseTime)
	}
	if p.ServingTime != 20*time.Minute {
		t.Fatalf("ServingTime = %v", p.ServingTime)
	}
	if p.TotalDuration != 30*time.Minute {
		t.Fatalf("TotalDuration = %v", p.TotalDuration)
	}
	// 5 minutes over the 25 minute target is a 20 percent overrun.
	if p.Efficiency != 80 {
		t.Fatalf("Efficiency = %d, want 80", p.Efficiency)
	}
}

func TestDerivePerformancePartialLedger(t *testing.T) {
	s := ledgerSession(map[TimestampKey]time.Duration{
		TSKitchenExit: 0,
		TSWardArrival: 4 * time.Minute,
	})

	p := s.DerivePerformance()
	if p.TravelTime != 4*time.Minute {
		t.Fatalf("TravelTime = %v", p.TravelTime)
	}
	if p.TotalDuration != 0 || p.Efficiency != 0 {
		t.Fatalf("incomplete ledger produced total %v, efficiency %d", p.TotalDuration, p.Efficiency)
	}
}

func TestEfficiencyBounds(t *testing.T) {
	fast := ledgerSession(map[TimestampKey]time.Duration{
		TSKitchenExit:     0,
		TSServiceComplete: 20 * time.Minute,
	})
	if p := fast.DerivePerformance(); p.Efficiency != 100 {
		t.Fatalf("under-target run scored %d, want 100", p.Efficiency)
	}

	slow := ledgerSession(map[TimestampKey]time.Duration{
		TSKitchenExit:     0,
		TSServiceComplete: 90 * time.Minute,
	})
	if p := slow.DerivePerformance(); p.Efficiency != 0 {
		t.Fatalf("badly over-target run scored %d, want 0", p.Efficiency)
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := ledgerSession(map[TimestampKey]time.Duration{TSKitchenExit: 0})
	s.NurseInfo = &NurseInfo{Name: "n1", ResponseTime: time.Minute}

	clone := s.Clone()
	clone.Timestamps[TSWardArrival] = time.Now()
	clone.NurseInfo.Name = "other"

	if _, ok := s.Timestamps[TSWardArrival]; ok {
		t.Fatal("clone shares the timestamp map")
	}
	if s.NurseInfo.Name != "n1" {
		t.Fatal("clone shares nurse info")
	}
}

func TestParseStepFallsBackToLogin(t *testing.T) {
	if got := ParseStep("ward-arrival"); got != StepWardArrival {
		t.Fatalf("ParseStep(ward-arrival) = %s", got)
	}
	if got := ParseStep("teleport"); got != StepLogin {
		t.Fatalf("unknown step parsed to %s, want login", got)
	}
}

func TestValidTimestampKey(t *testing.T) {
	for _, key := range TimestampKeys {
		if !ValidTimestampKey(key) {
			t.Fatalf("key %s should be valid", key)
		}
	}
	if ValidTimestampKey("coffeeBreak") {
		t.Fatal("unexpected valid key")
	}
}
