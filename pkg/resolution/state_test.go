package resolution

import (
	"reflect"
	"testing"

	"github.com/psfguard/psfview/pkg/tier"
)

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		start State
		ev    Event
		end   State
	}{
		{StateLarge, EventUpgrade, StateSwitchingToOriginal},
		{StateLarge, EventSettled, StateLarge},
		{StateLarge, EventReset, StateLarge},
		{StateSwitchingToOriginal, EventUpgrade, StateSwitchingToOriginal},
		{StateSwitchingToOriginal, EventSettled, StateOriginal},
		{StateSwitchingToOriginal, EventReset, StateLarge},
		{StateOriginal, EventUpgrade, StateOriginal},
		{StateOriginal, EventSettled, StateOriginal},
		{StateOriginal, EventReset, StateLarge},
		{State(9), EventUpgrade, StateLarge},
	}
	for _, tc := range cases {
		if got := Transition(tc.start, tc.ev); got != tc.end {
			t.Fatalf("Transition(%s, %s) = %s, want %s", tc.start, tc.ev, got, tc.end)
		}
	}
}

func TestUpgradeReady(t *testing.T) {
	cases := []struct {
		name string
		c    Conditions
		want bool
	}{
		{"not loaded", Conditions{VisualScale: 3, UpgradeThreshold: 1}, false},
		{"loaded, zoomed out", Conditions{OriginalLoaded: true, VisualScale: 0.9, UpgradeThreshold: 1}, false},
		{"loaded, exactly at threshold", Conditions{OriginalLoaded: true, VisualScale: 1, UpgradeThreshold: 1}, false},
		{"loaded, zoomed in", Conditions{OriginalLoaded: true, VisualScale: 1.3, UpgradeThreshold: 1}, true},
		{"peer original in sync", Conditions{OriginalLoaded: true, VisualScale: 0.2, UpgradeThreshold: 1, SyncMode: true, PeerState: StateOriginal}, true},
		{"peer original without sync", Conditions{OriginalLoaded: true, VisualScale: 0.2, UpgradeThreshold: 1, PeerState: StateOriginal}, false},
		{"peer switching in sync", Conditions{OriginalLoaded: true, VisualScale: 0.2, UpgradeThreshold: 1, SyncMode: true, PeerState: StateSwitchingToOriginal}, false},
	}
	for _, tc := range cases {
		if got := tc.c.UpgradeReady(); got != tc.want {
			t.Fatalf("%s: UpgradeReady() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDisplayTier(t *testing.T) {
	for _, base := range []tier.Tier{tier.Screen, tier.Large} {
		if got := StateLarge.DisplayTier(base); got != base {
			t.Fatalf("Large with base %s displays %s", base, got)
		}
		if StateSwitchingToOriginal.DisplayTier(base) != tier.Original || StateOriginal.DisplayTier(base) != tier.Original {
			t.Fatalf("upgraded states with base %s must display the Original tier", base)
		}
	}
}

func TestMachineMonotonic(t *testing.T) {
	key := Key{Identity: "42"}
	m := NewMachine(key)

	events := []Event{EventSettled, EventUpgrade, EventUpgrade, EventReset, EventSettled, EventUpgrade, EventSettled, EventReset}
	for _, ev := range events {
		m.Fire(ev)
	}
	if m.State() != StateOriginal {
		t.Fatalf("State() = %s, want %s", m.State(), StateOriginal)
	}
	want := []State{StateLarge, StateSwitchingToOriginal, StateOriginal}
	if got := m.History(); !reflect.DeepEqual(got, want) {
		t.Fatalf("History() = %v, want %v", got, want)
	}

	if m.Reset(key) {
		t.Fatal("Reset to the current key changed state")
	}
	if m.State() != StateOriginal {
		t.Fatalf("State() after same-key reset = %s", m.State())
	}

	if !m.Reset(Key{Identity: "42", Mode: tier.Annotated}) {
		t.Fatal("Reset to a new display mode was ignored")
	}
	if m.State() != StateLarge {
		t.Fatalf("State() after mode change = %s, want %s", m.State(), StateLarge)
	}
	if got := m.History(); !reflect.DeepEqual(got, []State{StateLarge}) {
		t.Fatalf("History() after reset = %v", got)
	}
}

func TestParseState(t *testing.T) {
	for _, s := range []State{StateLarge, StateSwitchingToOriginal, StateOriginal} {
		got, err := ParseState(s.String())
		if err != nil || got != s {
			t.Fatalf("ParseState(%q) = %s, %v", s.String(), got, err)
		}
	}
	if _, err := ParseState("Huge"); err == nil {
		t.Fatal("ParseState accepted unknown state")
	}
}
