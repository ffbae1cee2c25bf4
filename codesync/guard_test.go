package codesync

import "testing"

func TestRedirectGuardConsumeOnce(t *testing.T) {
	g := NewRedirectGuard(nil)
	if g.Consumed() {
		t.Fatalf("fresh guard must be unarmed")
	}
	if !g.ConsumeOnce() {
		t.Fatalf("first confirmation must pass")
	}
	if !g.Consumed() {
		t.Fatalf("guard must be armed after first confirmation")
	}
	if g.ConsumeOnce() {
		t.Fatalf("duplicate confirmation must not pass")
	}
	if g.Consumed() {
		t.Fatalf("duplicate must disarm the guard")
	}
	if !g.ConsumeOnce() {
		t.Fatalf("next cycle must pass again")
	}
}

func TestRedirectGuardSharedMarker(t *testing.T) {
	m := NewMemoryMarker()
	NewRedirectGuard(m).ConsumeOnce()

	if !m.Get(RedirectMarkerKey) {
		t.Fatalf("expected marker %q to be set", RedirectMarkerKey)
	}
	if NewRedirectGuard(m).ConsumeOnce() {
		t.Fatalf("guard over an armed marker must report duplicate")
	}
}

func TestRedirectGuardReset(t *testing.T) {
	g := NewRedirectGuard(nil)
	g.ConsumeOnce()
	g.Reset()
	if !g.ConsumeOnce() {
		t.Fatalf("reset guard must pass")
	}
}
