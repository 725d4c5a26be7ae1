package keypad

import "testing"

func TestState_PressRelease(t *testing.T) {
	s := New()
	if s.IsHeld(Key5) {
		t.Fatalf("expected no keys held initially")
	}
	s.Press(Key5)
	if !s.IsHeld(Key5) {
		t.Errorf("expected key 5 to be held")
	}
	if s.IsHeld(Key4) || s.IsHeld(Key6) {
		t.Errorf("expected neighbouring keys to be released")
	}
	s.Release(Key5)
	if s.IsHeld(Key5) {
		t.Errorf("expected key 5 to be released")
	}
}

func TestState_AnyHeld(t *testing.T) {
	s := New()
	if _, ok := s.AnyHeld(); ok {
		t.Errorf("expected no key held")
	}

	s.Press(KeyE)
	s.Press(Key3)
	s.Press(KeyA)
	k, ok := s.AnyHeld()
	if !ok || k != Key3 {
		t.Errorf("expected lowest held key 3, got %X (%v)", k, ok)
	}

	s.Release(Key3)
	if k, _ := s.AnyHeld(); k != KeyA {
		t.Errorf("expected lowest held key A, got %X", k)
	}

	s.Reset()
	if _, ok := s.AnyHeld(); ok {
		t.Errorf("expected reset to release every key")
	}
}

func TestState_OutOfRange(t *testing.T) {
	s := New()
	s.Press(16)
	s.Press(0xFF)
	if s.State != 0 {
		t.Errorf("expected out of range presses to be ignored, state 0x%04X", s.State)
	}
	if s.IsHeld(16) {
		t.Errorf("expected out of range keys to never be held")
	}
	s.Release(0x20)
}
