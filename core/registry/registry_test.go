package registry

import (
	"testing"
)

func TestSetGlobal_GetGlobal(t *testing.T) {
	r := NewRegistry()
	r.SetGlobal("k", 42)
	v, ok := r.GetGlobal("k")
	if !ok {
		t.Fatal("GetGlobal: want true")
	}
	if v != 42 {
		t.Errorf("GetGlobal = %v, want 42", v)
	}
}

func TestGetGlobal_Missing(t *testing.T) {
	r := NewRegistry()
	_, ok := r.GetGlobal("missing")
	if ok {
		t.Error("GetGlobal missing key: want false")
	}
}

func TestLock_SetPanics(t *testing.T) {
	r := NewRegistry()
	r.SetGlobal("k", 1)
	r.Lock("k")
	if !r.IsLocked("k") {
		t.Fatal("IsLocked: want true after Lock")
	}
	defer func() {
		if recover() == nil {
			t.Error("SetGlobal on locked key: want panic")
		}
	}()
	r.SetGlobal("k", 2)
}

func TestUnlockForTesting(t *testing.T) {
	r := NewRegistry()
	r.Lock("k")
	r.UnlockForTesting("k")
	if r.IsLocked("k") {
		t.Error("IsLocked: want false after UnlockForTesting")
	}
	r.SetGlobal("k", "ok")
	if v, _ := r.GetGlobal("k"); v != "ok" {
		t.Errorf("GetGlobal = %v, want ok", v)
	}
}
