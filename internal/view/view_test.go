package view

import "testing"

type text string

func (t text) View() string { return string(t) }

func TestContainer_ReplaceKeepsPosition(t *testing.T) {
	var c Container
	a, b, x := &struct{ text }{"a"}, &struct{ text }{"b"}, &struct{ text }{"x"}
	c.Append(a)
	c.Append(b)

	if !c.Replace(x, a) {
		t.Fatalf("expected replace to succeed")
	}
	if c.Index(x) != 0 || c.Index(b) != 1 || c.Contains(a) {
		t.Fatalf("unexpected children after replace")
	}
	if c.Replace(a, a) {
		t.Fatalf("expected replace of unmounted component to fail")
	}
	if !c.Remove(b) || c.Len() != 1 {
		t.Fatalf("expected remove to leave one child")
	}
}

func TestMount_SingleSlot(t *testing.T) {
	var m Mount
	a, b := &struct{ text }{"a"}, &struct{ text }{"b"}

	if m.ScrollLocked() {
		t.Fatalf("expected unlocked when empty")
	}
	if err := m.Attach(a); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if err := m.Attach(b); err != ErrMountBusy {
		t.Fatalf("expected ErrMountBusy; got %v", err)
	}
	if !m.ScrollLocked() {
		t.Fatalf("expected scroll lock while attached")
	}
	if m.Detach(b) {
		t.Fatalf("expected detach of non-holder to fail")
	}
	if !m.Replace(b, a) || m.Current() != b {
		t.Fatalf("expected replace to hand the slot over")
	}
	if !m.Detach(b) || m.Current() != nil || m.ScrollLocked() {
		t.Fatalf("expected empty unlocked mount after detach")
	}
}

func TestKeyListeners(t *testing.T) {
	var k KeyListeners
	var seen []string
	remove := k.Add(func(key string) bool {
		seen = append(seen, "a:"+key)
		return key == "esc"
	})
	k.Add(func(key string) bool {
		seen = append(seen, "b:"+key)
		return false
	})

	if !k.Dispatch("esc") {
		t.Fatalf("expected esc handled")
	}
	if k.Dispatch("x") {
		t.Fatalf("expected x unhandled")
	}
	remove()
	if k.Len() != 1 {
		t.Fatalf("expected one listener left; got %d", k.Len())
	}
	if len(seen) != 4 {
		t.Fatalf("expected every listener to see every key; got %v", seen)
	}
}
