package bus

import (
	"strings"
	"testing"

	"reelbox/internal/model"
)

func TestNotify_InSubscriptionOrder(t *testing.T) {
	var b Bus[string]
	var got []string
	b.Subscribe(func(k model.ChangeKind, p string) { got = append(got, "a:"+k.String()+":"+p) })
	b.Subscribe(func(k model.ChangeKind, p string) { got = append(got, "b:"+k.String()+":"+p) })

	b.Notify(model.ChangeMinor, "x")

	want := []string{"a:MINOR:x", "b:MINOR:x"}
	if len(got) != len(want) {
		t.Fatalf("expected %v; got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v; got %v", want, got)
		}
	}
}

func TestUnsubscribe(t *testing.T) {
	var b Bus[int]
	calls := 0
	unsub := b.Subscribe(func(model.ChangeKind, int) { calls++ })
	b.Notify(model.ChangePatch, 1)
	unsub()
	b.Notify(model.ChangePatch, 2)
	if calls != 1 {
		t.Fatalf("expected 1 call; got %d", calls)
	}
	if b.Len() != 0 {
		t.Fatalf("expected no subscribers; got %d", b.Len())
	}
}

func TestSubscribeDuringDispatch_AppliesNextTime(t *testing.T) {
	var b Bus[int]
	late := 0
	b.Subscribe(func(model.ChangeKind, int) {
		b.Subscribe(func(model.ChangeKind, int) { late++ })
	})
	b.Notify(model.ChangeMajor, 0)
	if late != 0 {
		t.Fatalf("expected late subscriber not called in current dispatch; got %d", late)
	}
	b.Notify(model.ChangeMajor, 0)
	if late != 1 {
		t.Fatalf("expected late subscriber called once; got %d", late)
	}
}

func TestUnsubscribeDuringDispatch_SkipsRemovedHandler(t *testing.T) {
	var b Bus[int]
	var got []string
	var unsubB func()
	b.Subscribe(func(model.ChangeKind, int) {
		got = append(got, "a")
		unsubB()
		unsubB()
	})
	unsubB = b.Subscribe(func(model.ChangeKind, int) { got = append(got, "b") })
	b.Subscribe(func(model.ChangeKind, int) { got = append(got, "c") })

	b.Notify(model.ChangePatch, 0)
	if strings.Join(got, ",") != "a,c" {
		t.Fatalf("expected removed handler skipped in the same dispatch; got %v", got)
	}
	if b.Len() != 2 {
		t.Fatalf("expected 2 subscribers; got %d", b.Len())
	}
}

func TestNotify_ReentrantPanics(t *testing.T) {
	var b Bus[int]
	b.Subscribe(func(model.ChangeKind, int) { b.Notify(model.ChangePatch, 1) })

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on reentrant Notify")
		}
		if b.dispatching {
			t.Fatalf("expected dispatching flag cleared after panic")
		}
	}()
	b.Notify(model.ChangePatch, 0)
}
