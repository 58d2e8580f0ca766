package catalog

import (
	"testing"

	"reelbox/internal/catalog/catalogtest"
	"reelbox/internal/model"
)

func TestFilterCounts_FollowOptimisticState(t *testing.T) {
	films := catalogtest.Films(3)
	films[0].Flags.Watchlist = true
	films[2].Flags.Watchlist = true
	f := newFixture(t, films, nil)
	fs := NewFilterStore(f.items)

	if got := fs.Count(model.FilterWatchlist); got != 2 {
		t.Fatalf("expected watchlist count 2; got %d", got)
	}
	if got := fs.Count(model.FilterAll); got != 3 {
		t.Fatalf("expected all count 3; got %d", got)
	}

	_ = f.items.SetFlag("f2", model.FlagWatchlist, true, model.ChangePatch)
	if got := fs.Count(model.FilterWatchlist); got != 3 {
		t.Fatalf("expected in-flight change counted; got %d", got)
	}
	f.gw.FailNext(catalogtest.OpUpdateItem, errTest)
	f.sched.RunAll()
	if got := fs.Count(model.FilterWatchlist); got != 2 {
		t.Fatalf("expected count back to 2 after rollback; got %d", got)
	}
}

func TestFilterSetActive(t *testing.T) {
	f := newFixture(t, catalogtest.Films(1), nil)
	fs := NewFilterStore(f.items)
	var got []FilterEvent
	var kinds []model.ChangeKind
	fs.Subscribe(func(k model.ChangeKind, ev FilterEvent) {
		kinds = append(kinds, k)
		got = append(got, ev)
	})

	if err := fs.SetActive(model.FilterAll); err != nil {
		t.Fatalf("SetActive(all): %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected re-selecting the active filter to be a no-op")
	}
	if err := fs.SetActive(model.FilterFavorites); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if len(got) != 1 || kinds[0] != model.ChangeMajor || got[0].Active != model.FilterFavorites || got[0].Previous != model.FilterAll {
		t.Fatalf("unexpected notifications: %v %+v", kinds, got)
	}
	if err := fs.SetActive("bogus"); err == nil {
		t.Fatalf("expected error for unknown filter")
	}
	if fs.Active() != model.FilterFavorites {
		t.Fatalf("expected favorites active; got %s", fs.Active())
	}
}
