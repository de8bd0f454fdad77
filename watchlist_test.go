package portfolio

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestWatchlist_AddRemove(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	w := LoadWatchlist(ctx, store)

	if added, err := w.Add(ctx, " pltr "); err != nil || !added {
		t.Fatalf("Add(pltr) = %v, %v, want true, nil", added, err)
	}
	if added, _ := w.Add(ctx, "PLTR"); added {
		t.Errorf("Add(PLTR) twice reported true")
	}
	if added, _ := w.Add(ctx, "aapl"); added {
		t.Errorf("Add(aapl) reported true for a trending symbol")
	}
	if _, err := w.Add(ctx, ""); !errors.Is(err, ErrInvalidTrade) {
		t.Errorf("Add(\"\") error = %v, want a validation error", err)
	}
	w.Add(ctx, "coin")

	if got, want := w.Extras(), []string{"PLTR", "COIN"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Extras() = %v, want %v", got, want)
	}
	if got := w.Symbols(); len(got) != len(TrendingSymbols)+2 || got[0] != "AAPL" || got[len(got)-1] != "COIN" {
		t.Errorf("Symbols() = %v", got)
	}

	puts := store.puts
	if removed, err := w.Remove(ctx, "NOPE"); err != nil || removed {
		t.Errorf("Remove(NOPE) = %v, %v, want false, nil", removed, err)
	}
	if store.puts != puts {
		t.Errorf("Remove(NOPE) rewrote the slot")
	}
	if removed, err := w.Remove(ctx, "pltr"); err != nil || !removed {
		t.Errorf("Remove(pltr) = %v, %v, want true, nil", removed, err)
	}

	reloaded := LoadWatchlist(ctx, store)
	if got, want := reloaded.Extras(), []string{"COIN"}; !reflect.DeepEqual(got, want) {
		t.Errorf("reloaded Extras() = %v, want %v", got, want)
	}
}

func TestWatchlist_PersistFailure(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	w := LoadWatchlist(ctx, store)
	store.fail = errDiskFull
	if _, err := w.Add(ctx, "PLTR"); !errors.Is(err, errDiskFull) {
		t.Errorf("Add() error = %v, want %v", err, errDiskFull)
	}
	if len(w.Extras()) != 0 {
		t.Errorf("Extras() = %v after a failed save, want empty", w.Extras())
	}
}

func TestLoadWatchlist_Degraded(t *testing.T) {
	testCases := []struct {
		name string
		data string
		want []string
	}{
		{name: "corrupt", data: "not json", want: []string{}},
		{name: "wrong shape", data: `{"a":1}`, want: []string{}},
		{name: "normalized and deduplicated", data: `["pltr"," PLTR ","","coin"]`, want: []string{"PLTR", "COIN"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := newMemStore()
			store.slots[WatchlistSlot] = []byte(tc.data)
			if got := LoadWatchlist(context.Background(), store).Extras(); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Extras() = %#v, want %#v", got, tc.want)
			}
		})
	}
}
