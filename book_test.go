package portfolio

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"
)

func TestBook_MatchesComputePositions(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	symbols := []string{"AAPL", "MSFT", "TSLA"}

	book := NewBook("USD")
	var trades []Trade
	for i := 0; i < 500; i++ {
		if len(trades) > 0 && rng.Intn(4) == 0 {
			// remove a random trade, anywhere in the ledger.
			j := rng.Intn(len(trades))
			if !book.Remove(trades[j].ID) {
				t.Fatalf("step %d: Remove(%q) = false, want true", i, trades[j].ID)
			}
			trades = slices.Delete(trades, j, j+1)
		} else {
			id := fmt.Sprintf("t%d", i)
			symbol := symbols[rng.Intn(len(symbols))]
			q := float64(rng.Intn(20) + 1)
			p := float64(rng.Intn(50000)) / 100
			var tr Trade
			if rng.Intn(3) == 0 {
				tr = sell(id, symbol, q, p)
			} else {
				tr = buy(id, symbol, q, p)
			}
			book.Append(tr)
			trades = append(trades, tr)
		}

		if got, want := book.Positions(), ComputePositions(trades); !samePositions(got, want) {
			t.Fatalf("step %d: Book.Positions() = %v, want %v", i, got, want)
		}
		if got, want := len(book.Oversells()), len(Oversells(trades)); got != want {
			t.Fatalf("step %d: len(Book.Oversells()) = %d, want %d", i, got, want)
		}
	}
}

func TestBook_RemoveUnknown(t *testing.T) {
	book := NewBook("USD")
	book.Append(buy("1", "X", 1, 1))
	if book.Remove("nope") {
		t.Errorf("Remove(unknown) = true, want false")
	}
	if _, ok := book.Position("X"); !ok {
		t.Errorf("Position(X) missing after removing an unknown id")
	}
}

func TestBook_RemoveLastTradeOfSymbol(t *testing.T) {
	book := NewBook("USD")
	book.Append(buy("1", "X", 1, 1))
	book.Remove("1")
	if _, ok := book.Position("X"); ok {
		t.Errorf("Position(X) still present after its only trade was removed")
	}
}

func TestBook_RemoveDuplicateIDs(t *testing.T) {
	book := NewBook("USD")
	book.Append(buy("1", "X", 10, 100))
	book.Append(buy("2", "X", 1, 50))
	book.Append(buy("1", "Y", 5, 200))
	if !book.Remove("1") {
		t.Fatalf("Remove(1) = false, want true")
	}
	want := ComputePositions([]Trade{buy("2", "X", 1, 50)})
	if got := book.Positions(); !samePositions(got, want) {
		t.Errorf("Positions() = %v, want %v", got, want)
	}
}
