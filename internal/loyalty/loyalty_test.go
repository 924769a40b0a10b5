package loyalty

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/vovakirdan/breadcrush/internal/engine"
)

func TestDistribute(t *testing.T) {
	tests := []struct {
		name  string
		raw   int
		tally engine.Tally
		want  map[engine.Category]int
	}{
		{
			name:  "two categories",
			raw:   47,
			tally: engine.Tally{engine.Plain: 5, engine.Everything: 2},
			want:  map[engine.Category]int{engine.Everything: 13, engine.Plain: 34},
		},
		{
			name:  "single category takes all",
			raw:   30,
			tally: engine.Tally{engine.Hotteok: 3},
			want:  map[engine.Category]int{engine.Hotteok: 30},
		},
		{
			name:  "even split",
			raw:   60,
			tally: engine.Tally{engine.Plain: 3, engine.OliveCheese: 3},
			want:  map[engine.Category]int{engine.Plain: 30, engine.OliveCheese: 30},
		},
		{
			name:  "rounding remainder",
			raw:   10,
			tally: engine.Tally{engine.Plain: 1, engine.Everything: 1, engine.OliveCheese: 1},
			want:  map[engine.Category]int{engine.Plain: 3, engine.Everything: 3, engine.OliveCheese: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			awards := Distribute(tt.raw, tt.tally)
			if len(awards) != len(tt.want) {
				t.Fatalf("got %d awards, expected %d: %+v", len(awards), len(tt.want), awards)
			}
			sum := 0
			for _, a := range awards {
				if a.Points != tt.want[a.Category] {
					t.Errorf("%v = %d, expected %d", a.Category, a.Points, tt.want[a.Category])
				}
				sum += a.Points
			}
			if sum != tt.raw {
				t.Errorf("sum = %d, expected %d", sum, tt.raw)
			}
		})
	}
}

func TestDistributeEmpty(t *testing.T) {
	if awards := Distribute(100, engine.Tally{}); awards != nil {
		t.Errorf("Distribute() on empty tally = %+v, expected nil", awards)
	}
}

func TestDistributeSumsExactly(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		var tally engine.Tally
		for c := range tally {
			if rng.Intn(2) == 0 {
				tally[c] = rng.Intn(12)
			}
		}
		if tally.Total() == 0 {
			tally[engine.Plain] = 3
		}
		raw := 30 + rng.Intn(400)

		awards := Distribute(raw, tally)
		got := 0
		for _, a := range awards {
			if tally[a.Category] == 0 {
				t.Fatalf("award for category %v with no removals", a.Category)
			}
			if a.Points < 0 {
				t.Fatalf("negative award %+v for raw %d tally %v", a, raw, tally)
			}
			got += a.Points
		}
		if got != raw {
			t.Fatalf("raw %d tally %v: awards sum to %d", raw, tally, got)
		}
	}
}

type recordingSink struct {
	mu      sync.Mutex
	credits []Credit
	err     error
}

func (s *recordingSink) Credit(_ context.Context, c Credit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credits = append(s.credits, c)
	return s.err
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.credits)
}

func TestDispatcherDeliversBeforeStop(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(DefaultDispatcherConfig(), sink, nil)
	d.Start()

	for i := 1; i <= 20; i++ {
		d.Report(Credit{SessionID: "s1", Pass: i, Score: 10})
	}
	d.Stop()

	if sink.count() != 20 {
		t.Errorf("sink received %d credits, expected 20", sink.count())
	}
	delivered, dropped, failed := d.Stats()
	if delivered != 20 || dropped != 0 || failed != 0 {
		t.Errorf("Stats() = %d/%d/%d, expected 20/0/0", delivered, dropped, failed)
	}

	d.Report(Credit{SessionID: "s1"})
	if _, dropped, _ := d.Stats(); dropped != 1 {
		t.Errorf("Report after Stop should drop, dropped = %d", dropped)
	}
}

func TestDispatcherCountsFailures(t *testing.T) {
	sink := &recordingSink{err: errors.New("ledger offline")}
	d := NewDispatcher(DefaultDispatcherConfig(), sink, nil)
	d.Start()
	d.Report(Credit{SessionID: "s1", Pass: 1})
	d.Stop()

	if _, _, failed := d.Stats(); failed != 1 {
		t.Errorf("failed = %d, expected 1", failed)
	}
}

func TestDispatcherAccountsForEveryReportDuringStop(t *testing.T) {
	for round := range 50 {
		sink := &recordingSink{}
		d := NewDispatcher(DispatcherConfig{QueueSize: 4}, sink, nil)
		d.Start()

		const reporters, perReporter = 8, 25
		var wg sync.WaitGroup
		for r := range reporters {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range perReporter {
					d.Report(Credit{SessionID: "s1", Pass: r*perReporter + i})
				}
			}()
		}
		d.Stop()
		wg.Wait()

		delivered, dropped, failed := d.Stats()
		if total := delivered + dropped + failed; total != reporters*perReporter {
			t.Fatalf("round %d: delivered %d + dropped %d + failed %d = %d, expected %d",
				round, delivered, dropped, failed, total, reporters*perReporter)
		}
		if int64(sink.count()) != delivered {
			t.Fatalf("round %d: sink received %d credits, delivered = %d", round, sink.count(), delivered)
		}
	}
}

func TestFanoutJoinsErrors(t *testing.T) {
	ok := &recordingSink{}
	bad := &recordingSink{err: errors.New("boom")}
	err := Fanout{ok, nil, bad}.Credit(context.Background(), Credit{Pass: 1})

	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Fanout error = %v, expected boom", err)
	}
	if ok.count() != 1 || bad.count() != 1 {
		t.Error("every sink should see the credit")
	}
}

func TestEncodeCreditUsesCategoryNames(t *testing.T) {
	c := Credit{
		SessionID: "abc",
		Score:     40,
		Awards:    []Award{{Category: engine.Hotteok, Points: 40}},
	}
	body, err := EncodeCredit(c)
	if err != nil {
		t.Fatalf("EncodeCredit() failed: %v", err)
	}
	if !strings.Contains(string(body), `"Hotteok"`) {
		t.Errorf("payload %s should name the category", body)
	}

	back, err := DecodeCredit(body)
	if err != nil {
		t.Fatalf("DecodeCredit() failed: %v", err)
	}
	if back.Total() != 40 || back.Awards[0].Category != engine.Hotteok {
		t.Errorf("decoded %+v", back)
	}
}
