package sim

import (
	"context"
	"reflect"
	"testing"
)

func TestParseCards(t *testing.T) {
	got, err := ParseCards(" a:2, b ,,c:5")
	if err != nil {
		t.Fatal(err)
	}
	want := []CardSpec{{ID: "a", Level: 2}, {ID: "b"}, {ID: "c", Level: 5}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if _, err := ParseCards("a:x"); err == nil {
		t.Error("non-numeric level accepted")
	}
	if got, _ := ParseCards(""); len(got) != 0 {
		t.Errorf("empty list parsed to %+v", got)
	}
}

func TestLoadoutValidation(t *testing.T) {
	tests := []struct {
		hero  string
		cards []CardSpec
		ok    bool
	}{
		{"medic", nil, true},
		{"striker", []CardSpec{{ID: "increase_attack", Level: 3}, {ID: "lucky_bullet"}}, true},
		{"nobody", nil, false},
		{"medic", []CardSpec{{ID: "bogus"}}, false},
		{"medic", []CardSpec{{ID: "lucky_bullet", Level: 9}}, false},
		{"medic", []CardSpec{{ID: "lucky_bullet", Level: -1}}, false},
		{"medic", []CardSpec{{ID: "lucky_bullet"}, {ID: "lucky_bullet", Level: 2}}, false},
	}
	for _, tt := range tests {
		lo, err := Loadout(tt.hero, tt.cards)
		if (err == nil) != tt.ok {
			t.Errorf("Loadout(%s, %+v) err = %v, want ok %v", tt.hero, tt.cards, err, tt.ok)
			continue
		}
		if tt.ok && len(lo.Extra) != len(tt.cards) {
			t.Errorf("Loadout(%s) extra effects = %d, want %d", tt.hero, len(lo.Extra), len(tt.cards))
		}
	}
}

func TestDuelIsSeeded(t *testing.T) {
	m := Matchup{Hero1: "pyro", Hero2: "reaper", Cards1: []CardSpec{{ID: "lucky_bullet", Level: 2}}}
	a, err := Duel(m, 21)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Duel(m, 21)
	if a.Duration() != b.Duration() || len(a.Snapshots()) != len(b.Snapshots()) {
		t.Fatal("same seed produced different fights")
	}
	for i, f := range a.Last().Fighters {
		if g := b.Last().Fighters[i]; f.HP != g.HP || f.Mana != g.Mana {
			t.Errorf("side %d ended %v/%v and %v/%v", i, f.HP, f.Mana, g.HP, g.Mana)
		}
	}
}

func TestBatchIndependentOfWorkers(t *testing.T) {
	m := Matchup{Hero1: "medic", Hero2: "striker"}
	serial, err := Batch(context.Background(), m, 12, 100, 1)
	if err != nil {
		t.Fatal(err)
	}
	parallel, err := Batch(context.Background(), m, 12, 100, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(serial, parallel) {
		t.Errorf("serial %+v != parallel %+v", serial, parallel)
	}
	if serial.Wins[0]+serial.Wins[1] != 12 {
		t.Errorf("wins = %v, want 12 total", serial.Wins)
	}
	if r := serial.WinRate[0] + serial.WinRate[1]; r < 0.999 || r > 1.001 {
		t.Errorf("win rates sum to %v", r)
	}
	if serial.AvgDuration <= 0 || serial.AvgStats[0].Attacks <= 0 {
		t.Errorf("empty averages: %+v", serial)
	}
}

func TestBatchErrors(t *testing.T) {
	if _, err := Batch(context.Background(), Matchup{Hero1: "medic", Hero2: "medic"}, 0, 1, 1); err == nil {
		t.Error("zero duels accepted")
	}
	if _, err := Batch(context.Background(), Matchup{Hero1: "medic", Hero2: "nobody"}, 3, 1, 1); err == nil {
		t.Error("unknown hero accepted")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Batch(ctx, Matchup{Hero1: "medic", Hero2: "medic"}, 3, 1, 1); err == nil {
		t.Error("cancelled context ignored")
	}
}
