package fight

import (
	"math/rand"
	"reflect"
	"sort"
	"testing"
)

// TestAttackOnlyDuel: 60-damage hits against 30-damage hits, B falls on the second exchange.
func TestAttackOnlyDuel(t *testing.T) {
	a := testHero("A", 100, 10, 1.0, 0, 0, NewAttack)
	b := testHero("B", 100, 5, 1.0, 0, 0, NewAttack)

	c := Run(Loadout{Hero: a}, Loadout{Hero: b}, seeded(1))
	checkInvariants(t, c)

	winner, ok := c.Winner()
	if !ok || winner != Fighter1 {
		t.Fatalf("winner = %v (decided %v), want F1", winner, ok)
	}
	if !approx(c.Duration(), 2.0, 0.02) {
		t.Errorf("KO at %v, want ~2.0", c.Duration())
	}
	last := c.Last()
	if last.Fighters[Fighter2].HP != 0 {
		t.Errorf("B hp = %v, want 0", last.Fighters[Fighter2].HP)
	}
	if last.Fighters[Fighter1].HPLost != 60 {
		t.Errorf("A hp_lost = %v, want 60", last.Fighters[Fighter1].HPLost)
	}
	if last.Fighters[Fighter1].HP != 40 {
		t.Errorf("A hp = %v, want 40", last.Fighters[Fighter1].HP)
	}
}

// TestEvasionAlwaysExpires: nothing lands, the duel runs the full duration and F1 takes the tie.
func TestEvasionAlwaysExpires(t *testing.T) {
	a := testHero("A", 100, 10, 1.0, 0, 1.0, NewAttack)
	b := testHero("B", 100, 5, 1.0, 0, 1.0, NewAttack)

	c := Run(Loadout{Hero: a}, Loadout{Hero: b}, seeded(7))
	checkInvariants(t, c)

	if c.Duration() != Duration {
		t.Fatalf("duration = %v, want %v", c.Duration(), Duration)
	}
	winner, _ := c.Winner()
	if winner != Fighter1 {
		t.Errorf("winner = %v, want F1 on tie", winner)
	}
	last := c.Last()
	for side, f := range last.Fighters {
		if f.HP != 100 || f.HPLost != 0 {
			t.Errorf("%v: hp %v lost %v, want untouched", Side(side), f.HP, f.HPLost)
		}
	}

	_, attacks := appliedFrom(c, AffectHP, "Attack")
	for _, at := range attacks {
		if !at.Evaded {
			t.Fatalf("attack %+v landed", at)
		}
	}
	stats := c.Summary()
	if stats[Fighter2].Evasions == 0 || stats[Fighter1].Evasions == 0 {
		t.Errorf("expected evasions on both sides, got %+v", stats)
	}
}

// TestExpiryHigherHPWins: F2 takes less damage over the full duration and wins on hp.
func TestExpiryHigherHPWins(t *testing.T) {
	a := testHero("A", 5000, 1, 1.0, 0, 0, NewAttack)
	b := testHero("B", 5000, 2, 1.0, 0, 0, NewAttack)

	c := Run(Loadout{Hero: a}, Loadout{Hero: b}, seeded(3))
	checkInvariants(t, c)

	if c.Duration() != Duration {
		t.Fatalf("duration = %v, want %v", c.Duration(), Duration)
	}
	winner, _ := c.Winner()
	if winner != Fighter2 {
		t.Errorf("winner = %v, want F2", winner)
	}
}

// TestBeamCadence: with 100 mana/s the heal beam is shot after 1s, lands 1s later, then every second.
func TestBeamCadence(t *testing.T) {
	medic := testHero("medic", 1000, 0, 0, 0, 0,
		func() Effect { return NewHealBeam(1) },
		NewRegenMana,
	)
	medic.ManaRegen = 100
	dummy := testHero("dummy", 1000, 0, 0, 0, 0)

	f := New(Loadout{Hero: medic}, Loadout{Hero: dummy}, seeded(1))
	for f.Time() < 5.5 && f.Step() {
	}
	c := f.Capture()
	checkInvariants(t, c)

	shots, _ := appliedFrom(c, ShootProjectile, "HealBeam")
	if len(shots) < 4 {
		t.Fatalf("got %d shots, want at least 4", len(shots))
	}
	if !approx(shots[0], 1.0, 0.02) {
		t.Errorf("first shot at %v, want ~1.0", shots[0])
	}

	lands, heals := appliedFrom(c, AffectHP, "HealBeam")
	if len(lands) < 3 {
		t.Fatalf("got %d landings, want at least 3", len(lands))
	}
	for i, at := range lands {
		want := 2.0 + float64(i)
		if !approx(at, want, 0.02) {
			t.Errorf("landing %d at %v, want ~%v", i, at, want)
		}
		if heals[i].Value != 50 {
			t.Errorf("landing %d healed %v, want 50", i, heals[i].Value)
		}
	}
}

// TestManaCap: 200 mana/s saturates within half a second and never exceeds 100.
func TestManaCap(t *testing.T) {
	h := testHero("battery", 100, 0, 0, 0, 0, NewRegenMana)
	h.ManaRegen = 200
	dummy := testHero("dummy", 100, 0, 0, 0, 0)

	f := New(Loadout{Hero: h}, Loadout{Hero: dummy}, seeded(1))
	for i := 0; i < 100; i++ {
		f.Step()
		m := f.Fighter(Fighter1).Mana
		if m > ManaMax {
			t.Fatalf("tick %d: mana %v exceeds cap", i+1, m)
		}
		if f.Time() >= 0.5-1e-9 && m != ManaMax {
			t.Fatalf("at t=%v mana = %v, want saturated", f.Time(), m)
		}
	}
}

func TestUltiAmpUsesOwner(t *testing.T) {
	striker := testHero("striker", 1000, 0, 0, 0, 0, func() Effect { return NewDamageBeam(1) }, NewRegenMana)
	striker.ManaRegen = 100
	target := testHero("target", 1000, 0, 0, 0, 0)

	c := Run(
		Loadout{Hero: striker, Branches: BranchBonuses(map[Branch]int{BranchMana: 5})},
		Loadout{Hero: target},
		seeded(1),
	)
	_, hits := appliedFrom(c, AffectHP, "DamageBeam")
	if len(hits) == 0 {
		t.Fatal("no beam hits")
	}
	// five Mana counts: ulti_amp 2.0
	if !approx(hits[0].Value, -120, 1e-9) {
		t.Errorf("beam hit for %v, want -120", hits[0].Value)
	}
}

func TestCritDoublesAttack(t *testing.T) {
	a := testHero("A", 1000, 10, 1.0, 1.0, 0, NewAttack)
	b := testHero("B", 1000, 0, 0, 0, 0)

	f := New(Loadout{Hero: a}, Loadout{Hero: b}, seeded(1))
	for f.Time() < 1.05 && f.Step() {
	}
	if got := f.Fighter(Fighter2).HP; got != 880 {
		t.Errorf("B hp = %v, want 880 after one crit", got)
	}
	if crits := f.Capture().Summary()[Fighter1].Crits; crits != 1 {
		t.Errorf("crits = %d, want 1", crits)
	}
}

// attackWatcher records the simulated times at which it sees an attack proc.
type attackWatcher struct {
	ticks       int
	attackTicks []float64
}

func (w *attackWatcher) Name() string { return "AttackWatcher" }

func (w *attackWatcher) Update(delta float64, self, enemy *Fighter, rng *rand.Rand) []Modifier {
	w.ticks++
	if self.Procs.Attack {
		w.attackTicks = append(w.attackTicks, float64(w.ticks)*delta)
	}
	return nil
}

// TestProcLatency: the attack proc applied on tick N is seen by effects on tick N+1.
func TestProcLatency(t *testing.T) {
	watcher := &attackWatcher{}
	a := testHero("A", 1000, 10, 1.0, 0, 0, NewAttack, func() Effect { return watcher })
	b := testHero("B", 1000, 0, 0, 0, 0)

	f := New(Loadout{Hero: a}, Loadout{Hero: b}, seeded(1))
	for f.Time() < 1.2 && f.Step() {
	}
	if len(watcher.attackTicks) != 1 {
		t.Fatalf("attack proc seen on %d ticks, want 1", len(watcher.attackTicks))
	}
	_, attacks := appliedFrom(f.Capture(), ProcNormalAttack, "Attack")
	if len(attacks) != 1 {
		t.Fatalf("got %d attack procs, want 1", len(attacks))
	}
	times, _ := appliedFrom(f.Capture(), ProcNormalAttack, "Attack")
	if !approx(watcher.attackTicks[0]-times[0], Delta, 1e-9) {
		t.Errorf("proc applied at %v observed at %v, want one tick later", times[0], watcher.attackTicks[0])
	}
}

func TestPrepareIdempotent(t *testing.T) {
	h := testHero("A", 500, 10, 0.5, 0.1, 0.2)
	f := NewFighter(h, BranchBonuses(map[Branch]int{BranchAttack: 2, BranchHp: 3, BranchMana: 1}))
	f.HP = 123
	f.Mana = 40
	f.Attack += 50
	f.NextProcs.Attack = true

	f.Prepare()
	f.Prepare()
	once := f.Clone()
	f.Prepare()
	if !reflect.DeepEqual(once, f.Clone()) {
		t.Errorf("prepare not idempotent:\n%+v\n%+v", once, f.Clone())
	}
	if f.Attack != 12 {
		t.Errorf("attack = %v, want base 10 + 2 branch", f.Attack)
	}
	if f.MaxHP != 650 {
		t.Errorf("max hp = %v, want 650", f.MaxHP)
	}
	if !approx(f.UltiAmp, 1.2, 1e-9) {
		t.Errorf("ulti amp = %v, want 1.2", f.UltiAmp)
	}
}

func TestMaxHPChangeKeepsRatio(t *testing.T) {
	f := NewFighter(testHero("A", 200, 0, 0, 0, 0), Branches{})
	f.HP = 100
	fi := &Fight{fighters: [2]*Fighter{f, NewFighter(testHero("B", 100, 0, 0, 0, 0), Branches{})}, rng: seeded(1)}
	fi.apply(Fighter2, Stat(AffectMaxHP, TargetEnemy, 200, "test"))
	if f.MaxHP != 400 || f.HP != 200 {
		t.Errorf("hp %v / %v, want 200 / 400", f.HP, f.MaxHP)
	}
}

func TestRegisteredHeroesInvariants(t *testing.T) {
	ids := HeroIDs()
	for i, id1 := range ids {
		for _, id2 := range ids[i:] {
			h1, h2 := LookupHero(id1), LookupHero(id2)
			t.Run(id1+"_vs_"+id2, func(t *testing.T) {
				c := Run(Loadout{Hero: h1}, Loadout{Hero: h2}, seeded(int64(len(id1)*31+len(id2))))
				checkInvariants(t, c)
			})
		}
	}
}

func TestSameSeedSameCapture(t *testing.T) {
	h1, h2 := LookupHero("duelist"), LookupHero("swiborg")
	c1 := Run(Loadout{Hero: h1}, Loadout{Hero: h2}, seeded(42))
	c2 := Run(Loadout{Hero: h1}, Loadout{Hero: h2}, seeded(42))
	if !reflect.DeepEqual(c1.Snapshots(), c2.Snapshots()) {
		t.Fatal("captures differ for identical seeds")
	}
}

func TestWindowConcatenation(t *testing.T) {
	c := Run(Loadout{Hero: LookupHero("pyro")}, Loadout{Hero: LookupHero("medic")}, seeded(5))
	end := c.Duration() + Delta

	cuts := []float64{0, 0.5, 1.37, 4, end / 2, end}
	sort.Float64s(cuts)
	for i := 0; i+2 < len(cuts); i++ {
		a, b, cc := cuts[i], cuts[i+1], cuts[i+2]
		left, _ := c.Window(a, b)
		right, okRight := c.Window(b, cc)
		whole, okWhole := c.Window(a, cc)

		joined := append(append([]Applied{}, left.Modifiers...), right.Modifiers...)
		if len(joined) != len(whole.Modifiers) {
			t.Fatalf("[%v,%v)+[%v,%v): %d modifiers, whole window has %d", a, b, b, cc, len(joined), len(whole.Modifiers))
		}
		for j := range joined {
			if joined[j] != whole.Modifiers[j] {
				t.Fatalf("modifier %d differs: %+v vs %+v", j, joined[j], whole.Modifiers[j])
			}
		}
		if okRight && okWhole && !reflect.DeepEqual(right.Fighters, whole.Fighters) {
			t.Errorf("[%v,%v): fighters differ from later window", a, cc)
		}
	}

	if _, ok := c.Window(end+1, end+2); ok {
		t.Error("window past the end returned a snapshot")
	}
	last, ok := c.Window(0, end)
	if !ok || !last.Decided {
		t.Error("full window should carry the decided winner")
	}
}

// TestSimultaneousKO: both sides land a lethal hit on the same tick. Fighter1's
// modifiers apply first, so Fighter2 reaches zero first and loses.
func TestSimultaneousKO(t *testing.T) {
	a := testHero("A", 100, 0, 0, 0, 0, scriptedAt(1, Damage(100, Units, "Lethal")))
	b := testHero("B", 100, 0, 0, 0, 0, scriptedAt(1, Damage(100, Units, "Lethal")))

	c := Run(Loadout{Hero: a}, Loadout{Hero: b}, seeded(1))
	checkInvariants(t, c)

	winner, ok := c.Winner()
	if !ok || winner != Fighter1 {
		t.Fatalf("winner = %v (decided %v), want F1", winner, ok)
	}
	if !approx(c.Duration(), Delta, 1e-9) {
		t.Errorf("KO at %v, want the first tick", c.Duration())
	}
	last := c.Last()
	if last.Fighters[Fighter1].HP != 0 || last.Fighters[Fighter2].HP != 0 {
		t.Errorf("hp = %v/%v, want both at 0", last.Fighters[Fighter1].HP, last.Fighters[Fighter2].HP)
	}
}

// TestKOHealedBackSameTick: Fighter2 drops to zero first but heals back above
// zero later in the tick, so Fighter1, who fell after it, loses.
func TestKOHealedBackSameTick(t *testing.T) {
	a := testHero("A", 100, 0, 0, 0, 0, scriptedAt(1, Damage(100, Units, "Lethal")))
	b := testHero("B", 100, 0, 0, 0, 0, scriptedAt(1,
		Damage(100, Units, "Lethal"),
		Heal(50, Units, "SecondWind")))

	c := Run(Loadout{Hero: a}, Loadout{Hero: b}, seeded(1))
	checkInvariants(t, c)

	winner, ok := c.Winner()
	if !ok || winner != Fighter2 {
		t.Fatalf("winner = %v (decided %v), want F2", winner, ok)
	}
	last := c.Last()
	if last.Fighters[Fighter2].HP != 50 || last.Fighters[Fighter1].HP != 0 {
		t.Errorf("hp = %v/%v, want 0/50", last.Fighters[Fighter1].HP, last.Fighters[Fighter2].HP)
	}

	// the heal lands after Fighter1's hit, which took Fighter2 to zero
	mods := last.Modifiers
	hit, heal := -1, -1
	for i, m := range mods {
		switch {
		case m.Owner == Fighter1 && m.Modifier.Source == "Lethal":
			hit = i
		case m.Modifier.Source == "SecondWind":
			heal = i
		}
	}
	if hit < 0 || heal < 0 || hit > heal {
		t.Errorf("hit at %d, heal at %d; want the hit first", hit, heal)
	}
}
