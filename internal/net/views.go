package net

import (
	"github.com/peterkuimelis/autoduel/internal/cards"
	"github.com/peterkuimelis/autoduel/internal/fight"
	"github.com/peterkuimelis/autoduel/internal/log"
	"github.com/peterkuimelis/autoduel/internal/tournament"
)

// CardViewOf describes a card.
func CardViewOf(c *cards.Card) CardView {
	branches := make([]string, len(c.Branches))
	for i, b := range c.Branches {
		branches[i] = b.String()
	}
	return CardView{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Branches:    branches,
		Level:       c.Level,
		MaxLevel:    c.MaxLevel,
		Cost:        c.Cost,
		Value:       c.Value(),
	}
}

// PlayerViewOf describes a seat; the shop and loadout are included when full is set.
func PlayerViewOf(p *tournament.Player, full bool) PlayerView {
	pv := PlayerView{
		ID:     p.ID,
		Name:   p.Name,
		Hero:   p.Hero.Name,
		Money:  p.Money,
		HP:     p.HP,
		Attack: p.Attack,
		Alive:  p.Alive(),
	}
	if !full {
		return pv
	}
	for _, c := range p.Cards {
		pv.Cards = append(pv.Cards, CardViewOf(c))
	}
	for i, s := range p.Reserved {
		pv.Reserved = append(pv.Reserved, SlotView{Index: i, Active: s.Active, Card: CardViewOf(s.Card)})
	}
	return pv
}

// BuildStateView creates a StateView from the perspective of the given player.
func BuildStateView(b *tournament.Battle, player int) *StateView {
	sv := &StateView{
		Tournament: b.ID,
		Round:      b.Round,
		Locked:     b.Locked,
	}
	for _, p := range b.Players {
		if p.ID == player {
			sv.You = PlayerViewOf(p, true)
			continue
		}
		sv.Others = append(sv.Others, PlayerViewOf(p, false))
	}
	return sv
}

// ActionViews numbers the available shop actions.
func ActionViews(actions []tournament.ShopAction) []ActionView {
	views := make([]ActionView, len(actions))
	for i, a := range actions {
		views[i] = ActionView{Index: i, Desc: a.Desc}
	}
	return views
}

// EventViewOf converts a logged event.
func EventViewOf(e log.GameEvent) *EventView {
	return &EventView{
		Round:   e.Round,
		Phase:   e.Phase,
		Player:  e.Player,
		Type:    e.Type.String(),
		Card:    e.Card,
		Details: e.Details,
	}
}

// ResultViews summarizes a round's captures.
func ResultViews(b *tournament.Battle, results []tournament.RoundCapture) []ResultView {
	views := make([]ResultView, len(results))
	for i, rc := range results {
		rv := ResultView{Index: i, Kind: rc.Kind.String(), Player1: b.Players[rc.Player1].Name}
		if rc.Kind == tournament.CaptureFight {
			rv.Player2 = b.Players[rc.Player2].Name
			rv.Winner = b.Players[rc.Winner].Name
			rv.Duration = rc.Capture.Duration()
			rv.Stats = SideStatViews(rc.Capture)
		}
		views[i] = rv
	}
	return views
}

// SideStatViews returns both sides' whole-fight totals.
func SideStatViews(c *fight.Capture) []SideStatView {
	out := make([]SideStatView, 0, 2)
	for _, s := range c.Summary() {
		out = append(out, SideStatView{
			Damage:    s.DamageDealt,
			Healing:   s.Healing,
			Ultimates: s.Ultimates,
			Attacks:   s.Attacks,
			Crits:     s.Crits,
			Evasions:  s.Evasions,
		})
	}
	return out
}

// FighterViewOf copies the scalar fields of a fighter.
func FighterViewOf(f fight.Fighter) FighterView {
	name := ""
	if f.Hero != nil {
		name = f.Hero.Name
	}
	return FighterView{
		Hero:        name,
		HP:          f.HP,
		MaxHP:       f.MaxHP,
		HPLost:      f.HPLost,
		Mana:        f.Mana,
		Attack:      f.Attack,
		AttackSpeed: f.AttackSpeed,
		Crit:        f.Crit,
		Evasion:     f.Evasion,
		UltiAmp:     f.UltiAmp,
	}
}

// SnapshotViewOf converts a timeline snapshot. Cosmetic markers are kept so
// viewers can animate projectiles.
func SnapshotViewOf(s fight.Snapshot) SnapshotView {
	sv := SnapshotView{
		Time:      s.Time,
		Fighters:  [2]FighterView{FighterViewOf(s.Fighters[0]), FighterViewOf(s.Fighters[1])},
		Modifiers: make([]ModifierView, 0, len(s.Modifiers)),
	}
	if s.Decided {
		w := int(s.Winner)
		sv.Winner = &w
	}
	for _, a := range s.Modifiers {
		sv.Modifiers = append(sv.Modifiers, ModifierView{
			Owner:     int(a.Owner),
			Receiver:  int(a.Receiver),
			Kind:      a.Modifier.Kind.String(),
			ValueKind: a.Modifier.ValueKind.String(),
			Value:     a.Value,
			Source:    a.Modifier.Source,
			Evaded:    a.Evaded,
		})
	}
	return sv
}
