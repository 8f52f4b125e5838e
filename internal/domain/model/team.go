package model

// Team owns its players. Innings refer to teams by index into Match.Teams so
// per-innings figures always land on these records.
type Team struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Players          []Player `json:"players"`
	ImpactPlayerUsed bool     `json:"impact_player_used"`
}

// PlayingXI returns the members eligible to bat and bowl, in squad order.
// These are the non-substitutes plus an activated impact player.
func (t Team) PlayingXI() []Player {
	xi := make([]Player, 0, PlayingXISize)
	for _, p := range t.Players {
		if p.IsSubstitute && !p.IsImpactPlayer {
			continue
		}
		xi = append(xi, p)
		if len(xi) == PlayingXISize {
			break
		}
	}
	return xi
}

// InPlayingXI reports whether id belongs to the playing XI.
func (t Team) InPlayingXI(id string) bool {
	if id == "" {
		return false
	}
	for _, p := range t.PlayingXI() {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Player returns a pointer to the squad member with id, or nil.
func (t *Team) Player(id string) *Player {
	if id == "" {
		return nil
	}
	for i := range t.Players {
		if t.Players[i].ID == id {
			return &t.Players[i]
		}
	}
	return nil
}

// Fresh returns a copy of the team with every player's figures cleared.
func (t Team) Fresh() Team {
	players := cloneSlice(t.Players)
	for i := range players {
		players[i] = players[i].Fresh()
	}
	t.Players = players
	return t
}

func (t Team) clone() Team {
	t.Players = cloneSlice(t.Players)
	return t
}
