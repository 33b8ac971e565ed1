package tennisx

// Snapshot is a serializable view of a unit and, for composites, its
// children in play order.
type Snapshot struct {
	ID       string     `json:"id" yaml:"id"`
	Kind     Kind       `json:"kind" yaml:"kind"`
	Players  []string   `json:"players" yaml:"players"`
	Scores   []int      `json:"scores" yaml:"scores"`
	Server   int        `json:"server" yaml:"server"`
	Finished bool       `json:"finished" yaml:"finished"`
	Retired  bool       `json:"retired,omitempty" yaml:"retired,omitempty"`
	Winner   string     `json:"winner,omitempty" yaml:"winner,omitempty"`
	Children []Snapshot `json:"children,omitempty" yaml:"children,omitempty"`
}

// WinnerIndex returns the index of the winning player, or -1.
func (s Snapshot) WinnerIndex() int {
	if !s.Finished {
		return -1
	}
	for i, name := range s.Players {
		if name == s.Winner {
			return i
		}
	}
	return -1
}

func (u *unit) snapshotLocked(server int) Snapshot {
	snap := Snapshot{
		ID:       u.id.String(),
		Kind:     u.kind,
		Players:  []string{u.scores[0].player.name, u.scores[1].player.name},
		Scores:   []int{u.scores[0].points, u.scores[1].points},
		Server:   server,
		Finished: u.finished,
		Retired:  u.retired,
	}
	if u.winner != nil {
		snap.Winner = u.winner.player.name
	}
	return snap
}
