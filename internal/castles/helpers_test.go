package castles

import "testing"

// newEmptyGame 24x24 全草地，红方城堡 (0,0)，蓝方城堡 (23,23)
func newEmptyGame(t *testing.T) (*Position, *Player, *Player) {
	t.Helper()
	b := NewBoard(DefaultWidth, DefaultHeight)
	mustTerrain(t, b, 0, 0, Castle)
	mustTerrain(t, b, DefaultWidth-1, DefaultHeight-1, Castle)
	pos := NewPosition(b)
	red, err := pos.AddPlayer("Red", 'R', 0, 0)
	if err != nil {
		t.Fatalf("add red: %v", err)
	}
	blue, err := pos.AddPlayer("Blue", 'B', DefaultWidth-1, DefaultHeight-1)
	if err != nil {
		t.Fatalf("add blue: %v", err)
	}
	return pos, red, blue
}

func mustTerrain(t *testing.T, b *Board, x, y int, tr Terrain) {
	t.Helper()
	if err := b.SetTerrain(x, y, tr); err != nil {
		t.Fatalf("set terrain (%d,%d): %v", x, y, err)
	}
}

func mustPlace(t *testing.T, pos *Position, pl *Player, c Class, x, y int) *Unit {
	t.Helper()
	u, err := pos.Place(pl, c, x, y)
	if err != nil {
		t.Fatalf("place %s at (%d,%d): %v", c, x, y, err)
	}
	return u
}

type tile [2]int

func destinations(moves []Move) map[tile]bool {
	out := make(map[tile]bool, len(moves))
	for _, m := range moves {
		out[tile{m.ToX, m.ToY}] = true
	}
	return out
}
