package engine

import (
	"testing"

	"castles/internal/castles"
)

// newGame 24x24 全草地，红方城堡 (0,0)，蓝方城堡 (23,23)
func newGame(t *testing.T) (*castles.Position, *castles.Player, *castles.Player) {
	t.Helper()
	b := castles.NewBoard(castles.DefaultWidth, castles.DefaultHeight)
	if err := b.SetTerrain(0, 0, castles.Castle); err != nil {
		t.Fatal(err)
	}
	if err := b.SetTerrain(23, 23, castles.Castle); err != nil {
		t.Fatal(err)
	}
	pos := castles.NewPosition(b)
	red, err := pos.AddPlayer("Red", 'R', 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	blue, err := pos.AddPlayer("Blue", 'B', 23, 23)
	if err != nil {
		t.Fatal(err)
	}
	return pos, red, blue
}

func place(t *testing.T, pos *castles.Position, pl *castles.Player, c castles.Class, x, y int) *castles.Unit {
	t.Helper()
	u, err := pos.Place(pl, c, x, y)
	if err != nil {
		t.Fatalf("place %s at (%d,%d): %v", c, x, y, err)
	}
	return u
}

func TestChoosePrefersCastleCapture(t *testing.T) {
	pos, red, blue := newGame(t)
	place(t, pos, red, castles.ClassKnight, 23, 10)
	place(t, pos, red, castles.ClassKnight, 5, 5)
	place(t, pos, blue, castles.ClassDuke, 5, 8)

	a, ok := NewEngine(1).Choose(pos, red.Side)
	if !ok {
		t.Fatalf("no action chosen")
	}
	if a.Kind != ActionMove || a.Move.ToX != 23 || a.Move.ToY != 23 {
		t.Fatalf("got %s to (%d,%d), want move onto the castle", a.Kind, a.Move.ToX, a.Move.ToY)
	}
}

func TestChoosePrefersRoyaltyOverMaterial(t *testing.T) {
	pos, red, blue := newGame(t)
	place(t, pos, red, castles.ClassKnight, 5, 5)
	place(t, pos, blue, castles.ClassKnight, 5, 10)
	place(t, pos, blue, castles.ClassKing, 10, 5)

	a, ok := NewEngine(2).Choose(pos, red.Side)
	if !ok {
		t.Fatalf("no action chosen")
	}
	if a.Move.ToX != 10 || a.Move.ToY != 5 {
		t.Fatalf("got (%d,%d), want the king at (10,5)", a.Move.ToX, a.Move.ToY)
	}
}

func TestChooseUsesRangedAttack(t *testing.T) {
	pos, red, blue := newGame(t)
	archer := place(t, pos, red, castles.ClassArcher, 12, 12)
	place(t, pos, blue, castles.ClassPikeman, 12, 15)

	a, ok := NewEngine(3).Choose(pos, red.Side)
	if !ok {
		t.Fatalf("no action chosen")
	}
	// 走上去和原地射都能吃到，原地攻击多一点分
	if a.Kind != ActionAttack || a.Move.Unit != archer || a.Move.ToY != 15 {
		t.Fatalf("got %s %+v, want archer attack on (12,15)", a.Kind, a.Move)
	}
}

func TestChooseAvoidsThreatenedTiles(t *testing.T) {
	pos, red, blue := newGame(t)
	place(t, pos, red, castles.ClassKing, 10, 10)
	// 蓝骑士控制第 11 行和第 11 列
	place(t, pos, blue, castles.ClassKnight, 11, 20)
	place(t, pos, blue, castles.ClassKnight, 20, 11)

	e := NewEngine(4)
	for i := 0; i < 20; i++ {
		a, ok := e.Choose(pos, red.Side)
		if !ok {
			t.Fatalf("no action chosen")
		}
		if a.Move.ToX == 11 || a.Move.ToY == 11 {
			t.Fatalf("king walked into (%d,%d)", a.Move.ToX, a.Move.ToY)
		}
	}
}

func TestChooseNoActions(t *testing.T) {
	pos, red, blue := newGame(t)
	u := place(t, pos, red, castles.ClassKing, 10, 10)
	place(t, pos, blue, castles.ClassKing, 20, 20)
	u.Moved = true

	if _, ok := NewEngine(5).Choose(pos, red.Side); ok {
		t.Fatalf("moved units should not act")
	}
	blue.Lost = true
	if _, ok := NewEngine(5).Choose(pos, blue.Side); ok {
		t.Fatalf("a defeated player should not act")
	}
}

func TestChooseDeterministicWithSeed(t *testing.T) {
	pos, err := castles.NewStandardPosition(castles.DefaultWidth, castles.DefaultHeight)
	if err != nil {
		t.Fatal(err)
	}
	a1, _ := NewEngine(42).Choose(pos, 0)
	a2, _ := NewEngine(42).Choose(pos, 0)
	if a1.Move != a2.Move || a1.Score != a2.Score {
		t.Fatalf("same seed chose %+v and %+v", a1, a2)
	}
}

func TestRememberPenalizesRepetition(t *testing.T) {
	pos, red, blue := newGame(t)
	place(t, pos, red, castles.ClassKing, 10, 10)
	place(t, pos, blue, castles.ClassKing, 20, 20)

	e := NewEngine(6)
	first, ok := e.Choose(pos, red.Side)
	if !ok {
		t.Fatal("no action chosen")
	}
	e.Remember(pos.HashAfterMove(first.Move))
	if e.Seen(pos.HashAfterMove(first.Move)) != 1 {
		t.Fatalf("hash not remembered")
	}
	second, _ := e.Choose(pos, red.Side)
	if second.Move == first.Move {
		t.Fatalf("engine repeated a remembered position: %+v", second.Move)
	}
	e.Forget()
	if e.Seen(pos.HashAfterMove(first.Move)) != 0 {
		t.Fatalf("Forget kept history")
	}
}
