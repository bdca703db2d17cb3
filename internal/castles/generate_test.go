package castles

import "testing"

func TestGenerateMovesEmptyTile(t *testing.T) {
	pos, red, _ := newEmptyGame(t)
	mustPlace(t, pos, red, ClassKnight, 5, 5)

	for _, c := range []tile{{10, 10}, {0, 1}, {-1, 3}, {24, 0}, {5, 24}} {
		if got := pos.GenerateMoves(c[0], c[1]); len(got) != 0 {
			t.Fatalf("GenerateMoves(%d,%d) = %d moves, want none", c[0], c[1], len(got))
		}
	}
}

func TestMountedUnitOnOpenBoard(t *testing.T) {
	pos, red, _ := newEmptyGame(t)
	mustPlace(t, pos, red, ClassKnight, 5, 5)

	want := make(map[tile]bool)
	for y := 0; y < DefaultHeight; y++ {
		for x := 0; x < DefaultWidth; x++ {
			if x == 5 && y == 5 {
				continue
			}
			if x == 5 || y == 5 || x-y == 0 || x+y == 10 {
				want[tile{x, y}] = true
			}
		}
	}

	moves := pos.GenerateMoves(5, 5)
	got := destinations(moves)
	if len(moves) != len(got) {
		t.Fatalf("duplicate destinations: %d moves, %d tiles", len(moves), len(got))
	}
	if len(got) != len(want) {
		t.Fatalf("move count got=%d want=%d", len(got), len(want))
	}
	for c := range want {
		if !got[c] {
			t.Fatalf("missing destination %v", c)
		}
	}
	for _, m := range moves {
		if m.FromX != 5 || m.FromY != 5 || m.Unit == nil || m.Unit.Class != ClassKnight {
			t.Fatalf("bad move origin: %+v", m)
		}
	}
}

func TestRayStopsBeforeFriendly(t *testing.T) {
	pos, red, _ := newEmptyGame(t)
	mustPlace(t, pos, red, ClassKnight, 5, 5)
	mustPlace(t, pos, red, ClassPikeman, 5, 8)

	got := destinations(pos.GenerateMoves(5, 5))
	for _, y := range []int{6, 7} {
		if !got[tile{5, y}] {
			t.Fatalf("(5,%d) should be reachable", y)
		}
	}
	for y := 8; y < DefaultHeight; y++ {
		if got[tile{5, y}] {
			t.Fatalf("(5,%d) is behind a friendly unit and must not be reachable", y)
		}
	}
	// 其他方向不受影响
	if !got[tile{5, 0}] || !got[tile{23, 5}] {
		t.Fatalf("unrelated rays were cut")
	}
}

func TestRayIncludesEnemyCapture(t *testing.T) {
	pos, red, blue := newEmptyGame(t)
	mustPlace(t, pos, red, ClassKnight, 5, 5)
	mustPlace(t, pos, blue, ClassPikeman, 5, 8)

	got := destinations(pos.GenerateMoves(5, 5))
	if !got[tile{5, 8}] {
		t.Fatalf("(5,8) holds an enemy and must be a capture")
	}
	for y := 9; y < DefaultHeight; y++ {
		if got[tile{5, y}] {
			t.Fatalf("(5,%d) lies beyond the captured enemy", y)
		}
	}
}

func TestMountainNeverReachable(t *testing.T) {
	pos, red, _ := newEmptyGame(t)
	for _, c := range []tile{{5, 7}, {8, 5}, {7, 7}, {3, 7}, {6, 5}} {
		mustTerrain(t, pos.Board, c[0], c[1], Mountain)
	}
	for i, class := range Classes() {
		x, y := 5, 5
		if i > 0 {
			// 每次换一个兵种放在同一格
			pos.Board.clear(5, 5)
		}
		mustPlace(t, pos, red, class, x, y)
		for _, m := range pos.GenerateMoves(x, y) {
			if pos.Board.TerrainAt(m.ToX, m.ToY) == Mountain {
				t.Fatalf("%s reached mountain at (%d,%d)", class, m.ToX, m.ToY)
			}
		}
	}
}

func TestHillOnlyForMounted(t *testing.T) {
	pos, red, _ := newEmptyGame(t)
	mustTerrain(t, pos.Board, 5, 7, Hill)
	mustPlace(t, pos, red, ClassKnight, 5, 5)
	mustPlace(t, pos, red, ClassPikeman, 9, 5)
	mustTerrain(t, pos.Board, 9, 7, Hill)

	knight := destinations(pos.GenerateMoves(5, 5))
	if !knight[tile{5, 7}] || !knight[tile{5, 8}] {
		t.Fatalf("mounted unit should cross the hill")
	}
	pike := destinations(pos.GenerateMoves(9, 5))
	if !pike[tile{9, 6}] {
		t.Fatalf("pikeman should reach the tile before the hill")
	}
	if pike[tile{9, 7}] || pike[tile{9, 8}] {
		t.Fatalf("hill must block a footman ray")
	}
}

func TestWallOnlyFromGrass(t *testing.T) {
	pos, red, _ := newEmptyGame(t)
	mustTerrain(t, pos.Board, 5, 6, Wall)
	mustPlace(t, pos, red, ClassKnight, 5, 5)

	if !destinations(pos.GenerateMoves(5, 5))[tile{5, 6}] {
		t.Fatalf("wall should be enterable from grass")
	}

	// 站在丘陵上就不能上墙
	mustTerrain(t, pos.Board, 5, 5, Hill)
	got := destinations(pos.GenerateMoves(5, 5))
	if got[tile{5, 6}] || got[tile{5, 7}] {
		t.Fatalf("wall must block a unit not standing on grass")
	}
	if !got[tile{5, 4}] {
		t.Fatalf("other directions should stay open")
	}
}

func TestStepLimits(t *testing.T) {
	tests := []struct {
		class Class
		want  int
	}{
		{ClassKing, 8},
		{ClassArcher, 24},
		{ClassPikeman, 38},  // 横竖 5+12+5+12，斜向各 1
		{ClassSergeant, 31}, // 横竖各 1，斜向 12+5+5+5
		{ClassSquire, 8},
	}
	for _, tt := range tests {
		t.Run(tt.class.String(), func(t *testing.T) {
			pos, red, _ := newEmptyGame(t)
			mustPlace(t, pos, red, tt.class, 5, 5)
			if got := len(pos.GenerateMoves(5, 5)); got != tt.want {
				t.Fatalf("move count got=%d want=%d", got, tt.want)
			}
		})
	}
}

func TestRayMovesStayOnRaysWithinLimit(t *testing.T) {
	pos, err := NewStandardPosition(DefaultWidth, DefaultHeight)
	if err != nil {
		t.Fatalf("standard position: %v", err)
	}
	pos.Board.eachUnit(func(u *Unit) {
		if u.Class == ClassSquire {
			return
		}
		for _, m := range pos.GenerateMoves(u.X, u.Y) {
			dx, dy := abs(m.ToX-u.X), abs(m.ToY-u.Y)
			var limit int
			switch {
			case dy == 0 && dx > 0:
				limit = u.MovX
			case dx == 0 && dy > 0:
				limit = u.MovY
			case dx == dy && dx > 0:
				limit = u.MovDiag
			default:
				t.Fatalf("%s at (%d,%d) produced off-ray move to (%d,%d)", u.Class, u.X, u.Y, m.ToX, m.ToY)
			}
			if limit != Unlimited && max(dx, dy) > limit {
				t.Fatalf("%s at (%d,%d) exceeded limit %d with (%d,%d)", u.Class, u.X, u.Y, limit, m.ToX, m.ToY)
			}
			// 中间格都必须是空的
			sx, sy := sign(m.ToX-u.X), sign(m.ToY-u.Y)
			for x, y := u.X+sx, u.Y+sy; x != m.ToX || y != m.ToY; x, y = x+sx, y+sy {
				if pos.Board.UnitAt(x, y) != nil {
					t.Fatalf("%s at (%d,%d) jumped over (%d,%d)", u.Class, u.X, u.Y, x, y)
				}
			}
		}
	})
}

func TestUnlimitedReachesEdge(t *testing.T) {
	pos, red, _ := newEmptyGame(t)
	mustPlace(t, pos, red, ClassDuke, 0, 0)

	got := destinations(pos.GenerateMoves(0, 0))
	for _, c := range []tile{{23, 0}, {0, 23}, {23, 23}} {
		if !got[c] {
			t.Fatalf("unlimited reach should get to %v", c)
		}
	}
}

func TestSquireOffsetsAreIndependent(t *testing.T) {
	pos, red, blue := newEmptyGame(t)
	mustPlace(t, pos, red, ClassSquire, 5, 5)
	// 贴身围住也不影响
	for _, c := range []tile{{5, 6}, {5, 4}, {4, 5}, {6, 5}, {6, 6}, {4, 4}} {
		mustPlace(t, pos, red, ClassPikeman, c[0], c[1])
	}
	mustPlace(t, pos, red, ClassPikeman, 6, 7)
	mustPlace(t, pos, blue, ClassPikeman, 4, 7)
	mustTerrain(t, pos.Board, 7, 6, Mountain)

	got := destinations(pos.GenerateMoves(5, 5))
	want := map[tile]bool{
		{4, 7}: true, // 吃子
		{4, 3}: true, {6, 3}: true,
		{3, 6}: true, {3, 4}: true,
		{7, 4}: true,
	}
	if len(got) != len(want) {
		t.Fatalf("squire destinations got=%v want=%v", got, want)
	}
	for c := range want {
		if !got[c] {
			t.Fatalf("missing squire destination %v", c)
		}
	}
}

func TestSquireClippedAtCorner(t *testing.T) {
	pos, red, _ := newEmptyGame(t)
	mustPlace(t, pos, red, ClassSquire, 0, 1)

	got := destinations(pos.GenerateMoves(0, 1))
	want := []tile{{1, 3}, {2, 2}, {2, 0}}
	if len(got) != len(want) {
		t.Fatalf("corner squire got=%v want=%v", got, want)
	}
	for _, c := range want {
		if !got[c] {
			t.Fatalf("missing %v", c)
		}
	}
}

func TestMovesSequenceIsRestartable(t *testing.T) {
	pos, red, _ := newEmptyGame(t)
	mustPlace(t, pos, red, ClassArcher, 5, 5)

	seq := pos.Moves(5, 5)
	first, second := 0, 0
	for range seq {
		first++
	}
	for range seq {
		second++
	}
	if first == 0 || first != second {
		t.Fatalf("restart mismatch: first=%d second=%d", first, second)
	}

	// 提前 break 不影响下一次
	n := 0
	for range seq {
		n++
		if n == 3 {
			break
		}
	}
	if got := len(pos.GenerateMoves(5, 5)); got != first {
		t.Fatalf("after early break got=%d want=%d", got, first)
	}
}

func TestArcherAttackTargets(t *testing.T) {
	pos, red, blue := newEmptyGame(t)
	mustPlace(t, pos, red, ClassArcher, 5, 5)
	mustPlace(t, pos, blue, ClassPikeman, 5, 8) // 射程 3，正好
	mustPlace(t, pos, blue, ClassPikeman, 9, 5) // 超出射程
	mustPlace(t, pos, red, ClassPikeman, 4, 4)
	mustPlace(t, pos, blue, ClassPikeman, 3, 3) // 被友军挡住
	mustTerrain(t, pos.Board, 6, 6, Mountain)
	mustPlace(t, pos, blue, ClassPikeman, 7, 7) // 被山挡住
	mustPlace(t, pos, blue, ClassKing, 3, 7)    // 斜向 2 格

	got := destinations(pos.AttackTargets(5, 5))
	want := []tile{{5, 8}, {3, 7}}
	if len(got) != len(want) {
		t.Fatalf("attack targets got=%v want=%v", got, want)
	}
	for _, c := range want {
		if !got[c] {
			t.Fatalf("missing attack target %v", c)
		}
	}

	// 只有弓手有原地攻击
	mustPlace(t, pos, red, ClassKnight, 10, 10)
	mustPlace(t, pos, blue, ClassPikeman, 10, 11)
	if n := len(pos.AttackTargets(10, 10)); n != 0 {
		t.Fatalf("knight has %d attack targets, want 0", n)
	}
}

func TestGenerateMovesForSideSkipsMovedUnits(t *testing.T) {
	pos, red, blue := newEmptyGame(t)
	k := mustPlace(t, pos, red, ClassKing, 5, 5)
	mustPlace(t, pos, red, ClassKing, 10, 10)
	mustPlace(t, pos, blue, ClassKing, 15, 15)

	if got := len(pos.GenerateMovesForSide(red.Side)); got != 16 {
		t.Fatalf("red moves got=%d want=16", got)
	}
	k.Moved = true
	if got := len(pos.GenerateMovesForSide(red.Side)); got != 8 {
		t.Fatalf("red moves after one moved got=%d want=8", got)
	}
	if got := len(pos.GenerateMovesForSide(blue.Side)); got != 8 {
		t.Fatalf("blue moves got=%d want=8", got)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
