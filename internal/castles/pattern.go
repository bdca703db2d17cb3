package castles

// Unlimited 步数哨兵：只受棋盘边界和阻挡限制
const Unlimited = -1

var (
	cardinalDirs = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagonalDirs = [4][2]int{{1, 1}, {-1, -1}, {1, -1}, {-1, 1}}
)

// Reach 单位的可达方式。只有射线和固定偏移两种实现
type Reach interface {
	moves(b *Board, u *Unit, yield func(Move) bool) bool
}

// Pattern 兵种表中的一行
type Pattern struct {
	Class Class
	Name  string

	MovX, MovY, MovDiag int

	Mounted bool
	Royalty bool

	// >0 时可以原地攻击该范围内的敌人
	AttackRange int

	Reach Reach
}

func (pat Pattern) IsMounted() bool { return pat.Mounted }

// 侍从：先走一格直线，再向外斜走一格
var squireOffsets = [][2]int{
	{1, 2}, {-1, 2},
	{1, -2}, {-1, -2},
	{2, 1}, {2, -1},
	{-2, 1}, {-2, -1},
}

var patterns = map[Class]Pattern{
	ClassKing:     {Class: ClassKing, Name: "King", MovX: 1, MovY: 1, MovDiag: 1, Royalty: true, Reach: rayReach{}},
	ClassKnight:   {Class: ClassKnight, Name: "Knight", MovX: Unlimited, MovY: Unlimited, MovDiag: Unlimited, Mounted: true, Reach: rayReach{}},
	ClassDuke:     {Class: ClassDuke, Name: "Duke", MovX: Unlimited, MovY: Unlimited, MovDiag: Unlimited, Mounted: true, Royalty: true, Reach: rayReach{}},
	ClassPrince:   {Class: ClassPrince, Name: "Prince", MovX: Unlimited, MovY: Unlimited, MovDiag: Unlimited, Mounted: true, Royalty: true, Reach: rayReach{}},
	ClassSquire:   {Class: ClassSquire, Name: "Squire", Reach: offsetReach{offsets: squireOffsets}},
	ClassSergeant: {Class: ClassSergeant, Name: "Sergeant", MovX: 1, MovY: 1, MovDiag: 12, Reach: rayReach{}},
	ClassPikeman:  {Class: ClassPikeman, Name: "Pikeman", MovX: 12, MovY: 12, MovDiag: 1, Reach: rayReach{}},
	ClassArcher:   {Class: ClassArcher, Name: "Archer", MovX: 3, MovY: 3, MovDiag: 3, AttackRange: 3, Reach: rayReach{}},
}

func PatternOf(c Class) (Pattern, bool) {
	pat, ok := patterns[c]
	return pat, ok
}

// Classes 按固定顺序返回所有兵种
func Classes() []Class {
	return []Class{
		ClassKing, ClassKnight, ClassDuke, ClassPrince,
		ClassSquire, ClassSergeant, ClassPikeman, ClassArcher,
	}
}

func IsMounted(u *Unit) bool {
	if u == nil {
		return false
	}
	pat, ok := PatternOf(u.Class)
	return ok && pat.Mounted
}

// rayReach：八个方向的射线，横向用 MovX、纵向用 MovY、斜向用 MovDiag
type rayReach struct{}

func (rayReach) moves(b *Board, u *Unit, yield func(Move) bool) bool {
	for _, d := range cardinalDirs {
		limit := u.MovX
		if d[0] == 0 {
			limit = u.MovY
		}
		if !walkRay(b, u, d, limit, yield) {
			return false
		}
	}
	for _, d := range diagonalDirs {
		if !walkRay(b, u, d, u.MovDiag, yield) {
			return false
		}
	}
	return true
}

// walkRay 遇到第一个不可通行格就停；敌子所在格算吃子，收录后停
func walkRay(b *Board, u *Unit, d [2]int, limit int, yield func(Move) bool) bool {
	x, y := u.X+d[0], u.Y+d[1]
	for step := 1; limit == Unlimited || step <= limit; step++ {
		if !b.InBounds(x, y) {
			break
		}
		if !Pathable(b, u, u.X, u.Y, x, y) {
			break
		}
		if !yield(Move{FromX: u.X, FromY: u.Y, ToX: x, ToY: y, Unit: u}) {
			return false
		}
		if b.UnitAt(x, y) != nil {
			break
		}
		x += d[0]
		y += d[1]
	}
	return true
}

// offsetReach：固定偏移，每个落点独立判断，没有射线阻挡
type offsetReach struct {
	offsets [][2]int
}

func (r offsetReach) moves(b *Board, u *Unit, yield func(Move) bool) bool {
	for _, off := range r.offsets {
		x, y := u.X+off[0], u.Y+off[1]
		if !b.InBounds(x, y) {
			continue
		}
		if !Pathable(b, u, u.X, u.Y, x, y) {
			continue
		}
		if !yield(Move{FromX: u.X, FromY: u.Y, ToX: x, ToY: y, Unit: u}) {
			return false
		}
	}
	return true
}
