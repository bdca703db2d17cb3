package castles

// Side 玩家序号，对应 Position.Players 的下标
type Side int8

const NoSide Side = -1

// Terrain 每格地形，一格只允许一个分类位
type Terrain uint8

const (
	Grass    Terrain = 1 << iota // 草地（城墙只能从草地上接近）
	Hill                         // 丘陵：只有骑乘单位能上
	Mountain                     // 山：谁都不能进
	Castle                       // 城堡：被敌方踏上即失败
	Wall                         // 城墙
)

// Valid 恰好一个分类位
func (t Terrain) Valid() bool {
	return t != 0 && t&(t-1) == 0 && t <= Wall
}

func (t Terrain) String() string {
	switch t {
	case Grass:
		return "grass"
	case Hill:
		return "hill"
	case Mountain:
		return "mountain"
	case Castle:
		return "castle"
	case Wall:
		return "wall"
	default:
		return "invalid"
	}
}

// Class 兵种符号
type Class byte

const (
	ClassKing     Class = 'K'
	ClassKnight   Class = 'N'
	ClassDuke     Class = 'D'
	ClassPrince   Class = 'R'
	ClassSquire   Class = 'S'
	ClassSergeant Class = 'G'
	ClassPikeman  Class = 'P'
	ClassArcher   Class = 'A'
)

func (c Class) String() string { return string(rune(c)) }

// Unit 由所属玩家的 Units 持有；棋盘上只放引用
type Unit struct {
	ID    int
	Class Class
	Owner *Player
	X, Y  int

	// 三个方向的最大步数，Unlimited 表示只受地形和棋子阻挡
	MovX, MovY, MovDiag int

	// 本回合已经行动过
	Moved bool
}

func (u *Unit) Side() Side {
	if u == nil || u.Owner == nil {
		return NoSide
	}
	return u.Owner.Side
}

func (u *Unit) Royalty() bool {
	pat, ok := PatternOf(u.Class)
	return ok && pat.Royalty
}

type Player struct {
	Name  string
	Side  Side
	Color rune

	CastleX, CastleY int

	// 存活的王族单位数，只在王族被吃时减一
	RoyaltyCount int
	Units        []*Unit

	Lost bool
}

// Move 候选走法，每次生成都是新的，不缓存
type Move struct {
	FromX int   `json:"from_x"`
	FromY int   `json:"from_y"`
	ToX   int   `json:"to_x"`
	ToY   int   `json:"to_y"`
	Unit  *Unit `json:"-"`
}

// Outcome 一次走子或原地攻击的结果，交给回合控制方处理
type Outcome struct {
	Captured    *Unit
	RoyaltyLost bool

	// 踏上了别人的城堡，Defeated 即城堡的主人
	CastleCaptured bool
	Defeated       *Player
}

// Position = 棋盘 + 所有玩家
type Position struct {
	Board   *Board
	Players []*Player

	nextID int
}
