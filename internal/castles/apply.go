package castles

import (
	"fmt"
	"slices"
)

// ApplyMove 把 (x,y) 上的单位走到 (toX,toY)。
// 先做完所有检查再改棋盘：失败时不会留下任何修改。
func (p *Position) ApplyMove(x, y, toX, toY int) (Outcome, error) {
	b := p.Board
	u, err := p.unitForCommand(x, y, toX, toY)
	if err != nil {
		return Outcome{}, err
	}
	if x == toX && y == toY {
		return Outcome{}, fmt.Errorf("%w: (%d,%d) does not move", ErrInvalidMove, x, y)
	}
	target := b.UnitAt(toX, toY)
	if target != nil && target.Owner == u.Owner {
		return Outcome{}, fmt.Errorf("%w: (%d,%d) is occupied by a friendly unit", ErrInvalidMove, toX, toY)
	}
	if !containsTarget(p.Moves(x, y), toX, toY) {
		return Outcome{}, fmt.Errorf("%w: %s at (%d,%d) cannot reach (%d,%d)", ErrInvalidMove, u.Class, x, y, toX, toY)
	}
	if target != nil {
		if err := p.checkCapture(target, toX, toY); err != nil {
			return Outcome{}, err
		}
	}

	// 踏上别人的城堡
	var defender *Player
	if b.TerrainAt(toX, toY) == Castle {
		if owner := p.CastleOwner(toX, toY); owner != nil && owner != u.Owner && !owner.Lost {
			defender = owner
		}
	}

	var out Outcome
	if target != nil {
		out = p.capture(target)
	}
	b.clear(x, y)
	u.X, u.Y = toX, toY
	b.put(u)
	u.Moved = true

	if defender != nil {
		defender.Lost = true
		out.CastleCaptured = true
		out.Defeated = defender
	}
	return out, nil
}

// AttackInPlace 弓手原地攻击：目标被吃掉，攻击者不动
func (p *Position) AttackInPlace(x, y, targetX, targetY int) (Outcome, error) {
	u, err := p.unitForCommand(x, y, targetX, targetY)
	if err != nil {
		return Outcome{}, err
	}
	if pat, ok := PatternOf(u.Class); !ok || pat.AttackRange <= 0 {
		return Outcome{}, fmt.Errorf("%w: %s at (%d,%d): %w", ErrInvalidMove, u.Class, x, y, ErrNoRangedAttack)
	}
	if !containsTarget(p.Attacks(x, y), targetX, targetY) {
		return Outcome{}, fmt.Errorf("%w: %s at (%d,%d) cannot hit (%d,%d)", ErrInvalidMove, u.Class, x, y, targetX, targetY)
	}
	target := p.Board.UnitAt(targetX, targetY)
	if err := p.checkCapture(target, targetX, targetY); err != nil {
		return Outcome{}, err
	}

	out := p.capture(target)
	u.Moved = true
	return out, nil
}

// unitForCommand 公共前置检查：坐标合法、起点有子、且棋盘与单位坐标一致
func (p *Position) unitForCommand(x, y, toX, toY int) (*Unit, error) {
	b := p.Board
	if !b.InBounds(x, y) || !b.InBounds(toX, toY) {
		return nil, fmt.Errorf("%w: (%d,%d)->(%d,%d): %w", ErrInvalidMove, x, y, toX, toY, ErrOutOfBounds)
	}
	u := b.UnitAt(x, y)
	if u == nil {
		return nil, fmt.Errorf("%w: no unit at (%d,%d)", ErrInvalidMove, x, y)
	}
	if u.X != x || u.Y != y {
		return nil, fmt.Errorf("%w: tile (%d,%d) holds unit %d positioned at (%d,%d)", ErrInvariant, x, y, u.ID, u.X, u.Y)
	}
	if u.Owner == nil || !slices.Contains(u.Owner.Units, u) {
		return nil, fmt.Errorf("%w: unit %d at (%d,%d) missing from its roster", ErrInvariant, u.ID, x, y)
	}
	return u, nil
}

// checkCapture 被吃单位必须与棋盘同步并且在花名册里，王族计数必须等于花名册里的王族数
func (p *Position) checkCapture(target *Unit, x, y int) error {
	if target.X != x || target.Y != y {
		return fmt.Errorf("%w: tile (%d,%d) holds unit %d positioned at (%d,%d)", ErrInvariant, x, y, target.ID, target.X, target.Y)
	}
	owner := target.Owner
	if owner == nil || !slices.Contains(owner.Units, target) {
		return fmt.Errorf("%w: unit %d at (%d,%d) missing from its roster", ErrInvariant, target.ID, x, y)
	}
	if n := countRoyalty(owner.Units); n != owner.RoyaltyCount {
		return fmt.Errorf("%w: %s royalty count is %d, roster holds %d", ErrInvariant, owner.Name, owner.RoyaltyCount, n)
	}
	return nil
}

func countRoyalty(units []*Unit) int {
	n := 0
	for _, u := range units {
		if u.Royalty() {
			n++
		}
	}
	return n
}

// capture 从棋盘和花名册移除；调用前必须已经 checkCapture
func (p *Position) capture(target *Unit) Outcome {
	owner := target.Owner
	p.Board.clear(target.X, target.Y)
	owner.Units = slices.DeleteFunc(owner.Units, func(u *Unit) bool { return u == target })

	out := Outcome{Captured: target}
	if target.Royalty() {
		owner.RoyaltyCount--
		out.RoyaltyLost = true
	}
	return out
}

// BeginTurn 清掉 side 所有单位的“已行动”标记
func (p *Position) BeginTurn(side Side) {
	pl := p.Player(side)
	if pl == nil {
		return
	}
	for _, u := range pl.Units {
		u.Moved = false
	}
}
