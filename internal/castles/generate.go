package castles

import (
	"iter"
	"slices"
)

// Moves 返回 (x,y) 上单位的走法序列。每次 range 都重新计算；空格或越界时为空。
func (p *Position) Moves(x, y int) iter.Seq[Move] {
	return func(yield func(Move) bool) {
		u := p.Board.UnitAt(x, y)
		if u == nil {
			return
		}
		pat, ok := PatternOf(u.Class)
		if !ok || pat.Reach == nil {
			return
		}
		pat.Reach.moves(p.Board, u, yield)
	}
}

// GenerateMoves 生成 (x,y) 上单位的所有合法落点
func (p *Position) GenerateMoves(x, y int) []Move {
	return slices.Collect(p.Moves(x, y))
}

// Attacks 原地攻击的目标序列，只对有 AttackRange 的兵种（弓手）非空
func (p *Position) Attacks(x, y int) iter.Seq[Move] {
	return func(yield func(Move) bool) {
		u := p.Board.UnitAt(x, y)
		if u == nil {
			return
		}
		pat, ok := PatternOf(u.Class)
		if !ok || pat.AttackRange <= 0 {
			return
		}
		for _, dirs := range [][4][2]int{cardinalDirs, diagonalDirs} {
			for _, d := range dirs {
				if !walkAttack(p.Board, u, d, pat.AttackRange, yield) {
					return
				}
			}
		}
	}
}

// AttackTargets 原地攻击可以打到的敌方单位所在格
func (p *Position) AttackTargets(x, y int) []Move {
	return slices.Collect(p.Attacks(x, y))
}

// walkAttack 射程内第一个单位如果是敌人就是目标；中间格必须可通行（视线）
func walkAttack(b *Board, u *Unit, d [2]int, rng int, yield func(Move) bool) bool {
	x, y := u.X+d[0], u.Y+d[1]
	for step := 1; step <= rng; step++ {
		if !b.InBounds(x, y) {
			break
		}
		if occ := b.UnitAt(x, y); occ != nil {
			if occ.Owner != u.Owner {
				return yield(Move{FromX: u.X, FromY: u.Y, ToX: x, ToY: y, Unit: u})
			}
			break
		}
		if !Pathable(b, u, u.X, u.Y, x, y) {
			break
		}
		x += d[0]
		y += d[1]
	}
	return true
}

// GenerateMovesForSide 本回合还没行动过的单位的全部走法（不含原地攻击）
func (p *Position) GenerateMovesForSide(side Side) []Move {
	var moves []Move
	p.Board.eachUnit(func(u *Unit) {
		if u.Side() != side || u.Moved {
			return
		}
		moves = append(moves, p.GenerateMoves(u.X, u.Y)...)
	})
	return moves
}

// GenerateAttacksForSide 同上，只含原地攻击
func (p *Position) GenerateAttacksForSide(side Side) []Move {
	var attacks []Move
	p.Board.eachUnit(func(u *Unit) {
		if u.Side() != side || u.Moved {
			return
		}
		attacks = append(attacks, p.AttackTargets(u.X, u.Y)...)
	})
	return attacks
}

func containsTarget(seq iter.Seq[Move], toX, toY int) bool {
	for m := range seq {
		if m.ToX == toX && m.ToY == toY {
			return true
		}
	}
	return false
}
