package engine

import (
	"castles/internal/castles"
)

// ======= 基础子力估值 =======

var pieceValue = map[castles.Class]int{
	castles.ClassKing:     900,
	castles.ClassPrince:   800,
	castles.ClassDuke:     800,
	castles.ClassKnight:   500, // 骑士不限步数，最灵活
	castles.ClassArcher:   350, // 能原地攻击
	castles.ClassSquire:   250,
	castles.ClassSergeant: 200,
	castles.ClassPikeman:  150,
}

// 各档分数拉开数量级，保证档位优先于档内的子力差
const (
	scoreCastle       = 1_000_000
	scoreRoyalty      = 100_000
	scoreCapture      = 10_000
	scoreSafe         = 1_000
	attackBonus       = 50 // 原地攻击不暴露自己
	repetitionPenalty = 400
)

type tile [2]int

func (e *Engine) score(pos *castles.Position, pl *castles.Player, threats map[tile]bool, a Action) int {
	m := a.Move
	if a.Kind == ActionMove && isCastleCapture(pos, pl, m) {
		return scoreCastle
	}

	if target := pos.Board.UnitAt(m.ToX, m.ToY); target != nil && target.Owner != pl {
		s := scoreCapture + pieceValue[target.Class]
		if target.Royalty() {
			s = scoreRoyalty + pieceValue[target.Class]
		}
		if a.Kind == ActionAttack {
			s += attackBonus
		}
		return s
	}

	// 不吃子的走法：安全优先，然后看向敌方城堡推进了多少
	s := progress(pos, pl, m)
	if threats[tile{m.ToX, m.ToY}] {
		s -= pieceValue[m.Unit.Class]
	} else {
		s += scoreSafe
	}
	if e.seen[pos.HashAfterMove(m)] > 0 {
		s -= repetitionPenalty
	}
	return s
}

func isCastleCapture(pos *castles.Position, pl *castles.Player, m castles.Move) bool {
	if pos.Board.TerrainAt(m.ToX, m.ToY) != castles.Castle {
		return false
	}
	owner := pos.CastleOwner(m.ToX, m.ToY)
	return owner != nil && owner != pl && !owner.Lost
}

// enemyReach 所有敌方单位下回合能走到或射到的格子。
// 近似：按当前棋盘算，没有扣掉走子单位离开后打开的线路。
func enemyReach(pos *castles.Position, pl *castles.Player) map[tile]bool {
	out := make(map[tile]bool)
	for _, other := range pos.LivePlayers() {
		if other == pl {
			continue
		}
		for _, u := range other.Units {
			for m := range pos.Moves(u.X, u.Y) {
				out[tile{m.ToX, m.ToY}] = true
			}
			for m := range pos.Attacks(u.X, u.Y) {
				out[tile{m.ToX, m.ToY}] = true
			}
		}
	}
	return out
}

// progress 到最近一个敌方城堡的切比雪夫距离缩短了多少
func progress(pos *castles.Position, pl *castles.Player, m castles.Move) int {
	before, after := -1, -1
	for _, other := range pos.LivePlayers() {
		if other == pl {
			continue
		}
		d0 := chebyshev(m.FromX, m.FromY, other.CastleX, other.CastleY)
		d1 := chebyshev(m.ToX, m.ToY, other.CastleX, other.CastleY)
		if before < 0 || d0 < before {
			before = d0
		}
		if after < 0 || d1 < after {
			after = d1
		}
	}
	if before < 0 {
		return 0
	}
	return before - after
}

func chebyshev(x0, y0, x1, y1 int) int {
	dx, dy := x1-x0, y1-y0
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return max(dx, dy)
}
