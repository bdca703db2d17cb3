package castles

// IsThreatened 判断 bySide 这一方是否有单位能吃到 (x,y)：走上去或原地攻击都算。
// 只用来提示和给 AI 估值，不参与合法性判断。
func (p *Position) IsThreatened(x, y int, bySide Side) bool {
	if !p.Board.InBounds(x, y) {
		return false
	}
	threatened := false
	p.Board.eachUnit(func(u *Unit) {
		if threatened || u.Side() != bySide {
			return
		}
		if p.reaches(u, x, y) {
			threatened = true
		}
	})
	return threatened
}

// reaches 不看 Moved 标记：下回合对方的单位都会重新可动
func (p *Position) reaches(u *Unit, x, y int) bool {
	if containsTarget(p.Moves(u.X, u.Y), x, y) {
		return true
	}
	return containsTarget(p.Attacks(u.X, u.Y), x, y)
}

// CastleThreatened 是否有敌方单位能一步踏上 side 的城堡
func (p *Position) CastleThreatened(side Side) bool {
	pl := p.Player(side)
	if pl == nil || pl.Lost {
		return false
	}
	threatened := false
	p.Board.eachUnit(func(u *Unit) {
		if threatened || u.Owner == pl || u.Owner == nil || u.Owner.Lost {
			return
		}
		threatened = containsTarget(p.Moves(u.X, u.Y), pl.CastleX, pl.CastleY)
	})
	return threatened
}
