package castles

// Pathable 判断 u 从 (fromX,fromY) 出发能否进入 (toX,toY) 这一格。
// 不可进入：己方占据、山、非骑乘上丘陵、不是从草地接近城墙。敌方占据可以进入（吃子）。
func Pathable(b *Board, u *Unit, fromX, fromY, toX, toY int) bool {
	if b == nil || u == nil || !b.InBounds(toX, toY) {
		return false
	}
	if occ := b.UnitAt(toX, toY); occ != nil && occ.Owner == u.Owner {
		return false
	}
	t := b.TerrainAt(toX, toY)
	switch {
	case t&Mountain != 0:
		return false
	case t&Hill != 0 && !IsMounted(u):
		return false
	case t&Wall != 0 && b.TerrainAt(fromX, fromY)&Grass == 0:
		return false
	}
	return true
}
