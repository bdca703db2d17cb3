package castles

// View 只读的显示坐标变换：把棋盘顺时针转 QuarterTurns 个 90°，让每个玩家看到自己的朝向。
// 永远不改动棋盘本身。
type View struct {
	QuarterTurns  int
	Width, Height int // 棋盘尺寸（不是屏幕尺寸）
}

func NewView(b *Board, quarterTurns int) View {
	return View{QuarterTurns: quarterTurns, Width: b.Width, Height: b.Height}
}

// ViewForSide 在 n 个玩家之间平均分配朝向：两人时 0 和 180°
func ViewForSide(b *Board, side Side, players int) View {
	q := 0
	if players > 0 && side > 0 {
		q = int(side) * 4 / players
	}
	return NewView(b, q)
}

func (v View) turns() int { return ((v.QuarterTurns % 4) + 4) % 4 }

// ScreenSize 转 90° 或 270° 时宽高互换
func (v View) ScreenSize() (int, int) {
	if v.turns()%2 == 1 {
		return v.Height, v.Width
	}
	return v.Width, v.Height
}

func (v View) ToScreen(x, y int) (int, int) {
	switch v.turns() {
	case 1:
		return v.Height - 1 - y, x
	case 2:
		return v.Width - 1 - x, v.Height - 1 - y
	case 3:
		return y, v.Width - 1 - x
	default:
		return x, y
	}
}

func (v View) FromScreen(sx, sy int) (int, int) {
	switch v.turns() {
	case 1:
		return sy, v.Height - 1 - sx
	case 2:
		return v.Width - 1 - sx, v.Height - 1 - sy
	case 3:
		return v.Width - 1 - sy, sx
	default:
		return sx, sy
	}
}
