package castles

import "fmt"

const minStandardSize = 10

var standardColors = []rune{'R', 'B'}

// 标准布阵，相对城堡：dx 为横向偏移，dy 为离底线的行数
var standardRoster = []struct {
	Class  Class
	Dx, Dy int
}{
	{ClassKnight, -3, 0},
	{ClassPrince, -2, 0},
	{ClassKing, -1, 0},
	{ClassDuke, 1, 0},
	{ClassArcher, 2, 0},
	{ClassKnight, 3, 0},

	{ClassArcher, -4, 1},
	{ClassSergeant, -3, 1},
	{ClassSquire, -2, 1},
	{ClassSquire, 2, 1},
	{ClassSergeant, 3, 1},
	{ClassArcher, 4, 1},

	{ClassPikeman, -2, 2},
	{ClassPikeman, -1, 2},
	{ClassPikeman, 0, 2},
	{ClassPikeman, 1, 2},
	{ClassPikeman, 2, 2},
}

// NewStandardPosition 两人标准开局：城堡在上下底线中间，城堡前一排是城墙，
// 中场两侧丘陵，正中一块山。整张图关于中心点对称。
func NewStandardPosition(width, height int, names ...string) (*Position, error) {
	if width < minStandardSize || height < minStandardSize {
		return nil, fmt.Errorf("%w: standard setup needs at least %dx%d, got %dx%d", ErrInvalidLayout, minStandardSize, minStandardSize, width, height)
	}
	if width > MaxBoardSide || height > MaxBoardSide {
		return nil, fmt.Errorf("%w: board %dx%d larger than %dx%d", ErrInvalidLayout, width, height, MaxBoardSide, MaxBoardSide)
	}
	if len(names) == 0 {
		names = []string{"Red", "Blue"}
	}
	if len(names) != 2 {
		return nil, fmt.Errorf("%w: standard setup is for 2 players, got %d", ErrInvalidLayout, len(names))
	}

	b := NewBoard(width, height)
	// (x,y) 与中心对称点一起设置
	mirror := func(x, y int) (int, int) { return width - 1 - x, height - 1 - y }
	set := func(x, y int, t Terrain) {
		b.terrain[b.indexOf(x, y)] = t
		mx, my := mirror(x, y)
		b.terrain[b.indexOf(mx, my)] = t
	}

	for x := 2; x <= 5 && x < width/2-1; x++ {
		set(x, height/2-1, Hill)
		set(x, height/2, Hill)
	}
	set(width/2-1, height/2-1, Mountain)
	set(width/2, height/2-1, Mountain)

	cx, cy := width/2, height-1
	set(cx, cy, Castle)
	for dx := -1; dx <= 1; dx++ {
		set(cx+dx, cy-1, Wall)
	}

	pos := NewPosition(b)
	castles := [][2]int{{cx, cy}}
	mx, my := mirror(cx, cy)
	castles = append(castles, [2]int{mx, my})

	for i, name := range names {
		pl, err := pos.AddPlayer(name, standardColors[i], castles[i][0], castles[i][1])
		if err != nil {
			return nil, err
		}
		for _, r := range standardRoster {
			x, y := cx+r.Dx, cy-r.Dy
			if i == 1 {
				x, y = mirror(x, y)
			}
			if _, err := pos.Place(pl, r.Class, x, y); err != nil {
				return nil, err
			}
		}
	}
	return pos, nil
}
