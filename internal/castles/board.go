package castles

import (
	"fmt"
	"strings"
)

const (
	DefaultWidth  = 24
	DefaultHeight = 24

	// MaxBoardSide 宽、高的上限，解码和开局都按它拒绝
	MaxBoardSide = 256
)

// Board 两层平面：地形 + 占用，均按行存放 (y*Width + x)
type Board struct {
	Width, Height int

	terrain []Terrain
	units   []*Unit
}

// NewBoard 全草地的空棋盘
func NewBoard(width, height int) *Board {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("castles: invalid board size %dx%d", width, height))
	}
	b := &Board{
		Width:   width,
		Height:  height,
		terrain: make([]Terrain, width*height),
		units:   make([]*Unit, width*height),
	}
	for i := range b.terrain {
		b.terrain[i] = Grass
	}
	return b
}

func (b *Board) indexOf(x, y int) int { return y*b.Width + x }

func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// TerrainAt 越界返回 0
func (b *Board) TerrainAt(x, y int) Terrain {
	if !b.InBounds(x, y) {
		return 0
	}
	return b.terrain[b.indexOf(x, y)]
}

func (b *Board) SetTerrain(x, y int, t Terrain) error {
	if !b.InBounds(x, y) {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, x, y)
	}
	if !t.Valid() {
		return fmt.Errorf("%w: terrain %#x at (%d,%d)", ErrInvalidLayout, uint8(t), x, y)
	}
	b.terrain[b.indexOf(x, y)] = t
	return nil
}

// UnitAt 越界或空格返回 nil
func (b *Board) UnitAt(x, y int) *Unit {
	if !b.InBounds(x, y) {
		return nil
	}
	return b.units[b.indexOf(x, y)]
}

func (b *Board) put(u *Unit) {
	b.units[b.indexOf(u.X, u.Y)] = u
}

func (b *Board) clear(x, y int) {
	b.units[b.indexOf(x, y)] = nil
}

// eachUnit 按行优先顺序遍历棋盘上的单位
func (b *Board) eachUnit(fn func(u *Unit)) {
	for _, u := range b.units {
		if u != nil {
			fn(u)
		}
	}
}

func NewPosition(b *Board) *Position {
	return &Position{Board: b}
}

// AddPlayer 新玩家的 Side 即其下标
func (p *Position) AddPlayer(name string, color rune, castleX, castleY int) (*Player, error) {
	if name == "" || strings.ContainsAny(name, " \t\n:;") {
		return nil, fmt.Errorf("%w: player name %q", ErrInvalidLayout, name)
	}
	if !p.Board.InBounds(castleX, castleY) {
		return nil, fmt.Errorf("%w: castle (%d,%d)", ErrOutOfBounds, castleX, castleY)
	}
	if p.Board.TerrainAt(castleX, castleY) != Castle {
		return nil, fmt.Errorf("%w: (%d,%d) is %s, not castle", ErrInvalidLayout, castleX, castleY, p.Board.TerrainAt(castleX, castleY))
	}
	for _, other := range p.Players {
		if other.CastleX == castleX && other.CastleY == castleY {
			return nil, fmt.Errorf("%w: castle (%d,%d) already owned by %s", ErrInvalidLayout, castleX, castleY, other.Name)
		}
	}
	pl := &Player{
		Name:    name,
		Side:    Side(len(p.Players)),
		Color:   color,
		CastleX: castleX,
		CastleY: castleY,
	}
	p.Players = append(p.Players, pl)
	return pl, nil
}

func (p *Position) Player(side Side) *Player {
	if side < 0 || int(side) >= len(p.Players) {
		return nil
	}
	return p.Players[side]
}

// Place 布阵：按兵种表生成单位并放上棋盘
func (p *Position) Place(owner *Player, class Class, x, y int) (*Unit, error) {
	pat, ok := PatternOf(class)
	if !ok {
		return nil, fmt.Errorf("%w: unknown class %q", ErrInvalidLayout, rune(class))
	}
	if owner == nil || p.Player(owner.Side) != owner {
		return nil, fmt.Errorf("%w: owner is not a player of this position", ErrInvalidLayout)
	}
	if !p.Board.InBounds(x, y) {
		return nil, fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, x, y)
	}
	if p.Board.UnitAt(x, y) != nil {
		return nil, fmt.Errorf("%w: (%d,%d) already occupied", ErrInvalidLayout, x, y)
	}
	if p.Board.TerrainAt(x, y) == Mountain {
		return nil, fmt.Errorf("%w: cannot place on mountain (%d,%d)", ErrInvalidLayout, x, y)
	}

	p.nextID++
	u := &Unit{
		ID:      p.nextID,
		Class:   class,
		Owner:   owner,
		X:       x,
		Y:       y,
		MovX:    pat.MovX,
		MovY:    pat.MovY,
		MovDiag: pat.MovDiag,
	}
	owner.Units = append(owner.Units, u)
	if pat.Royalty {
		owner.RoyaltyCount++
	}
	p.Board.put(u)
	return u, nil
}

// CastleOwner 城堡格的主人，不是城堡返回 nil
func (p *Position) CastleOwner(x, y int) *Player {
	for _, pl := range p.Players {
		if pl.CastleX == x && pl.CastleY == y {
			return pl
		}
	}
	return nil
}

// LivePlayers 还没输的玩家
func (p *Position) LivePlayers() []*Player {
	var out []*Player
	for _, pl := range p.Players {
		if !pl.Lost {
			out = append(out, pl)
		}
	}
	return out
}
