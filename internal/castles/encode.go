package castles

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// 文本格式（类似 FEN）：
//
//	<地形> <玩家> <单位>
//
// 地形：每行一个字符一格，行间用 "/"；连续草地可以压缩成十进制数字。
// 玩家：name:color:x,y[:lost]，用 ";" 分隔。
// 单位：<兵种><side>@x,y[*]，"*" 表示本回合已行动；没有单位时写 "-"。

var terrainChars = map[Terrain]byte{
	Grass:    '.',
	Hill:     '^',
	Mountain: 'M',
	Castle:   'C',
	Wall:     '#',
}

func terrainFromChar(ch byte) (Terrain, bool) {
	for t, c := range terrainChars {
		if c == ch {
			return t, true
		}
	}
	return 0, false
}

// EncodeTerrain 地形平面编码，y=0 为第一行
func (b *Board) EncodeTerrain() string {
	var sb strings.Builder
	for y := 0; y < b.Height; y++ {
		if y > 0 {
			sb.WriteByte('/')
		}
		grass := 0
		for x := 0; x < b.Width; x++ {
			t := b.TerrainAt(x, y)
			if t == Grass {
				grass++
				continue
			}
			if grass > 0 {
				sb.WriteString(strconv.Itoa(grass))
				grass = 0
			}
			sb.WriteByte(terrainChars[t])
		}
		if grass > 0 {
			sb.WriteString(strconv.Itoa(grass))
		}
	}
	return sb.String()
}

// DecodeTerrain 行可以用 "/" 或换行分隔，首尾空白忽略
func DecodeTerrain(s string) (*Board, error) {
	s = strings.ReplaceAll(s, "\n", "/")
	var rows [][]Terrain
	for _, line := range strings.Split(s, "/") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		row, err := decodeTerrainRow(line)
		if err != nil {
			return nil, err
		}
		if len(rows) == MaxBoardSide {
			return nil, fmt.Errorf("%w: more than %d rows", ErrInvalidLayout, MaxBoardSide)
		}
		if len(rows) > 0 && len(row) != len(rows[0]) {
			return nil, fmt.Errorf("%w: row %d has %d tiles, want %d", ErrInvalidLayout, len(rows), len(row), len(rows[0]))
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty terrain", ErrInvalidLayout)
	}

	b := NewBoard(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, t := range row {
			b.terrain[b.indexOf(x, y)] = t
		}
	}
	return b, nil
}

func decodeTerrainRow(line string) ([]Terrain, error) {
	var row []Terrain
	run := 0
	flush := func() error {
		if len(row)+run > MaxBoardSide {
			return fmt.Errorf("%w: row wider than %d tiles", ErrInvalidLayout, MaxBoardSide)
		}
		for ; run > 0; run-- {
			row = append(row, Grass)
		}
		return nil
	}
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if ch >= '0' && ch <= '9' {
			run = run*10 + int(ch-'0')
			if run > MaxBoardSide {
				return nil, fmt.Errorf("%w: grass run in %q wider than %d tiles", ErrInvalidLayout, line, MaxBoardSide)
			}
			continue
		}
		if err := flush(); err != nil {
			return nil, err
		}
		t, ok := terrainFromChar(ch)
		if !ok {
			return nil, fmt.Errorf("%w: unknown terrain %q", ErrInvalidLayout, ch)
		}
		if len(row) == MaxBoardSide {
			return nil, fmt.Errorf("%w: row wider than %d tiles", ErrInvalidLayout, MaxBoardSide)
		}
		row = append(row, t)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return row, nil
}

func (p *Position) encodePlayers() string {
	parts := make([]string, 0, len(p.Players))
	for _, pl := range p.Players {
		s := fmt.Sprintf("%s:%c:%d,%d", pl.Name, pl.Color, pl.CastleX, pl.CastleY)
		if pl.Lost {
			s += ":lost"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ";")
}

// EncodeUnits 按行优先顺序输出，保证同一局面编码唯一
func (p *Position) EncodeUnits() string {
	var parts []string
	p.Board.eachUnit(func(u *Unit) {
		s := fmt.Sprintf("%c%d@%d,%d", rune(u.Class), u.Side(), u.X, u.Y)
		if u.Moved {
			s += "*"
		}
		parts = append(parts, s)
	})
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ";")
}

func (p *Position) Encode() string {
	return p.Board.EncodeTerrain() + " " + p.encodePlayers() + " " + p.EncodeUnits()
}

func DecodePosition(s string) (*Position, error) {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return nil, fmt.Errorf("%w: want 3 fields, got %d", ErrInvalidLayout, len(fields))
	}
	b, err := DecodeTerrain(fields[0])
	if err != nil {
		return nil, err
	}
	pos := NewPosition(b)
	for _, tok := range strings.Split(fields[1], ";") {
		if err := pos.decodePlayer(tok); err != nil {
			return nil, err
		}
	}
	if err := pos.PlaceUnits(fields[2]); err != nil {
		return nil, err
	}
	return pos, nil
}

func (p *Position) decodePlayer(tok string) error {
	parts := strings.Split(tok, ":")
	if len(parts) < 3 || len(parts) > 4 || parts[0] == "" {
		return fmt.Errorf("%w: player %q", ErrInvalidLayout, tok)
	}
	color, size := utf8.DecodeRuneInString(parts[1])
	if size == 0 || size != len(parts[1]) {
		return fmt.Errorf("%w: player color %q", ErrInvalidLayout, parts[1])
	}
	x, y, err := parseXY(parts[2])
	if err != nil {
		return err
	}
	pl, err := p.AddPlayer(parts[0], color, x, y)
	if err != nil {
		return err
	}
	if len(parts) == 4 {
		if parts[3] != "lost" {
			return fmt.Errorf("%w: player flag %q", ErrInvalidLayout, parts[3])
		}
		pl.Lost = true
	}
	return nil
}

// PlaceUnits 按单位编码布子，玩家必须已经存在
func (p *Position) PlaceUnits(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return nil
	}
	for _, tok := range strings.Split(s, ";") {
		tok = strings.TrimSpace(tok)
		if len(tok) < 5 {
			return fmt.Errorf("%w: unit %q", ErrInvalidLayout, tok)
		}
		class := Class(tok[0])
		at := strings.IndexByte(tok, '@')
		if at < 2 {
			return fmt.Errorf("%w: unit %q", ErrInvalidLayout, tok)
		}
		side, err := strconv.Atoi(tok[1:at])
		if err != nil {
			return fmt.Errorf("%w: unit side %q", ErrInvalidLayout, tok)
		}
		rest := tok[at+1:]
		moved := strings.HasSuffix(rest, "*")
		rest = strings.TrimSuffix(rest, "*")
		x, y, err := parseXY(rest)
		if err != nil {
			return err
		}
		owner := p.Player(Side(side))
		if owner == nil {
			return fmt.Errorf("%w: unit %q has no player %d", ErrInvalidLayout, tok, side)
		}
		u, err := p.Place(owner, class, x, y)
		if err != nil {
			return err
		}
		u.Moved = moved
	}
	return nil
}

func parseXY(s string) (int, int, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("%w: coordinates %q", ErrInvalidLayout, s)
	}
	x, err := strconv.Atoi(xs)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: coordinates %q", ErrInvalidLayout, s)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: coordinates %q", ErrInvalidLayout, s)
	}
	return x, y, nil
}
