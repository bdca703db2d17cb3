package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"castles/internal/castles"
)

// 单位按所属方区分大小写：0 号玩家大写，其余小写
func unitGlyph(u *castles.Unit) byte {
	c := byte(u.Class)
	if u.Side() != 0 {
		c += 'a' - 'A'
	}
	return c
}

var terrainGlyph = map[castles.Terrain]byte{
	castles.Grass:    '.',
	castles.Hill:     '^',
	castles.Mountain: 'M',
	castles.Castle:   'C',
	castles.Wall:     '#',
}

// render 按 view 画出棋盘，marks 里的格子画成 '*'
func render(pos *castles.Position, v castles.View, marks map[[2]int]bool) string {
	sw, sh := v.ScreenSize()
	var sb strings.Builder
	for sy := 0; sy < sh; sy++ {
		for sx := 0; sx < sw; sx++ {
			x, y := v.FromScreen(sx, sy)
			switch {
			case pos.Board.UnitAt(x, y) != nil:
				sb.WriteByte(unitGlyph(pos.Board.UnitAt(x, y)))
			case marks[[2]int{x, y}]:
				sb.WriteByte('*')
			default:
				sb.WriteByte(terrainGlyph[pos.Board.TerrainAt(x, y)])
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func main() {
	layout := flag.String("layout", "", "encoded position (default: standard setup)")
	x := flag.Int("x", 12, "tile x to show moves for")
	y := flag.Int("y", 21, "tile y to show moves for")
	view := flag.Int("view", 0, "quarter turns clockwise")
	flag.Parse()

	var (
		pos *castles.Position
		err error
	)
	if *layout != "" {
		pos, err = castles.DecodePosition(*layout)
	} else {
		pos, err = castles.NewStandardPosition(castles.DefaultWidth, castles.DefaultHeight)
	}
	if err != nil {
		log.Fatalf("position: %v", err)
	}

	fmt.Println("Position:", pos.Encode())
	fmt.Printf("Hash: %016x\n", pos.Hash())
	for _, pl := range pos.Players {
		fmt.Printf("Player %d %s: castle (%d,%d), %d units, royalty %d\n",
			pl.Side, pl.Name, pl.CastleX, pl.CastleY, len(pl.Units), pl.RoyaltyCount)
		fmt.Printf("  moves: %d, attacks: %d, castle threatened: %v\n",
			len(pos.GenerateMovesForSide(pl.Side)), len(pos.GenerateAttacksForSide(pl.Side)), pos.CastleThreatened(pl.Side))
	}

	marks := make(map[[2]int]bool)
	if u := pos.Board.UnitAt(*x, *y); u != nil {
		moves := pos.GenerateMoves(*x, *y)
		attacks := pos.AttackTargets(*x, *y)
		fmt.Printf("%s at (%d,%d): %d moves, %d attack targets\n", u.Class, *x, *y, len(moves), len(attacks))
		for _, m := range moves {
			marks[[2]int{m.ToX, m.ToY}] = true
		}
	} else {
		fmt.Printf("no unit at (%d,%d)\n", *x, *y)
	}

	fmt.Println()
	fmt.Print(render(pos, castles.NewView(pos.Board, *view), marks))
}
