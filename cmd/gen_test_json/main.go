package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"castles/internal/castles"
)

// TestCase 给前端走法提示做回归用：一个局面 + 选中某个单位后应当高亮的格子
type TestCase struct {
	Position string   `json:"position"`
	Side     int      `json:"side"`
	FromX    int      `json:"from_x"`
	FromY    int      `json:"from_y"`
	Moves    [][2]int `json:"moves"`
	Attacks  [][2]int `json:"attacks"`
	Screen   [][2]int `json:"screen_moves"` // moves 在 view 下的屏幕坐标
	View     int      `json:"view"`
	Froms    [][2]int `json:"froms"` // 本方所有能动的单位
}

func targets(ms []castles.Move) [][2]int {
	out := make([][2]int, len(ms))
	for i, m := range ms {
		out[i] = [2]int{m.ToX, m.ToY}
	}
	return out
}

func main() {
	numGames := flag.Int("games", 10, "random games to sample")
	maxActions := flag.Int("max", 300, "actions per game")
	out := flag.String("out", "move_gen_test_data.json", "output file")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	var testCases []TestCase

	for g := 0; g < *numGames; g++ {
		pos, err := castles.NewStandardPosition(castles.DefaultWidth, castles.DefaultHeight)
		if err != nil {
			log.Fatal(err)
		}
		side := castles.Side(0)
		pos.BeginTurn(side)

		for n := 0; n < *maxActions && len(pos.LivePlayers()) > 1; n++ {
			moves := pos.GenerateMovesForSide(side)
			if len(moves) == 0 {
				// 本方都动过了，换下一方
				side = (side + 1) % castles.Side(len(pos.Players))
				pos.BeginTurn(side)
				continue
			}

			chosen := moves[rng.Intn(len(moves))]
			view := castles.ViewForSide(pos.Board, side, len(pos.Players))
			unitMoves := pos.GenerateMoves(chosen.FromX, chosen.FromY)

			tc := TestCase{
				Position: pos.Encode(),
				Side:     int(side),
				FromX:    chosen.FromX,
				FromY:    chosen.FromY,
				Moves:    targets(unitMoves),
				Attacks:  targets(pos.AttackTargets(chosen.FromX, chosen.FromY)),
				View:     view.QuarterTurns,
			}
			for _, m := range unitMoves {
				sx, sy := view.ToScreen(m.ToX, m.ToY)
				tc.Screen = append(tc.Screen, [2]int{sx, sy})
			}
			froms := make(map[[2]int]bool)
			for _, m := range moves {
				if k := [2]int{m.FromX, m.FromY}; !froms[k] {
					froms[k] = true
					tc.Froms = append(tc.Froms, k)
				}
			}
			testCases = append(testCases, tc)

			if _, err := pos.ApplyMove(chosen.FromX, chosen.FromY, chosen.ToX, chosen.ToY); err != nil {
				log.Fatalf("apply %+v: %v", chosen, err)
			}
		}
	}

	file, err := json.MarshalIndent(testCases, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(*out, file, 0644); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Generated %d test cases from %d random games to %s\n", len(testCases), *numGames, *out)
}
