package main

import (
	"fmt"
	"log"

	"castles/internal/castles"
	"castles/internal/engine"
	"castles/internal/server/game"
)

const repetitionLimit = 3

type gameResult struct {
	Result string
	Turns  int
}

type seenKey struct {
	hash uint64
	side castles.Side
}

// playGame 双方都由同一个贪心引擎执子，直到有人踏城、回合数用完或局面重复
func playGame(pos *castles.Position, seed int64, maxTurns int, verbose bool) (gameResult, error) {
	st, err := game.NewGameState(fmt.Sprintf("selfplay-%d", seed), pos)
	if err != nil {
		return gameResult{}, err
	}
	e := engine.NewEngine(seed)
	seen := make(map[seenKey]int)

	for {
		s := st.Snapshot()
		if s.Status == game.StatusWon {
			return gameResult{Result: s.Players[s.Winner].Name + " wins", Turns: s.Turn}, nil
		}
		if s.Turn > maxTurns {
			return gameResult{Result: "draw (turn limit)", Turns: maxTurns}, nil
		}
		// 轮到同一方时局面第三次出现就判和
		key := seenKey{hash: s.Hash, side: s.Current}
		if seen[key]++; seen[key] >= repetitionLimit {
			return gameResult{Result: "draw (repetition)", Turns: s.Turn}, nil
		}

		actions, err := st.AIMove(e)
		if err != nil {
			return gameResult{}, err
		}
		if verbose {
			for _, a := range actions {
				log.Printf("[%d] turn %d side %d: %s (%d,%d)->(%d,%d) score %d",
					seed, s.Turn, s.Current, a.Kind, a.Move.FromX, a.Move.FromY, a.Move.ToX, a.Move.ToY, a.Score)
			}
		}
	}
}
