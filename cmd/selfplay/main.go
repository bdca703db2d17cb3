package main

import (
	"flag"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"castles/internal/config"
)

func main() {
	cfgPath := flag.String("config", "", "path to YAML config (board size, players, layout)")
	totalGames := flag.Int("games", 10, "number of games to play")
	parallel := flag.Int("parallel", 4, "games played at the same time")
	maxTurns := flag.Int("maxturns", 200, "turn limit before a game is called a draw")
	seed := flag.Int64("seed", 1, "base random seed; game i uses seed+i")
	verbose := flag.Bool("v", false, "log every action")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var (
		mu      sync.Mutex
		results = make(map[string]int)
		turns   int
	)

	start := time.Now()
	var g errgroup.Group
	g.SetLimit(*parallel)
	for i := 0; i < *totalGames; i++ {
		g.Go(func() error {
			pos, err := cfg.NewPosition()
			if err != nil {
				return err
			}
			res, err := playGame(pos, *seed+int64(i), *maxTurns, *verbose)
			if err != nil {
				return fmt.Errorf("game %d: %w", i+1, err)
			}
			log.Printf("game %d: %s after %d turns", i+1, res.Result, res.Turns)

			mu.Lock()
			results[res.Result]++
			turns += res.Turns
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("selfplay: %v", err)
	}

	fmt.Printf("\n=== %d games in %v ===\n", *totalGames, time.Since(start).Round(time.Millisecond))
	for result, n := range results {
		fmt.Printf("%s: %d\n", result, n)
	}
	if *totalGames > 0 {
		fmt.Printf("average turns: %.1f\n", float64(turns)/float64(*totalGames))
	}
}
