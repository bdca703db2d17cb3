package engine

import (
	"math/rand"
	"sync"

	"castles/internal/castles"
)

type ActionKind int

const (
	ActionMove ActionKind = iota
	ActionAttack
)

func (k ActionKind) String() string {
	if k == ActionAttack {
		return "attack"
	}
	return "move"
}

// Action 引擎给出的一步：走子，或弓手原地攻击
type Action struct {
	Kind  ActionKind
	Move  castles.Move
	Score int
}

// Engine 贪心选子。局面本身不加锁，调用方负责串行访问同一局面；
// Engine 自己的随机源和局面记忆有锁，可以被多个对局共用。
type Engine struct {
	mu   sync.Mutex
	rng  *rand.Rand
	seen map[uint64]int
}

func NewEngine(seed int64) *Engine {
	return &Engine{
		rng:  rand.New(rand.NewSource(seed)),
		seen: make(map[uint64]int, 1<<10),
	}
}

// Choose 为 side 挑一步。该方没有可以行动的单位时返回 false。
// 优先级：踏城 > 吃王族 > 吃子 > 安全的走子 > 其余走子。
func (e *Engine) Choose(pos *castles.Position, side castles.Side) (Action, bool) {
	pl := pos.Player(side)
	if pl == nil || pl.Lost {
		return Action{}, false
	}

	var cands []Action
	for _, m := range pos.GenerateAttacksForSide(side) {
		cands = append(cands, Action{Kind: ActionAttack, Move: m})
	}
	for _, m := range pos.GenerateMovesForSide(side) {
		// 能直接踏城就不用再比了
		if isCastleCapture(pos, pl, m) {
			return Action{Kind: ActionMove, Move: m, Score: scoreCastle}, true
		}
		cands = append(cands, Action{Kind: ActionMove, Move: m})
	}
	if len(cands) == 0 {
		return Action{}, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// 先打乱再取最高分，同分时由随机源决定
	e.rng.Shuffle(len(cands), func(i, j int) { cands[i], cands[j] = cands[j], cands[i] })
	threats := enemyReach(pos, pl)
	best := -1
	for i := range cands {
		cands[i].Score = e.score(pos, pl, threats, cands[i])
		if best < 0 || cands[i].Score > cands[best].Score {
			best = i
		}
	}
	return cands[best], true
}
