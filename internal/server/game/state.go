package game

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"castles/internal/castles"
	"castles/internal/engine"
)

type Status string

const (
	StatusOngoing Status = "ongoing"
	StatusWon     Status = "won"
)

type EventKind string

const (
	EventMove    EventKind = "move"
	EventAttack  EventKind = "attack"
	EventEndTurn EventKind = "end_turn"
	EventSkip    EventKind = "skip" // 没有可行动单位，自动跳过
)

// Event 对局记录的一条
type Event struct {
	Turn     int
	Side     castles.Side
	Kind     EventKind
	Move     castles.Move
	Captured castles.Class // 0 表示没吃子
	Defeated castles.Side  // 城堡被踏的玩家，没有为 NoSide
}

const maxSnapshotEvents = 20

// GameState 一局棋 + 回合控制。局面和花名册在同一把锁下读写。
type GameState struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	mu      sync.Mutex
	pos     *castles.Position
	current castles.Side
	turn    int
	winner  castles.Side
	events  []Event
}

func NewGameState(id string, pos *castles.Position) (*GameState, error) {
	if pos == nil || len(pos.LivePlayers()) < 2 {
		return nil, ErrNoPlayers
	}
	now := time.Now()
	g := &GameState{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
		pos:       pos,
		current:   pos.LivePlayers()[0].Side,
		turn:      1,
		winner:    castles.NoSide,
	}
	pos.BeginTurn(g.current)
	if !g.canAct(g.current) {
		g.advance()
	}
	return g, nil
}

// Play 当前玩家走一个单位
func (g *GameState) Play(side castles.Side, x, y, toX, toY int) (castles.Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkCommand(side, x, y); err != nil {
		return castles.Outcome{}, err
	}
	u := g.pos.Board.UnitAt(x, y)
	out, err := g.pos.ApplyMove(x, y, toX, toY)
	if err != nil {
		return out, err
	}
	g.record(EventMove, castles.Move{FromX: x, FromY: y, ToX: toX, ToY: toY, Unit: u}, out)
	return out, nil
}

// Attack 当前玩家的弓手原地攻击
func (g *GameState) Attack(side castles.Side, x, y, targetX, targetY int) (castles.Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkCommand(side, x, y); err != nil {
		return castles.Outcome{}, err
	}
	u := g.pos.Board.UnitAt(x, y)
	out, err := g.pos.AttackInPlace(x, y, targetX, targetY)
	if err != nil {
		return out, err
	}
	g.record(EventAttack, castles.Move{FromX: x, FromY: y, ToX: targetX, ToY: targetY, Unit: u}, out)
	return out, nil
}

// EndTurn 当前玩家主动结束回合
func (g *GameState) EndTurn(side castles.Side) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.winner != castles.NoSide {
		return ErrGameOver
	}
	if side != g.current {
		return ErrNotYourTurn
	}
	g.events = append(g.events, Event{Turn: g.turn, Side: side, Kind: EventEndTurn, Defeated: castles.NoSide})
	g.advance()
	g.UpdatedAt = time.Now()
	return nil
}

// AIMove 让引擎替当前玩家走完整个回合，返回走过的每一步
func (g *GameState) AIMove(e *engine.Engine) ([]engine.Action, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.winner != castles.NoSide {
		return nil, ErrGameOver
	}
	side := g.current
	var actions []engine.Action
	for g.winner == castles.NoSide && g.current == side {
		a, ok := e.Choose(g.pos, side)
		if !ok {
			break
		}
		m := a.Move
		var (
			out  castles.Outcome
			err  error
			kind = EventMove
		)
		if a.Kind == engine.ActionAttack {
			kind = EventAttack
			out, err = g.pos.AttackInPlace(m.FromX, m.FromY, m.ToX, m.ToY)
		} else {
			out, err = g.pos.ApplyMove(m.FromX, m.FromY, m.ToX, m.ToY)
		}
		if err != nil {
			// 引擎只会从生成的走法里挑，走不了说明局面已经坏了
			return actions, fmt.Errorf("engine action %s %+v: %w", a.Kind, m, err)
		}
		actions = append(actions, a)
		e.Remember(g.pos.Hash())
		g.record(kind, m, out)
	}
	if g.winner == castles.NoSide && g.current == side {
		g.advance()
	}
	g.UpdatedAt = time.Now()
	return actions, nil
}

// ParseSide 请求里的玩家编号换成 Side，编号必须对应一个座位
func (g *GameState) ParseSide(n int) (castles.Side, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if n < 0 || n >= len(g.pos.Players) {
		return castles.NoSide, fmt.Errorf("%w: %d", ErrUnknownSide, n)
	}
	return castles.Side(n), nil
}

func (g *GameState) checkCommand(side castles.Side, x, y int) error {
	if g.winner != castles.NoSide {
		return ErrGameOver
	}
	if side != g.current {
		return ErrNotYourTurn
	}
	u := g.pos.Board.UnitAt(x, y)
	if u == nil {
		return nil // 交给规则层报错
	}
	if u.Side() != side {
		return fmt.Errorf("%w: unit at (%d,%d) belongs to another player", castles.ErrInvalidMove, x, y)
	}
	if u.Moved {
		return ErrAlreadyMoved
	}
	return nil
}

// record 记一条事件，然后看有没有人赢、当前玩家是否还能行动
func (g *GameState) record(kind EventKind, m castles.Move, out castles.Outcome) {
	ev := Event{Turn: g.turn, Side: g.current, Kind: kind, Move: m, Defeated: castles.NoSide}
	if out.Captured != nil {
		ev.Captured = out.Captured.Class
	}
	if out.Defeated != nil {
		ev.Defeated = out.Defeated.Side
	}
	g.events = append(g.events, ev)
	g.UpdatedAt = time.Now()

	if live := g.pos.LivePlayers(); len(live) == 1 {
		g.winner = live[0].Side
		return
	}
	if !g.canAct(g.current) {
		g.advance()
	}
}

func (g *GameState) canAct(side castles.Side) bool {
	return len(g.pos.GenerateMovesForSide(side)) > 0 || len(g.pos.GenerateAttacksForSide(side)) > 0
}

// advance 轮到下一个没输的玩家；没有任何单位能动的玩家直接跳过，最多绕一圈
func (g *GameState) advance() {
	n := len(g.pos.Players)
	for range n {
		next := g.current
		for i := 1; i <= n; i++ {
			cand := castles.Side((int(g.current) + i) % n)
			if !g.pos.Players[cand].Lost {
				next = cand
				break
			}
		}
		if next <= g.current {
			g.turn++
		}
		g.current = next
		g.pos.BeginTurn(next)
		if g.canAct(next) {
			return
		}
		g.events = append(g.events, Event{Turn: g.turn, Side: next, Kind: EventSkip, Defeated: castles.NoSide})
	}
}

type PlayerInfo struct {
	Name         string
	Side         castles.Side
	Color        rune
	CastleX      int
	CastleY      int
	RoyaltyCount int
	Units        int
	Lost         bool
}

// Snapshot 某一时刻的只读副本，可以在锁外随意使用
type Snapshot struct {
	ID       string
	Position string
	Width    int
	Height   int
	Hash     uint64
	Current  castles.Side
	Turn     int
	Status   Status
	Winner   castles.Side
	Players  []PlayerInfo
	Moves    []castles.Move // 当前玩家所有可走
	Attacks  []castles.Move // 当前玩家所有可原地攻击的目标
	Events   []Event        // 最近的若干条
}

func (g *GameState) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := Snapshot{
		ID:       g.ID,
		Position: g.pos.Encode(),
		Width:    g.pos.Board.Width,
		Height:   g.pos.Board.Height,
		Hash:     g.pos.Hash(),
		Current:  g.current,
		Turn:     g.turn,
		Status:   StatusOngoing,
		Winner:   g.winner,
	}
	if g.winner != castles.NoSide {
		s.Status = StatusWon
	} else {
		s.Moves = detach(g.pos.GenerateMovesForSide(g.current))
		s.Attacks = detach(g.pos.GenerateAttacksForSide(g.current))
	}
	for _, pl := range g.pos.Players {
		s.Players = append(s.Players, PlayerInfo{
			Name:         pl.Name,
			Side:         pl.Side,
			Color:        pl.Color,
			CastleX:      pl.CastleX,
			CastleY:      pl.CastleY,
			RoyaltyCount: pl.RoyaltyCount,
			Units:        len(pl.Units),
			Lost:         pl.Lost,
		})
	}
	start := max(0, len(g.events)-maxSnapshotEvents)
	s.Events = slices.Clone(g.events[start:])
	for i := range s.Events {
		s.Events[i].Move.Unit = nil
	}
	return s
}

// detach 去掉指向棋盘单位的指针，快照里只留坐标
func detach(ms []castles.Move) []castles.Move {
	for i := range ms {
		ms[i].Unit = nil
	}
	return ms
}

// Targets 查询某一格单位的可走格和可攻击目标；不检查回合
func (g *GameState) Targets(x, y int) (moves, attacks []castles.Move) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return detach(g.pos.GenerateMoves(x, y)), detach(g.pos.AttackTargets(x, y))
}

// Current 当前轮到谁
func (g *GameState) Current() castles.Side {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

// Size 棋盘宽高，开局后不变
func (g *GameState) Size() (width, height int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pos.Board.Width, g.pos.Board.Height
}
