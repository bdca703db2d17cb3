package httpserver

import (
	"strconv"

	"castles/internal/castles"
	"castles/internal/engine"
	"castles/internal/server/game"
)

// 请求里的坐标都是屏幕坐标（按 view 旋转后的），响应里的坐标也按同一个 view 转好。
// position 字符串永远是棋盘坐标，不随 view 变化。

// 前端用的招法结构
type MoveDTO struct {
	FromX int `json:"from_x"`
	FromY int `json:"from_y"`
	ToX   int `json:"to_x"`
	ToY   int `json:"to_y"`
}

type PlayerDTO struct {
	Name         string `json:"name"`
	Side         int    `json:"side"`
	Color        string `json:"color"`
	CastleX      int    `json:"castle_x"`
	CastleY      int    `json:"castle_y"`
	RoyaltyCount int    `json:"royalty_count"`
	Units        int    `json:"units"`
	Lost         bool   `json:"lost"`
}

type EventDTO struct {
	Turn     int     `json:"turn"`
	Side     int     `json:"side"`
	Kind     string  `json:"kind"`
	Move     MoveDTO `json:"move"`
	Captured string  `json:"captured,omitempty"`
	Defeated int     `json:"defeated"` // -1 表示没有
}

// NewGame 请求：position 为空时用服务端配置的开局
type NewGameRequest struct {
	Position string `json:"position"`
	View     int    `json:"view"` // 顺时针转几个 90°
}

// State 请求：前端刷新时用 game_id 来要当前盘面
type StateRequest struct {
	GameID string `json:"game_id"`
	View   int    `json:"view"`
}

// StateResponse new_game / state / play / attack / end_turn 共用
type StateResponse struct {
	GameID     string      `json:"game_id"`
	Position   string      `json:"position"`
	Width      int         `json:"width"`  // 屏幕宽
	Height     int         `json:"height"` // 屏幕高
	View       int         `json:"view"`
	ToMove     int         `json:"to_move"`
	Turn       int         `json:"turn"`
	Status     string      `json:"status"` // "ongoing" / "won"
	Winner     int         `json:"winner"` // -1 表示还没有
	Hash       string      `json:"hash"`
	Players    []PlayerDTO `json:"players"`
	LegalMoves []MoveDTO   `json:"legal_moves"` // 当前玩家所有可走
	Attacks    []MoveDTO   `json:"attacks"`     // 当前玩家所有可原地攻击
	Events     []EventDTO  `json:"events"`
}

type MovesRequest struct {
	GameID string `json:"game_id"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	View   int    `json:"view"`
}

type MovesResponse struct {
	Moves   []MoveDTO `json:"moves"`
	Attacks []MoveDTO `json:"attacks"`
}

// Play / Attack 请求
type PlayRequest struct {
	GameID string  `json:"game_id"`
	Side   int     `json:"side"`
	Move   MoveDTO `json:"move"`
	View   int     `json:"view"`
}

type EndTurnRequest struct {
	GameID string `json:"game_id"`
	Side   int    `json:"side"`
	View   int    `json:"view"`
}

type CloseRequest struct {
	GameID string `json:"game_id"`
}

type CloseResponse struct {
	GameID string `json:"game_id"`
	Closed bool   `json:"closed"`
}

// AiMoveRequest 让 AI 替当前玩家走完这一回合
type AiMoveRequest struct {
	GameID string `json:"game_id"`
	View   int    `json:"view"`
}

type ActionDTO struct {
	Kind  string  `json:"kind"` // "move" / "attack"
	Move  MoveDTO `json:"move"`
	Score int     `json:"score"`
}

type AiMoveResponse struct {
	Actions []ActionDTO   `json:"actions"`
	State   StateResponse `json:"state"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func sideToInt(s castles.Side) int {
	if s < 0 {
		return -1
	}
	return int(s)
}

func moveToDTO(v castles.View, m castles.Move) MoveDTO {
	fx, fy := v.ToScreen(m.FromX, m.FromY)
	tx, ty := v.ToScreen(m.ToX, m.ToY)
	return MoveDTO{FromX: fx, FromY: fy, ToX: tx, ToY: ty}
}

func movesToDTO(v castles.View, ms []castles.Move) []MoveDTO {
	out := make([]MoveDTO, len(ms))
	for i, m := range ms {
		out[i] = moveToDTO(v, m)
	}
	return out
}

// dtoToBoard 屏幕坐标转回棋盘坐标
func dtoToBoard(v castles.View, m MoveDTO) (fromX, fromY, toX, toY int) {
	fromX, fromY = v.FromScreen(m.FromX, m.FromY)
	toX, toY = v.FromScreen(m.ToX, m.ToY)
	return
}

func snapshotToDTO(s game.Snapshot, quarterTurns int) StateResponse {
	v := castles.View{QuarterTurns: quarterTurns, Width: s.Width, Height: s.Height}
	sw, sh := v.ScreenSize()
	resp := StateResponse{
		GameID:     s.ID,
		Position:   s.Position,
		Width:      sw,
		Height:     sh,
		View:       quarterTurns,
		ToMove:     sideToInt(s.Current),
		Turn:       s.Turn,
		Status:     string(s.Status),
		Winner:     sideToInt(s.Winner),
		Hash:       strconv.FormatUint(s.Hash, 16),
		LegalMoves: movesToDTO(v, s.Moves),
		Attacks:    movesToDTO(v, s.Attacks),
	}
	for _, pl := range s.Players {
		cx, cy := v.ToScreen(pl.CastleX, pl.CastleY)
		resp.Players = append(resp.Players, PlayerDTO{
			Name:         pl.Name,
			Side:         sideToInt(pl.Side),
			Color:        string(pl.Color),
			CastleX:      cx,
			CastleY:      cy,
			RoyaltyCount: pl.RoyaltyCount,
			Units:        pl.Units,
			Lost:         pl.Lost,
		})
	}
	for _, ev := range s.Events {
		e := EventDTO{
			Turn:     ev.Turn,
			Side:     sideToInt(ev.Side),
			Kind:     string(ev.Kind),
			Move:     moveToDTO(v, ev.Move),
			Defeated: sideToInt(ev.Defeated),
		}
		if ev.Captured != 0 {
			e.Captured = ev.Captured.String()
		}
		resp.Events = append(resp.Events, e)
	}
	return resp
}

func actionsToDTO(v castles.View, as []engine.Action) []ActionDTO {
	out := make([]ActionDTO, len(as))
	for i, a := range as {
		out[i] = ActionDTO{Kind: a.Kind.String(), Move: moveToDTO(v, a.Move), Score: a.Score}
	}
	return out
}
