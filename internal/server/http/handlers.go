package httpserver

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"castles/internal/castles"
	"castles/internal/engine"
	"castles/internal/server/game"
)

const maxJSONBodyBytes int64 = 1 << 20

// Publisher 对局状态变化后通知订阅者（websocket）；Drop 在对局关闭时断开订阅者
type Publisher interface {
	Publish(gameID string, state any)
	Drop(gameID string)
}

// Handler 实现 http.Handler，用于 /api/* 路由
type Handler struct {
	games *game.Manager
	ai    *engine.Engine
	pub   Publisher
}

func NewHandler(games *game.Manager, ai *engine.Engine, pub Publisher) *Handler {
	return &Handler{games: games, ai: ai, pub: pub}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var fn func(http.ResponseWriter, *http.Request)
	switch r.URL.Path {
	case "/api/new_game":
		fn = h.handleNewGame
	case "/api/state":
		fn = h.handleState
	case "/api/moves":
		fn = h.handleMoves
	case "/api/play":
		fn = h.handlePlay
	case "/api/attack":
		fn = h.handleAttack
	case "/api/end_turn":
		fn = h.handleEndTurn
	case "/api/ai_move":
		fn = h.handleAiMove
	case "/api/close":
		fn = h.handleClose
	default:
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	fn(w, r)
}

func (h *Handler) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req NewGameRequest
	// 空 body 也算合法：用默认开局
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	var (
		g   *game.GameState
		err error
	)
	if req.Position != "" {
		var pos *castles.Position
		if pos, err = castles.DecodePosition(req.Position); err == nil {
			g, err = h.games.Add(pos)
		}
	} else {
		g, err = h.games.NewGame()
	}
	if err != nil {
		writeError(w, err)
		return
	}
	// 局面记忆只对一盘棋有意义
	h.ai.Forget()
	log.Printf("new game %s", g.ID)
	writeJSON(w, snapshotToDTO(g.Snapshot(), req.View))
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	var req StateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	g, err := h.games.Get(req.GameID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, snapshotToDTO(g.Snapshot(), req.View))
}

// handleMoves 查询某一格单位能去哪、能射谁
func (h *Handler) handleMoves(w http.ResponseWriter, r *http.Request) {
	var req MovesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	g, err := h.games.Get(req.GameID)
	if err != nil {
		writeError(w, err)
		return
	}
	v := viewOf(g, req.View)
	x, y := v.FromScreen(req.X, req.Y)
	moves, attacks := g.Targets(x, y)
	writeJSON(w, MovesResponse{Moves: movesToDTO(v, moves), Attacks: movesToDTO(v, attacks)})
}

func (h *Handler) handlePlay(w http.ResponseWriter, r *http.Request) {
	h.handleCommand(w, r, (*game.GameState).Play)
}

func (h *Handler) handleAttack(w http.ResponseWriter, r *http.Request) {
	h.handleCommand(w, r, (*game.GameState).Attack)
}

type command func(g *game.GameState, side castles.Side, x, y, toX, toY int) (castles.Outcome, error)

func (h *Handler) handleCommand(w http.ResponseWriter, r *http.Request, cmd command) {
	var req PlayRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	g, err := h.games.Get(req.GameID)
	if err != nil {
		writeError(w, err)
		return
	}
	side, err := g.ParseSide(req.Side)
	if err != nil {
		writeError(w, err)
		return
	}
	v := viewOf(g, req.View)
	fx, fy, tx, ty := dtoToBoard(v, req.Move)

	out, err := cmd(g, side, fx, fy, tx, ty)
	if err != nil {
		writeError(w, err)
		return
	}
	if out.Defeated != nil {
		log.Printf("game %s: %s lost the castle", g.ID, out.Defeated.Name)
	}
	h.respondState(w, g, req.View)
}

func (h *Handler) handleEndTurn(w http.ResponseWriter, r *http.Request) {
	var req EndTurnRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	g, err := h.games.Get(req.GameID)
	if err != nil {
		writeError(w, err)
		return
	}
	side, err := g.ParseSide(req.Side)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := g.EndTurn(side); err != nil {
		writeError(w, err)
		return
	}
	h.respondState(w, g, req.View)
}

func (h *Handler) handleAiMove(w http.ResponseWriter, r *http.Request) {
	var req AiMoveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	g, err := h.games.Get(req.GameID)
	if err != nil {
		writeError(w, err)
		return
	}
	actions, err := g.AIMove(h.ai)
	if err != nil {
		writeError(w, err)
		return
	}

	s := g.Snapshot()
	h.publish(s)
	v := castles.View{QuarterTurns: req.View, Width: s.Width, Height: s.Height}
	writeJSON(w, AiMoveResponse{
		Actions: actionsToDTO(v, actions),
		State:   snapshotToDTO(s, req.View),
	})
}

// handleClose 结束并丢弃一局，订阅者随之断开
func (h *Handler) handleClose(w http.ResponseWriter, r *http.Request) {
	var req CloseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.games.Remove(req.GameID); err != nil {
		writeError(w, err)
		return
	}
	if h.pub != nil {
		h.pub.Drop(req.GameID)
	}
	log.Printf("game %s closed", req.GameID)
	writeJSON(w, CloseResponse{GameID: req.GameID, Closed: true})
}

// respondState 命令成功后：推送给订阅者，再按请求的 view 返回
func (h *Handler) respondState(w http.ResponseWriter, g *game.GameState, view int) {
	s := g.Snapshot()
	h.publish(s)
	writeJSON(w, snapshotToDTO(s, view))
}

func viewOf(g *game.GameState, quarterTurns int) castles.View {
	w, h := g.Size()
	return castles.View{QuarterTurns: quarterTurns, Width: w, Height: h}
}

func (h *Handler) publish(s game.Snapshot) {
	if h.pub != nil {
		h.pub.Publish(s.ID, snapshotToDTO(s, 0))
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSONStatus(w, http.StatusBadRequest, ErrorResponse{Error: "bad json"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("writeJSON error:", err)
	}
}

// statusFor 错误到状态码的唯一映射
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrNotYourTurn),
		errors.Is(err, game.ErrAlreadyMoved),
		errors.Is(err, game.ErrGameOver):
		return http.StatusConflict
	case errors.Is(err, castles.ErrInvalidMove),
		errors.Is(err, castles.ErrInvalidLayout),
		errors.Is(err, castles.ErrOutOfBounds),
		errors.Is(err, game.ErrNoPlayers),
		errors.Is(err, game.ErrUnknownSide):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Println("api error:", err)
	}
	writeJSONStatus(w, status, ErrorResponse{Error: err.Error()})
}
