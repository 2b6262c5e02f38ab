package httpadapter

import (
	"net/http"

	"github.com/gorilla/websocket"

	"svw.info/suko/internal/domain"
	"svw.info/suko/internal/ports"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type streamStep struct {
	Type string       `json:"type"` // "step" or "result"
	Step *domain.Step `json:"step,omitempty"`

	Board  string `json:"board,omitempty"`
	Solved bool   `json:"solved,omitempty"`
	Steps  int    `json:"steps,omitempty"`
	Error  string `json:"error,omitempty"`
}

// handleSolveStream upgrades to a websocket, reads one solve request,
// then pushes every trace step followed by a final result frame. If the
// client goes away mid-stream the remaining steps are simply dropped;
// the solve itself has already finished.
func (h *Handler) handleSolveStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	var req solveReq
	if err := conn.ReadJSON(&req); err != nil {
		_ = conn.WriteJSON(streamStep{Type: "result", Error: "invalid request: " + err.Error()})
		return
	}
	g, err := parseBoard(req.Board)
	if err != nil {
		_ = conn.WriteJSON(streamStep{Type: "result", Error: err.Error()})
		return
	}
	opts := ports.SolveOptions{Mode: h.solveMode(req.Mode), MaxSteps: req.MaxSteps}
	out, steps, _, err := h.UC.Solve(r.Context(), &g, opts)
	for i := range steps {
		if err := conn.WriteJSON(streamStep{Type: "step", Step: &steps[i]}); err != nil {
			return
		}
	}
	if err != nil {
		_ = conn.WriteJSON(streamStep{Type: "result", Steps: len(steps), Error: err.Error()})
		return
	}
	_ = conn.WriteJSON(streamStep{
		Type:   "result",
		Board:  out.Compact(),
		Solved: out.Solved(),
		Steps:  len(steps),
	})
}
