package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"svw.info/suko/internal/domain"
	"svw.info/suko/internal/ports"
	"svw.info/suko/internal/usecase"
)

// Handler exposes the use cases as a JSON API. Boards travel as 81-char
// compact strings on the wire; blanks are '.' or '0'.
type Handler struct {
	UC *usecase.Service
	// DefaultMode is used when a solve request does not name a mode.
	DefaultMode domain.SolveMode
}

func New(uc *usecase.Service) *Handler {
	return &Handler{UC: uc, DefaultMode: domain.Hybrid}
}

func (h *Handler) solveMode(s string) domain.SolveMode {
	if s == "" {
		return h.DefaultMode
	}
	return domain.ParseSolveMode(s)
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/generate", h.handleGenerate)
	mux.HandleFunc("/api/solve", h.handleSolve)
	mux.HandleFunc("/api/solve/stream", h.handleSolveStream)
	mux.HandleFunc("/api/validate", h.handleValidate)
	mux.HandleFunc("/api/hint", h.handleHint)
	mux.HandleFunc("/api/save", h.handleSave)
	mux.HandleFunc("/api/load", h.handleLoad)
	mux.HandleFunc("/api/list", h.handleList)
	mux.HandleFunc("/api/highscores", h.handleHighscores)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrMalformedInput), errors.Is(err, domain.ErrInvalidPlacement):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrContradiction):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// parseBoard accepts the lenient format so clients may send boards with
// newlines or spaces.
func parseBoard(s string) (domain.Grid, error) { return domain.Normalize(s) }

// ---- Generate ----

type generateReq struct {
	Difficulty string `json:"difficulty,omitempty"`
	Clues      int    `json:"clues,omitempty"`
	Seed       int64  `json:"seed,omitempty"`
}

type generateResp struct {
	Puzzle     *domain.Puzzle `json:"puzzle,omitempty"`
	Seed       int64          `json:"seed,omitempty"`
	DurationMs int64          `json:"durationMs,omitempty"`
	Nodes      int            `json:"nodes,omitempty"`
	Error      string         `json:"error,omitempty"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, generateResp{Error: "method not allowed"})
		return
	}
	var req generateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err.Error() != "EOF" {
		writeJSON(w, http.StatusBadRequest, generateResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	var (
		p   *domain.Puzzle
		st  ports.Stats
		err error
	)
	if req.Clues > 0 {
		p, st, err = h.UC.GenerateWithClues(r.Context(), seed, req.Clues)
	} else {
		p, st, err = h.UC.Generate(r.Context(), seed, domain.ParseDifficulty(req.Difficulty))
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, generateResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, generateResp{
		Puzzle:     p,
		Seed:       seed,
		DurationMs: st.Duration.Milliseconds(),
		Nodes:      st.Nodes,
	})
}

// ---- Solve ----

type solveReq struct {
	Board    string `json:"board"`
	Mode     string `json:"mode,omitempty"`
	MaxSteps int    `json:"maxSteps,omitempty"`
}

type solveResp struct {
	Board      string `json:"board,omitempty"`
	Solved     bool   `json:"solved"`
	Steps      int    `json:"steps,omitempty"`
	DurationMs int64  `json:"durationMs,omitempty"`
	Nodes      int    `json:"nodes,omitempty"`
	Error      string `json:"error,omitempty"`
}

func (h *Handler) handleSolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, solveResp{Error: "method not allowed"})
		return
	}
	var req solveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, solveResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	g, err := parseBoard(req.Board)
	if err != nil {
		writeJSON(w, statusFor(err), solveResp{Error: err.Error()})
		return
	}
	opts := ports.SolveOptions{Mode: h.solveMode(req.Mode), MaxSteps: req.MaxSteps}
	out, steps, st, err := h.UC.Solve(r.Context(), &g, opts)
	if err != nil {
		writeJSON(w, statusFor(err), solveResp{Error: err.Error(), Steps: len(steps), DurationMs: st.Duration.Milliseconds(), Nodes: st.Nodes})
		return
	}
	writeJSON(w, http.StatusOK, solveResp{
		Board:      out.Compact(),
		Solved:     out.Solved(),
		Steps:      len(steps),
		DurationMs: st.Duration.Milliseconds(),
		Nodes:      st.Nodes,
	})
}

// ---- Validate ----

type validateReq struct {
	Board string `json:"board"`
}
type validateResp struct {
	OK        bool         `json:"ok"`
	Conflicts []domain.Pos `json:"conflicts,omitempty"`
	Error     string       `json:"error,omitempty"`
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, validateResp{Error: "method not allowed"})
		return
	}
	var req validateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, validateResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	// Validation has to accept boards that Parse would reject (duplicate
	// digits are exactly what it reports), so bypass propagation here.
	g, err := domain.NormalizeUnchecked(req.Board)
	if err != nil {
		writeJSON(w, statusFor(err), validateResp{Error: err.Error()})
		return
	}
	ok, conflicts, err := h.UC.Validate(r.Context(), &g)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, validateResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, validateResp{OK: ok, Conflicts: conflicts})
}

// ---- Hint ----

type hintReq struct {
	Board   string `json:"board"`
	MaxTier string `json:"maxTier,omitempty"`
}
type hintResp struct {
	Found bool        `json:"found"`
	Hint  domain.Hint `json:"hint,omitempty"`
	Error string      `json:"error,omitempty"`
}

func parseTier(s string) domain.StrategyTier {
	switch s {
	case "pairs":
		return domain.StrategyPairs
	case "advanced":
		return domain.StrategyAdvanced
	case "xwing":
		return domain.StrategyXWing
	default:
		return domain.StrategySingles
	}
}

func (h *Handler) handleHint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, hintResp{Error: "method not allowed"})
		return
	}
	var req hintReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, hintResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	g, err := parseBoard(req.Board)
	if err != nil {
		writeJSON(w, statusFor(err), hintResp{Error: err.Error()})
		return
	}
	hh, ok, err := h.UC.Hint(r.Context(), &g, parseTier(req.MaxTier))
	if err != nil {
		writeJSON(w, statusFor(err), hintResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, hintResp{Found: ok, Hint: hh})
}

// ---- Save / Load / List ----

type saveResp struct {
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, saveResp{Error: "method not allowed"})
		return
	}
	var p domain.Puzzle
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, saveResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().UnixNano()
	}
	if err := h.UC.Save(r.Context(), &p); err != nil {
		writeJSON(w, http.StatusInternalServerError, saveResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, saveResp{ID: p.ID})
}

type loadReq struct {
	ID string `json:"id"`
}
type loadResp struct {
	Puzzle *domain.Puzzle `json:"puzzle,omitempty"`
	Error  string         `json:"error,omitempty"`
}

func (h *Handler) handleLoad(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, loadResp{Error: "method not allowed"})
		return
	}
	var req loadReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeJSON(w, http.StatusBadRequest, loadResp{Error: "invalid JSON or missing id"})
		return
	}
	p, err := h.UC.Load(r.Context(), req.ID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, loadResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, loadResp{Puzzle: p})
}

type listResp struct {
	Puzzles []domain.PuzzleMeta `json:"puzzles"`
	Error   string              `json:"error,omitempty"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, listResp{Error: "method not allowed"})
		return
	}
	ps, err := h.UC.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, listResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, listResp{Puzzles: ps})
}

// ---- Highscores ----

type highscoresResp struct {
	Entries []domain.HighscoreEntry `json:"entries"`
	Error   string                  `json:"error,omitempty"`
}

func (h *Handler) handleHighscores(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		entries, err := h.UC.ListHighscores(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, highscoresResp{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, highscoresResp{Entries: entries})
	case http.MethodPost:
		var e domain.HighscoreEntry
		if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
			writeJSON(w, http.StatusBadRequest, highscoresResp{Error: "invalid JSON: " + err.Error()})
			return
		}
		if e.DateUTC == "" {
			e.DateUTC = time.Now().UTC().Format(time.RFC3339)
		}
		if err := h.UC.AddHighscore(r.Context(), e); err != nil {
			writeJSON(w, http.StatusInternalServerError, highscoresResp{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, highscoresResp{})
	default:
		writeJSON(w, http.StatusMethodNotAllowed, highscoresResp{Error: "method not allowed"})
	}
}
