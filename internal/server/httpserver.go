package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"battleship/internal/app"
	"battleship/internal/codec"
	"battleship/internal/config"
	"battleship/internal/targeting"
	"battleship/internal/zk"
)

var ErrGameNotFound = errors.New("game not found")

// session serializes access to one game; the game model itself is single
// threaded.
type session struct {
	mu   sync.Mutex
	game *app.Game
}

type Server struct {
	cfg *config.Config
	log zerolog.Logger

	mu       sync.RWMutex
	sessions map[string]*session
	seeds    *rand.Rand // guarded by mu
}

func New(cfg *config.Config, log zerolog.Logger) *Server {
	seed := time.Now().UnixNano()
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	return &Server{
		cfg:      cfg,
		log:      log,
		sessions: make(map[string]*session),
		seeds:    rand.New(rand.NewSource(seed)),
	}
}

func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/games", s.handleNewGame)
	mux.HandleFunc("GET /v1/games/{id}", s.handleStatus)
	mux.HandleFunc("POST /v1/games/{id}/shots", s.handleShoot)
	mux.HandleFunc("POST /v1/games/{id}/ai", s.handleAIShot)
	mux.HandleFunc("POST /v1/games/{id}/reset", s.handleReset)
	mux.HandleFunc("GET /v1/games/{id}/proof", s.handleProof)
}

// Handler returns the routes wrapped in CORS and request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.Routes(mux)
	return WithCORS(s.withLogging(mux))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func (s *Server) lookup(id string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return sess, nil
}

// withSession resolves {id}, locks the session and runs fn.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(id string, g *app.Game)) {
	id := r.PathValue("id")
	sess, err := s.lookup(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	fn(id, sess.game)
}

// === Games ===

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req codec.NewGameRequest
	// empty body is fine
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}

	s.mu.Lock()
	seed := s.seeds.Int63()
	s.mu.Unlock()
	if req.Seed != nil {
		seed = *req.Seed
	}

	g, err := app.NewGame(s.cfg.Board.Size, s.cfg.Board.Fleet, rand.New(rand.NewSource(seed)))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if s.cfg.Server.KeysDir != "" {
		if err := g.Commit(); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &session{game: g}
	s.mu.Unlock()

	s.log.Info().Str("game", id).Int64("seed", seed).Int("size", g.Board.Size()).Msg("game created")
	writeJSON(w, http.StatusCreated, g.Status(id))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(id string, g *app.Game) {
		writeJSON(w, http.StatusOK, g.Status(id))
	})
}

func (s *Server) handleShoot(w http.ResponseWriter, r *http.Request) {
	var req codec.ShotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}
	s.withSession(w, r, func(id string, g *app.Game) {
		res, err := g.Shoot(req.X, req.Y)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		s.logShot(id, "player", res)
		writeJSON(w, http.StatusOK, res)
	})
}

func (s *Server) handleAIShot(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(id string, g *app.Game) {
		res, err := g.AIShot()
		if errors.Is(err, targeting.ErrNoMoves) {
			writeError(w, http.StatusConflict, err)
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		s.logShot(id, "ai", res)
		writeJSON(w, http.StatusOK, res)
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(id string, g *app.Game) {
		if err := g.Reset(); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		s.log.Info().Str("game", id).Msg("game reset")
		writeJSON(w, http.StatusOK, g.Status(id))
	})
}

// === Proofs ===

func (s *Server) handleProof(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Server.KeysDir == "" {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "proofs disabled: no keys_dir configured"})
		return
	}
	x, errX := strconv.Atoi(r.URL.Query().Get("x"))
	y, errY := strconv.Atoi(r.URL.Query().Get("y"))
	if errX != nil || errY != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "x and y query parameters required"})
		return
	}
	s.withSession(w, r, func(id string, g *app.Game) {
		if g.Commitment == nil {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "no commitment for this game"})
			return
		}
		start := time.Now()
		payload, err := app.Prove(g.Commitment, s.cfg.Server.KeysDir, x, y)
		if errors.Is(err, app.ErrOutOfRange) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		s.log.Debug().Str("game", id).Int("x", x).Int("y", y).Dur("took", time.Since(start)).Msg("shot proved")
		writeJSON(w, http.StatusOK, map[string]any{
			"payload": payload,
			"rootHex": g.Commitment.RootHex(),
			"vkB64":   s.loadVKB64(),
		})
	})
}

// loadVKB64 ships the verifying key with each proof (best effort).
func (s *Server) loadVKB64() string {
	data, err := os.ReadFile(filepath.Join(s.cfg.Server.KeysDir, zk.VKFile))
	if err != nil || len(data) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(data)
}

func (s *Server) logShot(id, shooter string, res codec.ShotResult) {
	evt := s.log.Info().
		Str("game", id).
		Str("shooter", shooter).
		Int("x", res.X).
		Int("y", res.Y).
		Bool("hit", res.Hit).
		Int("shots", res.Shots)
	if res.Sunk != "" {
		evt = evt.Str("sunk", res.Sunk)
	}
	evt.Bool("gameOver", res.GameOver).Msg("shot")
}

// === Middleware ===

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.code).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

func WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// In dev we allow any origin. For production, set this to the specific origin(s).
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
