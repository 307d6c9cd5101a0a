package main

import (
	"embed"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"golang.org/x/exp/maps"

	"github.com/walterschell/minichess/analysis"
	"github.com/walterschell/minichess/minichess"
)

const DefaultPort = 8080

//go:embed assets
var assets embed.FS
var static fs.FS
var templates fs.FS

func init() {
	static, _ = fs.Sub(assets, "assets/static")
	templates, _ = fs.Sub(assets, "assets/templates")
}

func stdoutLogger(next http.Handler) http.Handler {
	return handlers.LoggingHandler(os.Stdout, next)
}

// Config holds the start-up settings of the web front.
type Config struct {
	Port       uint
	Difficulty minichess.Difficulty
	HumanSide  minichess.Side
	TimeBudget time.Duration
}

type Client struct {
	conn      *websocket.Conn
	writeLock sync.Mutex
}

func (c *Client) send(data []byte) error {
	c.writeLock.Lock()
	defer c.writeLock.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

type Application struct {
	router      *mux.Router
	templates   *template.Template
	clients     map[*Client]struct{}
	clientsLock sync.RWMutex
	upgrader    websocket.Upgrader
	config      Config

	// gameLock guards game, round and thinking. It is never held while the
	// computer searches.
	gameLock sync.Mutex
	game     *minichess.Game
	round    uint64
	thinking bool
	searches sync.WaitGroup
}

func NewApplication(config Config) (*Application, error) {
	templateParser := template.New("")
	templateParser.Delims("[[", "]]")
	tmpl, err := templateParser.ParseFS(templates, "*.html.gotmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if config.TimeBudget <= 0 {
		config.TimeBudget = minichess.DefaultTimeBudget
	}
	game, err := newGame(config.Difficulty, config.HumanSide, config.TimeBudget)
	if err != nil {
		return nil, err
	}

	app := &Application{
		router:    mux.NewRouter(),
		templates: tmpl,
		clients:   make(map[*Client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		config: config,
		game:   game,
	}
	app.router.NotFoundHandler = stdoutLogger(http.HandlerFunc(notFoundHandler))
	app.router.Use(stdoutLogger)
	app.router.Use(handlers.RecoveryHandler(handlers.PrintRecoveryStack(true)))

	app.router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	app.router.HandleFunc("/", app.indexHandler).Methods(http.MethodGet)
	app.router.HandleFunc("/ws", app.wsHandler)
	app.router.HandleFunc("/healthz", healthHandler).Methods(http.MethodGet)

	api := app.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", app.stateHandler).Methods(http.MethodGet)
	api.HandleFunc("/moves/{square}", app.movesHandler).Methods(http.MethodGet)
	api.HandleFunc("/new", app.newGameHandler).Methods(http.MethodPost)
	api.HandleFunc("/move", app.moveHandler).Methods(http.MethodPost)
	api.HandleFunc("/analysis", app.analysisHandler).Methods(http.MethodGet)

	// The computer may open the round.
	app.gameLock.Lock()
	app.startReplyLocked()
	app.gameLock.Unlock()
	return app, nil
}

func newGame(d minichess.Difficulty, human minichess.Side, budget time.Duration) (*minichess.Game, error) {
	return minichess.NewGame(
		minichess.WithDifficulty(d),
		minichess.WithHumanSide(human),
		minichess.WithSearchOptions(minichess.WithTimeBudget(budget)),
	)
}

func (app *Application) indexHandler(w http.ResponseWriter, r *http.Request) {
	templateVars := struct {
		Title        string
		Difficulties []minichess.Difficulty
	}{
		Title:        "Minichess",
		Difficulties: minichess.Difficulties,
	}

	err := app.templates.ExecuteTemplate(w, "index.html.gotmpl", templateVars)
	if err != nil {
		slog.Error("error rendering template", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (app *Application) currentState() gameState {
	app.gameLock.Lock()
	defer app.gameLock.Unlock()
	return buildState(app.game, app.thinking)
}

func (app *Application) stateHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, app.currentState())
}

func (app *Application) movesHandler(w http.ResponseWriter, r *http.Request) {
	app.gameLock.Lock()
	defer app.gameLock.Unlock()

	b := app.game.Board()
	sq, err := b.ParseSquare(mux.Vars(r)["square"])
	if err != nil {
		writeError(w, err)
		return
	}
	moves := []string{}
	for _, to := range app.game.LegalMoves(sq) {
		moves = append(moves, b.SquareName(to))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"square": b.SquareName(sq),
		"moves":  moves,
	})
}

type newGameRequest struct {
	Difficulty string `json:"difficulty"`
	Color      string `json:"color"`
}

func (app *Application) newGameHandler(w http.ResponseWriter, r *http.Request) {
	var req newGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	d, err := minichess.ParseDifficulty(req.Difficulty)
	if err != nil {
		writeError(w, err)
		return
	}
	human := app.config.HumanSide
	if req.Color != "" {
		if human, err = minichess.ParseSide(req.Color); err != nil {
			writeError(w, err)
			return
		}
	}
	game, err := newGame(d, human, app.config.TimeBudget)
	if err != nil {
		writeError(w, err)
		return
	}

	app.gameLock.Lock()
	app.game = game
	app.round++
	app.thinking = false
	app.startReplyLocked()
	state := buildState(app.game, app.thinking)
	app.gameLock.Unlock()

	slog.Info("new game", "difficulty", d, "human", human)
	app.broadcastState(state)
	writeJSON(w, http.StatusOK, state)
}

type moveRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (app *Application) moveHandler(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	app.gameLock.Lock()
	b := app.game.Board()
	m, err := b.ParseMove(req.From + req.To)
	if err == nil {
		err = app.game.Play(m)
	}
	if err != nil {
		app.gameLock.Unlock()
		writeError(w, err)
		return
	}
	app.startReplyLocked()
	state := buildState(app.game, app.thinking)
	app.gameLock.Unlock()

	slog.Info("human move", "move", b.MoveString(m))
	app.broadcastState(state)
	writeJSON(w, http.StatusOK, state)
}

// startReplyLocked launches the computer's search when it is to move. The
// caller holds gameLock.
func (app *Application) startReplyLocked() {
	g := app.game
	if app.thinking || g.Turn() != g.AISide() || g.Outcome().Over() {
		return
	}
	app.thinking = true
	round := app.round
	board := g.Board()
	side := g.Turn()
	d := g.Difficulty()
	opts := g.SearchOptions()

	app.searches.Add(1)
	go func() {
		defer app.searches.Done()
		res := minichess.Search(board, side, d, opts...)
		app.commitReply(round, res)
	}()
}

func (app *Application) commitReply(round uint64, res minichess.SearchResult) {
	app.gameLock.Lock()
	if round != app.round {
		app.gameLock.Unlock()
		slog.Debug("discarding reply for a finished round", "round", round)
		return
	}
	app.thinking = false
	if res.Found {
		if err := app.game.ApplyAI(res.Move); err != nil {
			slog.Error("error applying computer move", "error", err)
		}
	}
	b := app.game.Board()
	state := buildState(app.game, app.thinking)
	app.gameLock.Unlock()

	slog.Info("computer move",
		"move", b.MoveString(res.Move),
		"found", res.Found,
		"score", res.Score,
		"depth", res.Depth,
		"nodes", res.Stats.Nodes,
		"timed_out", res.Stats.TimedOut,
	)
	app.broadcastState(state)
}

func (app *Application) analysisHandler(w http.ResponseWriter, r *http.Request) {
	depth := 2
	if v := r.URL.Query().Get("depth"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 4 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "depth must be 1..4"})
			return
		}
		depth = n
	}

	app.gameLock.Lock()
	start := app.game.StartBoard()
	history := app.game.History()
	first := app.game.StartingSide()
	app.gameLock.Unlock()

	if len(history) == 0 {
		writeJSON(w, http.StatusOK, []analysis.MoveAnalysis{})
		return
	}
	results, err := analysis.AnalyzeGame(start, history,
		analysis.WithDepth(depth),
		analysis.WithTimeBudget(app.config.TimeBudget),
		analysis.WithFirstMover(first),
	)
	if err != nil {
		slog.Error("error analyzing game", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (app *Application) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := app.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}
	slog.Info("new websocket connection", "remote", conn.RemoteAddr())
	client := &Client{conn: conn}
	app.clientsLock.Lock()
	app.clients[client] = struct{}{}
	app.clientsLock.Unlock()

	if data, err := json.Marshal(wsMessage{Type: "state", Payload: app.currentState()}); err == nil {
		client.send(data)
	}
	go func() {
		for {
			// Clients only listen; reading detects the close.
			if _, _, err := client.conn.ReadMessage(); err != nil {
				slog.Debug("websocket closed", "remote", conn.RemoteAddr(), "error", err)
				app.clientsLock.Lock()
				delete(app.clients, client)
				app.clientsLock.Unlock()
				client.conn.Close()
				return
			}
		}
	}()
}

func (app *Application) broadcastState(state gameState) {
	data, err := json.Marshal(wsMessage{Type: "state", Payload: state})
	if err != nil {
		slog.Error("error encoding state", "error", err)
		return
	}
	app.broadcast(data)
}

func (app *Application) broadcast(message []byte) {
	app.clientsLock.RLock()
	clients := make(map[*Client]struct{}, len(app.clients))
	maps.Copy(clients, app.clients)
	app.clientsLock.RUnlock()

	for client := range clients {
		if err := client.send(message); err != nil {
			slog.Debug("websocket write failed", "remote", client.conn.RemoteAddr(), "error", err)
		}
	}
}

// wait blocks until background searches have committed.
func (app *Application) wait() {
	app.searches.Wait()
}

func (app *Application) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	app.router.ServeHTTP(w, r)
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "File Not Found", http.StatusNotFound)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("error writing response", "error", err)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, minichess.ErrGameOver), errors.Is(err, minichess.ErrNotYourTurn):
		return http.StatusConflict
	case errors.Is(err, minichess.ErrBadSquare),
		errors.Is(err, minichess.ErrNoPiece),
		errors.Is(err, minichess.ErrIllegalMove),
		errors.Is(err, minichess.ErrUnknownDifficulty),
		errors.Is(err, minichess.ErrBadSide),
		errors.Is(err, minichess.ErrBoardSize):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func main() {
	var (
		port       uint
		difficulty string
		color      string
		budget     time.Duration
		logLevel   string
	)
	defaultPort, err := strconv.ParseUint(getenv("MINICHESS_PORT", strconv.Itoa(DefaultPort)), 10, 32)
	if err != nil {
		fmt.Println("Invalid MINICHESS_PORT")
		os.Exit(1)
	}
	defaultBudget, err := time.ParseDuration(getenv("MINICHESS_BUDGET", minichess.DefaultTimeBudget.String()))
	if err != nil {
		fmt.Println("Invalid MINICHESS_BUDGET")
		os.Exit(1)
	}
	flag.UintVar(&port, "port", uint(defaultPort), "Port to listen on")
	flag.StringVar(&difficulty, "difficulty", getenv("MINICHESS_DIFFICULTY", string(minichess.Hard)), "Default difficulty (EASY, MEDIUM, HARD)")
	flag.StringVar(&color, "color", getenv("MINICHESS_COLOR", "white"), "Side the human plays by default")
	flag.DurationVar(&budget, "budget", defaultBudget, "Time budget per computer move")
	flag.StringVar(&logLevel, "log-level", getenv("MINICHESS_LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		fmt.Printf("Invalid log level %q\n", logLevel)
		os.Exit(1)
	}
	slog.SetLogLoggerLevel(level)

	if port == 0 || port > 65535 {
		fmt.Println("Invalid port number")
		os.Exit(1)
	}
	d, err := minichess.ParseDifficulty(difficulty)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	human, err := minichess.ParseSide(color)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	app, err := NewApplication(Config{
		Port:       port,
		Difficulty: d,
		HumanSide:  human,
		TimeBudget: budget,
	})
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	slog.Info("starting server", "port", port, "difficulty", d, "human", human, "budget", budget)
	if err := http.ListenAndServe(fmt.Sprintf(":%d", port), app); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
