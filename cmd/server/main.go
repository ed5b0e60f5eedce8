// Command server runs the authoritative pong server: a WebSocket
// simulation endpoint plus a plain HTTP port for the browser assets.
package main

import (
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tompom/gameserver/internal/config"
	"github.com/tompom/gameserver/internal/game"
	"github.com/tompom/gameserver/internal/opponent"
	"github.com/tompom/gameserver/internal/server"
	"github.com/tompom/gameserver/internal/session"
	"github.com/tompom/gameserver/internal/transport"
)

func main() {
	wsAddr := flag.String("ws", ":8765", "websocket listen address")
	httpAddr := flag.String("http", ":8000", "static asset listen address")
	webRoot := flag.String("web", "./web", "static asset directory (embedded page when missing)")
	flag.Parse()

	log.Println("🏓 Pong server starting...")

	env := config.FromEnv()
	cfg := game.DefaultConfig()

	profiles, err := config.LoadProfiles(env.ProfilesPath)
	if err != nil {
		log.Printf("⚠️  Profile overrides ignored: %v", err)
		profiles = opponent.Profiles()
	}
	profile, known := opponent.ProfileFor(env.Difficulty, profiles)
	if !known {
		log.Printf("⚠️  Unknown difficulty %q, using %s", env.Difficulty, opponent.DefaultDifficulty)
	}

	t := transport.NewWSTransport()
	sessions := session.NewManager()
	engine := game.NewEngine(cfg, sessions, t)

	var controller *opponent.Controller
	if env.Mode != opponent.ModeOff {
		var strategy opponent.Strategy = opponent.NewPredictor(cfg)
		if env.Strategy == "oracle" {
			oracle := opponent.NewOracle(env.Endpoint, env.Model, env.Timeout, cfg)
			strategy = opponent.NewOracleStrategy(oracle, cfg)
			log.Printf("🔮 Oracle strategy: %s (%s, timeout %v)", env.Endpoint, env.Model, env.Timeout)
		}
		controller = opponent.NewController(engine, strategy, profile)
		log.Printf("🤖 Opponent mode %s, difficulty %s", env.Mode, env.Difficulty)
	}

	srv := server.New(t, sessions, engine, controller, env.Mode, profile)

	// Only a failure to bind either listener is fatal.
	if err := serveAssets(*httpAddr, *webRoot); err != nil {
		log.Fatalf("Failed to bind asset server: %v", err)
	}
	if err := srv.Start(*wsAddr); err != nil {
		log.Fatalf("Failed to listen: %v", err)
	}
	log.Printf("🎧 Game on ws://localhost%s/ws, assets on http://localhost%s", *wsAddr, *httpAddr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("🛑 Shutting down...")
	srv.Stop()
	log.Println("👋 Bye!")
}

// serveAssets serves the client bundle from webRoot when the directory
// exists, otherwise the embedded single-file page.
func serveAssets(addr, webRoot string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	if info, err := os.Stat(webRoot); err == nil && info.IsDir() {
		mux.Handle("/", http.FileServer(http.Dir(webRoot)))
		log.Printf("🌐 Serving assets from %s", webRoot)
	} else {
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(indexHTML))
		})
	}

	go func() {
		if err := http.Serve(ln, mux); err != nil {
			log.Printf("Asset server: %v", err)
		}
	}()
	return nil
}
