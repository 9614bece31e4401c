// Command devserver serves the studio REST API from memory for local work.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zpcs/internal/devserver"
	"zpcs/internal/infra"
)

func main() {
	infra.LoadEnvFiles()

	delay := flag.Duration("delay", 0, "artificial latency added to generate and edit")
	flag.Parse()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg).With().Str("cmd", "devserver").Logger()

	srv := devserver.New(devserver.WithLogger(&logger), devserver.WithDelay(*delay))
	router := srv.Router(devserver.RouterConfig{
		AllowedOrigins:     cfg.CORSAllowedOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMin,
	})
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("addr", server.Addr()).Dur("delay", *delay).Msg("devserver listening")
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Int("images", srv.Len()).Msg("devserver stopped")
}
