package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-token-server/auth"
	"github.com/jrsteele09/go-token-server/internal/config"
	"github.com/jrsteele09/go-token-server/internal/logging"
	"github.com/jrsteele09/go-token-server/metrics"
	"github.com/jrsteele09/go-token-server/server"
	"github.com/jrsteele09/go-token-server/token"
	"github.com/jrsteele09/go-token-server/token/redisregistry"
	"github.com/jrsteele09/go-token-server/users"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	c := config.New()
	logging.Setup(c.GetLogLevel(), c.GetEnv())

	if err := run(c); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run(c config.Config) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("panic", fmt.Sprint(r)).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	displayAppname(c.GetAppName())

	registry, closeRegistry, err := newRegistry(c)
	if err != nil {
		return err
	}
	defer closeRegistry()

	m := metrics.New(registry)
	authService, err := auth.NewAuthService(
		users.LoadOrEmpty(c.GetUsersFile()),
		token.New(registry, token.WithIssuer(token.NewRandomIssuer(c.GetTokenBytes()))),
		auth.WithLogoutOwnerCheck(c.GetLogoutVerifyOwner()),
		auth.WithMetrics(m),
	)
	if err != nil {
		return fmt.Errorf("auth.NewAuthService: %w", err)
	}

	handler, err := server.New(c, authService, m)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	srv := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: c.GetReadTimeout(),
		ReadTimeout:       c.GetReadTimeout(),
		WriteTimeout:      c.GetWriteTimeout(),
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- listenAndServe(srv) }()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(srv)
}

// newRegistry builds the configured token registry. The returned func releases
// any connection the registry holds.
func newRegistry(c config.Config) (token.Registry, func(), error) {
	backend, err := c.GetTokenBackend()
	if err != nil {
		return nil, nil, err
	}

	if backend != config.BackendRedis {
		log.Info().Str("backend", config.BackendMemory).Msg("Token registry ready")
		return token.NewInMemoryRegistry(), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: c.GetRedisAddr()})
	registry := redisregistry.New(rdb, c.GetRedisKeyPrefix())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := registry.Ping(ctx); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis registry at %s: %w", c.GetRedisAddr(), err)
	}

	log.Info().Str("backend", config.BackendRedis).Str("addr", c.GetRedisAddr()).Msg("Token registry ready")
	return registry, func() { _ = rdb.Close() }, nil
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
