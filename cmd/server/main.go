package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/xtding233/gacha-arena/internal/arena"
	"github.com/xtding233/gacha-arena/internal/config"
	"github.com/xtding233/gacha-arena/internal/gacha"
	"github.com/xtding233/gacha-arena/internal/game"
	"github.com/xtding233/gacha-arena/internal/httpapi"
	"github.com/xtding233/gacha-arena/internal/rpc"
	"github.com/xtding233/gacha-arena/internal/storage"
	"github.com/xtding233/gacha-arena/internal/storage/memory"
	"github.com/xtding233/gacha-arena/internal/storage/sqlite"
	"golang.org/x/sync/errgroup"
)

func openStore(path string) (storage.Store, error) {
	if path == "" {
		log.Println("ARENA_DB_PATH not set; state is kept in memory")
		return memory.New(), nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	return sqlite.Open(path)
}

func newRNG(seed uint64) gacha.RandomSource {
	if seed == 0 {
		return gacha.DefaultRNG()
	}
	log.Printf("using seeded rng (seed=%d)", seed)
	return gacha.NewSeededRNG(seed)
}

func serveHTTP(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.Printf("http listening on %s ...", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve http: %w", err)
	}
	return nil
}

func run(ctx context.Context, cfg config.Config) error {
	loader := game.NewLoader(cfg.ConfigDir)
	rules, cat, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load game config: %w", err)
	}
	log.Printf("rules version %q, %d profiles", rules.Version, cat.Len())

	store, err := openStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	svc := arena.New(store, rules, cat, newRNG(cfg.Seed))

	grpcSrv, err := rpc.Listen(cfg.GRPCAddr, svc)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return serveHTTP(ctx, cfg.HTTPAddr, httpapi.New(svc)) })
	g.Go(func() error { return grpcSrv.Serve(ctx) })

	if watched := loader.Paths().Watched(); len(watched) > 0 {
		w := game.NewFileWatcher(watched, cfg.ReloadInterval, func(changed []string) {
			log.Printf("config changed: %v", changed)
			loader.Invalidate()
			rules, cat, err := loader.Load()
			if err != nil {
				log.Printf("reload failed, keeping previous config: %v", err)
				return
			}
			svc.Reconfigure(rules, cat)
			log.Printf("reloaded rules version %q, %d profiles", rules.Version, cat.Len())
		})
		g.Go(func() error { return w.Run(ctx) })
	}

	return g.Wait()
}

func main() {
	log.SetPrefix("[ARENA] ")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal(err)
	}
}
