package main

import (
	"context"
	"errors"
	"log"
	"time"

	httpadapter "farmstead/internal/adapter/http"
	metricsinmem "farmstead/internal/adapter/metrics/inmemory"
	gormrepo "farmstead/internal/adapter/repo/gorm"
	memoryrepo "farmstead/internal/adapter/repo/memory"
	"farmstead/internal/app/action"
	"farmstead/internal/app/observe"
	"farmstead/internal/app/ports"
	"farmstead/internal/app/replay"
	"farmstead/internal/app/status"
	"farmstead/internal/domain/farm"

	"github.com/caarlos0/env/v11"
	"github.com/cloudwego/hertz/pkg/app/server"
)

type config struct {
	Addr          string `env:"FARMSTEAD_ADDR" envDefault:":8080"`
	DBDSN         string `env:"FARMSTEAD_DB_DSN"`
	CatalogPath   string `env:"FARMSTEAD_CATALOG"`
	MigrationsDir string `env:"FARMSTEAD_MIGRATIONS_DIR" envDefault:"./migrations"`
}

type repoSet struct {
	Players     ports.PlayerRepository
	Objects     ports.ObjectRepository
	Checkpoints ports.CheckpointRepository
	NeighborLog ports.NeighborLogRepository
	Friends     ports.FriendRepository
	Executions  ports.ExecutionRepository
	Events      ports.EventRepository
	TxManager   ports.TxManager
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("parse config: %v", err)
	}

	catalog := mustLoadCatalog(cfg)
	repos := mustBuildRepos(cfg)

	registry := action.NewRegistry()
	for _, h := range action.GuardHooks() {
		if err := registry.RegisterHook(h); err != nil {
			log.Fatalf("register hook: %v", err)
		}
	}
	for _, anomaly := range registry.Finalize() {
		log.Printf("hook registry: %s", anomaly)
	}

	kpiRecorder := metricsinmem.NewRecorder()

	h := httpadapter.Handler{
		ActionUC: action.UseCase{
			TxManager:   repos.TxManager,
			Objects:     repos.Objects,
			Checkpoints: repos.Checkpoints,
			Players:     repos.Players,
			NeighborLog: repos.NeighborLog,
			Friends:     repos.Friends,
			Executions:  repos.Executions,
			Events:      repos.Events,
			Registry:    registry,
			Catalog:     catalog,
			Metrics:     kpiRecorder,
			Now:         time.Now,
		},
		ObserveUC: observe.UseCase{
			Objects:     repos.Objects,
			Checkpoints: repos.Checkpoints,
			Friends:     repos.Friends,
			Catalog:     catalog,
			Now:         time.Now,
		},
		StatusUC: status.UseCase{Players: repos.Players},
		ReplayUC: replay.UseCase{Events: repos.Events},
		KPI:      kpiRecorder,
	}

	s := server.Default(server.WithHostPorts(cfg.Addr))
	h.RegisterRoutes(s)

	log.Printf("farmstead server listening on %s (demo player: demo-player)", cfg.Addr)
	s.Spin()
}

func mustLoadCatalog(cfg config) *farm.Catalog {
	if cfg.CatalogPath == "" {
		return farm.DefaultCatalog()
	}
	catalog, err := farm.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("load catalog %s: %v", cfg.CatalogPath, err)
	}
	return catalog
}

func mustBuildRepos(cfg config) repoSet {
	if cfg.DBDSN == "" {
		log.Println("FARMSTEAD_DB_DSN not set, using in-memory storage")
		return buildMemoryRepos()
	}

	db, err := gormrepo.OpenPostgres(cfg.DBDSN)
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}
	if err := gormrepo.ApplyMigrations(context.Background(), db, cfg.MigrationsDir); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	players := gormrepo.NewPlayerRepo(db)
	seedDemoPlayer(players)

	return repoSet{
		Players:     players,
		Objects:     gormrepo.NewObjectRepo(db),
		Checkpoints: gormrepo.NewCheckpointRepo(db),
		NeighborLog: gormrepo.NewNeighborLogRepo(db),
		Friends:     gormrepo.NewFriendRepo(db),
		Executions:  gormrepo.NewActionExecutionRepo(db),
		Events:      gormrepo.NewEventRepo(db),
		TxManager:   gormrepo.NewTxManager(db),
	}
}

func buildMemoryRepos() repoSet {
	store := memoryrepo.NewStore()
	store.SeedPlayer(demoPlayer("demo-player"))
	store.SeedPlayer(demoPlayer("demo-neighbor"))
	store.SeedFriendship("demo-player", "demo-neighbor")

	return repoSet{
		Players:     memoryrepo.NewPlayerRepo(store),
		Objects:     memoryrepo.NewObjectRepo(store),
		Checkpoints: memoryrepo.NewCheckpointRepo(store),
		NeighborLog: memoryrepo.NewNeighborLogRepo(store),
		Friends:     memoryrepo.NewFriendRepo(store),
		Executions:  memoryrepo.NewActionExecutionRepo(store),
		Events:      memoryrepo.NewEventRepo(store),
		TxManager:   memoryrepo.NewTxManager(store),
	}
}

func seedDemoPlayer(players ports.PlayerRepository) {
	_, err := players.GetByID(context.Background(), "demo-player")
	if err == nil {
		return
	}
	if !errors.Is(err, ports.ErrNotFound) {
		log.Fatalf("load demo player: %v", err)
	}
	if saveErr := players.SaveWithVersion(context.Background(), demoPlayer("demo-player"), 0); saveErr != nil {
		log.Fatalf("seed demo player: %v", saveErr)
	}
}

func demoPlayer(id string) farm.Player {
	return farm.Player{
		ID:        id,
		Coins:     500,
		Level:     1,
		Inventory: map[string]int{"wheat_seed": 5},
		Version:   1,
	}
}
