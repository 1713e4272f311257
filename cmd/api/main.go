package main

import (
	"log"
	"net/http"

	"github.com/Wharf-Street-Studios/Epiko-AI-Studio/internal/api"
	"github.com/Wharf-Street-Studios/Epiko-AI-Studio/internal/arsession"
	"github.com/Wharf-Street-Studios/Epiko-AI-Studio/internal/auth"
	"github.com/Wharf-Street-Studios/Epiko-AI-Studio/internal/config"
	"github.com/Wharf-Street-Studios/Epiko-AI-Studio/internal/feed"
	"github.com/Wharf-Street-Studios/Epiko-AI-Studio/internal/generation"
	"github.com/Wharf-Street-Studios/Epiko-AI-Studio/internal/ledger"
	"github.com/Wharf-Street-Studios/Epiko-AI-Studio/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	var repo store.Repository
	if cfg.DBSource != "" {
		pg, err := store.NewPostgresStore(cfg.DBSource)
		if err != nil {
			log.Fatalf("Unable to connect to database: %v", err)
		}
		repo = pg
	} else {
		log.Println("DB_SOURCE not set, using in-memory store")
		repo = store.NewMemoryStore()
	}
	defer repo.Close()

	// Generator strategy is fixed at startup: demo fabricates results
	// locally, production forwards to the hosted AI service.
	var gen generation.Generator
	if cfg.DemoMode {
		gen = generation.NewDemoGenerator(0)
	} else {
		gen = generation.NewBackendGenerator(cfg.AIBaseURL, cfg.AIKey, nil)
	}

	ledgerSvc := ledger.NewService(repo, cfg.SeedBalance)
	feedSvc := feed.NewService(repo)
	genSvc := generation.NewService(gen, repo)
	arManager := arsession.NewManager(arsession.DemoCamera{}, func() arsession.Renderer {
		return arsession.NewHeadlessRenderer()
	})
	tokens := auth.New(cfg.TokenSecret)

	handler := api.NewHandler(ledgerSvc, feedSvc, genSvc, arManager, tokens, repo)

	log.Printf("Server starting on :%s (env=%s demo=%v)", cfg.Port, cfg.Env, cfg.DemoMode)
	if err := http.ListenAndServe(":"+cfg.Port, handler.Router()); err != nil {
		log.Fatal(err)
	}
}
