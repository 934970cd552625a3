package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/jordaneaster/sb-generator/internal/api"
	"github.com/jordaneaster/sb-generator/internal/batch"
	"github.com/jordaneaster/sb-generator/internal/components"
	"github.com/jordaneaster/sb-generator/internal/config"
	"github.com/jordaneaster/sb-generator/internal/generator"
	"github.com/jordaneaster/sb-generator/internal/ledger"
	"github.com/jordaneaster/sb-generator/internal/logging"
	"github.com/jordaneaster/sb-generator/internal/storage"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	configPath := os.Getenv("SBGEN_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logging.Init(cfg.Logging.Level, cfg.Logging.Format)

	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Printf("Failed to create directories: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Component library
	var repo components.Repository
	switch cfg.Library.Mode {
	case config.StorageModeBucket:
		bk := cfg.Library.Bucket
		client, err := storage.NewBucketClient(bk.Endpoint, bk.AccessKey, bk.SecretKey, bk.UseSSL)
		if err != nil {
			fmt.Printf("Failed to create library bucket client: %v\n", err)
			os.Exit(1)
		}
		if err := storage.EnsureBucket(ctx, client, bk.Bucket); err != nil {
			fmt.Printf("Failed to provision library bucket: %v\n", err)
			os.Exit(1)
		}
		repo = components.NewBucketRepository(client, bk.Bucket, bk.Prefix)
	default:
		// A fresh install gets the bundled starter art so generation works
		// before any real component art is installed.
		if n, err := components.SeedStarterArt(cfg.Library.RootDir); err != nil {
			logging.Log.WithError(err).Warn("Starter art seeding failed")
		} else if n > 0 {
			logging.Log.WithField("components", n).Info("Seeded starter art into empty component library")
		}
		dirRepo, err := components.NewDirRepository(cfg.Library.RootDir)
		if err != nil {
			fmt.Printf("Failed to open component library: %v\n", err)
			os.Exit(1)
		}
		repo = dirRepo
	}

	// Artifacts are always staged locally; bucket mode uploads them on top.
	artifacts, err := storage.NewLocalStore(cfg.Storage.OutputDir, "/artifacts")
	if err != nil {
		fmt.Printf("Failed to initialize artifact storage: %v\n", err)
		os.Exit(1)
	}

	var remote storage.Store
	if cfg.Storage.Mode == config.StorageModeBucket {
		bk := cfg.Storage.Bucket
		client, err := storage.NewBucketClient(bk.Endpoint, bk.AccessKey, bk.SecretKey, bk.UseSSL)
		if err != nil {
			fmt.Printf("Failed to create artifact bucket client: %v\n", err)
			os.Exit(1)
		}
		if err := storage.EnsureBucket(ctx, client, bk.Bucket); err != nil {
			fmt.Printf("Failed to provision artifact bucket: %v\n", err)
			os.Exit(1)
		}
		remote = storage.NewBucketStore(client, bk.Bucket, bk.Prefix, bk.PublicBaseURL)
	}

	// Generation ledger
	var (
		rec       generator.Recorder
		apiLedger api.Ledger
	)
	if cfg.Ledger.Path != "" {
		ldg, err := ledger.Open(cfg.Ledger.Path)
		if err != nil {
			fmt.Printf("Failed to open generation ledger: %v\n", err)
			os.Exit(1)
		}
		defer ldg.Close()
		rec = ldg
		apiLedger = ldg

		// Flush queued records periodically
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for range ticker.C {
				if err := ldg.Flush(context.Background()); err != nil {
					logging.Log.WithError(err).Warn("ledger flush failed")
				}
			}
		}()
	}

	assembler := generator.NewAssembler(repo, artifacts, remote, rec, cfg.Scheme(), cfg.Generator, nil)
	batchMgr := batch.NewManager(assembler)

	// Drop finished batch jobs after an hour
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			batchMgr.CleanupOldJobs(time.Hour)
		}
	}()

	handlers := api.NewHandlers(&api.Dependencies{
		Generator: assembler,
		BatchMgr:  batchMgr,
		Ledger:    apiLedger,
		Repo:      repo,
		Artifacts: artifacts,
		Config:    cfg,
		Version:   Version,
	})

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = api.ErrorHandler

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path == "/health" || strings.HasSuffix(path, "/progress")
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
	}))

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().Header.Get("Accept") == "text/event-stream"
		},
	}))

	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	if cfg.Server.EnableCORS {
		origins := strings.Split(cfg.Server.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	api.RegisterRoutes(e, handlers)

	// Locally staged artifacts are always servable
	e.Static("/artifacts", cfg.Storage.OutputDir)

	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	fmt.Printf("\n")
	fmt.Printf("╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║           Space Buddies Generator Server                  ║\n")
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Version:    %-45s║\n", Version)
	fmt.Printf("║  Build Time: %-45s║\n", BuildTime)
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Config:     %-45s║\n", configPath)
	fmt.Printf("║  Listen:     http://%-38s║\n", cfg.GetServerAddr())
	fmt.Printf("║  Library:    %-45s║\n", libraryLabel(cfg))
	fmt.Printf("║  Output:     %-45s║\n", cfg.Storage.OutputDir)
	fmt.Printf("╚═══════════════════════════════════════════════════════════╝\n")
	fmt.Printf("\n")

	e.Logger.Fatal(e.StartServer(s))
}

func libraryLabel(cfg *config.AppConfig) string {
	if cfg.Library.Mode == config.StorageModeBucket {
		return fmt.Sprintf("bucket %s/%s", cfg.Library.Bucket.Endpoint, cfg.Library.Bucket.Bucket)
	}
	return cfg.Library.RootDir
}
