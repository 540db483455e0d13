package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"payoff-engine/config"
	httpLayer "payoff-engine/http"
	"payoff-engine/repository"
	"payoff-engine/service"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	var cache repository.CacheRepository
	if cfg.Redis.Addr != "" {
		redisCache := repository.NewRedisCache(cfg.Redis.Addr)
		defer redisCache.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisCache.Ping(pingCtx); err != nil {
			log.Printf("Warning: redis at %s unreachable, advice will not be cached there: %v", cfg.Redis.Addr, err)
		}
		cancel()
		cache = redisCache
	} else {
		cache = repository.NewMemoryCache()
	}

	if !cfg.AdviceEnabled() {
		log.Println("OPENAI_API_KEY not set, advice will use the fallback text")
	}
	advisor := service.NewOpenAIAdvisor(service.OpenAIAdvisorOptions{
		APIKey:    cfg.Advice.APIKey,
		APIURL:    cfg.Advice.APIURL,
		Model:     cfg.Advice.Model,
		MaxTokens: cfg.Advice.MaxTokens,
		Timeout:   cfg.Advice.Timeout,
	})
	adviceService := service.NewAdviceService(advisor, cache, cfg.Advice.CacheTTL, cfg.Advice.Timeout)
	debouncer := service.NewAdviceDebouncer(adviceService, cfg.Advice.Debounce, cfg.Advice.SessionTTL)
	defer debouncer.Stop()

	loanService := service.NewLoanService()
	phasedService := service.NewPhasedLoanService()
	termRecommendationService := service.NewTermRecommendationService(loanService)
	sensitivityService := service.NewSensitivityService(loanService)
	affordabilityService := service.NewAffordabilityService()
	debtExitService := service.NewDebtExitService(debouncer)

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.Window)
	defer rateLimiter.Stop()

	router := httpLayer.NewRouter(httpLayer.Handlers{
		Loans: httpLayer.NewLoanHandler(loanService, phasedService, termRecommendationService),
		Payoff: httpLayer.NewPayoffHandler(debtExitService, sensitivityService, httpLayer.SimulationDefaults{
			MaxMonths:   cfg.Simulation.MaxMonths,
			SampleEvery: cfg.Simulation.SampleEvery,
		}),
		Affordability: httpLayer.NewAffordabilityHandler(affordabilityService),
		Advice:        httpLayer.NewAdviceHandler(debouncer),
	}, httpLayer.RouterOptions{
		CORSOrigins: cfg.Server.CORSOrigins,
		RateLimiter: rateLimiter,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("API listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Printf("Error starting server: %v", err)
		return
	case <-quit:
		log.Println("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	log.Println("Server exited")
}
