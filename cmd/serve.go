package cmd

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bwayne222/youtube-video-downloader/config"
	"github.com/bwayne222/youtube-video-downloader/controller"
	"github.com/bwayne222/youtube-video-downloader/log"
	"github.com/bwayne222/youtube-video-downloader/mdb"
	"github.com/bwayne222/youtube-video-downloader/provider"
	"github.com/bwayne222/youtube-video-downloader/router"
	"github.com/bwayne222/youtube-video-downloader/service"
)

var cfgFile string

var serve = &cobra.Command{
	Use:   "serve",
	Short: "resolver server",
	Long:  "runs the stream resolver HTTP server",
	Run: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			stdlog.Fatalf("config error: %v", err)
		}
		_ = log.New(cfg.LogLevel, "", stdlog.LstdFlags|stdlog.Lshortfile)

		if _, err = mdb.InitGorm(cfg); err != nil {
			log.Fatal("db init: %v", err)
		}
		_ = mdb.InitRedis(cfg)

		pcfg, err := config.LoadProviders(cfg.ProvidersFile)
		if err != nil {
			log.Fatal("providers config: %v", err)
		}

		health := service.NewPipedHealth(pcfg.PipedInstances)
		if err := health.Start(pcfg.HealthCheckInterval); err != nil {
			log.Fatal("piped health checker: %v", err)
		}

		chain := provider.NewChain(buildChain(cfg, pcfg, health)...)
		resolver := service.NewResolver(chain, time.Duration(cfg.CacheTTLMin)*time.Minute)
		r := router.API(controller.NewHandler(resolver))

		srv := &http.Server{
			Addr:    cfg.ListenAddr,
			Handler: r,
		}

		go func() {
			log.Info("listening %s", cfg.ListenAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal("listen: %v", err)
			}
		}()

		// Graceful shutdown
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		health.Stop()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
		log.Close()
	},
}

func buildChain(cfg *config.Config, pcfg *config.Providers, health *service.PipedHealth) []provider.Provider {
	out := make([]provider.Provider, 0, len(pcfg.Chain))
	for _, entry := range pcfg.Chain {
		timeout := time.Duration(entry.TimeoutSeconds) * time.Second
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		switch entry.Name {
		case "innertube":
			out = append(out, provider.NewInnertube(timeout))
		case "rapidapi":
			out = append(out, provider.NewRapidAPI(cfg.RapidAPIKey, cfg.RapidAPIHost, timeout))
		case "piped":
			out = append(out, provider.NewPiped(health.Instances, timeout))
		default:
			log.Warn("unknown provider %q in chain, skipping", entry.Name)
		}
	}
	return out
}

func init() {
	serve.Flags().StringVarP(&cfgFile, "config", "c", "config.json", "config file")
	rootCmd.AddCommand(serve)
}
