package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/peterkuimelis/royale/internal/game"
	royalenet "github.com/peterkuimelis/royale/internal/net"
	"github.com/peterkuimelis/royale/internal/web"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "royale-relay",
	Short: "Room relay and HTTP API for Royale War",
	// main reports the error once; usage is only printed for --help.
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		rules := game.DefaultConfig()
		if path := viper.GetString("rules"); path != "" {
			var err error
			if rules, err = game.LoadConfig(path); err != nil {
				return fmt.Errorf("load rules: %w", err)
			}
		}

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		relay := royalenet.NewRelay(royalenet.NewRegistry())
		go func() {
			if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("relay stopped: %v", err)
			}
		}()

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", viper.GetInt("port")),
			Handler: web.NewServer(relay, rules, viper.GetString("decks"), viper.GetString("art")),
		}

		go func() {
			<-ctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("shutdown: %v", err)
			}
		}()

		log.Printf("royale relay listening on http://localhost:%d (ws path /ws)", viper.GetInt("port"))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		log.Printf("royale relay stopped")
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./royale-relay.yaml)")
	rootCmd.Flags().Int("port", 8080, "HTTP port to listen on")
	rootCmd.Flags().String("decks", "decks.yaml", "path to decks YAML file")
	rootCmd.Flags().String("art", "", "directory served under /assets/ (disabled when empty)")
	rootCmd.Flags().String("rules", "", "path to a YAML rules file")

	for _, name := range []string{"port", "decks", "art", "rules"} {
		if err := viper.BindPFlag(name, rootCmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("royale-relay")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("royale")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.Println("Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
