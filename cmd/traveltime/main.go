package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/traveltime/internal/profile"
	"github.com/hrygo/traveltime/plugin/travel/apptime"
	"github.com/hrygo/traveltime/server"
	"github.com/hrygo/traveltime/server/internal/observability"
)

var (
	rootCmd = &cobra.Command{
		Use:   "traveltime",
		Short: "Travel time and departure planning service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the travel time HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}

	resolveCmd = &cobra.Command{
		Use:   "resolve <text>",
		Short: "Resolve a scheduling phrase to an ISO timestamp",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			t, ok := apptime.NewService(time.Local).Resolve(cmd.Context(), text, time.Now())
			if !ok {
				return errors.Errorf("no appointment time found in %q", text)
			}
			fmt.Fprintln(cmd.OutOrStdout(), apptime.FormatISO(t))
			return nil
		},
	}
)

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("addr", profile.DefaultAddr)
	viper.SetDefault("port", profile.DefaultPort)
	viper.SetDefault("log-level", "info")
	viper.SetDefault("log-json", false)

	// Serve flags live on the root so a bare "traveltime" serves too.
	flags := rootCmd.PersistentFlags()
	flags.String("mode", "dev", `mode of server, can be "prod" or "dev"`)
	flags.String("addr", profile.DefaultAddr, "address of server")
	flags.Int("port", profile.DefaultPort, "port of server")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.Bool("log-json", false, "write logs as JSON")
	flags.Int("rate-limit", 0, "requests per minute allowed per client")
	flags.Int("cache-size", 0, "maximum number of cached route estimates")
	flags.Duration("cache-ttl", 0, "lifetime of a cached route estimate")
	flags.Duration("request-timeout", 0, "deadline for a single evaluation")
	flags.Bool("mock", false, "serve mock travel estimates instead of calling the maps provider")

	for _, name := range []string{"mode", "addr", "port", "log-level", "log-json", "rate-limit", "cache-size", "cache-ttl", "request-timeout", "mock"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("traveltime")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	// Keys whose flag names differ from the profile's environment variables.
	for key, envs := range map[string][]string{
		"rate-limit": {"TRAVELTIME_RATE_LIMIT_MAX", "RATE_LIMIT_MAX"},
		"mock":       {"TRAVELTIME_MOCK_MODE", "MOCK_MODE"},
	} {
		if err := viper.BindEnv(append([]string{key}, envs...)...); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(serveCmd, resolveCmd)
}

func loadProfile() (*profile.Profile, error) {
	instanceProfile := &profile.Profile{
		Mode:               viper.GetString("mode"),
		Addr:               viper.GetString("addr"),
		Port:               viper.GetInt("port"),
		LogLevel:           viper.GetString("log-level"),
		RateLimitPerMinute: viper.GetInt("rate-limit"),
		CacheSize:          viper.GetInt("cache-size"),
		CacheTTL:           viper.GetDuration("cache-ttl"),
		RequestTimeout:     viper.GetDuration("request-timeout"),
		MockMode:           viper.GetBool("mock"),
	}
	instanceProfile.FromEnv()
	if err := instanceProfile.Validate(); err != nil {
		return nil, err
	}
	return instanceProfile, nil
}

func runServe(ctx context.Context) error {
	instanceProfile, err := loadProfile()
	if err != nil {
		return err
	}

	logger := observability.NewLogger(os.Stderr, instanceProfile.LogLevel, viper.GetBool("log-json") || !instanceProfile.IsDev())
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	s, err := server.NewServer(ctx, instanceProfile, logger)
	if err != nil {
		return err
	}
	if err := s.Start(ctx); err != nil {
		return err
	}
	printGreetings(instanceProfile, s.Addr())

	<-ctx.Done()
	return s.Shutdown(context.Background())
}

func printGreetings(p *profile.Profile, addr string) {
	fmt.Printf("traveltime %s started successfully!\n", p.Version)
	if p.IsDev() {
		fmt.Fprintf(os.Stderr, "Development mode is enabled\n")
	}
	if p.MockMode {
		fmt.Println("Serving mock travel estimates")
	}
	fmt.Printf("Server running on http://%s\n", addr)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
