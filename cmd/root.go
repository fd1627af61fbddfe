package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dreamcatcher45/jserve/pkg/server"
	"github.com/dreamcatcher45/jserve/pkg/storage"
)

const longDescription = `jserve - JSON REST server backed by a single JSON file.

Every top-level key of the file is exposed as a resource collection:
  GET    /{resource}        list records
  GET    /{resource}/{id}   get a record
  POST   /{resource}        create a record
  PUT    /{resource}/{id}   replace a record
  DELETE /{resource}/{id}   delete a record

The whole file is rewritten after every successful change.`

const shutdownTimeout = 30 * time.Second

// config holds the resolved settings for one run
type config struct {
	File             string
	Host             string
	Port             int
	Snapshot         string
	SnapshotInterval time.Duration
}

// newRootCmd builds the command tree with its own viper instance so that
// flags, JSERVE_* environment variables and an optional config file resolve
// independently of any other invocation.
func newRootCmd(version string) *cobra.Command {
	v := viper.New()
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:          "jserve -f <FILE> [-p <PORT>]",
		Short:        "JSON REST server built on a single JSON file",
		Long:         longDescription,
		Version:      version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
	rootCmd.SetVersionTemplate("jserve version {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringP("file", "f", "", "JSON file to use as database (required)")
	rootCmd.Flags().IntP("port", "p", 3000, "Port to listen on")
	rootCmd.Flags().String("host", "127.0.0.1", "Address to listen on")
	rootCmd.Flags().String("snapshot", "", "Write compressed snapshots of the database to this path")
	rootCmd.Flags().Duration("snapshot-interval", 0, "Snapshot interval (e.g., 5m, 30s). Set to 0 to disable.")

	v.BindPFlag("file", rootCmd.PersistentFlags().Lookup("file"))
	v.BindPFlag("port", rootCmd.Flags().Lookup("port"))
	v.BindPFlag("host", rootCmd.Flags().Lookup("host"))
	v.BindPFlag("snapshot", rootCmd.Flags().Lookup("snapshot"))
	v.BindPFlag("snapshot-interval", rootCmd.Flags().Lookup("snapshot-interval"))

	rootCmd.AddCommand(newRestoreCmd(v))
	return rootCmd
}

// initConfig enables JSERVE_* environment variables and reads the config
// file when one was given
func initConfig(v *viper.Viper, cfgFile string) error {
	// snapshot-interval -> JSERVE_SNAPSHOT_INTERVAL
	v.SetEnvPrefix("JSERVE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if cfgFile == "" {
		return nil
	}
	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
	}
	log.Printf("INFO: Using config file: %s", v.ConfigFileUsed())
	return nil
}

// loadConfig resolves and validates the serve settings
func loadConfig(v *viper.Viper) (config, error) {
	cfg := config{
		File:     v.GetString("file"),
		Host:     v.GetString("host"),
		Snapshot: v.GetString("snapshot"),
	}

	// Env and config values arrive as strings; a bad one must not become 0
	port, err := cast.ToIntE(v.Get("port"))
	if err != nil {
		return cfg, fmt.Errorf("invalid port number %q", v.GetString("port"))
	}
	cfg.Port = port
	interval, err := cast.ToDurationE(v.Get("snapshot-interval"))
	if err != nil {
		return cfg, fmt.Errorf("invalid snapshot interval %q", v.GetString("snapshot-interval"))
	}
	cfg.SnapshotInterval = interval

	if cfg.File == "" {
		return cfg, errors.New("missing required -f argument")
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return cfg, fmt.Errorf("invalid port number: %d", cfg.Port)
	}
	if cfg.SnapshotInterval < 0 {
		return cfg, fmt.Errorf("invalid snapshot interval: %s", cfg.SnapshotInterval)
	}
	if cfg.SnapshotInterval > 0 && cfg.Snapshot == "" {
		return cfg, errors.New("--snapshot-interval requires --snapshot")
	}
	return cfg, nil
}

// storageOptions builds storage options from the resolved settings
func (cfg config) storageOptions() []storage.StorageOption {
	var options []storage.StorageOption
	switch {
	case cfg.Snapshot != "" && cfg.SnapshotInterval > 0:
		options = append(options, storage.WithBackgroundSnapshot(cfg.Snapshot, cfg.SnapshotInterval))
		log.Printf("INFO: Background snapshots enabled: every %v to %s", cfg.SnapshotInterval, cfg.Snapshot)
	case cfg.Snapshot != "":
		options = append(options, storage.WithSnapshotFile(cfg.Snapshot))
		log.Printf("INFO: Snapshot on shutdown enabled: %s", cfg.Snapshot)
	}
	return options
}

// serve loads the database, listens and blocks until ctx is cancelled
func serve(ctx context.Context, cfg config, out io.Writer) error {
	srv := server.NewServer(cfg.storageOptions()...)

	log.Printf("INFO: Loading data from: %s", cfg.File)
	if err := srv.InitDB(cfg.File); err != nil {
		return err
	}

	listener, err := net.Listen("tcp", net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)))
	if err != nil {
		return fmt.Errorf("failed to bind: %w", err)
	}

	baseURL := "http://" + listener.Addr().String()
	fmt.Fprintln(out, "\nAvailable endpoints:")
	for _, endpoint := range srv.Endpoints(baseURL) {
		fmt.Fprintf(out, "- %s\n", endpoint)
	}
	fmt.Fprintf(out, "\nServer running at %s\n", baseURL)

	srv.StartBackgroundWorkers()
	defer srv.StopBackgroundWorkers()

	httpServer := &http.Server{
		Handler: srv.Router(),
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}
	log.Println("INFO: Shutting down server...")

	// Give outstanding requests a deadline for completion
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("INFO: Server exited")
	return nil
}
