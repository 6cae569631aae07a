// Command fastdbd is the FastDB server.
//
// Subcommands: serve (run the TCP server), add-user (register a user
// directly in the catalog, used to bootstrap the first login), backup and
// restore (copy a database's backing store to or from a local, file://,
// http(s):// or s3:// target).
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fastdb-io/fastdb"
	"github.com/fastdb-io/fastdb/backup"
	"github.com/fastdb-io/fastdb/catalog"
	"github.com/fastdb-io/fastdb/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := fastdb.NewViper()
	var cfgFile string

	root := &cobra.Command{
		Use:           "fastdbd",
		Short:         "FastDB server",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (optional)")
	pf.String("data-dir", fastdb.DefaultDataDir, "directory holding database backing stores")
	pf.String("catalog-file", fastdb.DefaultCatalogFile, "catalog file name inside the data directory")
	pf.String("digest-algo", fastdb.DefaultDigestAlgo, "password digest algorithm")
	pf.String("log-file", fastdb.DefaultLogFile, "log file")
	v.BindPFlag("data_dir", pf.Lookup("data-dir"))
	v.BindPFlag("catalog_file", pf.Lookup("catalog-file"))
	v.BindPFlag("digest_algo", pf.Lookup("digest-algo"))
	v.BindPFlag("log_file", pf.Lookup("log-file"))

	root.AddCommand(newServeCmd(v, &cfgFile))
	root.AddCommand(newAddUserCmd(v, &cfgFile))
	root.AddCommand(newBackupCmd(v, &cfgFile))
	root.AddCommand(newRestoreCmd(v, &cfgFile))
	return root
}

func newServeCmd(v *viper.Viper, cfgFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the FastDB TCP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := fastdb.LoadConfig(v, *cfgFile)
			if err != nil {
				return err
			}

			logger, closeLog, err := newLogger(cfg.LogFile)
			if err != nil {
				return err
			}
			defer closeLog()

			server, err := NewServer(cfg, logger)
			if err != nil {
				return err
			}
			if err := server.Start(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)); err != nil {
				return err
			}

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			<-sigChan

			logger.Info("shutting down")
			return server.Stop()
		},
	}
	cmd.Flags().String("addr", fastdb.DefaultHost, "bind address")
	cmd.Flags().Int("port", fastdb.DefaultPort, "bind port")
	v.BindPFlag("host", cmd.Flags().Lookup("addr"))
	v.BindPFlag("port", cmd.Flags().Lookup("port"))
	return cmd
}

func newAddUserCmd(v *viper.Viper, cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "add-user <username> <password>",
		Short: "Register a user directly in the catalog",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := fastdb.LoadConfig(v, *cfgFile)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
				return err
			}

			cat, err := catalog.Open(filepath.Join(cfg.DataDir, cfg.CatalogFile), cfg.DigestAlgo)
			if err != nil {
				return err
			}
			defer cat.Close()

			if err := cat.InsertUser(args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("User '%s' added\n", args[0])
			return nil
		},
	}
}

func addS3Flags(cmd *cobra.Command) {
	cmd.Flags().String("s3-access-key", "", "S3 access key (optional)")
	cmd.Flags().String("s3-secret-key", "", "S3 secret key (optional)")
	cmd.Flags().String("s3-region", "", "S3 region (optional)")
	cmd.Flags().String("s3-endpoint", "", "custom S3-compatible endpoint (optional)")
}

func s3ConfigFromFlags(cmd *cobra.Command) *backup.S3Config {
	access, _ := cmd.Flags().GetString("s3-access-key")
	secret, _ := cmd.Flags().GetString("s3-secret-key")
	region, _ := cmd.Flags().GetString("s3-region")
	endpoint, _ := cmd.Flags().GetString("s3-endpoint")
	return &backup.S3Config{
		AccessKey: access,
		SecretKey: secret,
		Region:    region,
		Endpoint:  endpoint,
	}
}

func newBackupCmd(v *viper.Viper, cfgFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup <dbname> <target>",
		Short: "Copy a database's backing store to a local, file://, or s3:// target",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := fastdb.LoadConfig(v, *cfgFile)
			if err != nil {
				return err
			}
			mgr, err := storage.NewManager(cfg.DataDir)
			if err != nil {
				return err
			}
			if !mgr.Exists(args[0]) {
				return fmt.Errorf("no backing store for database %s", args[0])
			}
			return backup.Dump(cmd.Context(), mgr.Path(args[0]), args[1], s3ConfigFromFlags(cmd))
		},
	}
	addS3Flags(cmd)
	return cmd
}

func newRestoreCmd(v *viper.Viper, cfgFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <source> <dbname>",
		Short: "Restore a database's backing store from a local, file://, http(s)://, or s3:// source",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := fastdb.LoadConfig(v, *cfgFile)
			if err != nil {
				return err
			}
			mgr, err := storage.NewManager(cfg.DataDir)
			if err != nil {
				return err
			}
			return backup.Restore(cmd.Context(), args[0], mgr.Path(args[1]), s3ConfigFromFlags(cmd))
		},
	}
	addS3Flags(cmd)
	return cmd
}

// newLogger builds the server logger, teeing stdout and the log file.
func newLogger(logFile string) (*slog.Logger, func(), error) {
	if logFile == "" {
		return slog.New(slog.NewTextHandler(os.Stdout, nil)), func() {}, nil
	}
	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file %s: %w", logFile, err)
	}
	logger := slog.New(slog.NewTextHandler(io.MultiWriter(os.Stdout, f), nil))
	return logger, func() { f.Close() }, nil
}
