package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/hindiconfession/cli/pkg/adminsession"
	"github.com/hindiconfession/cli/pkg/api"
	"github.com/hindiconfession/cli/pkg/client"
	"github.com/hindiconfession/cli/pkg/config"
	clierrors "github.com/hindiconfession/cli/pkg/errors"
	"github.com/hindiconfession/cli/pkg/locale"
	"github.com/hindiconfession/cli/pkg/logger"
	"github.com/hindiconfession/cli/pkg/output"
	"github.com/hindiconfession/cli/pkg/service"
	"github.com/hindiconfession/cli/pkg/session"
	"github.com/hindiconfession/cli/pkg/storage"
	"github.com/spf13/cobra"
)

const hydrateTimeout = 5 * time.Second

var (
	verbose    bool
	configPath string
	outputFmt  string
	noStorage  bool

	deps   *service.Deps
	closer io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "confession-cli",
	Short: "Hindi Confession CLI - anonymous confessions from the terminal",
	Long: `confession-cli is a command-line client for the Hindi Confession
platform. Browse feeds and communities, read confessions, react and
post anonymously, in Hindi, English or Punjabi.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(configPath); err != nil {
			return fmt.Errorf("error initializing config: %w", err)
		}

		logger.Init(verbose)

		if cmd.Flags().Changed("output") {
			if !output.ValidateOutputFormat(outputFmt) {
				return clierrors.ValidationError("output", "expected text, json or table")
			}
			config.Set("output.format", outputFmt)
		}
		if noStorage {
			config.Set("storage.driver", storage.DriverNone)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if closer != nil {
			if err := closer.Close(); err != nil {
				logger.Warn("Failed to close storage", "error", err)
			}
		}
	},
}

// Execute runs the command tree until completion or interrupt
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprint(os.Stderr, clierrors.FormatError(err))
		stop()
		os.Exit(1)
	}
}

// appDeps builds the shared stores and API client on first use. The
// session stores are rehydrated before any command reads them.
func appDeps(cmd *cobra.Command) (*service.Deps, error) {
	if deps != nil {
		return deps, nil
	}
	ctx := cmd.Context()

	st := openStorage(ctx)
	sess := session.NewStore(st)
	admin := adminsession.NewStore(st)
	sess.Rehydrate(ctx)
	admin.Rehydrate(ctx)

	waitCtx, cancel := context.WithTimeout(ctx, hydrateTimeout)
	defer cancel()
	if err := sess.WaitHydrated(waitCtx); err != nil {
		return nil, clierrors.StorageError(session.StorageKey, err)
	}
	if err := admin.WaitHydrated(waitCtx); err != nil {
		return nil, clierrors.StorageError(adminsession.StorageKey, err)
	}

	sess.Subscribe(logSessionChange)
	admin.Subscribe(logAdminSessionChange)

	httpClient := client.New(client.FromConfig(), client.TokenFunc(sess.Token))
	deps = &service.Deps{
		API:      api.New(httpClient),
		Session:  sess,
		Admin:    admin,
		Locale:   locale.NewResolver(sess, st),
		PageSize: config.GetInt("feed.page_size"),
		Prefetch: config.GetBool("feed.prefetch"),
	}
	return deps, nil
}

func logSessionChange(st session.State) {
	username := ""
	if st.User != nil {
		username = st.User.Username
	}
	logger.Debug("Session changed", "authenticated", st.IsAuthenticated, "username", username, "age_verified", st.AgeVerified)
}

func logAdminSessionChange(st adminsession.State) {
	logger.Debug("Admin session changed", "authenticated", st.IsAuthenticated)
}

// openStorage opens the configured driver. An unusable store degrades to
// no persistence rather than failing the command.
func openStorage(ctx context.Context) storage.Storage {
	st, err := storage.Open(ctx, storage.Options{
		Driver:        config.GetString("storage.driver"),
		Dir:           config.GetStorageDir(),
		RedisAddr:     config.GetString("storage.redis_addr"),
		RedisPassword: config.GetString("storage.redis_password"),
		RedisDB:       config.GetInt("storage.redis_db"),
		RedisPrefix:   config.GetString("storage.redis_prefix"),
	})
	if err != nil {
		logger.Warn("Storage unavailable, session will not be saved", "driver", config.GetString("storage.driver"), "error", err)
		return storage.Noop{}
	}
	if c, ok := st.(io.Closer); ok {
		closer = c
	}
	return st
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ~/.config/hindi-confession/cli/config.toml)")
	rootCmd.PersistentFlags().StringVar(&outputFmt, "output", "text", "Output format: text, json, table")
	rootCmd.PersistentFlags().BoolVar(&noStorage, "no-storage", false, "Do not read or save the session")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(ageCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(reactCmd)
	rootCmd.AddCommand(unreactCmd)
	rootCmd.AddCommand(reactionsCmd)
	rootCmd.AddCommand(communityCmd)
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(langCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
