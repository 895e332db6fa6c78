package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"kubezen/internal/app"
	"kubezen/internal/config"
	"kubezen/internal/tmux"
	"kubezen/pkg/logging"
)

var (
	flagConfig     string
	flagKubeconfig string
	flagContext    string
	flagDebug      bool
	flagNoAttach   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kubezen",
	Short: "Browse and operate Kubernetes resources from a tmux-hosted fuzzy finder",
	Long: `kubezen starts a tmux session hosting an fzf-based browser over your
Kubernetes cluster: pick a namespace, a resource kind and a resource, then
run actions like logs, exec, scale, rollback or delete without leaving the
terminal.`,
	// SilenceUsage is set to true to prevent printing usage message on errors
	// handled by us (e.g. unreachable cluster, missing tmux)
	SilenceUsage: true,
	RunE:         runRoot,
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "kubezen version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default is ~/.config/kubezen/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagKubeconfig, "kubeconfig", "", "path to the kubeconfig file")
	rootCmd.PersistentFlags().StringVar(&flagContext, "context", "", "kubeconfig context to use")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.Flags().BoolVar(&flagNoAttach, "no-attach", false, "start the session without attaching to it")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}

// loadConfig layers the CLI flags over the file/default configuration.
func loadConfig() (config.Config, error) {
	var cfg config.Config
	var err error
	if flagConfig != "" {
		cfg, err = config.LoadFromPath(flagConfig)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return config.Config{}, err
	}
	if flagKubeconfig != "" {
		cfg.Kubeconfig = flagKubeconfig
	}
	if flagContext != "" {
		cfg.KubeContext = flagContext
	}
	if flagDebug {
		cfg.Debug = true
	}
	return cfg, nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	level := logging.LevelInfo
	if cfg.Debug {
		level = logging.LevelDebug
	}
	if err := logging.InitForUI(level, cfg.LogFile); err != nil {
		return fmt.Errorf("could not open log file: %w", err)
	}
	defer logging.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	appErr := make(chan error, 1)
	go func() {
		appErr <- app.Run(ctx, cfg)
	}()

	if flagNoAttach {
		fmt.Printf("Session %q starting. Attach with: tmux attach -t %s\n", cfg.SessionName, cfg.SessionName)
		return <-appErr
	}

	if err := waitForSession(ctx, cfg, appErr); err != nil {
		return err
	}
	if err := attach(cfg); err != nil {
		logging.Warn("CLI", "attach ended: %v", err)
	}

	// Detaching leaves the session running; a killed session ends it.
	select {
	case err := <-appErr:
		return err
	default:
		fmt.Printf("Detached. Re-attach with: tmux attach -t %s\n", cfg.SessionName)
		return <-appErr
	}
}

// waitForSession blocks until the tmux session exists or startup fails.
func waitForSession(ctx context.Context, cfg config.Config, appErr <-chan error) error {
	mgr, err := tmux.NewManager(cfg)
	if err != nil {
		return err
	}
	deadline := time.After(30 * time.Second)
	for {
		if mgr.HasSession() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-appErr:
			if err == nil {
				err = fmt.Errorf("session ended before it became attachable")
			}
			return err
		case <-deadline:
			return fmt.Errorf("session %q did not come up", cfg.SessionName)
		case <-time.After(200 * time.Millisecond):
		}
	}
}

// attach hands the terminal to tmux until the operator detaches or the
// session dies.
func attach(cfg config.Config) error {
	args := []string{}
	if cfg.TmuxSocketPath != "" {
		args = append(args, "-S", cfg.TmuxSocketPath)
	}
	args = append(args, "attach-session", "-t", cfg.SessionName)
	c := exec.Command("tmux", args...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}
