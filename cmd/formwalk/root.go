package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/goliatone/go-formwalk/internal/config"
	"github.com/goliatone/go-formwalk/internal/logging"
	"github.com/goliatone/go-formwalk/pkg/question"
	"github.com/goliatone/go-formwalk/pkg/renderers/tui"
	"github.com/goliatone/go-formwalk/pkg/store"
)

// app carries what the subcommands share once flags and config are resolved.
type app struct {
	out     io.Writer
	v       *viper.Viper
	cfgFile string
	verbose bool

	cfg      *config.Config
	logger   *zap.Logger
	closeLog func() error

	// driver replaces the survey prompts; tests set it.
	driver tui.PromptDriver
	// logOptions are appended when the logger is built; tests silence the
	// console with them.
	logOptions []logging.Option
}

func newApp(out io.Writer) *app {
	return &app{
		out:      out,
		v:        config.New(),
		logger:   zap.NewNop(),
		closeLog: func() error { return nil },
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "formwalk",
		Short:         "Daily emotional check-in",
		Long:          "formwalk asks how your day went, walks a short list of questions and stores the answers.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.closeLog()
		},
	}
	root.SetOut(a.out)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default ./formwalk.yaml)")
	flags.String("questions", "", "question set file (YAML or JSON)")
	flags.String("store", "", "store backend: memory, file, sqlite, minio or firebase")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	_ = a.v.BindPFlag("questions", flags.Lookup("questions"))
	_ = a.v.BindPFlag("store.backend", flags.Lookup("store"))

	root.AddCommand(
		newRunCmd(a),
		newServeCmd(a),
		newBotCmd(a),
		newShowCmd(a),
		newSchemaCmd(a),
		newQuestionsCmd(a),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	logger, closeLog, err := logging.New(cfg.Log, a.logOptions...)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	a.closeLog = closeLog
	a.logger.Debug("configuration loaded",
		zap.String("config", a.v.ConfigFileUsed()),
		zap.String("store", cfg.Store.Backend),
	)
	return nil
}

// questions loads the configured set, or the built-in one.
func (a *app) questions() ([]question.Question, error) {
	path := strings.TrimSpace(a.cfg.Questions)
	if path == "" {
		return question.Default(), nil
	}
	return question.LoadFile(path)
}

func (a *app) openStore(ctx context.Context) (store.Store, error) {
	s, err := store.Open(ctx, a.cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return s, nil
}

// noColor follows the NO_COLOR convention.
func noColor() bool {
	_, set := os.LookupEnv("NO_COLOR")
	return set
}
