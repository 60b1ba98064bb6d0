package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/EgorLis/lobbybot/internal/catalog"
	"github.com/EgorLis/lobbybot/internal/config"
	"github.com/EgorLis/lobbybot/internal/schema"
)

type options struct {
	configPath   string
	commandsPath string
	dataDir      string
	langDir      string
	public       bool
	logFormat    string
}

func newRootCmd() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:           "lobbybot",
		Short:         "Party lobby bot with a web dashboard",
		SilenceUsage: true,
	}
	f := cmd.PersistentFlags()
	f.StringVar(&o.configPath, "config", "config.json", "path to config.json")
	f.StringVar(&o.commandsPath, "commands", "commands.json", "path to commands.json")
	f.StringVar(&o.dataDir, "data-dir", "data", "directory for the catalog cache")
	f.StringVar(&o.langDir, "lang-dir", "lang", "directory with locale files")
	f.BoolVar(&o.public, "public", false, "expand {ip} in web.ip to 0.0.0.0 instead of localhost")
	f.StringVar(&o.logFormat, "log-format", "text", "log format: text or json")

	cmd.AddCommand(newRunCmd(o), newCheckCmd(o), newSearchCmd(o), newUpdateCmd(o))
	return cmd
}

func (o *options) logger() *log.Logger {
	l := log.New()
	l.SetOutput(os.Stderr)
	if o.logFormat == "json" {
		l.SetFormatter(&log.JSONFormatter{})
	} else {
		l.SetFormatter(&log.TextFormatter{FullTimestamp: true, TimestampFormat: time.DateTime})
	}
	l.SetLevel(log.InfoLevel)
	return l
}

// loader собирает валидатор с набором lang по каталогу локализаций.
func (o *options) loader(logger *log.Logger) (*config.Loader, error) {
	reg := schema.DefaultRegistry()
	langs, err := config.LangOptions(o.langDir)
	if err != nil {
		return nil, fmt.Errorf("lang options: %w", err)
	}
	if len(langs) == 0 {
		logger.WithField("dir", o.langDir).Warn("no locale files found")
	}
	reg.SetLangs(langs)

	tables, err := schema.LoadTables(schema.NewPredicates())
	if err != nil {
		return nil, err
	}
	l, err := config.NewLoader(schema.NewValidator(reg, logger), tables, logger)
	if err != nil {
		return nil, err
	}
	l.Public = o.public
	return l, nil
}

func (o *options) settings(logger *log.Logger) (*config.Settings, error) {
	l, err := o.loader(logger)
	if err != nil {
		return nil, err
	}
	doc, err := l.LoadConfig(config.NewStore(o.configPath))
	if err != nil {
		return nil, err
	}
	return doc.Settings()
}

func (o *options) openCache() (*catalog.Cache, error) {
	if err := os.MkdirAll(o.dataDir, 0o755); err != nil {
		return nil, err
	}
	return catalog.OpenCache(filepath.Join(o.dataDir, "catalog.db"))
}

// newUpdater: search_lang пустой — ищем на языке интерфейса.
func newUpdater(cache *catalog.Cache, s *config.Settings, logger log.FieldLogger) (*catalog.Updater, error) {
	p, err := catalog.ParseProvider(s.API)
	if err != nil {
		return nil, err
	}
	key := ""
	if s.APIKey != nil {
		key = *s.APIKey
	}
	mainLang := s.SearchLang
	if mainLang == "" {
		mainLang = s.Lang
	}
	return catalog.NewUpdater(catalog.NewClient(p, key), cache, mainLang, s.SubSearchLang, logger), nil
}
