// Command blockview-service fires up the reference data service for the
// block cache: the four squirrel endpoints over HTTP, backed by a SQLite
// database of coverage records and spectrogram tiles.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/openseis/blockview/codec"
	"github.com/openseis/blockview/service"
	"github.com/openseis/blockview/service/sqlitesource"
)

type config struct {
	Host   string `toml:"host"`
	Port   int    `toml:"port"`
	DBPath string `toml:"db_path"`
	Debug  bool   `toml:"debug"`
}

func defaultConfig() config {
	return config{
		Host:   "localhost",
		Port:   2323,
		DBPath: "blockview.db",
	}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

func main() {
	var (
		configPath = flag.String("config", "", "path to TOML config file")
		host       = flag.String("host", "", "IP address to bind to (overrides config)")
		port       = flag.Int("port", 0, "port to bind to (overrides config)")
		dbPath     = flag.String("db", "", "path to the SQLite database (overrides config)")
		debug      = flag.Bool("debug", false, "activate debug mode")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *host != "" {
		cfg.Host = *host
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *debug {
		cfg.Debug = true
	}

	var logger *zap.Logger
	if cfg.Debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	src, err := sqlitesource.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("open source", zap.Error(err))
	}
	defer src.Close()

	router := service.NewRouter(src, service.Options{
		Codecs: []codec.Codec{codec.Msgpack{}, codec.MustCBOR(false)},
		Debug:  cfg.Debug,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	logger.Info("binding service", zap.String("addr", addr), zap.String("db", cfg.DBPath))
	logger.Info("point browser client at", zap.String("url", fmt.Sprintf("http://%s/squirrel", addr)))
	if err := router.Run(addr); err != nil {
		logger.Fatal("serve", zap.Error(err))
	}
}
