package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dropDatabas3/orcidgate/internal/app"
	"github.com/dropDatabas3/orcidgate/internal/config"
	"github.com/dropDatabas3/orcidgate/internal/util"
)

func fileExists(p string) bool {
	if p == "" {
		return false
	}
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}

// printConfig dumps the effective configuration with secrets masked.
func printConfig(cfg *config.Config) error {
	c := *cfg
	c.ORCID.ClientSecret = util.MaskSecret(c.ORCID.ClientSecret)
	c.State.SigningKey = util.MaskSecret(c.State.SigningKey)
	c.Storage.DSN = util.MaskSecret(c.Storage.DSN)
	c.Cache.Redis.Password = util.MaskSecret(c.Cache.Redis.Password)
	c.SMTP.Password = util.MaskSecret(c.SMTP.Password)
	c.Admin.TokenHash = util.MaskSecret(c.Admin.TokenHash)

	out, err := yaml.Marshal(&c)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}

func main() {
	var (
		flagConfigPath = flag.String("config", "", "path to config.yaml (fallback: $CONFIG_PATH or configs/config.yaml)")
		flagEnvFile    = flag.String("env-file", ".env", "path to .env (loaded when present)")
		flagPrint      = flag.Bool("print-config", false, "print the effective config and exit")
	)
	flag.Parse()

	if *flagEnvFile != "" && fileExists(*flagEnvFile) {
		if err := godotenv.Load(*flagEnvFile); err == nil {
			log.Printf("dotenv: loaded %s", *flagEnvFile)
		}
	}

	cfgPath := *flagConfigPath
	if cfgPath == "" {
		cfgPath = os.Getenv("CONFIG_PATH")
	}
	if cfgPath == "" && fileExists("configs/config.yaml") {
		cfgPath = "configs/config.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if *flagPrint {
		if err := printConfig(cfg); err != nil {
			log.Fatalf("print-config: %v", err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg); err != nil {
		log.Fatalf("orcidgate: %v", err)
	}
}
