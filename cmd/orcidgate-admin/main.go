// Command orcidgate-admin is the operator CLI: migrations, key
// generation, secret encryption, config inspection and direct
// session/researcher lookups.
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dropDatabas3/orcidgate/internal/cache"
	"github.com/dropDatabas3/orcidgate/internal/config"
	sessionsvc "github.com/dropDatabas3/orcidgate/internal/http/services/session"
	"github.com/dropDatabas3/orcidgate/internal/security/password"
	"github.com/dropDatabas3/orcidgate/internal/security/secretbox"
	"github.com/dropDatabas3/orcidgate/internal/store/pg"
	"github.com/dropDatabas3/orcidgate/internal/util"
	migrations "github.com/dropDatabas3/orcidgate/migrations/postgres"
)

func fileExists(p string) bool {
	if p == "" {
		return false
	}
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}

func loadConfig(path, envFile string) (*config.Config, error) {
	if envFile != "" && fileExists(envFile) {
		_ = godotenv.Load(envFile)
	}
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" && fileExists("configs/config.yaml") {
		path = "configs/config.yaml"
	}
	return config.Load(path)
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

// openSessions builds the cache client plus the session service from config.
func openSessions(cfg *config.Config) (cache.Client, sessionsvc.Service, error) {
	c, err := cache.New(cache.Config{
		Kind:       cfg.Cache.Kind,
		Addr:       cfg.Cache.Redis.Addr,
		Password:   cfg.Cache.Redis.Password,
		DB:         cfg.Cache.Redis.DB,
		Prefix:     cfg.Cache.Redis.Prefix,
		DefaultTTL: config.Dur(cfg.Cache.Memory.DefaultTTL),
	})
	if err != nil {
		return nil, nil, err
	}
	return c, sessionsvc.NewService(c, config.Dur(cfg.Session.TTL)), nil
}

func main() {
	var (
		configPath string
		envFile    string
	)

	root := &cobra.Command{
		Use:          "orcidgate-admin",
		Short:        "Operator CLI for orcidgate",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (fallback: $CONFIG_PATH or configs/config.yaml)")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to .env (loaded when present)")

	// migrate
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, envFile)
			if err != nil {
				return err
			}
			if cfg.Storage.Driver != "postgres" {
				return fmt.Errorf("migrate needs storage.driver=postgres, got %q", cfg.Storage.Driver)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			st, err := pg.Connect(ctx, pg.Config{
				DSN:             cfg.Storage.DSN,
				MaxConns:        cfg.Storage.Postgres.MaxConns,
				ConnMaxLifetime: config.Dur(cfg.Storage.Postgres.ConnMaxLifetime),
			})
			if err != nil {
				return err
			}
			defer st.Close()

			res, err := pg.NewMigrator(migrations.FS, migrations.Dir).Run(ctx, st)
			if err != nil {
				return err
			}
			fmt.Printf("applied=%d skipped=%d in %s\n", len(res.Applied), len(res.Skipped), res.Duration)
			return nil
		},
	}

	// state keygen
	stateCmd := &cobra.Command{
		Use:   "state",
		Short: "State signing key operations",
	}
	stateKeygenCmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate an Ed25519 seed for state.signing_key",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, priv, err := ed25519.GenerateKey(rand.Reader)
			if err != nil {
				return err
			}
			fmt.Println(base64.StdEncoding.EncodeToString(priv.Seed()))
			return nil
		},
	}
	stateCmd.AddCommand(stateKeygenCmd)

	// secret keygen / encrypt
	secretCmd := &cobra.Command{
		Use:   "secret",
		Short: "Secret encryption for config values",
	}
	secretKeygenCmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a SECRETBOX_MASTER_KEY",
		RunE: func(cmd *cobra.Command, args []string) error {
			k := make([]byte, 32)
			if _, err := rand.Read(k); err != nil {
				return err
			}
			fmt.Println(base64.StdEncoding.EncodeToString(k))
			return nil
		},
	}
	secretEncryptCmd := &cobra.Command{
		Use:   "encrypt <value>",
		Short: "Encrypt a config value with SECRETBOX_MASTER_KEY",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if envFile != "" && fileExists(envFile) {
				_ = godotenv.Load(envFile)
			}
			enc, err := secretbox.Encrypt(args[0])
			if err != nil {
				return err
			}
			fmt.Println("enc:" + enc)
			return nil
		},
	}
	secretCmd.AddCommand(secretKeygenCmd, secretEncryptCmd)

	// token hash
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Admin API token operations",
	}
	tokenHashCmd := &cobra.Command{
		Use:   "hash <token>",
		Short: "Hash an admin API token for admin.token_hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			phc, err := password.Hash(password.Default, args[0])
			if err != nil {
				return err
			}
			fmt.Println(phc)
			return nil
		},
	}
	tokenCmd.AddCommand(tokenHashCmd)

	// session revoke
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Session operations against the running backend",
	}
	var revokeID string
	sessionRevokeCmd := &cobra.Command{
		Use:   "revoke",
		Short: "Revoke a session by its ID",
		RunE: func(cmd *cobra.Command, args []string) error {
			if revokeID == "" {
				return fmt.Errorf("--id is required")
			}
			cfg, err := loadConfig(configPath, envFile)
			if err != nil {
				return err
			}
			c, sessions, err := openSessions(cfg)
			if err != nil {
				return err
			}
			defer c.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			if err := sessions.RevokeByID(ctx, revokeID); err != nil {
				return err
			}
			fmt.Println("revoked", revokeID)
			return nil
		},
	}
	sessionRevokeCmd.Flags().StringVar(&revokeID, "id", "", "session ID to revoke")
	sessionCmd.AddCommand(sessionRevokeCmd)

	// config print
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration inspection",
	}
	configPrintCmd := &cobra.Command{
		Use:   "print",
		Short: "Print the effective config with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, envFile)
			if err != nil {
				return err
			}
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
		},
	}
	configCmd.AddCommand(configPrintCmd)

	// researcher get
	researcherCmd := &cobra.Command{
		Use:   "researcher",
		Short: "Researcher store lookups",
	}
	var lookupORCID string
	researcherGetCmd := &cobra.Command{
		Use:   "get",
		Short: "Look a researcher up by ORCID iD",
		RunE: func(cmd *cobra.Command, args []string) error {
			if lookupORCID == "" {
				return fmt.Errorf("--orcid is required")
			}
			cfg, err := loadConfig(configPath, envFile)
			if err != nil {
				return err
			}
			if cfg.Storage.Driver != "postgres" {
				return fmt.Errorf("researcher get needs storage.driver=postgres, got %q", cfg.Storage.Driver)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			st, err := pg.Connect(ctx, pg.Config{
				DSN:             cfg.Storage.DSN,
				MaxConns:        cfg.Storage.Postgres.MaxConns,
				ConnMaxLifetime: config.Dur(cfg.Storage.Postgres.ConnMaxLifetime),
			})
			if err != nil {
				return err
			}
			defer st.Close()

			r, err := st.GetByORCID(ctx, lookupORCID)
			if err != nil {
				return err
			}
			printJSON(r)
			return nil
		},
	}
	researcherGetCmd.Flags().StringVar(&lookupORCID, "orcid", "", "ORCID iD, e.g. 0000-0002-1825-0097")
	researcherCmd.AddCommand(researcherGetCmd)

	root.AddCommand(migrateCmd, stateCmd, secretCmd, tokenCmd, sessionCmd, configCmd, researcherCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
