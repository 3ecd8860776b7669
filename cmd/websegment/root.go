package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/segv/websegment"
)

var (
	cfgFile   string
	siteCfg   websegment.SiteConfig
	staticDir string
)

var rootCmd = &cobra.Command{
	Use:   "websegment",
	Short: "websegment - a personal website served as a single-page app",
	Long: `websegment serves a personal website: a home page, a projects gallery,
posts written in Markdown and a few plain-text pages. Content is read from
an origin over HTTP, which by default is the site itself serving ./content.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./websegment.yaml)")
	rootCmd.AddCommand(serveCmd, purgeCmd, versionCmd)
}

// envKeys maps config keys onto the environment variables that set them,
// without the WEBSEGMENT_ prefix.
var envKeys = map[string]string{
	"name":                "NAME",
	"url":                 "URL",
	"description":         "DESCRIPTION",
	"author":              "AUTHOR",
	"intro":               "INTRO",
	"githubusername":      "GITHUB_USERNAME",
	"email":               "EMAIL",
	"repository":          "REPOSITORY",
	"addr":                "ADDR",
	"contentdir":          "CONTENT_DIR",
	"origin":              "ORIGIN",
	"projectssource":      "PROJECTS_SOURCE",
	"pinnedapi":           "PINNED_API",
	"githubapi":           "GITHUB_API",
	"cardimagebase":       "CARD_IMAGE_BASE",
	"corsproxy":           "CORS_PROXY",
	"contentdatabasepath": "CONTENT_DB",
	"sessionsecret":       "SESSION_SECRET",
	"cookiesecure":        "COOKIE_SECURE",
	"sessionttl":          "SESSION_TTL",
	"fetchtimeout":        "FETCH_TIMEOUT",
	"settletimeout":       "SETTLE_TIMEOUT",
	"splash":              "SPLASH",
}

func initializeConfig() error {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("websegment")
	}

	v.SetEnvPrefix("WEBSEGMENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envKeys {
		if err := v.BindEnv(key, "WEBSEGMENT_"+env); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
		// Config files use the snake_case spelling of the variable.
		if alias := strings.ToLower(env); alias != key {
			v.RegisterAlias(alias, key)
		}
	}
	v.SetDefault("static_dir", "public")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	staticDir = v.GetString("static_dir")
	siteCfg = websegment.SiteConfig{}
	if err := v.Unmarshal(&siteCfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	return nil
}
