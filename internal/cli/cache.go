package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/grapher/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var redisAddr, configPath string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if redisAddr == "" {
				redisAddr = cfg.Cache.RedisAddr
			}

			store, err := newCache(cmd.Context(), cacheOptions{redisAddr: redisAddr, dir: cfg.Cache.Dir})
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer store.Close()

			clearer, ok := store.(cache.Clearer)
			if !ok {
				printInfo("Cache cannot be cleared")
				return nil
			}
			count, err := clearer.Clear(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached layouts", count)
			if fc, ok := store.(*cache.FileCache); ok {
				printDetail("Directory: %s", fc.Dir())
			} else {
				printDetail("Redis: %s", redisAddr)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&redisAddr, "redis", "", "clear the Redis cache at this address")
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default: user config dir)")
	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			dir := cfg.Cache.Dir
			if dir == "" {
				if dir, err = cacheDir(); err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
			}
			if cfg.Cache.RedisAddr != "" {
				printKeyValue("directory", dir)
				printKeyValue("redis", cfg.Cache.RedisAddr)
				return nil
			}
			fmt.Println(dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file (default: user config dir)")
	return cmd
}
