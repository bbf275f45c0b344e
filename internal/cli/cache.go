package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/peoplesfeelings/mindmap/pkg/cache"
	"github.com/peoplesfeelings/mindmap/pkg/config"
)

// cacheCommand groups the layout cache subcommands.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached layout and export",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			switch cfg.Cache.Backend {
			case config.CacheMongo:
				mc, err := cache.NewMongoCache(cmd.Context(), cfg.Cache.MongoURI, cfg.Cache.MongoDatabase, cfg.Cache.MongoCollection)
				if err != nil {
					return fmt.Errorf("connect cache: %w", err)
				}
				defer mc.Close()
				if err := mc.Clear(cmd.Context()); err != nil {
					return fmt.Errorf("clear cache: %w", err)
				}
				printSuccess("Cleared layout cache")
				printDetail("Collection: %s.%s", cfg.Cache.MongoDatabase, cfg.Cache.MongoCollection)
				return nil
			case config.CacheFile:
			default:
				printInfo("The %s cache backend is not cleared from the CLI", cfg.Cache.Backend)
				return nil
			}
			dir, err := cacheDir(cfg.Cache)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			if err := fc.Clear(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("Cleared layout cache")
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			switch cfg.Cache.Backend {
			case config.CacheRedis:
				fmt.Println("redis://" + cfg.Cache.RedisAddr + "/" + cfg.Cache.Prefix)
				return nil
			case config.CacheMongo:
				fmt.Println(cfg.Cache.MongoURI + " " + cfg.Cache.MongoDatabase + "." + cfg.Cache.MongoCollection)
				return nil
			case config.CacheNone:
				printInfo("Caching is disabled")
				return nil
			}
			dir, err := cacheDir(cfg.Cache)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
