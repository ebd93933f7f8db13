package cache

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rvc-service/cmd/rvc/cmd/cli"
	"rvc-service/internal/app/hfcache"
	"rvc-service/internal/app/progress"
)

var (
	revision     string
	showProgress bool
)

func init() {
	pullCmd.Flags().StringVarP(&revision, "revision", "r", "", "branch, tag or commit to fetch (default latest)")
	pullCmd.Flags().BoolVar(&showProgress, "progress", false, "force progress bars even when stderr is not a terminal")

	Cmd.AddCommand(pullCmd)
}

// Cmd represents the cache command
var Cmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local copy of Hugging Face model repositories",
}

var pullCmd = &cobra.Command{
	Use:   "pull <org/repo>",
	Short: "Download a model repository into the cache",
	Long: `Download a model repository into the cache.

- Files land under <models_dir>/hf/models--org--repo/snapshots/<commit>
- A snapshot that was already completed is not downloaded again`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := cli.Load()
		if err != nil {
			return err
		}

		manager := hfcache.NewManager(hfcache.Config{
			Enabled:  cfg.HFCache.Enabled,
			CacheDir: cfg.HFCacheDir(),
			Endpoint: cfg.HFCache.Endpoint,
			Token:    cfg.HFCache.Token,
			Timeout:  cfg.HFTimeout(),
		}, logger)

		pm := progress.NewManager(progress.Config{
			Enabled: progress.ShouldShowProgress(showProgress),
			Writer:  os.Stderr,
		})
		manager.SetProgress(pm.Download)

		repo, err := manager.Ensure(cmd.Context(), args[0], revision)
		if err != nil {
			pm.Shutdown()
			logger.Error("cache pull failed", zap.String("repo_id", args[0]), zap.Error(err))
			return err
		}
		pm.Wait()

		fmt.Fprintf(cmd.OutOrStdout(), "cached %s at %s\n", repo.RepoID, repo.LocalPath)
		return nil
	},
}
