package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mitiskuma/gitburst/internal/config"
	"github.com/mitiskuma/gitburst/internal/engine"
	"github.com/mitiskuma/gitburst/internal/gitx"
	"github.com/mitiskuma/gitburst/internal/tui"
)

func newReplayCmd() *cobra.Command {
	var (
		speed   float64
		theme   string
		noCache bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "replay [repo...]",
		Short: "Replay the commit history of one or more repositories",
		Long: "Replay extracts the full commit history of each repository and plays\n" +
			"it back as an animated file tree. With several repositories the views\n" +
			"can be cycled or combined.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}

			log := logrus.New()
			log.SetOutput(os.Stderr)
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}

			roots, err := resolveRoots(args)
			if err != nil {
				return err
			}

			cfg, err := config.Load(roots[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("speed") {
				cfg.Speed = speed
			}
			if cmd.Flags().Changed("theme") {
				cfg.Theme = theme
			}
			if noCache {
				cfg.NoCache = true
			}

			histories, err := loadHistories(roots, cfg.NoCache, log)
			if err != nil {
				return err
			}

			payload := buildPayload(histories)
			if len(payload.Commits) == 0 {
				return fmt.Errorf("no commits found in %s", strings.Join(roots, ", "))
			}

			eng := engine.New(payload, engineSettings(cfg))
			for _, w := range eng.Warnings() {
				log.Warn(w)
			}
			eng.SetSpeed(cfg.Speed)
			return tui.Run(eng, cfg)
		},
	}

	cmd.Flags().Float64Var(&speed, "speed", 1.0, "Playback speed multiplier")
	cmd.Flags().StringVar(&theme, "theme", "dark", "Color theme (dark or light)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Skip the history cache")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging to stderr")
	return cmd
}

func resolveRoots(args []string) ([]string, error) {
	roots := make([]string, 0, len(args))
	seen := make(map[string]bool)
	for _, arg := range args {
		root, err := gitx.RepoRoot(arg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", arg, err)
		}
		if !seen[root] {
			seen[root] = true
			roots = append(roots, root)
		}
	}
	return roots, nil
}

// repoHistory pairs one repository with its extracted commits.
type repoHistory struct {
	root    string
	commits []gitx.Commit
}

// loadHistories extracts every repository's history concurrently,
// serving from the on-disk cache when the repo HEAD has not moved.
func loadHistories(roots []string, noCache bool, log *logrus.Logger) ([]repoHistory, error) {
	var cache *gitx.Cache
	if !noCache {
		if path, err := cachePath(); err == nil {
			if c, err := gitx.OpenCache(path); err == nil {
				cache = c
				defer cache.Close()
			} else {
				log.WithError(err).Debug("history cache unavailable")
			}
		}
	}

	out := make([]repoHistory, len(roots))
	var g errgroup.Group
	for i, root := range roots {
		i, root := i, root
		g.Go(func() error {
			commits, err := historyFor(root, cache, log)
			if err != nil {
				return fmt.Errorf("%s: %w", root, err)
			}
			out[i] = repoHistory{root: root, commits: commits}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func historyFor(root string, cache *gitx.Cache, log *logrus.Logger) ([]gitx.Commit, error) {
	head, err := gitx.HeadSHA(root)
	if err != nil {
		return nil, err
	}
	key := gitx.CacheKey(root, head)
	if cache != nil {
		if commits, ok := cache.Load(key); ok {
			log.WithField("repo", root).Debug("history cache hit")
			return commits, nil
		}
	}
	commits, err := gitx.ExtractHistory(root)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		if err := cache.Store(key, commits); err != nil {
			log.WithError(err).Debug("history cache store failed")
		}
	}
	return commits, nil
}

func cachePath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, "gitburst")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "histories.db"), nil
}

// buildPayload maps extracted git history onto the engine's input
// shape. Contributor identity is the lowercased author email, so the
// same person with differing name spellings stays one contributor.
func buildPayload(histories []repoHistory) engine.Payload {
	var p engine.Payload
	seen := make(map[string]bool)
	for _, h := range histories {
		repoID := filepath.Base(h.root)
		p.Repositories = append(p.Repositories, engine.RepositoryMeta{
			ID:   repoID,
			Name: repoID,
			Root: h.root,
		})
		for _, c := range h.commits {
			id := contributorID(c)
			if !seen[id] {
				seen[id] = true
				p.Contributors = append(p.Contributors, engine.ContributorMeta{
					ID:   id,
					Name: c.AuthorName,
				})
			}
			p.Commits = append(p.Commits, engine.CommitRecord{
				SHA:       c.SHA,
				Timestamp: c.Date,
				RepoID:    repoID,
				Author:    engine.AuthorMeta{ID: id, Name: c.AuthorName},
				Files:     mapFiles(c.Files),
			})
		}
	}
	return p
}

func contributorID(c gitx.Commit) string {
	if c.AuthorEmail != "" {
		return strings.ToLower(c.AuthorEmail)
	}
	return strings.ToLower(c.AuthorName)
}

func mapFiles(files []gitx.File) []engine.FileChange {
	out := make([]engine.FileChange, 0, len(files))
	for _, f := range files {
		out = append(out, engine.FileChange{
			Path:      f.Path,
			OldPath:   f.OldPath,
			Type:      changeType(f.Status),
			Additions: f.Additions,
			Deletions: f.Deletions,
		})
	}
	return out
}

func changeType(status string) engine.ChangeType {
	switch status {
	case "A":
		return engine.ChangeAdd
	case "D":
		return engine.ChangeDelete
	case "R":
		return engine.ChangeRename
	default:
		return engine.ChangeModify
	}
}

func engineSettings(cfg config.Config) engine.Settings {
	return engine.Settings{
		NodeSizeScale: cfg.NodeSizeScale,
		ShowLabels:    cfg.ShowLabels,
		ShowAvatars:   cfg.ShowAvatars,
		DecayWindowMs: cfg.DecayWindowMs,
		ZoomMin:       cfg.ZoomMin,
		ZoomMax:       cfg.ZoomMax,
	}
}
