package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zzztools/banner-events/internal/banner"
	"github.com/zzztools/banner-events/internal/calendar"
	"github.com/zzztools/banner-events/internal/config"
	"github.com/zzztools/banner-events/internal/crawler"
	"github.com/zzztools/banner-events/internal/logger"
	"github.com/zzztools/banner-events/internal/version"
)

const ExitError = 1

var (
	flagConfig    string
	flagKeyword   string
	flagOutput    string
	flagCacheFile string
	flagVerbose   bool
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zzz-banner-events",
		Short: "Generate an ICS calendar of ZZZ agent banner events",
		Long: `Scrapes the miyoushe community for Zenless Zone Zero channel ("调频")
announcement posts, extracts each agent banner's active time window, and
writes a subscribable ICS calendar file.`,
		RunE:          runGenerate,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&flagConfig, "config", "", "Optional YAML config file")
	cmd.Flags().StringVar(&flagKeyword, "keyword", "", "Search keyword (default 调频说明)")
	cmd.Flags().StringVar(&flagOutput, "output", "", "ICS output path (default zzz_events.ics)")
	cmd.Flags().StringVar(&flagCacheFile, "cache-file", "", "Version cache path (default version.json)")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	return cmd
}

// runGenerate is the whole pipeline: crawl posts, extract events, merge
// windows, write the calendar. One post's failure never stops the run;
// only "nothing crawled" or "nothing extracted" ends it without output.
func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	applyFlags(cfg)
	configureLogging(cfg)

	ctx := cmd.Context()

	cr, stop := crawler.New(ctx, crawler.Options{
		SearchURL:   cfg.SearchURL,
		PageTimeout: time.Duration(cfg.PageTimeoutSec) * time.Second,
	})
	defer stop()

	crawlStart := time.Now()
	refs, err := cr.ListPosts(cfg.Keyword)
	logger.RecordTiming("crawl.search", time.Since(crawlStart))
	if err != nil {
		return fmt.Errorf("searching posts: %w", err)
	}
	if len(refs) == 0 {
		return fmt.Errorf("no posts found for keyword %q", cfg.Keyword)
	}
	logger.Info("fetched post listing", logger.Fields{
		"keyword": cfg.Keyword,
		"count":   len(refs),
	})

	resolver := version.NewResolver(
		version.NewFileStore(cfg.VersionCacheFile),
		version.NewSearchClientWithURL(cfg.SearchAPIURL),
	)
	extractor := banner.NewExtractor(resolver)

	candidates := make([]banner.CandidateEvent, 0, len(refs))
	for _, ref := range refs {
		fetchStart := time.Now()
		post, err := cr.FetchPost(ref)
		logger.RecordTiming("crawl.post", time.Since(fetchStart))
		if err != nil {
			logger.IncrCounter("posts.fetch_failed")
			logger.Error("fetching post failed", logger.Fields{
				"post": ref.Title,
				"url":  ref.URL,
			}, err)
			continue
		}

		evt, err := extractor.Extract(ctx, post)
		if err != nil {
			reportSkip(post.Title, err)
			continue
		}

		logger.IncrCounter("posts.extracted")
		logger.Info("extracted banner event", logger.Fields{
			"title": evt.Title,
			"start": evt.Start.Format("2006-01-02 15:04:05"),
			"end":   evt.End.Format("2006-01-02 15:04:05"),
		})
		candidates = append(candidates, evt)
	}

	if len(candidates) == 0 {
		return errors.New("no banner events extracted from any post")
	}

	merged := banner.Merge(candidates)
	entries := calendar.BuildAll(merged)
	logger.SetGauge("events.merged", float64(len(merged)))
	logger.SetGauge("calendar.entries", float64(len(entries)))

	if err := calendar.WriteFile(cfg.OutputFile, entries); err != nil {
		return err
	}

	logger.Info("calendar written", logger.Fields{
		"path":    cfg.OutputFile,
		"events":  len(merged),
		"entries": len(entries),
	})
	logger.Debug("run metrics", logger.MetricsSnapshot())
	return nil
}

func applyFlags(cfg *config.Config) {
	if flagKeyword != "" {
		cfg.Keyword = flagKeyword
	}
	if flagOutput != "" {
		cfg.OutputFile = flagOutput
	}
	if flagCacheFile != "" {
		cfg.VersionCacheFile = flagCacheFile
	}
}

func configureLogging(cfg *config.Config) {
	level := logger.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = logger.LevelDebug
	case "warn":
		level = logger.LevelWarn
	case "error":
		level = logger.LevelError
	}
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, os.Stderr))
}

// reportSkip logs one dropped post at a severity matching how expected
// the failure is: policy rejections are routine, missing data is worth a
// warning, anything else is an error.
func reportSkip(title string, err error) {
	fields := logger.Fields{
		"post":   title,
		"reason": err.Error(),
	}

	switch {
	case errors.Is(err, banner.ErrEngineContent),
		errors.Is(err, banner.ErrNoAgentKeyword):
		logger.IncrCounter("posts.skipped.policy")
		logger.Info("skipping post", fields)
	case errors.Is(err, banner.ErrEmptyBody),
		errors.Is(err, banner.ErrNoTimeWindow),
		errors.Is(err, banner.ErrInvalidWindow),
		errors.Is(err, version.ErrUnknownVersion):
		logger.IncrCounter("posts.skipped.missing_data")
		logger.Warn("dropping post", fields)
	default:
		logger.IncrCounter("posts.skipped.error")
		logger.Error("extracting post failed", logger.Fields{"post": title}, err)
	}
}

// Execute runs the CLI.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
