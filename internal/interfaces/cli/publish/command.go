package publish

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	publishApp "github.com/faqplusplus/faqplusplus/internal/application/publish"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/blobstore"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/config"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/database"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/qnamaker"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/repository"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/scheduler"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/search"
	"github.com/faqplusplus/faqplusplus/internal/interfaces/cli/bootstrap"
	"github.com/faqplusplus/faqplusplus/internal/shared/constants"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

var (
	env  string
	once bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish knowledge bases and rebuild their search projections",
		Long: `Publish every configured language whose knowledge base has pending edits,
then rewrite its search projection. Without --once the job repeats on the
configured interval until interrupted.`,
		RunE: run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	cmd.Flags().BoolVar(&once, "once", false, "Run a single pass and exit")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap.LoadWithDatabase(bootstrap.Environment(env))
	if err != nil {
		return err
	}
	defer database.Close()

	base := cmd.Context()
	if base == nil {
		base = context.Background()
	}
	ctx, stop := signal.NotifyContext(base, os.Interrupt, syscall.SIGTERM)
	defer stop()

	job, closeStore, err := newJob(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	if once {
		report := job.Run(ctx)
		printReport(cmd.OutOrStdout(), report)
		for _, o := range report {
			if o.Err != nil {
				return fmt.Errorf("publish finished with failures")
			}
		}
		return nil
	}

	mgr, err := scheduler.NewSchedulerManager(log.Named("scheduler"))
	if err != nil {
		return err
	}
	if err := mgr.RegisterPublishJob(job, cfg.Publish.Interval, cfg.Publish.Timeout); err != nil {
		return err
	}
	mgr.Start()
	log.Infow("publish schedule running", "interval", cfg.Publish.Interval)

	<-ctx.Done()
	return mgr.Stop()
}

func newJob(ctx context.Context, cfg *config.Config, log logger.Interface) (*publishApp.Job, func(), error) {
	store, err := blobstore.Open(ctx, cfg.Storage, log.Named("blobstore"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open projection storage: %w", err)
	}
	closeStore := func() {
		if err := store.Close(); err != nil {
			log.Warnw("failed to close projection storage", "error", err)
		}
	}

	var index publishApp.SearchIndex
	if cfg.Elasticsearch.Enabled {
		es, err := search.NewClient(cfg.Elasticsearch)
		if err != nil {
			closeStore()
			return nil, nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
		}
		index = search.NewKnowledgeBaseIndex(es, cfg.Elasticsearch.KnowledgeBaseIndex, log.Named("search"))
	}

	job := publishApp.NewJob(
		qnamaker.NewRouter(cfg.QnAMaker, log.Named("qnamaker")),
		repository.NewConfigurationRepository(database.Get(), log),
		store,
		index,
		nil,
		log.Named("publish"),
	)
	return job, closeStore, nil
}

func printReport(w io.Writer, report publishApp.Report) {
	languages := make([]string, 0, len(report))
	for lang := range report {
		languages = append(languages, lang)
	}
	sort.Strings(languages)

	for _, lang := range languages {
		o := report[lang]
		if o.Err != nil {
			fmt.Fprintf(w, "%-8s %-14s %v\n", lang, o.Stage, o.Err)
			continue
		}
		fmt.Fprintf(w, "%-8s %s\n", lang, o.Stage)
	}
}
