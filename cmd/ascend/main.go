package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ascendhq/ascend-console-go/internal/api"
	"github.com/ascendhq/ascend-console-go/internal/config"
	"github.com/ascendhq/ascend-console-go/internal/domain"
	"github.com/ascendhq/ascend-console-go/internal/infra/cache"
	"github.com/ascendhq/ascend-console-go/internal/infra/observability"
	"github.com/ascendhq/ascend-console-go/internal/infra/resilience"
	"github.com/ascendhq/ascend-console-go/internal/infra/state"
	"github.com/ascendhq/ascend-console-go/internal/poll"
	"github.com/ascendhq/ascend-console-go/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const usage = `ascend - Ascend business console

Usage:
  ascend <command> [flags]

Session:
  login -email E -password P     sign in
  signup -email E -password P [-name N]
  logout                         sign out
  whoami                         show the current account
  passwd -current C -new N       change password
  upgrade -plan P                upgrade subscription (starter|pro|enterprise)

Consultations:
  list                           list consultations
  show -id ID [-watch]           show one consultation; -watch polls while processing
  create -file F                 submit an intake form (JSON file)
  update -id ID [-name N] [-industry I] [-target T]
  delete -id ID                  delete a consultation
  feedback -id ID -rating R [-comment C]
  export -id ID -out F           download the PDF report

Billing and reference data:
  refresh                        re-sync account, consultations and catalog
  plans                          show the pricing catalog
  meta                           show intake reference data
  stats                          show client metrics summary
`

type app struct {
	cfg           *config.Config
	logger        *zap.Logger
	metrics       *observability.Metrics
	client        *api.Client
	session       *store.Session
	consultations *store.Consultations
	billing       *store.Billing
	meta          *store.Meta
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	_ = config.LoadDotEnv(".env")
	cfg := config.Load()

	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	if cfg.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "ascend-console")
		if err != nil {
			logger.Fatal("failed to init tracer", zap.Error(err))
		}
		defer shutdown(context.Background())
	}

	metrics := observability.NewMetrics()

	stateStore, err := state.New(cfg.StateDir, logger)
	if err != nil {
		logger.Fatal("failed to open state dir", zap.Error(err))
	}

	retryCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("ascend-api")
	bulkhead := resilience.NewBulkhead(cfg.MaxConcurrency)

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	client := api.NewClient(httpClient, cfg.APIBaseURL, cb, bulkhead, metrics, logger)

	notifier := terminalNotifier{}
	metaCache := cache.New[any](cfg.CacheTTL)

	a := &app{
		cfg:           cfg,
		logger:        logger,
		metrics:       metrics,
		client:        client,
		session:       store.NewSession(client, client, stateStore, notifier, metrics, retryCfg, logger),
		consultations: store.NewConsultations(client, stateStore, notifier, metrics, logger),
		billing:       store.NewBilling(client, metrics, logger),
		meta:          store.NewMeta(client, metaCache, metrics),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	if cfg.MetricsAddr != "" {
		srv := debugServer(cfg.MetricsAddr, metrics, logger)
		g.Go(func() error {
			logger.Info("debug listener starting", zap.String("addr", cfg.MetricsAddr))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shCtx)
		})
	}

	code := a.run(ctx, os.Args[1], os.Args[2:])
	stop()
	if err := g.Wait(); err != nil {
		logger.Warn("debug listener", zap.Error(err))
	}
	os.Exit(code)
}

// debugServer exposes /metrics for local inspection. It never binds
// unless METRICS_ADDR is set.
func debugServer(addr string, metrics *observability.Metrics, logger *zap.Logger) *http.Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	return &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

func (a *app) run(ctx context.Context, command string, args []string) int {
	var err error
	switch command {
	case "login":
		err = a.cmdLogin(ctx, args)
	case "signup":
		err = a.cmdSignup(ctx, args)
	case "logout":
		a.session.Logout()
		fmt.Println("Signed out.")
	case "whoami":
		err = a.cmdWhoami(ctx)
	case "passwd":
		err = a.cmdPasswd(ctx, args)
	case "upgrade":
		err = a.cmdUpgrade(ctx, args)
	case "list":
		err = a.cmdList(ctx)
	case "show":
		err = a.cmdShow(ctx, args)
	case "create":
		err = a.cmdCreate(ctx, args)
	case "update":
		err = a.cmdUpdate(ctx, args)
	case "delete":
		err = a.cmdDelete(ctx, args)
	case "feedback":
		err = a.cmdFeedback(ctx, args)
	case "export":
		err = a.cmdExport(ctx, args)
	case "refresh":
		err = a.cmdRefresh(ctx)
	case "plans":
		err = a.cmdPlans(ctx)
	case "meta":
		err = a.cmdMeta(ctx)
	case "stats":
		a.cmdStats()
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", command, usage)
		return 2
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", domain.ErrorDetail(err, err.Error()))
		return 1
	}
	return 0
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	if err := a.session.Login(ctx, domain.Credentials{Email: *email, Password: *password}); err != nil {
		return err
	}
	u := a.session.User()
	fmt.Printf("Signed in as %s (%s plan)\n", u.Email, u.Subscription)
	return nil
}

func (a *app) cmdSignup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	name := fs.String("name", "", "display name")
	fs.Parse(args)

	if err := a.session.Signup(ctx, domain.SignupForm{Email: *email, Password: *password, Name: *name}); err != nil {
		return err
	}
	fmt.Printf("Account created; signed in as %s\n", a.session.User().Email)
	return nil
}

func (a *app) cmdWhoami(ctx context.Context) error {
	if err := a.session.FetchUser(ctx); err != nil {
		return err
	}
	u := a.session.User()
	fmt.Printf("%s <%s>\n", u.Name, u.Email)
	fmt.Printf("  plan: %s\n", u.Subscription)
	if u.Unlimited() {
		fmt.Println("  consultations: unlimited")
	} else {
		fmt.Printf("  consultations: %d/%d used\n", u.ConsultationsUsed, u.ConsultationsLimit)
	}
	return nil
}

func (a *app) cmdPasswd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("passwd", flag.ExitOnError)
	current := fs.String("current", "", "current password")
	newPw := fs.String("new", "", "new password")
	fs.Parse(args)

	return a.session.ChangePassword(ctx, domain.PasswordChange{
		Current: *current,
		New:     *newPw,
		Confirm: *newPw,
	})
}

func (a *app) cmdUpgrade(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("upgrade", flag.ExitOnError)
	plan := fs.String("plan", "", "target plan: starter, pro or enterprise")
	fs.Parse(args)

	return a.session.UpgradePlan(ctx, domain.SubscriptionPlan(*plan))
}

func (a *app) cmdList(ctx context.Context) error {
	if err := a.consultations.FetchConsultations(ctx); err != nil {
		return err
	}
	items := a.consultations.All()
	if len(items) == 0 {
		fmt.Println("No consultations yet.")
		return nil
	}
	for _, c := range items {
		fmt.Printf("%s  %-10s  %-28s  %s\n",
			c.ID, c.Status, c.Business.Name, c.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func (a *app) cmdShow(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	id := fs.String("id", "", "consultation id")
	watch := fs.Bool("watch", false, "poll while the consultation is processing")
	fs.Parse(args)

	c, err := a.consultations.FetchConsultationByID(ctx, *id)
	if err != nil {
		return err
	}
	if c == nil {
		fmt.Println("Consultation not found.")
		return nil
	}

	if *watch && c.IsProcessing() {
		fmt.Println("Processing; waiting for the analysis to finish...")
		watcher := poll.NewWatcher(a.consultations, nil, a.cfg.PollInterval, a.metrics, a.logger)
		c, err = watcher.Watch(ctx, *id)
		if err != nil {
			return err
		}
		if c == nil {
			fmt.Println("Consultation disappeared while processing.")
			return nil
		}
	}

	printConsultation(c)
	return nil
}

func (a *app) cmdCreate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	file := fs.String("file", "", "intake form JSON file")
	fs.Parse(args)

	data, err := os.ReadFile(*file)
	if err != nil {
		return err
	}
	var form domain.ConsultationForm
	if err := json.Unmarshal(data, &form); err != nil {
		return fmt.Errorf("parse intake form: %w", err)
	}

	// The consultation tier follows from the account's subscription;
	// the intake form never chooses it.
	if a.session.User() == nil {
		if err := a.session.FetchUser(ctx); err != nil {
			return err
		}
	}
	form.Plan = domain.PlanForSubscription(a.session.User().Subscription)

	id, err := a.consultations.CreateConsultation(ctx, form)
	if err != nil {
		return err
	}
	fmt.Printf("Consultation %s submitted; analysis is processing.\n", id)
	return nil
}

func (a *app) cmdUpdate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	id := fs.String("id", "", "consultation id")
	name := fs.String("name", "", "new business name")
	industry := fs.String("industry", "", "new industry")
	target := fs.Float64("target", 0, "new target revenue (USD)")
	fs.Parse(args)

	// A flag passed with an empty (or zero) value clears the stored
	// field; an absent flag leaves it untouched.
	var update domain.ConsultationUpdate
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			update.BusinessName = name
		case "industry":
			update.Industry = industry
		case "target":
			update.TargetRevenue = target
		}
	})
	return a.consultations.UpdateConsultation(ctx, *id, update)
}

func (a *app) cmdDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.String("id", "", "consultation id")
	fs.Parse(args)
	return a.consultations.DeleteConsultation(ctx, *id)
}

func (a *app) cmdFeedback(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("feedback", flag.ExitOnError)
	id := fs.String("id", "", "consultation id")
	rating := fs.Int("rating", 0, "rating 1-5")
	comment := fs.String("comment", "", "optional comment")
	fs.Parse(args)

	return a.consultations.SubmitFeedback(ctx, *id, domain.FeedbackForm{
		Rating:  *rating,
		Comment: *comment,
	})
}

func (a *app) cmdExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	id := fs.String("id", "", "consultation id")
	out := fs.String("out", "", "output file")
	fs.Parse(args)

	data, err := a.client.ExportPDF(ctx, *id)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("Report written to %s (%d bytes)\n", *out, len(data))
	return nil
}

// cmdRefresh re-syncs the three stores in parallel, the console's
// equivalent of a dashboard load.
func (a *app) cmdRefresh(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.session.FetchUser(ctx) })
	g.Go(func() error { return a.consultations.FetchConsultations(ctx) })
	g.Go(func() error {
		_, err := a.billing.FetchPlans(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	fmt.Printf("Synced: %d consultations, %d plans.\n",
		len(a.consultations.All()), len(a.billing.Catalog().Plans))
	return nil
}

func (a *app) cmdPlans(ctx context.Context) error {
	catalog, err := a.billing.FetchPlans(ctx)
	if err != nil {
		return err
	}
	for _, p := range catalog.Plans {
		fmt.Printf("%-12s $%.2f/mo  %s", p.ID, p.PriceMonthlyUSD, p.Name)
		if p.Badge != "" {
			fmt.Printf("  [%s]", p.Badge)
		}
		fmt.Println()
		for _, f := range p.Features {
			fmt.Printf("    - %s\n", f)
		}
	}
	return nil
}

func (a *app) cmdMeta(ctx context.Context) error {
	industries, err := a.meta.Industries(ctx)
	if err != nil {
		return err
	}
	stages, err := a.meta.BusinessStages(ctx)
	if err != nil {
		return err
	}
	fmt.Println("Industries:")
	for _, ind := range industries {
		fmt.Printf("  %s\n", ind)
	}
	fmt.Println("Business stages:")
	for _, s := range stages {
		fmt.Printf("  %-12s %s\n", s.Value, s.Label)
	}
	return nil
}

func (a *app) cmdStats() {
	stats := a.metrics.Snapshot()
	fmt.Printf("API errors:     %.0f\n", stats.APIErrors)
	fmt.Printf("Store actions:  %.0f (%.0f failed, %.1f%% error rate)\n",
		stats.StoreActions, stats.ActionErrors, stats.ErrorRate*100)
	fmt.Printf("Cache hit rate: %.1f%%\n", stats.CacheHitRate*100)
	fmt.Printf("Poll ticks:     %.0f\n", stats.PollTicks)
}

func printConsultation(c *domain.Consultation) {
	fmt.Printf("%s  [%s]\n", c.Business.Name, c.Status)
	fmt.Printf("  id:       %s\n", c.ID)
	fmt.Printf("  type:     %s, stage %s\n", c.Business.Type, c.Business.Stage)
	fmt.Printf("  goal:     %s\n", c.Goal)
	fmt.Printf("  created:  %s\n", c.CreatedAt.Format(time.RFC1123))
	if c.ProcessingTime != nil {
		fmt.Printf("  analyzed in %.1fs\n", *c.ProcessingTime)
	}
	if c.RefinedStrategy != "" {
		fmt.Printf("\n%s\n", c.RefinedStrategy)
	}
	if c.Feedback != nil {
		fmt.Printf("\nFeedback: %d/5", c.Feedback.Rating)
		if c.Feedback.Comment != "" {
			fmt.Printf(" - %s", c.Feedback.Comment)
		}
		fmt.Println()
	}
}

// terminalNotifier renders store notifications as terminal lines, the
// console's stand-in for toast popups.
type terminalNotifier struct{}

func (terminalNotifier) Success(msg string) { fmt.Println("✔", msg) }
func (terminalNotifier) Error(msg string)   { fmt.Fprintln(os.Stderr, "✘", msg) }
