// Command brandwatch monitors chat-style message sources for brand
// mentions, in message text and in attached images, and records an alert
// for every mention it finds.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"

	"github.com/nhle/brandwatch/internal/credential"
	"github.com/nhle/brandwatch/internal/extract"
	"github.com/nhle/brandwatch/internal/match"
	"github.com/nhle/brandwatch/internal/model"
	"github.com/nhle/brandwatch/internal/ocr"
	"github.com/nhle/brandwatch/internal/pipeline"
	"github.com/nhle/brandwatch/internal/source"
	"github.com/nhle/brandwatch/internal/source/email"
	"github.com/nhle/brandwatch/internal/source/scripted"
	"github.com/nhle/brandwatch/internal/store"
	"github.com/nhle/brandwatch/internal/theme"
	"github.com/nhle/brandwatch/internal/ui/monitor"
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to the config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})
	if *debug {
		logger.SetLevel(log.DebugLevel)
	}

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("loading config", "err", err)
	}

	st, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		logger.Fatal("opening database", "path", cfg.DBPath, "err", err)
	}
	defer st.Close()

	matcher := match.New(cfg.Vocabulary())

	app := &app{
		cfg:     cfg,
		store:   st,
		matcher: matcher,
		log:     logger,
	}
	if err := app.run(); err != nil {
		logger.Fatal("exiting", "err", err)
	}
}

// app carries the long-lived dependencies behind the menu loop.
type app struct {
	cfg     *model.AppConfig
	store   *store.SQLiteStore
	matcher *match.Matcher
	log     *log.Logger
}

// run shows the main menu until the user quits.
func (a *app) run() error {
	for {
		var choice string
		form := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title("Brand Watch").
				Description("Monitor message sources for brand mentions.").
				Options(
					huh.NewOption("Start monitoring", "monitor"),
					huh.NewOption("Review recent alerts", "alerts"),
					huh.NewOption("Show statistics", "stats"),
					huh.NewOption("Quit", "quit"),
				).
				Value(&choice),
		))
		if err := form.Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}

		switch choice {
		case "monitor":
			if err := a.runMonitor(); err != nil {
				a.log.Error("monitoring session failed", "err", err)
			}
		case "alerts":
			if err := a.showRecentAlerts(); err != nil {
				a.log.Error("listing alerts failed", "err", err)
			}
		case "stats":
			if err := a.showStats(); err != nil {
				a.log.Error("loading statistics failed", "err", err)
			}
		case "quit":
			return nil
		}
	}
}

// runMonitor picks a source and group set, then runs the live pipeline
// until the user stops it.
func (a *app) runMonitor() error {
	sc, err := a.chooseSource()
	if err != nil {
		return err
	}

	src, err := a.buildSource(sc)
	if err != nil {
		return err
	}
	defer src.Close()

	groupIDs, err := a.chooseGroups(sc, src)
	if err != nil {
		return err
	}

	var recognizer extract.Recognizer
	if a.cfg.OCR.Enabled {
		recognizer = ocr.New(
			src,
			ocr.NewTesseractEngine(),
			ocr.ProfilesByName(a.cfg.OCR.Profiles),
			a.log,
		)
	}

	p := pipeline.New(a.store, extract.New(recognizer), a.matcher,
		pipeline.WithGrace(time.Duration(a.cfg.ShutdownGraceSec)*time.Second),
		pipeline.WithLogger(a.log),
	)

	m := monitor.New(p, src, groupIDs)
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("running monitor view: %w", err)
	}
	if mm, ok := final.(monitor.Model); ok && mm.Err() != nil {
		return mm.Err()
	}
	return nil
}

// chooseSource returns the enabled source to monitor, prompting when
// more than one is configured.
func (a *app) chooseSource() (model.SourceConfig, error) {
	var enabled []model.SourceConfig
	for _, sc := range a.cfg.Sources {
		if sc.Enabled {
			enabled = append(enabled, sc)
		}
	}
	if len(enabled) == 0 {
		return model.SourceConfig{}, errors.New("no enabled sources configured; add one to " + model.DefaultConfigPath())
	}
	if len(enabled) == 1 {
		return enabled[0], nil
	}

	var idx int
	opts := make([]huh.Option[int], len(enabled))
	for i, sc := range enabled {
		label := sc.Name
		if label == "" {
			label = sc.ID
		}
		opts[i] = huh.NewOption(fmt.Sprintf("%s (%s)", label, sc.Type), i)
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[int]().Title("Source").Options(opts...).Value(&idx),
	))
	if err := form.Run(); err != nil {
		return model.SourceConfig{}, err
	}
	return enabled[idx], nil
}

// buildSource constructs the source adapter for a config entry.
func (a *app) buildSource(sc model.SourceConfig) (source.Source, error) {
	interval := time.Duration(sc.PollIntervalSec) * time.Second

	switch sc.Type {
	case "email":
		password, err := a.emailPassword(sc)
		if err != nil {
			return nil, err
		}
		useTLS := sc.Config["starttls"] != "true"
		client := email.NewIMAPClient(
			sc.Config["host"],
			sc.Config["port"],
			sc.Config["username"],
			password,
			sc.Config["mailbox"],
			useTLS,
		)
		return email.NewAdapter(client, sc.Name, interval), nil

	case "scripted":
		path := sc.Config["path"]
		if path == "" {
			return nil, fmt.Errorf("scripted source %q has no path configured", sc.ID)
		}
		var delay time.Duration
		if ms := sc.Config["delay_ms"]; ms != "" {
			n, err := strconv.Atoi(ms)
			if err != nil {
				return nil, fmt.Errorf("scripted source %q: bad delay_ms %q", sc.ID, ms)
			}
			delay = time.Duration(n) * time.Millisecond
		}
		return scripted.New(path, delay)

	default:
		return nil, fmt.Errorf("unknown source type %q", sc.Type)
	}
}

// emailPassword loads the IMAP password from the keyring, prompting for
// it (and storing it) on first use.
func (a *app) emailPassword(sc model.SourceConfig) (string, error) {
	key := fmt.Sprintf("%s-%s", sc.Type, sc.ID)

	password, err := credential.Get(key)
	if err == nil && password != "" {
		return password, nil
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title(fmt.Sprintf("Password for %s", sc.Config["username"])).
			EchoMode(huh.EchoModePassword).
			Value(&password),
	))
	if err := form.Run(); err != nil {
		return "", err
	}
	if password == "" {
		return "", errors.New("no password provided")
	}

	if err := credential.Set(key, password); err != nil {
		// Losing the save only means re-prompting next run.
		a.log.Warn("could not store credential", "key", key, "err", err)
	}
	return password, nil
}

// chooseGroups resolves which of the source's groups to monitor, either
// from a preset selection string in the source config or interactively.
func (a *app) chooseGroups(sc model.SourceConfig, src source.Source) ([]int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	groups, err := src.ListGroups(ctx)
	if err != nil {
		var authErr *source.AuthError
		if errors.As(err, &authErr) {
			return nil, fmt.Errorf("authentication failed for %s: %s", authErr.SourceType, authErr.Message)
		}
		return nil, fmt.Errorf("listing groups: %w", err)
	}

	if preset := sc.Config["groups"]; preset != "" {
		ids, err := source.SelectGroups(groups, preset)
		if err != nil {
			return nil, fmt.Errorf("preset group selection %q: %w", preset, err)
		}
		return ids, nil
	}

	var eligible []model.Group
	for _, g := range groups {
		if g.IsGroupOrChannel {
			eligible = append(eligible, g)
		}
	}
	if len(eligible) == 0 {
		return nil, source.ErrNoGroups
	}
	if len(eligible) == 1 {
		return []int64{eligible[0].ID}, nil
	}

	var ids []int64
	opts := make([]huh.Option[int64], len(eligible))
	for i, g := range eligible {
		opts[i] = huh.NewOption(g.Name, g.ID)
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewMultiSelect[int64]().
			Title("Groups to monitor").
			Options(opts...).
			Validate(func(sel []int64) error {
				if len(sel) == 0 {
					return source.ErrEmptySelection
				}
				return nil
			}).
			Value(&ids),
	))
	if err := form.Run(); err != nil {
		return nil, err
	}
	return ids, nil
}

// showRecentAlerts prints the newest alerts, newest first.
func (a *app) showRecentAlerts() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	alerts, err := a.store.RecentAlerts(ctx, a.cfg.RecentLimit)
	if err != nil {
		return err
	}

	fmt.Println(theme.HeaderStyle.Render(fmt.Sprintf("Recent Alerts (%d)", len(alerts))))
	if len(alerts) == 0 {
		fmt.Println(theme.HelpStyle.Render("No alerts recorded yet."))
		return nil
	}

	for _, ra := range alerts {
		fmt.Printf("%s %s %s in %s\n  %s\n",
			theme.TimestampStyle.Render(ra.CreatedAt.Local().Format("2006-01-02 15:04:05")),
			theme.KindStyle(ra.Kind).Render(fmt.Sprintf("[%s]", ra.Kind)),
			theme.BrandStyle.Render(ra.Brand),
			theme.GroupStyle.Render(ra.GroupName),
			ra.Content,
		)
	}
	return nil
}

// showStats prints aggregate counts over everything recorded so far.
func (a *app) showStats() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stats, err := a.store.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Println(theme.HeaderStyle.Render("Statistics"))
	fmt.Printf("Messages processed: %d\n", stats.Messages)
	fmt.Printf("Alerts recorded:    %d\n", stats.Alerts)
	fmt.Printf("  from text:  %d\n", stats.ByKind[model.AlertKindText])
	fmt.Printf("  from images: %d\n", stats.ByKind[model.AlertKindImage])

	if len(stats.TopBrands) > 0 {
		fmt.Println("Top brands:")
		for _, bc := range stats.TopBrands {
			fmt.Printf("  %s %d\n", theme.BrandStyle.Render(bc.Brand), bc.Count)
		}
	}
	return nil
}
