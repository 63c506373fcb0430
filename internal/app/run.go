package app

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/courseflow/internal/chart"
	"github.com/vk/courseflow/internal/config"
	"github.com/vk/courseflow/internal/ctxlog"
	"github.com/vk/courseflow/internal/ingest"
	"github.com/vk/courseflow/internal/render"
	"github.com/vk/courseflow/internal/report"
	"github.com/vk/courseflow/internal/resolver"
)

// Run executes the pipeline: ingest, finalize, then build and render every
// selected chart.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	level, err := report.LevelFromString(a.config.InfoLevel)
	if err != nil {
		return err
	}
	reporter := report.New(a.outW, level)

	fileCfg, err := a.loadFileConfig()
	if err != nil {
		return err
	}

	res, err := a.load(reporter)
	if err != nil {
		return err
	}
	a.logger.Debug("Curriculum finalized.",
		"topics", res.Topics().Len(), "events", res.Events().Len())

	baseCtx := chart.Context{
		Resolver:  res,
		Reporter:  reporter,
		DebugRank: a.config.DebugRank,
	}

	if a.config.AllTopics {
		cc := baseCtx
		cc.Style = fileCfg.Style("topics")
		if err := a.save(ctx, chart.NewTopics(cc), fileCfg); err != nil {
			return err
		}
	}
	if a.config.TopicsByEvent {
		cc := baseCtx
		cc.Style = fileCfg.Style("topics_by_event")
		if err := a.save(ctx, chart.NewTopicsByEvent(cc), fileCfg); err != nil {
			return err
		}
	}
	for _, query := range a.config.EventQueries {
		ev, ok := res.FindEvent(query)
		if !ok {
			return fmt.Errorf("event query %q was ambiguous or matched nothing", query)
		}
		cc := baseCtx
		cc.Style = fileCfg.Style("event")
		cc.FocusEvent = ev
		if err := a.save(ctx, chart.NewFocusEvent(cc), fileCfg); err != nil {
			return err
		}
	}
	for _, query := range a.config.TopicQueries {
		t, ok := res.FindTopic(query)
		if !ok {
			return fmt.Errorf("topic query %q was ambiguous or matched nothing", query)
		}
		cc := baseCtx
		cc.Style = fileCfg.Style("topic")
		cc.FocusTopic = t
		if err := a.save(ctx, chart.NewFocusTopic(cc), fileCfg); err != nil {
			return err
		}
	}
	if a.config.Full {
		cc := baseCtx
		cc.Style = fileCfg.Style("full")
		if err := a.save(ctx, chart.NewFull(cc), fileCfg); err != nil {
			return err
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// loadFileConfig resolves the optional HCL config and applies CLI overrides.
func (a *App) loadFileConfig() (*config.Config, error) {
	fileCfg := config.Default()
	if a.config.ConfigPath != "" {
		loaded, err := config.Load(a.config.ConfigPath)
		if err != nil {
			return nil, err
		}
		fileCfg = loaded
	}
	if a.config.OutputDir != "" {
		fileCfg.OutputDir = a.config.OutputDir
	}
	if a.config.OutputPrefix != "" {
		fileCfg.OutputPrefix = a.config.OutputPrefix
	}
	return fileCfg, nil
}

// load ingests both tables and finalizes the resolver.
func (a *App) load(reporter *report.Reporter) (*resolver.Resolver, error) {
	topicsFile, err := os.Open(a.config.TopicsPath)
	if err != nil {
		return nil, fmt.Errorf("opening topics file: %w", err)
	}
	defer topicsFile.Close()
	eventsFile, err := os.Open(a.config.EventsPath)
	if err != nil {
		return nil, fmt.Errorf("opening events file: %w", err)
	}
	defer eventsFile.Close()

	res := resolver.New(reporter)
	if err := ingest.New(res, reporter).Read(topicsFile, eventsFile); err != nil {
		return nil, err
	}
	if err := res.Finalize(); err != nil {
		return nil, err
	}
	return res, nil
}

// save builds one chart and writes it out.
func (a *App) save(ctx context.Context, builder chart.Builder, fileCfg *config.Config) error {
	g, err := builder.Build()
	if err != nil {
		return err
	}
	path, err := render.Save(g, fileCfg.OutputDir, fileCfg.OutputPrefix)
	if err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("Chart rendered.", "chart", g.Name, "path", path)
	fmt.Fprintf(a.outW, "Chart saved to %s\n", path)
	return nil
}
