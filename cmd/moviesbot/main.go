package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/mrmalikoffl/movies-req-bot/internal/bot"
	"github.com/mrmalikoffl/movies-req-bot/internal/config"
	"github.com/mrmalikoffl/movies-req-bot/internal/indexer"
	"github.com/mrmalikoffl/movies-req-bot/internal/logger"
	"github.com/mrmalikoffl/movies-req-bot/internal/mtproto"
	"github.com/mrmalikoffl/movies-req-bot/internal/storage"
)

type CLI struct {
	Config  string `help:"Path to config file" short:"f" default:"config.yaml"`
	Verbose bool   `help:"Verbose MTProto logging" short:"v"`

	Run   RunCmd   `cmd:"" default:"1" help:"Start the bot"`
	Index IndexCmd `cmd:"" help:"Index a channel from the terminal"`
	Stats StatsCmd `cmd:"" help:"Print catalog statistics"`
}

type RunCmd struct{}

type IndexCmd struct {
	Channel  int64  `help:"Channel chat ID (-100...)" short:"c" required:"true"`
	DumpChat int64  `help:"Chat the bot may forward through to obtain file ids (e.g. your own chat with the bot)" short:"d" required:"true"`
	Mode     string `help:"Indexing mode: single or batch" short:"m" default:"single" enum:"single,batch"`
}

type StatsCmd struct{}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli)

	cfg, err := config.LoadConfig(cli.Config)
	if err != nil {
		logger.Error.Fatal(err)
	}

	var cmdErr error
	switch ctx.Command() {
	case "run":
		cmdErr = cli.Run.Run(cfg, cli.Verbose)
	case "index":
		cmdErr = cli.Index.Run(cfg, cli.Verbose)
	case "stats":
		cmdErr = cli.Stats.Run(cfg)
	}
	if cmdErr != nil {
		logger.Error.Fatal(cmdErr)
	}
}

func connectMongo(cfg *config.Config) (*storage.Mongo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	store, err := storage.NewMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		return nil, fmt.Errorf("mongo connect failed: %w", err)
	}
	return store, nil
}

func (r *RunCmd) Run(cfg *config.Config, verbose bool) error {
	store, err := connectMongo(cfg)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	mt, err := mtproto.NewClient(cfg.Mtproto, cfg.Bot.Token, logger.Zap(verbose))
	if err != nil {
		return fmt.Errorf("mtproto client failed: %w", err)
	}
	defer mt.Close()

	b, err := bot.New(cfg, store, mt)
	if err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		logger.Info.Println("shutting down")
		b.Stop()
	}()

	b.Start()
	return nil
}

func (ix *IndexCmd) Run(cfg *config.Config, verbose bool) error {
	mode, _ := indexer.ParseMode(ix.Mode)

	store, err := connectMongo(cfg)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	mt, err := mtproto.NewClient(cfg.Mtproto, cfg.Bot.Token, logger.Zap(verbose))
	if err != nil {
		return fmt.Errorf("mtproto client failed: %w", err)
	}
	defer mt.Close()

	b, err := bot.New(cfg, store, mt)
	if err != nil {
		return err
	}

	total := int64(cfg.Index.MaxMessages)
	if mode == indexer.ModeBatch {
		total = 0 // unknown up front, grown as pages arrive
	}

	p := mpb.New(mpb.WithWidth(64))
	bar := p.New(total,
		mpb.BarStyle(),
		mpb.PrependDecorators(
			decor.Name("indexing "),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(decor.Percentage()),
	)

	last := 0
	progress := func(rep indexer.Report) {
		if mode == indexer.ModeBatch {
			bar.SetTotal(int64(rep.Processed+cfg.Index.BatchSize), false)
		}
		bar.IncrBy(rep.Processed - last)
		last = rep.Processed
	}

	report, err := b.IndexChannel(context.Background(), ix.Channel, ix.DumpChat, mode, progress)
	bar.IncrBy(report.Processed - last)
	bar.SetTotal(int64(report.Processed), true)
	p.Wait()

	fmt.Println("\n========== Indexing Report ==========")
	fmt.Println(report)
	fmt.Println("=====================================")

	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}
	return nil
}

func (s *StatsCmd) Run(cfg *config.Config) error {
	store, err := connectMongo(cfg)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	stats, err := store.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Movies indexed: %d\nUsers: %d\n", stats.Movies, stats.Users)
	return nil
}
