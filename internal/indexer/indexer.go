// Package indexer scans a Telegram channel's history and inserts discovered
// movie files into the catalog.
package indexer

import (
	"context"
	"fmt"

	"github.com/gotd/td/tg"

	"github.com/mrmalikoffl/movies-req-bot/internal/catalog"
	"github.com/mrmalikoffl/movies-req-bot/internal/config"
	"github.com/mrmalikoffl/movies-req-bot/internal/logger"
	"github.com/mrmalikoffl/movies-req-bot/internal/mtproto"
	"github.com/mrmalikoffl/movies-req-bot/internal/util"
)

type Mode string

const (
	ModeSingle Mode = "single" // one pass, newest first, capped
	ModeBatch  Mode = "batch"  // full history in pages with a delay
)

func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeSingle:
		return ModeSingle, true
	case ModeBatch:
		return ModeBatch, true
	}
	return "", false
}

// FileIDResolver obtains a Bot API file identifier for a channel message.
// The bot front-end implements it by forwarding the message to a chat it
// can write to and deleting the copy.
type FileIDResolver interface {
	ResolveFileID(channelID int64, messageID int) (string, error)
}

// Report accumulates indexing counters.
type Report struct {
	Processed   int
	Indexed     int
	Duplicates  int
	Unsupported int
	Errors      int
}

func (r Report) String() string {
	return fmt.Sprintf(
		"Total messages processed: %d\nMovies indexed: %d\nDuplicates skipped: %d\nUnsupported files: %d\nErrors occurred: %d",
		r.Processed, r.Indexed, r.Duplicates, r.Unsupported, r.Errors)
}

// Progress is invoked every progressEvery processed messages with a
// snapshot of the counters.
type Progress func(Report)

const progressEvery = 20

// ChannelHistory is the slice of the MTProto client the indexer needs.
type ChannelHistory interface {
	ResolveChannel(ctx context.Context, chatID int64) (*tg.InputChannel, error)
	WalkHistory(ctx context.Context, channel *tg.InputChannel, opts mtproto.HistoryOptions, fn func(mtproto.HistoryItem) error) error
}

// CatalogStore is the slice of the storage layer the indexer needs.
type CatalogStore interface {
	AddMovie(ctx context.Context, movie *catalog.Movie) (bool, error)
}

type Indexer struct {
	mt       ChannelHistory
	store    CatalogStore
	resolver FileIDResolver
	cfg      config.IndexConfig
}

func New(mt ChannelHistory, store CatalogStore, resolver FileIDResolver, cfg config.IndexConfig) *Indexer {
	return &Indexer{mt: mt, store: store, resolver: resolver, cfg: cfg}
}

// Run indexes the channel identified by its Bot API chat id (-100...).
// Cancelling ctx stops the walk; the counters gathered so far are still
// returned alongside the context error.
func (ix *Indexer) Run(ctx context.Context, chatID int64, mode Mode, progress Progress) (Report, error) {
	var report Report

	channel, err := ix.mt.ResolveChannel(ctx, chatID)
	if err != nil {
		return report, err
	}

	opts := mtproto.HistoryOptions{PageSize: ix.cfg.BatchSize}
	switch mode {
	case ModeBatch:
		opts.PageDelay = ix.cfg.BatchDelayDur
	default:
		opts.MaxTotal = ix.cfg.MaxMessages
	}

	err = ix.mt.WalkHistory(ctx, channel, opts, func(item mtproto.HistoryItem) error {
		report.Processed++
		defer func() {
			if progress != nil && report.Processed%progressEvery == 0 {
				progress(report)
			}
		}()

		if item.Document == nil || item.MimeType != catalog.MimeMatroska {
			report.Unsupported++
			return nil
		}

		title, year, quality, parseErr := catalog.ParseFilename(item.FileName)
		if parseErr != nil {
			logger.Warn.Printf("error parsing %q: %v", item.FileName, parseErr)
			report.Errors++
			return nil
		}

		fileID, resolveErr := ix.resolver.ResolveFileID(chatID, item.MessageID)
		if resolveErr != nil {
			logger.Error.Printf("error getting file ID for %q: %v", item.FileName, resolveErr)
			report.Errors++
			return nil
		}

		movie := &catalog.Movie{
			Title:     title,
			Year:      year,
			Quality:   quality,
			Language:  catalog.DetectLanguage(item.FileName),
			FileSize:  util.FormatFileSize(item.Size),
			FileID:    fileID,
			MessageID: item.MessageID,
			ChannelID: chatID,
		}

		added, addErr := ix.store.AddMovie(ctx, movie)
		if addErr != nil {
			logger.Error.Printf("error storing %q: %v", item.FileName, addErr)
			report.Errors++
			return nil
		}
		if !added {
			report.Duplicates++
			return nil
		}

		report.Indexed++
		logger.Info.Printf("indexed: %s (%d)", title, year)
		return nil
	})

	return report, err
}
