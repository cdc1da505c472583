package indexer

import (
	"context"
	"errors"
	"testing"

	"github.com/gotd/td/tg"

	"github.com/mrmalikoffl/movies-req-bot/internal/catalog"
	"github.com/mrmalikoffl/movies-req-bot/internal/config"
	"github.com/mrmalikoffl/movies-req-bot/internal/mtproto"
)

type fakeHistory struct {
	items []mtproto.HistoryItem
}

func (f *fakeHistory) ResolveChannel(ctx context.Context, chatID int64) (*tg.InputChannel, error) {
	return &tg.InputChannel{ChannelID: 42}, nil
}

func (f *fakeHistory) WalkHistory(ctx context.Context, channel *tg.InputChannel, opts mtproto.HistoryOptions, fn func(mtproto.HistoryItem) error) error {
	for i, item := range f.items {
		if opts.MaxTotal > 0 && i >= opts.MaxTotal {
			return nil
		}
		if err := fn(item); err != nil {
			if errors.Is(err, mtproto.ErrStopIteration) {
				return nil
			}
			return err
		}
	}
	return nil
}

type fakeStore struct {
	movies map[string]*catalog.Movie
}

func (f *fakeStore) AddMovie(ctx context.Context, movie *catalog.Movie) (bool, error) {
	if f.movies == nil {
		f.movies = make(map[string]*catalog.Movie)
	}
	if _, ok := f.movies[movie.FileID]; ok {
		return false, nil
	}
	f.movies[movie.FileID] = movie
	return true, nil
}

type fakeResolver struct {
	fail map[int]bool
}

func (f *fakeResolver) ResolveFileID(channelID int64, messageID int) (string, error) {
	if f.fail[messageID] {
		return "", errors.New("forward failed")
	}
	return "file-" + string(rune('a'+messageID)), nil
}

func docItem(id int, name string, size int64) mtproto.HistoryItem {
	return mtproto.HistoryItem{
		MessageID: id,
		Document:  &tg.Document{ID: int64(id)},
		FileName:  name,
		MimeType:  catalog.MimeMatroska,
		Size:      size,
	}
}

func TestIndexerRun(t *testing.T) {
	hist := &fakeHistory{items: []mtproto.HistoryItem{
		docItem(1, "The.Matrix_1999_1080p.mkv", 1<<30),
		docItem(2, "Inception_2010_720p Tamil.mkv", 700<<20),
		{MessageID: 3, Document: &tg.Document{ID: 3}, FileName: "poster.jpg", MimeType: "image/jpeg"},
		{MessageID: 4},
		docItem(5, ".mkv", 10),
	}}
	store := &fakeStore{}
	ix := New(hist, store, &fakeResolver{}, config.IndexConfig{BatchSize: 100, MaxMessages: 1000})

	report, err := ix.Run(context.Background(), -1000000000042, ModeSingle, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Processed != 5 {
		t.Errorf("Processed = %d, want 5", report.Processed)
	}
	if report.Indexed != 2 {
		t.Errorf("Indexed = %d, want 2", report.Indexed)
	}
	if report.Unsupported != 2 {
		t.Errorf("Unsupported = %d, want 2", report.Unsupported)
	}
	if report.Errors != 1 {
		t.Errorf("Errors = %d, want 1", report.Errors)
	}

	movie := store.movies["file-"+string(rune('a'+2))]
	if movie == nil {
		t.Fatal("Inception not stored")
	}
	if movie.Language != "tamil" {
		t.Errorf("Language = %q, want tamil", movie.Language)
	}
	if movie.FileSize != "700.00MB" {
		t.Errorf("FileSize = %q, want 700.00MB", movie.FileSize)
	}
	if movie.ChannelID != -1000000000042 {
		t.Errorf("ChannelID = %d", movie.ChannelID)
	}
}

func TestIndexerRunDuplicatesAndResolverErrors(t *testing.T) {
	hist := &fakeHistory{items: []mtproto.HistoryItem{
		docItem(1, "Dune_2021_2160p.mkv", 4 << 30),
		docItem(1, "Dune_2021_2160p.mkv", 4 << 30),
		docItem(2, "Arrival_2016_1080p.mkv", 2 << 30),
	}}
	store := &fakeStore{}
	ix := New(hist, store, &fakeResolver{fail: map[int]bool{2: true}}, config.IndexConfig{BatchSize: 100})

	report, err := ix.Run(context.Background(), -1000000000042, ModeBatch, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Indexed != 1 {
		t.Errorf("Indexed = %d, want 1", report.Indexed)
	}
	if report.Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1", report.Duplicates)
	}
	if report.Errors != 1 {
		t.Errorf("Errors = %d, want 1", report.Errors)
	}
}

func TestParseMode(t *testing.T) {
	if m, ok := ParseMode("single"); !ok || m != ModeSingle {
		t.Errorf("ParseMode(single) = %v, %v", m, ok)
	}
	if m, ok := ParseMode("batch"); !ok || m != ModeBatch {
		t.Errorf("ParseMode(batch) = %v, %v", m, ok)
	}
	if _, ok := ParseMode("turbo"); ok {
		t.Error("ParseMode(turbo) should fail")
	}
}
