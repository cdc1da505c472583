package bot

import (
	"context"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/mrmalikoffl/movies-req-bot/internal/catalog"
	"github.com/mrmalikoffl/movies-req-bot/internal/logger"
)

// onInlineQuery answers @bot queries with cached-document results carrying
// a Download button.
func (b *Bot) onInlineQuery(c tele.Context) error {
	raw := strings.TrimSpace(c.Query().Text)
	if raw == "" {
		return c.Answer(&tele.QueryResponse{Results: tele.Results{}})
	}

	movies, err := b.store.SearchMovies(context.Background(), catalog.ParseQuery(raw))
	if err != nil {
		logger.Error.Printf("inline search %q failed: %v", raw, err)
		return c.Answer(&tele.QueryResponse{Results: tele.Results{}})
	}

	results := make(tele.Results, 0, len(movies))
	for i := range movies {
		movie := &movies[i]

		rm := &tele.ReplyMarkup{}
		rm.Inline(rm.Row(rm.Data("⬇ Download", "download", movie.FileID)))

		result := &tele.DocumentResult{
			Title:       movie.Label(),
			Caption:     movie.Caption(),
			Description: fmt.Sprintf("Quality: %s, Size: %s", movie.Quality, movie.FileSize),
			MIME:        catalog.MimeMatroska,
			Cache:       movie.FileID,
		}
		result.SetResultID(fmt.Sprintf("%s_%d", movie.FileID, movie.MessageID))
		result.ReplyMarkup = rm
		results = append(results, result)
	}

	logger.Info.Printf("found %d movies for inline query %q", len(results), raw)
	return c.Answer(&tele.QueryResponse{
		Results:    results,
		CacheTime:  30,
		IsPersonal: true,
	})
}

// searchAndReply handles plain-text searches in private chat: a list of
// matches, each with its own download button.
func (b *Bot) searchAndReply(c tele.Context, raw string) error {
	q := catalog.ParseQuery(raw)
	movies, err := b.store.SearchMovies(context.Background(), q)
	if err != nil {
		return c.Send("Search failed: " + err.Error())
	}
	if len(movies) == 0 {
		return c.Send("No movies found. Try a different title, year or language.")
	}

	rm := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(movies))
	for i := range movies {
		movie := &movies[i]
		label := fmt.Sprintf("%s · %s · %s", movie.Label(), movie.Quality, movie.FileSize)
		rows = append(rows, rm.Row(rm.Data(label, "download", movie.FileID)))
	}
	rm.Inline(rows...)

	return c.Send(fmt.Sprintf("Found %d movie(s):", len(movies)), rm)
}
