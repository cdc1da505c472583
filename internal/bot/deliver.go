package bot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/mrmalikoffl/movies-req-bot/internal/catalog"
	"github.com/mrmalikoffl/movies-req-bot/internal/logger"
	"github.com/mrmalikoffl/movies-req-bot/internal/thumb"
	"github.com/mrmalikoffl/movies-req-bot/internal/util"
)

// botAPIDownloadLimit is the largest file getFile will serve. Anything
// bigger goes through the MTProto client.
const botAPIDownloadLimit = 20 * 1024 * 1024

// onDownload delivers a movie to the user who pressed a Download button,
// applying their stored thumbnail, prefix and caption.
func (b *Bot) onDownload(c tele.Context) error {
	fileID := c.Data()
	if fileID == "" {
		return c.Respond(&tele.CallbackResponse{Text: "Bad request."})
	}

	// Inline-mode callbacks carry no chat, deliver to the sender directly.
	var to tele.Recipient = c.Sender()
	if c.Chat() != nil {
		to = c.Chat()
	}

	ctx := context.Background()
	movie, err := b.store.GetMovieByFileID(ctx, fileID)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Lookup failed, try again."})
	}
	if movie == nil {
		logger.Warn.Printf("movie not found for download: %s", fileID)
		return c.Respond(&tele.CallbackResponse{Text: "Movie file not found."})
	}

	if err := c.Respond(&tele.CallbackResponse{Text: "Preparing your file..."}); err != nil {
		logger.Debug.Printf("callback respond failed: %v", err)
	}

	if err := b.deliver(ctx, to, c.Sender().ID, movie); err != nil {
		logger.Error.Printf("delivery of %q to %d failed: %v", movie.Title, c.Sender().ID, err)
		_, sendErr := b.tb.Send(to, "Delivery failed: "+err.Error())
		return sendErr
	}
	logger.Info.Printf("user %d downloaded: %s", c.Sender().ID, movie.Label())
	return nil
}

func (b *Bot) deliver(ctx context.Context, to tele.Recipient, userID int64, movie *catalog.Movie) error {
	settings, err := b.store.GetUserSettings(ctx, userID)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	caption := settings.Caption
	if caption == "" {
		caption = catalog.DefaultCaption
	}

	workDir, err := os.MkdirTemp(b.cfg.Files.DownloadDir, "deliver-*")
	if err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	filePath, err := b.fetchMovie(ctx, movie, workDir)
	if err != nil {
		return err
	}

	thumbPath := filepath.Join(workDir, "thumb.jpg")
	if err := b.prepareThumbnail(settings.ThumbnailFileID, workDir, thumbPath); err != nil {
		return err
	}

	doc := &tele.Document{
		File:      tele.FromDisk(filePath),
		FileName:  movie.FileName(settings.Prefix),
		MIME:      catalog.MimeMatroska,
		Thumbnail: &tele.Photo{File: tele.FromDisk(thumbPath)},
		Caption:   caption,
	}
	if _, err := b.tb.Send(to, doc); err != nil {
		return fmt.Errorf("send document: %w", err)
	}
	return nil
}

// fetchMovie downloads the movie file to workDir. Files within the Bot API
// limit come over getFile; larger ones are pulled from the source channel
// message via MTProto.
func (b *Bot) fetchMovie(ctx context.Context, movie *catalog.Movie, workDir string) (string, error) {
	size, sizeErr := util.ParseSize(movie.FileSize)
	if sizeErr == nil && size <= botAPIDownloadLimit {
		dest := filepath.Join(workDir, util.SafeBase(movie.FileName("")))
		if err := b.tb.Download(&tele.File{FileID: movie.FileID}, dest); err == nil {
			return dest, nil
		}
		logger.Warn.Printf("bot API download of %q failed, falling back to MTProto", movie.Title)
	}

	channel, err := b.mt.ResolveChannel(ctx, movie.ChannelID)
	if err != nil {
		return "", fmt.Errorf("resolve source channel: %w", err)
	}

	dlCtx, cancel := context.WithTimeout(ctx, 30*time.Minute)
	defer cancel()
	dest, err := b.mt.DownloadDocument(dlCtx, channel, movie.MessageID, workDir)
	if err != nil {
		return "", fmt.Errorf("fetch from channel: %w", err)
	}
	return dest, nil
}

func (b *Bot) prepareThumbnail(thumbFileID, workDir, thumbPath string) error {
	if thumbFileID == "" {
		return thumb.Default(thumbPath)
	}

	src := filepath.Join(workDir, "thumb_src")
	if err := b.tb.Download(&tele.File{FileID: thumbFileID}, src); err != nil {
		logger.Warn.Printf("thumbnail download failed, using default: %v", err)
		return thumb.Default(thumbPath)
	}
	if err := thumb.FromPhoto(src, thumbPath); err != nil {
		logger.Warn.Printf("thumbnail scaling failed, using default: %v", err)
		return thumb.Default(thumbPath)
	}
	return nil
}
