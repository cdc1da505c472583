package bot

import (
	"context"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/mrmalikoffl/movies-req-bot/internal/indexer"
	"github.com/mrmalikoffl/movies-req-bot/internal/logger"
)

const startHelp = `Movie catalog bot.

Search: type a movie name (add a year or language to narrow it down),
or use me inline in any chat: @%s <query>.

Settings:
/setthumbnail - thumbnail for delivered files
/setprefix - filename prefix
/setcaption - caption text
/viewthumbnail /viewprefix /viewcaption - show current values

Admin:
/index - index movie files from a channel
/stats - catalog statistics
/cancel - abort the current operation`

func (b *Bot) onStart(c tele.Context) error {
	if err := b.store.EnsureUser(context.Background(), c.Chat().ID); err != nil {
		logger.Error.Printf("failed to register user %d: %v", c.Chat().ID, err)
	}
	return c.Send(fmt.Sprintf(startHelp, b.tb.Me.Username))
}

func (b *Bot) onStats(c tele.Context) error {
	stats, err := b.store.Stats(context.Background())
	if err != nil {
		return c.Send("Failed to load statistics: " + err.Error())
	}
	return c.Send(fmt.Sprintf("Movies indexed: %d\nUsers: %d", stats.Movies, stats.Users))
}

func (b *Bot) onCancel(c tele.Context) error {
	b.sessions.Clear(c.Chat().ID)
	return c.Send("Cancelled.")
}

func (b *Bot) onIndex(c tele.Context) error {
	b.sessions.Set(c.Chat().ID, &Session{State: StateAwaitIndexMode})
	return c.Send("Choose indexing mode: reply 'batch' (full history, slower) or 'single' (latest messages, one pass).")
}

func (b *Bot) onSetThumbnail(c tele.Context) error {
	b.sessions.Set(c.Chat().ID, &Session{State: StateAwaitThumbnail})
	return c.Send("Send me a photo to use as your thumbnail, or /cancel.")
}

func (b *Bot) onSetPrefix(c tele.Context) error {
	b.sessions.Set(c.Chat().ID, &Session{State: StateAwaitPrefix})
	return c.Send("Send me the filename prefix, or /cancel.")
}

func (b *Bot) onSetCaption(c tele.Context) error {
	b.sessions.Set(c.Chat().ID, &Session{State: StateAwaitCaption})
	return c.Send("Send me the caption text, or /cancel.")
}

func (b *Bot) onViewThumbnail(c tele.Context) error {
	settings, err := b.store.GetUserSettings(context.Background(), c.Chat().ID)
	if err != nil {
		return c.Send("Failed to load settings: " + err.Error())
	}
	if settings.ThumbnailFileID == "" {
		return c.Send("No thumbnail set. Use /setthumbnail.")
	}
	return c.Send(&tele.Photo{File: tele.File{FileID: settings.ThumbnailFileID}, Caption: "Your current thumbnail."})
}

func (b *Bot) onViewPrefix(c tele.Context) error {
	settings, err := b.store.GetUserSettings(context.Background(), c.Chat().ID)
	if err != nil {
		return c.Send("Failed to load settings: " + err.Error())
	}
	if settings.Prefix == "" {
		return c.Send("No prefix set. Use /setprefix.")
	}
	return c.Send("Your current prefix: " + settings.Prefix)
}

func (b *Bot) onViewCaption(c tele.Context) error {
	settings, err := b.store.GetUserSettings(context.Background(), c.Chat().ID)
	if err != nil {
		return c.Send("Failed to load settings: " + err.Error())
	}
	if settings.Caption == "" {
		return c.Send("No caption set. Use /setcaption.")
	}
	return c.Send("Your current caption: " + settings.Caption)
}

func (b *Bot) onText(c tele.Context) error {
	chatID := c.Chat().ID
	sess := b.sessions.Get(chatID)

	if sess == nil {
		// Plain text in a private chat is a catalog search.
		if c.Chat().Type == tele.ChatPrivate {
			return b.searchAndReply(c, c.Text())
		}
		return nil
	}

	switch sess.State {
	case StateAwaitIndexMode:
		mode, ok := indexer.ParseMode(strings.ToLower(strings.TrimSpace(c.Text())))
		if !ok {
			return c.Send("Please specify 'batch' or 'single' for indexing mode.")
		}
		sess.IndexMode = mode
		sess.State = StateAwaitForward
		b.sessions.Set(chatID, sess)
		return c.Send(fmt.Sprintf("%s indexing selected. Now forward a message from the channel to index.", capitalize(string(mode))))

	case StateAwaitThumbnail:
		return c.Send("Please send a photo, or /cancel.")

	case StateAwaitPrefix:
		prefix := c.Text()
		b.sessions.Clear(chatID)
		if err := b.store.UpdateUserSettings(context.Background(), chatID, nil, &prefix, nil); err != nil {
			return c.Send("Failed to save prefix: " + err.Error())
		}
		return c.Send("Prefix saved: " + prefix)

	case StateAwaitCaption:
		caption := c.Text()
		b.sessions.Clear(chatID)
		if err := b.store.UpdateUserSettings(context.Background(), chatID, nil, nil, &caption); err != nil {
			return c.Send("Failed to save caption: " + err.Error())
		}
		return c.Send("Caption saved: " + caption)

	case StateAwaitForward:
		return b.onForward(c, sess)

	case StateIndexing:
		return c.Send("Indexing is in progress. Press Cancel under the progress message to abort.")
	}
	return nil
}

func (b *Bot) onPhoto(c tele.Context) error {
	chatID := c.Chat().ID
	sess := b.sessions.Get(chatID)
	if sess == nil {
		return nil
	}

	switch sess.State {
	case StateAwaitThumbnail:
		photo := c.Message().Photo
		if photo == nil {
			return c.Send("Please send a photo.")
		}
		fileID := photo.FileID
		b.sessions.Clear(chatID)
		if err := b.store.UpdateUserSettings(context.Background(), chatID, &fileID, nil, nil); err != nil {
			return c.Send("Failed to save thumbnail: " + err.Error())
		}
		return c.Send("Thumbnail saved.")

	case StateAwaitForward:
		return b.onForward(c, sess)
	}
	return nil
}

// onMedia handles documents and videos: only relevant as channel forwards
// during an /index conversation.
func (b *Bot) onMedia(c tele.Context) error {
	sess := b.sessions.Get(c.Chat().ID)
	if sess == nil || sess.State != StateAwaitForward {
		return nil
	}
	return b.onForward(c, sess)
}

// onForward validates the forwarded channel message and kicks off indexing.
func (b *Bot) onForward(c tele.Context, sess *Session) error {
	msg := c.Message()
	if msg.Origin == nil {
		return c.Send("Please forward a message from a channel.")
	}
	origin := msg.Origin.Chat
	if origin == nil || origin.Type != tele.ChatChannel {
		return c.Send("Please forward a message directly from a channel.")
	}
	channelID := origin.ID
	if !strings.HasPrefix(fmt.Sprint(channelID), "-100") {
		return c.Send("Invalid channel ID. Please forward a message from a valid Telegram channel.")
	}

	chatID := c.Chat().ID
	logger.Info.Printf("user %d forwarded message from channel %d", chatID, channelID)

	admins, err := b.tb.AdminsOf(&tele.Chat{ID: channelID})
	if err != nil {
		b.sessions.Clear(chatID)
		return c.Send("Error accessing channel: " + err.Error())
	}
	if !isAdmin(admins, b.tb.Me.ID) {
		return c.Send("I am not an admin of this channel. Please make me an admin and try again.")
	}
	if !isAdmin(admins, c.Sender().ID) {
		return c.Send("Only channel admins can index movies.")
	}

	rm := &tele.ReplyMarkup{}
	rm.Inline(rm.Row(btnCancel))
	progress, err := b.tb.Send(tele.ChatID(chatID),
		fmt.Sprintf("Starting %s indexing process...", sess.IndexMode), rm)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	sess.Cancel = cancel
	sess.State = StateIndexing
	b.sessions.Set(chatID, sess)

	mode := sess.IndexMode
	go b.runIndexing(ctx, chatID, channelID, mode, progress)
	return nil
}

func (b *Bot) runIndexing(ctx context.Context, chatID, channelID int64, mode indexer.Mode, progress *tele.Message) {
	defer b.sessions.Clear(chatID)

	resolver := &fileIDResolver{tb: b.tb, dumpChat: chatID}
	ix := indexer.New(b.mt, b.store, resolver, b.cfg.Index)

	rm := &tele.ReplyMarkup{}
	rm.Inline(rm.Row(btnCancel))

	report, err := ix.Run(ctx, channelID, mode, func(r indexer.Report) {
		text := fmt.Sprintf("%s indexing in progress...\n%s", capitalize(string(mode)), r)
		if _, editErr := b.tb.Edit(progress, text, rm); editErr != nil {
			logger.Debug.Printf("progress edit failed: %v", editErr)
		}
	})

	var text string
	switch {
	case ctx.Err() != nil:
		text = fmt.Sprintf("Indexing cancelled.\n%s", report)
	case err != nil:
		text = fmt.Sprintf("Indexing failed: %v\n%s", err, report)
	default:
		text = fmt.Sprintf("✅ %s indexing completed for channel %d.\n%s",
			capitalize(string(mode)), channelID, report)
	}
	if _, err := b.tb.Edit(progress, text); err != nil {
		logger.Warn.Printf("final report edit failed: %v", err)
	}
	logger.Info.Printf("%s indexing finished for channel %d: %+v", mode, channelID, report)
}

// onIndexCancel handles the Cancel button under a progress message.
func (b *Bot) onIndexCancel(c tele.Context) error {
	b.sessions.Clear(c.Sender().ID)
	if c.Message() != nil {
		if _, err := b.tb.Edit(c.Message(), "Indexing cancelled."); err != nil {
			logger.Debug.Printf("cancel edit failed: %v", err)
		}
	}
	logger.Info.Printf("user %d cancelled indexing", c.Sender().ID)
	return c.Respond(&tele.CallbackResponse{Text: "Indexing cancelled."})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func isAdmin(admins []tele.ChatMember, userID int64) bool {
	for _, admin := range admins {
		if admin.User != nil && admin.User.ID == userID {
			return true
		}
	}
	return false
}
