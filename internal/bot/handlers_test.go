package bot

import (
	"strings"
	"testing"

	tele "gopkg.in/telebot.v4"
)

// stubContext covers the handful of telebot context methods the text
// handler touches.
type stubContext struct {
	tele.Context
	chat *tele.Chat
	text string
	sent []interface{}
}

func (c *stubContext) Chat() *tele.Chat { return c.chat }
func (c *stubContext) Text() string     { return c.text }
func (c *stubContext) Send(what interface{}, opts ...interface{}) error {
	c.sent = append(c.sent, what)
	return nil
}

func TestOnTextDuringThumbnailPrompt(t *testing.T) {
	b := &Bot{sessions: newSessionStore()}
	b.sessions.Set(5, &Session{State: StateAwaitThumbnail})

	c := &stubContext{chat: &tele.Chat{ID: 5, Type: tele.ChatPrivate}, text: "not a photo"}
	if err := b.onText(c); err != nil {
		t.Fatalf("onText: %v", err)
	}
	if len(c.sent) != 1 {
		t.Fatalf("expected one reply, got %d", len(c.sent))
	}
	reply, _ := c.sent[0].(string)
	if !strings.Contains(reply, "photo") {
		t.Errorf("reply = %q, want a photo re-prompt", reply)
	}
	if got := b.sessions.StateOf(5); got != StateAwaitThumbnail {
		t.Errorf("StateOf = %v, want StateAwaitThumbnail", got)
	}
}

func TestOnTextDuringIndexing(t *testing.T) {
	b := &Bot{sessions: newSessionStore()}
	b.sessions.Set(6, &Session{State: StateIndexing})

	c := &stubContext{chat: &tele.Chat{ID: 6, Type: tele.ChatPrivate}, text: "vikram"}
	if err := b.onText(c); err != nil {
		t.Fatalf("onText: %v", err)
	}
	if len(c.sent) != 1 {
		t.Fatalf("expected one reply, got %d", len(c.sent))
	}
	reply, _ := c.sent[0].(string)
	if !strings.Contains(reply, "progress") {
		t.Errorf("reply = %q, want a busy notice", reply)
	}
}
