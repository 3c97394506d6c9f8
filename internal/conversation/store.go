// Package conversation holds the messages of a chat session and derives the
// autocomplete and search results the chat surface presents.
package conversation

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/tessro/chatsurface/internal/id"
	"github.com/tessro/chatsurface/internal/presentation"
)

// ErrNotFound is returned for an unknown message ID.
var ErrNotFound = errors.New("message not found")

// ErrNotOwn is returned when editing a message that was not sent locally.
var ErrNotOwn = errors.New("only outgoing messages can be edited")

// Message is one chat message.
type Message struct {
	ID            presentation.MessageID  `yaml:"id"`
	Author        string                  `yaml:"author"`
	Outgoing      bool                    `yaml:"outgoing,omitempty"`
	Text          string                  `yaml:"text"`
	ReplyTo       *presentation.MessageID `yaml:"reply_to,omitempty"`
	ForwardedFrom string                  `yaml:"forwarded_from,omitempty"`
	Edited        bool                    `yaml:"edited,omitempty"`
	Time          time.Time               `yaml:"time"`
}

// Store is an in-memory conversation. It is not safe for concurrent use.
type Store struct {
	title    string
	self     string
	pinned   *presentation.MessageID
	members  []string
	commands []string
	bots     []string
	messages []Message
	seq      *id.Sequence
	now      func() time.Time
}

// New returns a store seeded from a transcript.
func New(t Transcript) *Store {
	s := &Store{
		title:    t.Title,
		self:     t.Self,
		pinned:   t.Pinned,
		members:  slices.Clone(t.Members),
		commands: slices.Clone(t.Commands),
		bots:     slices.Clone(t.Bots),
		seq:      id.NewSequence(0),
		now:      time.Now,
	}
	if s.self == "" {
		s.self = "me"
	}
	for _, m := range t.Messages {
		if m.ID == 0 {
			m.ID = presentation.MessageID(s.seq.Next())
		}
		s.seq.Observe(int64(m.ID))
		s.messages = append(s.messages, m)
	}
	return s
}

// Title returns the chat title.
func (s *Store) Title() string { return s.title }

// Members returns the chat members, used for mentions.
func (s *Store) Members() []string { return s.members }

// Commands returns the bot commands, without the leading slash.
func (s *Store) Commands() []string { return s.commands }

// Bots returns the names of inline bots reachable as "@name query".
func (s *Store) Bots() []string { return s.bots }

// Messages returns the messages oldest first. The slice must not be modified.
func (s *Store) Messages() []Message { return s.messages }

// Len returns the number of messages.
func (s *Store) Len() int { return len(s.messages) }

// Get returns the message with id.
func (s *Store) Get(msgID presentation.MessageID) (Message, bool) {
	i := s.index(msgID)
	if i < 0 {
		return Message{}, false
	}
	return s.messages[i], true
}

func (s *Store) index(msgID presentation.MessageID) int {
	return slices.IndexFunc(s.messages, func(m Message) bool { return m.ID == msgID })
}

// Send appends an outgoing text message.
func (s *Store) Send(text string, replyTo *presentation.MessageID) Message {
	m := Message{
		ID:       presentation.MessageID(s.seq.Next()),
		Author:   s.self,
		Outgoing: true,
		Text:     text,
		ReplyTo:  replyTo,
		Time:     s.now(),
	}
	s.messages = append(s.messages, m)
	return m
}

// Forward appends an outgoing copy of an existing message.
func (s *Store) Forward(source presentation.MessageID) (Message, error) {
	src, ok := s.Get(source)
	if !ok {
		return Message{}, ErrNotFound
	}
	m := Message{
		ID:            presentation.MessageID(s.seq.Next()),
		Author:        s.self,
		Outgoing:      true,
		Text:          src.Text,
		ForwardedFrom: src.Author,
		Time:          s.now(),
	}
	s.messages = append(s.messages, m)
	return m, nil
}

// Edit replaces the text of an outgoing message.
func (s *Store) Edit(msgID presentation.MessageID, text string) error {
	i := s.index(msgID)
	if i < 0 {
		return ErrNotFound
	}
	if !s.messages[i].Outgoing {
		return ErrNotOwn
	}
	s.messages[i].Text = text
	s.messages[i].Edited = true
	return nil
}

// Delete removes messages and returns how many were removed. A deleted
// pinned message is unpinned.
func (s *Store) Delete(ids ...presentation.MessageID) int {
	before := len(s.messages)
	s.messages = slices.DeleteFunc(s.messages, func(m Message) bool {
		return slices.Contains(ids, m.ID)
	})
	if s.pinned != nil && slices.Contains(ids, *s.pinned) {
		s.pinned = nil
	}
	return before - len(s.messages)
}

// Pinned returns the pinned message, if any.
func (s *Store) Pinned() *presentation.PinnedMessage {
	if s.pinned == nil {
		return nil
	}
	m, ok := s.Get(*s.pinned)
	if !ok {
		return nil
	}
	return &presentation.PinnedMessage{MessageID: m.ID, Text: m.Text}
}

// Pin pins a message, or unpins with nil.
func (s *Store) Pin(msgID *presentation.MessageID) error {
	if msgID != nil {
		if _, ok := s.Get(*msgID); !ok {
			return ErrNotFound
		}
	}
	s.pinned = msgID
	return nil
}

// Search returns the IDs of messages containing query, newest first. Matching
// is case-insensitive.
func (s *Store) Search(query string) []presentation.MessageID {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	var ids []presentation.MessageID
	for i := len(s.messages) - 1; i >= 0; i-- {
		if strings.Contains(strings.ToLower(s.messages[i].Text), query) {
			ids = append(ids, s.messages[i].ID)
		}
	}
	return ids
}

// Hashtags returns the distinct hashtags used in messages, most recent first,
// without the leading '#'.
func (s *Store) Hashtags() []string {
	var tags []string
	seen := make(map[string]bool)
	for i := len(s.messages) - 1; i >= 0; i-- {
		for _, word := range strings.Fields(s.messages[i].Text) {
			if len(word) < 2 || word[0] != '#' {
				continue
			}
			tag := strings.TrimRight(word[1:], ".,;:!?")
			if tag != "" && !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	return tags
}
