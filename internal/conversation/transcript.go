package conversation

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/tessro/chatsurface/internal/presentation"
)

// Transcript is the YAML form of a conversation.
type Transcript struct {
	Title    string                  `yaml:"title"`
	Self     string                  `yaml:"self,omitempty"`
	Pinned   *presentation.MessageID `yaml:"pinned,omitempty"`
	Members  []string                `yaml:"members,omitempty"`
	Commands []string                `yaml:"commands,omitempty"`
	Bots     []string                `yaml:"bots,omitempty"`
	Messages []Message               `yaml:"messages"`
}

// Load reads a transcript file into a new store.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	var t Transcript
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse transcript %s: %w", path, err)
	}
	return New(t), nil
}

// Transcript returns the store's contents in transcript form.
func (s *Store) Transcript() Transcript {
	return Transcript{
		Title:    s.title,
		Self:     s.self,
		Pinned:   s.pinned,
		Members:  s.members,
		Commands: s.commands,
		Bots:     s.bots,
		Messages: s.messages,
	}
}

// Save writes the store as a transcript, creating parent directories.
func (s *Store) Save(path string) error {
	data, err := yaml.Marshal(s.Transcript())
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Demo returns the conversation shown when no transcript is given.
func Demo() Transcript {
	pinned := presentation.MessageID(1)
	return Transcript{
		Title:    "Release planning",
		Self:     "me",
		Pinned:   &pinned,
		Members:  []string{"ada", "grace", "linus", "margaret"},
		Commands: []string{"help", "start", "status", "deploy", "rollback"},
		Bots:     []string{"gif", "wiki"},
		Messages: []Message{
			{ID: 1, Author: "ada", Text: "Freeze is **Friday**. Ship notes go in #release."},
			{ID: 2, Author: "grace", Text: "Migration for `sessions` is merged. See https://example.com/pr/42"},
			{ID: 3, Author: "me", Outgoing: true, Text: "I'll run the canary tonight #release"},
			{ID: 4, Author: "linus", Text: "Remember the rollback plan:\n\n1. drain\n2. revert\n3. verify"},
			{ID: 5, Author: "margaret", Text: "Dashboards are green. @ada can you sign off?"},
		},
	}
}
