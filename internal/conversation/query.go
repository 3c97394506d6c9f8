package conversation

import (
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/tessro/chatsurface/internal/presentation"
)

// MaxQueryItems caps the number of autocomplete items.
const MaxQueryItems = 6

// Query derives the autocomplete result for a draft. It returns nil when the
// draft does not end in a mention, command or hashtag token.
//
// A draft of the form "@bot query" addressed to a known inline bot yields a
// context request whose items are messages matching query.
func Query(text string, s *Store) *presentation.InputQueryResult {
	if r := contextQuery(text, s); r != nil {
		return r
	}
	if strings.HasPrefix(text, "/") && !strings.ContainsAny(text, " \n") {
		return suggest(presentation.QueryCommands, text[1:], s.Commands())
	}

	token := lastToken(text)
	if len(token) == 0 {
		return nil
	}
	switch token[0] {
	case '@':
		return suggest(presentation.QueryMentions, token[1:], s.Members())
	case '#':
		return suggest(presentation.QueryHashtags, token[1:], s.Hashtags())
	}
	return nil
}

func contextQuery(text string, s *Store) *presentation.InputQueryResult {
	if !strings.HasPrefix(text, "@") {
		return nil
	}
	name, rest, ok := strings.Cut(text[1:], " ")
	if !ok || !slices.Contains(s.Bots(), name) {
		return nil
	}
	r := &presentation.InputQueryResult{Kind: presentation.QueryContextRequest, Query: rest}
	for _, msgID := range s.Search(rest) {
		if len(r.Items) == MaxQueryItems {
			break
		}
		m, _ := s.Get(msgID)
		r.Items = append(r.Items, firstLine(m.Text))
	}
	return r
}

// suggest fuzzy-matches partial against candidates. An empty partial lists
// candidates in their given order.
func suggest(kind presentation.QueryKind, partial string, candidates []string) *presentation.InputQueryResult {
	partial = strings.ToLower(partial)
	r := &presentation.InputQueryResult{Kind: kind, Query: partial}

	if partial == "" {
		r.Items = slices.Clone(candidates[:min(len(candidates), MaxQueryItems)])
	} else {
		for _, match := range fuzzy.Find(partial, candidates) {
			if len(r.Items) == MaxQueryItems {
				break
			}
			r.Items = append(r.Items, match.Str)
		}
	}
	if len(r.Items) == 0 {
		return nil
	}
	return r
}

// Complete replaces the token being completed with item and a trailing space.
func Complete(text string, r *presentation.InputQueryResult, item string) string {
	if r == nil {
		return text
	}
	switch r.Kind {
	case presentation.QueryCommands:
		return "/" + item + " "
	case presentation.QueryMentions:
		return replaceLastToken(text, "@"+item+" ")
	case presentation.QueryHashtags:
		return replaceLastToken(text, "#"+item+" ")
	}
	return text
}

func lastToken(text string) string {
	if text == "" || strings.HasSuffix(text, " ") || strings.HasSuffix(text, "\n") {
		return ""
	}
	i := strings.LastIndexAny(text, " \n")
	return text[i+1:]
}

func replaceLastToken(text, with string) string {
	i := strings.LastIndexAny(text, " \n")
	return text[:i+1] + with
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
