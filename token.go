package sqlsplit

import (
	"strings"

	"github.com/muir/sqltoken"
)

// tokenizerConfig enables the lexical forms the splitter has to see through:
// `?` placeholders as distinct tokens, Oracle string literals, and
// punctuation kept as single-character tokens so that the `/` block
// separator can be matched exactly.
var tokenizerConfig = sqltoken.Config{}.
	WithNoticeQuestionMark().
	WithNoticeNotionalStrings().
	WithNoticeDeliminatedStrings().
	WithNoticeTypedNumbers().
	WithSeparatePunctuation()

// tokenize turns SQL text into a lossless token sequence.
//
// sqltoken merges adjacent tokens of the same type, which is undesirable for
// semicolons (boundary decisions are per terminator) and for comments
// (attribution is per comment). Such runs are expanded back into individual
// tokens; concatenation of token texts still reproduces the input exactly.
func tokenize(s string) sqltoken.Tokens {
	tokens := sqltoken.Tokenize(s, tokenizerConfig)

	res := make(sqltoken.Tokens, 0, len(tokens))

	for _, t := range tokens {
		switch {
		case t.Type == sqltoken.Semicolon && len(t.Text) > 1:
			for range t.Text {
				res = append(res, sqltoken.Token{Type: sqltoken.Semicolon, Text: ";"})
			}
		case t.Type == sqltoken.Comment:
			for _, part := range splitComments(t.Text) {
				res = append(res, sqltoken.Token{Type: sqltoken.Comment, Text: part})
			}
		default:
			res = append(res, t)
		}
	}

	return res
}

// splitComments cuts a run of merged comments into individual comments.
// A `--` comment runs through its newline, a `/* */` comment through the
// first closing marker.
func splitComments(text string) []string {
	var parts []string

	for len(text) > 0 {
		var end int

		switch {
		case strings.HasPrefix(text, "--"):
			end = strings.IndexByte(text, '\n') + 1
		case strings.HasPrefix(text, "/*"):
			if i := strings.Index(text, "*/"); i >= 0 {
				end = i + 2
			}
		}

		if end <= 0 || end >= len(text) {
			parts = append(parts, text)

			break
		}

		parts = append(parts, text[:end])
		text = text[end:]
	}

	return parts
}

// significant reports whether a token takes part in lookahead decisions.
// Whitespace and comments do not.
func significant(t sqltoken.Token) bool {
	return t.Type != sqltoken.Whitespace && t.Type != sqltoken.Comment
}

// nextSignificant returns the first significant token of rest without
// consuming anything, skipping words from skipWords on the way.
func nextSignificant(rest sqltoken.Tokens, skipWords ...string) (sqltoken.Token, bool) {
	for _, t := range rest {
		if !significant(t) {
			continue
		}

		if t.Type == sqltoken.Word && wordIn(t.Text, skipWords) {
			continue
		}

		return t, true
	}

	return sqltoken.Token{}, false
}

// wordIs reports whether the token is a keyword-shaped word, compared
// case-insensitively.
func wordIs(t sqltoken.Token, word string) bool {
	return t.Type == sqltoken.Word && strings.EqualFold(t.Text, word)
}

func wordIn(text string, words []string) bool {
	for _, w := range words {
		if strings.EqualFold(text, w) {
			return true
		}
	}

	return false
}

// isBlockSeparator reports whether the token is the `/` block separator.
func isBlockSeparator(t sqltoken.Token) bool {
	return t.Type == sqltoken.Punctuation && t.Text == "/"
}

// isTerminatorCandidate reports whether the token may close a statement:
// the `;` terminator or the `/` block separator.
func isTerminatorCandidate(t sqltoken.Token) bool {
	return t.Type == sqltoken.Semicolon || isBlockSeparator(t)
}
