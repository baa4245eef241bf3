package sqlsplit

import (
	"strings"

	"github.com/muir/sqltoken"
)

// Statement is a single atomic statement extracted from a script.
type Statement struct {
	// Text is the statement text after post-processing.
	Text string

	// Placeholders is the number of positional `?` markers in the statement.
	Placeholders int
}

// Split splits a string in multiple SQL statements separated by terminators
// (';', '/' or the combined ';' '/' pair).
//
// Terminators in comments and string literals are not treated as separators,
// and neither are terminators enclosed in procedural constructs: BEGIN ... END
// blocks at any nesting depth, DECLARE/FUNCTION/PROCEDURE headers, and
// CREATE [OR REPLACE] PACKAGE [BODY] bodies up to the closing END <name>.
//
// Input is assumed to be well-formed SQL, splitting of malformed input is
// best-effort and never fails.
func Split(sql string, options ...func(*Options)) []string {
	stmts := SplitDetailed(sql, options...)

	res := make([]string, 0, len(stmts))
	for _, st := range stmts {
		res = append(res, st.Text)
	}

	return res
}

// SplitDetailed splits a string like Split does and additionally reports the
// number of positional `?` placeholders found in every statement.
func SplitDetailed(sql string, options ...func(*Options)) []Statement {
	o := Options{}
	for _, option := range options {
		option(&o)
	}

	return o.finish(splitTokens(tokenize(sql), o))
}

// transactionWords mark a BEGIN as transactional rather than a block opener.
var transactionWords = []string{"WORK", "TRAN", "TRANSACTION", "ISOLATION", "READ"}

// blockContinuations follow an END that closes a control statement,
// not the enclosing block.
var blockContinuations = []string{"IF", "LOOP"}

// splitState tracks nesting of procedural constructs during a pass.
// Terminator candidates close a statement only while all of it is clear.
type splitState struct {
	blockDepth      int
	inProcHeader    bool
	inPackage       bool
	packageName     string
	inCreateOrAlter bool
}

// update applies the effect of a keyword-shaped token on nesting state,
// peeking at the remaining tokens where the keyword alone is ambiguous.
func (st *splitState) update(t sqltoken.Token, rest sqltoken.Tokens) {
	switch {
	case wordIs(t, "BEGIN"):
		if next, ok := nextSignificant(rest); ok && startsTransaction(next) {
			return
		}

		st.blockDepth++
		st.inProcHeader = false

	case wordIs(t, "CREATE"), wordIs(t, "ALTER"):
		st.inCreateOrAlter = true

		if next, ok := nextSignificant(rest, "OR", "REPLACE"); ok && wordIs(next, "PACKAGE") {
			st.inPackage = true

			if name, ok := nextSignificant(rest, "OR", "REPLACE", "PACKAGE", "BODY"); ok {
				st.packageName = name.Text
			}
		}

	case wordIs(t, "DECLARE"), wordIs(t, "FUNCTION"), wordIs(t, "PROCEDURE"):
		st.inProcHeader = true

	case wordIs(t, "END"):
		next, ok := nextSignificant(rest)
		if ok && wordIn(next.Text, blockContinuations) {
			return
		}

		if st.blockDepth > 0 {
			st.blockDepth--
		}

		// Package name match is case-sensitive.
		if ok && st.inPackage && next.Text == st.packageName {
			st.inPackage = false
			st.packageName = ""
		}
	}
}

// open reports whether a procedural construct is still open, so that a
// terminator candidate is ordinary text.
func (st *splitState) open() bool {
	return st.blockDepth > 0 || st.inProcHeader || st.inPackage
}

// startsTransaction reports whether the token following BEGIN gives it a
// transactional reading (BEGIN WORK, BEGIN TRANSACTION, bare BEGIN;).
func startsTransaction(t sqltoken.Token) bool {
	if t.Type == sqltoken.Semicolon {
		return true
	}

	return t.Type == sqltoken.Word && wordIn(t.Text, transactionWords)
}

// splitTokens walks the token sequence once and cuts raw statements at
// confirmed terminators. The returned texts concatenate to the exact input,
// except for comments dropped when o.KeepComments is false.
func splitTokens(tokens sqltoken.Tokens, o Options) []Statement {
	var (
		res          []Statement
		buf          strings.Builder
		placeholders int
		st           splitState
	)

	cut := func() {
		res = append(res, Statement{Text: buf.String(), Placeholders: placeholders})
		buf.Reset()

		placeholders = 0
	}

	for i := 0; i < len(tokens); i++ {
		t := tokens[i]

		if t.Type != sqltoken.Comment || o.KeepComments {
			buf.WriteString(t.Text)
		}

		rest := tokens[i+1:]

		switch {
		case t.Type == sqltoken.Word:
			st.update(t, rest)

		case t.Type == sqltoken.QuestionMark:
			placeholders++

		case isTerminatorCandidate(t):
			if st.open() {
				continue
			}

			if t.Type == sqltoken.Semicolon {
				if next, ok := nextSignificant(rest); ok && isBlockSeparator(next) {
					// First half of a combined ";" "/" terminator,
					// the block separator closes the statement.
					continue
				}
			}

			st.inCreateOrAlter = false

			i = absorbLineComments(tokens, i, &buf, o)

			cut()
		}
	}

	// The remainder after the last terminator, empty when the input ends
	// with one.
	cut()

	return res
}

// absorbLineComments extends the statement just closed at tokens[i] with
// comments that share the terminator's line, so that a trailing remark stays
// with the statement it annotates. Absorption stops at the first newline.
// Returns the index of the last consumed token.
func absorbLineComments(tokens sqltoken.Tokens, i int, buf *strings.Builder, o Options) int {
	j := i + 1

	for j < len(tokens) {
		k := j
		for k < len(tokens) && tokens[k].Type == sqltoken.Whitespace && !strings.ContainsRune(tokens[k].Text, '\n') {
			k++
		}

		if k >= len(tokens) || tokens[k].Type != sqltoken.Comment {
			break
		}

		for ; j <= k; j++ {
			// The gap whitespace only exists to glue the comment,
			// it goes with it.
			if o.KeepComments {
				buf.WriteString(tokens[j].Text)
			}
		}

		if strings.ContainsRune(tokens[k].Text, '\n') {
			// A line comment consumed its newline, the next line
			// belongs to the next statement.
			break
		}
	}

	return j - 1
}

// terminatorCutset holds the characters ignored when deciding whether a
// statement is empty.
const terminatorCutset = ";/ \t\n\r\v\f"

// finish applies option-driven filtering and trimming, in that order:
// empty statements are judged on untrimmed text, and terminators are
// trimmed before whitespace so they cannot shield it.
func (o Options) finish(stmts []Statement) []Statement {
	res := make([]Statement, 0, len(stmts))

	for _, st := range stmts {
		if !o.KeepEmptyStatements && strings.Trim(st.Text, terminatorCutset) == "" {
			continue
		}

		if !o.KeepTerminator {
			st.Text = trimTerminator(st.Text)
		}

		if !o.KeepExtraSpaces {
			st.Text = strings.TrimSpace(st.Text)
		}

		res = append(res, st)
	}

	return res
}

// trimTerminator strips one trailing terminator: the combined ";/" pair or
// a single ";" or "/".
func trimTerminator(s string) string {
	switch {
	case strings.HasSuffix(s, ";/"):
		return s[:len(s)-2]
	case strings.HasSuffix(s, ";"), strings.HasSuffix(s, "/"):
		return s[:len(s)-1]
	}

	return s
}
