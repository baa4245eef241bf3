package sqlsplit

// Options defines statement splitting parameters.
//
// All flags default to false, which yields trimmed statements without
// terminators, comments or empty entries.
type Options struct {
	// KeepTerminator retains the trailing terminator of each statement.
	KeepTerminator bool

	// KeepExtraSpaces retains leading and trailing whitespace of each statement.
	KeepExtraSpaces bool

	// KeepComments retains comment tokens in statement text.
	KeepComments bool

	// KeepEmptyStatements retains statements that hold no text besides
	// terminators and whitespace.
	KeepEmptyStatements bool
}

// KeepTerminator instructs splitter to retain trailing terminators.
func KeepTerminator(o *Options) {
	o.KeepTerminator = true
}

// KeepExtraSpaces instructs splitter to retain surrounding whitespace.
func KeepExtraSpaces(o *Options) {
	o.KeepExtraSpaces = true
}

// KeepComments instructs splitter to retain comments in statement text.
//
// A comment belongs to the statement it is textually enclosed in, a trailing
// comment on the line of a terminator belongs to the statement just closed.
func KeepComments(o *Options) {
	o.KeepComments = true
}

// KeepEmptyStatements instructs splitter to retain empty statements.
func KeepEmptyStatements(o *Options) {
	o.KeepEmptyStatements = true
}
