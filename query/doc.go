/*
Package query implements a small template language that pulls named, typed
fields out of a line of text.

# Format Syntax

A format mixes literal text with captures written in braces:

	{name}             capture with a name only
	{name:type}        name and a type tag (the tag must be longer than 2 characters)
	{name:type:sp}     name, type tag and a 2 character spec tag
	{name:sp}          name and a spec tag
	{Decl(param, ...)} declaration wrapping further captures

Anything outside braces is literal text. A backslash keeps the next character
in the literal, so `\{` does not open a capture. The backslash itself stays
in the literal text and is matched verbatim.

Inside a declaration's parameter list '(' ')' and ',' are structural. A
parameter that starts with '(' is a group in which commas are plain text:

	{Raw((a,b) {x})}

The only built in declaration is Raw, which matches its single parameter
against the captured span unchanged. Others can be added with Register or a
private Registry; Transform builds handlers that decode the span first.

Type and spec tags are told apart only by their length. The rule is kept as
is for compatibility; tags are carried to the result and never checked.

# Pipeline

Tokenizer lexes the format under a stack of modes (see Mode). Parse builds an
AST of Sequence, Literal, Capture and Declaration nodes and reports grammar
violations as a *SyntaxError with a stable ErrorCode. Sequence.Handle then
matches the tree against a source string:

	seq, err := query.Parse("{ip} - {user} [{time}]")
	if err != nil {
		return err
	}
	r := query.NewResult()
	if seq.Handle(line, 0, len(line), r) {
		fmt.Println(r.Value("user"))
	}

# Matching Rules

 1. Children are matched left to right in one pass; there is no backtracking.
 2. A literal is found with a leftmost substring search from the cursor.
 3. A capture waits for the next literal; the text in between is its value.
    The last capture of a sequence takes the rest of the range.
 4. Two captures with no literal between them cannot be split and fail.
 5. A literal with no capture before it must start exactly at the cursor.

A parsed Sequence is read only and may be matched from several goroutines at
once, each with its own Result.
*/
package query
