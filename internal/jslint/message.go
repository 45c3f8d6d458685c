package jslint

// Message is one finding of a lint pass. RuleID is empty for fatal parse
// failures, which also carry no end position (EndLine and EndColumn are 0).
type Message struct {
	RuleID    string
	Severity  Level
	Message   string
	Fatal     bool
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

// Result is the outcome of LintText: the ordered messages and the exact text
// that was evaluated.
type Result struct {
	Messages []Message
	Source   string
}
