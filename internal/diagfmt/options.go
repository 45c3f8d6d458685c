package diagfmt

// ExcerptOpts configures how much of the source an excerpt shows.
type ExcerptOpts struct {
	// FirstLineOnly limits the excerpt to the start line and the one after
	// it; a multi-line finding is underlined by a single caret.
	FirstLineOnly bool
}

// PrettyOpts configures the text report.
type PrettyOpts struct {
	Color   bool
	Excerpt ExcerptOpts
	Indent  string // префикс строк выдержки, по умолчанию "\t"
	Max     int    // 0 - без ограничения
}

func (o PrettyOpts) indent() string {
	if o.Indent == "" {
		return "\t"
	}
	return o.Indent
}

// JSONOpts configures the JSON report.
type JSONOpts struct {
	IncludeSource  bool // добавить вычисленный текст скрипта
	IncludeSummary bool
	Max            int // обрезка вывода по числу диагностик на запись
}
