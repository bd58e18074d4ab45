package spreadsheet

// Option applies a configuration option to the Reader.
type Option func(*Reader)

// WithCharset sets the text encoding for legacy .xls files.
func WithCharset(charset string) Option {
	return func(r *Reader) {
		if charset != "" {
			r.charset = charset
		}
	}
}

// WithMaxArchiveEntries bounds the number of members read from one archive.
func WithMaxArchiveEntries(n int) Option {
	return func(r *Reader) {
		if n > 0 {
			r.maxArchiveEntries = n
		}
	}
}

// WithMaxMemberBytes bounds the decompressed size of one archive member.
func WithMaxMemberBytes(n int64) Option {
	return func(r *Reader) {
		if n > 0 {
			r.maxMemberBytes = n
		}
	}
}
