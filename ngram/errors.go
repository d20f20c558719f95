package ngram

import "errors"

// Sentinel errors for store construction, loading and querying. Callers
// should use errors.Is against these; call sites wrap them with
// fmt.Errorf("...: %w", ...) to attach the offending gram, word id, or
// file position.
var (
	// ErrInvalidFormat is returned when a file's magic header, type line,
	// word count, or order-count sum does not match what Read expects.
	ErrInvalidFormat = errors.New("ngram: invalid file format")

	// ErrReadFailed is returned when the underlying reader fails or the
	// file is truncated mid-record.
	ErrReadFailed = errors.New("ngram: read failed")

	// ErrWriteFailed is returned when the underlying writer fails.
	ErrWriteFailed = errors.New("ngram: write failed")

	// ErrOrderViolation is returned by AddGram when the gram breaks the
	// canonical insertion order: wrong order jump, duplicate or
	// out-of-order gram at the same length, or a unigram inserted at the
	// wrong node index.
	ErrOrderViolation = errors.New("ngram: gram order violation")

	// ErrPrefixNotFound is returned when a gram's (n-1)-length prefix has
	// no path in the tree yet — the caller violated canonical order.
	ErrPrefixNotFound = errors.New("ngram: gram prefix not found")

	// ErrOutOfVocabulary is returned by LogProb, FetchBigramList and Word
	// when a word id falls outside [0, NumWords()). AddGram does not check
	// word ids against the vocabulary.
	ErrOutOfVocabulary = errors.New("ngram: word id out of vocabulary")

	// ErrNotReserved is returned by AddGram when ReserveNodes has not
	// been called yet.
	ErrNotReserved = errors.New("ngram: nodes not reserved")

	// ErrEmptyGram is returned when a query or insertion is given a
	// zero-length gram.
	ErrEmptyGram = errors.New("ngram: empty gram")
)
