package feed

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindNetwork ErrorKind = "network_error"
	KindParse   ErrorKind = "parse_error"
)

var ErrUnknownSource = errors.New("unknown source")

// IngestError scopes a fetch or parse failure to one source.
type IngestError struct {
	Kind   ErrorKind
	Source string
	Err    error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Source, e.Err)
}

func (e *IngestError) Unwrap() error {
	return e.Err
}

// KindOf reports the ingestion error kind of err, or "" when err is not an ingestion error.
func KindOf(err error) ErrorKind {
	var ingestErr *IngestError
	if errors.As(err, &ingestErr) {
		return ingestErr.Kind
	}
	return ""
}
