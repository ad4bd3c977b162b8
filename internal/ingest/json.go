package ingest

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"

	"github.com/sells-group/campaign-cli/internal/model"
)

// DecodeJSONArray decodes a JSON array streaming, sending each element to a channel.
// Expects input in the form [{...},{...}]. Numbers decoded into interface
// values are kept as json.Number.
// Both channels are closed when processing completes.
func DecodeJSONArray[T any](ctx context.Context, r io.Reader) (<-chan T, <-chan error) {
	outCh := make(chan T, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(outCh)
		defer close(errCh)

		decoder := json.NewDecoder(r)
		decoder.UseNumber()

		// Expect opening bracket
		tok, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				return
			}
			errCh <- eris.Wrap(err, "json: read opening token")
			return
		}

		delim, ok := tok.(json.Delim)
		if !ok || delim != '[' {
			errCh <- eris.Errorf("json: expected '[', got %v", tok)
			return
		}

		for decoder.More() {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "json: context cancelled")
				return
			}

			var item T
			if err := decoder.Decode(&item); err != nil {
				errCh <- eris.Wrap(err, "json: decode element")
				return
			}

			select {
			case outCh <- item:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "json: context cancelled")
				return
			}
		}

		// Consume closing bracket
		if _, err := decoder.Token(); err != nil && err != io.EOF {
			errCh <- eris.Wrap(err, "json: read closing token")
		}
	}()

	return outCh, errCh
}

// campaignDocument is the wrapped JSON input form.
type campaignDocument struct {
	Campaigns json.RawMessage `json:"campaigns"`
}

// ParseJSON reads campaigns from either {"campaigns": [...]} or a bare
// array of objects.
func ParseJSON(ctx context.Context, r io.Reader) ([]model.RawRecord, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		if err == io.EOF {
			return nil, eris.New("json: empty document")
		}
		return nil, eris.Wrap(err, "json: read document")
	}

	switch first {
	case '[':
		outCh, errCh := DecodeJSONArray[model.RawRecord](ctx, br)
		var records []model.RawRecord
		for rec := range outCh {
			if rec == nil {
				rec = model.RawRecord{}
			}
			records = append(records, rec)
		}
		for err := range errCh {
			if err != nil {
				return nil, err
			}
		}
		return records, nil
	case '{':
		dec := json.NewDecoder(br)
		dec.UseNumber()
		var doc campaignDocument
		if err := dec.Decode(&doc); err != nil {
			return nil, eris.Wrap(err, "json: decode document")
		}
		if doc.Campaigns == nil {
			return nil, eris.New(`json: missing "campaigns" array`)
		}
		// A null array is an empty batch.
		var records []model.RawRecord
		inner := json.NewDecoder(bytes.NewReader(doc.Campaigns))
		inner.UseNumber()
		if err := inner.Decode(&records); err != nil {
			return nil, eris.Wrap(err, "json: decode document")
		}
		for i, rec := range records {
			if rec == nil {
				records[i] = model.RawRecord{}
			}
		}
		return records, nil
	default:
		return nil, eris.Errorf("json: expected object or array, got %q", first)
	}
}

// peekNonSpace skips whitespace and a byte order mark, returning the next
// byte without consuming it.
func peekNonSpace(br *bufio.Reader) (byte, error) {
	if bom, err := br.Peek(3); err == nil && string(bom) == "\ufeff" {
		_, _ = br.Discard(3)
	}
	for {
		b, err := br.Peek(1)
		if err != nil {
			return 0, err
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			_, _ = br.Discard(1)
		default:
			return b[0], nil
		}
	}
}
