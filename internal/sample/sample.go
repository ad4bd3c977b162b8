// Package sample embeds a demonstration campaign batch.
package sample

import (
	"bytes"
	"context"
	_ "embed"

	"github.com/sells-group/campaign-cli/internal/ingest"
	"github.com/sells-group/campaign-cli/internal/model"
)

//go:embed campaigns.json
var campaignsJSON []byte

// JSON returns the sample batch document.
func JSON() []byte {
	out := make([]byte, len(campaignsJSON))
	copy(out, campaignsJSON)
	return out
}

// Records parses the sample batch into raw records.
func Records(ctx context.Context) ([]model.RawRecord, error) {
	return ingest.ParseJSON(ctx, bytes.NewReader(campaignsJSON))
}
