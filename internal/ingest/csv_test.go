package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/campaign-cli/internal/model"
)

const campaignCSV = `channel,sales_conversion,click_through_rate,customer_retention,ad_spend
ChannelAlpha,0.55,0.40,0.50,7000
ChannelBeta,0.65,0.55,0.60,9000
`

func TestParseCSV(t *testing.T) {
	records, err := ParseCSV(context.Background(), strings.NewReader(campaignCSV))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, model.RawRecord{
		"channel":            "ChannelAlpha",
		"sales_conversion":   "0.55",
		"click_through_rate": "0.40",
		"customer_retention": "0.50",
		"ad_spend":           "7000",
	}, records[0])
	assert.Equal(t, "9000", records[1]["ad_spend"])
}

func TestParseCSV_ShortRowLeavesFieldsAbsent(t *testing.T) {
	doc := "channel,sales_conversion,click_through_rate,customer_retention,ad_spend\nA,0.5,0.5\n"

	records, err := ParseCSV(context.Background(), strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].Has("customer_retention"))
	assert.False(t, records[0].Has("ad_spend"))
}

func TestParseCSV_EmptyCellIsPresent(t *testing.T) {
	doc := "channel,ad_spend\nA,\n"

	records, err := ParseCSV(context.Background(), strings.NewReader(doc))
	require.NoError(t, err)
	require.True(t, records[0].Has("ad_spend"))
	assert.Equal(t, "", records[0]["ad_spend"])
}

func TestParseCSV_HeaderNormalization(t *testing.T) {
	doc := "\ufeffchannel , ad_spend,,extra\nA,100,ignored,x\n"

	records, err := ParseCSV(context.Background(), strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.RawRecord{"channel": "A", "ad_spend": "100", "extra": "x"}, records[0])
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	records, err := ParseCSV(context.Background(), strings.NewReader("channel,ad_spend\n"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseCSV_EmptyDocument(t *testing.T) {
	for _, doc := range []string{"", "\n\n"} {
		records, err := ParseCSV(context.Background(), strings.NewReader(doc))
		require.NoError(t, err)
		assert.Empty(t, records)
	}
}

func TestParseCSV_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ParseCSV(ctx, strings.NewReader(campaignCSV))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context cancelled")
}

func TestStreamCSV_Options(t *testing.T) {
	doc := "# comment\na ; b\nc;d\n"
	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader(doc), CSVOptions{
		Delimiter: ';',
		Comment:   '#',
		TrimSpace: true,
	})

	var rows [][]string
	for row := range rowCh {
		rows = append(rows, row)
	}
	for err := range errCh {
		require.NoError(t, err)
	}
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}}, rows)
}
