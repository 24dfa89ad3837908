package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perpStats/internal/model"
)

func TestUserSeries(t *testing.T) {
	records := []model.Record{
		{
			"timestamp": "86400", "uniqueCount": 10, "uniqueCountCumulative": 25,
			"uniqueSwapCount": 4, "uniqueSwapCountCumulative": 12,
			"uniqueMarginCount": 5, "uniqueMarginCountCumulative": 10,
			"uniqueMintBurnCount": 2, "uniqueMintBurnCountCumulative": 3,
		},
		{
			"timestamp": "0", "uniqueCount": 20, "uniqueCountCumulative": 20,
			"uniqueSwapCount": 8, "uniqueSwapCountCumulative": 8,
			"uniqueMarginCount": 10, "uniqueMarginCountCumulative": 10,
			"uniqueMintBurnCount": 2, "uniqueMintBurnCountCumulative": 2,
		},
	}

	out, err := UserSeries(records)
	require.NoError(t, err)
	require.Len(t, out, 2)

	first, second := out[0], out[1]
	assert.Equal(t, 20.0, first.Value("newCount"))
	assert.Equal(t, 0.0, first.Value(KeyOldCount))
	assert.Equal(t, 20.0, first.Value(model.KeyAll))

	assert.Equal(t, 5.0, second.Value("newCount"))
	assert.Equal(t, 4.0, second.Value("newSwapCount"))
	assert.Equal(t, 0.0, second.Value("newMarginCount"))
	assert.Equal(t, 1.0, second.Value("newMintBurnCount"))
	assert.Equal(t, 5.0, second.Value(KeyOldCount))
	assert.Equal(t, 50.0, second.Value(KeyOldPercent))
	assert.Equal(t, 11.0, second.Value(KeyUniqueSum))
	assert.Equal(t, 25.0, second.Value(KeyCumulativeNewUserCount))
}

func TestUserSeriesMissingTimestamp(t *testing.T) {
	_, err := UserSeries([]model.Record{{"uniqueCount": 1}})
	assert.Error(t, err)
}
