package rates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	body := []byte(`{"result":"success","rates":{"THB":1,"USD":0.028,"EUR":0.026}}`)

	rates, err := Parse(body)
	require.NoError(t, err)
	assert.Equal(t, 0.028, rates["USD"])
	assert.Equal(t, 1.0, rates["THB"])
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte(`not json`))
	assert.Error(t, err)

	_, err = Parse([]byte(`{"result":"error","rates":{"USD":0.028}}`))
	assert.Error(t, err)

	_, err = Parse([]byte(`{"result":"success","rates":{}}`))
	assert.Error(t, err)
}

func TestConvert(t *testing.T) {
	cache := &Cache{}
	cache.SetForTest(map[string]float64{"USD": 0.028, "EUR": 0.026})

	usd, err := cache.Convert(1_000_000, "USD")
	require.NoError(t, err)
	assert.InDelta(t, 28_000, usd, 0.01)

	_, err = cache.Convert(1_000_000, "XYZ")
	assert.Error(t, err)
}

func TestConvertEmptyCache(t *testing.T) {
	cache := &Cache{}
	_, err := cache.Convert(100, "USD")
	assert.Error(t, err)
}

func TestSnapshotIsACopy(t *testing.T) {
	cache := &Cache{}
	cache.SetForTest(map[string]float64{"USD": 0.028})

	snap, fetchedAt := cache.Snapshot()
	assert.False(t, fetchedAt.IsZero())

	snap["USD"] = 999
	usd, err := cache.Convert(100, "USD")
	require.NoError(t, err)
	assert.InDelta(t, 2.8, usd, 0.001)
}
