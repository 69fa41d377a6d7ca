package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTsColumnScan(t *testing.T) {
	var ts tsColumn

	require.NoError(t, ts.Scan(time.Date(2011, 6, 10, 9, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2011-06-10 09:00:00", string(ts))

	require.NoError(t, ts.Scan([]byte("2011-03-02 18:04:11")))
	assert.Equal(t, "2011-03-02 18:04:11", string(ts))

	require.NoError(t, ts.Scan("2011-03-02 18:04:11"))
	assert.Equal(t, "2011-03-02 18:04:11", string(ts))

	assert.Error(t, ts.Scan(42))
}

func TestWeekCutoff(t *testing.T) {
	// Week 0 begins at the epoch.
	assert.Equal(t, "2001-01-01 00:00:00", weekCutoff(0))
	assert.Equal(t, "2001-01-08 00:00:00", weekCutoff(1))
}
