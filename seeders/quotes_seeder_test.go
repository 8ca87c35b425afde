package seeders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"repair-tracker/internal/services"
	"repair-tracker/internal/testutil"
	"repair-tracker/pkg/trackingcode"
)

func TestSeedQuotes(t *testing.T) {
	store := testutil.NewStore()
	publisher := &testutil.Publisher{}
	generator, err := trackingcode.New(trackingcode.ModeRandom)
	require.NoError(t, err)

	quoteService := services.NewQuoteService(store.TxManager(), store.Quotes(), store.Statuses(), generator, publisher, services.NopRecorder(), zap.NewNop())
	trackingService := services.NewTrackingService(store.TxManager(), store.Quotes(), store.Statuses(), publisher, services.NopRecorder(), zap.NewNop())

	codes, err := SeedQuotes(context.Background(), quoteService, trackingService, 6, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, codes, 6)
	assert.Equal(t, 6, store.QuoteCount())

	// по одной начальной записи плюс 0+1+2+3+4+0 шагов
	assert.Equal(t, 6+10, store.EntryCount())

	last, err := trackingService.Track(context.Background(), codes[4])
	require.NoError(t, err)
	assert.Equal(t, "Repair completed", last.CurrentStatus)

	first, err := trackingService.Track(context.Background(), codes[0])
	require.NoError(t, err)
	assert.Equal(t, "Request Received", first.CurrentStatus)
}
