package util

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeTimeProvider(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "local timezone", timezone: "Local"},
		{name: "UTC timezone", timezone: "UTC"},
		{name: "Europe/Berlin", timezone: "Europe/Berlin"},
		{name: "empty defaults to Local", timezone: ""},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := InitializeTimeProvider(tt.timezone)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid timezone")
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, GetTimeProvider().Location())
		})
	}
}

func TestInitializeTimeProvider_KeepsPreviousOnError(t *testing.T) {
	require.NoError(t, InitializeTimeProvider("UTC"))
	require.Error(t, InitializeTimeProvider("Nowhere/Special"))
	assert.Equal(t, "UTC", GetTimeProvider().Location().String())
}

func TestTimeProvider_Clock(t *testing.T) {
	provider := &TimeProvider{}
	require.NoError(t, provider.SetTimezone("Europe/Berlin"))

	instant := time.Date(2025, 1, 15, 7, 30, 5, 0, time.UTC)
	assert.Equal(t, "08:30:05", provider.Clock(instant))
	assert.Equal(t, "--:--:--", provider.Clock(time.Time{}))
}

func TestTimeProvider_In(t *testing.T) {
	provider := &TimeProvider{}
	require.NoError(t, provider.SetTimezone("UTC"))

	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	local := time.Date(2025, 6, 1, 12, 0, 0, 0, berlin)
	converted := provider.In(local)
	assert.Equal(t, 10, converted.Hour())
	assert.True(t, local.Equal(converted))
}

func TestTimeProvider_Concurrency(t *testing.T) {
	provider := &TimeProvider{}
	require.NoError(t, provider.SetTimezone("UTC"))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = provider.Clock(time.Now())
		}()
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_ = provider.SetTimezone("Europe/Berlin")
			} else {
				_ = provider.SetTimezone("UTC")
			}
		}(i)
	}
	wg.Wait()
}
