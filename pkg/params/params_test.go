package params

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNewFromEnvHappyPath(t *testing.T) {
	t.Setenv(envRank, "1")
	t.Setenv(envNRanks, "4")
	t.Setenv(envAddresses, "tcp://a:1,tcp://b:1,tcp://c:1,tcp://d:1")

	p, err := NewFromEnv(zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, 1, p.Rank)
	require.Equal(t, 4, p.NRanks)
	require.Equal(t, []string{"tcp://a:1", "tcp://b:1", "tcp://c:1", "tcp://d:1"}, p.Addresses)
	require.Equal(t, defaultBackoffRetries, p.BackoffRetries)
	require.InDelta(t, defaultBackoffAmtS, p.BackoffAmtS, 1e-9)
}

func TestNewFromEnvRejectsNonPowerOfTwo(t *testing.T) {
	t.Setenv(envRank, "0")
	t.Setenv(envNRanks, "3")
	t.Setenv(envAddresses, "tcp://a:1,tcp://b:1,tcp://c:1")

	_, err := NewFromEnv(zerolog.Nop())
	require.Error(t, err)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, envNRanks, cfgErr.Var)
}

func TestNewFromEnvRejectsAddressCountMismatch(t *testing.T) {
	t.Setenv(envRank, "0")
	t.Setenv(envNRanks, "4")
	t.Setenv(envAddresses, "tcp://a:1,tcp://b:1")

	_, err := NewFromEnv(zerolog.Nop())
	require.Error(t, err)
}

func TestNewFromEnvRejectsRankOutOfRange(t *testing.T) {
	t.Setenv(envRank, "4")
	t.Setenv(envNRanks, "4")
	t.Setenv(envAddresses, "tcp://a:1,tcp://b:1,tcp://c:1,tcp://d:1")

	_, err := NewFromEnv(zerolog.Nop())
	require.Error(t, err)
}

func TestNewFromEnvAppliesBackoffOverrides(t *testing.T) {
	t.Setenv(envRank, "0")
	t.Setenv(envNRanks, "2")
	t.Setenv(envAddresses, "tcp://a:1,tcp://b:1")
	t.Setenv(envBackoffRetries, "5")
	t.Setenv(envBackoffAmt, "0.25")
	t.Setenv(envPollItvl, "50")

	p, err := NewFromEnv(zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, 5, p.BackoffRetries)
	require.InDelta(t, 0.25, p.BackoffAmtS, 1e-9)
	require.Equal(t, 50, p.PollItvlMS)
}

func TestNewValidatesDirectly(t *testing.T) {
	_, err := New(0, 3, []string{"a", "b", "c"}, 10, 0.01)
	require.Error(t, err)

	p, err := New(1, 2, []string{"a", "b"}, 10, 0.01)
	require.NoError(t, err)
	require.Equal(t, 1, p.Rank)
}
