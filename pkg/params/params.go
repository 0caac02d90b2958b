// Package params snapshots the world topology a collectivesmq process
// runs in: own rank, world size, peer addresses, and backoff tuning.
// A Params value is immutable once constructed.
package params

import (
	"fmt"
	"math/bits"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

const (
	envRank           = "PYZMQCOLLECTIVES_RANK"
	envNRanks         = "PYZMQCOLLECTIVES_NRANKS"
	envAddresses      = "PYZMQCOLLECTIVES_ADDRESSES"
	envBackoffRetries = "PYZMQCOLLECTIVES_BACKOFF_RETRIES"
	envBackoffAmt     = "PYZMQCOLLECTIVES_BACKOFF_AMT_S"
	envPollItvl       = "PYZMQCOLLECTIVES_POLL_ITVL_MS"

	defaultBackoffRetries = 1000
	defaultBackoffAmtS    = 0.01
)

// ConfigError reports a missing or malformed environment variable.
// It wraps the underlying parse failure so callers can errors.Is/As
// through to strconv errors when useful.
type ConfigError struct {
	Var string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("params: %s: %v", e.Var, e.Err)
	}
	return fmt.Sprintf("params: %s", e.Var)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func cfgErr(v string, err error) *ConfigError { return &ConfigError{Var: v, Err: err} }

// Params is the immutable snapshot of world topology and backoff
// tuning consumed by pkg/transport and pkg/collectives.
type Params struct {
	Rank      int
	NRanks    int
	Addresses []string

	BackoffRetries int
	BackoffAmtS    float64
	PollItvlMS     int // 0 means unset; stored by the retrying transport, whose polls wait the current backoff delay instead
}

// NewFromEnv builds Params from the process environment. It fails with
// a *ConfigError when a required variable is absent or malformed, when
// the address list length doesn't equal nranks, when rank is out of
// range, or when nranks is not a power of two (the binomial-tree
// algorithms assume logp = ceil(log2(nranks)) exactly covers the
// world; see spec Open Question 3).
func NewFromEnv(logger zerolog.Logger) (*Params, error) {
	rankStr, ok := os.LookupEnv(envRank)
	if !ok {
		return nil, cfgErr(envRank, fmt.Errorf("not set"))
	}
	rank, err := strconv.Atoi(rankStr)
	if err != nil {
		return nil, cfgErr(envRank, err)
	}

	nranksStr, ok := os.LookupEnv(envNRanks)
	if !ok {
		return nil, cfgErr(envNRanks, fmt.Errorf("not set"))
	}
	nranks, err := strconv.Atoi(nranksStr)
	if err != nil {
		return nil, cfgErr(envNRanks, err)
	}
	if nranks <= 0 {
		return nil, cfgErr(envNRanks, fmt.Errorf("must be positive, got %d", nranks))
	}
	if bits.OnesCount(uint(nranks)) != 1 {
		return nil, cfgErr(envNRanks, fmt.Errorf("must be a power of two, got %d", nranks))
	}

	addrStr, ok := os.LookupEnv(envAddresses)
	if !ok {
		return nil, cfgErr(envAddresses, fmt.Errorf("not set"))
	}
	addresses := strings.Split(addrStr, ",")
	if len(addresses) != nranks {
		return nil, cfgErr(envAddresses, fmt.Errorf("expected %d addresses, got %d", nranks, len(addresses)))
	}

	if rank < 0 || rank >= nranks {
		return nil, cfgErr(envRank, fmt.Errorf("rank %d out of range [0, %d)", rank, nranks))
	}

	p := &Params{
		Rank:           rank,
		NRanks:         nranks,
		Addresses:      addresses,
		BackoffRetries: defaultBackoffRetries,
		BackoffAmtS:    defaultBackoffAmtS,
	}

	if v, ok := os.LookupEnv(envBackoffRetries); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, cfgErr(envBackoffRetries, err)
		}
		p.BackoffRetries = n
	}
	if v, ok := os.LookupEnv(envBackoffAmt); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, cfgErr(envBackoffAmt, err)
		}
		p.BackoffAmtS = f
	}
	if v, ok := os.LookupEnv(envPollItvl); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, cfgErr(envPollItvl, err)
		}
		p.PollItvlMS = n
	}

	logger.Debug().
		Int("rank", p.Rank).
		Int("nranks", p.NRanks).
		Int("addresses", len(p.Addresses)).
		Msg("params resolved from environment")

	return p, nil
}

// New builds Params directly, for callers that already have a
// topology in hand (tests, non-env bootstraps). It applies the same
// validation as NewFromEnv.
func New(rank, nranks int, addresses []string, backoffRetries int, backoffAmtS float64) (*Params, error) {
	if nranks <= 0 || bits.OnesCount(uint(nranks)) != 1 {
		return nil, cfgErr(envNRanks, fmt.Errorf("must be a power of two, got %d", nranks))
	}
	if len(addresses) != nranks {
		return nil, cfgErr(envAddresses, fmt.Errorf("expected %d addresses, got %d", nranks, len(addresses)))
	}
	if rank < 0 || rank >= nranks {
		return nil, cfgErr(envRank, fmt.Errorf("rank %d out of range [0, %d)", rank, nranks))
	}
	return &Params{
		Rank:           rank,
		NRanks:         nranks,
		Addresses:      addresses,
		BackoffRetries: backoffRetries,
		BackoffAmtS:    backoffAmtS,
	}, nil
}
