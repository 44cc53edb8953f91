package assign

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jamic/safrole/codec"
	"github.com/jamic/safrole/config"
	"github.com/jamic/safrole/errutil"
)

func testConfig(cores, validators uint32) config.Static {
	cfg := config.Local()
	cfg.Cores = cores
	cfg.Validators = validators
	cfg.EpochLen = 600
	cfg.EpochTailStartAt = 500
	return cfg
}

func TestCoresForValidatorsDeterministic(t *testing.T) {
	e := codec.Blake2bHash([]byte("epoch-entropy"))
	cfg := testConfig(4, 12)

	out1, err := CoresForValidators(cfg, e, 100, 10)
	require.NoError(t, err)
	out2, err := CoresForValidators(cfg, e, 100, 10)
	require.NoError(t, err)
	require.Equal(t, out1, out2)
	require.Len(t, out1, 12)
}

func TestCoresForValidatorsCoreIndicesWithinRange(t *testing.T) {
	e := codec.Blake2bHash([]byte("x"))
	cfg := testConfig(4, 12)

	out, err := CoresForValidators(cfg, e, 0, 10)
	require.NoError(t, err)
	for _, a := range out {
		require.Less(t, a.CoreIndex, uint32(4))
	}
}

func TestCoresForValidatorsRotatesOverTime(t *testing.T) {
	e := codec.Blake2bHash([]byte("x"))
	cfg := testConfig(4, 12)

	outEarly, err := CoresForValidators(cfg, e, 0, 10)
	require.NoError(t, err)
	outLater, err := CoresForValidators(cfg, e, 300, 10)
	require.NoError(t, err)
	require.NotEqual(t, outEarly, outLater)
}

func TestCoresForValidatorsRejectsZeroValidators(t *testing.T) {
	cfg := testConfig(4, 0)

	_, err := CoresForValidators(cfg, [32]byte{}, 0, 10)
	require.Error(t, err)

	var e *errutil.Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, errutil.EmptyInput, e.Kind)
}
