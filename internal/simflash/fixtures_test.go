package simflash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashtrail/bootutil/core"
)

func TestNewFixture_UnknownNameFails(t *testing.T) {
	_, err := NewFixture("does-not-exist")
	require.Error(t, err)
}

func TestNewFixture_Fresh(t *testing.T) {
	f, err := NewFixture("fresh")
	require.NoError(t, err)

	st, err := core.ReadSwapState(f.Primary)
	require.NoError(t, err)
	assert.Equal(t, core.MagicUnset, st.Magic)

	swapType, err := core.SwapTypeMulti(0, f.Provider, f.Resolver, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, core.SwapTypeNone, swapType)
}

func TestNewFixture_TestPending(t *testing.T) {
	f, err := NewFixture("test-pending")
	require.NoError(t, err)

	swapType, err := core.SwapTypeMulti(0, f.Provider, f.Resolver, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, core.SwapTypeTest, swapType)
}

func TestNewFixture_PermPending(t *testing.T) {
	f, err := NewFixture("perm-pending")
	require.NoError(t, err)

	swapType, err := core.SwapTypeMulti(0, f.Provider, f.Resolver, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, core.SwapTypePerm, swapType)
}

func TestNewFixture_RevertPending(t *testing.T) {
	f, err := NewFixture("revert-pending")
	require.NoError(t, err)

	swapType, err := core.SwapTypeMulti(0, f.Provider, f.Resolver, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, core.SwapTypeRevert, swapType)
}

func TestNewFixture_Confirmed(t *testing.T) {
	f, err := NewFixture("confirmed")
	require.NoError(t, err)

	swapType, err := core.SwapTypeMulti(0, f.Provider, f.Resolver, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, core.SwapTypeNone, swapType)
}

func TestNewFixture_CorruptSecondary(t *testing.T) {
	f, err := NewFixture("corrupt-secondary")
	require.NoError(t, err)

	st, err := core.ReadSwapState(f.Secondary)
	require.NoError(t, err)
	assert.Equal(t, core.MagicBad, st.Magic)
}

func TestFixtureNames_CoversEverySwitchCase(t *testing.T) {
	for _, name := range FixtureNames() {
		_, err := NewFixture(name)
		assert.NoError(t, err, "fixture %q", name)
	}
}
