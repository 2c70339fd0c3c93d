package hwinfo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScoreFallbackOnZero(t *testing.T) {
	require.Equal(t, TierFallback, Score(Info{CPUCores: 0, RAMBytes: 8 * gib}))
	require.Equal(t, TierFallback, Score(Info{CPUCores: 4, RAMBytes: 0}))
	require.Equal(t, TierFallback, Score(Info{CPUCores: 0, RAMBytes: 0}))
}

func TestScoreBoundaries(t *testing.T) {
	cases := []struct {
		name  string
		cores uint32
		ram   uint64
		want  Tier
	}{
		{"high exact boundary", 4, 2 * gib, TierHigh},
		{"high more cores more ram", 8, 8 * gib, TierHigh},
		{"just under high ram falls to mid", 4, 2*gib - 1, TierMid},
		{"just under high cores falls to mid", 3, 2 * gib, TierMid},
		{"mid exact boundary", 2, 512 * mib, TierMid},
		{"just under mid ram falls to low", 2, 512*mib - 1, TierLow},
		{"just under mid cores falls to low", 1, 512 * mib, TierLow},
		{"low exact boundary", 1, 128 * mib, TierLow},
		{"just under low falls to fallback", 1, 128*mib - 1, TierFallback},
		{"single core tiny ram", 1, 64 * mib, TierFallback},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Score(Info{CPUCores: c.cores, RAMBytes: c.ram})
			require.Equal(t, c.want, got)
		})
	}
}

func TestScoreIsPure(t *testing.T) {
	info := Info{CPUCores: 4, RAMBytes: 4 * gib}
	first := Score(info)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Score(info))
	}
}

// TestScoreMonotone checks the invariant from spec §8: if A dominates B
// componentwise, tier(A) >= tier(B).
func TestScoreMonotone(t *testing.T) {
	points := []Info{
		{CPUCores: 0, RAMBytes: 0},
		{CPUCores: 1, RAMBytes: 64 * mib},
		{CPUCores: 1, RAMBytes: 128 * mib},
		{CPUCores: 2, RAMBytes: 512 * mib},
		{CPUCores: 4, RAMBytes: 2 * gib},
		{CPUCores: 16, RAMBytes: 64 * gib},
	}

	for i := range points {
		for j := range points {
			a, b := points[i], points[j]
			dominates := a.CPUCores >= b.CPUCores && a.RAMBytes >= b.RAMBytes
			if dominates {
				require.GreaterOrEqual(t, int(Score(a)), int(Score(b)),
					"A=%+v B=%+v", a, b)
			}
		}
	}
}

func TestArchString(t *testing.T) {
	require.Equal(t, "x86_64", ArchX86_64.String())
	require.Equal(t, "arm64", ArchARM64.String())
	require.Equal(t, "unknown", ArchUnknown.String())
}

func TestTierString(t *testing.T) {
	require.Equal(t, "FALLBACK", TierFallback.String())
	require.Equal(t, "LOW", TierLow.String())
	require.Equal(t, "MID", TierMid.String())
	require.Equal(t, "HIGH", TierHigh.String())
}
