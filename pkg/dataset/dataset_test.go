package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	d, err := Load()
	require.NoError(t, err)

	assert.Len(t, d.Prefectures, 47)
	assert.Len(t, d.Tokyo1980s, 12)
	assert.Equal(t, 1_293_214_567_890_000.0, d.Counters.Debt.Value)
	assert.Equal(t, 1_000_000.0, d.Counters.Debt.Rate)
	assert.Nil(t, d.Counters.Debt.Since)
	require.NotNil(t, d.Counters.Workers.Since)
	assert.Equal(t, 2025, d.Counters.Workers.Since.Year())
	assert.Len(t, d.Assets, 3)
	assert.Len(t, d.Bridges, 4)
	assert.Len(t, d.BridgeSites, 33)
	assert.Len(t, d.Demographics, 7)
}

func TestLoadIsCached(t *testing.T) {
	a := MustLoad()
	b := MustLoad()
	assert.Same(t, a, b)
}

func TestPrefectureRanking(t *testing.T) {
	d := MustLoad()
	ranked := d.Ranked()
	require.Len(t, ranked, 47)

	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 47, ranked[46].Rank)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].DeclineRate(), ranked[i].DeclineRate())
	}

	// Tokyo is the only prefecture projected to grow, so it ranks last.
	tokyo, ok := d.Prefecture("Tokyo")
	require.True(t, ok)
	assert.Equal(t, 47, tokyo.Rank)
	assert.Less(t, tokyo.DeclineRate(), 0.0)

	akita, ok := d.Prefecture("Akita")
	require.True(t, ok)
	assert.Equal(t, "秋田県", akita.Name)
	assert.Equal(t, 1, akita.Rank)
}

func TestDefaultPrefecture(t *testing.T) {
	d := MustLoad()
	assert.Equal(t, "東京都", d.DefaultPrefecture().Name)
}

func TestRegionalDrop(t *testing.T) {
	d := MustLoad()
	akita, _ := d.Prefecture("Akita")
	tokyo, _ := d.Prefecture("Tokyo")

	assert.Equal(t, 52.0, d.Regional.DropPerPeriod(akita))
	assert.Equal(t, 0.0, d.Regional.DropPerPeriod(tokyo))

	mount := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := d.Regional.Spec(akita, mount)
	assert.Equal(t, akita.Current, s.At(mount))
	assert.Equal(t, akita.Current-52, s.At(mount.Add(5*time.Second)))
	assert.Equal(t, akita.Pro2050, s.At(mount.Add(24*365*time.Hour)))

	still := d.Regional.Spec(tokyo, mount)
	assert.Equal(t, tokyo.Current, still.At(mount.Add(time.Hour)))
}

func TestDecisionMakersOver60(t *testing.T) {
	d := MustLoad()
	assert.InDelta(t, 71.9, d.DecisionMakers.Over60(d.DecisionMakers.CEO), 1e-9)
	assert.InDelta(t, 58.5, d.DecisionMakers.Over60(d.DecisionMakers.Diet), 1e-9)
}

func TestBigMacImpliedRate(t *testing.T) {
	d := MustLoad()
	assert.InDelta(t, 450/5.69, d.FX.ImpliedRate(), 1e-9)
}

func TestBridgeRatio(t *testing.T) {
	assert.InDelta(t, 0.5, Bridge{Total: 10, Unaddressed: 5}.Ratio(), 1e-12)
	assert.Equal(t, 0.0, Bridge{}.Ratio())
}

func TestParseRejectsBadDocuments(t *testing.T) {
	_, err := Parse([]byte("prefectures: ["))
	require.Error(t, err)

	_, err = Parse([]byte("prefectures: []\n"))
	require.Error(t, err)

	_, err = Parse([]byte(`
regional: { default_region: Nowhere }
prefectures:
  - { key: Tokyo, name: 東京都, current: 1, pro2050: 1 }
`))
	require.ErrorContains(t, err, "Nowhere")
}

func TestBridgeSiteAge(t *testing.T) {
	age, ok := BridgeSite{Year: 1939}.Age(2026)
	assert.True(t, ok)
	assert.Equal(t, 87, age)

	_, ok = BridgeSite{}.Age(2026)
	assert.False(t, ok)

	unknown := 0
	for _, b := range MustLoad().BridgeSites {
		assert.Equal(t, "措置未着手", b.Memo, b.Name)
		if b.Year == 0 {
			unknown++
		}
	}
	assert.Equal(t, 19, unknown)
}
