package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceAndBearingKnownPair(t *testing.T) {
	// KJFK -> KLAX, roughly 2144 nm at an initial bearing just north of west.
	nm, brg := DistanceAndBearing(40.6413, -73.7781, 33.9416, -118.4085)
	assert.InDelta(t, 2144, nm, 10)
	assert.InDelta(t, 273.7, brg, 1.0)
}

func TestDistanceAndBearingDueNorth(t *testing.T) {
	nm, brg := DistanceAndBearing(0, 0, 1, 0)
	// One degree of latitude is 60 nm on the spherical model.
	assert.InDelta(t, 60.04, nm, 0.1)
	assert.InDelta(t, 0, brg, 1e-9)
}

func TestDistanceAndBearingCoincident(t *testing.T) {
	nm, brg := DistanceAndBearing(47.6, -122.3, 47.6, -122.3)
	assert.Zero(t, nm)
	assert.Zero(t, brg)
}

func TestIntermediatePointMidpoint(t *testing.T) {
	lat, lon := IntermediatePoint(0, 0, 0, 90, 0.5)
	assert.InDelta(t, 0, lat, 1e-9)
	assert.InDelta(t, 45, lon, 1e-9)
}

func TestNormalizeHeading(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{359.9, 359.9},
		{360, 0},
		{370, 10},
		{-10, 350},
		{-720, 0},
		{725, 5},
	}
	for _, c := range cases {
		got := NormalizeHeading(c.in)
		assert.InDelta(t, c.want, got, 1e-9, "input %v", c.in)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.Less(t, got, 360.0)
	}
}

func TestHeadingErrorWrapsShortestTurn(t *testing.T) {
	assert.InDelta(t, -20, HeadingError(350, 10), 1e-9)
	assert.InDelta(t, 20, HeadingError(10, 350), 1e-9)
	assert.InDelta(t, 180, HeadingError(180, 0), 1e-9)
	assert.InDelta(t, 0, HeadingError(90, 90), 1e-9)
}

func TestConversionRoundTrips(t *testing.T) {
	require.InDelta(t, 100.0, KtToMps(MpsToKt(100.0)), 1e-9)
	require.InDelta(t, 100.0, FtToM(MToFt(100.0)), 1e-9)
	require.InDelta(t, 100.0, FtMinToMps(MpsToFtMin(100.0)), 1e-9)

	assert.InDelta(t, 194.384, MpsToKt(100), 1e-3)
	assert.InDelta(t, 328.084, MToFt(100), 1e-3)
	assert.InDelta(t, 19685, MpsToFtMin(100), 1e-1)
}

func TestMetersToDegrees(t *testing.T) {
	// 1113.2 m is 0.01 degrees of latitude everywhere.
	assert.InDelta(t, 0.01, MetersToDegLat(1113.2), 1e-9)

	// At the equator longitude scales like latitude; at 60N a degree of
	// longitude is half as wide.
	assert.InDelta(t, 0.01, MetersToDegLon(1113.2, 0), 1e-9)
	assert.InDelta(t, 0.02, MetersToDegLon(1113.2, 60), 1e-9)

	// At the poles an eastward displacement has no longitude meaning.
	assert.Zero(t, MetersToDegLon(1113.2, 90))
}

func TestMachFromTAS(t *testing.T) {
	// Sea level: 661.47 kt is Mach 1.
	assert.InDelta(t, 1.0, MachFromTAS(661.47, 0), 1e-6)
	// Above the tropopause the speed of sound is constant.
	assert.InDelta(t, MachFromTAS(480, 36089), MachFromTAS(480, 41000), 1e-9)
	// Typical cruise: 450 kt TAS at FL350 is around Mach 0.78.
	assert.InDelta(t, 0.78, MachFromTAS(450, 35000), 0.02)
}
