package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMeters(t *testing.T) {
	t.Run("identical points have zero distance", func(t *testing.T) {
		assert.Equal(t, 0.0, DistanceMeters(35.6895, 139.6917, 35.6895, 139.6917))
	})

	t.Run("one degree of longitude at the equator", func(t *testing.T) {
		d := DistanceMeters(0, 0, 0, 1)
		assert.InDelta(t, 111195.0, d, 50.0)
	})

	t.Run("one degree of latitude", func(t *testing.T) {
		d := DistanceMeters(0, 0, 1, 0)
		assert.InDelta(t, 111195.0, d, 50.0)
	})

	t.Run("known city pair", func(t *testing.T) {
		// Tokyo Station to Shinjuku Station, roughly 6.2 km.
		d := DistanceMeters(35.6812, 139.7671, 35.6896, 139.7006)
		assert.InDelta(t, 6100.0, d, 300.0)
	})

	t.Run("antipodal points approach half the circumference", func(t *testing.T) {
		d := DistanceMeters(0, 0, 0, 180)
		assert.InDelta(t, 20015086.0, d, 1000.0)
	})
}
