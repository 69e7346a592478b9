package scouting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/scout-engine/scouting"
)

// =============================================================================
// STRING / TIMESTAMP VALIDATORS
// =============================================================================

func TestSanitizeString(t *testing.T) {
	cases := []struct {
		name  string
		input any
		want  string
		ok    bool
	}{
		{"plain string", "warehouse", "warehouse", true},
		{"trims whitespace", "  warehouse \n", "warehouse", true},
		{"whitespace only", "   ", "", false},
		{"empty", "", "", false},
		{"not a string", 42.0, "", false},
		{"nil", nil, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := scouting.SanitizeString(tc.input)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIsValidTimestamp(t *testing.T) {
	assert.True(t, scouting.IsValidTimestamp("2024-03-10T12:00:00Z"))
	assert.True(t, scouting.IsValidTimestamp("2024-03-10T12:00:00.123Z"))
	assert.True(t, scouting.IsValidTimestamp("2024-03-10"))
	assert.False(t, scouting.IsValidTimestamp("not-a-date"))
	assert.False(t, scouting.IsValidTimestamp(""))
	assert.False(t, scouting.IsValidTimestamp(12345))
	assert.False(t, scouting.IsValidTimestamp(nil))
}

func TestNormalizeTimestamp(t *testing.T) {
	assert.Equal(t, "2024-03-10T12:00:00Z", scouting.NormalizeTimestamp("2024-03-10T12:00:00Z", "fallback"))
	assert.Equal(t, "fallback", scouting.NormalizeTimestamp("garbage", "fallback"))
	assert.Equal(t, "fallback", scouting.NormalizeTimestamp(nil, "fallback"))
}

// =============================================================================
// STATUS
// =============================================================================

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, scouting.StatusSuitable, scouting.NormalizeStatus("apto"))
	assert.Equal(t, scouting.StatusUnsuitable, scouting.NormalizeStatus("no_apto"))
	assert.Equal(t, scouting.StatusPending, scouting.NormalizeStatus("pendiente"))

	// The legacy fourth spelling maps onto pending.
	assert.Equal(t, scouting.StatusPending, scouting.NormalizeStatus("sin_evaluar"))

	assert.Equal(t, scouting.Status(""), scouting.NormalizeStatus("approved"))
	assert.Equal(t, scouting.Status(""), scouting.NormalizeStatus(nil))
	assert.Equal(t, scouting.Status(""), scouting.NormalizeStatus(3.0))
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Apto", scouting.StatusSuitable.Label())
	assert.Equal(t, "No apto", scouting.StatusUnsuitable.Label())
	assert.Equal(t, "Pendiente", scouting.StatusPending.Label())
	assert.Equal(t, "Pendiente", scouting.Status("").Label())
}

// =============================================================================
// COORDINATES - tri-state: value / null / absent
// =============================================================================

func TestNormalizeCoords_CanonicalNaming(t *testing.T) {
	coords, ok := scouting.NormalizeCoords(map[string]any{"lat": 40.4168, "lng": -3.7038})
	require.True(t, ok)
	require.NotNil(t, coords)
	assert.Equal(t, 40.4168, coords.Lat)
	assert.Equal(t, -3.7038, coords.Lng)
}

func TestNormalizeCoords_LegacyNaming(t *testing.T) {
	coords, ok := scouting.NormalizeCoords(map[string]any{"latitude": 43.385, "longitude": -8.406})
	require.True(t, ok)
	require.NotNil(t, coords)
	assert.Equal(t, 43.385, coords.Lat)
	assert.Equal(t, -8.406, coords.Lng)
}

func TestNormalizeCoords_ExplicitNullMeansCleared(t *testing.T) {
	coords, ok := scouting.NormalizeCoords(nil)
	assert.True(t, ok, "explicit null is a recognized value, not absent")
	assert.Nil(t, coords)
}

func TestNormalizeCoords_UnrecognizedShapeIsAbsent(t *testing.T) {
	_, ok := scouting.NormalizeCoords("40.4,-3.7")
	assert.False(t, ok)

	_, ok = scouting.NormalizeCoords(map[string]any{"lat": "40.4"})
	assert.False(t, ok)

	_, ok = scouting.NormalizeCoords(map[string]any{"lat": 40.4})
	assert.False(t, ok, "missing longitude is absent, not null")
}

// =============================================================================
// PHOTO LISTS
// =============================================================================

func TestNormalizePhotoList_MixedShapes(t *testing.T) {
	// GIVEN: bare strings and legacy objects interleaved, with duplicates
	input := []any{
		"img://one",
		map[string]any{"url": "img://two", "caption": "entrance"},
		"img://one",
		map[string]any{"url": " img://two "},
		map[string]any{"caption": "no url"},
		"   ",
		7.0,
	}

	// WHEN: normalizing
	refs := scouting.NormalizePhotoList(input)

	// THEN: order-preserving, de-duplicated bare references
	assert.Equal(t, []string{"img://one", "img://two"}, refs)
}

func TestNormalizePhotoList_NonArray(t *testing.T) {
	assert.Empty(t, scouting.NormalizePhotoList("img://one"))
	assert.Empty(t, scouting.NormalizePhotoList(nil))
}
