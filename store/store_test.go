package store

import (
	"testing"

	"github.com/Dosada05/portal-arena/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutAndGetDoNotAliasCanonicalState(t *testing.T) {
	s := NewTournamentStore()

	original := &models.Tournament{
		ID:    "111111",
		Name:  "Cup",
		Teams: []string{"T1", "T2"},
	}
	s.Put(original)

	// Mutating what we put in must not reach the store.
	original.Name = "changed after put"

	got, ok := s.Get("111111")
	require.True(t, ok)
	assert.Equal(t, "Cup", got.Name)

	// Mutating what we got out must not reach the store either.
	got.Teams[0] = "tampered"
	again, _ := s.Get("111111")
	assert.Equal(t, "T1", again.Teams[0])
}

func TestGetMissing(t *testing.T) {
	s := NewTournamentStore()
	_, ok := s.Get("000000")
	assert.False(t, ok)
	assert.False(t, s.Exists("000000"))
}

func TestPutIfAbsent(t *testing.T) {
	s := NewTournamentStore()

	first := &models.Tournament{ID: "222222", Name: "first"}
	require.True(t, s.PutIfAbsent(first))

	second := &models.Tournament{ID: "222222", Name: "second"}
	assert.False(t, s.PutIfAbsent(second))

	got, _ := s.Get("222222")
	assert.Equal(t, "first", got.Name)
	assert.Equal(t, 1, s.Len())
}

func TestUpdateIsAtomic(t *testing.T) {
	s := NewTournamentStore()
	s.Put(&models.Tournament{ID: "333333", Name: "before"})

	updated, err := s.Update("333333", func(t *models.Tournament) error {
		t.Name = "after"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Name)

	// An error from fn leaves the store untouched.
	_, err = s.Update("333333", func(t *models.Tournament) error {
		t.Name = "should not stick"
		return assert.AnError
	})
	require.Error(t, err)
	got, _ := s.Get("333333")
	assert.Equal(t, "after", got.Name)
}

func TestUpdateMissing(t *testing.T) {
	s := NewTournamentStore()
	_, err := s.Update("444444", func(*models.Tournament) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}
