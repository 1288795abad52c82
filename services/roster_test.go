package services

import (
	"fmt"
	"testing"

	"olymp-registration-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParseCount(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"3", 3},
		{" 6 ", 6},
		{"", 1},
		{"abc", 1},
		{"0", 1},
		{"-2", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseCount(tt.raw), "ParseCount(%q)", tt.raw)
	}
}

func TestParseCollection(t *testing.T) {
	c, err := ParseCollection("contestants")
	require.NoError(t, err)
	assert.Equal(t, CollectionContestants, c)

	_, err = ParseCollection("coaches")
	assert.Error(t, err)
}

func TestResizeGrowsWithPlaceholders(t *testing.T) {
	m := NewRosterManager(1)
	doc := models.NewRegistrationDocument()

	n, err := m.Resize(doc, CollectionContestants, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.Len(t, doc.Contestants, 3)

	for _, c := range doc.Contestants {
		assert.Equal(t, models.AttachmentPlaceholder, c.PassportScan.State)
		assert.Equal(t, models.AttachmentPlaceholder, c.IDPhoto.State)
		assert.Equal(t, models.AttachmentPlaceholder, c.ParentalConsentForm.State)
		assert.Empty(t, c.FullName)
	}
}

func TestResizeClampsToCollectionMaximum(t *testing.T) {
	doc := models.NewRegistrationDocument()

	n, err := NewRosterManager(1).ResizeFromInput(doc, CollectionTeamLeaders, "2")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, doc.TeamLeaders, 1)

	n, err = NewRosterManager(2).ResizeFromInput(doc, CollectionTeamLeaders, "2")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, doc.TeamLeaders, 2)

	n, err = NewRosterManager(2).ResizeFromInput(doc, CollectionContestants, "10")
	require.NoError(t, err)
	assert.Equal(t, models.MaxContestants, n)
	assert.Len(t, doc.Contestants, models.MaxContestants)
}

func TestResizeNeverBelowOne(t *testing.T) {
	doc := models.NewRegistrationDocument()
	n, err := NewRosterManager(1).ResizeFromInput(doc, CollectionContestants, "")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, doc.Contestants, 1)
}

func TestResizeUnknownCollection(t *testing.T) {
	_, err := NewRosterManager(1).Resize(models.NewRegistrationDocument(), Collection("coaches"), 2)
	assert.Error(t, err)
}

func TestResizeRegrowYieldsFreshEntries(t *testing.T) {
	m := NewRosterManager(1)
	doc := models.NewRegistrationDocument()
	_, err := m.Resize(doc, CollectionContestants, 3)
	require.NoError(t, err)
	doc.Contestants[2].FullName = "Retiré"

	_, err = m.Resize(doc, CollectionContestants, 2)
	require.NoError(t, err)
	_, err = m.Resize(doc, CollectionContestants, 3)
	require.NoError(t, err)

	assert.Empty(t, doc.Contestants[2].FullName)
}

func TestResizeContestantsPreservesPrefix(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := NewRosterManager(1)
		doc := models.NewRegistrationDocument()

		n := rapid.IntRange(1, models.MaxContestants).Draw(t, "n")
		got, err := m.Resize(doc, CollectionContestants, n)
		if err != nil {
			t.Fatalf("Resize: %v", err)
		}
		if got != n || len(doc.Contestants) != n {
			t.Fatalf("len = %d (retour %d), attendu %d", len(doc.Contestants), got, n)
		}

		for i := range doc.Contestants {
			doc.Contestants[i].FullName = fmt.Sprintf("candidat-%d", i)
			doc.Contestants[i].PassportNumber = fmt.Sprintf("P%d", i)
		}
		before := append([]models.Contestant(nil), doc.Contestants...)

		smaller := rapid.IntRange(1, n).Draw(t, "smaller")
		if _, err := m.Resize(doc, CollectionContestants, smaller); err != nil {
			t.Fatalf("Resize: %v", err)
		}
		if len(doc.Contestants) != smaller {
			t.Fatalf("len = %d, attendu %d", len(doc.Contestants), smaller)
		}
		for i := 0; i < smaller; i++ {
			if doc.Contestants[i].FullName != before[i].FullName || doc.Contestants[i].PassportNumber != before[i].PassportNumber {
				t.Fatalf("entrée %d modifiée: %+v", i, doc.Contestants[i])
			}
		}
	})
}
