package review_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/proofboard/proofboard/internal/database/types"
	"github.com/proofboard/proofboard/internal/review"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession() *review.Session {
	return review.NewSession(7, &types.Submission{
		ID:        uuid.New(),
		UserID:    11,
		GuildID:   22,
		Username:  "vee",
		Score:     42,
		Image1URL: "https://cdn.example.com/1.png",
		Image2URL: "https://cdn.example.com/2.png",
	})
}

func TestSessionNavigationIsCyclic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		moves []func(*review.Session) (int, error)
		want  int
	}{
		{
			name:  "starts at first image",
			moves: nil,
			want:  0,
		},
		{
			name:  "next",
			moves: []func(*review.Session) (int, error){(*review.Session).ShowNext},
			want:  1,
		},
		{
			name:  "next wraps",
			moves: []func(*review.Session) (int, error){(*review.Session).ShowNext, (*review.Session).ShowNext},
			want:  0,
		},
		{
			name:  "previous wraps",
			moves: []func(*review.Session) (int, error){(*review.Session).ShowPrevious},
			want:  1,
		},
		{
			name: "previous undoes next",
			moves: []func(*review.Session) (int, error){
				(*review.Session).ShowNext,
				(*review.Session).ShowPrevious,
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newTestSession()
			for _, move := range tt.moves {
				_, err := move(s)
				require.NoError(t, err)
			}

			assert.Equal(t, tt.want, s.Index)
			assert.Equal(t, s.Images[tt.want], s.CurrentImage())
		})
	}
}

func TestSessionFullCycleReturnsToStart(t *testing.T) {
	t.Parallel()

	s := newTestSession()
	_, err := s.ShowNext()
	require.NoError(t, err)

	start := s.Index
	for range len(s.Images) {
		_, err := s.ShowNext()
		require.NoError(t, err)
	}

	assert.Equal(t, start, s.Index)
}

func TestSessionKey(t *testing.T) {
	t.Parallel()

	s := newTestSession()
	assert.Equal(t, "review:7:"+s.SubmissionID.String(), s.Key())
}
