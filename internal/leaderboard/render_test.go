package leaderboard_test

import (
	"math"
	"strconv"
	"testing"

	"github.com/proofboard/proofboard/internal/database/types"
	"github.com/proofboard/proofboard/internal/leaderboard"
	"github.com/stretchr/testify/assert"
)

func entries(n int) []*types.LeaderboardEntry {
	out := make([]*types.LeaderboardEntry, n)
	for i := range out {
		out[i] = &types.LeaderboardEntry{Username: "user" + strconv.Itoa(i+1), Score: int64(100 - i)}
	}

	return out
}

func TestPaginate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		total     int
		page      int
		perPage   int
		wantRanks []int
	}{
		{name: "first page", total: 12, page: 0, perPage: 5, wantRanks: []int{1, 2, 3, 4, 5}},
		{name: "second page", total: 12, page: 1, perPage: 5, wantRanks: []int{6, 7, 8, 9, 10}},
		{name: "partial last page", total: 12, page: 2, perPage: 5, wantRanks: []int{11, 12}},
		{name: "beyond data", total: 12, page: 3, perPage: 5, wantRanks: []int{}},
		{name: "negative page", total: 12, page: -1, perPage: 5, wantRanks: []int{}},
		{name: "empty input", total: 0, page: 0, perPage: 5, wantRanks: []int{}},
		{name: "default page size", total: 12, page: 1, perPage: 0, wantRanks: []int{6, 7, 8, 9, 10}},
		{name: "huge page", total: 2, page: math.MaxInt / 5 * 2, perPage: 5, wantRanks: []int{}},
		{name: "page just past overflow", total: 2, page: math.MaxInt/5 + 1, perPage: 5, wantRanks: []int{}},
		{name: "max page", total: 2, page: math.MaxInt, perPage: 5, wantRanks: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rows := leaderboard.Paginate(entries(tt.total), tt.page, tt.perPage)

			ranks := make([]int, len(rows))
			for i, row := range rows {
				ranks[i] = row.Rank
				assert.Equal(t, "user"+strconv.Itoa(row.Rank), row.Username)
			}

			assert.Equal(t, tt.wantRanks, ranks)
		})
	}
}

func TestPageCount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, leaderboard.PageCount(0, 5))
	assert.Equal(t, 1, leaderboard.PageCount(5, 5))
	assert.Equal(t, 2, leaderboard.PageCount(6, 5))
	assert.Equal(t, 3, leaderboard.PageCount(12, 0))
}

func TestText(t *testing.T) {
	t.Parallel()

	rows := leaderboard.Paginate(entries(2), 0, 5)
	assert.Equal(t, "1. user1 - Score: 100\n2. user2 - Score: 99", leaderboard.Text(rows))
	assert.Empty(t, leaderboard.Text(nil))
}
