package leaderboard

import (
	"fmt"
	"strings"

	"github.com/proofboard/proofboard/internal/database/types"
)

// DefaultPerPage is the page size of the interactive leaderboard.
const DefaultPerPage = 5

// Row is a ranked line on a leaderboard page.
type Row struct {
	Rank     int
	Username string
	Score    int64
}

// String renders the row as "rank. username - Score: score".
func (r Row) String() string {
	return fmt.Sprintf("%d. %s - Score: %d", r.Rank, r.Username, r.Score)
}

// Paginate returns one page of already ordered entries. Ranks continue across pages.
// A page past the end is empty. A non-positive perPage selects DefaultPerPage.
func Paginate(entries []*types.LeaderboardEntry, page, perPage int) []Row {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	// Compare pages before multiplying so huge page numbers cannot overflow
	if page < 0 || len(entries) == 0 || page > (len(entries)-1)/perPage {
		return []Row{}
	}

	start := page * perPage
	end := min(start+perPage, len(entries))
	rows := make([]Row, 0, end-start)

	for i, entry := range entries[start:end] {
		rows = append(rows, Row{
			Rank:     start + i + 1,
			Username: entry.Username,
			Score:    entry.Score,
		})
	}

	return rows
}

// PageCount is the number of pages needed for total entries. It is at least 1.
func PageCount(total, perPage int) int {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	if total <= 0 {
		return 1
	}

	return (total + perPage - 1) / perPage
}

// Text joins rows with newlines.
func Text(rows []Row) string {
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = row.String()
	}

	return strings.Join(lines, "\n")
}
