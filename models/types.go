package models

import "time"

// Domain types

// Matchup is a proposed pairing of two cards. It accepts a vote only while
// VotedAt is nil.
type Matchup struct {
	ID        int64      `json:"id"`
	Token     string     `json:"token"`
	Card1UUID string     `json:"card_1_uuid"`
	Card2UUID string     `json:"card_2_uuid"`
	VotedAt   *time.Time `json:"voted_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Vote is an immutable record of a resolved matchup
type Vote struct {
	ID         int64     `json:"id"`
	Card1UUID  string    `json:"card_1_uuid"`
	Card2UUID  string    `json:"card_2_uuid"`
	ChosenUUID string    `json:"chosen_uuid"`
	IPAddress  string    `json:"-"` // Never expose in JSON
	CreatedAt  time.Time `json:"created_at"`
}

// Card1Won reports whether the first card of the pair was chosen
func (v Vote) Card1Won() bool {
	return v.ChosenUUID == v.Card1UUID
}

// Rating is the current strength estimate for a card name, aggregated over
// all printings sharing that name
type Rating struct {
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
	Wins   int     `json:"wins"`
	Losses int     `json:"losses"`
}

// CardView is what a client needs to display one side of a matchup
type CardView struct {
	UUID     string `json:"uuid"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

// Request types

type SubmitVoteRequest struct {
	MatchupToken string `json:"matchup_token"`
	ChosenUUID   string `json:"chosen_uuid"`
}

// Response types

type IssuedMatchup struct {
	Token string   `json:"token"`
	Card1 CardView `json:"card_1"`
	Card2 CardView `json:"card_2"`
}

type SubmitVoteResponse struct {
	VoteID  int64  `json:"vote_id"`
	Message string `json:"message"`
}

type LeaderboardEntry struct {
	Rank     int     `json:"rank"` // 1-indexed ranking
	Name     string  `json:"name"`
	Rating   float64 `json:"rating"`
	Wins     int     `json:"wins"`
	Losses   int     `json:"losses"`
	ImageURL string  `json:"image_url,omitempty"`
}

type Leaderboard struct {
	Entries    []LeaderboardEntry `json:"entries"`
	TotalVotes int                `json:"total_votes"`
}

type TallyEntry struct {
	Rank        int     `json:"rank"`
	Name        string  `json:"name"`
	Wins        int     `json:"wins"`
	Appearances int     `json:"appearances"`
	WinRate     float64 `json:"win_rate"`
}

type TallyReport struct {
	Entries   []TallyEntry `json:"entries"`
	VoteCount int          `json:"vote_count"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
