package domain

import "time"

// Candidate is static ballot reference data.
type Candidate struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Party  string `json:"party"`
	Symbol string `json:"symbol"`
}

var candidates = []Candidate{
	{ID: "1", Name: "Dr. Rajesh Kumar", Party: "Progressive Democratic Party", Symbol: "🌟"},
	{ID: "2", Name: "Ms. Priya Sharma", Party: "United People's Alliance", Symbol: "🌺"},
	{ID: "3", Name: "Mr. Arjun Singh", Party: "National Development Front", Symbol: "🦅"},
	{ID: "4", Name: "Dr. Meera Patel", Party: "Social Justice Movement", Symbol: "🌱"},
}

// Candidates returns a copy of the ballot.
func Candidates() []Candidate {
	out := make([]Candidate, len(candidates))
	copy(out, candidates)
	return out
}

// FindCandidate looks a candidate up by id.
func FindCandidate(id string) (Candidate, bool) {
	for _, c := range candidates {
		if c.ID == id {
			return c, true
		}
	}
	return Candidate{}, false
}

// Receipt is the voter-facing proof of a confirmed vote.
type Receipt struct {
	VoteID         string    `json:"voteId"`
	Candidate      string    `json:"candidate"`
	Party          string    `json:"party"`
	Symbol         string    `json:"symbol"`
	Timestamp      time.Time `json:"timestamp"`
	BlockchainHash string    `json:"blockchainHash"`
	BlockNumber    int64     `json:"blockNumber"`
	Status         string    `json:"status"`
}
