package db

import "time"

// PortfolioSubject is the snapshot subject for the summed value of all
// tracked wallets. Per-wallet snapshots use the wallet address.
const PortfolioSubject = "portfolio"

type Snapshot struct {
	ID      int64     `json:"id"`
	Subject string    `json:"subject"`
	Value   float64   `json:"value"`
	TakenAt time.Time `json:"taken_at"`
}

type CheckIn struct {
	Subject string    `json:"subject"`
	Day     string    `json:"day"`
	Points  int       `json:"points"`
	At      time.Time `json:"at"`
}
