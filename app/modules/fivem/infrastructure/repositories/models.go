package fivemdb

// HoldingsRow is one character's money, pulled out of the players.money JSON column.
type HoldingsRow struct {
	CitizenID string  `bun:"citizenid"`
	Cash      float64 `bun:"cash"`
	Bank      float64 `bun:"bank"`
	Crypto    float64 `bun:"crypto"`
}

// RichRow is one character ranked by cash plus bank.
type RichRow struct {
	CitizenID string  `bun:"citizenid"`
	Name      string  `bun:"char_name"`
	JobLabel  string  `bun:"job_label"`
	Cash      float64 `bun:"cash"`
	Bank      float64 `bun:"bank"`
}

// JobRow counts characters per job.
type JobRow struct {
	Name  string `bun:"job_name"`
	Label string `bun:"job_label"`
	Count int    `bun:"job_count"`
}

// ModelRow counts owned vehicles per model.
type ModelRow struct {
	Model string `bun:"model"`
	Count int    `bun:"model_count"`
}

// PlayerCounts holds the character and activity counters.
type PlayerCounts struct {
	Characters     int `bun:"characters"`
	UniqueLicenses int `bun:"unique_licenses"`
	Active24h      int `bun:"active_24h"`
	Active7d       int `bun:"active_7d"`
}
