package quests

// DayInput carries a partial update for one quest day. Nil fields keep
// their stored values; supplied fields overwrite them, subject to the
// day's latches.
type DayInput struct {
	Quest1Text      *string `json:"quest_1_text"`
	Quest2Text      *string `json:"quest_2_text"`
	Quest3Text      *string `json:"quest_3_text"`
	Quest1Completed *bool   `json:"quest_1_completed"`
	Quest2Completed *bool   `json:"quest_2_completed"`
	Quest3Completed *bool   `json:"quest_3_completed"`
}

// SyncItem is one entry of a bulk sync payload: a calendar date in
// YYYY-MM-DD form plus the day's fields.
type SyncItem struct {
	Date string `json:"date"`
	DayInput
}

// SyncResult counts the outcome of a bulk sync. Items with unparsable or
// missing dates land in Skipped; the batch itself never aborts.
type SyncResult struct {
	Synced  int `json:"synced_count"`
	Skipped int `json:"skipped_count"`
}
