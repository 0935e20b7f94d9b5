package contracts

// WeeklyQBRecord 컬럼 정의
// ⭐ SSOT: 디스크 상의 컬럼 순서는 RecordColumns 순서와 동일해야 함
const (
	ColPlayerID      = "player_id"
	ColSeason        = "season"
	ColWeek          = "week"
	ColSeasonType    = "season_type"
	ColPassingEPA    = "passing_epa"
	ColCompletions   = "completions"
	ColAttempts      = "attempts"
	ColPassingYards  = "passing_yards"
	ColPassingTDs    = "passing_tds"
	ColInterceptions = "interceptions"
)

// SeasonTypeRegular marks regular-season rows
const SeasonTypeRegular = "REG"

// RecordColumns returns the on-disk column order of a WeeklyQBRecord
func RecordColumns() []string {
	return []string{
		ColPlayerID,
		ColSeason,
		ColWeek,
		ColSeasonType,
		ColPassingEPA,
		ColCompletions,
		ColAttempts,
		ColPassingYards,
		ColPassingTDs,
		ColInterceptions,
	}
}

// FeatureColumns returns the default model features
func FeatureColumns() []string {
	return []string{
		ColCompletions,
		ColAttempts,
		ColPassingYards,
		ColPassingTDs,
		ColInterceptions,
	}
}

// NonNegativeColumns returns the counting stats that must be >= 0
// passing_yards는 음수 가능 (sack 등) → 제외
func NonNegativeColumns() []string {
	return []string{
		ColCompletions,
		ColAttempts,
		ColPassingTDs,
		ColInterceptions,
	}
}

// WeeklyQBRecord is one row per (player, season, week)
type WeeklyQBRecord struct {
	PlayerID      string  `json:"player_id"`
	Season        int     `json:"season"`
	Week          int     `json:"week"`
	SeasonType    string  `json:"season_type"`
	PassingEPA    float64 `json:"passing_epa"`
	Completions   float64 `json:"completions"`
	Attempts      float64 `json:"attempts"`
	PassingYards  float64 `json:"passing_yards"`
	PassingTDs    float64 `json:"passing_tds"`
	Interceptions float64 `json:"interceptions"`
}

// Key returns the uniqueness key of the record
func (r WeeklyQBRecord) Key() RecordKey {
	return RecordKey{PlayerID: r.PlayerID, Season: r.Season, Week: r.Week}
}

// Features returns the default feature vector in FeatureColumns order
func (r WeeklyQBRecord) Features() []float64 {
	return []float64{r.Completions, r.Attempts, r.PassingYards, r.PassingTDs, r.Interceptions}
}

// RecordKey identifies a player-week
type RecordKey struct {
	PlayerID string
	Season   int
	Week     int
}
