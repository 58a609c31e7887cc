package model

// PlayerID identifies an NBA player. Zero means "no player" (team rows,
// administrative events).
type PlayerID int64

// EventCategory is the closed set of play-by-play event types the
// attribution engine understands.
type EventCategory int

const (
	CategoryOther EventCategory = iota
	CategoryShotMade
	CategoryShotMissed
	CategoryFreeThrow
	CategoryRebound
	CategoryFoul
	CategoryTurnover
	CategorySteal
	CategoryViolation
	CategorySubstitution
)

func (c EventCategory) String() string {
	switch c {
	case CategoryShotMade:
		return "SHOT_MADE"
	case CategoryShotMissed:
		return "SHOT_MISSED"
	case CategoryFreeThrow:
		return "FREE_THROW"
	case CategoryRebound:
		return "REBOUND"
	case CategoryFoul:
		return "FOUL"
	case CategoryTurnover:
		return "TURNOVER"
	case CategorySteal:
		return "STEAL"
	case CategoryViolation:
		return "VIOLATION"
	case CategorySubstitution:
		return "SUBSTITUTION"
	default:
		return "OTHER"
	}
}

// ---- Raw input rows (produced by the upstream cleaning pipeline) ----

// RawEvent is one row of the cleaned play-by-play table. MsgType carries the
// NBA numeric event-message type; the classifier maps it to an EventCategory.
type RawEvent struct {
	GameID   string
	Period   int
	Time     int // seconds of game time elapsed
	MsgType  int
	Player1  PlayerID // acting player; 0 for team/administrative rows
	Player2  PlayerID // assister, stealer, or fouled player; 0 if none
	Points   int      // 0/1/2/3; for missed shots, the attempted value
	ShotZone string   // shot-chart zone; empty when not a shot
	Home     bool     // true when the acting team is the home team
	WinProb  float64  // home win probability after this row resolves
}

// RawGame is one game's worth of raw rows in upstream order.
type RawGame struct {
	GameID string
	Rows   []RawEvent
}

// ---- Classified events and sequences ----

// Event is a classified play-by-play row.
type Event struct {
	GameID    string
	Index     int // original row position within the game
	Period    int
	Time      int
	Category  EventCategory
	Primary   PlayerID
	Secondary PlayerID
	Points    int
	ShotZone  string
	Home      bool
	WinProb   float64
}

// Sequence is a maximal run of consecutive events sharing one
// (period, elapsed time) stamp. It is the atomic attribution unit.
type Sequence struct {
	GameID string
	Period int
	Time   int
	Events []Event
}

// Last returns the final event of the sequence.
func (s *Sequence) Last() Event {
	return s.Events[len(s.Events)-1]
}

// ---- Attribution output ----

// Role describes how a player participated in an attributed sequence.
type Role string

const (
	RolePrimary      Role = "primary"
	RoleSecondary    Role = "secondary"
	RoleProportional Role = "proportional"
	RoleBlame        Role = "blame"
)

// AttributionRecord assigns a share of a sequence's win-probability change to
// one player. Delta is oriented to the player's own team: positive means the
// play helped the team the player is on.
type AttributionRecord struct {
	GameID     string
	EventIndex int
	Player     PlayerID
	Role       Role
	Delta      float64
}

// GameRating is the attribution engine's output for one game.
type GameRating struct {
	GameID    string
	Records   []AttributionRecord
	Sequences int
	Skipped   int // events missing a required actor
	Fallbacks int // unrecognized sequences credited via the fallback rule
}

// ---- Lookup tables (dependency-injected, read-only) ----

// Lookups carries the per-game rating and shooting tables the engine needs
// for the assist/putback credit formula.
type Lookups struct {
	HomeORTG    float64
	VisitorORTG float64

	// ZoneFGPct maps player -> shot zone -> field goal percentage.
	ZoneFGPct map[PlayerID]map[string]float64
	// FTPct maps player -> free throw percentage.
	FTPct map[PlayerID]float64
}

// ORTG returns the offensive rating for the given side.
func (l Lookups) ORTG(home bool) float64 {
	if home {
		return l.HomeORTG
	}
	return l.VisitorORTG
}

// ZonePct returns the player's field goal percentage in the given zone,
// or 0 when either is unknown.
func (l Lookups) ZonePct(p PlayerID, zone string) float64 {
	return l.ZoneFGPct[p][zone]
}

// FreeThrowPct returns the player's free throw percentage, or 0 when unknown.
func (l Lookups) FreeThrowPct(p PlayerID) float64 {
	return l.FTPct[p]
}

// ---- Aggregates ----

// PlayerGameImpact is one player's total attributed impact for one game.
type PlayerGameImpact struct {
	GameID string
	Player PlayerID
	Impact float64
	Events int // attribution records contributing
}

// PlayerSeasonImpact is one player's impact summed across stored games.
type PlayerSeasonImpact struct {
	Player PlayerID
	Games  int
	Events int
	Total  float64
}

// PerGame returns the average impact per game.
func (p *PlayerSeasonImpact) PerGame() float64 {
	if p.Games == 0 {
		return 0
	}
	return p.Total / float64(p.Games)
}

// ImpactPoint is one step of a player's cumulative impact series.
type ImpactPoint struct {
	Time       int
	Cumulative float64
}

// GameSummary is a lightweight record for list/show commands.
type GameSummary struct {
	GameID    string
	RatedAt   string
	Events    int
	Sequences int
	Dropped   int
	Skipped   int
	Fallbacks int
	FinalProb float64 // home win probability after the final event
}
