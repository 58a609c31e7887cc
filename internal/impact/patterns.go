package impact

import "github.com/courtside/go-spa-metrics/internal/model"

// pattern tags the recognized multi-event sequence shapes. Each pattern has
// exactly one handler arm in the engine; anything else takes the fallback.
type pattern int

const (
	patternUnknown pattern = iota
	patternMissAndRebound        // SHOT_MISSED, REBOUND
	patternOffensiveFoul         // FOUL, TURNOVER
	patternShootingFoul          // FOUL, FREE_THROW x{1,2,3}
	patternShootingFoulMissedFT  // FOUL, FREE_THROW x{2,3}, REBOUND
	patternAndOne                // SHOT_MADE, FOUL, FREE_THROW
	patternAndOneMissedFT        // SHOT_MADE, FOUL, FREE_THROW, REBOUND
	patternPutbackMake           // REBOUND, SHOT_MADE
	patternPutbackMiss           // REBOUND, SHOT_MISSED
	patternPutbackAndOne         // REBOUND, SHOT_MADE, FOUL, FREE_THROW
	patternPutbackFoul           // REBOUND, FOUL, FREE_THROW x{2,3}
	patternPutbackAndOneMissedFT // REBOUND, SHOT_MADE, FOUL, FREE_THROW, REBOUND
	patternPutbackFoulMissedFT   // REBOUND, FOUL, FREE_THROW x{2,3}, REBOUND
)

// knownSequences is the taxonomy of recognized multi-event category lists.
var knownSequences = []struct {
	categories []model.EventCategory
	pattern    pattern
}{
	{
		[]model.EventCategory{model.CategoryShotMissed, model.CategoryRebound},
		patternMissAndRebound,
	},
	{
		[]model.EventCategory{model.CategoryFoul, model.CategoryTurnover},
		patternOffensiveFoul,
	},
	{
		[]model.EventCategory{model.CategoryFoul, model.CategoryFreeThrow},
		patternShootingFoul,
	},
	{
		[]model.EventCategory{model.CategoryFoul, model.CategoryFreeThrow, model.CategoryFreeThrow},
		patternShootingFoul,
	},
	{
		[]model.EventCategory{model.CategoryFoul, model.CategoryFreeThrow, model.CategoryFreeThrow, model.CategoryFreeThrow},
		patternShootingFoul,
	},
	{
		[]model.EventCategory{model.CategoryFoul, model.CategoryFreeThrow, model.CategoryFreeThrow, model.CategoryRebound},
		patternShootingFoulMissedFT,
	},
	{
		[]model.EventCategory{model.CategoryFoul, model.CategoryFreeThrow, model.CategoryFreeThrow, model.CategoryFreeThrow, model.CategoryRebound},
		patternShootingFoulMissedFT,
	},
	{
		[]model.EventCategory{model.CategoryShotMade, model.CategoryFoul, model.CategoryFreeThrow},
		patternAndOne,
	},
	{
		[]model.EventCategory{model.CategoryShotMade, model.CategoryFoul, model.CategoryFreeThrow, model.CategoryRebound},
		patternAndOneMissedFT,
	},
	{
		[]model.EventCategory{model.CategoryRebound, model.CategoryShotMade},
		patternPutbackMake,
	},
	{
		[]model.EventCategory{model.CategoryRebound, model.CategoryShotMissed},
		patternPutbackMiss,
	},
	{
		[]model.EventCategory{model.CategoryRebound, model.CategoryShotMade, model.CategoryFoul, model.CategoryFreeThrow},
		patternPutbackAndOne,
	},
	{
		[]model.EventCategory{model.CategoryRebound, model.CategoryFoul, model.CategoryFreeThrow, model.CategoryFreeThrow},
		patternPutbackFoul,
	},
	{
		[]model.EventCategory{model.CategoryRebound, model.CategoryFoul, model.CategoryFreeThrow, model.CategoryFreeThrow, model.CategoryFreeThrow},
		patternPutbackFoul,
	},
	{
		[]model.EventCategory{model.CategoryRebound, model.CategoryShotMade, model.CategoryFoul, model.CategoryFreeThrow, model.CategoryRebound},
		patternPutbackAndOneMissedFT,
	},
	{
		[]model.EventCategory{model.CategoryRebound, model.CategoryFoul, model.CategoryFreeThrow, model.CategoryFreeThrow, model.CategoryRebound},
		patternPutbackFoulMissedFT,
	},
	{
		[]model.EventCategory{model.CategoryRebound, model.CategoryFoul, model.CategoryFreeThrow, model.CategoryFreeThrow, model.CategoryFreeThrow, model.CategoryRebound},
		patternPutbackFoulMissedFT,
	},
}

// identify matches an ordered category list against the taxonomy.
func identify(categories []model.EventCategory) pattern {
	for _, known := range knownSequences {
		if categoriesEqual(categories, known.categories) {
			return known.pattern
		}
	}
	return patternUnknown
}

func categoriesEqual(a, b []model.EventCategory) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
