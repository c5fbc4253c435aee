package sentiment

// The lexicons cover general sentiment words plus driving-behaviour terms.
// Membership is exact token equality, never substring match.

var positiveTerms = makeSet(
	"excellent", "great", "good", "amazing", "awesome", "fantastic",
	"wonderful", "perfect", "outstanding", "brilliant", "superb",
	"pleasant", "friendly", "polite", "courteous", "kind", "helpful",
	"respectful", "professional", "patient", "honest", "trustworthy",
	"cheerful", "considerate", "accommodating", "fair", "decent",

	"careful", "safe", "safely", "smooth", "smoothly", "punctual",
	"timely", "early", "reliable", "responsible", "attentive", "clean",
	"comfortable", "calm", "skilled", "efficient", "gentle", "steady",
)

var negativeTerms = makeSet(
	"bad", "terrible", "awful", "horrible", "poor", "worst",
	"disappointing", "unpleasant", "rude", "mean", "aggressive",
	"hostile", "angry", "abusive", "disrespectful", "unprofessional",
	"dishonest", "harsh", "scary", "frightening", "threatening",

	"careless", "reckless", "dangerous", "dangerously", "unsafe",
	"speeding", "swerving", "tailgating", "distracted", "drunk",
	"late", "slow", "delayed", "unreliable", "irresponsible", "dirty",
	"smelly", "uncomfortable", "erratic", "rough", "negligent",
	"crash", "crashed", "accident", "lost",
)

func makeSet(terms ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		set[t] = struct{}{}
	}
	return set
}
