package relevance

// Rule binds a lowercase substring pattern to its point weight.
type Rule struct {
	Pattern string
	Points  int
}

// RuleSet is the complete scoring configuration. Slice order is the
// evaluation order and must stay deterministic; SourceBonus is matched
// against the URL host with first-match-wins semantics.
type RuleSet struct {
	HighValue   []Rule
	MediumValue []Rule
	Companies   []Rule
	TechTerms   []Rule
	SourceBonus []Rule

	CurrentYearBonus int
	RecentYearBonus  int
	BaseScore        int
}

// DefaultRules returns the hand-tuned reference tables. The numeric values
// are fixture data the tests pin; revise them through configuration, not here.
func DefaultRules() RuleSet {
	return RuleSet{
		HighValue: []Rule{
			{"openai", 20}, {"chatgpt", 20}, {"gpt", 15}, {"claude", 15},
			{"gemini", 15}, {"llm", 12}, {"transformer", 12}, {"neural", 10},
			{"breakthrough", 15}, {"launch", 10}, {"release", 8}, {"announces", 8},
		},
		MediumValue: []Rule{
			{"artificial-intelligence", 10}, {"machine-learning", 10}, {"deep-learning", 10},
			{"automation", 8}, {"robot", 8}, {"algorithm", 6}, {"data", 4},
			{"startup", 5}, {"funding", 6}, {"investment", 6}, {"acquisition", 8},
		},
		Companies: []Rule{
			{"google", 10}, {"microsoft", 10}, {"amazon", 8}, {"meta", 8}, {"facebook", 8},
			{"nvidia", 12}, {"anthropic", 15}, {"mistral", 12}, {"huggingface", 10},
			{"tesla", 8}, {"apple", 8}, {"samsung", 6}, {"intel", 6},
		},
		TechTerms: []Rule{
			{"model", 4}, {"training", 5}, {"dataset", 4}, {"performance", 4},
			{"research", 5}, {"paper", 4}, {"study", 4}, {"experiment", 4},
		},
		SourceBonus: []Rule{
			{"techcrunch.com", 8},
			{"wired.com", 10},
			{"theverge.com", 8},
			{"venturebeat.com", 7},
			{"technologyreview.com", 12},
			{"arstechnica.com", 9},
			{"zdnet.com", 6},
			{"forbes.com", 7},
			{"bloomberg.com", 10},
		},
		CurrentYearBonus: 8,
		RecentYearBonus:  4,
		BaseScore:        5,
	}
}
