package gap

var (
	FuzzyMatch     = fuzzyMatch
	StripToDefined = stripToDefined
	IsTestMethod   = isTestMethod
)
