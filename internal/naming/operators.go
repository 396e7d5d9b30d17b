package naming

import "sort"

// OperatorSymbol enumerates the operator method names that cannot
// appear verbatim in a test method name and therefore need an alias.
type OperatorSymbol int

// Operator symbols, in table order.
const (
	OpNot OperatorSymbol = iota
	OpPercent
	OpAnd
	OpTimes
	OpPower
	OpPlus
	OpMinus
	OpDiv
	OpLess
	OpLessEqual
	OpSpaceship
	OpShiftLeft
	OpEqual
	OpCaseEqual
	OpMatch
	OpGreater
	OpGreaterEqual
	OpShiftRight
	OpUnaryPlus
	OpUnaryMinus
	OpIndex
	OpIndexAssign
	OpXor
	OpOr
	OpTilde
	numOperators
)

var operatorTable = [numOperators]struct {
	symbol string
	alias  string
}{
	OpNot:          {"!", "bang"},
	OpPercent:      {"%", "percent"},
	OpAnd:          {"&", "and"},
	OpTimes:        {"*", "times"},
	OpPower:        {"**", "times2"},
	OpPlus:         {"+", "plus"},
	OpMinus:        {"-", "minus"},
	OpDiv:          {"/", "div"},
	OpLess:         {"<", "lt"},
	OpLessEqual:    {"<=", "lte"},
	OpSpaceship:    {"<=>", "spaceship"},
	OpShiftLeft:    {"<<", "lt2"},
	OpEqual:        {"==", "equals2"},
	OpCaseEqual:    {"===", "equals3"},
	OpMatch:        {"=~", "equalstilde"},
	OpGreater:      {">", "gt"},
	OpGreaterEqual: {">=", "ge"},
	OpShiftRight:   {">>", "gt2"},
	OpUnaryPlus:    {"+@", "unary_plus"},
	OpUnaryMinus:   {"-@", "unary_minus"},
	OpIndex:        {"[]", "index"},
	OpIndexAssign:  {"[]=", "index_equals"},
	OpXor:          {"^", "carat"},
	OpOr:           {"|", "or"},
	OpTilde:        {"~", "tilde"},
}

var (
	bySymbol = make(map[string]OperatorSymbol, numOperators)
	byAlias  = make(map[string]OperatorSymbol, numOperators)

	// aliasesLongestFirst drives prefix matching in TestToMethod so
	// that "index_equals" wins over "index" and "lte" over "lt".
	aliasesLongestFirst []string
)

func init() {
	for op := OperatorSymbol(0); op < numOperators; op++ {
		bySymbol[op.Symbol()] = op
		byAlias[op.Alias()] = op
		aliasesLongestFirst = append(aliasesLongestFirst, op.Alias())
	}
	sortLongestFirst(aliasesLongestFirst)
}

// Symbol returns the operator as written in a method definition.
func (o OperatorSymbol) Symbol() string { return operatorTable[o].symbol }

// Alias returns the identifier-safe name used in test method names.
func (o OperatorSymbol) Alias() string { return operatorTable[o].alias }

func (o OperatorSymbol) String() string { return o.Symbol() }

// LookupOperator returns the operator whose symbol is s.
func LookupOperator(s string) (OperatorSymbol, bool) {
	op, ok := bySymbol[s]
	return op, ok
}

// LookupAlias returns the operator whose alias is a.
func LookupAlias(a string) (OperatorSymbol, bool) {
	op, ok := byAlias[a]
	return op, ok
}

// Operators returns every operator symbol in table order.
func Operators() []OperatorSymbol {
	ops := make([]OperatorSymbol, 0, numOperators)
	for op := OperatorSymbol(0); op < numOperators; op++ {
		ops = append(ops, op)
	}
	return ops
}

// sortLongestFirst orders names by descending length, breaking ties
// lexicographically so the order is stable across runs.
func sortLongestFirst(names []string) {
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
}
