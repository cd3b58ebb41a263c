package markup

// Filter transforms a token stream. Filters must not modify the tokens
// of their input slice in place; callers may replay the input.
type Filter func([]Token) []Token

// Chain composes filters left to right: Chain(f1, f2)(s) == f2(f1(s)).
func Chain(filters ...Filter) Filter {
	return func(tokens []Token) []Token {
		for _, f := range filters {
			tokens = f(tokens)
		}
		return tokens
	}
}

// Render parses src, runs it through filters and serializes the result.
func Render(src string, fullDocument bool, filters ...Filter) (string, error) {
	tokens, err := Parse(src, fullDocument)
	if err != nil {
		return "", err
	}
	return Serialize(Chain(filters...)(tokens)), nil
}
