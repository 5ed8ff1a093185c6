package practice

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators run in order on every generated question; the first
	// failure drops the question.
	Validators []Validator

	MaxTokens   int
	Temperature float64

	// MaxContentChars caps the material text included in the prompt.
	MaxContentChars int

	// MaxPriorPrompts caps the prior questions listed for deduplication.
	MaxPriorPrompts int
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
		},
		MaxTokens:       2048,
		Temperature:     0.7,
		MaxContentChars: 12000,
		MaxPriorPrompts: 20,
	}
}
