package practice

import "testing"

func validCandidate() *Candidate {
	return &Candidate{
		Prompt:       "Which organelle produces most of a cell's ATP?",
		Type:         TypeMultipleChoice,
		Options:      []string{"Nucleus", "Mitochondria", "Ribosome", "Golgi body"},
		CorrectIndex: 1,
		Explanation:  "Mitochondria carry out cellular respiration.",
	}
}

func TestStructural(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Candidate)
		in      Input
		wantErr bool
	}{
		{"valid", func(c *Candidate) {}, Input{}, false},
		{"empty prompt", func(c *Candidate) { c.Prompt = "  " }, Input{}, true},
		{"one option", func(c *Candidate) { c.Options = []string{"A"}; c.CorrectIndex = 0 }, Input{}, true},
		{"seven options", func(c *Candidate) { c.Options = []string{"A", "B", "C", "D", "E", "F", "G"} }, Input{}, true},
		{"six options", func(c *Candidate) { c.Options = []string{"A", "B", "C", "D", "E", "F"} }, Input{}, false},
		{"empty option", func(c *Candidate) { c.Options[2] = "" }, Input{}, true},
		{"negative index", func(c *Candidate) { c.CorrectIndex = -1 }, Input{}, true},
		{"index past end", func(c *Candidate) { c.CorrectIndex = 4 }, Input{}, true},
		{"true false with two", func(c *Candidate) {
			c.Type = TypeTrueFalse
			c.Options = []string{"True", "False"}
			c.CorrectIndex = 0
		}, Input{Type: TypeMixed}, false},
		{"true false with four", func(c *Candidate) { c.Type = TypeTrueFalse }, Input{}, true},
		{"unknown type", func(c *Candidate) { c.Type = "essay" }, Input{}, true},
		{"type mismatch", func(c *Candidate) {}, Input{Type: TypeTrueFalse}, true},
	}

	v := &StructuralValidator{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCandidate()
			tt.mutate(c)
			err := v.Validate(c, tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && err.Validator != "structural" {
				t.Errorf("Validator = %q, want %q", err.Validator, "structural")
			}
		})
	}
}
