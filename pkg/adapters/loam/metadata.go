package loam

// StateMetadata is the frontmatter of one state document.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
//
//	---
//	state: 1
//	start: true
//	transitions:
//	  - {input: "a", output: "e", to: 1}
//	---
//
// Symbols should be quoted so YAML keeps them as strings.
type StateMetadata struct {
	// State is the state number. When empty, the document name is used.
	State *int `json:"state,omitempty" mapstructure:"state"`

	// Start marks the start state. At most one document may set it.
	Start bool `json:"start,omitempty" mapstructure:"start"`

	Transitions []RuleMetadata `json:"transitions" mapstructure:"transitions"`
}

// RuleMetadata is one outgoing rule of a state document.
type RuleMetadata struct {
	Input  string `json:"input" mapstructure:"input"`
	Output string `json:"output" mapstructure:"output"`
	To     int    `json:"to" mapstructure:"to"`
}
