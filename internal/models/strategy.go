package models

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// StrategyKind discriminates a VerificationStrategy's variant payload
//.
type StrategyKind string

const (
	StrategyTest      StrategyKind = "test"
	StrategyE2E       StrategyKind = "e2e"
	StrategyScript    StrategyKind = "script"
	StrategyHTTP      StrategyKind = "http"
	StrategyFile      StrategyKind = "file"
	StrategyCommand   StrategyKind = "command"
	StrategyManual    StrategyKind = "manual"
	StrategyAI        StrategyKind = "ai"
	StrategyComposite StrategyKind = "composite"
)

// CompositeOperator is the boolean combinator for a composite strategy.
type CompositeOperator string

const (
	OperatorAnd CompositeOperator = "and"
	OperatorOr  CompositeOperator = "or"
)

// Common holds the options every strategy kind shares.
type Common struct {
	// Required defaults to true: a failing required strategy fails the
	// overall verdict, while an optional one that fails is reported as
	// "skipped" rather than an error.
	Required *bool             `yaml:"required,omitempty"`
	Timeout  string            `yaml:"timeout,omitempty"`
	Retries  int               `yaml:"retries,omitempty"`
	Env      map[string]string `yaml:"env,omitempty"`
}

// IsRequired resolves the Required pointer to its spec-mandated default.
func (c Common) IsRequired() bool {
	return c.Required == nil || *c.Required
}

// VerificationStrategy is a discriminated union over the nine strategy
// kinds. Exactly one of the payload fields is populated, matching Kind.
// Decoding/encoding goes through custom YAML marshal/unmarshal so task front
// matter can use a flat "type: test" style record instead of a Go-shaped
// tagged enum.
type VerificationStrategy struct {
	Kind   StrategyKind
	Common Common

	Test      *TestStrategy
	E2E       *E2EStrategy
	Script    *ScriptStrategy
	HTTP      *HTTPStrategy
	File      *FileStrategy
	Command   *CommandStrategy
	Manual    *ManualStrategy
	AI        *AIStrategy
	Composite *CompositeStrategy
}

type TestStrategy struct {
	Pattern string   `yaml:"pattern,omitempty"`
	Names   []string `yaml:"names,omitempty"`
	Quick   bool     `yaml:"quick,omitempty"`
}

type E2EStrategy struct {
	Pattern string   `yaml:"pattern,omitempty"`
	Tags    []string `yaml:"tags,omitempty"`
}

type ScriptStrategy struct {
	Path         string   `yaml:"path"`
	Args         []string `yaml:"args,omitempty"`
	ExpectedExit []int    `yaml:"expectedExit,omitempty"`
}

// Expects reports whether code satisfies this strategy's expected-exit set,
// defaulting to "zero" when no set is declared.
func (s *ScriptStrategy) Expects(code int) bool {
	if len(s.ExpectedExit) == 0 {
		return code == 0
	}
	for _, e := range s.ExpectedExit {
		if e == code {
			return true
		}
	}
	return false
}

type HTTPStrategy struct {
	URL          string `yaml:"url"`
	Method       string `yaml:"method,omitempty"`
	ExpectStatus int    `yaml:"expectStatus,omitempty"`
	BodyPattern  string `yaml:"bodyPattern,omitempty"`
}

type FileStrategy struct {
	Path         string `yaml:"path"`
	ShouldExist  *bool  `yaml:"shouldExist,omitempty"`
	ContentMatch string `yaml:"contentMatch,omitempty"`
	MinSize      *int64 `yaml:"minSize,omitempty"`
	MaxSize      *int64 `yaml:"maxSize,omitempty"`
}

// WantExists resolves ShouldExist to its default of true.
func (s *FileStrategy) WantExists() bool {
	return s.ShouldExist == nil || *s.ShouldExist
}

type CommandStrategy struct {
	Command      string   `yaml:"command"`
	Args         []string `yaml:"args,omitempty"`
	ExpectedExit []int    `yaml:"expectedExit,omitempty"`
}

func (s *CommandStrategy) Expects(code int) bool {
	if len(s.ExpectedExit) == 0 {
		return code == 0
	}
	for _, e := range s.ExpectedExit {
		if e == code {
			return true
		}
	}
	return false
}

type ManualStrategy struct {
	Instructions string   `yaml:"instructions,omitempty"`
	Checklist    []string `yaml:"checklist,omitempty"`
}

type AIStrategy struct {
	Prompt string `yaml:"prompt,omitempty"`
}

type CompositeStrategy struct {
	Operator CompositeOperator      `yaml:"operator"`
	Logic    CompositeOperator      `yaml:"logic,omitempty"` // alias accepted for Operator
	Children []VerificationStrategy `yaml:"strategies"`
}

// ResolvedOperator returns Operator, falling back to the Logic alias field,
// defaulting to "and".
func (c *CompositeStrategy) ResolvedOperator() CompositeOperator {
	if c.Operator != "" {
		return c.Operator
	}
	if c.Logic != "" {
		return c.Logic
	}
	return OperatorAnd
}

// UnmarshalYAML decodes a flat "{type: test, pattern: ...}" record into the
// matching tagged-union payload.
func (v *VerificationStrategy) UnmarshalYAML(node *yaml.Node) error {
	var head struct {
		Type StrategyKind `yaml:"type"`
	}
	if err := node.Decode(&head); err != nil {
		return fmt.Errorf("decode strategy type: %w", err)
	}
	var common Common
	if err := node.Decode(&common); err != nil {
		return fmt.Errorf("decode strategy common options: %w", err)
	}

	v.Kind = head.Type
	v.Common = common

	switch head.Type {
	case StrategyTest:
		v.Test = &TestStrategy{}
		return node.Decode(v.Test)
	case StrategyE2E:
		v.E2E = &E2EStrategy{}
		return node.Decode(v.E2E)
	case StrategyScript:
		v.Script = &ScriptStrategy{}
		return node.Decode(v.Script)
	case StrategyHTTP:
		v.HTTP = &HTTPStrategy{}
		return node.Decode(v.HTTP)
	case StrategyFile:
		v.File = &FileStrategy{}
		return node.Decode(v.File)
	case StrategyCommand:
		v.Command = &CommandStrategy{}
		return node.Decode(v.Command)
	case StrategyManual:
		v.Manual = &ManualStrategy{}
		return node.Decode(v.Manual)
	case StrategyAI:
		v.AI = &AIStrategy{}
		return node.Decode(v.AI)
	case StrategyComposite:
		v.Composite = &CompositeStrategy{}
		return node.Decode(v.Composite)
	default:
		return fmt.Errorf("unknown strategy type %q", head.Type)
	}
}

// MarshalYAML flattens the tagged union back into a single "type"-discriminated
// record for front-matter serialization.
func (v VerificationStrategy) MarshalYAML() (interface{}, error) {
	out := map[string]interface{}{"type": v.Kind}
	mergeCommon(out, v.Common)

	var payload interface{}
	switch v.Kind {
	case StrategyTest:
		payload = v.Test
	case StrategyE2E:
		payload = v.E2E
	case StrategyScript:
		payload = v.Script
	case StrategyHTTP:
		payload = v.HTTP
	case StrategyFile:
		payload = v.File
	case StrategyCommand:
		payload = v.Command
	case StrategyManual:
		payload = v.Manual
	case StrategyAI:
		payload = v.AI
	case StrategyComposite:
		payload = v.Composite
	default:
		return nil, fmt.Errorf("unknown strategy type %q", v.Kind)
	}

	b, err := yaml.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var fields map[string]interface{}
	if err := yaml.Unmarshal(b, &fields); err != nil {
		return nil, err
	}
	for k, val := range fields {
		out[k] = val
	}
	return out, nil
}

func mergeCommon(out map[string]interface{}, c Common) {
	if c.Required != nil {
		out["required"] = *c.Required
	}
	if c.Timeout != "" {
		out["timeout"] = c.Timeout
	}
	if c.Retries != 0 {
		out["retries"] = c.Retries
	}
	if len(c.Env) != 0 {
		out["env"] = c.Env
	}
}
