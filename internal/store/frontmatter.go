package store

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/agent-foreman/foreman/internal/models"
)

const frontMatterDelim = "---"

// frontMatter is the YAML-tagged shape stored between the two "---" fences
// at the top of a task file. Description, Acceptance, and Notes live in the
// markdown body instead, so they are excluded here.
type frontMatter struct {
	ID                     string                        `yaml:"id"`
	Module                 string                        `yaml:"module"`
	Priority               int                           `yaml:"priority"`
	Status                 models.TaskStatus             `yaml:"status"`
	DependsOn              []string                      `yaml:"dependsOn,omitempty"`
	Supersedes             []string                      `yaml:"supersedes,omitempty"`
	Tags                   []string                      `yaml:"tags,omitempty"`
	Origin                 models.Origin                 `yaml:"origin,omitempty"`
	Version                int                           `yaml:"version"`
	TaskType               models.TaskType               `yaml:"taskType,omitempty"`
	VerificationStrategies []models.VerificationStrategy `yaml:"verificationStrategies,omitempty"`
	TestRequirements       *models.TestRequirements      `yaml:"testRequirements,omitempty"`
	AffectedBy             []string                      `yaml:"affectedBy,omitempty"`
	Verification           *models.VerificationSummary   `yaml:"verification,omitempty"`
	TDDGuidance            *models.TDDGuidance           `yaml:"tddGuidance,omitempty"`
}

// SerializeTask renders a Task as front matter + markdown body. Unknown
// sections captured in RawBody are emitted verbatim after the recognized
// ones, satisfying the round-trip law in spec.md §8
// ("Parse(serialize(task)) = task, preserving unknown markdown sections").
func SerializeTask(t *models.Task) ([]byte, error) {
	fm := frontMatter{
		ID:                     t.ID,
		Module:                 t.Module,
		Priority:               t.Priority,
		Status:                 t.Status,
		DependsOn:              t.DependsOn,
		Supersedes:             t.Supersedes,
		Tags:                   t.Tags,
		Origin:                 t.Origin,
		Version:                t.Version,
		TaskType:               t.TaskType,
		VerificationStrategies: t.VerificationStrategies,
		TestRequirements:       t.TestRequirements,
		AffectedBy:             t.AffectedBy,
		Verification:           t.Verification,
		TDDGuidance:            t.TDDGuidance,
	}

	yamlBytes, err := yaml.Marshal(&fm)
	if err != nil {
		return nil, fmt.Errorf("marshal front matter: %w", err)
	}

	var b strings.Builder
	b.WriteString(frontMatterDelim)
	b.WriteByte('\n')
	b.Write(yamlBytes)
	b.WriteString(frontMatterDelim)
	b.WriteString("\n\n")

	b.WriteString("# ")
	b.WriteString(t.Description)
	b.WriteString("\n\n")

	b.WriteString("## Acceptance Criteria\n\n")
	for i, c := range t.Acceptance {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c)
	}

	if t.Notes != "" {
		b.WriteString("\n## Notes\n\n")
		b.WriteString(t.Notes)
		b.WriteString("\n")
	}

	if t.RawBody != "" {
		b.WriteString("\n")
		b.WriteString(t.RawBody)
		if !strings.HasSuffix(t.RawBody, "\n") {
			b.WriteString("\n")
		}
	}

	return []byte(b.String()), nil
}

// ParseTask splits raw task-file bytes into front matter and markdown body,
// reconstructing the full Task. Returns a plain error when the fences or YAML
// are malformed; LoadTask wraps it in a *CorruptFrontMatterError with the path.
func ParseTask(raw []byte) (*models.Task, error) {
	text := string(raw)
	lines := strings.Split(text, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != frontMatterDelim {
		return nil, fmt.Errorf("missing opening front-matter fence")
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontMatterDelim {
			end = i
			break
		}
	}
	if end < 0 {
		return nil, fmt.Errorf("missing closing front-matter fence")
	}

	yamlBlock := strings.Join(lines[1:end], "\n")
	var fm frontMatter
	if err := yaml.Unmarshal([]byte(yamlBlock), &fm); err != nil {
		return nil, fmt.Errorf("parse front matter: %w", err)
	}

	body := strings.Join(lines[end+1:], "\n")
	description, acceptance, notes, rawBody := parseBody(body)

	return &models.Task{
		ID:                     fm.ID,
		Module:                 fm.Module,
		Priority:               fm.Priority,
		Status:                 fm.Status,
		Description:            description,
		Acceptance:             acceptance,
		DependsOn:              fm.DependsOn,
		Supersedes:             fm.Supersedes,
		Tags:                   fm.Tags,
		Notes:                  notes,
		Origin:                 fm.Origin,
		Version:                fm.Version,
		TaskType:               fm.TaskType,
		VerificationStrategies: fm.VerificationStrategies,
		TestRequirements:       fm.TestRequirements,
		AffectedBy:             fm.AffectedBy,
		Verification:           fm.Verification,
		TDDGuidance:            fm.TDDGuidance,
		RawBody:                rawBody,
	}, nil
}

// parseBody walks the markdown body line by line, recognizing the H1
// description, "## Acceptance Criteria" ordered list, and "## Notes"
// section. Any other "## " section encountered is preserved verbatim (in
// original order) as rawBody.
func parseBody(body string) (description string, acceptance []string, notes string, rawBody string) {
	lines := strings.Split(body, "\n")

	const (
		sectionNone = iota
		sectionAcceptance
		sectionNotes
		sectionOther
	)
	section := sectionNone
	var notesLines []string
	var rawLines []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case description == "" && strings.HasPrefix(trimmed, "# ") && !strings.HasPrefix(trimmed, "## "):
			description = strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
			section = sectionNone
			continue
		case strings.EqualFold(trimmed, "## Acceptance Criteria"):
			section = sectionAcceptance
			continue
		case strings.EqualFold(trimmed, "## Notes"):
			section = sectionNotes
			continue
		case strings.HasPrefix(trimmed, "## "):
			section = sectionOther
			rawLines = append(rawLines, line)
			continue
		}

		switch section {
		case sectionAcceptance:
			if item, ok := parseOrderedListItem(trimmed); ok {
				acceptance = append(acceptance, item)
			}
		case sectionNotes:
			notesLines = append(notesLines, line)
		case sectionOther:
			rawLines = append(rawLines, line)
		}
	}

	notes = strings.Trim(strings.Join(notesLines, "\n"), "\n")
	rawBody = strings.Trim(strings.Join(rawLines, "\n"), "\n")
	return description, acceptance, notes, rawBody
}

// parseOrderedListItem recognizes "1. text" / "2) text" style list lines.
func parseOrderedListItem(line string) (string, bool) {
	for i, r := range line {
		if r >= '0' && r <= '9' {
			continue
		}
		if r == '.' || r == ')' {
			if i == 0 {
				return "", false
			}
			if _, err := strconv.Atoi(line[:i]); err != nil {
				return "", false
			}
			return strings.TrimSpace(line[i+1:]), true
		}
		break
	}
	return "", false
}
