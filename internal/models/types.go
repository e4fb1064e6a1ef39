package models

import (
	"strings"
	"time"
)

// ID Strategy: task ids are dotted strings by convention, "<module>.<name>".
// A ".BREAKDOWN" suffix (case-insensitive) marks a decomposition task that
// blocks its module's implementation tasks from being selected first.

// TaskStatus represents the current lifecycle state of a task.
type TaskStatus string

// Task status constants.
const (
	StatusFailing     TaskStatus = "failing"
	StatusPassing     TaskStatus = "passing"
	StatusBlocked     TaskStatus = "blocked"
	StatusNeedsReview TaskStatus = "needs_review"
	StatusFailed      TaskStatus = "failed"
	StatusDeprecated  TaskStatus = "deprecated"
)

// IsTerminal reports whether status is one of the two terminal states.
func (s TaskStatus) IsTerminal() bool {
	return s == StatusPassing || s == StatusDeprecated
}

// IsSelectable reports whether status is eligible for selection.
func (s TaskStatus) IsSelectable() bool {
	return s == StatusNeedsReview || s == StatusFailing
}

// StatusRank orders selectable statuses for the selector's tie-break: lower
// rank wins. Non-selectable statuses rank last.
func (s TaskStatus) StatusRank() int {
	switch s {
	case StatusNeedsReview:
		return 0
	case StatusFailing:
		return 1
	default:
		return 2
	}
}

// TaskType drives verification-strategy defaults.
type TaskType string

// Task type constants.
const (
	TaskTypeCode   TaskType = "code"
	TaskTypeOps    TaskType = "ops"
	TaskTypeData   TaskType = "data"
	TaskTypeInfra  TaskType = "infra"
	TaskTypeManual TaskType = "manual"
)

// Origin records how a task came to exist.
type Origin string

// Well-known origins. Others are accepted verbatim.
const (
	OriginManual       Origin = "manual"
	OriginSpecWorkflow Origin = "spec-workflow"
)

// Verdict is the final classification of a verification run.
type Verdict string

// Verdict values. Any other string observed from an agent response is
// normalized to VerdictNeedsReview.
const (
	VerdictPass        Verdict = "pass"
	VerdictFail        Verdict = "fail"
	VerdictNeedsReview Verdict = "needs_review"
)

// NormalizeVerdict maps any non-enum value to VerdictNeedsReview.
func NormalizeVerdict(v string) Verdict {
	switch Verdict(v) {
	case VerdictPass, VerdictFail, VerdictNeedsReview:
		return Verdict(v)
	default:
		return VerdictNeedsReview
	}
}

// Confidence is a qualitative impact-match tier.
type Confidence string

// Confidence tiers, highest first.
const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// rank returns a sort key where lower sorts first (high before medium before low).
func (c Confidence) rank() int {
	switch c {
	case ConfidenceHigh:
		return 0
	case ConfidenceMedium:
		return 1
	default:
		return 2
	}
}

// Less reports whether c should sort before other (high→medium→low).
func (c Confidence) Less(other Confidence) bool {
	return c.rank() < other.rank()
}

// IsBreakdown reports whether id carries the case-insensitive ".BREAKDOWN"
// suffix that marks a module-decomposition task.
func IsBreakdown(id string) bool {
	return strings.HasSuffix(strings.ToLower(id), ".breakdown")
}

// Module returns the first dot-delimited segment of a dotted task id.
func Module(id string) string {
	if i := strings.IndexByte(id, '.'); i >= 0 {
		return id[:i]
	}
	return id
}

// VerificationSummary is the last verification outcome cached on a Task.
type VerificationSummary struct {
	Verdict   Verdict   `json:"verdict" yaml:"verdict"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Agent     string    `json:"agent,omitempty" yaml:"agent,omitempty"`
}

// TDDGuidance caches AI-generated test guidance, invalidated whenever the
// task's Version moves past the version it was generated against.
type TDDGuidance struct {
	TaskVersion int       `json:"task_version" yaml:"task_version"`
	Guidance    string    `json:"guidance" yaml:"guidance"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
}

// UnitTestRequirement and E2ETestRequirement make up the legacy
// testRequirements shape, convertible to explicit strategies.
type UnitTestRequirement struct {
	Pattern string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

type E2ETestRequirement struct {
	Pattern string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Tags    []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

type TestRequirements struct {
	Unit *UnitTestRequirement `json:"unit,omitempty" yaml:"unit,omitempty"`
	E2E  *E2ETestRequirement  `json:"e2e,omitempty" yaml:"e2e,omitempty"`
}

// Task is the unit of work, persisted as front matter + markdown body
//.
type Task struct {
	ID          string     `yaml:"id"`
	Module      string     `yaml:"module"`
	Priority    int        `yaml:"priority"`
	Status      TaskStatus `yaml:"status"`
	Description string     `yaml:"-"`
	Acceptance  []string   `yaml:"-"`

	DependsOn  []string `yaml:"dependsOn,omitempty"`
	Supersedes []string `yaml:"supersedes,omitempty"`

	Tags   []string `yaml:"tags,omitempty"`
	Notes  string   `yaml:"-"`
	Origin Origin   `yaml:"origin,omitempty"`

	Version int `yaml:"version"`

	TaskType               TaskType               `yaml:"taskType,omitempty"`
	VerificationStrategies []VerificationStrategy `yaml:"verificationStrategies,omitempty"`
	TestRequirements       *TestRequirements      `yaml:"testRequirements,omitempty"`
	AffectedBy             []string               `yaml:"affectedBy,omitempty"`

	Verification *VerificationSummary `yaml:"verification,omitempty"`
	TDDGuidance  *TDDGuidance         `yaml:"tddGuidance,omitempty"`

	// FilePath is an explicit override resolved with highest priority by the
	// store's path resolver. Never serialized into front
	// matter: it is either absent (derive the path) or supplied by the caller.
	FilePath string `yaml:"-"`

	// RawBody preserves any markdown sections beyond Description/Acceptance/Notes
	// verbatim across load→save round trips.
	RawBody string `yaml:"-"`
}

// IsBreakdown reports whether this task decomposes its module.
func (t *Task) IsBreakdown() bool {
	return IsBreakdown(t.ID)
}

// IndexEntry is the thin per-task record stored in the Task Index.
type IndexEntry struct {
	Status      TaskStatus `json:"status"`
	Priority    int        `json:"priority"`
	Module      string     `json:"module"`
	Description string     `json:"description"`
	FilePath    string     `json:"filePath,omitempty"`
}

// ThinEntry projects a full Task down to its index entry.
func (t *Task) ThinEntry() IndexEntry {
	return IndexEntry{
		Status:      t.Status,
		Priority:    t.Priority,
		Module:      t.Module,
		Description: t.Description,
		FilePath:    t.FilePath,
	}
}

// TaskIndex is the compact id→entry map scanned for selection and stats
//.
type TaskIndex struct {
	Version   int                   `json:"version"`
	UpdatedAt time.Time             `json:"updatedAt"`
	Metadata  map[string]string     `json:"metadata,omitempty"`
	Features  map[string]IndexEntry `json:"features"`

	// LoadedAt is process-observed, never serialized: it lets callers detect
	// whether their in-memory index is stale relative to a concurrently
	// written one.
	LoadedAt time.Time `json:"-"`
}

// CriterionResult is the per-acceptance-criterion outcome of a verification
// run.
type CriterionResult struct {
	Criterion  string  `json:"criterion"`
	Satisfied  bool    `json:"satisfied"`
	Evidence   string  `json:"evidence,omitempty"`
	Confidence float64 `json:"confidence"`
}

// StrategyOutcome is the per-strategy result folded into an overall verdict.
type StrategyOutcome struct {
	Kind     string  `json:"kind"`
	Success  bool    `json:"success"`
	Skipped  bool    `json:"skipped,omitempty"`
	Required bool    `json:"required"`
	Output   string  `json:"output,omitempty"`
	Duration float64 `json:"durationSec,omitempty"`
	Details  string  `json:"details,omitempty"`
}

// VerificationResult is the full snapshot produced by one verification run
//.
type VerificationResult struct {
	FeatureID        string            `json:"featureId"`
	Timestamp        time.Time         `json:"timestamp"`
	CommitHash       string            `json:"commitHash,omitempty"`
	ChangedFiles     []string          `json:"changedFiles,omitempty"`
	Strategies       []StrategyOutcome `json:"strategies,omitempty"`
	Criteria         []CriterionResult `json:"criteria,omitempty"`
	Verdict          Verdict           `json:"verdict"`
	Reasoning        string            `json:"reasoning,omitempty"`
	Agent            string            `json:"agent,omitempty"`
	Suggestions      []string          `json:"suggestions,omitempty"`
	CodeQualityNotes string            `json:"codeQualityNotes,omitempty"`
}

// E2EInfo describes a detected end-to-end test framework.
type E2EInfo struct {
	Available    bool   `json:"available"`
	Framework    string `json:"framework,omitempty"`
	Command      string `json:"command,omitempty"`
	GrepTemplate string `json:"grepTemplate,omitempty"`
	FileTemplate string `json:"fileTemplate,omitempty"`
}

// CapabilitySource records how a capability value was determined.
type CapabilitySource string

const (
	SourcePreset       CapabilitySource = "preset"
	SourceAIDiscovered CapabilitySource = "ai-discovered"
	SourceCached       CapabilitySource = "cached"
)

// Capabilities is the detected build/test/lint/type-check/e2e surface for a
// project.
type Capabilities struct {
	HasTest          bool   `json:"hasTest"`
	TestCommand      string `json:"testCommand,omitempty"`
	HasTypeCheck     bool   `json:"hasTypeCheck"`
	TypeCheckCommand string `json:"typeCheckCommand,omitempty"`
	HasLint          bool   `json:"hasLint"`
	LintCommand      string `json:"lintCommand,omitempty"`
	HasBuild         bool   `json:"hasBuild"`
	BuildCommand     string `json:"buildCommand,omitempty"`
	HasGit           bool   `json:"hasGit"`

	E2E *E2EInfo `json:"e2e,omitempty"`

	Languages  []string         `json:"languages,omitempty"`
	Source     CapabilitySource `json:"source"`
	Confidence float64          `json:"confidence"`
	DetectedAt time.Time        `json:"detectedAt"`
}

// CapabilityCache wraps Capabilities with the staleness metadata persisted to
// disk.
type CapabilityCache struct {
	Version      int          `json:"version"`
	Capabilities Capabilities `json:"capabilities"`
	CommitHash   string       `json:"commitHash,omitempty"`
	TrackedFiles []string     `json:"trackedFiles,omitempty"`
}

// ProgressEntry is one append-only Progress Log record.
type ProgressEntry struct {
	Timestamp time.Time         `json:"timestamp"`
	Kind      ProgressKind      `json:"kind"`
	FeatureID string            `json:"featureId,omitempty"`
	Summary   string            `json:"summary"`
	Details   map[string]string `json:"details,omitempty"`
}

// ImpactMatch is one candidate task affected by a changed file.
type ImpactMatch struct {
	TaskID       string     `json:"taskId"`
	Reason       string     `json:"reason"`
	Confidence   Confidence `json:"confidence"`
	MatchedFiles []string   `json:"matchedFiles"`
}
