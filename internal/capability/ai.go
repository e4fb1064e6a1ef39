package capability

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/template"

	"golang.org/x/sync/errgroup"

	"github.com/agent-foreman/foreman/internal/agent"
	"github.com/agent-foreman/foreman/internal/models"
)

//go:embed templates/discovery.tmpl
var templatesFS embed.FS

var discoveryTemplate = template.Must(template.New("discovery.tmpl").
	Funcs(template.FuncMap{"join": strings.Join}).
	ParseFS(templatesFS, "templates/discovery.tmpl"))

// maxSampledFiles bounds how many source files are read into the
// discovery prompt's context, sampled concurrently via errgroup — grounded
// in theRebelliousNerd-codenerd's errgroup fan-out usage.
const maxSampledFiles = 8

const maxSampledBytes = 4000

type discoveryCapability struct {
	Available  bool    `json:"available"`
	Command    string  `json:"command,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

type discoveryResponse struct {
	Languages    []string            `json:"languages"`
	Test         discoveryCapability `json:"test"`
	TypeCheck    discoveryCapability `json:"typeCheck"`
	Lint         discoveryCapability `json:"lint"`
	Build        discoveryCapability `json:"build"`
	CustomRules  []string            `json:"customRules,omitempty"`
}

// NeedsAIDiscovery reports whether the overall preset confidence falls
// below the discovery threshold. Individual capabilities are not scored
// separately.
func NeedsAIDiscovery(caps models.Capabilities) bool {
	return caps.Confidence < aiDiscoveryThreshold
}

// DiscoverWithAI collects a bounded project context and asks an agent to
// fill in capabilities preset detection was unsure about.
func DiscoverWithAI(ctx context.Context, inv *agent.Invoker, cwd string, base models.Capabilities) (models.Capabilities, error) {
	discCtx := buildDiscoveryContext(cwd)
	prompt := buildDiscoveryPrompt(discCtx)

	result, err := inv.CallAnyAvailableAgent(ctx, agent.Request{Prompt: prompt, Cwd: cwd})
	if err != nil {
		return base, err
	}
	if !result.Success {
		return base, fmt.Errorf("capability discovery agent failed: %s", result.Error)
	}

	parsed, err := parseDiscoveryResponse(result.Output)
	if err != nil {
		return base, err
	}

	merged := base
	merged.Languages = mergeLanguages(base.Languages, parsed.Languages)
	mergeCapability(&merged.HasTest, &merged.TestCommand, parsed.Test)
	mergeCapability(&merged.HasTypeCheck, &merged.TypeCheckCommand, parsed.TypeCheck)
	mergeCapability(&merged.HasLint, &merged.LintCommand, parsed.Lint)
	mergeCapability(&merged.HasBuild, &merged.BuildCommand, parsed.Build)
	merged.Source = models.SourceAIDiscovered
	merged.Confidence = 0.7
	return merged, nil
}

func mergeCapability(has *bool, command *string, d discoveryCapability) {
	if !*has && d.Available {
		*has = true
		*command = d.Command
	}
}

func mergeLanguages(existing, discovered []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, l := range existing {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	for _, l := range discovered {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}

// parseDiscoveryResponse tolerates a response wrapped in a markdown code
// fence, matching the same fence-trimming convention used for AI
// verification responses.
func parseDiscoveryResponse(raw string) (discoveryResponse, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var resp discoveryResponse
	if err := json.Unmarshal([]byte(trimmed), &resp); err != nil {
		return discoveryResponse{}, fmt.Errorf("parse capability discovery response: %w", err)
	}
	return resp, nil
}

type discoveryContext struct {
	ConfigFiles []string
	TopLevel    []string
	Samples     map[string]string
}

// buildDiscoveryContext gathers config files, a shallow directory listing,
// and a bounded sample of source file contents, reading the sample set
// concurrently with errgroup.
func buildDiscoveryContext(cwd string) discoveryContext {
	dc := discoveryContext{Samples: map[string]string{}}

	entries, err := os.ReadDir(cwd)
	if err == nil {
		for _, e := range entries {
			dc.TopLevel = append(dc.TopLevel, e.Name())
			if !e.IsDir() && isConfigFile(e.Name()) {
				dc.ConfigFiles = append(dc.ConfigFiles, e.Name())
			}
		}
	}

	var candidates []string
	_ = filepath.WalkDir(cwd, func(path string, d fs.DirEntry, err error) error {
		if err != nil || len(candidates) >= maxSampledFiles {
			return nil
		}
		if d.IsDir() {
			if d.Name() == "node_modules" || d.Name() == ".git" || d.Name() == "vendor" {
				return filepath.SkipDir
			}
			return nil
		}
		if isSourceFile(d.Name()) {
			candidates = append(candidates, path)
		}
		return nil
	})

	g, _ := errgroup.WithContext(context.Background())
	var mu sync.Mutex
	for _, path := range candidates {
		path := path
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil //nolint:nilerr // best-effort sampling, one unreadable file shouldn't abort the rest
			}
			if len(data) > maxSampledBytes {
				data = data[:maxSampledBytes]
			}
			rel, _ := filepath.Rel(cwd, path)
			mu.Lock()
			dc.Samples[rel] = string(data)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return dc
}

func isConfigFile(name string) bool {
	switch name {
	case "package.json", "go.mod", "pyproject.toml", "requirements.txt", "Cargo.toml",
		"tsconfig.json", ".eslintrc", ".eslintrc.json", "Makefile":
		return true
	}
	return false
}

func isSourceFile(name string) bool {
	for _, ext := range []string{".go", ".ts", ".tsx", ".js", ".jsx", ".py", ".rs"} {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// buildDiscoveryPrompt renders the discovery prompt from an embedded
// text/template, directly generalizing the teacher's
// `//go:embed migrations/*.sql` pattern from SQL migration bodies to prompt
// bodies.
func buildDiscoveryPrompt(dc discoveryContext) string {
	var b strings.Builder
	if err := discoveryTemplate.Execute(&b, dc); err != nil {
		return fmt.Sprintf("Inspect this project and report its capabilities as JSON. (template error: %v)", err)
	}
	return b.String()
}
