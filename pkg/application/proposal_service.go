package application

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/felixgeelhaar/gapmap/pkg/domain/scoring"
	"github.com/felixgeelhaar/gapmap/pkg/domain/spec"
)

// ProposalsDir holds externally supplied feature proposals, one JSON file
// per proposal, under the workspace metadata directory.
const ProposalsDir = "proposals"

const proposalSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["title"],
  "properties": {
    "id": { "type": "string" },
    "title": { "type": "string", "minLength": 3 },
    "description": { "type": "string" },
    "category": {
      "type": "string",
      "enum": ["security", "correctness", "core-feature", "integration",
               "performance", "documentation", "polish"]
    },
    "priority": { "type": "string", "pattern": "^[Pp][0-3]$" },
    "effort_hours": { "type": "number", "minimum": 0 },
    "depends_on": { "type": "array", "items": { "type": "string" } }
  },
  "additionalProperties": false
}`

var proposalSchemaLoader = gojsonschema.NewStringLoader(proposalSchemaJSON)

// proposalDoc is the on-disk shape of one proposal file.
type proposalDoc struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Priority    string   `json:"priority"`
	EffortHours float64  `json:"effort_hours"`
	DependsOn   []string `json:"depends_on"`
}

// ProposalService loads and validates external feature proposals so they
// can compete with detected gaps in scoring.
type ProposalService struct {
	logger *slog.Logger
}

// NewProposalService creates a proposal loader.
func NewProposalService(logger *slog.Logger) *ProposalService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProposalService{logger: logger}
}

// Load reads every *.json proposal under dir, validates each against the
// proposal schema, and returns the valid ones as scoring candidates in
// filename order. Invalid proposals are logged and skipped, never fatal;
// a missing directory simply yields no proposals.
func (p *ProposalService) Load(dir string) ([]scoring.Candidate, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read proposals directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var out []scoring.Candidate
	for _, name := range names {
		cand, err := p.loadOne(filepath.Join(dir, name))
		if err != nil {
			p.logger.Warn("skipping invalid proposal", "file", name, "error", err)
			continue
		}
		out = append(out, cand)
	}
	return out, nil
}

func (p *ProposalService) loadOne(path string) (scoring.Candidate, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return scoring.Candidate{}, err
	}

	result, err := gojsonschema.Validate(proposalSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return scoring.Candidate{}, fmt.Errorf("validate proposal: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return scoring.Candidate{}, fmt.Errorf("proposal violates schema: %s", strings.Join(msgs, "; "))
	}

	var doc proposalDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return scoring.Candidate{}, fmt.Errorf("decode proposal: %w", err)
	}

	id := doc.ID
	if id == "" {
		id = spec.Slugify(doc.Title)
	}

	cand := scoring.Candidate{
		ID:          "proposal:" + id,
		Title:       doc.Title,
		Description: doc.Description,
		Category:    scoring.Category(doc.Category),
		DependsOn:   doc.DependsOn,
		Source:      "proposal",
	}
	if cand.Category == "" {
		cand.Category = Categorize(doc.Title + " " + doc.Description)
	}
	if doc.Priority != "" {
		prio, err := spec.ParsePriority(doc.Priority)
		if err != nil {
			return scoring.Candidate{}, fmt.Errorf("proposal priority: %w", err)
		}
		cand.ExplicitPriority = prio
	}
	if doc.EffortHours > 0 {
		cand.Effort = scoring.NewEffort(doc.EffortHours, scoring.LevelMedium)
	}
	return cand, nil
}
