package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hupe1980/callbridge/logging"
)

// Model is the chat completion backend used for analysis.
type Model interface {
	// Complete returns the model's answer to a single system+user exchange.
	Complete(ctx context.Context, system, prompt string) (string, error)
}

const systemPrompt = "You are an expert salary negotiation assistant, helping analyze situations and provide strategic advice."

// CallRecord is one previous call transcript.
type CallRecord struct {
	Date       string `json:"date"`
	Transcript string `json:"transcript"`
}

// Plan bundles the three generated analysis sections.
type Plan struct {
	CallSummary    string
	MarketAnalysis string
	Strategy       string
}

// Options configure a Planner.
type Options struct {
	// TranscriptDir holds .txt transcripts of previous calls.
	TranscriptDir string
	// OutputDir, when set, receives the generated sections as text files.
	OutputDir string
	// CurrentOffer and MarketData are the structured inputs to the analysis.
	// Defaults mirror the stock negotiation tools.
	CurrentOffer map[string]any
	MarketData   map[string]any
	// Logger defaults to NoOp.
	Logger logging.Logger
}

// Planner generates a negotiation strategy from call history, the current
// offer and market data.
type Planner struct {
	model Model
	opts  Options
}

// New constructs a Planner with optional overrides.
func New(model Model, optFns ...func(o *Options)) *Planner {
	opts := Options{
		TranscriptDir: "transcripts",
		CurrentOffer: map[string]any{
			"base_salary": 120000,
			"bonus":       "15%",
			"equity":      "10000 RSUs",
			"benefits":    []string{"health", "dental", "401k match 6%"},
		},
		MarketData: map[string]any{
			"role_median":     135000,
			"role_range":      "115000-155000",
			"industry_growth": "15%",
			"demand_level":    "high",
		},
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Planner{model: model, opts: opts}
}

// CurrentOffer returns the offer under analysis.
func (p *Planner) CurrentOffer() map[string]any { return p.opts.CurrentOffer }

// MarketData returns the market data under analysis.
func (p *Planner) MarketData() map[string]any { return p.opts.MarketData }

// LoadCalls reads previous call transcripts (*.txt) from the transcript
// directory, sorted by file name. A missing directory yields an empty slice.
func (p *Planner) LoadCalls() ([]CallRecord, error) {
	entries, err := os.ReadDir(p.opts.TranscriptDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read transcript dir: %w", err)
	}

	var calls []CallRecord
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(p.opts.TranscriptDir, e.Name()))
		if err != nil {
			p.opts.Logger.Warn("skipping unreadable transcript", "file", e.Name(), "error", err)
			continue
		}

		date := ""
		if info, err := e.Info(); err == nil {
			date = info.ModTime().Format("2006-01-02")
		}

		calls = append(calls, CallRecord{
			Date:       date,
			Transcript: strings.TrimSpace(string(data)),
		})
	}

	sort.Slice(calls, func(i, j int) bool { return calls[i].Date < calls[j].Date })

	return calls, nil
}

// AnalyzeCalls summarizes the negotiation-relevant points of previous calls.
func (p *Planner) AnalyzeCalls(ctx context.Context) (string, error) {
	calls, err := p.LoadCalls()
	if err != nil {
		return "", err
	}

	callsJSON, _ := json.MarshalIndent(calls, "", "  ")
	prompt := fmt.Sprintf(`Analyze these previous interview calls and highlight key negotiation points that could be leveraged:
%s

Focus on:
1. Key points discussed about compensation
2. Commitments or flexibility signaled by the recruiter
3. Open questions to resolve before accepting`, callsJSON)

	return p.model.Complete(ctx, systemPrompt, prompt)
}

// AnalyzeMarket assesses the current offer against market data.
func (p *Planner) AnalyzeMarket(ctx context.Context) (string, error) {
	offerJSON, _ := json.MarshalIndent(p.opts.CurrentOffer, "", "  ")
	marketJSON, _ := json.MarshalIndent(p.opts.MarketData, "", "  ")

	prompt := fmt.Sprintf(`Compare this offer against the market data and assess the candidate's position:

Current offer:
%s

Market data:
%s

Identify where the offer is below market and how much leverage the candidate has.`, offerJSON, marketJSON)

	return p.model.Complete(ctx, systemPrompt, prompt)
}

// BuildStrategy produces the negotiation strategy from the two analyses.
func (p *Planner) BuildStrategy(ctx context.Context, callSummary, marketAnalysis string) (string, error) {
	prompt := fmt.Sprintf(`Create a concrete negotiation strategy.

Previous calls analysis:
%s

Market position analysis:
%s

Produce: target numbers for each component, the order in which to raise them,
and fallback positions if the recruiter pushes back.`, callSummary, marketAnalysis)

	return p.model.Complete(ctx, systemPrompt, prompt)
}

// CompletePlan runs the full workflow and, when an output directory is
// configured, writes the three sections to text files.
func (p *Planner) CompletePlan(ctx context.Context) (*Plan, error) {
	callSummary, err := p.AnalyzeCalls(ctx)
	if err != nil {
		return nil, fmt.Errorf("analyze calls: %w", err)
	}

	marketAnalysis, err := p.AnalyzeMarket(ctx)
	if err != nil {
		return nil, fmt.Errorf("analyze market: %w", err)
	}

	strategy, err := p.BuildStrategy(ctx, callSummary, marketAnalysis)
	if err != nil {
		return nil, fmt.Errorf("build strategy: %w", err)
	}

	plan := &Plan{
		CallSummary:    callSummary,
		MarketAnalysis: marketAnalysis,
		Strategy:       strategy,
	}

	if p.opts.OutputDir != "" {
		if err := p.writePlan(plan); err != nil {
			return nil, err
		}
	}

	return plan, nil
}

func (p *Planner) writePlan(plan *Plan) error {
	if err := os.MkdirAll(p.opts.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	sections := map[string]string{
		"call_summary.txt":         plan.CallSummary,
		"market_analysis.txt":      plan.MarketAnalysis,
		"negotiation_strategy.txt": plan.Strategy,
	}

	for name, content := range sections {
		if err := os.WriteFile(filepath.Join(p.opts.OutputDir, name), []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	return nil
}
