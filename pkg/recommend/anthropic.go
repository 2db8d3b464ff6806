package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/raterudder/rooftopsolar/pkg/log"
	"golang.org/x/sync/errgroup"
)

const (
	defaultModel     = "claude-haiku-4-5-20251001"
	defaultMaxTokens = 1500
	systemPrompt     = "You are a solar energy consultant writing practical, specific guidance for a homeowner. Respond in Markdown. Do not repeat the input figures back verbatim and do not invent incentives or prices."
)

type section struct {
	title  string
	prompt string
	set    func(*Recommendations, string)
	canned func(Input) string
}

var sections = []section{
	{
		title:  "Installation Plan",
		prompt: "Write an installation plan covering panel layout on this roof, the main system components, and the installation steps from permitting to commissioning.",
		set:    func(r *Recommendations, s string) { r.InstallationPlan = s },
		canned: installationPlan,
	},
	{
		title:  "Optimization Tips",
		prompt: "Write specific tips to get the most energy out of this system given the roof orientation, slope, shading and obstructions.",
		set:    func(r *Recommendations, s string) { r.OptimizationTips = s },
		canned: optimizationTips,
	},
	{
		title:  "Regulatory Compliance",
		prompt: "Describe the permits, code requirements and utility interconnection steps that typically apply to a residential system in this region.",
		set:    func(r *Recommendations, s string) { r.ComplianceInfo = s },
		canned: func(in Input) string { return complianceInfo(Region(in.Latitude, in.Longitude)) },
	},
	{
		title:  "Maintenance Plan",
		prompt: "Write a maintenance schedule for this system with monthly, quarterly, yearly and long term tasks, and how to tell if production is falling short.",
		set:    func(r *Recommendations, s string) { r.MaintenancePlan = s },
		canned: func(in Input) string { return maintenancePlan(in.Result) },
	},
}

// Anthropic writes recommendations with an Anthropic model. Each section is
// requested separately and falls back to the template text if its request
// fails.
type Anthropic struct {
	client sdk.Client
	model  string
}

// NewAnthropic returns a narrator using the given API key and model.
func NewAnthropic(apiKey, model string, opts ...option.RequestOption) *Anthropic {
	if model == "" {
		model = defaultModel
	}
	return &Anthropic{
		client: sdk.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...),
		model:  model,
	}
}

// Recommend implements Narrator. GenerationSuccessful is only set when every
// section came from the model.
func (a *Anthropic) Recommend(ctx context.Context, in Input) (Recommendations, error) {
	summary := Summary(in)
	texts := make([]string, len(sections))
	failed := make([]bool, len(sections))

	g, gctx := errgroup.WithContext(ctx)
	for i, s := range sections {
		g.Go(func() error {
			text, err := a.generate(gctx, summary, s.prompt)
			if err != nil {
				log.Ctx(ctx).WarnContext(
					ctx,
					"failed to generate recommendation section",
					slog.String("section", s.title),
					slog.Any("error", err),
				)
				failed[i] = true
				texts[i] = s.canned(in)
				return nil
			}
			texts[i] = formatSection(s.title, text)
			return nil
		})
	}
	// sections never return errors
	_ = g.Wait()

	recs := Recommendations{GenerationSuccessful: true}
	for i, s := range sections {
		s.set(&recs, texts[i])
		if failed[i] {
			recs.GenerationSuccessful = false
		}
	}
	return recs, nil
}

func (a *Anthropic) generate(ctx context.Context, summary, prompt string) (string, error) {
	msg, err := a.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(a.model),
		MaxTokens: defaultMaxTokens,
		System:    []sdk.TextBlockParam{{Text: systemPrompt}},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(summary + "\n\n" + prompt)),
		},
		Temperature: sdk.Float(0.3),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create message: %w", err)
	}

	var b strings.Builder
	for _, c := range msg.Content {
		if c.Type == "text" {
			b.WriteString(c.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("model returned no text")
	}
	return text, nil
}
