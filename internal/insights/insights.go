// Package insights asks a language model for a free-text valuation of a
// property.
package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/propertycalc/internal/model"
	"github.com/sells-group/propertycalc/internal/resilience"
	"github.com/sells-group/propertycalc/pkg/anthropic"
)

// Generator produces valuation insights for a property.
type Generator interface {
	Generate(ctx context.Context, req model.InsightsRequest) (*model.Insights, error)
}

// SystemPrompt frames the model as a valuation analyst.
const SystemPrompt = "You are a professional real estate analyst specializing in property valuation and market analysis."

// Config tunes an AnthropicGenerator.
type Config struct {
	Model             string
	MaxTokens         int64
	RequestsPerMinute int
	Retry             resilience.Policy
}

// AnthropicGenerator implements Generator with the Anthropic Messages API.
type AnthropicGenerator struct {
	client  anthropic.Client
	cfg     Config
	limiter *rate.Limiter
}

// NewAnthropicGenerator wraps client. A non-positive RequestsPerMinute
// disables rate limiting.
func NewAnthropicGenerator(client anthropic.Client, cfg Config) *AnthropicGenerator {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2048
	}
	if cfg.Retry.OnRetry == nil {
		cfg.Retry.OnRetry = resilience.LogRetries("insights.generate")
	}
	if cfg.Retry.Retryable == nil {
		cfg.Retry.Retryable = retryable
	}

	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
		burst = max(1, cfg.RequestsPerMinute/10)
	}
	return &AnthropicGenerator{client: client, cfg: cfg, limiter: rate.NewLimiter(limit, burst)}
}

// Generate requests insights for req and decodes the JSON object in the reply.
func (g *AnthropicGenerator) Generate(ctx context.Context, req model.InsightsRequest) (*model.Insights, error) {
	msgReq := anthropic.MessageRequest{
		Model:     g.cfg.Model,
		MaxTokens: g.cfg.MaxTokens,
		System:    SystemPrompt,
		Messages:  []anthropic.Message{{Role: "user", Content: BuildPrompt(req)}},
	}

	resp, err := resilience.RetryValue(ctx, g.cfg.Retry, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "insights: rate limit wait")
		}
		return g.client.CreateMessage(ctx, msgReq)
	})
	if err != nil {
		return nil, eris.Wrap(err, "insights: generate")
	}

	resp.Usage.LogCost(g.cfg.Model, "insights")

	out, err := ParseInsights(resp.Text())
	if err != nil {
		zap.L().Warn("insights: unparseable reply",
			zap.String("stop_reason", resp.StopReason),
			zap.Int("length", len(resp.Text())),
		)
		return nil, err
	}
	return out, nil
}

func retryable(err error) bool {
	return resilience.IsTransient(err) || resilience.TransientStatus(anthropic.StatusCode(err))
}

// BuildPrompt renders the analysis request for a property.
func BuildPrompt(req model.InsightsRequest) string {
	var b strings.Builder
	b.WriteString("Analyze this real estate property and provide detailed insights:\n")
	b.WriteString("Property Details:\n")
	fmt.Fprintf(&b, "- Price: $%s\n", number(req.PurchasePrice))
	fmt.Fprintf(&b, "- Monthly Rent: $%s\n", number(req.MonthlyRent))
	fmt.Fprintf(&b, "- Location: %s\n", req.Location)
	fmt.Fprintf(&b, "- Type: %s\n", req.PropertyType)
	fmt.Fprintf(&b, "- Size: %d sq ft\n", req.SquareFootage)
	fmt.Fprintf(&b, "- Year Built: %d\n", req.YearBuilt)
	fmt.Fprintf(&b, "- Bedrooms: %d\n", req.Bedrooms)
	fmt.Fprintf(&b, "- Bathrooms: %d\n", req.Bathrooms)
	fmt.Fprintf(&b, "- Condition: %s\n", req.PropertyCondition)
	b.WriteString(`
Provide a comprehensive analysis including:
1. Estimated market value range and confidence score
2. Key factors affecting valuation
3. Investment recommendations
4. Market trends in the area
5. Risk assessment
6. Comparable properties analysis

Respond with only a JSON object with the following structure:
{
  "marketValueEstimate": "string with value range",
  "confidenceScore": number between 0 and 1,
  "keyFactors": array of strings,
  "recommendations": array of strings,
  "marketTrends": "string describing trends",
  "riskAssessment": "string with risk analysis",
  "comparableProperties": "string with comparables info"
}`)
	return b.String()
}

func number(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

// ParseInsights decodes the outermost JSON object in text. Surrounding prose
// and code fences are ignored; field values pass through untouched.
func ParseInsights(text string) (*model.Insights, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, eris.New("insights: no JSON object in reply")
	}

	var out model.Insights
	if err := json.Unmarshal([]byte(text[start:end+1]), &out); err != nil {
		return nil, eris.Wrap(err, "insights: decode reply")
	}
	return &out, nil
}
