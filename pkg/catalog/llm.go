package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// LLMGenerator asks an OpenAI-compatible chat completions endpoint to price
// travel packages. Malformed output is retried once with a stricter prompt;
// if that also fails the deterministic fallback answers. Callers never see a
// generation failure.
type LLMGenerator struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
	fallback   Generator
	logger     *slog.Logger
}

// NewLLMGenerator creates a generator talking to an OpenAI-compatible
// endpoint. A nil fallback gets the deterministic StaticGenerator; a nil
// logger gets slog.Default.
func NewLLMGenerator(endpoint, apiKey, model string, timeout time.Duration, fallback Generator, logger *slog.Logger) *LLMGenerator {
	if fallback == nil {
		fallback = NewStaticGenerator()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LLMGenerator{
		endpoint:   endpoint,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		fallback:   fallback,
		logger:     logger,
	}
}

// Generate runs the two-attempt strategy: a detailed prompt, then a stricter
// simplified prompt, then the fallback. Only context cancellation aborts the
// sequence early.
func (g *LLMGenerator) Generate(ctx context.Context, q Query) ([]TravelPackage, error) {
	packages, err := g.attempt(ctx, q, g.detailedPrompt(q), 0.3)
	if err == nil {
		return packages, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	g.logger.Warn("package generation failed, retrying with simplified prompt", "error", err)

	packages, err = g.attempt(ctx, q, g.simplePrompt(q), 0.1)
	if err == nil {
		return packages, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	g.logger.Warn("simplified generation also failed, using deterministic fallback", "error", err)

	return g.fallback.Generate(ctx, q)
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (g *LLMGenerator) attempt(ctx context.Context, q Query, prompt string, temperature float64) ([]TravelPackage, error) {
	body, err := json.Marshal(chatRequest{
		Model:       g.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read chat response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chat endpoint returned %d: %s", resp.StatusCode, string(raw))
	}

	var chat chatResponse
	if err := json.Unmarshal(raw, &chat); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("chat response has no choices")
	}
	content := chat.Choices[0].Message.Content

	g.logger.Debug("llm call completed",
		"model", g.model,
		"duration", time.Since(start),
		"response_bytes", len(content))

	packages, err := parsePackages(content, q)
	if err != nil {
		return nil, err
	}
	return packages, nil
}

// parsePackages extracts, repairs and decodes the package list from raw model
// output, then normalizes ids and counts.
func parsePackages(content string, q Query) ([]TravelPackage, error) {
	text := repairJSON(extractJSON(content))
	if text == "" {
		return nil, fmt.Errorf("no JSON object in model output")
	}

	var payload struct {
		Packages []TravelPackage `json:"packages"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("decode packages: %w", err)
	}
	if len(payload.Packages) == 0 {
		return nil, fmt.Errorf("model returned no packages")
	}

	for i := range payload.Packages {
		pkg := &payload.Packages[i]
		pkg.PackageID = NewPackageID()
		pkg.Travelers = q.Travelers
		pkg.Nights = q.Nights
		for j := range pkg.Flights {
			if pkg.Flights[j].FlightID == "" {
				pkg.Flights[j].FlightID = itemID("fl")
			}
		}
		for j := range pkg.Hotels {
			if pkg.Hotels[j].HotelID == "" {
				pkg.Hotels[j].HotelID = itemID("ht")
			}
		}
		for j := range pkg.Activities {
			if pkg.Activities[j].ActivityID == "" {
				pkg.Activities[j].ActivityID = itemID("ac")
			}
		}
		if len(pkg.Flights) == 0 || len(pkg.Hotels) == 0 || len(pkg.Activities) == 0 {
			return nil, fmt.Errorf("package %d is missing a flight, hotel or activity", i)
		}
		// Totals are recomputed from items so a model arithmetic slip
		// cannot produce an inconsistent package.
		pkg.TotalUSD = pkg.SubtotalUSD()
	}
	return payload.Packages, nil
}

// extractJSON isolates the JSON object in model output: thinking tags and
// code fences are stripped, then the outermost brace pair is sliced out.
func extractJSON(content string) string {
	text := content
	if idx := strings.Index(text, "</think>"); idx != -1 {
		text = text[idx+len("</think>"):]
	}
	if strings.Contains(text, "```json") {
		text = strings.SplitN(text, "```json", 2)[1]
		text = strings.SplitN(text, "```", 2)[0]
	} else if strings.Contains(text, "```") {
		parts := strings.SplitN(text, "```", 3)
		if len(parts) >= 2 {
			text = parts[1]
		}
	}
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "{") {
		first := strings.Index(text, "{")
		last := strings.LastIndex(text, "}")
		if first == -1 || last == -1 || last < first {
			return ""
		}
		text = text[first : last+1]
	}
	return text
}

var (
	trailingCommaRe = regexp.MustCompile(`,(\s*[\]\}])`)
	missingObjComma = regexp.MustCompile(`\}\s*\{`)
	missingArrComma = regexp.MustCompile(`\]\s*\[`)
)

// repairJSON fixes the malformations models commonly emit. It is best-effort;
// anything it cannot fix still fails decoding and triggers the retry path.
func repairJSON(text string) string {
	if text == "" {
		return ""
	}
	text = trailingCommaRe.ReplaceAllString(text, "$1")
	text = missingObjComma.ReplaceAllString(text, "},{")
	text = missingArrComma.ReplaceAllString(text, "],[")
	if last := strings.LastIndex(text, "}"); last != -1 {
		text = text[:last+1]
	}
	if first := strings.Index(text, "{"); first > 0 {
		text = text[first:]
	}
	return text
}

func (g *LLMGenerator) detailedPrompt(q Query) string {
	return fmt.Sprintf(`You are a travel merchant. Generate exactly 3 travel package options (tiers "value", "recommended", "premium") for:
- Destination: %s
- Origin: %s
- Travel dates: %s to %s (%d nights)
- Travelers: %d
- Budget: $%.0f USD
- Class preference: %s
- Preferences: %s

Respond with ONLY a JSON object: {"packages":[{"tier":"value","flights":[{"airline":"...","flight_number":"XX-123","departure_city":"%s","arrival_city":"%s","departure_time":"datetime","arrival_time":"datetime","cabin_class":"%s","price_per_person_usd":0,"refundable":true}],"hotels":[{"name":"...","location":"%s","star_rating":4,"price_per_night_usd":0,"nights":%d,"check_in":"%s","check_out":"%s","room_type":"...","refundable":true}],"activities":[{"name":"...","description":"...","price_per_person_usd":0,"duration":"3 hours","included":["..."]}],"total_usd":0,"description":"..."}]}

The value tier should use roughly 60-70%% of the budget, recommended 80-90%%, premium at or slightly above. Use realistic airlines, hotels and activities for the route. No markdown, no explanation.`,
		q.Destination, q.Origin, q.StartDate, q.EndDate, q.Nights, q.Travelers,
		q.BudgetUSD, q.CabinClass, strings.Join(q.Preferences, ", "),
		q.Origin, q.Destination, q.CabinClass, q.Destination, q.Nights, q.StartDate, q.EndDate)
}

func (g *LLMGenerator) simplePrompt(q Query) string {
	return fmt.Sprintf(`Generate 3 travel packages as JSON for %d travelers from %s to %s, %d nights (%s to %s), budget $%.0f. Tiers: value, recommended, premium. Each package needs at least one flight, one hotel and one activity. Return ONLY {"packages":[...]} using keys tier, flights (airline, flight_number, departure_city, arrival_city, departure_time, arrival_time, cabin_class, price_per_person_usd, refundable), hotels (name, location, star_rating, price_per_night_usd, nights, check_in, check_out, room_type, refundable), activities (name, description, price_per_person_usd, duration, included), total_usd, description.`,
		q.Travelers, q.Origin, q.Destination, q.Nights, q.StartDate, q.EndDate, q.BudgetUSD)
}
