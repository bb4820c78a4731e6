package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"docsum/internal/domain/entity"
)

const (
	// insightPrompt asks for bullet-style insights over the final summary.
	insightPrompt = "Extract 3-5 key insights from this summary as bullet points:\n\n%s\n\nFormat as simple bullet points, one insight per line:"

	// insightFallbackLimit caps the single fallback insight built from an
	// unparseable but non-empty response.
	insightFallbackLimit = 100

	// insightSentinel is returned when the insight generation call fails.
	// Insight extraction is best-effort: it degrades to this sentinel and
	// never fails the overall summarization.
	insightSentinel = "Key insights could not be extracted"

	// bulletCutset holds the accepted bullet markers plus surrounding
	// whitespace, stripped from accepted lines.
	bulletCutset = "•-* \t"
)

// extractInsights issues one generation call against the final summary and
// parses a bounded list of bullet-style insights. Lines are accepted only
// when they start with one of the fixed bullet markers. A non-empty response
// with no parseable bullets yields one truncated insight rather than an
// empty list. Any provider failure is absorbed into a sentinel insight.
func (s *Service) extractInsights(ctx context.Context, requestID, summary string) []string {
	response, err := s.generate(ctx, fmt.Sprintf(insightPrompt, summary), GenerateOptions{
		Temperature:     s.config.InsightTemperature,
		MaxOutputTokens: s.config.InsightMaxTokens,
	})
	if err != nil {
		slog.WarnContext(ctx, "insight extraction failed",
			slog.String("request_id", requestID),
			slog.Any("error", err))
		return []string{insightSentinel}
	}

	insights := parseInsights(response)

	slog.InfoContext(ctx, "insights extracted",
		slog.String("request_id", requestID),
		slog.Int("count", len(insights)))

	return insights
}

// parseInsights applies the bullet-marker heuristic to a raw response.
func parseInsights(response string) []string {
	var insights []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if !hasBulletMarker(line) {
			continue
		}
		if insight := strings.TrimSpace(strings.TrimLeft(line, bulletCutset)); insight != "" {
			insights = append(insights, insight)
		}
		if len(insights) == entity.MaxInsights {
			break
		}
	}

	// The response produced text but nothing matched the bullet heuristic:
	// degrade to a single truncated insight instead of returning an empty
	// list for a non-empty response.
	if len(insights) == 0 {
		runes := []rune(response)
		if len(runes) > insightFallbackLimit {
			return []string{string(runes[:insightFallbackLimit]) + "..."}
		}
		return []string{response}
	}

	return insights
}

// hasBulletMarker reports whether a trimmed line starts with an accepted
// bullet marker.
func hasBulletMarker(line string) bool {
	return strings.HasPrefix(line, "•") ||
		strings.HasPrefix(line, "-") ||
		strings.HasPrefix(line, "*")
}
