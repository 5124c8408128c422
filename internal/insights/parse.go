package insights

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/ignite/adlens/internal/domain"
)

var errUnparseable = errors.New("completion is not a valid insight document")

type completionDoc struct {
	PrimaryInsight *struct {
		Title           string   `json:"title"`
		Message         string   `json:"message"`
		Recommendations []string `json:"recommendations"`
	} `json:"primaryInsight"`
	SecondaryInsights []struct {
		Title   string `json:"title"`
		Message string `json:"message"`
	} `json:"secondaryInsights"`
}

// ParseCompletion maps a model completion to insights. Surrounding prose
// and code fences are tolerated; a missing primary title or message is not.
func ParseCompletion(raw string) ([]domain.Insight, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, errUnparseable
	}

	var doc completionDoc
	if err := json.Unmarshal([]byte(raw[start:end+1]), &doc); err != nil {
		return nil, errUnparseable
	}
	if doc.PrimaryInsight == nil ||
		strings.TrimSpace(doc.PrimaryInsight.Title) == "" ||
		strings.TrimSpace(doc.PrimaryInsight.Message) == "" {
		return nil, errUnparseable
	}

	out := []domain.Insight{{
		Type:            domain.InsightPrimary,
		Title:           doc.PrimaryInsight.Title,
		Message:         doc.PrimaryInsight.Message,
		Recommendations: doc.PrimaryInsight.Recommendations,
	}}
	for _, s := range doc.SecondaryInsights {
		if strings.TrimSpace(s.Title) == "" && strings.TrimSpace(s.Message) == "" {
			continue
		}
		out = append(out, domain.Insight{
			Type:    domain.InsightSecondary,
			Title:   s.Title,
			Message: s.Message,
		})
	}
	return out, nil
}
