package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/nuex/pkg/domain"
	"github.com/aretw0/nuex/pkg/ports"
)

// Mask replaces the value of every redacted key.
const Mask = "***"

type piiMiddleware struct {
	next     ports.Journal
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks payload values whose key matches one of
// the patterns, at any depth.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redaction pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.Journal) ports.Journal {
		return &piiMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *piiMiddleware) Append(ctx context.Context, rec domain.MutationRecord) error {
	payload, err := normalize(rec.Payload)
	if err != nil {
		return fmt.Errorf("redact %s: %w", rec.Qualified(), err)
	}
	rec.Payload = mask(payload, m.patterns)
	return m.next.Append(ctx, rec)
}

func (m *piiMiddleware) Recent(ctx context.Context, n int) ([]domain.MutationRecord, error) {
	return m.next.Recent(ctx, n)
}

func mask(v any, patterns []*regexp.Regexp) any {
	switch x := v.(type) {
	case map[string]any:
		for k, sub := range x {
			if matchAny(k, patterns) {
				x[k] = Mask
				continue
			}
			x[k] = mask(sub, patterns)
		}
	case []any:
		for i, sub := range x {
			x[i] = mask(sub, patterns)
		}
	}
	return v
}

func matchAny(key string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}
