package notifications

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/power2u/traineasy-web/internal/cache"
)

// Templates resolves the active template of a kind, caching lookups.
type Templates struct {
	store  Store
	cache  *cache.Cache
	logger *slog.Logger
}

// NewTemplates creates a resolver. c may be a disabled cache.
func NewTemplates(store Store, c *cache.Cache, logger *slog.Logger) *Templates {
	return &Templates{store: store, cache: c, logger: logger}
}

// cachedTemplate marks misses too, so a kind without an active template
// does not hit the database for every user.
type cachedTemplate struct {
	Template Template `json:"template"`
	Found    bool     `json:"found"`
}

// Resolve returns the active template for kind, or the rule's default when
// none is active or the lookup fails.
func (t *Templates) Resolve(ctx context.Context, kind Kind) Template {
	fallback := Template{Kind: kind}
	if rule, ok := RuleFor(kind); ok {
		fallback = rule.Default
	}

	key := "template:" + string(kind)
	if data, _, ok := t.cache.Get(key); ok {
		var ct cachedTemplate
		if err := json.Unmarshal(data, &ct); err == nil {
			if ct.Found {
				return ct.Template
			}
			return fallback
		}
	}

	tmpl, found, err := t.store.ActiveTemplate(ctx, kind)
	if err != nil {
		t.logger.Warn("template lookup failed, using default", "kind", kind, "error", err)
		return fallback
	}
	if data, err := json.Marshal(cachedTemplate{Template: tmpl, Found: found}); err == nil {
		t.cache.Set(key, data, templateCacheTTL)
	}
	if !found {
		return fallback
	}
	return tmpl
}

// Invalidate drops the cached template of kind after an admin edit.
func (t *Templates) Invalidate(kind Kind) {
	t.cache.Delete("template:" + string(kind))
}

// Render substitutes {name} in title and body.
func (tmpl Template) Render(name string) Message {
	if strings.TrimSpace(name) == "" {
		name = "there"
	}
	r := strings.NewReplacer("{name}", name)
	return Message{
		Title: r.Replace(tmpl.Title),
		Body:  r.Replace(tmpl.Body),
		Data:  map[string]string{"kind": string(tmpl.Kind)},
	}
}
