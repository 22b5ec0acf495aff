package seed

import (
	"context"
	"log/slog"

	"github.com/power2u/traineasy-web/internal/catalog"
	"github.com/power2u/traineasy-web/internal/notifications"
)

// TemplateStore is the slice of notifications.PGStore the seeder needs.
type TemplateStore interface {
	ListTemplates(ctx context.Context) ([]notifications.TemplateRow, error)
	SaveTemplate(ctx context.Context, t notifications.Template, active bool) (notifications.TemplateRow, error)
}

// PackageStore is satisfied by *catalog.Store.
type PackageStore interface {
	SavePackage(ctx context.Context, p catalog.Package) (catalog.Package, error)
}

// DefaultPackages are the plans offered on a fresh install.
var DefaultPackages = []catalog.Package{
	{
		Name: "Starter", Description: "Four weeks of guided meal and water tracking.",
		PriceCents: 99900, DurationDays: 28, IsActive: true, SortOrder: 10,
		Features: []string{"Daily meal plan", "Water reminders", "Weekly check-ins"},
	},
	{
		Name: "Transform", Description: "Twelve weeks with coach review of measurements.",
		PriceCents: 249900, DurationDays: 84, IsActive: true, SortOrder: 20,
		Features: []string{"Everything in Starter", "Coach review", "Custom meal times"},
	},
	{
		Name: "Annual", Description: "A full year of coaching.",
		PriceCents: 799900, DurationDays: 365, IsActive: true, SortOrder: 30,
		Features: []string{"Everything in Transform", "Priority support"},
	},
}

// Templates stores the built-in template of every kind that has no template
// yet. Kinds an admin already edited are left alone.
func Templates(ctx context.Context, store TemplateStore, logger *slog.Logger) Result {
	var result Result

	existing, err := store.ListTemplates(ctx)
	if err != nil {
		result.AddErrorf("list templates: %v", err)
		return result
	}
	have := make(map[notifications.Kind]bool, len(existing))
	for _, t := range existing {
		have[t.Kind] = true
	}

	for _, tmpl := range notifications.DefaultTemplates() {
		if have[tmpl.Kind] {
			result.TemplatesSkipped++
			continue
		}
		if _, err := store.SaveTemplate(ctx, tmpl, true); err != nil {
			result.AddErrorf("save template %s: %v", tmpl.Kind, err)
			continue
		}
		result.TemplatesSeeded++
	}
	logger.Info("Templates seeded", "seeded", result.TemplatesSeeded, "skipped", result.TemplatesSkipped)
	return result
}

// Packages upserts DefaultPackages by name.
func Packages(ctx context.Context, store PackageStore, logger *slog.Logger) Result {
	var result Result
	for _, p := range DefaultPackages {
		if _, err := store.SavePackage(ctx, p); err != nil {
			result.AddErrorf("upsert package %q: %v", p.Name, err)
			continue
		}
		result.PackagesSeeded++
	}
	logger.Info("Packages seeded", "count", result.PackagesSeeded)
	return result
}

// All runs every seed step.
func All(ctx context.Context, templates TemplateStore, packages PackageStore, logger *slog.Logger) Result {
	var result Result
	result.Add(Templates(ctx, templates, logger))
	result.Add(Packages(ctx, packages, logger))
	logger.Info("Seed complete", "summary", result.Summary())
	return result
}
