package service

import (
	"context"
	"strings"

	clierrors "github.com/hindiconfession/cli/pkg/errors"
	"github.com/hindiconfession/cli/pkg/formatter"
	"github.com/hindiconfession/cli/pkg/locale"
	"github.com/hindiconfession/cli/pkg/output"
)

// LanguageService reads and changes the UI language
type LanguageService struct {
	deps *Deps
}

// NewLanguageService creates a new language service
func NewLanguageService(deps *Deps) *LanguageService {
	return &LanguageService{deps: deps}
}

// Show prints the effective language and where it comes from
func (ls *LanguageService) Show(ctx context.Context) error {
	source := "guest preference"
	if ls.deps.Session.IsAuthenticated() {
		source = "account"
	}
	return output.PrintRecord("Language", []output.Field{
		{Key: "Language", Value: ls.deps.Locale.Current(ctx)},
		{Key: "Source", Value: source},
	})
}

// Reset forgets the guest preference. Logged-in users keep the language on
// their account.
func (ls *LanguageService) Reset(ctx context.Context) error {
	if err := ls.deps.Locale.ClearGuest(ctx); err != nil {
		return err
	}
	if ls.deps.Session.IsAuthenticated() {
		formatter.PrintInfo("Guest preference cleared, your account language is unchanged")
		return nil
	}
	formatter.PrintSuccess("✓ Language reset to %s", locale.Default)
	return nil
}

// Set validates and stores a new language. Logged-in users change their
// account preference, guests the local guest preference.
func (ls *LanguageService) Set(ctx context.Context, value string) error {
	lang, ok := locale.ParseLanguage(value)
	if !ok {
		names := make([]string, 0, len(locale.Languages))
		for _, l := range locale.Languages {
			names = append(names, string(l))
		}
		return clierrors.ValidationError("language", "expected one of "+strings.Join(names, ", "))
	}
	if err := ls.deps.Locale.Set(ctx, lang); err != nil {
		return err
	}
	formatter.PrintSuccess("✓ Language set to %s", lang)
	return nil
}
