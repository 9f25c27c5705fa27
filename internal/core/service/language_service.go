package service

import (
	"context"
	"fmt"

	"golang.org/x/text/language"

	"github.com/securevote/voting-wizard/internal/core/domain"
	"github.com/securevote/voting-wizard/internal/core/ports"
)

// supported is ordered by preference; the first entry is the fallback.
var supported = []language.Tag{language.English, language.Hindi}

type languageService struct {
	prefs   ports.PreferenceStore
	matcher language.Matcher
}

// NewLanguageService returns a LanguageService backed by prefs.
func NewLanguageService(prefs ports.PreferenceStore) ports.LanguageService {
	return &languageService{prefs: prefs, matcher: language.NewMatcher(supported)}
}

func (s *languageService) Get(ctx context.Context, userID string) (domain.Language, error) {
	lang, err := s.prefs.GetLanguage(ctx, userID)
	if err != nil {
		return domain.Language{}, fmt.Errorf("get language: %w", err)
	}
	return lang, nil
}

// Set stores the language for code. Codes are matched loosely, so "hi-IN"
// selects Hindi; anything unsupported falls back to English.
func (s *languageService) Set(ctx context.Context, userID, code string) (domain.Language, error) {
	lang := s.Resolve(code, "")
	if err := s.prefs.SetLanguage(ctx, userID, lang); err != nil {
		return domain.Language{}, fmt.Errorf("set language: %w", err)
	}
	return lang, nil
}

func (s *languageService) Resolve(query, acceptLanguage string) domain.Language {
	if query != "" {
		if tag, err := language.Parse(query); err == nil {
			return s.match(tag)
		}
	}
	if acceptLanguage != "" {
		if tags, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil && len(tags) > 0 {
			return s.match(tags...)
		}
	}
	return domain.DefaultLanguage
}

func (s *languageService) match(tags ...language.Tag) domain.Language {
	_, idx, conf := s.matcher.Match(tags...)
	if conf == language.No {
		return domain.DefaultLanguage
	}
	base, _ := supported[idx].Base()
	if lang, ok := domain.LanguageByCode(base.String()); ok {
		return lang
	}
	return domain.DefaultLanguage
}

func (s *languageService) Translate(code, key string) string {
	return domain.Translate(code, key)
}

func (s *languageService) Translations(code string) map[string]string {
	return domain.Translations(code)
}
