package ports

import (
	"context"

	"github.com/securevote/voting-wizard/internal/core/domain"
)

// LanguageService resolves and persists display language preferences.
type LanguageService interface {
	Get(ctx context.Context, userID string) (domain.Language, error)
	Set(ctx context.Context, userID, code string) (domain.Language, error)
	// Resolve picks a supported language from an explicit code, falling back
	// to the Accept-Language header and then the default.
	Resolve(query, acceptLanguage string) domain.Language
	Translate(code, key string) string
	Translations(code string) map[string]string
}
