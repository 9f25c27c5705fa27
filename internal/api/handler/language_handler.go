package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/securevote/voting-wizard/internal/core/domain"
	"github.com/securevote/voting-wizard/internal/core/ports"
)

type LanguageHandler struct {
	languages ports.LanguageService
}

func NewLanguageHandler(languages ports.LanguageService) *LanguageHandler {
	return &LanguageHandler{languages: languages}
}

// Strings returns the UI string table. The language comes from ?lang=, then
// Accept-Language, then English.
//
// @Summary      UI strings
// @Tags         language
// @Produce      json
// @Param        lang  query     string  false  "Language code (en, hi)"
// @Success      200   {object}  i18nResponse
// @Router       /v1/i18n [get]
func (h *LanguageHandler) Strings(c echo.Context) error {
	lang := h.languages.Resolve(c.QueryParam("lang"), c.Request().Header.Get("Accept-Language"))
	c.Response().Header().Set("Content-Language", lang.Code)
	return c.JSON(http.StatusOK, i18nResponse{
		Language:  lang,
		Available: []domain.Language{domain.English, domain.Hindi},
		Strings:   h.languages.Translations(lang.Code),
	})
}

// Get returns the caller's stored language.
//
// @Summary      Get language
// @Tags         language
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Language
// @Router       /v1/language [get]
func (h *LanguageHandler) Get(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	lang, err := h.languages.Get(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lang)
}

// Set stores the caller's language.
//
// @Summary      Set language
// @Tags         language
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      languageRequest  true  "Language code"
// @Success      200   {object}  domain.Language
// @Failure      422   {object}  errorResponse
// @Router       /v1/language [put]
func (h *LanguageHandler) Set(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req languageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	lang, err := h.languages.Set(c.Request().Context(), userID, req.Code)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lang)
}
