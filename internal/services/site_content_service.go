package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"storefront/internal/apperr"
	"storefront/internal/domain"
	"storefront/internal/repos"
)

var defaultNav = []domain.NavItem{
	{Label: "TÜM ÜRÜNLER", Href: "/"},
	{Label: "GİYİM", Href: "/?category=Giyim"},
	{Label: "AKSESUAR", Href: "/?category=Aksesuar"},
}

var defaultBanners = []domain.Banner{
	{
		Image:      "https://images.unsplash.com/photo-1576871337622-98d48d1cf531?q=80&w=1000&auto=format&fit=crop",
		Title:      "YENİ SEZON",
		ButtonText: "ALIŞVERİŞE BAŞLA",
		ButtonLink: "/",
	},
	{
		Image:      "https://images.unsplash.com/photo-1552346154-21d32810aba3?q=80&w=1000&auto=format&fit=crop",
		Title:      "AKSESUARLAR",
		ButtonText: "GÖZ AT",
		ButtonLink: "/?category=Aksesuar",
	},
}

// SiteContentService stores admin-editable JSON blobs keyed by name.
type SiteContentService struct {
	Repo *repos.SiteConfigRepo
}

func NewSiteContentService(repo *repos.SiteConfigRepo) *SiteContentService {
	return &SiteContentService{Repo: repo}
}

// Get returns the payload for every key. Unset keys fall back to the built-in
// default for nav_items and hero_banners and to null otherwise. No keys means
// the two defaulted keys.
func (s *SiteContentService) Get(ctx context.Context, keys []string) (map[string]json.RawMessage, error) {
	if len(keys) == 0 {
		keys = []string{domain.ContentNavItems, domain.ContentHeroBanners}
	}
	out := make(map[string]json.RawMessage, len(keys))
	for _, key := range keys {
		raw, err := s.Repo.Get(key)
		switch {
		case err == nil && raw != "" && raw != "null":
			out[key] = json.RawMessage(raw)
			continue
		case err != nil && !errors.Is(err, sql.ErrNoRows):
			return nil, storeErr(err, "site content")
		}
		def, err := defaultContent(key)
		if err != nil {
			return nil, apperr.Wrap(apperr.CodeInternal, err, "site content default")
		}
		out[key] = def
	}
	return out, nil
}

func defaultContent(key string) (json.RawMessage, error) {
	switch key {
	case domain.ContentNavItems:
		return json.Marshal(defaultNav)
	case domain.ContentHeroBanners:
		return json.Marshal(defaultBanners)
	}
	return json.RawMessage("null"), nil
}

// Set stores value verbatim. It must be valid JSON.
func (s *SiteContentService) Set(ctx context.Context, key string, value json.RawMessage) error {
	if len(value) == 0 || !json.Valid(value) {
		return apperr.New(apperr.CodeValidation, "value must be valid JSON")
	}
	return storeErr(s.Repo.Set(key, string(value)), "site content")
}
