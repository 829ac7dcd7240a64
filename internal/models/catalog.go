package models

// CatalogItem is one entry of the static item dump: a stable unique name plus
// localized display names keyed by locale code (e.g. "FR-FR", "EN-US").
type CatalogItem struct {
	UniqueName     string            `json:"UniqueName"`
	LocalizedNames map[string]string `json:"LocalizedNames"`
}

// Name returns the display name for the given locale, falling back to EN-US
// and then to the unique name when no translation exists.
func (c CatalogItem) Name(locale string) string {
	if name, ok := c.LocalizedNames[locale]; ok && name != "" {
		return name
	}
	if name, ok := c.LocalizedNames["EN-US"]; ok && name != "" {
		return name
	}
	return c.UniqueName
}

type CatalogSearchResult struct {
	Items      []CatalogMatch `json:"items"`
	TotalCount int            `json:"total_count"`
}

// CatalogMatch is a search hit with the name already resolved for the locale
// the caller searched in.
type CatalogMatch struct {
	UniqueName  string `json:"unique_name"`
	DisplayName string `json:"display_name"`
}
