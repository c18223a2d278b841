package model

// SocialData is the packed sub-document holding Open Graph and Twitter Card
// metadata scraped from an article page. Stored under key "s" of the article
// extra bag.
type SocialData struct {
	OpenGraph map[string]string `json:"o,omitempty"`
	Twitter   map[string]string `json:"t,omitempty"`
}

func (SocialData) PackKey() string { return "s" }

// SocialValue resolves one effective value per semantic key. Open Graph wins
// over Twitter Card data when both carry a non-empty value.
func (s SocialData) SocialValue(key string) string {
	if value := s.OpenGraph[key]; value != "" {
		return value
	}
	if value := s.Twitter[key]; value != "" {
		return value
	}
	return ""
}

func (s SocialData) Title() string {
	return s.SocialValue("title")
}

func (s SocialData) Description() string {
	return s.SocialValue("description")
}
