package model

// ArticleInfo is the packed sub-document holding the raw and processed HTML
// of an article. Stored under key "a" of the article extra bag.
type ArticleInfo struct {
	Author       string `json:"a,omitempty"`
	FullHTML     string `json:"h,omitempty"`
	FullTextHTML string `json:"t,omitempty"`
}

func (ArticleInfo) PackKey() string { return "a" }
