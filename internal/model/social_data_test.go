package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSocialValuePrecedence(t *testing.T) {
	data := SocialData{
		OpenGraph: map[string]string{"title": "og"},
		Twitter:   map[string]string{"title": "tw"},
	}
	require.Equal(t, "og", data.SocialValue("title"))

	data.OpenGraph = nil
	require.Equal(t, "tw", data.SocialValue("title"))

	data.Twitter = nil
	require.Equal(t, "", data.SocialValue("title"))
}

func TestSocialValueFallsThroughEmptyOpenGraph(t *testing.T) {
	data := SocialData{
		OpenGraph: map[string]string{"description": ""},
		Twitter:   map[string]string{"description": "tw desc"},
	}
	require.Equal(t, "tw desc", data.Description())
}

func TestSocialTitleAndDescription(t *testing.T) {
	data := SocialData{
		OpenGraph: map[string]string{"title": "a", "description": "b"},
	}
	require.Equal(t, "a", data.Title())
	require.Equal(t, "b", data.Description())
}
