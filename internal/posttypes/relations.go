package posttypes

import (
	"strings"
	"unicode"

	"points-feed/internal/models"
)

// Collection names a user-owned set of stream items
type Collection string

const (
	Posts              Collection = "posts"
	TextPosts          Collection = "text_posts"
	LinkPosts          Collection = "link_posts"
	ImagePosts         Collection = "image_posts"
	TwitterFeedItems   Collection = "twitter_feed_items"
	GithubFeedItems    Collection = "github_feed_items"
	InstagramFeedItems Collection = "instagram_feed_items"
)

// DefaultCollection is what unknown discriminators resolve to
const DefaultCollection = TextPosts

type relation struct {
	kind     string
	provider models.Provider
}

var relations = map[Collection]relation{
	Posts:              {},
	TextPosts:          {kind: TextPost},
	LinkPosts:          {kind: LinkPost},
	ImagePosts:         {kind: ImagePost},
	TwitterFeedItems:   {provider: models.ProviderTwitter},
	GithubFeedItems:    {provider: models.ProviderGithub},
	InstagramFeedItems: {provider: models.ProviderInstagram},
}

// IsPostCollection reports whether c holds posts rather than feed items
func (c Collection) IsPostCollection() bool {
	r, ok := relations[c]
	return ok && r.provider == ""
}

// PostKind returns the variant held by c. Posts holds every variant and
// reports false.
func (c Collection) PostKind() (Kind, bool) {
	r, ok := relations[c]
	if !ok || r.kind == "" {
		return nil, false
	}
	return kinds[r.kind], true
}

// Provider returns the provider whose items c holds
func (c Collection) Provider() (models.Provider, bool) {
	r, ok := relations[c]
	if !ok || r.provider == "" {
		return "", false
	}
	return r.provider, true
}

// RelationFor maps a discriminator such as "TwitterFeedItem" or "LinkPost"
// to its collection. The name is tried as given, then with a trailing "Item"
// rewritten to "Post". Anything else yields DefaultCollection.
func RelationFor(discriminator string) Collection {
	name := strings.TrimSpace(discriminator)
	if name == "" {
		return DefaultCollection
	}
	for _, candidate := range []string{name, rewriteItemSuffix(name)} {
		c := Collection(pluralize(underscore(candidate)))
		if _, ok := relations[c]; ok {
			return c
		}
	}
	return DefaultCollection
}

func rewriteItemSuffix(s string) string {
	const suffix = "item"
	if len(s) < len(suffix) || !strings.EqualFold(s[len(s)-len(suffix):], suffix) {
		return s
	}
	return s[:len(s)-len(suffix)] + "Post"
}

// underscore converts CamelCase, kebab-case and spaced names to snake_case
func underscore(s string) string {
	s = strings.ReplaceAll(s, "::", "/")
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		switch {
		case r == '-' || r == ' ' || r == '/':
			b.WriteRune('_')
		case unicode.IsUpper(r):
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteRune('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func pluralize(s string) string {
	switch {
	case s == "" || strings.HasSuffix(s, "s"):
		return s
	case strings.HasSuffix(s, "y") && len(s) > 1 && !strings.ContainsRune("aeiou", rune(s[len(s)-2])):
		return s[:len(s)-1] + "ies"
	default:
		return s + "s"
	}
}
