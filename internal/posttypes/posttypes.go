// Package posttypes holds the closed set of post variants and the lookup
// table that maps type discriminators to user collections.
package posttypes

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"points-feed/internal/models"
)

// Variant names, as stored in posts.type
const (
	TextPost  = "TextPost"
	LinkPost  = "LinkPost"
	ImagePost = "ImagePost"
)

const (
	MaxCommentLength     = 256
	MaxTextContentLength = 512
	MaxLinkLength        = 2048
)

// Kind is the capability set every post variant implements
type Kind interface {
	Name() string
	Template() string
	RequiresContent() bool
	Validate(p *models.Post) error
}

type textPost struct{}

func (textPost) Name() string          { return TextPost }
func (textPost) Template() string      { return "text_post" }
func (textPost) RequiresContent() bool { return true }

func (k textPost) Validate(p *models.Post) error {
	verr := validateCommon(k, p)
	if utf8.RuneCountInString(p.Content) > MaxTextContentLength {
		verr.Add("content", "is too long (maximum is 512 characters)")
	}
	if isBlank(p.Content) {
		verr.Add(FieldBase, "Message is required")
	}
	return verr.OrNil()
}

type linkPost struct{}

func (linkPost) Name() string          { return LinkPost }
func (linkPost) Template() string      { return "link_post" }
func (linkPost) RequiresContent() bool { return true }

func (k linkPost) Validate(p *models.Post) error {
	verr := validateCommon(k, p)
	if !isBlank(p.Content) {
		if utf8.RuneCountInString(p.Content) > MaxLinkLength {
			verr.Add("content", "is too long (maximum is 2048 characters)")
		} else if !isHTTPURL(p.Content) {
			verr.Add("content", "must be a valid http or https URL")
		}
	}
	return verr.OrNil()
}

type imagePost struct{}

func (imagePost) Name() string          { return ImagePost }
func (imagePost) Template() string      { return "image_post" }
func (imagePost) RequiresContent() bool { return false }

func (k imagePost) Validate(p *models.Post) error {
	verr := validateCommon(k, p)
	if p.File == nil || isBlank(*p.File) {
		verr.Add("file", "can't be blank")
	}
	return verr.OrNil()
}

var kinds = map[string]Kind{
	TextPost:  textPost{},
	LinkPost:  linkPost{},
	ImagePost: imagePost{},
}

// Kinds returns every variant in a stable order
func Kinds() []Kind {
	return []Kind{kinds[TextPost], kinds[LinkPost], kinds[ImagePost]}
}

// Lookup returns the variant registered under name
func Lookup(name string) (Kind, bool) {
	k, ok := kinds[name]
	return k, ok
}

// Resolve returns the variant for a discriminator, defaulting to TextPost
func Resolve(discriminator string) Kind {
	if k, ok := kinds[strings.TrimSpace(discriminator)]; ok {
		return k
	}
	if c := RelationFor(discriminator); c.IsPostCollection() && c != Posts {
		k, _ := c.PostKind()
		return k
	}
	return kinds[TextPost]
}

// Validate runs the rules of the post's own variant. Posts with an unknown
// Kind are validated as text posts.
func Validate(p *models.Post) error {
	return Resolve(p.Kind).Validate(p)
}

func validateCommon(k Kind, p *models.Post) *ValidationError {
	verr := &ValidationError{}
	if p.UserID == "" {
		verr.Add("user_id", "can't be blank")
	}
	if utf8.RuneCountInString(p.Comment) > MaxCommentLength {
		verr.Add("comment", "is too long (maximum is 256 characters)")
	}
	if k.RequiresContent() && isBlank(p.Content) {
		verr.Add("content", "can't be blank")
	}
	return verr
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
