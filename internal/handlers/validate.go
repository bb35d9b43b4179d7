package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"synctech/internal/content"
	"synctech/internal/models"
)

// Validation limits for editor and public form fields.
const (
	maxNameLen    = 100
	maxTitleLen   = 300
	maxShortLen   = 120
	maxTextLen    = 2_000
	maxMessageLen = 5_000
	maxBodyLen    = 100_000
	maxExcerptLen = 1_000
	maxLegalLen   = 50_000
	maxURLLen     = 2_048
	maxFeatures   = 30
	excerptRunes  = 200
)

// field returns the trimmed form value.
func field(r *http.Request, name string) string {
	return strings.TrimSpace(r.FormValue(name))
}

// optional maps a blank value to nil.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// splitLines returns the non-blank trimmed lines of s.
func splitLines(s string) []string {
	var out []string
	for line := range strings.Lines(s) {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// userMessage turns a content.ErrInvalid error into a sentence for a flash.
func userMessage(err error) string {
	msg := err.Error()
	if errors.Is(err, content.ErrInvalid) {
		msg = strings.TrimPrefix(msg, content.ErrInvalid.Error()+": ")
	}
	if msg == "" {
		return "Invalid input."
	}
	r, size := utf8.DecodeRuneInString(msg)
	msg = string(unicode.ToUpper(r)) + msg[size:]
	if !strings.HasSuffix(msg, ".") {
		msg += "."
	}
	return msg
}

// autoExcerpt builds an excerpt from the first paragraph of a markdown body.
func autoExcerpt(body string) string {
	for para := range strings.SplitSeq(body, "\n\n") {
		para = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(para), "#>-* "))
		if para == "" || strings.HasPrefix(para, "```") {
			continue
		}
		para = strings.Join(strings.Fields(para), " ")
		if utf8.RuneCountInString(para) <= excerptRunes {
			return para
		}
		runes := []rune(para)[:excerptRunes]
		cut := strings.LastIndexByte(string(runes), ' ')
		if cut <= 0 {
			cut = len(string(runes))
		}
		return string(runes)[:cut] + "..."
	}
	return ""
}

func tooLong(label, value string, max int) string {
	if utf8.RuneCountInString(value) > max {
		return fmt.Sprintf("%s is too long (max %d characters).", label, max)
	}
	return ""
}

func required(label, value string) string {
	if value == "" {
		return label + " is required."
	}
	return ""
}

// validURL accepts absolute http(s) URLs, site paths and in-page anchors.
func validURL(label, value string) string {
	if value == "" {
		return ""
	}
	if msg := tooLong(label, value, maxURLLen); msg != "" {
		return msg
	}
	if strings.HasPrefix(value, "/") || strings.HasPrefix(value, "#") {
		return ""
	}
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return label + " must be an http(s) URL, a path or an #anchor."
	}
	return ""
}

// first returns the first non-empty message.
func first(msgs ...string) string {
	for _, m := range msgs {
		if m != "" {
			return m
		}
	}
	return ""
}

func validateHero(h models.HeroContent) string {
	return first(
		required("Headline", h.Headline),
		tooLong("Headline", h.Headline, maxTitleLen),
		tooLong("Subheadline", h.Subheadline, maxTextLen),
		required("Button text", h.CTAText),
		tooLong("Button text", h.CTAText, maxShortLen),
		required("Button link", h.CTALink),
		validURL("Button link", h.CTALink),
	)
}

func validateSettings(s models.SiteSettings) string {
	return first(
		tooLong("Privacy policy", s.PrivacyText, maxLegalLen),
		tooLong("Terms of service", s.TermsText, maxLegalLen),
	)
}

func validateBlogHeader(h models.BlogHeader) string {
	return first(
		required("Title", h.Title),
		tooLong("Title", h.Title, maxTitleLen),
		tooLong("Subtitle", h.Subtitle, maxTextLen),
		tooLong("Badge", h.Badge, maxShortLen),
	)
}

func validateProject(p models.Project) string {
	return first(
		required("Title", p.Title),
		tooLong("Title", p.Title, maxTitleLen),
		tooLong("Category", p.Category, maxShortLen),
		tooLong("Description", p.Description, maxTextLen),
		validURL("Project link", p.Link),
		validURL("Image URL", p.ImageURL),
	)
}

func validateTestimonial(t models.Testimonial) string {
	msg := first(
		required("Name", t.Name),
		tooLong("Name", t.Name, maxNameLen),
		tooLong("Role", t.Role, maxShortLen),
		tooLong("Company", t.Company, maxShortLen),
		required("Quote", t.Quote),
		tooLong("Quote", t.Quote, maxTextLen),
	)
	if msg != "" {
		return msg
	}
	if t.Rating < models.MinRating || t.Rating > models.MaxRating {
		return fmt.Sprintf("Rating must be between %d and %d.", models.MinRating, models.MaxRating)
	}
	if t.Image != nil {
		return validURL("Image URL", *t.Image)
	}
	return ""
}

func validateService(s models.Service) string {
	icon := ""
	if s.Icon != nil {
		icon = *s.Icon
	}
	return first(
		required("Title", s.Title),
		tooLong("Title", s.Title, maxTitleLen),
		tooLong("Number", s.Number, 8),
		tooLong("Description", s.Description, maxTextLen),
		tooLong("Icon", icon, maxShortLen),
	)
}

func validatePlan(p models.PricingPlan) string {
	msg := first(
		required("Name", p.Name),
		tooLong("Name", p.Name, maxNameLen),
		required("Price", p.Price),
		tooLong("Price", p.Price, maxShortLen),
		tooLong("Period", p.Period, maxShortLen),
		tooLong("Icon", p.Icon, maxShortLen),
		tooLong("Description", p.Description, maxTextLen),
		tooLong("Button text", p.CTAText, maxShortLen),
	)
	if msg != "" {
		return msg
	}
	if len(p.Features) > maxFeatures {
		return fmt.Sprintf("A plan can list at most %d features.", maxFeatures)
	}
	for _, f := range p.Features {
		if msg := tooLong("Feature", f, maxShortLen); msg != "" {
			return msg
		}
	}
	if p.DisplayOrder < 0 {
		return "Display order cannot be negative."
	}
	return ""
}

func validatePost(title, body, excerpt string) string {
	return first(
		required("Title", title),
		tooLong("Title", title, maxTitleLen),
		tooLong("Content", body, maxBodyLen),
		tooLong("Excerpt", excerpt, maxExcerptLen),
	)
}

// validEmail reports whether s is a bare address such as a@b.co.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s && strings.Contains(s[strings.LastIndexByte(s, '@'):], ".")
}

// validateLead checks a public contact form submission.
func validateLead(in content.LeadInput) string {
	msg := first(
		required("Name", in.Name),
		tooLong("Name", in.Name, maxNameLen),
		required("Email", in.Email),
		tooLong("Email", in.Email, 254),
		required("Message", in.Message),
		tooLong("Message", in.Message, maxMessageLen),
	)
	if msg != "" {
		return msg
	}
	if !validEmail(in.Email) {
		return "Please enter a valid email address."
	}
	if in.Category != "" && !in.Category.Valid() {
		return "Please choose a topic from the list."
	}
	return ""
}
