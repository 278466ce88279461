// Package render maps a field's inert style attributes to presentation
// tokens. The builder's live preview and the registrant-facing form feed
// the same field through the same resolvers, so both render identically
// regardless of which attributes are populated.
//
// Every resolver is total: unrecognised or absent input maps to a defined
// default, never an error or an empty token.
package render

import "strings"

// Token is a semantic presentation class understood by the consuming UI.
type Token string

// FontSizeToken resolves a text size hint.
func FontSizeToken(size string) Token {
	switch normalize(size) {
	case "xs":
		return "formflow-text-xs"
	case "sm":
		return "formflow-text-sm"
	case "lg":
		return "formflow-text-lg"
	case "xl":
		return "formflow-text-xl"
	case "2xl":
		return "formflow-text-2xl"
	default:
		return "formflow-text-base"
	}
}

// FontWeightToken resolves a text weight hint.
func FontWeightToken(weight string) Token {
	switch normalize(weight) {
	case "light":
		return "formflow-font-light"
	case "medium":
		return "formflow-font-medium"
	case "semibold":
		return "formflow-font-semibold"
	case "bold":
		return "formflow-font-bold"
	default:
		return "formflow-font-normal"
	}
}

// AlignToken resolves an alignment hint.
func AlignToken(align string) Token {
	switch normalize(align) {
	case "center":
		return "formflow-align-center"
	case "right":
		return "formflow-align-right"
	case "justify":
		return "formflow-align-justify"
	default:
		return "formflow-align-left"
	}
}

// DecorationToken resolves a text decoration hint.
func DecorationToken(decoration string) Token {
	switch normalize(decoration) {
	case "underline":
		return "formflow-underline"
	case "strike", "strikethrough", "line-through":
		return "formflow-strike"
	case "italic":
		return "formflow-italic"
	default:
		return "formflow-decoration-none"
	}
}

// ColorValue passes through CSS color values and falls back to the theme
// default for blanks.
func ColorValue(color string) string {
	if trimmed := strings.TrimSpace(color); trimmed != "" {
		return trimmed
	}
	return "inherit"
}

// ButtonStyleToken resolves a link/button style hint.
func ButtonStyleToken(style string) Token {
	switch normalize(style) {
	case "secondary":
		return "formflow-btn-secondary"
	case "outline":
		return "formflow-btn-outline"
	case "ghost", "link":
		return "formflow-btn-ghost"
	case "danger":
		return "formflow-btn-danger"
	default:
		return "formflow-btn-primary"
	}
}

// ButtonSizeToken resolves a button size hint.
func ButtonSizeToken(size string) Token {
	switch normalize(size) {
	case "sm":
		return "formflow-btn-sm"
	case "lg":
		return "formflow-btn-lg"
	default:
		return "formflow-btn-md"
	}
}

// WidthToken resolves a width hint.
func WidthToken(width string) Token {
	switch normalize(width) {
	case "full":
		return "formflow-w-full"
	case "half":
		return "formflow-w-half"
	default:
		return "formflow-w-auto"
	}
}

// ImageSizeToken resolves an image size hint.
func ImageSizeToken(size string) Token {
	switch normalize(size) {
	case "sm":
		return "formflow-img-sm"
	case "lg":
		return "formflow-img-lg"
	case "full":
		return "formflow-img-full"
	default:
		return "formflow-img-md"
	}
}

// BorderToken resolves an image border hint.
func BorderToken(border string) Token {
	switch normalize(border) {
	case "rounded":
		return "formflow-border-rounded"
	case "circle":
		return "formflow-border-circle"
	case "plain", "square":
		return "formflow-border-square"
	default:
		return "formflow-border-none"
	}
}

// ShadowToken resolves the image shadow flag.
func ShadowToken(shadow bool) Token {
	if shadow {
		return "formflow-shadow"
	}
	return "formflow-shadow-none"
}

// RatingIconToken resolves the icon set of a rating field.
func RatingIconToken(icon string) Token {
	switch normalize(icon) {
	case "heart":
		return "formflow-rating-heart"
	case "thumb", "thumbs", "thumbs-up":
		return "formflow-rating-thumb"
	case "number", "numeric":
		return "formflow-rating-number"
	default:
		return "formflow-rating-star"
	}
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
