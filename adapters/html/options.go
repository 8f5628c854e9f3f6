package pdfhtml

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-pdf/pdf"
)

const defaultScale = 1.0

// ExternalAssetsPolicy controls how external assets are handled while rendering.
type ExternalAssetsPolicy string

const (
	ExternalAssetsUnspecified ExternalAssetsPolicy = ""
	ExternalAssetsAllow       ExternalAssetsPolicy = "allow"
	ExternalAssetsBlock       ExternalAssetsPolicy = "block"
)

// Options configures page layout for a render.
type Options struct {
	PageSize             string
	Landscape            *bool
	PrintBackground      *bool
	Scale                float64
	MarginTop            string
	MarginBottom         string
	MarginLeft           string
	MarginRight          string
	PreferCSSPageSize    *bool
	BaseURL              string
	ExternalAssetsPolicy ExternalAssetsPolicy
}

var lengthPattern = regexp.MustCompile(`^\s*([0-9]+(?:\.[0-9]+)?)\s*([a-zA-Z]*)\s*$`)

var pageSizesInches = map[string]struct {
	width  float64
	height float64
}{
	"A3":     {width: 11.69, height: 16.54},
	"A4":     {width: 8.27, height: 11.69},
	"A5":     {width: 5.83, height: 8.27},
	"LETTER": {width: 8.5, height: 11},
	"LEGAL":  {width: 8.5, height: 14},
}

func mergeOptions(base, override Options) Options {
	merged := base
	if override.PageSize != "" {
		merged.PageSize = override.PageSize
	}
	if override.Landscape != nil {
		merged.Landscape = override.Landscape
	}
	if override.PrintBackground != nil {
		merged.PrintBackground = override.PrintBackground
	}
	if override.Scale != 0 {
		merged.Scale = override.Scale
	}
	if override.MarginTop != "" {
		merged.MarginTop = override.MarginTop
	}
	if override.MarginBottom != "" {
		merged.MarginBottom = override.MarginBottom
	}
	if override.MarginLeft != "" {
		merged.MarginLeft = override.MarginLeft
	}
	if override.MarginRight != "" {
		merged.MarginRight = override.MarginRight
	}
	if override.PreferCSSPageSize != nil {
		merged.PreferCSSPageSize = override.PreferCSSPageSize
	}
	if override.BaseURL != "" {
		merged.BaseURL = override.BaseURL
	}
	if override.ExternalAssetsPolicy != "" {
		merged.ExternalAssetsPolicy = override.ExternalAssetsPolicy
	}
	return merged
}

func validPageSize(size string) bool {
	_, ok := pageSizesInches[strings.ToUpper(size)]
	return ok
}

func parseLengthInches(value string) (float64, error) {
	matches := lengthPattern.FindStringSubmatch(value)
	if len(matches) != 3 {
		return 0, pdf.NewError(pdf.KindValidation, fmt.Sprintf("invalid pdf length: %s", value), nil)
	}

	unit := strings.ToLower(matches[2])
	if unit == "" {
		unit = "in"
	}

	amount, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, pdf.NewError(pdf.KindValidation, fmt.Sprintf("invalid pdf length: %s", value), err)
	}

	switch unit {
	case "in":
		return amount, nil
	case "cm":
		return amount / 2.54, nil
	case "mm":
		return amount / 25.4, nil
	case "pt":
		return amount / 72.0, nil
	case "px":
		return amount / 96.0, nil
	default:
		return 0, pdf.NewError(pdf.KindValidation, fmt.Sprintf("unsupported pdf length unit: %s", unit), nil)
	}
}

func injectBaseURL(htmlInput []byte, baseURL string) []byte {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return htmlInput
	}

	lower := strings.ToLower(string(htmlInput))
	if strings.Contains(lower, "<base") {
		return htmlInput
	}

	baseTag := fmt.Sprintf(`<base href="%s">`, html.EscapeString(baseURL))
	if insertPos, ok := afterOpenTag(lower, "<head"); ok {
		return splice(htmlInput, insertPos, baseTag)
	}
	if insertPos, ok := afterOpenTag(lower, "<html"); ok {
		return splice(htmlInput, insertPos, "<head>"+baseTag+"</head>")
	}
	return append([]byte(baseTag), htmlInput...)
}

func afterOpenTag(lower, tag string) (int, bool) {
	idx := strings.Index(lower, tag)
	if idx < 0 {
		return 0, false
	}
	end := strings.Index(lower[idx:], ">")
	if end < 0 {
		return 0, false
	}
	return idx + end + 1, true
}

func splice(input []byte, pos int, insert string) []byte {
	out := make([]byte, 0, len(input)+len(insert))
	out = append(out, input[:pos]...)
	out = append(out, insert...)
	return append(out, input[pos:]...)
}

func boolPtr(value bool) *bool {
	return &value
}
