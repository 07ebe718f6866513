package transport

import (
	"fmt"
	"strconv"
	"strings"
)

// Callback data verbs. The verb prefixes the payload with an underscore so
// the data stays within the transport's 64-byte callback limit.
const (
	verbShowVariants = "showvar"
	verbVerify       = "verify"
	verbPage         = "page"
)

// Intent is a decoded callback action. The concrete types below form the
// closed set of things a button press can mean.
type Intent interface {
	isIntent()
}

// ShowVariants asks for the variant list of a title.
type ShowVariants struct {
	TitleID int64
}

// RequestVerification asks for the verification link of a variant.
type RequestVerification struct {
	VariantID int64
}

// PageNav moves the result list for a query to another page.
type PageNav struct {
	Page  int
	Query string
}

func (ShowVariants) isIntent()        {}
func (RequestVerification) isIntent() {}
func (PageNav) isIntent()             {}

// ShowVariantsData renders the callback payload for a title's variant list.
func ShowVariantsData(titleID int64) string {
	return verbShowVariants + "_" + strconv.FormatInt(titleID, 10)
}

// VerifyData renders the callback payload for a variant's verification step.
func VerifyData(variantID int64) string {
	return verbVerify + "_" + strconv.FormatInt(variantID, 10)
}

// PageData renders the callback payload for a result page. The page number
// comes before the query because queries may themselves contain underscores.
func PageData(page int, query string) string {
	return verbPage + "_" + strconv.Itoa(page) + "_" + query
}

// ParseCallback decodes callback data into an intent.
func ParseCallback(data string) (Intent, error) {
	verb, payload, ok := strings.Cut(data, "_")
	if !ok {
		return nil, fmt.Errorf("callback data %q has no verb", data)
	}

	switch verb {
	case verbShowVariants:
		id, err := strconv.ParseInt(payload, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("callback data %q: bad title id", data)
		}
		return ShowVariants{TitleID: id}, nil

	case verbVerify:
		id, err := strconv.ParseInt(payload, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("callback data %q: bad variant id", data)
		}
		return RequestVerification{VariantID: id}, nil

	case verbPage:
		pageRaw, query, ok := strings.Cut(payload, "_")
		if !ok {
			return nil, fmt.Errorf("callback data %q: missing query", data)
		}
		page, err := strconv.Atoi(pageRaw)
		if err != nil || page < 0 {
			return nil, fmt.Errorf("callback data %q: bad page number", data)
		}
		return PageNav{Page: page, Query: query}, nil

	default:
		return nil, fmt.Errorf("unknown callback verb %q", verb)
	}
}
