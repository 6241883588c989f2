package schema

import (
	"fmt"
	"net/url"
	"time"

	"github.com/Papalexios/schema-markup-generator/internal/domain"
)

// Issue codes produced by validation.
const (
	CodeInvalidSchema        = "INVALID_SCHEMA"
	CodeMissingPrimaryEntity = "MISSING_PRIMARY_ENTITY"
	CodeUnknownType          = "UNKNOWN_TYPE"
	CodeMissingRequired      = "MISSING_REQUIRED"
	CodeMissingRecommended   = "MISSING_RECOMMENDED"
	CodeInvalidAuthor        = "INVALID_AUTHOR"
	CodeInvalidPublisher     = "INVALID_PUBLISHER"
	CodeInvalidDate          = "INVALID_DATE"
	CodeInvalidOffer         = "INVALID_OFFER"
	CodeInvalidAddress       = "INVALID_ADDRESS"
	CodeInvalidImage         = "INVALID_IMAGE"
)

// dateLayouts are accepted datePublished formats, most specific first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Result is the outcome of validating one document.
type Result struct {
	// IsValid is true when no errors were found. Warnings alone do not
	// invalidate a document.
	IsValid bool `json:"is_valid"`
	// Errors are blocking structural issues.
	Errors []domain.ValidationIssue `json:"errors"`
	// Warnings are advisory structural issues.
	Warnings []domain.ValidationIssue `json:"warnings"`
}

// Validate checks a JSON-LD document against the rule set for
// targetType. The document may carry the target entity at top level or
// inside a @graph array. Deep per-type checks only run once every
// required property is present, since they inspect those properties.
func Validate(doc map[string]any, targetType domain.SchemaType) Result {
	if doc == nil {
		return invalid(issue(CodeInvalidSchema, "schema is not a JSON object", ""))
	}

	entity := primaryEntity(doc, targetType)
	if entity == nil {
		msg := fmt.Sprintf("no entity of type %s found at top level or in @graph", targetType)
		return invalid(issue(CodeMissingPrimaryEntity, msg, ""))
	}

	ruleSet, known := RulesFor(targetType)
	if !known {
		return Result{
			IsValid:  true,
			Warnings: []domain.ValidationIssue{issue(CodeUnknownType, fmt.Sprintf("no validation rules for type %s", targetType), "")},
		}
	}

	var result Result
	for _, prop := range ruleSet.Required {
		if propertyAbsent(entity, prop) {
			result.Errors = append(result.Errors, issue(CodeMissingRequired, fmt.Sprintf("required property %q is missing", prop), prop))
		}
	}
	for _, prop := range ruleSet.Recommended {
		if propertyAbsent(entity, prop) {
			result.Warnings = append(result.Warnings, issue(CodeMissingRecommended, fmt.Sprintf("recommended property %q is missing", prop), prop))
		}
	}

	if len(result.Errors) == 0 {
		deepCheck(entity, targetType, &result)
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

// primaryEntity locates the entity validation applies to: the document
// itself when its @type matches, otherwise the first @graph element
// whose @type equals or includes targetType.
func primaryEntity(doc map[string]any, targetType domain.SchemaType) map[string]any {
	if hasType(doc, targetType) {
		return doc
	}

	graph, ok := doc["@graph"].([]any)
	if !ok {
		return nil
	}
	for _, node := range graph {
		entity, isObject := node.(map[string]any)
		if isObject && hasType(entity, targetType) {
			return entity
		}
	}
	return nil
}

// hasType reports whether the entity's @type equals or includes target.
func hasType(entity map[string]any, target domain.SchemaType) bool {
	switch t := entity["@type"].(type) {
	case string:
		return t == string(target)
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && s == string(target) {
				return true
			}
		}
	}
	return false
}

// propertyAbsent reports whether a property is missing or empty:
// absent key, null, or empty string.
func propertyAbsent(entity map[string]any, prop string) bool {
	value, ok := entity[prop]
	if !ok || value == nil {
		return true
	}
	if s, isString := value.(string); isString && s == "" {
		return true
	}
	return false
}

// deepCheck runs type-specific structural checks plus the universal
// image check. All findings are additive to the required/recommended
// pass.
func deepCheck(entity map[string]any, targetType domain.SchemaType, result *Result) {
	switch targetType {
	case domain.TypeArticle:
		checkPersonOrOrg(entity, "author", CodeInvalidAuthor, result)
		checkPersonOrOrg(entity, "publisher", CodeInvalidPublisher, result)
		checkDate(entity, "datePublished", result)
	case domain.TypeProduct:
		checkOffers(entity, result)
	case domain.TypeLocalBusiness:
		checkAddress(entity, result)
	}

	checkImages(entity, result)
}

// checkPersonOrOrg requires each entry under prop to be an object with
// a non-empty name.
func checkPersonOrOrg(entity map[string]any, prop, code string, result *Result) {
	for _, entry := range entries(entity[prop]) {
		obj, isObject := entry.(map[string]any)
		if !isObject || propertyAbsent(obj, "name") {
			result.Errors = append(result.Errors, issue(code, fmt.Sprintf("%q must be an object with a name", prop), prop))
			return
		}
	}
}

// checkDate requires the property, if present as a string, to parse as
// a date.
func checkDate(entity map[string]any, prop string, result *Result) {
	raw, isString := entity[prop].(string)
	if !isString {
		return
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, raw); err == nil {
			return
		}
	}
	result.Errors = append(result.Errors, issue(CodeInvalidDate, fmt.Sprintf("%q is not a parseable date: %q", prop, raw), prop))
}

// checkOffers requires each offers entry to be an object carrying both
// price and priceCurrency.
func checkOffers(entity map[string]any, result *Result) {
	for _, entry := range entries(entity["offers"]) {
		obj, isObject := entry.(map[string]any)
		if !isObject || propertyAbsent(obj, "price") || propertyAbsent(obj, "priceCurrency") {
			result.Errors = append(result.Errors, issue(CodeInvalidOffer, `each "offers" entry must carry price and priceCurrency`, "offers"))
			return
		}
	}
}

// checkAddress requires address, when present, to be an object rather
// than a bare string.
func checkAddress(entity map[string]any, result *Result) {
	value, ok := entity["address"]
	if !ok || value == nil {
		return
	}
	if _, isObject := value.(map[string]any); !isObject {
		result.Errors = append(result.Errors, issue(CodeInvalidAddress, `"address" must be a structured object, not a string`, "address"))
	}
}

// checkImages applies to every type: a string image must be a
// syntactically valid absolute URL, an object image must carry a url
// property. No reachability check is performed.
func checkImages(entity map[string]any, result *Result) {
	for _, entry := range entries(entity["image"]) {
		switch img := entry.(type) {
		case string:
			if !validURL(img) {
				result.Errors = append(result.Errors, issue(CodeInvalidImage, fmt.Sprintf("image %q is not a valid URL", img), "image"))
				return
			}
		case map[string]any:
			if propertyAbsent(img, "url") {
				result.Errors = append(result.Errors, issue(CodeInvalidImage, `image objects must carry a "url" property`, "image"))
				return
			}
		}
	}
}

// entries normalizes a value that may be a single entry or an array of
// entries. Nil yields no entries.
func entries(value any) []any {
	switch v := value.(type) {
	case nil:
		return nil
	case []any:
		return v
	default:
		return []any{v}
	}
}

// validURL reports whether raw parses as an absolute URL.
func validURL(raw string) bool {
	parsed, err := url.Parse(raw)
	return err == nil && parsed.Scheme != "" && parsed.Host != ""
}

// invalid builds a failed result carrying a single error.
func invalid(err domain.ValidationIssue) Result {
	return Result{IsValid: false, Errors: []domain.ValidationIssue{err}}
}

// issue builds one validation issue.
func issue(code, message, property string) domain.ValidationIssue {
	return domain.ValidationIssue{Code: code, Message: message, Property: property}
}
