// Package domain provides domain models used across the application.
package domain

// SchemaType is a Schema.org type the generator knows how to produce.
type SchemaType string

// Supported Schema.org types.
const (
	TypeArticle       SchemaType = "Article"
	TypeProduct       SchemaType = "Product"
	TypeRecipe        SchemaType = "Recipe"
	TypeLocalBusiness SchemaType = "LocalBusiness"
	TypeOrganization  SchemaType = "Organization"
	TypeWebPage       SchemaType = "WebPage"
	TypeFAQPage       SchemaType = "FAQPage"
	TypeHowTo         SchemaType = "HowTo"
	TypeVideoObject   SchemaType = "VideoObject"
)

// DefaultSchemaType is used when AI classification fails or returns
// an unrecognized type.
const DefaultSchemaType = TypeWebPage

// SchemaTypes lists every supported type in display order.
var SchemaTypes = []SchemaType{
	TypeArticle,
	TypeProduct,
	TypeRecipe,
	TypeLocalBusiness,
	TypeOrganization,
	TypeWebPage,
	TypeFAQPage,
	TypeHowTo,
	TypeVideoObject,
}

// OpportunityTypes is the restricted sub-enumeration that opportunity
// detection may return. Anything outside it is discarded.
var OpportunityTypes = []SchemaType{
	TypeFAQPage,
	TypeHowTo,
}

// ParseSchemaType returns the matching SchemaType and true when raw is one
// of the supported types. Unrecognized input returns false rather than a
// best-effort guess, so AI output outside the enumeration is dropped.
func ParseSchemaType(raw string) (SchemaType, bool) {
	for _, st := range SchemaTypes {
		if string(st) == raw {
			return st, true
		}
	}
	return "", false
}

// IsOpportunityType reports whether st belongs to the opportunity
// sub-enumeration.
func IsOpportunityType(st SchemaType) bool {
	for _, ot := range OpportunityTypes {
		if st == ot {
			return true
		}
	}
	return false
}
