// Package schema validates JSON-LD documents against per-type
// structural rules. Validation is pure and synchronous: no network
// I/O, so it is cheap enough to run on every manual edit.
package schema

import "github.com/Papalexios/schema-markup-generator/internal/domain"

// RuleSet lists the properties a Schema.org type must and should carry.
type RuleSet struct {
	// Required properties; absence is an error.
	Required []string
	// Recommended properties; absence is a warning.
	Recommended []string
}

// rules is the static rule table, keyed by Schema.org type. Derived
// from Google's rich-results documentation for each type.
var rules = map[domain.SchemaType]RuleSet{
	domain.TypeArticle: {
		Required:    []string{"headline", "image", "author", "datePublished"},
		Recommended: []string{"dateModified", "publisher", "description", "mainEntityOfPage"},
	},
	domain.TypeProduct: {
		Required:    []string{"name", "image", "description", "offers"},
		Recommended: []string{"brand", "sku", "aggregateRating", "review"},
	},
	domain.TypeRecipe: {
		Required:    []string{"name", "image", "recipeIngredient", "recipeInstructions"},
		Recommended: []string{"author", "prepTime", "cookTime", "totalTime", "recipeYield", "nutrition", "aggregateRating"},
	},
	domain.TypeLocalBusiness: {
		Required:    []string{"name", "address", "telephone"},
		Recommended: []string{"url", "geo", "openingHoursSpecification", "priceRange", "image"},
	},
	domain.TypeOrganization: {
		Required:    []string{"name", "url"},
		Recommended: []string{"logo", "sameAs", "contactPoint"},
	},
	domain.TypeWebPage: {
		Required:    []string{"name"},
		Recommended: []string{"description", "url", "breadcrumb"},
	},
	domain.TypeFAQPage: {
		Required:    []string{"mainEntity"},
		Recommended: nil,
	},
	domain.TypeHowTo: {
		Required:    []string{"name", "step"},
		Recommended: []string{"totalTime", "estimatedCost", "supply", "tool", "image"},
	},
	domain.TypeVideoObject: {
		Required:    []string{"name", "description", "thumbnailUrl", "uploadDate"},
		Recommended: []string{"duration", "contentUrl", "embedUrl"},
	},
}

// RulesFor returns the rule set for a type. The second return value is
// false for types the validator has no rules for.
func RulesFor(t domain.SchemaType) (RuleSet, bool) {
	rs, ok := rules[t]
	return rs, ok
}
