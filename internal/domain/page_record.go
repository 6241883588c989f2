package domain

// SchemaStatus describes what page analysis found for a URL.
type SchemaStatus string

// Schema statuses assigned by the page analyzer.
const (
	// StatusUnknown is the zero value before analysis runs.
	StatusUnknown SchemaStatus = "unknown"
	// StatusFound means valid JSON-LD markup exists on the page.
	StatusFound SchemaStatus = "found"
	// StatusNotFound means no usable JSON-LD markup exists on the page.
	StatusNotFound SchemaStatus = "not_found"
	// StatusCached means analysis was skipped because a satisfactory
	// cache entry already covered the URL.
	StatusCached SchemaStatus = "cached"
	// StatusAuditRecommended means existing JSON-LD was found and should
	// be audited and upgraded rather than generated from scratch.
	StatusAuditRecommended SchemaStatus = "audit_recommended"
	// StatusAnalysisFailed means the page could not be fetched or parsed.
	StatusAnalysisFailed SchemaStatus = "analysis_failed"
)

// GenerationStatus tracks AI schema generation per page.
type GenerationStatus string

// Generation statuses.
const (
	GenerationNotStarted GenerationStatus = "not_started"
	GenerationRunning    GenerationStatus = "generating"
	GenerationSuccess    GenerationStatus = "success"
	GenerationFailed     GenerationStatus = "failed"
)

// ValidationStatus tracks local structural validation per page.
type ValidationStatus string

// Validation statuses.
const (
	ValidationNotValidated ValidationStatus = "not_validated"
	ValidationRunning      ValidationStatus = "validating"
	ValidationValid        ValidationStatus = "valid"
	ValidationInvalid      ValidationStatus = "invalid"
)

// InjectionStatus tracks the WordPress write-back per page. The empty
// string means injection has not been attempted.
type InjectionStatus string

// Injection statuses.
const (
	InjectionPending InjectionStatus = "pending"
	InjectionSuccess InjectionStatus = "success"
	InjectionFailed  InjectionStatus = "failed"
)

// ValidationIssue is one structural error or warning produced by the
// schema validator.
type ValidationIssue struct {
	// Machine-readable issue code, e.g. MISSING_REQUIRED.
	Code string `json:"code" mapstructure:"code"`
	// Human-readable description of the issue.
	Message string `json:"message" mapstructure:"message"`
	// Property the issue refers to, when it concerns a single property.
	Property string `json:"property,omitempty" mapstructure:"property"`
}

// PageRecord is the central mutable entity: one per analyzed page URL,
// carried through analysis, generation, validation, and injection.
type PageRecord struct {
	// URL is the stable identity key for the record.
	URL string `json:"url" mapstructure:"url"`
	// Title extracted from the page or reused from the cache.
	Title string `json:"title" mapstructure:"title"`
	// Content is the plain-text snippet fed to generation prompts.
	// Cleared once schema work starts to bound memory.
	Content string `json:"content,omitempty" mapstructure:"content"`
	// SchemaStatus is the analysis outcome for the page.
	SchemaStatus SchemaStatus `json:"schema_status" mapstructure:"schema_status"`
	// AnalysisError is set iff SchemaStatus is StatusAnalysisFailed.
	AnalysisError string `json:"analysis_error,omitempty" mapstructure:"analysis_error"`
	// ExistingSchema is JSON-LD already present on the page, if any.
	ExistingSchema map[string]any `json:"existing_schema,omitempty" mapstructure:"existing_schema"`
	// Schema is the generated or audited JSON-LD document, if any.
	Schema map[string]any `json:"schema,omitempty" mapstructure:"schema"`
	// SelectedSchemaType is the Schema.org type chosen for generation.
	SelectedSchemaType SchemaType `json:"selected_schema_type,omitempty" mapstructure:"selected_schema_type"`
	// Opportunities are additionally-detected applicable types,
	// independent of SelectedSchemaType.
	Opportunities []SchemaType `json:"opportunities,omitempty" mapstructure:"opportunities"`
	// GenerationStatus tracks AI generation for the page.
	GenerationStatus GenerationStatus `json:"generation_status" mapstructure:"generation_status"`
	// GenerationError is set iff GenerationStatus is GenerationFailed.
	GenerationError string `json:"generation_error,omitempty" mapstructure:"generation_error"`
	// ValidationStatus tracks structural validation of Schema.
	ValidationStatus ValidationStatus `json:"validation_status" mapstructure:"validation_status"`
	// ValidationErrors are blocking structural issues.
	ValidationErrors []ValidationIssue `json:"validation_errors,omitempty" mapstructure:"validation_errors"`
	// ValidationWarnings are advisory structural issues.
	ValidationWarnings []ValidationIssue `json:"validation_warnings,omitempty" mapstructure:"validation_warnings"`
	// InjectionStatus tracks the WordPress write-back.
	InjectionStatus InjectionStatus `json:"injection_status,omitempty" mapstructure:"injection_status"`
	// InjectionError is set iff InjectionStatus is InjectionFailed.
	InjectionError string `json:"injection_error,omitempty" mapstructure:"injection_error"`
}

// NewPageRecord returns a record in its initial state for url.
func NewPageRecord(url string) *PageRecord {
	return &PageRecord{
		URL:              url,
		SchemaStatus:     StatusUnknown,
		GenerationStatus: GenerationNotStarted,
		ValidationStatus: ValidationNotValidated,
	}
}

// Processable reports whether the page should be offered for schema
// generation: pages with no usable markup and pages whose existing
// markup should be audited.
func (p *PageRecord) Processable() bool {
	return p.SchemaStatus == StatusNotFound || p.SchemaStatus == StatusAuditRecommended
}

// NeedsAudit reports whether generation should run in audit mode,
// feeding the existing markup back to the provider.
func (p *PageRecord) NeedsAudit() bool {
	return p.SchemaStatus == StatusAuditRecommended && p.ExistingSchema != nil
}
