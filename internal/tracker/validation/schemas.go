package validation

// Field names of a job application.
const (
	FieldCompanyName     = "company_name"
	FieldJobTitle        = "job_title"
	FieldJobURL          = "job_url"
	FieldLocation        = "location"
	FieldDescription     = "description"
	FieldStatus          = "status"
	FieldApplicationDate = "application_date"
	FieldSalaryRange     = "salary_range"
)

// Field names of a note template.
const (
	FieldName    = "name"
	FieldContent = "content"
)

func jobFields(requireURL bool) []Field {
	return []Field{
		{Name: FieldCompanyName, Kind: KindText, Required: true, Rules: "max=255"},
		{Name: FieldJobTitle, Kind: KindText, Required: true, Rules: "max=255"},
		{Name: FieldJobURL, Kind: KindText, Required: requireURL, Rules: "max=500"},
		{Name: FieldLocation, Kind: KindText, Rules: "max=255"},
		{Name: FieldDescription, Kind: KindText},
		{Name: FieldStatus, Kind: KindStatus},
		{Name: FieldApplicationDate, Kind: KindDate},
		{Name: FieldSalaryRange, Kind: KindText, Rules: "max=100"},
	}
}

// JobCreateSchema accepts the fields a new job application may be created
// with. id, status, notes and the timestamps are assigned by the service; a
// new application always starts as Applied.
func JobCreateSchema(requireURL bool) *Schema {
	fields := make([]Field, 0, len(jobFields(requireURL)))
	for _, f := range jobFields(requireURL) {
		if f.Name != FieldStatus {
			fields = append(fields, f)
		}
	}
	return NewSchema("job.create", true, fields...)
}

// JobUpdateSchema accepts the same fields as creation; none is mandatory but
// required ones may not be blanked. Notes only grow through AddNote.
func JobUpdateSchema(requireURL bool) *Schema {
	return NewSchema("job.update", false, jobFields(requireURL)...)
}

func templateFields() []Field {
	return []Field{
		{Name: FieldName, Kind: KindText, Required: true, Rules: "max=255"},
		{Name: FieldContent, Kind: KindText, Required: true},
	}
}

// TemplateCreateSchema requires name and content.
func TemplateCreateSchema() *Schema {
	return NewSchema("template.create", true, templateFields()...)
}

// TemplateUpdateSchema accepts name and/or content.
func TemplateUpdateSchema() *Schema {
	return NewSchema("template.update", false, templateFields()...)
}
