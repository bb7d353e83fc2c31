package headers

// FieldSchema describes the logical fields one sync variant expects to find
// in a sheet, with the human header spellings each field tolerates.
// Field order matters for matching: more specific fields are listed before
// generic ones so that "Verified Production" is never claimed by "production".
type FieldSchema struct {
	Variant string
	// Fields in matching priority order. The date field must be present.
	Fields []Field
}

type Field struct {
	Name     string
	Synonyms []string
	Numeric  bool
}

const (
	FieldDate = "date"
	FieldUUID = "uuid"
)

// VariantHygiene covers per-provider daily hygiene production sheets.
var VariantHygiene = FieldSchema{
	Variant: "hygiene",
	Fields: []Field{
		{Name: FieldDate, Synonyms: []string{"date", "day", "service date", "production date"}},
		{Name: FieldUUID, Synonyms: []string{"uuid", "record id", "sync id"}},
		{Name: "hoursWorked", Synonyms: []string{"hours worked", "time worked", "hours", "hrs"}, Numeric: true},
		{Name: "estimatedProduction", Synonyms: []string{"estimated production", "est production", "scheduled production", "estimate"}, Numeric: true},
		{Name: "verifiedProduction", Synonyms: []string{"verified production", "actual production", "completed production"}, Numeric: true},
		{Name: "productionGoal", Synonyms: []string{"production goal", "daily goal", "goal", "target"}, Numeric: true},
		{Name: "variancePercentage", Synonyms: []string{"variance percentage", "variance %", "% to goal", "variance"}, Numeric: true},
		{Name: "bonusAmount", Synonyms: []string{"bonus amount", "bonus"}, Numeric: true},
	},
}

// VariantFinancial covers per-location daily financial sheets.
var VariantFinancial = FieldSchema{
	Variant: "financial",
	Fields: []Field{
		{Name: FieldDate, Synonyms: []string{"date", "day", "business date"}},
		{Name: FieldUUID, Synonyms: []string{"uuid", "record id", "sync id"}},
		{Name: "writeOffs", Synonyms: []string{"write offs", "write-offs", "writeoffs", "w/o"}, Numeric: true},
		{Name: "patientIncome", Synonyms: []string{"patient income", "pt income", "patient payments"}, Numeric: true},
		{Name: "insuranceIncome", Synonyms: []string{"insurance income", "ins income", "insurance payments"}, Numeric: true},
		{Name: "adjustments", Synonyms: []string{"adjustments", "adj"}, Numeric: true},
		{Name: "unearned", Synonyms: []string{"unearned income", "unearned", "prepayments"}, Numeric: true},
		{Name: "production", Synonyms: []string{"gross production", "total production", "production"}, Numeric: true},
	},
}

// SchemaFor returns the field schema for a variant name, defaulting to hygiene.
func SchemaFor(variant string) FieldSchema {
	if variant == VariantFinancial.Variant {
		return VariantFinancial
	}
	return VariantHygiene
}

// NumericFields lists the numeric logical field names in schema order.
func (s FieldSchema) NumericFields() []string {
	var out []string
	for _, f := range s.Fields {
		if f.Numeric {
			out = append(out, f.Name)
		}
	}
	return out
}

func (s FieldSchema) dateSynonyms() []string {
	for _, f := range s.Fields {
		if f.Name == FieldDate {
			return f.Synonyms
		}
	}
	return nil
}
