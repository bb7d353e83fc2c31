package entities

// ProductionRecord is one day's reported production for one provider at one
// clinic location, normalized from a spreadsheet row. Numeric fields are
// pointers so that a blank cell stays distinguishable from a reported zero.
type ProductionRecord struct {
	ID         string `json:"id"`
	TenantID   string `json:"tenantId"`
	ProviderID string `json:"providerId,omitempty"`
	Date       string `json:"date"` // ISO yyyy-mm-dd
	SourceTab  string `json:"sourceTab"`

	// Hygiene variant
	HoursWorked         *float64 `json:"hoursWorked,omitempty"`
	EstimatedProduction *float64 `json:"estimatedProduction,omitempty"`
	VerifiedProduction  *float64 `json:"verifiedProduction,omitempty"`
	ProductionGoal      *float64 `json:"productionGoal,omitempty"`
	VariancePercentage  *float64 `json:"variancePercentage,omitempty"`
	BonusAmount         *float64 `json:"bonusAmount,omitempty"`

	// Financial variant
	Production      *float64 `json:"production,omitempty"`
	Adjustments     *float64 `json:"adjustments,omitempty"`
	WriteOffs       *float64 `json:"writeOffs,omitempty"`
	PatientIncome   *float64 `json:"patientIncome,omitempty"`
	InsuranceIncome *float64 `json:"insuranceIncome,omitempty"`
	Unearned        *float64 `json:"unearned,omitempty"`
}

// SetNumeric assigns a parsed value to the named logical field.
func (r *ProductionRecord) SetNumeric(field string, v *float64) {
	switch field {
	case "hoursWorked":
		r.HoursWorked = v
	case "estimatedProduction":
		r.EstimatedProduction = v
	case "verifiedProduction":
		r.VerifiedProduction = v
	case "productionGoal":
		r.ProductionGoal = v
	case "variancePercentage":
		r.VariancePercentage = v
	case "bonusAmount":
		r.BonusAmount = v
	case "production":
		r.Production = v
	case "adjustments":
		r.Adjustments = v
	case "writeOffs":
		r.WriteOffs = v
	case "patientIncome":
		r.PatientIncome = v
	case "insuranceIncome":
		r.InsuranceIncome = v
	case "unearned":
		r.Unearned = v
	}
}

// Numeric returns the value of the named logical field.
func (r *ProductionRecord) Numeric(field string) *float64 {
	switch field {
	case "hoursWorked":
		return r.HoursWorked
	case "estimatedProduction":
		return r.EstimatedProduction
	case "verifiedProduction":
		return r.VerifiedProduction
	case "productionGoal":
		return r.ProductionGoal
	case "variancePercentage":
		return r.VariancePercentage
	case "bonusAmount":
		return r.BonusAmount
	case "production":
		return r.Production
	case "adjustments":
		return r.Adjustments
	case "writeOffs":
		return r.WriteOffs
	case "patientIncome":
		return r.PatientIncome
	case "insuranceIncome":
		return r.InsuranceIncome
	case "unearned":
		return r.Unearned
	}
	return nil
}

