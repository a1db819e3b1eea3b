package entity

// CompanyInfo is the letterhead configuration read once per render
type CompanyInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	LogoURL string `json:"logo_url,omitempty"`
	// Bank/fiscal footer lines for sales documents
	BankInfo string `json:"bank_info,omitempty"`
	TaxID    string `json:"tax_id,omitempty"`
}

// DefaultCompanyInfo returns the hardcoded letterhead used whenever the
// company_settings row is absent or the read fails
func DefaultCompanyInfo() CompanyInfo {
	return CompanyInfo{
		Name:    "HECHO SRL",
		Address: "Av. Winston Churchill, Santo Domingo, Rep. Dom.",
		Phone:   "(809) 555-0147",
		Email:   "info@hechosrl.com",
		TaxID:   "RNC 1-31-00000-1",
	}
}
