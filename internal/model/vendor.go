package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// VendorStatus is the onboarding decision on a vendor
type VendorStatus int

const (
	VendorAccepted VendorStatus = 1
	VendorRejected VendorStatus = 2
	VendorBlocked  VendorStatus = 3
)

func (s VendorStatus) String() string {
	switch s {
	case VendorAccepted:
		return "accepted"
	case VendorRejected:
		return "rejected"
	case VendorBlocked:
		return "blocked"
	default:
		return fmt.Sprintf("VendorStatus(%d)", int(s))
	}
}

// Valid reports whether s is one of the known statuses
func (s VendorStatus) Valid() bool {
	return s >= VendorAccepted && s <= VendorBlocked
}

// UnmarshalJSON rejects statuses outside 1..3
func (s *VendorStatus) UnmarshalJSON(data []byte) error {
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("vendor status: %w", err)
	}
	if !VendorStatus(v).Valid() {
		return fmt.Errorf("vendor status: unknown value %d", v)
	}
	*s = VendorStatus(v)
	return nil
}

// VendorCategory links a vendor to a category by id
type VendorCategory struct {
	ID           int64  `json:"id"`
	CategoryName string `json:"categoryName"`
}

// VendorContact is a contact person of a vendor. The division keys keep the
// console's spelling.
type VendorContact struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	DivisionName string `json:"divissionName"`
	DivisionID   int64  `json:"divissionId"`
}

// Division is a vendor division
type Division struct {
	ID           int64  `json:"id"`
	DivisionName string `json:"divisionName"`
	Location     string `json:"location"`
}

// VendorDocument is an uploaded vendor document
type VendorDocument struct {
	ID        int64  `json:"id"`
	FilePath  string `json:"filePath"`
	FileTitle string `json:"fileTitle"`
}

// Vendor is a supplier registered in the console. Categories reference
// Category records of the same tenant.
type Vendor struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy int64     `json:"createdBy"`
	UpdatedAt time.Time `json:"updatedAt"`
	UpdatedBy int64     `json:"updatedBy"`

	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	UserName    string `json:"userName"`
	Password    string `json:"password,omitempty"`
	VendorEmail string `json:"vendorEmail"`

	BusinessGrade       string `json:"businessGrade"`
	CommercialRegNo     string `json:"commercialRegNo"`
	OrganisationName    string `json:"organisationName"`
	PrincipleActivities string `json:"principleActivities"`

	Mobile                       string `json:"mobile"`
	Phone                        string `json:"phone"`
	IsTermsAndConditionsAccepted bool   `json:"isTermsAndConditionsAccepted"`

	WayNo                 string `json:"wayNo"`
	BuildingNo            string `json:"buildingNo"`
	RelatedToStakeholders bool   `json:"relatedToStakeholders"`

	CountryID   *int64 `json:"countryId"`
	CountryName string `json:"countryName"`
	StateID     *int64 `json:"stateId"`
	StateName   string `json:"stateName"`
	CityID      *int64 `json:"cityId"`
	CityName    string `json:"cityName"`

	Address    *string `json:"address"`
	PostalCode *string `json:"postalCode"`
	Fax        *string `json:"fax"`
	Website    *string `json:"website"`

	OrganisationLegalStructure      string  `json:"organisationLegalStructure"`
	OtherOrganisationLegalStructure *string `json:"otherOrganisationLegalStructure"`

	Status     VendorStatus `json:"status"`
	IsActive   bool         `json:"isActive"`
	VendorCode *string      `json:"vendorCode"`

	BankName               string `json:"bankName"`
	BankBranch             string `json:"bankBranch"`
	IFSCCode               string `json:"ifscCode"`
	AccountNumber          string `json:"accountNumber"`
	AccountBeneficiaryName string `json:"accountBeneficiaryName"`

	MajorClients          string `json:"majorClients"`
	AwardsAndRecognitions string `json:"awardsAndRecognitions"`
	ExperienceYear        int    `json:"experienceYear"`
	Specializations       string `json:"specializations"`

	Categories []VendorCategory `json:"vendorCategories"`
	Contacts   []VendorContact  `json:"usersDetails"`
	Divisions  []Division       `json:"vendorDivissions"`
	Documents  []VendorDocument `json:"vendorDocuments"`
}

// HasCategory reports whether the vendor is linked to the category id
func (v *Vendor) HasCategory(categoryID int64) bool {
	for _, c := range v.Categories {
		if c.ID == categoryID {
			return true
		}
	}
	return false
}

// CanTransact reports whether the vendor may receive business: accepted and
// active.
func (v *Vendor) CanTransact() bool {
	return v.IsActive && v.Status == VendorAccepted
}
