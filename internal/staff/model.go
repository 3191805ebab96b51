package staff

import "time"

type UsherRole string

const (
	UsherRoleUsher     UsherRole = "usher"
	UsherRoleHeadUsher UsherRole = "head_usher"
	UsherRoleProtocol  UsherRole = "protocol"
	UsherRoleSecurity  UsherRole = "security"
)

func (r UsherRole) Valid() bool {
	switch r {
	case UsherRoleUsher, UsherRoleHeadUsher, UsherRoleProtocol, UsherRoleSecurity:
		return true
	}
	return false
}

type VendorRole string

const (
	VendorCaterer      VendorRole = "caterer"
	VendorDecorator    VendorRole = "decorator"
	VendorPhotographer VendorRole = "photographer"
	VendorDJ           VendorRole = "dj"
	VendorMC           VendorRole = "mc"
	VendorSecurity     VendorRole = "security"
	VendorOther        VendorRole = "other"
)

func (r VendorRole) Valid() bool {
	switch r {
	case VendorCaterer, VendorDecorator, VendorPhotographer, VendorDJ, VendorMC, VendorSecurity, VendorOther:
		return true
	}
	return false
}

type Usher struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	EventID   uint64    `gorm:"index;not null" json:"eventId"`
	Name      string    `gorm:"not null" json:"name"`
	Phone     *string   `json:"phone"`
	Role      UsherRole `gorm:"type:varchar(16);not null" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Vendor is a supplier working the event. CanOverrideCapacity lets the
// vendor's staff pass the gate when the venue is full.
type Vendor struct {
	ID                  uint64     `gorm:"primaryKey" json:"id"`
	EventID             uint64     `gorm:"index;not null" json:"eventId"`
	Name                string     `gorm:"not null" json:"name"`
	ContactName         *string    `json:"contactName"`
	Email               *string    `json:"email"`
	Phone               *string    `json:"phone"`
	Role                VendorRole `gorm:"type:varchar(16);not null" json:"role"`
	Notes               *string    `gorm:"type:text" json:"notes"`
	CanOverrideCapacity bool       `gorm:"not null" json:"canOverrideCapacity"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}
