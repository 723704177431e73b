package models

// TenantOwned is implemented by every resource that belongs to exactly one
// organization.
type TenantOwned interface {
	OwnerOrganizationID() uint64
}

func (t *Task) OwnerOrganizationID() uint64 {
	return t.OrganizationID
}

func (p *Project) OwnerOrganizationID() uint64 {
	return p.OrganizationID
}

func (i *Invitation) OwnerOrganizationID() uint64 {
	return i.OrganizationID
}

func (u *User) OwnerOrganizationID() uint64 {
	return u.OrganizationID
}
