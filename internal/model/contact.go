package model

// ContactData is the contact block of a submission. Name and email are
// required; the rest is optional lead context.
type ContactData struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Company  string `json:"company"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
	Source   string `json:"source"`
}

// mergeField keeps the stored value when it is strictly more complete
// (longer) than the incoming one. This models "user manually corrected a
// field, don't clobber it with stale data".
func mergeField(stored, incoming string) string {
	if incoming == "" {
		return stored
	}
	if len(stored) > len(incoming) {
		return stored
	}
	return incoming
}

// MergeInto refreshes a user profile from this contact block using the
// merge-write rule above.
func (c ContactData) MergeInto(u *User) {
	u.FullName = mergeField(u.FullName, c.FullName)
	u.Company = mergeField(u.Company, c.Company)
	u.JobRole = mergeField(u.JobRole, c.Role)
	u.Phone = mergeField(u.Phone, c.Phone)
}
